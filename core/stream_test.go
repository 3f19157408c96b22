package core

import (
	"errors"
	"io"
	"testing"
)

// fakeStream replays a fixed event sequence, then a terminal error.
type fakeStream struct {
	events   []StreamEvent
	terminal error
	closed   bool
}

func (f *fakeStream) Recv() (StreamEvent, error) {
	if len(f.events) == 0 {
		if f.terminal != nil {
			return StreamEvent{}, f.terminal
		}
		return StreamEvent{}, io.EOF
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, nil
}

func (f *fakeStream) Close() error {
	f.closed = true
	return nil
}

func TestCollectStreamReturnsCompletedResponse(t *testing.T) {
	msg, _ := NewTextMessage(RoleAssistant, "done")
	final := &Response{ID: "resp-1", Choices: []Choice{{Message: msg, FinishReason: "stop"}}}

	s := &fakeStream{events: []StreamEvent{
		{Kind: EventOutputItemDelta, Delta: "do"},
		{Kind: EventOutputItemDelta, Delta: "ne"},
		{Kind: EventCompleted, Response: final},
	}}

	resp, err := CollectStream(s)
	if err != nil {
		t.Fatalf("CollectStream error = %v", err)
	}
	if resp != final {
		t.Errorf("resp = %+v, want the completed event's response", resp)
	}
	if !s.closed {
		t.Error("stream was not closed")
	}
}

func TestCollectStreamSynthesizesFromDeltas(t *testing.T) {
	s := &fakeStream{events: []StreamEvent{
		{Kind: EventOutputItemAdded, Item: &OutputItem{ID: "item-1", Type: "message"}},
		{Kind: EventOutputItemDelta, ItemID: "item-1", Delta: "hello "},
		{Kind: EventOutputItemDelta, ItemID: "item-1", Delta: "world"},
	}}

	resp, err := CollectStream(s)
	if err != nil {
		t.Fatalf("CollectStream error = %v", err)
	}
	if len(resp.Choices) != 1 {
		t.Fatalf("Choices = %+v, want one synthesized choice", resp.Choices)
	}
	if got := resp.Choices[0].Message.Text(); got != "hello world" {
		t.Errorf("text = %q, want %q", got, "hello world")
	}
	if resp.Choices[0].FinishReason != "stop" {
		t.Errorf("FinishReason = %q, want %q", resp.Choices[0].FinishReason, "stop")
	}
}

func TestCollectStreamPropagatesTerminalError(t *testing.T) {
	terminal := &Error{Detail: "boom", Err: ErrNetwork}
	s := &fakeStream{
		events:   []StreamEvent{{Kind: EventOutputItemDelta, Delta: "partial"}},
		terminal: terminal,
	}

	_, err := CollectStream(s)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("error = %v, want ErrNetwork", err)
	}
	if !s.closed {
		t.Error("stream was not closed after terminal error")
	}
}

func TestCollectStreamEmpty(t *testing.T) {
	resp, err := CollectStream(&fakeStream{})
	if err != nil {
		t.Fatalf("CollectStream error = %v", err)
	}
	if len(resp.Choices) != 0 {
		t.Errorf("Choices = %+v, want none", resp.Choices)
	}
}
