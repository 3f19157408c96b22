package core

import (
	"encoding/json"
	"errors"
	"io"
)

// EventKind discriminates stream event variants.
type EventKind string

const (
	// EventOutputItemAdded announces a new output item.
	EventOutputItemAdded EventKind = "output_item.added"
	// EventOutputItemDelta carries incremental content for an output item.
	EventOutputItemDelta EventKind = "output_item.delta"
	// EventCompleted carries the final response and ends the stream.
	EventCompleted EventKind = "response.completed"
	// EventUnrecognized carries a payload whose discriminator this version
	// does not know. Callers may skip these to stay forward compatible.
	EventUnrecognized EventKind = "unrecognized"
)

// OutputItem is one unit of streamed model output.
type OutputItem struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Message *Message `json:"message,omitempty"`
}

// StreamEvent is one incremental unit of a streaming response. Kind selects
// which fields are populated.
type StreamEvent struct {
	Kind EventKind

	// Item is set for EventOutputItemAdded.
	Item *OutputItem

	// ItemID and Delta are set for EventOutputItemDelta.
	ItemID string
	Delta  string

	// Response is set for EventCompleted.
	Response *Response

	// Raw is the undecoded payload for EventUnrecognized.
	Raw json.RawMessage
}

// Stream yields events in arrival order until io.EOF. The sequence is cold
// and pull-driven: no bytes are read from the transport until Recv is
// called. Recv returns io.EOF after the final event; any other error is
// terminal and ends the sequence. Close releases the underlying transport
// and may be called at any time to cancel; it is idempotent.
type Stream interface {
	Recv() (StreamEvent, error)
	Close() error
}

// CollectStream drains a stream and returns the final response, closing the
// stream when done. If the transport ends before a completed event arrives,
// the accumulated deltas are folded into a synthesized single-choice
// response.
func CollectStream(s Stream) (*Response, error) {
	defer s.Close()

	var text string
	for {
		ev, err := s.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		switch ev.Kind {
		case EventOutputItemDelta:
			text += ev.Delta
		case EventCompleted:
			return ev.Response, nil
		}
	}

	resp := &Response{}
	if text != "" {
		msg, err := NewTextMessage(RoleAssistant, text)
		if err != nil {
			return nil, err
		}
		resp.Choices = []Choice{{Message: msg, FinishReason: "stop"}}
	}
	return resp, nil
}
