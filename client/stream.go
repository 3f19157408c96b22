package client

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/loomlabs/loom/core"
	"github.com/loomlabs/loom/internal/sse"
)

// doneSentinel is the payload that signals clean stream termination.
var doneSentinel = []byte("[DONE]")

// Stream is the pull-driven event sequence of one streaming call. No bytes
// are read from the transport until Recv is called, and each Recv suspends
// until one complete record is available. Events arrive strictly in
// emission order. Recv returns io.EOF once the stream ends normally; any
// other error is terminal. Close cancels the stream, releases the
// transport, and guarantees no further buffering afterwards.
//
// A Stream is owned by a single caller and is not safe for concurrent Recv.
type Stream struct {
	ctx     context.Context
	body    io.ReadCloser
	scanner *sse.Scanner

	closed bool
	done   bool
}

func newStream(ctx context.Context, body io.ReadCloser, maxRecordSize int) *Stream {
	return &Stream{
		ctx:     ctx,
		body:    body,
		scanner: sse.NewScannerSize(body, maxRecordSize),
	}
}

// Recv returns the next event. It honors cancellation of the stream's
// context at every suspension point: once the context is done, the
// transport is released and no further events are produced.
func (s *Stream) Recv() (core.StreamEvent, error) {
	if s.done {
		return core.StreamEvent{}, io.EOF
	}
	if s.closed {
		return core.StreamEvent{}, ErrStreamClosed
	}
	if err := s.ctx.Err(); err != nil {
		s.Close()
		return core.StreamEvent{}, err
	}

	payload, err := s.scanner.Next()
	if err != nil {
		return core.StreamEvent{}, s.finish(err)
	}

	payload = bytes.TrimSpace(payload)
	if bytes.Equal(payload, doneSentinel) {
		s.done = true
		s.Close()
		return core.StreamEvent{}, io.EOF
	}

	ev, err := decodeEvent(payload)
	if err != nil {
		s.done = true
		s.Close()
		return core.StreamEvent{}, err
	}
	return ev, nil
}

// finish classifies a scanner failure and shuts the stream down. A clean
// EOF without a termination marker still ends the sequence normally; a
// truncated or oversized record is a protocol error, and anything else is
// reported as cancellation or a transport failure.
func (s *Stream) finish(err error) error {
	s.done = true
	s.Close()

	switch {
	case errors.Is(err, io.EOF):
		return io.EOF
	case errors.Is(err, sse.ErrTruncatedRecord), errors.Is(err, sse.ErrRecordTooLarge):
		return protocolError(err)
	case s.ctx.Err() != nil:
		return s.ctx.Err()
	default:
		return networkError(err)
	}
}

// Close releases the underlying transport resource. It is idempotent and
// safe to call at any point; subsequent Recv calls fail with
// ErrStreamClosed.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

// Compile-time check that Stream satisfies the core sequence contract.
var _ core.Stream = (*Stream)(nil)
