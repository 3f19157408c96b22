// Package sse frames server-sent-event records out of a raw byte stream.
package sse

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// DefaultMaxRecordSize bounds how many bytes a single record may occupy in
// the buffer before framing fails.
const DefaultMaxRecordSize = 1 << 20

var (
	// ErrRecordTooLarge is returned when a record exceeds the buffering limit.
	ErrRecordTooLarge = errors.New("sse: record exceeds buffer limit")

	// ErrTruncatedRecord is returned when the stream ends before the
	// blank-line terminator of a partially buffered record.
	ErrTruncatedRecord = errors.New("sse: stream ended mid-record")
)

// Scanner incrementally reassembles records from a byte stream that may
// arrive in chunks split at arbitrary boundaries. A record is one or more
// "data:"-prefixed lines terminated by a blank line; its payload is the
// newline-joined concatenation of the data line bodies. Comment lines
// (leading ':') and non-data fields such as "event:" are skipped. Partial
// records stay buffered across reads until their terminator arrives.
type Scanner struct {
	r   *bufio.Reader
	max int
}

// NewScanner creates a scanner with DefaultMaxRecordSize.
func NewScanner(r io.Reader) *Scanner {
	return NewScannerSize(r, DefaultMaxRecordSize)
}

// NewScannerSize creates a scanner with an explicit record size limit.
func NewScannerSize(r io.Reader, maxRecordSize int) *Scanner {
	if maxRecordSize <= 0 {
		maxRecordSize = DefaultMaxRecordSize
	}
	return &Scanner{r: bufio.NewReader(r), max: maxRecordSize}
}

// Next blocks until one complete record is buffered and returns its payload.
// It returns io.EOF on clean end of stream, ErrTruncatedRecord if the stream
// ends mid-record, and ErrRecordTooLarge if a record outgrows the limit.
func (s *Scanner) Next() ([]byte, error) {
	var data [][]byte
	size := 0

	for {
		line, err := s.readLine(s.max - size)
		size += len(line)
		if err != nil {
			if errors.Is(err, io.EOF) {
				if len(bytes.TrimSpace(line)) > 0 || len(data) > 0 {
					return nil, ErrTruncatedRecord
				}
				return nil, io.EOF
			}
			return nil, err
		}

		line = bytes.TrimRight(line, "\r\n")
		if len(line) == 0 {
			if len(data) == 0 {
				// Stray blank line between records.
				continue
			}
			return bytes.Join(data, []byte("\n")), nil
		}
		if line[0] == ':' {
			continue
		}
		if body, ok := dataLine(line); ok {
			data = append(data, body)
		}
	}
}

// readLine reads through the next newline, failing with ErrRecordTooLarge
// once more than limit bytes accumulate without one.
func (s *Scanner) readLine(limit int) ([]byte, error) {
	var line []byte
	for {
		frag, err := s.r.ReadSlice('\n')
		line = append(line, frag...)
		if len(line) > limit {
			return line, ErrRecordTooLarge
		}
		switch {
		case err == nil:
			return line, nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		default:
			return line, err
		}
	}
}

// dataLine extracts the body of a "data:" line, dropping one optional
// leading space per the SSE convention.
func dataLine(line []byte) ([]byte, bool) {
	if !bytes.HasPrefix(line, []byte("data:")) {
		return nil, false
	}
	body := line[len("data:"):]
	if len(body) > 0 && body[0] == ' ' {
		body = body[1:]
	}
	return append([]byte(nil), body...), true
}
