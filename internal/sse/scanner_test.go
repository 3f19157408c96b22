package sse

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// oneByteReader forces the worst-case chunking: every read delivers a
// single byte, so records are always split at arbitrary boundaries.
type oneByteReader struct {
	r io.Reader
}

func (o *oneByteReader) Read(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return o.r.Read(p)
}

func TestScannerSingleRecord(t *testing.T) {
	s := NewScanner(strings.NewReader("data: hello\n\n"))

	payload, err := s.Next()
	if err != nil {
		t.Fatalf("Next error = %v", err)
	}
	if string(payload) != "hello" {
		t.Errorf("payload = %q, want %q", payload, "hello")
	}

	if _, err := s.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("after last record: err = %v, want io.EOF", err)
	}
}

func TestScannerMultiLineDataJoins(t *testing.T) {
	s := NewScanner(strings.NewReader("data: first\ndata: second\n\n"))

	payload, err := s.Next()
	if err != nil {
		t.Fatalf("Next error = %v", err)
	}
	if string(payload) != "first\nsecond" {
		t.Errorf("payload = %q, want data lines joined with newline", payload)
	}
}

func TestScannerSkipsCommentsAndOtherFields(t *testing.T) {
	input := ": keep-alive\nevent: message\ndata: hello\n\n"
	s := NewScanner(strings.NewReader(input))

	payload, err := s.Next()
	if err != nil {
		t.Fatalf("Next error = %v", err)
	}
	if string(payload) != "hello" {
		t.Errorf("payload = %q, want %q", payload, "hello")
	}
}

func TestScannerCRLFAndStrayBlankLines(t *testing.T) {
	input := "\r\ndata: a\r\n\r\n\n\ndata: b\n\n"
	s := NewScanner(strings.NewReader(input))

	for _, want := range []string{"a", "b"} {
		payload, err := s.Next()
		if err != nil {
			t.Fatalf("Next error = %v", err)
		}
		if string(payload) != want {
			t.Errorf("payload = %q, want %q", payload, want)
		}
	}
	if _, err := s.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want io.EOF", err)
	}
}

func TestScannerChunkBoundaryIndependence(t *testing.T) {
	input := "data: {\"type\":\"x\"}\n\ndata: one\ndata: two\n\n"
	want := []string{`{"type":"x"}`, "one\ntwo"}

	whole := NewScanner(strings.NewReader(input))
	fragmented := NewScanner(&oneByteReader{r: strings.NewReader(input)})

	for i, w := range want {
		a, err := whole.Next()
		if err != nil {
			t.Fatalf("whole Next %d error = %v", i, err)
		}
		b, err := fragmented.Next()
		if err != nil {
			t.Fatalf("fragmented Next %d error = %v", i, err)
		}
		if string(a) != w || string(b) != w {
			t.Errorf("record %d: whole=%q fragmented=%q want %q", i, a, b, w)
		}
	}
}

func TestScannerTruncatedRecord(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"mid-line", "data: part"},
		{"missing terminator", "data: part\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScanner(strings.NewReader(tt.input))
			if _, err := s.Next(); !errors.Is(err, ErrTruncatedRecord) {
				t.Errorf("err = %v, want ErrTruncatedRecord", err)
			}
		})
	}
}

func TestScannerRecordTooLarge(t *testing.T) {
	input := "data: " + strings.Repeat("x", 100) + "\n\n"
	s := NewScannerSize(strings.NewReader(input), 32)

	if _, err := s.Next(); !errors.Is(err, ErrRecordTooLarge) {
		t.Errorf("err = %v, want ErrRecordTooLarge", err)
	}
}

func TestScannerEmptyStream(t *testing.T) {
	s := NewScanner(strings.NewReader(""))
	if _, err := s.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want io.EOF", err)
	}
}
