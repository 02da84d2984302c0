package sigmsg

import (
	"bytes"
	"testing"
)

type spyWriter struct {
	buf     bytes.Buffer
	flushed bool
}

func (s *spyWriter) Write(p []byte) (int, error) { return s.buf.Write(p) }
func (s *spyWriter) Flush() error                { s.flushed = true; return nil }

func TestWriteLength(t *testing.T) {
	cases := []struct {
		name   string
		length int
		want   []byte
	}{
		{"zero", 0, []byte{0, 0, 0, 0}},
		{"small", 1, []byte{1, 0, 0, 0}},
		{"u16_boundary", 65536, []byte{0, 0, 1, 0}},
		{"max_u32", 0xffffffff, []byte{0xff, 0xff, 0xff, 0xff}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := &spyWriter{}
			if err := writeLength(w, tc.length); err != nil {
				t.Fatalf("writeLength: %v", err)
			}
			if !bytes.Equal(w.buf.Bytes(), tc.want) {
				t.Fatalf("got %x want %x", w.buf.Bytes(), tc.want)
			}
		})
	}
}

func TestWriteLengthOverflow(t *testing.T) {
	w := &spyWriter{}
	err := writeLength(w, 0x100000000)
	if err == nil {
		t.Fatal("expected overflow error")
	}
	if CodeOf(err) != ErrMalformedTx {
		t.Fatalf("got code %v want %v", CodeOf(err), ErrMalformedTx)
	}
}

type errWriter struct{}

func (errWriter) Write(p []byte) (int, error) { return 0, errIOSentinel }
func (errWriter) Flush() error                { return errIOSentinel }
