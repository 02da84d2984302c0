package sigmsg

import (
	"bytes"
	"errors"
	"testing"
)

// fakeLoadFunc builds a LoadFunc that serves data through the
// two-mode syscall ABI §6 describes: a short/exact read when the
// buffer already reaches the end, otherwise LengthNotEnough carrying
// the true total length.
func fakeLoadFunc(data []byte) LoadFunc {
	return func(buf []byte, offset int, index int, source Source) (int, error) {
		if offset > len(data) {
			return 0, &IndexOutOfBound{}
		}
		n := copy(buf, data[offset:])
		if offset+n < len(data) {
			return n, &LengthNotEnough{Actual: len(data)}
		}
		return n, nil
	}
}

func TestStreamPayloadSmallerThanBatch(t *testing.T) {
	data := bytes.Repeat([]byte{0x5}, 100)
	w := &spyWriter{}
	if err := streamPayload(fakeLoadFunc(data), 0, SourceInput, w, false); err != nil {
		t.Fatalf("streamPayload: %v", err)
	}
	if !bytes.Equal(w.buf.Bytes(), data) {
		t.Fatalf("got %d bytes want %d bytes", w.buf.Len(), len(data))
	}
}

func TestStreamPayloadWithLengthPrefix(t *testing.T) {
	data := []byte("hello chunked world")
	w := &spyWriter{}
	if err := streamPayload(fakeLoadFunc(data), 0, SourceInput, w, true); err != nil {
		t.Fatalf("streamPayload: %v", err)
	}
	want := append(append([]byte{}, 19, 0, 0, 0), data...)
	if !bytes.Equal(w.buf.Bytes(), want) {
		t.Fatalf("got %x want %x", w.buf.Bytes(), want)
	}
}

func TestStreamPayloadMultiBatchMatchesSingleWrite(t *testing.T) {
	// Exercise at least three reload iterations, per scenario 4's
	// large-data requirement (BatchSize = 32 KiB).
	data := make([]byte, BatchSize*3+777)
	for i := range data {
		data[i] = byte(i)
	}

	chunked := &spyWriter{}
	if err := streamPayload(fakeLoadFunc(data), 0, SourceInput, chunked, false); err != nil {
		t.Fatalf("streamPayload: %v", err)
	}
	if !bytes.Equal(chunked.buf.Bytes(), data) {
		t.Fatal("chunked streaming produced different bytes than the source payload")
	}
}

func TestStreamPayloadExactBatchMultiple(t *testing.T) {
	// A payload that is an exact multiple of BatchSize must not emit
	// a spurious trailing empty chunk or double-count the last chunk.
	data := make([]byte, BatchSize*2)
	for i := range data {
		data[i] = byte(i % 251)
	}
	w := &spyWriter{}
	if err := streamPayload(fakeLoadFunc(data), 0, SourceInput, w, false); err != nil {
		t.Fatalf("streamPayload: %v", err)
	}
	if !bytes.Equal(w.buf.Bytes(), data) {
		t.Fatal("exact-multiple payload mismatched")
	}
}

func TestStreamPayloadEmpty(t *testing.T) {
	w := &spyWriter{}
	if err := streamPayload(fakeLoadFunc(nil), 0, SourceInput, w, true); err != nil {
		t.Fatalf("streamPayload: %v", err)
	}
	if !bytes.Equal(w.buf.Bytes(), []byte{0, 0, 0, 0}) {
		t.Fatalf("got %x want a bare zero length prefix", w.buf.Bytes())
	}
}

func TestProbeLoadSurfacesSyscallError(t *testing.T) {
	boom := errors.New("boom")
	loadFn := func(buf []byte, offset, index int, source Source) (int, error) {
		return 0, boom
	}
	_, err := probeLoad(loadFn, 0, SourceInput)
	if err == nil {
		t.Fatal("expected an error")
	}
	if CodeOf(err) != ErrSyscall {
		t.Fatalf("got code %v want %v", CodeOf(err), ErrSyscall)
	}
}

func TestDrainLoadPropagatesWriterIOError(t *testing.T) {
	data := make([]byte, BatchSize+10)
	h, err := probeLoad(fakeLoadFunc(data), 0, SourceInput)
	if err != nil {
		t.Fatalf("probeLoad: %v", err)
	}
	err = drainLoad(h, fakeLoadFunc(data), errWriter{})
	if err == nil {
		t.Fatal("expected io error")
	}
	if CodeOf(err) != ErrIO {
		t.Fatalf("got code %v want %v", CodeOf(err), ErrIO)
	}
}
