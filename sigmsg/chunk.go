package sigmsg

// BatchSize is the fixed streaming chunk size (BATCH in the
// specification): large enough that a worst-case ~600 KiB witness only
// costs a couple dozen reloads, small enough to keep per-payload heap
// usage constant regardless of payload size.
const BatchSize = 32 * 1024

// payloadHandle is the result of the initial probe of a payload: the
// coordinates needed to resume loading it, plus however much of it the
// probe already pulled into buffer. Created by probeLoad, consumed
// exactly once by drainLoad, then discarded.
type payloadHandle struct {
	index      int
	source     Source
	fullLength int
	buffer     [BatchSize]byte
}

// probeLoad issues the initial load at offset 0 into a BatchSize
// buffer, recording the payload's full length regardless of which of
// the two success shapes the host reported it in.
func probeLoad(loadFn LoadFunc, index int, source Source) (payloadHandle, error) {
	var h payloadHandle
	h.index = index
	h.source = source

	n, err := loadFn(h.buffer[:], 0, index, source)
	switch e := err.(type) {
	case nil:
		h.fullLength = n
	case *LengthNotEnough:
		h.fullLength = e.Actual
	default:
		return payloadHandle{}, wrapErr(ErrSyscall, "initial load", err)
	}
	return h, nil
}

// drainLoad writes the already-probed prefix of h to w, then reloads
// the fixed-size buffer at advancing offsets until the full payload has
// been written. This is the only place payloads larger than BatchSize
// are read, and it never holds more than one BatchSize buffer's worth
// of payload in memory at a time.
func drainLoad(h payloadHandle, loadFn LoadFunc, w DigestWriter) error {
	loaded := h.fullLength
	if loaded > BatchSize {
		loaded = BatchSize
	}
	if _, err := w.Write(h.buffer[:loaded]); err != nil {
		return wrapErr(ErrIO, "write initial chunk", err)
	}

	buf := h.buffer
	for loaded < h.fullLength {
		n, err := loadFn(buf[:], loaded, h.index, h.source)
		switch err.(type) {
		case nil:
			if loaded+n != h.fullLength {
				return newErr(ErrSyscall, "short read did not reach reported full length")
			}
			if _, werr := w.Write(buf[:n]); werr != nil {
				return wrapErr(ErrIO, "write final chunk", werr)
			}
			loaded += n
		case *LengthNotEnough:
			if loaded+BatchSize >= h.fullLength {
				return newErr(ErrSyscall, "length-not-enough reported past full length")
			}
			if _, werr := w.Write(buf[:BatchSize]); werr != nil {
				return wrapErr(ErrIO, "write full chunk", werr)
			}
			loaded += BatchSize
		default:
			return wrapErr(ErrSyscall, "reload", err)
		}
	}
	return nil
}

// streamPayload probes then drains a single payload in one call,
// writing a 4-byte little-endian length prefix first when
// withLengthPrefix is true (used for cell data and trailing witnesses,
// but not for cell_output, which has no length prefix of its own).
func streamPayload(loadFn LoadFunc, index int, source Source, w DigestWriter, withLengthPrefix bool) error {
	h, err := probeLoad(loadFn, index, source)
	if err != nil {
		return err
	}
	if withLengthPrefix {
		if err := writeLength(w, h.fullLength); err != nil {
			return err
		}
	}
	return drainLoad(h, loadFn, w)
}
