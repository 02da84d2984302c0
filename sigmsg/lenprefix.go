package sigmsg

import "encoding/binary"

// writeLength emits length as a 4-byte little-endian integer to w (C2).
// Per §4.2 of the specification, a length that does not fit in 32 bits
// is treated as a malformed transaction rather than silently truncated.
func writeLength(w DigestWriter, length int) error {
	if length < 0 || uint64(length) > 0xffffffff {
		return newErr(ErrMalformedTx, "length exceeds 32 bits")
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(length))
	if _, err := w.Write(buf[:]); err != nil {
		return wrapErr(ErrIO, "write length prefix", err)
	}
	return nil
}
