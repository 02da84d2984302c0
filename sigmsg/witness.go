package sigmsg

import "encoding/binary"

// witnessArgsHeaderLen is the fixed size of a WitnessArgs header: a
// 4-byte total length plus three 4-byte little-endian field offsets
// (lock, input_type, output_type). The specification's data model
// calls this out as an invariant of every valid envelope.
const witnessArgsHeaderLen = 16

// WitnessArgs is a parsed view over the three-field WitnessArgs
// envelope (C3). It never copies the underlying bytes; all accessors
// return sub-slices of the original witness.
type WitnessArgs struct {
	raw       []byte
	lockOff   uint32
	inputOff  uint32
	outputOff uint32
}

// ParseWitnessArgs validates raw as a WitnessArgs envelope and returns
// a view over its three fields. It is the sole entry point for C3.
func ParseWitnessArgs(raw []byte) (*WitnessArgs, error) {
	if len(raw) < witnessArgsHeaderLen {
		return nil, newErr(ErrWitnessFormat, "witness shorter than header")
	}
	total := binary.LittleEndian.Uint32(raw[0:4])
	if int(total) != len(raw) {
		return nil, newErr(ErrWitnessFormat, "witness total length field mismatch")
	}
	lockOff := binary.LittleEndian.Uint32(raw[4:8])
	inputOff := binary.LittleEndian.Uint32(raw[8:12])
	outputOff := binary.LittleEndian.Uint32(raw[12:16])

	if lockOff < witnessArgsHeaderLen || lockOff > inputOff || inputOff > outputOff || uint64(outputOff) > uint64(total) {
		return nil, newErr(ErrWitnessFormat, "witness field offsets out of order")
	}

	return &WitnessArgs{raw: raw, lockOff: lockOff, inputOff: inputOff, outputOff: outputOff}, nil
}

// Header16 returns bytes [0, 16) of the serialized form verbatim, the
// exact slice SIGMSG-A/B stream as part of the first-witness prelude.
func (w *WitnessArgs) Header16() []byte {
	return w.raw[0:witnessArgsHeaderLen]
}

// LockField returns the raw (still length-prefixed-or-empty) bytes of
// the lock field's byte range, exactly as stored in the witness.
func (w *WitnessArgs) LockField() []byte {
	return w.raw[w.lockOff:w.inputOff]
}

// InputTypeField returns the raw bytes of the input_type field's byte
// range, exactly as stored in the witness. SIGMSG-A/B stream this
// slice verbatim as "the input_type field as a whole".
func (w *WitnessArgs) InputTypeField() []byte {
	return w.raw[w.inputOff:w.outputOff]
}

// OutputTypeField returns the raw bytes of the output_type field's
// byte range, exactly as stored in the witness.
func (w *WitnessArgs) OutputTypeField() []byte {
	return w.raw[w.outputOff:]
}

// Lock decodes the lock field, reporting ok=false when the field is
// absent (a zero-length byte range, molecule's encoding of an absent
// option). This is the field C7 (the assertion wrapper) requires to be
// present; C5/C6 never call it and never stream the lock field's bytes
// either — they skip it entirely (see
// construct_onchain.go/construct_offchain.go).
func (w *WitnessArgs) Lock() (content []byte, ok bool) {
	field := w.LockField()
	if len(field) == 0 {
		return nil, false
	}
	content, _, err := decodeMoleculeBytes(field)
	if err != nil {
		return nil, false
	}
	return content, true
}

// decodeMoleculeBytes reads a molecule dynamic "bytes" value from the
// front of b, returning its content and the number of bytes consumed.
func decodeMoleculeBytes(b []byte) ([]byte, int, error) {
	if len(b) < 4 {
		return nil, 0, newErr(ErrMalformedTx, "truncated molecule bytes length")
	}
	n := int(binary.LittleEndian.Uint32(b[0:4]))
	end := 4 + n
	if n < 0 || end > len(b) {
		return nil, 0, newErr(ErrMalformedTx, "truncated molecule bytes content")
	}
	return b[4:end], end, nil
}
