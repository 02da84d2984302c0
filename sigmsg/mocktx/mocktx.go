// Package mocktx is the off-chain data model: a fully-materialized
// transaction plus the resolved contents of every cell it spends,
// mirroring the real chain's MockTransaction (§6 of the specification
// this module implements). It is the in-memory counterpart to the
// on-chain Loader abstraction in package sigmsg.
package mocktx

import "encoding/binary"

// Script is a lock-or-type script reference: a code hash, a hash-type
// discriminant, and opaque arguments.
type Script struct {
	CodeHash [32]byte
	HashType byte
	Args     []byte
}

// Equal reports whether s and o are the same script, including
// hash-type and arguments, per the specification's definition of
// script-group membership.
func (s Script) Equal(o Script) bool {
	if s.CodeHash != o.CodeHash || s.HashType != o.HashType || len(s.Args) != len(o.Args) {
		return false
	}
	for i := range s.Args {
		if s.Args[i] != o.Args[i] {
			return false
		}
	}
	return true
}

// Bytes serializes s using the same molecule-table layout the on-chain
// side emits for Script, so tx-hash/cell-output hashing agrees between
// environments byte for byte.
func (s Script) Bytes() []byte {
	return encodeTable([][]byte{s.CodeHash[:], {s.HashType}, s.Args})
}

// CellOutput is the fixed-schema portion of a cell: a capacity, a lock
// script, and an optional type script.
type CellOutput struct {
	Capacity uint64
	Lock     Script
	Type     *Script
}

// Bytes serializes the cell output as a molecule table (capacity, lock,
// optional type). Both environments read cell outputs through this one
// method: the off-chain prelude directly, the on-chain path via
// MockLoader.LoadCell.
func (c CellOutput) Bytes() []byte {
	var capBuf [8]byte
	binary.LittleEndian.PutUint64(capBuf[:], c.Capacity)
	typeField := []byte(nil)
	if c.Type != nil {
		typeField = EncodeBytesValue(c.Type.Bytes())
	}
	return encodeTable([][]byte{capBuf[:], c.Lock.Bytes(), typeField})
}

func encodeTable(fields [][]byte) []byte {
	headerLen := 4 * (len(fields) + 1)
	total := headerLen
	for _, f := range fields {
		total += len(f)
	}
	out := make([]byte, total)
	binary.LittleEndian.PutUint32(out[0:4], uint32(total))
	offset := uint32(headerLen)
	pos := headerLen
	for i, f := range fields {
		binary.LittleEndian.PutUint32(out[4+4*i:8+4*i], offset)
		copy(out[pos:], f)
		pos += len(f)
		offset += uint32(len(f))
	}
	return out
}

// EncodeBytesValue wraps raw with the molecule dynamic-bytes length
// prefix: a 4-byte little-endian length followed by the content
// verbatim. It is exported so callers building a WitnessArgs lock
// field (e.g. the test-vector builders) can produce table fields that
// match what CellOutput.Bytes and Script.Bytes already emit.
func EncodeBytesValue(raw []byte) []byte {
	out := make([]byte, 4+len(raw))
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(raw)))
	copy(out[4:], raw)
	return out
}

// OutPoint identifies a previously created cell by the hash of the
// transaction that created it and the output index within that
// transaction.
type OutPoint struct {
	TxHash [32]byte
	Index  uint32
}

// CellInput references a cell to spend plus its since/sequence field.
type CellInput struct {
	PreviousOutput OutPoint
	Since          uint64
}

// Transaction is the logical transaction view §3 of the specification
// describes: inputs, outputs, and parallel-indexed witnesses, plus
// whatever else a real transaction schema carries (cell deps, header
// deps, version) that this construction never inspects.
type Transaction struct {
	Version     uint32
	CellDeps    []OutPoint
	HeaderDeps  [][32]byte
	Inputs      []CellInput
	Outputs     []CellOutput
	OutputsData [][]byte
	Witnesses   [][]byte
}

// ResolvedInput is a transaction input together with the cell contents
// it resolves to.
type ResolvedInput struct {
	Output CellOutput
	Data   []byte
}

// MockInfo resolves every outpoint a mock transaction's inputs
// reference to its cell contents, mirroring the real chain's
// mock_info.inputs table.
type MockInfo struct {
	Inputs map[OutPoint]ResolvedInput
}

// MockTransaction bundles a transaction with the resolved contents of
// every cell it spends — the off-chain environment's sole input.
type MockTransaction struct {
	Tx       Transaction
	MockInfo MockInfo
}

// ResolveInputs returns, for every input in tx order, its resolved
// cell contents. It fails with ErrMissingCell if any referenced
// outpoint is absent from MockInfo, matching the specification's
// "off-chain mock's input table lacks an entry for a referenced
// outpoint" malformed-transaction case.
func (m *MockTransaction) ResolveInputs() ([]ResolvedInput, error) {
	out := make([]ResolvedInput, 0, len(m.Tx.Inputs))
	for _, in := range m.Tx.Inputs {
		resolved, ok := m.MockInfo.Inputs[in.PreviousOutput]
		if !ok {
			return nil, ErrMissingCell
		}
		out = append(out, resolved)
	}
	return out, nil
}
