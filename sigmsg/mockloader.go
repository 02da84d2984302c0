package sigmsg

import "sigmsg.dev/ckbsigmsg/sigmsg/mocktx"

// MockLoader adapts a fully-resolved mock transaction to the Loader
// interface, so the on-chain constructors (GenerateSigmsgA/B,
// AssertSigmsgA/B) can run unmodified against off-chain fixtures. It is
// the harness that lets environment-agreement tests prove the two
// implementations produce bit-identical output, and it backs
// cmd/sigmsg-assert.
type MockLoader struct {
	tx           *mocktx.MockTransaction
	resolved     []mocktx.ResolvedInput
	groupIndices []int
}

// NewMockLoader resolves mtx's inputs and locates the script group spec
// names, returning a Loader view over the result.
func NewMockLoader(mtx *mocktx.MockTransaction, spec ScriptOrIndex) (*MockLoader, error) {
	resolved, err := mtx.ResolveInputs()
	if err != nil {
		return nil, wrapErr(ErrMalformedTx, "resolve inputs", err)
	}
	groupIndices, err := LocateScriptGroup(resolved, spec)
	if err != nil {
		return nil, err
	}
	return &MockLoader{tx: mtx, resolved: resolved, groupIndices: groupIndices}, nil
}

// loadBytesAt implements the two-mode syscall ABI against an
// in-memory byte slice: it copies as much of data[offset:] into buf as
// fits, reporting LengthNotEnough{Actual: len(data)} whenever buf
// cannot hold the rest.
func loadBytesAt(data []byte, buf []byte, offset int) (int, error) {
	n := copy(buf, data[offset:])
	if offset+n < len(data) {
		return n, &LengthNotEnough{Actual: len(data)}
	}
	return n, nil
}

func (m *MockLoader) LoadTxHash(buf []byte) (int, error) {
	hash := m.tx.Tx.CalcTxHash()
	return loadBytesAt(hash[:], buf, 0)
}

func (m *MockLoader) LoadCell(buf []byte, offset int, index int, source Source) (int, error) {
	target, ok := m.resolveIndex(index, source)
	if !ok {
		return 0, &IndexOutOfBound{}
	}
	return loadBytesAt(target.Output.Bytes(), buf, offset)
}

func (m *MockLoader) LoadCellData(buf []byte, offset int, index int, source Source) (int, error) {
	target, ok := m.resolveIndex(index, source)
	if !ok {
		return 0, &IndexOutOfBound{}
	}
	return loadBytesAt(target.Data, buf, offset)
}

func (m *MockLoader) LoadWitness(buf []byte, offset int, index int, source Source) (int, error) {
	switch source {
	case SourceGroupInput:
		if index < 0 || index >= len(m.groupIndices) {
			return 0, &IndexOutOfBound{}
		}
		return loadBytesAt(m.tx.Tx.Witnesses[m.groupIndices[index]], buf, offset)
	default:
		if index < 0 || index >= len(m.tx.Tx.Witnesses) {
			return 0, &IndexOutOfBound{}
		}
		return loadBytesAt(m.tx.Tx.Witnesses[index], buf, offset)
	}
}

func (m *MockLoader) resolveIndex(index int, source Source) (mocktx.ResolvedInput, bool) {
	switch source {
	case SourceGroupInput:
		if index < 0 || index >= len(m.groupIndices) {
			return mocktx.ResolvedInput{}, false
		}
		return m.resolved[m.groupIndices[index]], true
	default:
		if index < 0 || index >= len(m.resolved) {
			return mocktx.ResolvedInput{}, false
		}
		return m.resolved[index], true
	}
}
