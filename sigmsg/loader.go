package sigmsg

// Source enumerates which index space a load primitive reads from.
// GroupInput restricts enumeration to members of the current script
// group; Input spans every input of the transaction. The real chain
// defines several more source kinds (Output, CellDep, ...); only the
// two this construction ever touches are modeled here.
type Source int

const (
	SourceInput Source = iota
	SourceGroupInput
)

func (s Source) String() string {
	switch s {
	case SourceInput:
		return "input"
	case SourceGroupInput:
		return "group_input"
	default:
		return "unknown"
	}
}

// LengthNotEnough is returned by a LoadFunc when the supplied buffer
// was too small to hold the full payload. Actual carries the payload's
// true total length, exactly as the real syscall ABI reports it.
type LengthNotEnough struct {
	Actual int
}

func (e *LengthNotEnough) Error() string { return "length not enough" }

// LoadFunc is the shape every host VM load primitive shares:
// load_tx_hash, load_cell, load_cell_data, load_witness. It writes into
// buf starting at offset and returns either the number of bytes
// written (a short or exact read that reached the end of the payload),
// a *LengthNotEnough error carrying the true total length (buf was
// saturated but more remains), or any other error (a genuine syscall
// failure, which the caller must propagate unchanged).
type LoadFunc func(buf []byte, offset int, index int, source Source) (int, error)

// Loader bundles the four host load primitives the specification names
// in §6. It is the sole abstraction boundary for the on-chain
// environment; a real binding (e.g. a ckb-std-equivalent VM syscall
// layer) and the in-memory MockLoader used by tests and the assertion
// CLI both implement it.
type Loader interface {
	LoadTxHash(buf []byte) (int, error)
	LoadCell(buf []byte, offset int, index int, source Source) (int, error)
	LoadCellData(buf []byte, offset int, index int, source Source) (int, error)
	LoadWitness(buf []byte, offset int, index int, source Source) (int, error)
}
