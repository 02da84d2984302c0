package sigmsg

import (
	"encoding/binary"
	mathrand "math/rand/v2"

	"golang.org/x/crypto/blake2b"

	"sigmsg.dev/ckbsigmsg/sigmsg/mocktx"
)

// HashTypeData is the lock/type script hash-type value meaning
// code_hash identifies a cell's data directly by its hash, the only
// hash-type the test-vector builders need.
const HashTypeData byte = 0

// scriptFor derives a lock/type script pointing at the given contract
// binary, the same way a real deployment's code_hash is the hash of
// the deployed cell's data.
func scriptFor(bin []byte) mocktx.Script {
	return mocktx.Script{CodeHash: blake2b.Sum256(bin), HashType: HashTypeData}
}

func newRNG(seed int64) *mathrand.Rand {
	var seedBytes [32]byte
	binary.LittleEndian.PutUint64(seedBytes[:8], uint64(seed))
	return mathrand.New(mathrand.NewChaCha8(seedBytes))
}

// randRange returns a uniform int in [lo, hi], inclusive on both ends,
// mirroring Rust's gen_range(lo..=hi).
func randRange(r *mathrand.Rand, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

func fillRandom(r *mathrand.Rand, out []byte) {
	for i := 0; i < len(out); i += 8 {
		v := r.Uint64()
		for j := 0; j < 8 && i+j < len(out); j++ {
			out[i+j] = byte(v)
			v >>= 8
		}
	}
}

func randData(r *mathrand.Rand, length int) []byte {
	out := make([]byte, length)
	fillRandom(r, out)
	return out
}

// nextSyntheticOutPoint mints a deterministic-looking (within one
// builder run) outpoint standing in for a prior, already-confirmed
// transaction, since the builders never need that transaction's full
// contents — only the cell it produced.
func nextSyntheticOutPoint(r *mathrand.Rand, index uint32) mocktx.OutPoint {
	var txHash [32]byte
	fillRandom(r, txHash[:])
	return mocktx.OutPoint{TxHash: txHash, Index: index}
}

func buildInputCell(r *mathrand.Rand, script mocktx.Script, minData, maxData, minCapExtra, maxCapExtra int) (mocktx.OutPoint, mocktx.ResolvedInput) {
	dataLen := randRange(r, minData, maxData)
	data := randData(r, dataLen)
	capacity := uint64(dataLen+randRange(r, minCapExtra, maxCapExtra))*100_000_000 + uint64(randRange(r, 0, 100_000_000))
	op := nextSyntheticOutPoint(r, 0)
	return op, mocktx.ResolvedInput{
		Output: mocktx.CellOutput{Capacity: capacity, Lock: script},
		Data:   data,
	}
}

func buildOutputCell(r *mathrand.Rand, script mocktx.Script, minData, maxData, minCapExtra, maxCapExtra int) (mocktx.CellOutput, []byte) {
	dataLen := randRange(r, minData, maxData)
	data := randData(r, dataLen)
	capacity := uint64(dataLen+randRange(r, minCapExtra, maxCapExtra))*100_000_000 + uint64(randRange(r, 0, 100_000_000))
	return mocktx.CellOutput{Capacity: capacity, Lock: script}, data
}

// buildBareUncompletedTx assembles a transaction with a random number
// of script-group input cells (using lockBin's script) interleaved
// with unrelated filler input cells (using alwaysSuccessBin's script),
// a handful of output cells under the same lock script, and one witness
// per input: a filled-in placeholder WitnessArgs at the first
// script-group input's index, empty bytes everywhere else. It mirrors test-utils's _build_bare_uncompleted_tx.
func buildBareUncompletedTx(r *mathrand.Rand, lockBin, alwaysSuccessBin []byte, minGroup, maxGroup int) (*mocktx.MockTransaction, []int) {
	lockScript := scriptFor(lockBin)
	alwaysScript := scriptFor(alwaysSuccessBin)

	groupCount := randRange(r, minGroup, maxGroup)
	otherCount := randRange(r, 1, 6)

	type flaggedInput struct {
		outpoint mocktx.OutPoint
		resolved mocktx.ResolvedInput
		group    bool
	}
	inputs := make([]flaggedInput, 0, groupCount+otherCount)
	for i := 0; i < groupCount; i++ {
		op, ri := buildInputCell(r, lockScript, 0, 200, 200, 100000)
		inputs = append(inputs, flaggedInput{op, ri, true})
	}
	for i := 0; i < otherCount; i++ {
		op, ri := buildInputCell(r, alwaysScript, 0, 150, 150, 20000)
		inputs = append(inputs, flaggedInput{op, ri, false})
	}
	r.Shuffle(len(inputs), func(i, j int) { inputs[i], inputs[j] = inputs[j], inputs[i] })

	outputCount := randRange(r, 3, 6)
	outputs := make([]mocktx.CellOutput, 0, outputCount)
	outputsData := make([][]byte, 0, outputCount)
	for i := 0; i < outputCount; i++ {
		out, data := buildOutputCell(r, lockScript, 0, 300, 2000, 30000)
		outputs = append(outputs, out)
		outputsData = append(outputsData, data)
	}

	var indices []int
	mockInfo := mocktx.MockInfo{Inputs: make(map[mocktx.OutPoint]mocktx.ResolvedInput, len(inputs))}
	cellInputs := make([]mocktx.CellInput, 0, len(inputs))
	for i, fi := range inputs {
		if fi.group {
			indices = append(indices, i)
		}
		mockInfo.Inputs[fi.outpoint] = fi.resolved
		cellInputs = append(cellInputs, mocktx.CellInput{PreviousOutput: fi.outpoint})
	}

	firstWitnessIndex := indices[0]
	witnesses := make([][]byte, len(inputs))
	for i := range witnesses {
		witnesses[i] = []byte{}
	}
	placeholderLock := make([]byte, 32)
	witnesses[firstWitnessIndex] = mocktx.EncodeWitnessArgs(placeholderLock, nil, nil)

	mtx := &mocktx.MockTransaction{
		Tx: mocktx.Transaction{
			Version:     0,
			Inputs:      cellInputs,
			Outputs:     outputs,
			OutputsData: outputsData,
			Witnesses:   witnesses,
		},
		MockInfo: mockInfo,
	}
	return mtx, indices
}

// fillWitnessData extends an uncompleted transaction with real
// input_type/output_type payloads on the script group's first witness
// and random filler bytes on every other generated witness slot,
// mirroring test-utils's _build_bare_uncompleted_tx_with_witness.
func fillWitnessData(r *mathrand.Rand, mtx *mocktx.MockTransaction, indices []int, minLen, maxLen int) error {
	generatedCount := len(mtx.Tx.Inputs) + randRange(r, 1, 3)
	witnesses := make([][]byte, generatedCount)
	firstIndex := indices[0]
	for i := 0; i < generatedCount; i++ {
		if i == firstIndex {
			parsed, err := ParseWitnessArgs(mtx.Tx.Witnesses[i])
			if err != nil {
				return err
			}
			inputType := randData(r, randRange(r, minLen, maxLen))
			outputType := randData(r, randRange(r, minLen, maxLen))
			witnesses[i] = mocktx.EncodeWitnessArgsFields(parsed.LockField(), mocktx.EncodeBytesValue(inputType), mocktx.EncodeBytesValue(outputType))
			continue
		}
		witnesses[i] = randData(r, randRange(r, minLen, maxLen))
	}
	mtx.Tx.Witnesses = witnesses
	return nil
}

// signFirstWitness computes SIGMSG-B against mtx's script group and
// stores the digest directly in the group's first witness lock field —
// the same placeholder-signature convention test-utils uses (it has no
// real signature scheme to exercise; the digest itself stands in for
// one).
func signFirstWitness(mtx *mocktx.MockTransaction, indices []int) error {
	spec := ByInputIndex(indices[0])
	h := NewHasher()
	if err := GenerateSigmsgBFromMockTx(h, mtx, spec); err != nil {
		return err
	}
	digest := h.Sum()

	firstIndex := indices[0]
	parsed, err := ParseWitnessArgs(mtx.Tx.Witnesses[firstIndex])
	if err != nil {
		return err
	}
	mtx.Tx.Witnesses[firstIndex] = mocktx.EncodeWitnessArgsFields(mocktx.EncodeBytesValue(digest[:]), parsed.InputTypeField(), parsed.OutputTypeField())
	return nil
}

// BuildBareTx builds a minimal transaction with 1-5 script-group input
// cells and empty-but-valid witnesses.
func BuildBareTx(lockBin, alwaysSuccessBin []byte, seed int64) (*mocktx.MockTransaction, []int, error) {
	return buildBareTxBounded(lockBin, alwaysSuccessBin, seed, 1, 5)
}

// BuildBareTxMultipleInputCells is BuildBareTx with 3-5 script-group
// input cells, exercising C1's multi-cell concatenation behavior.
func BuildBareTxMultipleInputCells(lockBin, alwaysSuccessBin []byte, seed int64) (*mocktx.MockTransaction, []int, error) {
	return buildBareTxBounded(lockBin, alwaysSuccessBin, seed, 3, 5)
}

func buildBareTxBounded(lockBin, alwaysSuccessBin []byte, seed int64, minGroup, maxGroup int) (*mocktx.MockTransaction, []int, error) {
	r := newRNG(seed)
	mtx, indices := buildBareUncompletedTx(r, lockBin, alwaysSuccessBin, minGroup, maxGroup)
	if err := signFirstWitness(mtx, indices); err != nil {
		return nil, nil, err
	}
	return mtx, indices, nil
}

// BuildTxWithWitnessData builds a transaction whose script group's
// witness carries real input_type/output_type payloads (10-200 bytes
// each) and whose other generated witnesses carry random filler,
// exercising the orphan-witness (SIGMSG-B) path end to end.
func BuildTxWithWitnessData(lockBin, alwaysSuccessBin []byte, seed int64) (*mocktx.MockTransaction, []int, error) {
	r := newRNG(seed)
	mtx, indices := buildBareUncompletedTx(r, lockBin, alwaysSuccessBin, 3, 5)
	if err := fillWitnessData(r, mtx, indices, 10, 200); err != nil {
		return nil, nil, err
	}
	if err := signFirstWitness(mtx, indices); err != nil {
		return nil, nil, err
	}
	return mtx, indices, nil
}

// BuildTxWithSuperLargeData builds a transaction with 2-4 script-group
// input cells, then overwrites the cell data of the first 1..len(inputs)
// inputs in transaction order (group and filler cells alike, after the
// shuffle) with 70000-300000 bytes of noise each, pushing C1's 32KiB
// batching across many iterations.
func BuildTxWithSuperLargeData(lockBin, alwaysSuccessBin []byte, seed int64) (*mocktx.MockTransaction, []int, error) {
	r := newRNG(seed)
	mtx, indices := buildBareUncompletedTx(r, lockBin, alwaysSuccessBin, 2, 4)
	if err := fillWitnessData(r, mtx, indices, 70000, 300000); err != nil {
		return nil, nil, err
	}

	modifiedCount := randRange(r, 1, len(mtx.Tx.Inputs))
	for i := 0; i < modifiedCount; i++ {
		op := mtx.Tx.Inputs[i].PreviousOutput
		dataLen := randRange(r, 70000, 300000)
		ri := mtx.MockInfo.Inputs[op]
		ri.Data = randData(r, dataLen)
		mtx.MockInfo.Inputs[op] = ri
	}

	if err := signFirstWitness(mtx, indices); err != nil {
		return nil, nil, err
	}
	return mtx, indices, nil
}

// CorruptWitnessLock flips one bit among bytes [0,16) of the script
// group's first witness's raw serialized form — the WitnessArgs
// header itself, not the lock field's decoded content, per
// save_invalid_witness_tx's last_witness[byte_index] ^= 1 <<
// bit_index. A flip in the total-length field (bytes 0-3) always
// breaks ParseWitnessArgs outright (ErrWitnessFormat); a flip in one of
// the three field offsets (bytes 4-15) usually does too, and even when
// it doesn't, Header16 is streamed into the signed message verbatim,
// so the resulting digest no longer matches what's in the lock field
// either way. seed drives which bit flips, independent of the seed
// used to build the transaction (callers conventionally pass seed+1).
func CorruptWitnessLock(mtx *mocktx.MockTransaction, groupFirstIndex int, seed int64) error {
	r := newRNG(seed)
	raw := mtx.Tx.Witnesses[groupFirstIndex]
	if len(raw) < witnessArgsHeaderLen {
		return newErr(ErrWitnessFormat, "witness shorter than header")
	}
	byteIdx := randRange(r, 0, witnessArgsHeaderLen-1)
	bitIdx := randRange(r, 0, 7)
	raw[byteIdx] ^= 1 << uint(bitIdx)
	return nil
}
