package mocktx

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// CalcTxHash computes the transaction's canonical content digest: a
// blake2b-256 hash of the "raw" transaction body (version, cell deps,
// header deps, inputs, outputs, outputs_data), excluding witnesses —
// the same split the real chain uses, and the reason a signing message
// can cover both the tx hash and the witnesses separately without
// redundancy. Defining the transaction schema itself is a non-goal of
// the specification this module implements; this is simply the
// concrete stand-in needed to produce tx_hash for the off-chain
// environment and the vector generator.
func (tx *Transaction) CalcTxHash() [32]byte {
	raw := tx.rawBytes()
	return blake2b.Sum256(raw)
}

func (tx *Transaction) rawBytes() []byte {
	var versionBuf [4]byte
	binary.LittleEndian.PutUint32(versionBuf[:], tx.Version)

	cellDeps := make([]byte, 0, len(tx.CellDeps)*36)
	for _, cd := range tx.CellDeps {
		cellDeps = append(cellDeps, cd.TxHash[:]...)
		cellDeps = appendU32(cellDeps, cd.Index)
	}

	headerDeps := make([]byte, 0, len(tx.HeaderDeps)*32)
	for _, hd := range tx.HeaderDeps {
		headerDeps = append(headerDeps, hd[:]...)
	}

	inputs := make([]byte, 0, len(tx.Inputs)*44)
	for _, in := range tx.Inputs {
		inputs = append(inputs, in.PreviousOutput.TxHash[:]...)
		inputs = appendU32(inputs, in.PreviousOutput.Index)
		inputs = appendU64(inputs, in.Since)
	}

	outputs := make([]byte, 0)
	for _, o := range tx.Outputs {
		b := o.Bytes()
		outputs = appendU32(outputs, uint32(len(b)))
		outputs = append(outputs, b...)
	}

	outputsData := make([]byte, 0)
	for _, d := range tx.OutputsData {
		outputsData = appendU32(outputsData, uint32(len(d)))
		outputsData = append(outputsData, d...)
	}

	out := make([]byte, 0, 4+len(cellDeps)+len(headerDeps)+len(inputs)+len(outputs)+len(outputsData)+20)
	out = append(out, versionBuf[:]...)
	out = appendU32(out, uint32(len(tx.CellDeps)))
	out = append(out, cellDeps...)
	out = appendU32(out, uint32(len(tx.HeaderDeps)))
	out = append(out, headerDeps...)
	out = appendU32(out, uint32(len(tx.Inputs)))
	out = append(out, inputs...)
	out = appendU32(out, uint32(len(tx.Outputs)))
	out = append(out, outputs...)
	out = appendU32(out, uint32(len(tx.OutputsData)))
	out = append(out, outputsData...)
	return out
}

func appendU32(dst []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(dst, buf[:]...)
}

func appendU64(dst []byte, v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return append(dst, buf[:]...)
}
