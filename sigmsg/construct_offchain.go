package sigmsg

import "sigmsg.dev/ckbsigmsg/sigmsg/mocktx"

// writeBytesWithLength writes a 4-byte little-endian length prefix
// followed by b verbatim. The off-chain environment already holds the
// whole transaction in memory, so there is no chunking step here; it
// is the in-memory counterpart to streamPayload's length-prefixed mode.
func writeBytesWithLength(w DigestWriter, b []byte) error {
	if err := writeLength(w, len(b)); err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return wrapErr(ErrIO, "write length-prefixed bytes", err)
	}
	return nil
}

// writeOffChainPrelude writes the tx hash, every input cell and its
// data, and the current script group's first witness header plus its
// input_type/output_type fields (C5/C6 shared prelude, off-chain
// side). It returns the resolved script group's first witness, parsed,
// for the caller's convenience.
func writeOffChainPrelude(w DigestWriter, mtx *mocktx.MockTransaction, groupIndices []int) (*WitnessArgs, error) {
	resolved, err := mtx.ResolveInputs()
	if err != nil {
		return nil, wrapErr(ErrMalformedTx, "resolve inputs", err)
	}

	txHash := mtx.Tx.CalcTxHash()
	if _, err := w.Write(txHash[:]); err != nil {
		return nil, wrapErr(ErrIO, "write tx hash", err)
	}

	for _, in := range resolved {
		cellBytes := in.Output.Bytes()
		if _, err := w.Write(cellBytes); err != nil {
			return nil, wrapErr(ErrIO, "write cell output", err)
		}
		if err := writeBytesWithLength(w, in.Data); err != nil {
			return nil, err
		}
	}

	if len(groupIndices) == 0 {
		return nil, newErr(ErrUnknownScriptGroup, "script group has no members")
	}
	firstIndex := groupIndices[0]
	if firstIndex < 0 || firstIndex >= len(mtx.Tx.Witnesses) {
		return nil, newErr(ErrMalformedTx, "script group has no witnesses")
	}
	firstWitness, err := ParseWitnessArgs(mtx.Tx.Witnesses[firstIndex])
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(firstWitness.Header16()); err != nil {
		return nil, wrapErr(ErrIO, "write witness header", err)
	}
	if _, err := w.Write(firstWitness.InputTypeField()); err != nil {
		return nil, wrapErr(ErrIO, "write input_type", err)
	}
	if _, err := w.Write(firstWitness.OutputTypeField()); err != nil {
		return nil, wrapErr(ErrIO, "write output_type", err)
	}

	return firstWitness, nil
}

func writeRemainingGroupWitnessesFromMockTx(w DigestWriter, mtx *mocktx.MockTransaction, groupIndices []int) error {
	for _, idx := range groupIndices[1:] {
		if idx < 0 || idx >= len(mtx.Tx.Witnesses) {
			return newErr(ErrMalformedTx, "script group member has no witness")
		}
		if err := writeBytesWithLength(w, mtx.Tx.Witnesses[idx]); err != nil {
			return err
		}
	}
	return nil
}

func writeOrphanWitnessesFromMockTx(w DigestWriter, mtx *mocktx.MockTransaction, inputCount int) error {
	for index := inputCount; index < len(mtx.Tx.Witnesses); index++ {
		if err := writeBytesWithLength(w, mtx.Tx.Witnesses[index]); err != nil {
			return err
		}
	}
	return nil
}

// GenerateSigmsgAFromMockTx builds SIGMSG-A against a fully-materialized
// mock transaction: tx hash, every input cell/data, the script group's
// witnesses, and nothing past the input count. It must produce the same
// digest as GenerateSigmsgA fed equivalent data through a Loader.
func GenerateSigmsgAFromMockTx(w DigestWriter, mtx *mocktx.MockTransaction, spec ScriptOrIndex) error {
	resolved, err := mtx.ResolveInputs()
	if err != nil {
		return wrapErr(ErrMalformedTx, "resolve inputs", err)
	}
	groupIndices, err := LocateScriptGroup(resolved, spec)
	if err != nil {
		return err
	}
	if _, err := writeOffChainPrelude(w, mtx, groupIndices); err != nil {
		return err
	}
	if err := writeRemainingGroupWitnessesFromMockTx(w, mtx, groupIndices); err != nil {
		return err
	}
	return flushOrIOErr(w)
}

// GenerateSigmsgBFromMockTx builds SIGMSG-B against a fully-materialized
// mock transaction: everything SIGMSG-A covers, plus every witness past
// the input count (the orphan witnesses), in ascending index order.
func GenerateSigmsgBFromMockTx(w DigestWriter, mtx *mocktx.MockTransaction, spec ScriptOrIndex) error {
	resolved, err := mtx.ResolveInputs()
	if err != nil {
		return wrapErr(ErrMalformedTx, "resolve inputs", err)
	}
	groupIndices, err := LocateScriptGroup(resolved, spec)
	if err != nil {
		return err
	}
	if _, err := writeOffChainPrelude(w, mtx, groupIndices); err != nil {
		return err
	}
	if err := writeRemainingGroupWitnessesFromMockTx(w, mtx, groupIndices); err != nil {
		return err
	}
	if err := writeOrphanWitnessesFromMockTx(w, mtx, len(mtx.Tx.Inputs)); err != nil {
		return err
	}
	return flushOrIOErr(w)
}
