package sigmsg

// IndexOutOfBound is returned by a LoadFunc when index addresses a
// payload past the end of the requested Source's enumeration (e.g. the
// input past the last one, or the witness past the last one in the
// current script group). It is how on-chain QueryIter-style loops in
// this package know to stop.
type IndexOutOfBound struct{}

func (e *IndexOutOfBound) Error() string { return "index out of bound" }

// sliceWriter adapts a growing byte slice into a DigestWriter so the
// chunked reader (C1) can be reused verbatim to materialize a single
// payload in memory, instead of streaming it straight to the digest.
type sliceWriter struct{ buf []byte }

func (s *sliceWriter) Write(p []byte) (int, error) {
	s.buf = append(s.buf, p...)
	return len(p), nil
}
func (s *sliceWriter) Flush() error { return nil }

// loadWhole materializes a single payload as a single contiguous slice,
// reusing the chunked reader internally so the loop shape (and its
// short-read/length-not-enough handling) stays identical to the
// streaming path. This is used exactly once per construction: the
// first witness of the current script group (§4.5/4.6 on-chain
// realization notes), since validating its structure requires
// random-access reads the streaming writer cannot provide.
func loadWhole(loadFn LoadFunc, index int, source Source) ([]byte, error) {
	h, err := probeLoad(loadFn, index, source)
	if err != nil {
		return nil, err
	}
	sw := &sliceWriter{buf: make([]byte, 0, h.fullLength)}
	if err := drainLoad(h, loadFn, sw); err != nil {
		return nil, err
	}
	return sw.buf, nil
}

// isEndOfEnumeration reports whether err signals that a QueryIter-style
// index loop has reached the end of its Source's enumeration, looking
// through any wrapping *Error.
func isEndOfEnumeration(err error) bool {
	for err != nil {
		if _, ok := err.(*IndexOutOfBound); ok {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// writeOnChainPrelude streams items (1)-(3) of SIGMSG-A/B's layout —
// tx hash, every input cell's output+data, and the first script-group
// witness's three-part emission — directly from the host Loader, using
// O(1) extra memory per payload except for the first-witness load. It
// returns the number of input cells so callers can compute the orphan
// witness threshold for SIGMSG-B.
//
// Per §4.5/4.6, the first witness's structural validation is
// deliberately performed here, after (1)-(2) have already streamed
// bytes into w: any error still aborts the whole construction and the
// caller must discard w's output, so this costs nothing but lets the
// load-and-validate code live in one place.
func writeOnChainPrelude(w DigestWriter, loader Loader) (inputCount int, err error) {
	var txHashBuf [32]byte
	n, err := loader.LoadTxHash(txHashBuf[:])
	if err != nil {
		return 0, wrapErr(ErrSyscall, "load tx hash", err)
	}
	if n != 32 {
		return 0, newErr(ErrMalformedTx, "tx hash not 32 bytes")
	}
	if _, err := w.Write(txHashBuf[:]); err != nil {
		return 0, wrapErr(ErrIO, "write tx hash", err)
	}

	cellLoadFn := LoadFunc(loader.LoadCell)
	dataLoadFn := LoadFunc(loader.LoadCellData)

	for index := 0; ; index++ {
		cellHandle, cerr := probeLoad(cellLoadFn, index, SourceInput)
		if cerr != nil {
			if isEndOfEnumeration(cerr) {
				break
			}
			return 0, cerr
		}
		if err := drainLoad(cellHandle, cellLoadFn, w); err != nil {
			return 0, err
		}

		dataHandle, derr := probeLoad(dataLoadFn, index, SourceInput)
		if derr != nil {
			return 0, derr
		}
		if err := writeLength(w, dataHandle.fullLength); err != nil {
			return 0, err
		}
		if err := drainLoad(dataHandle, dataLoadFn, w); err != nil {
			return 0, err
		}

		inputCount++
	}

	{
		witnessLoadFn := LoadFunc(loader.LoadWitness)
		firstWitnessRaw, werr := loadWhole(witnessLoadFn, 0, SourceGroupInput)
		if werr != nil {
			if isEndOfEnumeration(werr) {
				return 0, newErr(ErrMalformedTx, "script group has no witnesses")
			}
			return 0, werr
		}
		firstWitness, perr := ParseWitnessArgs(firstWitnessRaw)
		if perr != nil {
			return 0, perr
		}
		if _, err := w.Write(firstWitness.Header16()); err != nil {
			return 0, wrapErr(ErrIO, "write witness header", err)
		}
		if _, err := w.Write(firstWitness.InputTypeField()); err != nil {
			return 0, wrapErr(ErrIO, "write input_type", err)
		}
		if _, err := w.Write(firstWitness.OutputTypeField()); err != nil {
			return 0, wrapErr(ErrIO, "write output_type", err)
		}
	}

	return inputCount, nil
}

// writeRemainingGroupWitnesses streams every script-group witness after
// the first, each as a length-prefixed payload, in ascending index
// order — shared by SIGMSG-A and SIGMSG-B (§4.6's "MUST share code").
func writeRemainingGroupWitnesses(w DigestWriter, loader Loader) error {
	witnessLoadFn := LoadFunc(loader.LoadWitness)
	for index := 1; ; index++ {
		if err := streamPayload(witnessLoadFn, index, SourceGroupInput, w, true); err != nil {
			if isEndOfEnumeration(err) {
				return nil
			}
			return err
		}
	}
}

// writeOrphanWitnesses streams every witness at or past index
// inputCount — i.e. with no matching input cell — as a length-prefixed
// payload, in ascending absolute index order. This is SIGMSG-B's only
// addition over SIGMSG-A (origin spec §9, open question 2: ascending
// absolute index is the only order ever observed).
func writeOrphanWitnesses(w DigestWriter, loader Loader, inputCount int) error {
	witnessLoadFn := LoadFunc(loader.LoadWitness)
	for index := inputCount; ; index++ {
		if err := streamPayload(witnessLoadFn, index, SourceInput, w, true); err != nil {
			if isEndOfEnumeration(err) {
				return nil
			}
			return err
		}
	}
}

// GenerateSigmsgA streams SIGMSG-A ("cighash_all") into w using the
// on-chain Loader abstraction: tx hash, every input cell, the first
// script-group witness's three-part emission, then the group's
// remaining witnesses. Orphan witnesses (index >= input count) are
// never touched — the defining difference from SIGMSG-B.
func GenerateSigmsgA(w DigestWriter, loader Loader) error {
	if _, err := writeOnChainPrelude(w, loader); err != nil {
		return err
	}
	if err := writeRemainingGroupWitnesses(w, loader); err != nil {
		return err
	}
	return flushOrIOErr(w)
}

// GenerateSigmsgB streams SIGMSG-B ("ckb_tx_message_all") into w using
// the on-chain Loader abstraction. Identical to SIGMSG-A except it
// additionally streams every orphan witness after the group's
// remaining witnesses.
func GenerateSigmsgB(w DigestWriter, loader Loader) error {
	inputCount, err := writeOnChainPrelude(w, loader)
	if err != nil {
		return err
	}
	if err := writeRemainingGroupWitnesses(w, loader); err != nil {
		return err
	}
	if err := writeOrphanWitnesses(w, loader, inputCount); err != nil {
		return err
	}
	return flushOrIOErr(w)
}

func flushOrIOErr(w DigestWriter) error {
	if err := w.Flush(); err != nil {
		return wrapErr(ErrIO, "flush", err)
	}
	return nil
}
