package sigmsg

import "bytes"

// ExitOK, ExitMismatch, and ExitConstructionError mirror the three exit
// codes both on-chain contract entry points settle on: 0 when the
// computed digest matches the witness lock field, a nonzero mismatch
// code when it does not, and a distinct code when the message could
// not even be constructed (malformed transaction, bad witness, missing
// script group).
const (
	ExitOK                = 0
	ExitMismatch          = 1
	ExitConstructionError = 99
)

// AssertSigmsgA streams SIGMSG-A through loader, then loads witness 0
// of the current script group and compares its lock field against the
// computed digest byte for byte (C7, on-chain). A missing lock field is
// fatal here even though the pure constructor tolerates it — see
// DESIGN.md's note on this Open Question.
func AssertSigmsgA(loader Loader) error {
	return assertOnChain(loader, GenerateSigmsgA)
}

// AssertSigmsgB is AssertSigmsgA's SIGMSG-B counterpart.
func AssertSigmsgB(loader Loader) error {
	return assertOnChain(loader, GenerateSigmsgB)
}

func assertOnChain(loader Loader, generate func(DigestWriter, Loader) error) error {
	h := NewHasher()
	if err := generate(h, loader); err != nil {
		return err
	}
	digest := h.Sum()

	witnessLoadFn := LoadFunc(loader.LoadWitness)
	raw, err := loadWhole(witnessLoadFn, 0, SourceGroupInput)
	if err != nil {
		return wrapErr(ErrSyscall, "load group witness 0", err)
	}
	parsed, err := ParseWitnessArgs(raw)
	if err != nil {
		return err
	}
	lock, ok := parsed.Lock()
	if !ok {
		return newErr(ErrWitnessFormat, "group witness 0 has no lock field")
	}
	if !bytes.Equal(lock, digest[:]) {
		return newErr(ErrDigestMismatch, "computed digest does not match witness lock field")
	}
	return nil
}

// ExitCode maps the result of an Assert call to the three-way exit
// code convention cmd/sigmsg-assert reports to its caller.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case CodeOf(err) == ErrDigestMismatch:
		return ExitMismatch
	default:
		return ExitConstructionError
	}
}
