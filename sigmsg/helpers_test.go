package sigmsg

import "errors"

// errIOSentinel is the canned failure errWriter reports, shared across
// this package's tests that need to force an ErrIO path.
var errIOSentinel = errors.New("sigmsg test: simulated io failure")
