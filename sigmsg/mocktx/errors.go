package mocktx

import "errors"

// ErrMissingCell is returned when a mock transaction's input table has
// no entry for an outpoint the transaction references.
var ErrMissingCell = errors.New("mocktx: input table missing referenced outpoint")
