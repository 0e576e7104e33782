package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrHashMismatch       = errors.New("hash does not match block contents")
	ErrBrokenLink         = errors.New("prev hash does not match previous block")
	ErrIndexDiscontinuity = errors.New("index is not sequential")
	ErrInvalidGenesis     = errors.New("invalid genesis block")
	ErrOutOfRange         = errors.New("index out of range")
	ErrUnknownAlgorithm   = errors.New("unknown hash algorithm")
)

// IntegrityError reports the first block that failed verification.
type IntegrityError struct {
	Position int
	Err      error
	Expected string
	Got      string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("block %d invalid: %v: expected %s, got %s", e.Position, e.Err, e.Expected, e.Got)
}

func (e *IntegrityError) Unwrap() error { return e.Err }
