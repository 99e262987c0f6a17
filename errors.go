// SPDX-License-Identifier: EPL-2.0

package oggproc

import (
	"errors"
	"fmt"
)

// ErrMalformed reports input whose first identification header is missing
// or corrupt.
var ErrMalformed = errors.New("malformed container")

// DecodeError aborts a whole construction. No partial result accompanies it.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "oggproc: decode: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// BoundsError is the panic value of an accessor called with an index
// outside its valid range.
type BoundsError struct {
	What  string
	Index uint
	Len   uint
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("oggproc: %s index %d out of range [0:%d]", e.What, e.Index, e.Len)
}
