// SPDX-License-Identifier: EPL-2.0

package fetch

import "errors"

var (
	ErrUnsupportedScheme = errors.New("fetch: unsupported scheme")
	ErrStatus            = errors.New("fetch: unexpected status")
	ErrTooLarge          = errors.New("fetch: resource exceeds size limit")
	ErrHostNotAllowed    = errors.New("fetch: host not allowed")
)

// Error is a failure to retrieve the resource ID. Callers receive it
// unchanged; nothing in this module retries.
type Error struct {
	ID  string
	Err error
}

func (e *Error) Error() string { return "fetch " + e.ID + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
