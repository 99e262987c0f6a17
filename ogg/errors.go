// SPDX-License-Identifier: EPL-2.0

package ogg

import "errors"

var (
	ErrCapturePattern = errors.New("ogg: missing capture pattern")
	ErrVersion        = errors.New("ogg: unsupported stream structure version")
	ErrChecksum       = errors.New("ogg: page checksum mismatch")
	ErrTruncatedPage  = errors.New("ogg: truncated page")
)
