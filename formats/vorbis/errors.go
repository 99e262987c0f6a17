// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

var (
	ErrNotIdentHeader     = errors.New("vorbis: packet is not an identification header")
	ErrUnsupportedVersion = errors.New("vorbis: unsupported vorbis version")
	ErrInvalidIdentHeader = errors.New("vorbis: invalid identification header")
	ErrMissingHeaders     = errors.New("vorbis: stream ended before headers were complete")
)
