// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"io"

	"github.com/jfreymuth/oggvorbis"
	"github.com/pkg/errors"
)

// Declared is what a seekable file claims about itself without decoding
// any audio: the format of its first logical stream and the granule
// position of its last page.
type Declared struct {
	Frames     int64
	SampleRate int
	Channels   int
}

// Seconds converts Frames to seconds at SampleRate.
func (d Declared) Seconds() float64 {
	if d.SampleRate == 0 {
		return 0
	}
	return float64(d.Frames) / float64(d.SampleRate)
}

// DeclaredLength reads the declared length of r. For chained files the
// granule position belongs to the last stream, so the value is only
// meaningful for single-stream files.
func DeclaredLength(r io.ReadSeeker) (Declared, error) {
	n, format, err := oggvorbis.GetLength(r)
	if err != nil {
		return Declared{}, errors.Wrap(err, "vorbis: declared length")
	}

	return Declared{
		Frames:     n,
		SampleRate: format.SampleRate,
		Channels:   format.Channels,
	}, nil
}
