// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/oggproc/utils"
)

// Resampler converts src to another sample rate with Catmull-Rom cubic
// interpolation. Works on interleaved samples; preserves channel count.
type Resampler struct {
	src      Source
	channels int
	dstRate  int

	// source frames advanced per output frame
	step float64
	// position between win[1] and win[2], in [0, 1)
	pos float64

	// win holds frames t-1, t, t+1, t+2. Frames past the end of src repeat
	// the last real frame and are marked invalid.
	win    [4][]float32
	valid  [4]bool
	primed bool

	in           []float32
	inPos, inLen int
	eof          bool
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()

	r := &Resampler{
		src:      src,
		channels: channels,
		dstRate:  dstRate,
		step:     float64(src.SampleRate()) / float64(dstRate),
		in:       make([]float32, 1024*channels),
	}
	for i := range r.win {
		r.win[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("resampler: close source: %w", err)
	}
	return nil
}

// ReadSamples fills dst with resampled frames. len(dst) must be a multiple
// of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	n := 0
	for n < len(dst) {
		for r.pos >= 1 {
			r.pos--
			if err := r.advance(); err != nil {
				return n, err
			}
		}
		if !r.valid[1] {
			break
		}

		t := float32(r.pos)
		for c := range r.channels {
			dst[n+c] = utils.CubicInterpolate(r.win[0][c], r.win[1][c], r.win[2][c], r.win[3][c], t)
		}
		n += r.channels
		r.pos += r.step
	}

	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (r *Resampler) prime() error {
	r.primed = true

	ok, err := r.nextFrame(r.win[1])
	if err != nil {
		return err
	}
	r.valid[1] = ok
	copy(r.win[0], r.win[1])
	r.valid[0] = ok

	for i := 2; i < len(r.win); i++ {
		if r.valid[i], err = r.nextFrame(r.win[i]); err != nil {
			return err
		}
		if !r.valid[i] {
			copy(r.win[i], r.win[i-1])
		}
	}

	return nil
}

func (r *Resampler) advance() error {
	first := r.win[0]
	copy(r.win[:], r.win[1:])
	copy(r.valid[:], r.valid[1:])
	r.win[3] = first

	ok, err := r.nextFrame(r.win[3])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.win[3], r.win[2])
	}
	r.valid[3] = ok

	return nil
}

// nextFrame copies the next source frame into dst and reports whether one
// was available.
func (r *Resampler) nextFrame(dst []float32) (bool, error) {
	for r.inPos >= r.inLen {
		if r.eof {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.in)
		r.inPos, r.inLen = 0, n-n%r.channels
		if err == io.EOF {
			r.eof = true
		} else if err != nil {
			return false, fmt.Errorf("resampler: read source: %w", err)
		}
	}

	copy(dst, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	return true, nil
}
