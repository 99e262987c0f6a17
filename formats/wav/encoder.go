// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	pcm "github.com/ik5/oggproc/audio"
	"github.com/ik5/oggproc/utils"
)

const (
	bitDepth  = 16
	formatPCM = 1

	// frames converted per encoder write
	blockFrames = 4096
)

// Options shapes the exported signal. Zero values keep the source layout.
type Options struct {
	// SampleRate resamples to this rate when it differs from the source.
	SampleRate int
	// Mono averages all channels into one.
	Mono bool
}

// Pipeline wraps src in the resampler and mixer opts asks for.
func Pipeline(src pcm.Source, opts Options) pcm.Source {
	if opts.SampleRate > 0 && opts.SampleRate != src.SampleRate() {
		src = pcm.NewResampler(src, opts.SampleRate)
	}
	if opts.Mono && src.Channels() > 1 {
		src = pcm.NewMonoMixer(src)
	}
	return src
}

// Encode writes src to w as 16-bit PCM WAV and returns the number of frames
// written. Samples outside [-1, 1] are clipped. src is not closed.
func Encode(w io.WriteSeeker, src pcm.Source) (int, error) {
	channels, rate := src.Channels(), src.SampleRate()
	if channels <= 0 {
		return 0, ErrNoChannels
	}
	if rate <= 0 {
		return 0, ErrInvalidSampleRate
	}

	enc := wav.NewEncoder(w, rate, bitDepth, channels, formatPCM)

	in := make([]float32, blockFrames*channels)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           make([]int, 0, len(in)),
		SourceBitDepth: bitDepth,
	}

	frames := 0
	for {
		n, err := src.ReadSamples(in)
		n -= n % channels

		if n > 0 {
			buf.Data = buf.Data[:n]
			for i, v := range in[:n] {
				buf.Data[i] = int(utils.Float32ToInt16(v))
			}
			if werr := enc.Write(buf); werr != nil {
				return frames, fmt.Errorf("wav: write samples: %w", werr)
			}
			frames += n / channels
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return frames, fmt.Errorf("wav: read source: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return frames, fmt.Errorf("wav: finish header: %w", err)
	}

	return frames, nil
}

// WriteFile runs src through Pipeline and encodes the result to path.
func WriteFile(path string, src pcm.Source, opts Options) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("wav: create %s: %w", path, err)
	}

	frames, err := Encode(f, Pipeline(src, opts))
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("wav: close %s: %w", path, cerr)
	}

	return frames, err
}
