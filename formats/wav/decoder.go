// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	pcm "github.com/ik5/oggproc/audio"
)

type source struct {
	dec        *wav.Decoder
	sampleRate int
	channels   int
	buf        *audio.IntBuffer
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if cap(s.buf.Data) < len(dst) {
		s.buf.Data = make([]int, len(dst))
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.buf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("wav: read samples: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}

	for i, v := range s.buf.Data[:n] {
		dst[i] = float32(v) / 32768
	}
	return n, nil
}

// Decode opens a 16-bit PCM WAV stream, such as one written by Encode.
func Decode(r io.ReadSeeker) (pcm.Source, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if dec.WavAudioFormat != formatPCM || dec.BitDepth != bitDepth {
		return nil, ErrOnlyPCM16bitSupported
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("wav: seek to samples: %w", err)
	}

	channels, rate := int(dec.NumChans), int(dec.SampleRate)

	return &source{
		dec:        dec,
		sampleRate: rate,
		channels:   channels,
		buf: &audio.IntBuffer{
			Format: &audio.Format{NumChannels: channels, SampleRate: rate},
		},
	}, nil
}
