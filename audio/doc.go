// SPDX-License-Identifier: EPL-2.0

// Package audio provides streaming sample processing for decoded audio.
//
// This package contains:
//   - Source interface for audio input
//   - Resampler for sample rate conversion
//   - MonoMixer for channel mixing
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    Close() error
//	}
//
// oggproc.LogicalStream.Reader implements Source, as do Resampler and
// MonoMixer, so they chain:
//
//	src := audio.NewMonoMixer(audio.NewResampler(stream.Reader(), 16000))
//
// # Resampling
//
// The Resampler uses Catmull-Rom cubic interpolation over a four frame
// window and reads its source in small blocks, so memory use does not grow
// with the stream length.
//
// # Sample Format
//
// Samples are interleaved float32 in [-1.0, 1.0].
//
// # End of Stream
//
// ReadSamples returns io.EOF once no more samples are available. It may
// return n > 0 together with io.EOF.
//
//	for {
//	    n, err := src.ReadSamples(buf)
//	    process(buf[:n])
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
package audio
