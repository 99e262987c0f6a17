// SPDX-License-Identifier: EPL-2.0

// Package wav writes decoded streams as 16-bit PCM WAV files.
//
// This package uses github.com/go-audio/wav for the RIFF layout.
//
// # Exporting a Stream
//
//	p, _ := oggproc.NewFromBytes(data)
//	frames, err := wav.WriteFile("stream0.wav", p.Stream(0).Reader(), wav.Options{
//	    SampleRate: 16000,
//	    Mono:       true,
//	})
//
// Options are applied through Pipeline, which chains the resampler and the
// mono mixer of the audio package in front of the encoder.
//
// # Reading Back
//
// Decode opens a 16-bit PCM WAV as an audio.Source with samples in
// [-1.0, 1.0).
package wav
