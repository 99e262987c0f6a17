// SPDX-License-Identifier: EPL-2.0

package oggproc

import (
	"io"
	"slices"
)

// normalizeDivisor maps int16 samples to [-0.5, 0.5). It is half the usual
// full-scale divisor and consumers of chunks depend on the exact value.
const normalizeDivisor = 65536.0

// Normalize converts one decoded sample to its chunk representation.
func Normalize(v int16) float32 {
	return float32(v) / normalizeDivisor
}

// Chunk is the normalized, interleaved output of one non-empty packet.
type Chunk []float32

// LogicalStream accumulates the chunks of one logical bitstream. It is
// append-only while decoding and immutable once a Processor owns it.
type LogicalStream struct {
	serial     uint32
	channels   uint
	sampleRate uint

	chunks   []Chunk
	samples  uint64
	duration float64

	// start of the stream in the chained timeline, in seconds
	offset float64
}

func NewLogicalStream(serial uint32, channels, sampleRate uint) *LogicalStream {
	return &LogicalStream{
		serial:     serial,
		channels:   channels,
		sampleRate: sampleRate,
	}
}

// AddChunk normalizes samples into a new chunk and extends the duration by
// len(samples) / (sampleRate * channels). Empty input is ignored.
func (s *LogicalStream) AddChunk(samples []int16) {
	if len(samples) == 0 {
		return
	}

	c := make(Chunk, len(samples))
	for i, v := range samples {
		c[i] = Normalize(v)
	}

	s.chunks = append(s.chunks, c)
	s.samples += uint64(len(samples))
	s.duration += float64(len(samples)) / float64(s.sampleRate*s.channels)
}

func (s *LogicalStream) Serial() uint32    { return s.serial }
func (s *LogicalStream) Channels() uint    { return s.channels }
func (s *LogicalStream) SampleRate() uint  { return s.sampleRate }
func (s *LogicalStream) ChunkCount() uint  { return uint(len(s.chunks)) }
func (s *LogicalStream) Duration() float64 { return s.duration }
func (s *LogicalStream) Offset() float64   { return s.offset }
func (s *LogicalStream) Samples() uint64   { return s.samples }
func (s *LogicalStream) Frames() uint64    { return s.samples / uint64(s.channels) }

// Chunk returns a copy of chunk i. It panics with *BoundsError when i is
// not below ChunkCount.
func (s *LogicalStream) Chunk(i uint) []float32 {
	if i >= s.ChunkCount() {
		panic(&BoundsError{What: "chunk", Index: i, Len: s.ChunkCount()})
	}
	return slices.Clone(s.chunks[i])
}

// Reader returns an audio.Source over the stream's chunks in order. It
// presents samples at full scale, int16 / 32768, so the audio pipeline and
// exporters see the decoded signal unchanged.
func (s *LogicalStream) Reader() *StreamReader {
	return &StreamReader{s: s}
}

// StreamReader reads a LogicalStream as an audio.Source.
type StreamReader struct {
	s     *LogicalStream
	chunk int
	pos   int
}

func (r *StreamReader) SampleRate() int { return int(r.s.sampleRate) }
func (r *StreamReader) Channels() int   { return int(r.s.channels) }
func (r *StreamReader) Close() error    { return nil }

func (r *StreamReader) ReadSamples(dst []float32) (int, error) {
	n := 0
	for n < len(dst) && r.chunk < len(r.s.chunks) {
		c := r.s.chunks[r.chunk]
		m := min(len(dst)-n, len(c)-r.pos)
		for i, v := range c[r.pos : r.pos+m] {
			dst[n+i] = v * 2
		}
		n += m
		r.pos += m
		if r.pos == len(c) {
			r.chunk++
			r.pos = 0
		}
	}

	if r.chunk >= len(r.s.chunks) {
		return n, io.EOF
	}
	return n, nil
}
