// SPDX-License-Identifier: EPL-2.0

// Package oggproc decodes Ogg containers that carry one or more chained
// Vorbis logical streams into normalized PCM chunks with indexed access.
//
// Decoding is eager: NewFromBytes and NewFromSource return only once every
// packet has been decoded, and the resulting Processor never changes.
//
// # Quick Start
//
//	p, err := oggproc.NewFromBytes(data)
//	if err != nil {
//	    // *DecodeError; errors.Is(err, oggproc.ErrMalformed) for bad headers
//	}
//
//	for s := range p.StreamCount() {
//	    fmt.Println(p.Serial(s), p.Channels(s), p.SampleRate(s), p.Duration(s))
//	    for i := range p.ChunkCount(s) {
//	        play(p.Chunk(s, i))
//	    }
//	}
//
// NewFromSource fetches the container first, through the scheme registry of
// the fetch package (http, https, file or a bare path):
//
//	p, err := oggproc.NewFromSource(ctx, "https://example.com/radio.ogg")
//
// Fetch failures come back as *fetch.Error, untouched.
//
// # Logical Streams
//
// A new LogicalStream starts every time the serial number of the decoded
// packets changes. Each stream keeps the channel count and sample rate of
// its own identification header. Offset is the stream's start time inside
// the chained timeline.
//
// # Sample Format
//
// Chunks hold interleaved float32 samples equal to int16 / 65536, so they
// span [-0.5, 0.5). Packets that decode to no samples produce no chunk.
// LogicalStream.Reader rescales to the full [-1, 1) range for the audio
// package pipeline and the WAV exporter.
//
// # Out of Range Access
//
// Accessors panic with *BoundsError when given an index outside the valid
// range. Hosts defer ReportPanic at their boundaries to turn such a panic
// into an error and log it through the logger passed to Init.
package oggproc
