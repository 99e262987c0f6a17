// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes the Vorbis packets of an Ogg container one packet
// at a time.
//
// This package uses github.com/jfreymuth/vorbis as the codec and the ogg
// package of this module for framing. Unlike a whole-file reader it reports
// which logical stream every packet belongs to, which is what chained files
// need.
//
// # Decoding Packets
//
// Open reads the identification, comment and setup headers of the first
// logical stream. NextPacket then returns the interleaved 16-bit samples of
// each audio packet:
//
//	c, err := vorbis.Open(bytes.NewReader(data))
//	if err != nil {
//	    // not Ogg, not Vorbis, or corrupt headers
//	}
//
//	for {
//	    pcm, err := c.NextPacket()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        // corrupt page or packet
//	    }
//	    fmt.Println(c.Serial(), c.Header().Channels, len(pcm))
//	}
//
// # Chained Streams
//
// When a new logical stream begins, its headers are consumed silently and
// Serial and Header switch to the new stream with the first audio packet
// it produces.
//
// # Output Format
//
// Samples are interleaved signed 16-bit values:
//
//	[L0, R0, L1, R1, L2, R2, ...]
//
// A packet may decode to zero samples. The first audio packet of every
// stream always does, since it only primes the overlap window.
//
// # Declared Length
//
// DeclaredLength uses github.com/jfreymuth/oggvorbis to read the length a
// seekable file declares through its final granule position, without
// decoding any audio.
package vorbis
