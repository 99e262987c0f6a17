// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds test doubles shared by the oggproc packages.
package audiotest

import (
	"encoding/binary"

	"github.com/ik5/oggproc/ogg"
)

// IdentPacket builds a Vorbis identification header packet.
func IdentPacket(channels, sampleRate int) []byte {
	p := make([]byte, 30)
	p[0] = 1
	copy(p[1:7], "vorbis")
	p[11] = byte(channels)
	binary.LittleEndian.PutUint32(p[12:16], uint32(sampleRate))
	binary.LittleEndian.PutUint32(p[20:24], 128000)
	p[28] = 0xB8 // 256 / 2048 sample blocks
	p[29] = 1
	return p
}

// CommentPacket builds a comment header with an empty vendor string.
func CommentPacket() []byte {
	p := []byte{3, 'v', 'o', 'r', 'b', 'i', 's'}
	p = binary.LittleEndian.AppendUint32(p, 0)
	p = binary.LittleEndian.AppendUint32(p, 0)
	return append(p, 1)
}

// SetupPacket builds a setup header placeholder. Only scripted codecs
// accept it.
func SetupPacket() []byte {
	return []byte{5, 'v', 'o', 'r', 'b', 'i', 's', 0, 0, 0, 1}
}

// Stream is one logical stream to be laid out by Chain.
type Stream struct {
	Serial     uint32
	Channels   int
	SampleRate int

	// Audio packets, written one per page after the three headers.
	Packets [][]byte
	// EndGranule, when set, replaces the granule position of the last
	// page. Otherwise every page ends on the frames decoded so far, counting
	// each byte after the first as one sample.
	EndGranule uint64
}

// Pages returns the encoded pages of s, headers included.
func (s Stream) Pages() [][]byte {
	var seq uint32
	page := func(flags byte, granule uint64, packets ...[]byte) []byte {
		p := &ogg.Page{Flags: flags, Granule: granule, Serial: s.Serial, Sequence: seq}
		for _, pkt := range packets {
			p.Segments = append(p.Segments, ogg.Lacing(len(pkt))...)
			p.Payload = append(p.Payload, pkt...)
		}
		seq++
		return p.Encode()
	}

	var last byte
	if len(s.Packets) == 0 {
		last = ogg.FlagEOS
	}
	pages := [][]byte{
		page(ogg.FlagBOS, 0, IdentPacket(s.Channels, s.SampleRate)),
		page(last, 0, CommentPacket(), SetupPacket()),
	}
	var granule uint64
	for i, pkt := range s.Packets {
		if len(pkt) > 1 && s.Channels > 0 {
			granule += uint64((len(pkt) - 1) / s.Channels)
		}
		var flags byte
		if i == len(s.Packets)-1 {
			flags = ogg.FlagEOS
			if s.EndGranule != 0 {
				granule = s.EndGranule
			}
		}
		pages = append(pages, page(flags, granule, pkt))
	}

	return pages
}

// Chain concatenates logical streams into one physical Ogg stream.
func Chain(streams ...Stream) []byte {
	var out []byte
	for _, s := range streams {
		for _, p := range s.Pages() {
			out = append(out, p...)
		}
	}
	return out
}
