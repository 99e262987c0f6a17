// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const identHeaderSize = 30

var vorbisMagic = []byte("vorbis")

// IdentHeader is the identification header that opens every Vorbis
// logical stream.
type IdentHeader struct {
	Channels   int
	SampleRate int

	BitrateMax     int32
	BitrateNominal int32
	BitrateMin     int32

	// Short and long block sizes in samples.
	Blocksize0 int
	Blocksize1 int
}

// IsIdentHeader reports whether packet starts like an identification header.
func IsIdentHeader(packet []byte) bool {
	return len(packet) >= 7 && packet[0] == 1 && bytes.Equal(packet[1:7], vorbisMagic)
}

// ParseIdentHeader decodes and validates an identification header packet.
func ParseIdentHeader(packet []byte) (IdentHeader, error) {
	if !IsIdentHeader(packet) {
		return IdentHeader{}, ErrNotIdentHeader
	}
	if len(packet) < identHeaderSize {
		return IdentHeader{}, fmt.Errorf("%w: %d bytes", ErrInvalidIdentHeader, len(packet))
	}

	if v := binary.LittleEndian.Uint32(packet[7:11]); v != 0 {
		return IdentHeader{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}

	h := IdentHeader{
		Channels:       int(packet[11]),
		SampleRate:     int(binary.LittleEndian.Uint32(packet[12:16])),
		BitrateMax:     int32(binary.LittleEndian.Uint32(packet[16:20])),
		BitrateNominal: int32(binary.LittleEndian.Uint32(packet[20:24])),
		BitrateMin:     int32(binary.LittleEndian.Uint32(packet[24:28])),
		Blocksize0:     1 << (packet[28] & 0x0F),
		Blocksize1:     1 << (packet[28] >> 4),
	}

	switch {
	case h.Channels == 0:
		return IdentHeader{}, fmt.Errorf("%w: zero channels", ErrInvalidIdentHeader)
	case h.SampleRate <= 0:
		return IdentHeader{}, fmt.Errorf("%w: sample rate %d", ErrInvalidIdentHeader, h.SampleRate)
	case h.Blocksize0 < 64 || h.Blocksize1 > 8192 || h.Blocksize0 > h.Blocksize1:
		return IdentHeader{}, fmt.Errorf("%w: block sizes %d/%d", ErrInvalidIdentHeader, h.Blocksize0, h.Blocksize1)
	case packet[29]&1 == 0:
		return IdentHeader{}, fmt.Errorf("%w: framing bit not set", ErrInvalidIdentHeader)
	}

	return h, nil
}
