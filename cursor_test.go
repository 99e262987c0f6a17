// SPDX-License-Identifier: EPL-2.0

package oggproc

import (
	"io"

	"github.com/ik5/oggproc/formats/vorbis"
)

// step is one scripted result of scriptedCursor.NextPacket. A serial that
// differs from the current one switches the cursor to header.
type step struct {
	serial  uint32
	header  vorbis.IdentHeader
	samples []int16
	err     error
}

// scriptedCursor replays a fixed sequence of decoded packets.
type scriptedCursor struct {
	header vorbis.IdentHeader
	serial uint32
	steps  []step
	pos    int
}

func identHeader(channels, sampleRate int) vorbis.IdentHeader {
	return vorbis.IdentHeader{Channels: channels, SampleRate: sampleRate, Blocksize0: 256, Blocksize1: 2048}
}

func scripted(header vorbis.IdentHeader, serial uint32, steps ...step) OpenFunc {
	return func(io.Reader) (PacketCursor, error) {
		return &scriptedCursor{header: header, serial: serial, steps: steps}, nil
	}
}

func (c *scriptedCursor) Header() vorbis.IdentHeader { return c.header }
func (c *scriptedCursor) Serial() uint32             { return c.serial }

func (c *scriptedCursor) NextPacket() ([]int16, error) {
	if c.pos >= len(c.steps) {
		return nil, io.EOF
	}

	s := c.steps[c.pos]
	c.pos++

	if s.err != nil {
		return nil, s.err
	}
	if s.serial != c.serial {
		c.serial = s.serial
		c.header = s.header
	}

	return s.samples, nil
}
