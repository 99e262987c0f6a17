// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"io"

	"github.com/ik5/oggproc/ogg"
	"github.com/ik5/oggproc/utils"
	jvorbis "github.com/jfreymuth/vorbis"
	"github.com/pkg/errors"
)

// packetDecoder is the subset of jvorbis.Decoder the cursor needs, so
// tests can substitute a scripted codec.
type packetDecoder interface {
	ReadHeader(header []byte) error
	HeadersRead() bool
	Decode(packet []byte) ([]float32, error)
}

func newCodec() packetDecoder { return new(jvorbis.Decoder) }

// noGranule marks a page on which no packet ends.
const noGranule = ^uint64(0)

type logical struct {
	header IdentHeader
	dec    packetDecoder
	// frames decoded so far, per channel
	frames uint64
}

// trim drops the frames of the last packet that lie past the end granule
// position of the stream.
func (st *logical) trim(pcm []int16, granule uint64) []int16 {
	ch := st.header.Channels
	end := st.frames + uint64(len(pcm)/ch)

	if granule == noGranule || end <= granule {
		st.frames = end
		return pcm
	}

	keep := uint64(0)
	if granule > st.frames {
		keep = granule - st.frames
	}
	st.frames += keep

	return pcm[:int(keep)*ch]
}

// Cursor walks the audio packets of a physical Ogg stream, decoding each
// one with the codec state of the logical stream it belongs to.
type Cursor struct {
	r        *ogg.Reader
	newCodec func() packetDecoder

	streams map[uint32]*logical
	skipped map[uint32]bool

	serial uint32
	header IdentHeader
	pcm    []int16
}

// Open reads the headers of the first logical stream from r and returns a
// cursor positioned before its first audio packet.
func Open(r io.Reader) (*Cursor, error) {
	return open(r, newCodec)
}

func open(r io.Reader, codec func() packetDecoder) (*Cursor, error) {
	c := &Cursor{
		r:        ogg.NewReader(r),
		newCodec: codec,
		streams:  make(map[uint32]*logical),
		skipped:  make(map[uint32]bool),
	}

	pkt, err := c.r.NextPacket()
	if err != nil {
		if err == io.EOF {
			return nil, ErrMissingHeaders
		}
		return nil, errors.Wrap(err, "vorbis: read identification header")
	}

	st, err := c.begin(pkt)
	if err != nil {
		return nil, err
	}
	c.serial = pkt.Serial
	c.header = st.header

	for !st.dec.HeadersRead() {
		pkt, err := c.r.NextPacket()
		if err == io.EOF {
			return nil, ErrMissingHeaders
		}
		if err != nil {
			return nil, errors.Wrap(err, "vorbis: read headers")
		}
		if pkt.Serial != c.serial {
			if _, err := c.route(pkt); err != nil {
				return nil, err
			}
			continue
		}
		if err := st.dec.ReadHeader(pkt.Data); err != nil {
			return nil, errors.Wrapf(err, "vorbis: stream %d header", pkt.Serial)
		}
	}

	return c, nil
}

// Header returns the identification header of the stream that produced the
// most recent packet.
func (c *Cursor) Header() IdentHeader { return c.header }

// Serial returns the serial number of the stream that produced the most
// recent packet.
func (c *Cursor) Serial() uint32 { return c.serial }

// NextPacket decodes the next audio packet and returns its interleaved
// 16-bit samples. The slice is only valid until the next call. A packet may
// decode to zero samples. io.EOF signals the end of input.
func (c *Cursor) NextPacket() ([]int16, error) {
	for {
		pkt, err := c.r.NextPacket()
		if err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, errors.Wrap(err, "vorbis: read packet")
		}

		st, err := c.route(pkt)
		if err != nil {
			return nil, err
		}
		if st == nil {
			continue
		}

		c.serial = pkt.Serial
		c.header = st.header

		if pkt.EOS {
			delete(c.streams, pkt.Serial)
		}

		if len(pkt.Data) == 0 {
			return c.pcm[:0], nil
		}

		out, err := st.dec.Decode(pkt.Data)
		if err != nil {
			return nil, errors.Wrapf(err, "vorbis: stream %d decode", pkt.Serial)
		}
		c.pcm = utils.Float32sToInt16s(c.pcm, out)
		if pkt.EOS {
			c.pcm = st.trim(c.pcm, pkt.Granule)
		} else {
			st.frames += uint64(len(c.pcm) / st.header.Channels)
		}

		return c.pcm, nil
	}
}

// route feeds header packets to their stream and returns the stream when
// pkt is an audio packet. Packets of non-Vorbis streams return nil.
func (c *Cursor) route(pkt ogg.Packet) (*logical, error) {
	if c.skipped[pkt.Serial] {
		return nil, nil
	}

	st, ok := c.streams[pkt.Serial]
	if !ok {
		if !pkt.BOS || IsIdentHeader(pkt.Data) {
			_, err := c.begin(pkt)
			return nil, err
		}
		// a multiplexed stream of another codec
		c.skipped[pkt.Serial] = true
		return nil, nil
	}

	if !st.dec.HeadersRead() {
		if err := st.dec.ReadHeader(pkt.Data); err != nil {
			return nil, errors.Wrapf(err, "vorbis: stream %d header", pkt.Serial)
		}
		return nil, nil
	}

	return st, nil
}

func (c *Cursor) begin(pkt ogg.Packet) (*logical, error) {
	h, err := ParseIdentHeader(pkt.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "vorbis: stream %d", pkt.Serial)
	}

	st := &logical{header: h, dec: c.newCodec()}
	if err := st.dec.ReadHeader(pkt.Data); err != nil {
		return nil, errors.Wrapf(err, "vorbis: stream %d identification header", pkt.Serial)
	}
	c.streams[pkt.Serial] = st

	return st, nil
}
