// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"bufio"
	"bytes"
	"io"
)

// Packet is one complete packet of a logical bitstream.
type Packet struct {
	Serial uint32
	Data   []byte

	// Granule is the granule position of the page the packet completed on.
	Granule uint64

	// BOS marks the first packet of a logical stream, EOS the last one.
	BOS bool
	EOS bool
}

// Reader splits a physical Ogg stream into packets.
type Reader struct {
	r       *bufio.Reader
	queue   []Packet
	partial map[uint32][]byte
	pages   int
	skipped int64
}

func NewReader(r io.Reader) *Reader {
	return &Reader{
		r:       bufio.NewReaderSize(r, MaxPageSize),
		partial: make(map[uint32][]byte),
	}
}

// Pages returns the number of pages read so far.
func (r *Reader) Pages() int { return r.pages }

// Skipped returns the number of bytes passed over while looking for a
// capture pattern.
func (r *Reader) Skipped() int64 { return r.skipped }

// sync advances to the next capture pattern. Input holding no page at all
// fails with ErrCapturePattern; bytes after the last page end the stream.
func (r *Reader) sync() error {
	var skipped int64
	for {
		b, err := r.r.Peek(len(capturePattern))
		if len(b) < len(capturePattern) {
			if err != io.EOF {
				return err
			}
			skipped += int64(len(b))
			r.skipped += skipped
			if skipped > 0 && r.pages == 0 {
				return ErrCapturePattern
			}
			return io.EOF
		}
		if bytes.Equal(b, capturePattern[:]) {
			r.skipped += skipped
			return nil
		}

		n := len(b)
		if i := bytes.IndexByte(b[1:], capturePattern[0]); i >= 0 {
			n = 1 + i
		}
		if _, err := r.r.Discard(n); err != nil {
			return err
		}
		skipped += int64(n)
	}
}

// NextPacket returns the next complete packet in stream order. Bytes
// between pages, such as a leading ID3 tag, are skipped. It returns io.EOF
// once the underlying reader ends after the last page. A packet left
// unfinished by the last page is dropped.
func (r *Reader) NextPacket() (Packet, error) {
	for len(r.queue) == 0 {
		if err := r.sync(); err != nil {
			return Packet{}, err
		}
		page, err := ReadPage(r.r)
		if err != nil {
			return Packet{}, err
		}
		r.pages++
		r.split(page)
	}

	pkt := r.queue[0]
	r.queue = r.queue[1:]

	return pkt, nil
}

func (r *Reader) split(p *Page) {
	buf, hasPartial := r.partial[p.Serial]
	delete(r.partial, p.Serial)

	if !p.IsContinued() {
		buf = nil
	}
	// the head of this packet was never seen, e.g. after a capture that
	// started mid-stream
	skip := p.IsContinued() && !hasPartial

	first := len(r.queue)
	offset := 0
	for _, seg := range p.Segments {
		buf = append(buf, p.Payload[offset:offset+int(seg)]...)
		offset += int(seg)
		if seg == maxSegmentSize {
			continue
		}
		if skip {
			skip = false
			buf = nil
			continue
		}
		r.queue = append(r.queue, Packet{Serial: p.Serial, Data: buf, Granule: p.Granule})
		buf = nil
	}

	if p.Open() && !skip {
		r.partial[p.Serial] = buf
	}

	if len(r.queue) > first {
		r.queue[first].BOS = p.IsBOS()
		if p.IsEOS() && !p.Open() {
			r.queue[len(r.queue)-1].EOS = true
		}
	}
}
