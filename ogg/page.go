// SPDX-License-Identifier: EPL-2.0

package ogg

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Header type flags.
const (
	FlagContinued = 0x01
	FlagBOS       = 0x02
	FlagEOS       = 0x04
)

const (
	headerSize     = 27
	maxSegmentSize = 255

	// MaxPageSize is the largest page the format can describe.
	MaxPageSize = headerSize + maxSegmentSize + maxSegmentSize*maxSegmentSize
)

var capturePattern = [4]byte{'O', 'g', 'g', 'S'}

// Page is a single Ogg page.
type Page struct {
	Flags    byte
	Granule  uint64
	Serial   uint32
	Sequence uint32

	// Segments is the lacing table; every value below 255 ends a packet.
	Segments []byte
	Payload  []byte
}

func (p *Page) IsBOS() bool       { return p.Flags&FlagBOS != 0 }
func (p *Page) IsEOS() bool       { return p.Flags&FlagEOS != 0 }
func (p *Page) IsContinued() bool { return p.Flags&FlagContinued != 0 }

// Open reports whether the last packet on the page continues on the next
// page of the same logical stream.
func (p *Page) Open() bool {
	return len(p.Segments) > 0 && p.Segments[len(p.Segments)-1] == maxSegmentSize
}

// ReadPage reads one page from r and verifies its checksum.
//
// io.EOF is returned only when r is exhausted exactly on a page boundary; a
// page cut short returns ErrTruncatedPage.
func ReadPage(r io.Reader) (*Page, error) {
	var hdr [headerSize]byte

	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrTruncatedPage
		}
		return nil, fmt.Errorf("ogg: read page header: %w", err)
	}

	if [4]byte(hdr[0:4]) != capturePattern {
		return nil, ErrCapturePattern
	}
	if hdr[4] != 0 {
		return nil, fmt.Errorf("%w: %d", ErrVersion, hdr[4])
	}

	p := &Page{
		Flags:    hdr[5],
		Granule:  binary.LittleEndian.Uint64(hdr[6:14]),
		Serial:   binary.LittleEndian.Uint32(hdr[14:18]),
		Sequence: binary.LittleEndian.Uint32(hdr[18:22]),
		Segments: make([]byte, hdr[26]),
	}
	stored := binary.LittleEndian.Uint32(hdr[22:26])

	if _, err := io.ReadFull(r, p.Segments); err != nil {
		return nil, ErrTruncatedPage
	}

	size := 0
	for _, s := range p.Segments {
		size += int(s)
	}
	p.Payload = make([]byte, size)
	if _, err := io.ReadFull(r, p.Payload); err != nil {
		return nil, ErrTruncatedPage
	}

	hdr[22], hdr[23], hdr[24], hdr[25] = 0, 0, 0, 0
	crc := crcUpdate(0, hdr[:])
	crc = crcUpdate(crc, p.Segments)
	crc = crcUpdate(crc, p.Payload)
	if crc != stored {
		return nil, fmt.Errorf("%w: serial %d page %d", ErrChecksum, p.Serial, p.Sequence)
	}

	return p, nil
}

// Encode serializes the page, computing its checksum.
func (p *Page) Encode() []byte {
	data := make([]byte, headerSize+len(p.Segments)+len(p.Payload))

	copy(data[0:4], capturePattern[:])
	data[5] = p.Flags
	binary.LittleEndian.PutUint64(data[6:14], p.Granule)
	binary.LittleEndian.PutUint32(data[14:18], p.Serial)
	binary.LittleEndian.PutUint32(data[18:22], p.Sequence)
	data[26] = byte(len(p.Segments))
	copy(data[headerSize:], p.Segments)
	copy(data[headerSize+len(p.Segments):], p.Payload)

	binary.LittleEndian.PutUint32(data[22:26], Checksum(data))

	return data
}

// Lacing returns the segment table entries for a packet of n bytes.
// A packet whose length is a multiple of 255 gets a terminating zero entry.
func Lacing(n int) []byte {
	table := make([]byte, n/maxSegmentSize+1)
	for i := range len(table) - 1 {
		table[i] = maxSegmentSize
	}
	table[len(table)-1] = byte(n % maxSegmentSize)
	return table
}
