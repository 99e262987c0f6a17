// SPDX-License-Identifier: EPL-2.0

package oggproc

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/ik5/oggproc/formats/vorbis"
)

// PacketCursor is the codec side of the demuxer: it yields decoded packets
// and reports the logical stream the last one came from.
type PacketCursor interface {
	Header() vorbis.IdentHeader
	Serial() uint32
	NextPacket() ([]int16, error)
}

// OpenFunc reads the first identification header from r and returns a
// cursor positioned before the first audio packet.
type OpenFunc func(r io.Reader) (PacketCursor, error)

// OpenVorbis is the default OpenFunc.
func OpenVorbis(r io.Reader) (PacketCursor, error) {
	c, err := vorbis.Open(r)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Decode demuxes a complete Ogg/Vorbis buffer into its logical streams.
func Decode(data []byte) ([]*LogicalStream, error) {
	return DecodeWith(bytes.NewReader(data), OpenVorbis)
}

// DecodeReader demuxes everything r yields.
func DecodeReader(r io.Reader) ([]*LogicalStream, error) {
	return DecodeWith(r, OpenVorbis)
}

// DecodeWith demuxes r with the codec behind open.
func DecodeWith(r io.Reader, open OpenFunc) ([]*LogicalStream, error) {
	return demux(r, open, discardLogger)
}

func demux(r io.Reader, open OpenFunc, logger *slog.Logger) ([]*LogicalStream, error) {
	cur, err := open(r)
	if err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("%w: %w", ErrMalformed, err)}
	}

	serial := cur.Serial()
	streams := []*LogicalStream{streamFor(cur)}
	skipped := 0

	for {
		pcm, err := cur.NextPacket()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DecodeError{Err: err}
		}

		if s := cur.Serial(); s != serial {
			logger.Debug("logical stream boundary",
				slog.Uint64("from_serial", uint64(serial)),
				slog.Uint64("to_serial", uint64(s)),
				slog.Int("stream_index", len(streams)),
			)
			serial = s
			streams = append(streams, streamFor(cur))
		}

		if len(pcm) == 0 {
			skipped++
			continue
		}
		streams[len(streams)-1].AddChunk(pcm)
	}

	var offset float64
	for _, s := range streams {
		s.offset = offset
		offset += s.duration
	}

	logger.Debug("decode finished",
		slog.Int("streams", len(streams)),
		slog.Int("empty_packets", skipped),
	)

	return streams, nil
}

func streamFor(cur PacketCursor) *LogicalStream {
	h := cur.Header()
	return NewLogicalStream(cur.Serial(), uint(h.Channels), uint(h.SampleRate))
}
