// SPDX-License-Identifier: EPL-2.0

package host

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ik5/oggproc"
)

type StreamSummary struct {
	Serial     uint32  `json:"serial"`
	Channels   uint    `json:"channels"`
	SampleRate uint    `json:"sample_rate"`
	ChunkCount uint    `json:"chunk_count"`
	Frames     uint64  `json:"frames"`
	Duration   float64 `json:"duration"`
	Offset     float64 `json:"offset"`
}

type Summary struct {
	ID            string          `json:"id"`
	TotalDuration float64         `json:"total_duration"`
	Streams       []StreamSummary `json:"streams"`
}

// Summarize describes every logical stream of p.
func Summarize(id string, p *oggproc.Processor) Summary {
	sum := Summary{
		ID:            id,
		TotalDuration: p.TotalDuration(),
		Streams:       make([]StreamSummary, 0, p.StreamCount()),
	}

	for i := range p.StreamCount() {
		s := p.Stream(i)
		sum.Streams = append(sum.Streams, StreamSummary{
			Serial:     s.Serial(),
			Channels:   s.Channels(),
			SampleRate: s.SampleRate(),
			ChunkCount: s.ChunkCount(),
			Frames:     s.Frames(),
			Duration:   s.Duration(),
			Offset:     s.Offset(),
		})
	}

	return sum
}

// handleDecode decodes the request body and answers with its Summary.
func (s *Server) handleDecode(c *gin.Context) {
	id := uuid.NewString()
	logger := s.logger.With(slog.String("request", id))

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"id": id, "error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"id": id, "error": err.Error()})
		return
	}

	p, err := oggproc.NewFromBytes(body, s.decodeOptions(logger)...)
	if err != nil {
		logger.Warn("decode failed", slog.Int("bytes", len(body)), slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"id": id, "error": err.Error()})
		return
	}

	logger.Info("decoded upload",
		slog.Int("bytes", len(body)),
		slog.Uint64("streams", uint64(p.StreamCount())),
		slog.Float64("duration", p.TotalDuration()),
	)

	c.JSON(http.StatusOK, Summarize(id, p))
}
