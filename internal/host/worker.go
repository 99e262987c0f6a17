// SPDX-License-Identifier: EPL-2.0

package host

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ik5/oggproc"
)

const (
	// MessageBeginFromPath asks the host to fetch, decode and stream a file.
	MessageBeginFromPath = "BeginFromPath"

	// ErrorPrefix starts the text message that reports a failed request.
	ErrorPrefix = "error:"

	readLimit = 64 << 10
	// websocket close reasons are limited to 123 bytes
	maxCloseReason = 123
)

type Request struct {
	MessageType string `json:"message_type"`
	FilePath    string `json:"file_path"`
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: s.opts.OriginPatterns,
	})
	if err != nil {
		s.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.CloseNow()

	conn.SetReadLimit(readLimit)

	id := uuid.NewString()
	logger := s.logger.With(slog.String("session", id))

	s.metrics.SessionStarted()
	defer s.metrics.SessionEnded()

	logger.Info("session opened", slog.String("remote", c.Request.RemoteAddr))
	defer logger.Info("session closed")

	ctx := c.Request.Context()

	for {
		typ, msg, err := conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				logger.Debug("websocket read ended", slog.String("error", err.Error()))
			}
			return
		}
		if typ != websocket.MessageText {
			logger.Debug("ignoring binary message", slog.Int("bytes", len(msg)))
			continue
		}

		var req Request
		if err := json.Unmarshal(msg, &req); err != nil {
			s.fail(ctx, conn, logger, fmt.Errorf("invalid request: %w", err))
			return
		}

		switch req.MessageType {
		case MessageBeginFromPath:
			if err := s.begin(ctx, conn, logger, req.FilePath); err != nil {
				s.fail(ctx, conn, logger, err)
				return
			}
		default:
			logger.Debug("ignoring message", slog.String("message_type", req.MessageType))
		}
	}
}

func (s *Server) begin(ctx context.Context, conn *websocket.Conn, logger *slog.Logger, path string) (err error) {
	defer oggproc.ReportPanic(&err)

	logger.Info("decoding source", slog.String("file_path", path))

	p, err := oggproc.NewFromSource(ctx, path, s.decodeOptions(logger)...)
	if err != nil {
		return err
	}

	return SendResults(ctx, conn, p)
}

// SendResults writes p to conn: the stream count, then for every stream a
// "chunk_count,channels,sample_rate,duration" line followed by one binary
// message per chunk.
func SendResults(ctx context.Context, conn *websocket.Conn, p *oggproc.Processor) error {
	count := p.StreamCount()
	if err := conn.Write(ctx, websocket.MessageText, []byte(strconv.FormatUint(uint64(count), 10))); err != nil {
		return fmt.Errorf("send stream count: %w", err)
	}

	var buf []byte
	for s := range count {
		if err := conn.Write(ctx, websocket.MessageText, []byte(StreamHeader(p, s))); err != nil {
			return fmt.Errorf("send stream %d header: %w", s, err)
		}

		for i := range p.ChunkCount(s) {
			buf = EncodeChunk(buf[:0], p.Chunk(s, i))
			if err := conn.Write(ctx, websocket.MessageBinary, buf); err != nil {
				return fmt.Errorf("send stream %d chunk %d: %w", s, i, err)
			}
		}
	}

	return nil
}

// StreamHeader formats the metadata line of stream s.
func StreamHeader(p *oggproc.Processor, s uint) string {
	return fmt.Sprintf("%d,%d,%d,%s",
		p.ChunkCount(s),
		p.Channels(s),
		p.SampleRate(s),
		strconv.FormatFloat(p.Duration(s), 'f', -1, 64),
	)
}

// EncodeChunk appends chunk to dst as little-endian float32 values.
func EncodeChunk(dst []byte, chunk []float32) []byte {
	for _, v := range chunk {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}
	return dst
}

func (s *Server) fail(ctx context.Context, conn *websocket.Conn, logger *slog.Logger, err error) {
	logger.Error("request failed", slog.String("error", err.Error()))

	if werr := conn.Write(ctx, websocket.MessageText, []byte(ErrorPrefix+err.Error())); werr != nil {
		if !errors.Is(werr, context.Canceled) {
			logger.Debug("error report not delivered", slog.String("error", werr.Error()))
		}
		return
	}

	reason := err.Error()
	if len(reason) > maxCloseReason {
		reason = reason[:maxCloseReason]
	}
	_ = conn.Close(websocket.StatusInternalError, reason)
}
