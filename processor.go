// SPDX-License-Identifier: EPL-2.0

package oggproc

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ik5/oggproc/fetch"
	"github.com/ik5/oggproc/internal/metrics"
)

// Processor is the decoded form of one Ogg/Vorbis container: at least one
// logical stream, each with its chunks and metadata. It is read-only after
// construction and safe for concurrent readers.
type Processor struct {
	streams []*LogicalStream
}

type options struct {
	logger  *slog.Logger
	fetcher fetch.Fetcher
	open    OpenFunc
	metrics *metrics.Metrics
}

// Option configures NewFromBytes and NewFromSource.
type Option func(*options)

// WithLogger sets the logger for decode events. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithFetcher replaces the scheme registry NewFromSource fetches through.
func WithFetcher(f fetch.Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// WithOpenFunc replaces the Vorbis packet decoder.
func WithOpenFunc(open OpenFunc) Option {
	return func(o *options) { o.open = open }
}

// WithMetrics records decode and fetch outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func buildOptions(opts []Option) *options {
	o := &options{
		logger: discardLogger,
		open:   OpenVorbis,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = discardLogger
	}
	return o
}

// NewFromBytes decodes b completely. On error the Processor is nil and err
// is a *DecodeError.
func NewFromBytes(b []byte, opts ...Option) (*Processor, error) {
	return build(b, buildOptions(opts))
}

// NewFromSource fetches id in one request and decodes the result. Fetch
// failures are returned unchanged, normally as *fetch.Error.
func NewFromSource(ctx context.Context, id string, opts ...Option) (*Processor, error) {
	o := buildOptions(opts)
	if o.fetcher == nil {
		o.fetcher = fetch.NewDefault(fetch.Options{})
	}

	o.logger.Debug("fetching source", slog.String("id", id))
	b, err := o.fetcher.Fetch(ctx, id)
	o.metrics.ObserveFetch(schemeLabel(id, err), len(b), err)
	if err != nil {
		return nil, err
	}

	return build(b, o)
}

// schemeLabel keeps the metric label set to the schemes a fetcher serves.
func schemeLabel(id string, err error) string {
	if errors.Is(err, fetch.ErrUnsupportedScheme) {
		return "unsupported"
	}
	return fetch.Scheme(id)
}

func build(b []byte, o *options) (*Processor, error) {
	start := time.Now()

	streams, err := demux(bytes.NewReader(b), o.open, o.logger)
	if err != nil {
		o.metrics.ObserveDecode(time.Since(start).Seconds(), 0, 0, 0, err)
		return nil, err
	}

	p := &Processor{streams: streams}

	chunks := 0
	for _, s := range streams {
		chunks += len(s.chunks)
	}
	o.metrics.ObserveDecode(time.Since(start).Seconds(), len(streams), chunks, p.TotalDuration(), nil)

	return p, nil
}

func (p *Processor) StreamCount() uint { return uint(len(p.streams)) }

// Stream returns logical stream i. It panics with *BoundsError when i is
// not below StreamCount.
func (p *Processor) Stream(i uint) *LogicalStream {
	if i >= p.StreamCount() {
		panic(&BoundsError{What: "stream", Index: i, Len: p.StreamCount()})
	}
	return p.streams[i]
}

func (p *Processor) ChunkCount(stream uint) uint    { return p.Stream(stream).ChunkCount() }
func (p *Processor) Channels(stream uint) uint      { return p.Stream(stream).Channels() }
func (p *Processor) SampleRate(stream uint) uint    { return p.Stream(stream).SampleRate() }
func (p *Processor) Duration(stream uint) float64   { return p.Stream(stream).Duration() }
func (p *Processor) Serial(stream uint) uint32      { return p.Stream(stream).Serial() }
func (p *Processor) Offset(stream uint) float64     { return p.Stream(stream).Offset() }
func (p *Processor) Chunk(stream, i uint) []float32 { return p.Stream(stream).Chunk(i) }

// TotalDuration is the length of the chained timeline in seconds.
func (p *Processor) TotalDuration() float64 {
	var d float64
	for _, s := range p.streams {
		d += s.duration
	}
	return d
}
