// SPDX-License-Identifier: EPL-2.0

// Package metrics holds the Prometheus instruments of the decoder and the
// host bridge. A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// decode
	Decodes        *prometheus.CounterVec
	DecodeDuration prometheus.Histogram
	StreamsDecoded prometheus.Counter
	ChunksDecoded  prometheus.Counter
	AudioDuration  prometheus.Histogram

	// fetch
	Fetches      *prometheus.CounterVec
	FetchedBytes prometheus.Histogram

	// host
	ActiveSessions prometheus.Gauge
	HTTPRequests   *prometheus.CounterVec
}

// New creates the instruments and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		Decodes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "oggproc_decodes_total",
			Help: "Decodes by result",
		}, []string{"result"}),
		DecodeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "oggproc_decode_duration_seconds",
			Help:    "Wall time spent demuxing and decoding one container",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		}),
		StreamsDecoded: f.NewCounter(prometheus.CounterOpts{
			Name: "oggproc_streams_decoded_total",
			Help: "Logical streams produced by successful decodes",
		}),
		ChunksDecoded: f.NewCounter(prometheus.CounterOpts{
			Name: "oggproc_chunks_decoded_total",
			Help: "PCM chunks produced by successful decodes",
		}),
		AudioDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "oggproc_audio_duration_seconds",
			Help:    "Total audio duration of decoded containers",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~68 minutes
		}),

		Fetches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "oggproc_fetches_total",
			Help: "Source fetches by scheme and result",
		}, []string{"scheme", "result"}),
		FetchedBytes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "oggproc_fetched_bytes",
			Help:    "Size of fetched containers",
			Buckets: prometheus.ExponentialBuckets(4096, 4, 10), // 4KB to ~1GB
		}),

		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "oggproc_active_sessions",
			Help: "Open websocket sessions",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "oggproc_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"route", "status"}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveDecode records one decode attempt. streams, chunks and audio are
// ignored when err is non-nil.
func (m *Metrics) ObserveDecode(seconds float64, streams, chunks int, audio float64, err error) {
	if m == nil {
		return
	}

	m.Decodes.WithLabelValues(result(err)).Inc()
	m.DecodeDuration.Observe(seconds)
	if err != nil {
		return
	}
	m.StreamsDecoded.Add(float64(streams))
	m.ChunksDecoded.Add(float64(chunks))
	m.AudioDuration.Observe(audio)
}

func (m *Metrics) ObserveFetch(scheme string, size int, err error) {
	if m == nil {
		return
	}

	m.Fetches.WithLabelValues(scheme, result(err)).Inc()
	if err == nil {
		m.FetchedBytes.Observe(float64(size))
	}
}

func (m *Metrics) SessionStarted() {
	if m != nil {
		m.ActiveSessions.Inc()
	}
}

func (m *Metrics) SessionEnded() {
	if m != nil {
		m.ActiveSessions.Dec()
	}
}

func (m *Metrics) ObserveRequest(route, status string) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(route, status).Inc()
	}
}
