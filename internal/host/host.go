// SPDX-License-Identifier: EPL-2.0

// Package host serves decoded containers to playback clients over HTTP and
// websockets.
package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ik5/oggproc"
	"github.com/ik5/oggproc/fetch"
	"github.com/ik5/oggproc/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultMaxBody  = 256 << 20
	shutdownTimeout = 30 * time.Second
)

type Options struct {
	Logger *slog.Logger
	// Registry receives the server metrics and backs /metrics. A private
	// registry is created when nil.
	Registry *prometheus.Registry
	// Fetcher resolves websocket file paths. When nil only http and https
	// ids are served.
	Fetcher fetch.Fetcher
	// Open replaces the Vorbis packet decoder.
	Open oggproc.OpenFunc
	// MaxBodyBytes caps POST /decode bodies.
	MaxBodyBytes int64
	// OriginPatterns are the websocket origins accepted besides the host's own.
	OriginPatterns []string
	Version        string
}

type Server struct {
	router  *gin.Engine
	logger  *slog.Logger
	metrics *metrics.Metrics
	opts    Options
}

func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBody
	}
	if opts.Fetcher == nil {
		opts.Fetcher = fetch.NewRemote(fetch.Options{})
	}

	s := &Server{
		router:  gin.New(),
		logger:  opts.Logger,
		metrics: metrics.New(opts.Registry),
		opts:    opts,
	}

	s.router.Use(gin.Recovery(), s.observe)

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "oggproc",
			"version": s.opts.Version,
		})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	s.router.POST("/decode", s.handleDecode)
	s.router.GET("/ws", s.handleWebSocket)

	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// observe logs and counts every request by route template and status.
func (s *Server) observe(c *gin.Context) {
	start := time.Now()
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	status := c.Writer.Status()

	s.metrics.ObserveRequest(route, strconv.Itoa(status))
	s.logger.Debug("request",
		slog.String("method", c.Request.Method),
		slog.String("route", route),
		slog.Int("status", status),
		slog.Duration("elapsed", time.Since(start)),
	)
}

func (s *Server) decodeOptions(logger *slog.Logger) []oggproc.Option {
	opts := []oggproc.Option{
		oggproc.WithLogger(logger),
		oggproc.WithMetrics(s.metrics),
		oggproc.WithFetcher(s.opts.Fetcher),
	}
	if s.opts.Open != nil {
		opts = append(opts, oggproc.WithOpenFunc(s.opts.Open))
	}
	return opts
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("host listening", slog.String("address", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down host")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve on %s: %w", addr, err)
	}

	return nil
}
