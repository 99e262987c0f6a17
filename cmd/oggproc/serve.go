// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/ik5/oggproc/fetch"
	"github.com/ik5/oggproc/internal/config"
	"github.com/ik5/oggproc/internal/host"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type ServeCmd struct {
	Addr    string   `help:"Listen address; overrides server.address and server.port."`
	Origins []string `help:"Extra websocket origin patterns to accept."`
}

func (c *ServeCmd) Run(e *env) error {
	if e.cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	srv := host.New(host.Options{
		Logger:         e.logger,
		Registry:       reg,
		Fetcher:        hostFetcher(e.cfg),
		Open:           e.open,
		OriginPatterns: c.Origins,
		Version:        version,
	})

	addr := c.Addr
	if addr == "" {
		addr = e.cfg.Server.Addr()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e.logger.Info("starting oggproc host",
		slog.String("version", version),
		slog.String("address", addr),
		slog.Int64("fetch_max_bytes", e.cfg.Fetch.MaxBytes),
	)

	return srv.Run(ctx, addr)
}

// hostFetcher serves http and https sources to websocket clients, plus
// local files under server.media_root when it is set.
func hostFetcher(cfg *config.Config) fetch.Fetcher {
	r := fetch.NewRemote(cfg.Fetch.Options())
	if cfg.Server.MediaRoot != "" {
		r.Register("file", &fetch.Root{Dir: cfg.Server.MediaRoot, MaxBytes: cfg.Fetch.MaxBytes})
	}
	return r
}

type VersionCmd struct{}

func (VersionCmd) Run(e *env) error {
	_, err := e.stdout.Write([]byte("oggproc " + version + "\n"))
	return err
}
