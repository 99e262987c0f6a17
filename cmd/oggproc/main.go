// SPDX-License-Identifier: EPL-2.0

// Command oggproc inspects, exports and serves chained Ogg/Vorbis files.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/ik5/oggproc"
	"github.com/ik5/oggproc/fetch"
	"github.com/ik5/oggproc/internal/config"
	"github.com/ik5/oggproc/internal/logging"
)

// version is set via ldflags at build time
var version = "dev"

type Globals struct {
	Config   string `help:"YAML configuration file." short:"c" type:"existingfile"`
	LogLevel string `help:"Override the configured log level (debug, info, warn, error)." name:"log-level"`
}

type CLI struct {
	Globals

	Info    InfoCmd    `cmd:"" help:"Print the logical streams of a container."`
	Export  ExportCmd  `cmd:"" help:"Write every logical stream as a 16-bit WAV file."`
	Serve   ServeCmd   `cmd:"" help:"Serve decoded containers over HTTP and websockets."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// env is what every command runs against.
type env struct {
	cfg     *config.Config
	stdout  io.Writer
	logger  *slog.Logger
	fetcher fetch.Fetcher
	// nil selects the Vorbis decoder
	open oggproc.OpenFunc
}

func (e *env) decodeOptions() []oggproc.Option {
	opts := []oggproc.Option{
		oggproc.WithLogger(e.logger),
		oggproc.WithFetcher(e.fetcher),
	}
	if e.open != nil {
		opts = append(opts, oggproc.WithOpenFunc(e.open))
	}
	return opts
}

func newEnv(g Globals, stdout io.Writer) (*env, io.Closer, error) {
	cfg := config.Default()
	if g.Config != "" {
		var err error
		if cfg, err = config.Load(g.Config); err != nil {
			return nil, nil, err
		}
	}

	if g.LogLevel != "" {
		cfg.Logging.Level = g.LogLevel
		if err := cfg.Logging.Validate(); err != nil {
			return nil, nil, fmt.Errorf("--log-level: %w", err)
		}
	}

	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	oggproc.Init(logger)

	return &env{
		cfg:     cfg,
		stdout:  stdout,
		logger:  logger,
		fetcher: fetch.NewDefault(cfg.Fetch.Options()),
	}, closer, nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("oggproc"),
		kong.Description("Decode chained Ogg/Vorbis containers into per-stream PCM."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
	)

	e, closer, err := newEnv(cli.Globals, os.Stdout)
	ctx.FatalIfErrorf(err)

	err = ctx.Run(e)
	_ = closer.Close()
	ctx.FatalIfErrorf(err)
}
