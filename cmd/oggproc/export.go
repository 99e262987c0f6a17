// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/oggproc"
	"github.com/ik5/oggproc/fetch"
	"github.com/ik5/oggproc/formats/wav"
)

type ExportCmd struct {
	Source string `arg:"" help:"Path or URL of an Ogg/Vorbis container."`
	Dir    string `arg:"" help:"Directory the WAV files are written to." type:"path"`
	Rate   int    `help:"Resample to this rate; 0 keeps the configured or stream rate."`
	Mono   bool   `help:"Mix every stream down to mono."`
}

func (c *ExportCmd) Run(e *env) error {
	p, err := oggproc.NewFromSource(context.Background(), c.Source, e.decodeOptions()...)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	opts := wav.Options{
		SampleRate: e.cfg.Export.SampleRate,
		Mono:       e.cfg.Export.Mono || c.Mono,
	}
	if c.Rate > 0 {
		opts.SampleRate = c.Rate
	}

	stem := exportStem(c.Source)
	for i := range p.StreamCount() {
		path := filepath.Join(c.Dir, fmt.Sprintf("%s.%02d.wav", stem, i))

		frames, err := wav.WriteFile(path, p.Stream(i).Reader(), opts)
		if err != nil {
			return fmt.Errorf("stream %d: %w", i, err)
		}

		e.logger.Info("exported stream",
			slog.Uint64("stream", uint64(i)),
			slog.String("path", path),
			slog.Int("frames", frames),
		)
		fmt.Fprintln(e.stdout, path)
	}

	return nil
}

// exportStem names output files after the source's base name.
func exportStem(src string) string {
	base := filepath.Base(fetch.Path(src))
	if fetch.Scheme(src) != "file" {
		base = filepath.Base(strings.TrimRight(src, "/"))
		if i := strings.IndexAny(base, "?#"); i >= 0 {
			base = base[:i]
		}
	}

	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == "/" {
		return "stream"
	}
	return base
}
