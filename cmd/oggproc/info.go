// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/ik5/oggproc"
	"github.com/ik5/oggproc/fetch"
	"github.com/ik5/oggproc/formats/vorbis"
	"github.com/ik5/oggproc/formats/wav"
	"github.com/ik5/oggproc/internal/host"
)

type InfoCmd struct {
	Source string `arg:"" help:"Path or URL of an Ogg/Vorbis container, or a local WAV file written by export."`
	JSON   bool   `help:"Print the summary as JSON."`
}

func (c *InfoCmd) Run(e *env) error {
	if isWAV(c.Source) {
		return c.runWAV(e)
	}

	p, err := oggproc.NewFromSource(context.Background(), c.Source, e.decodeOptions()...)
	if err != nil {
		return err
	}

	sum := host.Summarize(c.Source, p)
	if c.JSON {
		enc := json.NewEncoder(e.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STREAM\tSERIAL\tCHANNELS\tRATE\tCHUNKS\tDURATION\tOFFSET")
	for i, s := range sum.Streams {
		fmt.Fprintf(tw, "%d\t%08x\t%d\t%d\t%d\t%.3fs\t%.3fs\n",
			i, s.Serial, s.Channels, s.SampleRate, s.ChunkCount, s.Duration, s.Offset)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	fmt.Fprintf(e.stdout, "total: %.3fs\n", sum.TotalDuration)

	if d, ok := declaredLength(c.Source); ok {
		fmt.Fprintf(e.stdout, "declared: %d frames (%.3fs)\n", d.Frames, d.Seconds())
	}

	return nil
}

// declaredLength reads the final granule position of a local source. Remote
// sources and unreadable files report nothing.
func declaredLength(src string) (vorbis.Declared, bool) {
	if fetch.Scheme(src) != "file" {
		return vorbis.Declared{}, false
	}

	f, err := os.Open(fetch.Path(src))
	if err != nil {
		return vorbis.Declared{}, false
	}
	defer f.Close()

	d, err := vorbis.DeclaredLength(f)
	if err != nil {
		return vorbis.Declared{}, false
	}
	return d, true
}

// WAVSummary describes a WAV file written by export.
type WAVSummary struct {
	ID         string  `json:"id"`
	Channels   int     `json:"channels"`
	SampleRate int     `json:"sample_rate"`
	Frames     int64   `json:"frames"`
	Duration   float64 `json:"duration_seconds"`
}

func isWAV(src string) bool {
	return fetch.Scheme(src) == "file" && strings.EqualFold(filepath.Ext(fetch.Path(src)), ".wav")
}

func (c *InfoCmd) runWAV(e *env) error {
	f, err := os.Open(fetch.Path(c.Source))
	if err != nil {
		return fmt.Errorf("open %s: %w", c.Source, err)
	}
	defer f.Close()

	src, err := wav.Decode(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.Source, err)
	}

	var samples int64
	buf := make([]float32, 4096)
	for {
		n, err := src.ReadSamples(buf)
		samples += int64(n)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", c.Source, err)
		}
	}

	sum := WAVSummary{
		ID:         c.Source,
		Channels:   src.Channels(),
		SampleRate: src.SampleRate(),
		Frames:     samples / int64(src.Channels()),
	}
	sum.Duration = float64(sum.Frames) / float64(sum.SampleRate)

	if c.JSON {
		enc := json.NewEncoder(e.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}

	_, err = fmt.Fprintf(e.stdout, "wav: %d ch %d Hz %d frames (%.3fs)\n",
		sum.Channels, sum.SampleRate, sum.Frames, sum.Duration)
	return err
}
