// SPDX-License-Identifier: EPL-2.0

// Package config loads the YAML configuration of the oggproc host.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ik5/oggproc/fetch"
	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Export  ExportConfig  `yaml:"export"`
}

// ServerConfig contains the host bridge listener
type ServerConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
	// MediaRoot is the only directory websocket clients may read local
	// files from. Empty disables local files on the host.
	MediaRoot string `yaml:"media_root"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// stdout, stderr or a file path
	Output string `yaml:"output"`
}

// FetchConfig contains source fetching limits
type FetchConfig struct {
	Timeout      int      `yaml:"timeout"` // seconds, 0 disables
	MaxBytes     int64    `yaml:"max_bytes"`
	UserAgent    string   `yaml:"user_agent"`
	AllowedHosts []string `yaml:"allowed_hosts"`
}

// ExportConfig contains WAV export defaults
type ExportConfig struct {
	SampleRate int  `yaml:"sample_rate"` // 0 keeps the stream rate
	Mono       bool `yaml:"mono"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address: "127.0.0.1",
			Port:    8080,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Fetch: FetchConfig{
			Timeout:   30,
			MaxBytes:  256 << 20,
			UserAgent: "oggproc",
		},
	}
}

// Load reads the file at path over Default and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if err := c.Fetch.Validate(); err != nil {
		return fmt.Errorf("fetch config: %w", err)
	}

	if err := c.Export.Validate(); err != nil {
		return fmt.Errorf("export config: %w", err)
	}

	return nil
}

func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", s.Port)
	}

	if s.Address == "" {
		return fmt.Errorf("address cannot be empty")
	}

	if s.MediaRoot != "" {
		info, err := os.Stat(s.MediaRoot)
		if err != nil {
			return fmt.Errorf("media_root: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("media_root must be a directory, got %s", s.MediaRoot)
		}
	}

	return nil
}

// Addr returns the listen address in host:port form.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}

func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}

func (f *FetchConfig) Validate() error {
	if f.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative, got %d", f.Timeout)
	}

	if f.MaxBytes < 0 {
		return fmt.Errorf("max_bytes cannot be negative, got %d", f.MaxBytes)
	}

	for _, h := range f.AllowedHosts {
		if h == "" || strings.ContainsAny(h, "/:") {
			return fmt.Errorf("allowed_hosts entries must be bare host names, got '%s'", h)
		}
	}

	return nil
}

// Options returns the fetcher options for this configuration.
func (f *FetchConfig) Options() fetch.Options {
	return fetch.Options{
		Timeout:      f.GetTimeoutDuration(),
		MaxBytes:     f.MaxBytes,
		UserAgent:    f.UserAgent,
		AllowedHosts: f.AllowedHosts,
	}
}

// GetTimeoutDuration returns the fetch timeout as a time.Duration
func (f *FetchConfig) GetTimeoutDuration() time.Duration {
	return time.Duration(f.Timeout) * time.Second
}

func (e *ExportConfig) Validate() error {
	if e.SampleRate < 0 || e.SampleRate > 384000 {
		return fmt.Errorf("sample_rate must be between 0 and 384000, got %d", e.SampleRate)
	}

	return nil
}
