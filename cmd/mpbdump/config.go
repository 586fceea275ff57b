// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/blinklabs-io/mpbdump/block"
	"github.com/blinklabs-io/mpbdump/report"
)

const (
	formatText = "text"
	formatCbor = "cbor"
)

type config struct {
	Strict   bool
	MaxDepth int
	// Words shown on each side of a failure
	WindowWords int
	LogLevel    slog.Level
	DumpWords   bool
	Format      string
	// Parallel decode workers when several files are given
	Jobs int
}

func defaultConfig() config {
	return config{
		MaxDepth:    block.DefaultMaxDepth,
		WindowWords: report.DefaultRadius,
		LogLevel:    slog.LevelWarn,
		Format:      formatText,
		Jobs:        runtime.NumCPU(),
	}
}

type fileConfig struct {
	Strict      bool   `toml:"strict"`
	MaxDepth    int    `toml:"max_depth"`
	WindowWords int    `toml:"window_words"`
	LogLevel    string `toml:"log_level"`
	DumpWords   bool   `toml:"dump_words"`
	Format      string `toml:"format"`
	Jobs        int    `toml:"jobs"`
}

// loadConfig applies the keys present in the TOML file at path on top of the defaults
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("strict") {
		cfg.Strict = raw.Strict
	}

	if meta.IsDefined("max_depth") {
		cfg.MaxDepth = raw.MaxDepth
	}

	if meta.IsDefined("window_words") {
		cfg.WindowWords = raw.WindowWords
	}

	if meta.IsDefined("log_level") {
		level, err := parseLogLevel(raw.LogLevel)
		if err != nil {
			return config{}, err
		}
		cfg.LogLevel = level
	}

	if meta.IsDefined("dump_words") {
		cfg.DumpWords = raw.DumpWords
	}

	if meta.IsDefined("format") {
		cfg.Format = strings.TrimSpace(raw.Format)
	}

	if meta.IsDefined("jobs") {
		cfg.Jobs = raw.Jobs
	}

	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func (c config) validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be at least 1, got %d", c.MaxDepth)
	}
	if c.WindowWords < 0 {
		return fmt.Errorf("window_words must not be negative, got %d", c.WindowWords)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	switch c.Format {
	case formatText, formatCbor:
	default:
		return fmt.Errorf("unknown output format: %q", c.Format)
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, errors.New("invalid log level: " + s)
	}
	return level, nil
}

func (c config) decodeOptions(logger *slog.Logger) []block.DecodeOptionFunc {
	return []block.DecodeOptionFunc{
		block.WithLogger(logger),
		block.WithStrict(c.Strict),
		block.WithMaxDepth(c.MaxDepth),
	}
}
