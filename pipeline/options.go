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

package pipeline

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/blinklabs-io/mpbdump/block"
)

// Config holds configuration for a pipeline run.
type Config struct {
	// LoadWorkers is the number of parallel file readers.
	LoadWorkers int
	// DecodeWorkers is the number of parallel decode workers.
	DecodeWorkers int
	// BufferSize is the buffer size for inter-stage channels.
	BufferSize int
	// Loader reads a file. Defaults to os.ReadFile.
	Loader Loader
	// DecodeOptions are passed to every block.Decode call.
	DecodeOptions []block.DecodeOptionFunc
	Logger        *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	numCPU := runtime.NumCPU()
	return Config{
		// Reading is I/O bound, decoding is CPU bound
		LoadWorkers:   2,
		DecodeWorkers: max(numCPU, 1),
		BufferSize:    64,
		Loader:        os.ReadFile,
	}
}

// Option is a functional option for configuring a pipeline run.
type Option func(*Config)

// WithLoadWorkers sets the number of parallel file readers.
func WithLoadWorkers(n int) Option {
	return func(c *Config) {
		c.LoadWorkers = n
	}
}

// WithDecodeWorkers sets the number of parallel decode workers.
func WithDecodeWorkers(n int) Option {
	return func(c *Config) {
		c.DecodeWorkers = n
	}
}

// WithBufferSize sets the buffer size for inter-stage channels.
func WithBufferSize(n int) Option {
	return func(c *Config) {
		c.BufferSize = n
	}
}

// WithLoader replaces the function used to read files.
func WithLoader(loader Loader) Option {
	return func(c *Config) {
		c.Loader = loader
	}
}

// WithDecodeOptions sets the options passed to every decode.
func WithDecodeOptions(opts ...block.DecodeOptionFunc) Option {
	return func(c *Config) {
		c.DecodeOptions = opts
	}
}

// WithLogger specifies the logger for per-file debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
