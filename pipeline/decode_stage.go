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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/blinklabs-io/mpbdump/block"
)

// ErrNilStage is returned when a nil stage is passed to a worker pool.
var ErrNilStage = errors.New("pipeline: nil stage")

// Loader reads the contents of a file
type Loader func(path string) ([]byte, error)

// LoadStage reads each file into memory.
type LoadStage struct {
	loader Loader
}

// NewLoadStage creates a new LoadStage.
func NewLoadStage(loader Loader) *LoadStage {
	return &LoadStage{
		loader: loader,
	}
}

// Name returns the stage name.
func (s *LoadStage) Name() string {
	return "load"
}

// Process loads the file named by the item.
func (s *LoadStage) Process(ctx context.Context, item *FileItem) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	start := time.Now()
	data, err := s.loader(item.Path())
	duration := time.Since(start)

	if err != nil {
		err = fmt.Errorf("load %s: %w", item.Path(), err)
		item.SetLoadError(err, duration)
		return err
	}

	item.SetData(data, duration)
	return nil
}

// DecodeStage decodes loaded files into block trees.
type DecodeStage struct {
	logger *slog.Logger
	opts   []block.DecodeOptionFunc
}

// NewDecodeStage creates a new DecodeStage. The options are passed to every decode
func NewDecodeStage(logger *slog.Logger, opts ...block.DecodeOptionFunc) *DecodeStage {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DecodeStage{
		logger: logger,
		opts:   opts,
	}
}

// Name returns the stage name.
func (s *DecodeStage) Name() string {
	return "decode"
}

// Process decodes the data in the file item. Items that failed to load are passed
// through untouched
func (s *DecodeStage) Process(ctx context.Context, item *FileItem) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !item.IsLoaded() {
		return nil
	}

	start := time.Now()
	res, err := block.Decode(item.Data(), s.opts...)
	duration := time.Since(start)

	item.SetResult(res, err, duration)
	if err != nil {
		return fmt.Errorf("decode %s: %w", item.Path(), err)
	}
	s.logger.Debug(
		"decoded file",
		"component", "pipeline",
		"path", item.Path(),
		"blocks", res.Count(),
		"duration", duration,
	)
	return nil
}
