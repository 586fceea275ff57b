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
)

// ErrNoLoader is returned when the configuration has no Loader.
var ErrNoLoader = errors.New("pipeline: no loader configured")

// Run loads and decodes the given files. The returned items are in the same order as
// paths; per-file failures are recorded on the items and do not stop the run. An error
// is returned only when the run itself could not complete, for example because ctx was
// cancelled, in which case items that were not processed are nil.
//
// Example:
//
//	items, stats, err := pipeline.Run(
//	    ctx,
//	    paths,
//	    pipeline.WithDecodeWorkers(4),
//	    pipeline.WithDecodeOptions(block.WithStrict(true)),
//	)
func Run(ctx context.Context, paths []string, opts ...Option) ([]*FileItem, Stats, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Loader == nil {
		return nil, Stats{}, ErrNoLoader
	}
	metrics := NewMetrics()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bufSize := max(config.BufferSize, 0)
	submitChan := make(chan *FileItem, bufSize)
	loadedChan := make(chan *FileItem, bufSize)
	decodedChan := make(chan *FileItem, bufSize)

	loadPool := NewStageWorkerPool(StageWorkerPoolConfig{
		Stage:         NewLoadStage(config.Loader),
		NumWorkers:    config.LoadWorkers,
		Input:         submitChan,
		Output:        loadedChan,
		RecordMetrics: LoadMetricsRecorder(metrics),
	})
	decodePool := NewStageWorkerPool(StageWorkerPoolConfig{
		Stage:         NewDecodeStage(config.Logger, config.DecodeOptions...),
		NumWorkers:    config.DecodeWorkers,
		Input:         loadedChan,
		Output:        decodedChan,
		RecordMetrics: DecodeMetricsRecorder(metrics),
		ShouldRecord:  RecordIfLoaded,
	})
	loadPool.Start(ctx)
	decodePool.Start(ctx)

	go func() {
		defer close(submitChan)
		for i, path := range paths {
			select {
			case submitChan <- NewFileItem(path, i):
				metrics.RecordSubmit()
			case <-ctx.Done():
				return
			}
		}
	}()
	// Close each stage's output once all of its workers are done
	go func() {
		loadPool.Stop()
		close(loadedChan)
	}()
	go func() {
		decodePool.Stop()
		close(decodedChan)
	}()

	items := make([]*FileItem, len(paths))
	for item := range decodedChan {
		items[item.SequenceNumber()] = item
	}
	if err := ctx.Err(); err != nil {
		return items, metrics.Stats(), err
	}
	return items, metrics.Stats(), nil
}
