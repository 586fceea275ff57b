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
	"sync"
	"sync/atomic"
)

// MetricsRecorder is called once per file a stage has processed, with the stage error
type MetricsRecorder func(item *FileItem, err error)

// ShouldRecordMetrics reports whether a processed file counts towards a stage's metrics.
// The decode stage uses it to leave out files that never loaded.
type ShouldRecordMetrics func(item *FileItem) bool

// StageWorkerPool runs one stage on several goroutines. Every file read from the input
// is forwarded to the output, whether or not the stage failed on it.
type StageWorkerPool struct {
	config  StageWorkerPoolConfig
	wg      sync.WaitGroup
	started atomic.Bool
}

// StageWorkerPoolConfig describes a StageWorkerPool.
type StageWorkerPoolConfig struct {
	// Stage is required
	Stage Stage
	// Values below 1 mean a single worker
	NumWorkers int
	Input      <-chan *FileItem
	Output     chan<- *FileItem
	// Optional; receives every stage error
	Errors chan<- error
	// Optional
	RecordMetrics MetricsRecorder
	// Optional; when nil every file is recorded
	ShouldRecord ShouldRecordMetrics
}

// NewStageWorkerPool creates a worker pool. It panics with ErrNilStage when the config
// has no stage. Workers block forever on a nil Input or Output channel.
func NewStageWorkerPool(config StageWorkerPoolConfig) *StageWorkerPool {
	if config.Stage == nil {
		panic(ErrNilStage)
	}
	config.NumWorkers = max(config.NumWorkers, 1)
	return &StageWorkerPool{config: config}
}

// Start launches the workers. Only the first call has an effect.
func (p *StageWorkerPool) Start(ctx context.Context) {
	if p.started.Swap(true) {
		return
	}
	p.wg.Add(p.config.NumWorkers)
	for range p.config.NumWorkers {
		go func() {
			defer p.wg.Done()
			for {
				var item *FileItem
				var ok bool
				select {
				case <-ctx.Done():
					return
				case item, ok = <-p.config.Input:
				}
				if !ok || !p.process(ctx, item) {
					return
				}
			}
		}()
	}
}

// Stop waits until every worker has returned, which happens once the input is closed
// and drained or the context given to Start is done.
func (p *StageWorkerPool) Stop() {
	p.wg.Wait()
}

// process runs the stage on one file and hands it on. It returns false when the context
// ended while handing the file on.
func (p *StageWorkerPool) process(ctx context.Context, item *FileItem) bool {
	err := p.config.Stage.Process(ctx, item)
	if p.shouldRecord(item, err) {
		p.config.RecordMetrics(item, err)
	}
	if err != nil && p.config.Errors != nil {
		select {
		case p.config.Errors <- err:
		case <-ctx.Done():
			return false
		}
	}
	select {
	case p.config.Output <- item:
		return true
	case <-ctx.Done():
		return false
	}
}

func (p *StageWorkerPool) shouldRecord(item *FileItem, err error) bool {
	if p.config.RecordMetrics == nil {
		return false
	}
	// Cancellation is not a result of the stage
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return p.config.ShouldRecord == nil || p.config.ShouldRecord(item)
}

// LoadMetricsRecorder records loaded bytes and load errors.
func LoadMetricsRecorder(metrics *Metrics) MetricsRecorder {
	if metrics == nil {
		return nil
	}
	return func(item *FileItem, err error) {
		metrics.RecordLoad(len(item.Data()), err)
	}
}

// DecodeMetricsRecorder records decoded blocks, decode time and decode errors.
func DecodeMetricsRecorder(metrics *Metrics) MetricsRecorder {
	if metrics == nil {
		return nil
	}
	return func(item *FileItem, err error) {
		metrics.RecordDecode(item.Result(), item.DecodeDuration(), err)
	}
}

// RecordIfLoaded is a ShouldRecordMetrics that skips files that failed to load.
func RecordIfLoaded(item *FileItem) bool {
	return item.IsLoaded()
}
