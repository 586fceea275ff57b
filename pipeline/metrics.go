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
	"sync/atomic"
	"time"

	"github.com/blinklabs-io/mpbdump/block"
)

// Metrics tracks counters for a pipeline run.
// Uses atomic counters for thread-safe operation.
type Metrics struct {
	filesSubmitted atomic.Uint64
	filesLoaded    atomic.Uint64
	filesDecoded   atomic.Uint64
	loadErrors     atomic.Uint64
	decodeErrors   atomic.Uint64
	blocksDecoded  atomic.Uint64
	bytesLoaded    atomic.Uint64
	// Nanoseconds spent in block.Decode, summed over all workers
	decodeTime atomic.Int64

	startTime time.Time
}

// NewMetrics creates a new Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

// RecordSubmit increments the submitted counter.
func (m *Metrics) RecordSubmit() {
	m.filesSubmitted.Add(1)
}

// RecordLoad records a load result.
func (m *Metrics) RecordLoad(size int, err error) {
	if err != nil {
		m.loadErrors.Add(1)
		return
	}
	m.filesLoaded.Add(1)
	m.bytesLoaded.Add(uint64(size)) // #nosec G115
}

// RecordDecode records a decode result. Blocks decoded before a failure are counted
func (m *Metrics) RecordDecode(res *block.Result, duration time.Duration, err error) {
	if err != nil {
		m.decodeErrors.Add(1)
	} else {
		m.filesDecoded.Add(1)
	}
	if res != nil {
		m.blocksDecoded.Add(uint64(res.Count())) // #nosec G115
	}
	m.decodeTime.Add(int64(duration))
}

// Stats returns a snapshot of the current metrics.
func (m *Metrics) Stats() Stats {
	return Stats{
		FilesSubmitted: m.filesSubmitted.Load(),
		FilesLoaded:    m.filesLoaded.Load(),
		FilesDecoded:   m.filesDecoded.Load(),
		LoadErrors:     m.loadErrors.Load(),
		DecodeErrors:   m.decodeErrors.Load(),
		BlocksDecoded:  m.blocksDecoded.Load(),
		BytesLoaded:    m.bytesLoaded.Load(),
		DecodeTime:     time.Duration(m.decodeTime.Load()),
		Elapsed:        time.Since(m.startTime),
	}
}

// Stats contains statistics about a pipeline run.
type Stats struct {
	// FilesSubmitted is the number of files fed into the pipeline.
	FilesSubmitted uint64
	// FilesLoaded is the number of files read successfully.
	FilesLoaded uint64
	// FilesDecoded is the number of files decoded without error.
	FilesDecoded uint64
	LoadErrors   uint64
	DecodeErrors uint64
	// BlocksDecoded counts blocks at every nesting level, including those decoded
	// before a failure.
	BlocksDecoded uint64
	BytesLoaded   uint64
	// DecodeTime is the total time spent decoding across all workers.
	DecodeTime time.Duration
	// Elapsed is the wall time since the metrics were created.
	Elapsed time.Duration
}

// Failed returns the number of files that could not be loaded or decoded.
func (s Stats) Failed() uint64 {
	return s.LoadErrors + s.DecodeErrors
}
