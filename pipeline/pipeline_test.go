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

package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/blinklabs-io/mpbdump/block"
	"github.com/blinklabs-io/mpbdump/internal/test"
	"github.com/blinklabs-io/mpbdump/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var errNotFound = errors.New("not found")

// mapLoader serves files from memory
func mapLoader(files map[string][]byte) pipeline.Loader {
	return func(path string) ([]byte, error) {
		data, ok := files[path]
		if !ok {
			return nil, errNotFound
		}
		return data, nil
	}
}

func TestRunPreservesOrder(t *testing.T) {
	defer goleak.VerifyNone(t)
	files := map[string][]byte{}
	var paths []string
	for i := range 50 {
		path := fmt.Sprintf("file%02d.bin", i)
		// Each file holds a different number of blocks
		var parts [][]byte
		for range i + 1 {
			parts = append(parts, test.Block("VERT", 0x0))
		}
		files[path] = test.Concat(parts...)
		paths = append(paths, path)
	}
	items, stats, err := pipeline.Run(
		context.Background(),
		paths,
		pipeline.WithLoader(mapLoader(files)),
		pipeline.WithDecodeWorkers(4),
		pipeline.WithBufferSize(2),
	)
	require.NoError(t, err)
	require.Len(t, items, len(paths))
	for i, item := range items {
		require.NotNil(t, item)
		assert.Equal(t, paths[i], item.Path())
		assert.Equal(t, i, item.SequenceNumber())
		require.NoError(t, item.Err())
		assert.Len(t, item.Result().Blocks, i+1)
	}
	assert.Equal(t, uint64(50), stats.FilesSubmitted)
	assert.Equal(t, uint64(50), stats.FilesLoaded)
	assert.Equal(t, uint64(50), stats.FilesDecoded)
	assert.Equal(t, uint64(50*51/2), stats.BlocksDecoded)
	assert.Equal(t, uint64(8*50*51/2), stats.BytesLoaded)
	assert.Zero(t, stats.Failed())
}

func TestRunRecordsFailures(t *testing.T) {
	defer goleak.VerifyNone(t)
	files := map[string][]byte{
		"good.bin":    test.SampleProgram(),
		"unknown.bin": test.Concat(test.Block("VERT", 0x0), test.Block("ZZZZ", 0x0)),
	}
	items, stats, err := pipeline.Run(
		context.Background(),
		[]string{"good.bin", "unknown.bin", "missing.bin"},
		pipeline.WithLoader(mapLoader(files)),
	)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.NoError(t, items[0].Err())
	assert.Equal(t, 20, items[0].Result().Count())

	assert.ErrorIs(t, items[1].Err(), block.ErrUnknownTag)
	assert.ErrorIs(t, items[1].DecodeError(), block.ErrUnknownTag)
	// Blocks before the failure are kept
	assert.Len(t, items[1].Result().Blocks, 1)

	assert.False(t, items[2].IsLoaded())
	assert.ErrorIs(t, items[2].LoadError(), errNotFound)
	assert.Nil(t, items[2].Result())

	assert.Equal(t, uint64(1), stats.FilesDecoded)
	assert.Equal(t, uint64(1), stats.DecodeErrors)
	assert.Equal(t, uint64(1), stats.LoadErrors)
	assert.Equal(t, uint64(2), stats.Failed())
	assert.Equal(t, uint64(21), stats.BlocksDecoded)
}

func TestRunDecodeOptions(t *testing.T) {
	defer goleak.VerifyNone(t)
	files := map[string][]byte{
		"vehw.bin": test.Block("VEHW", 0x0, 0xc, 0x0, 0x0),
	}
	items, _, err := pipeline.Run(
		context.Background(),
		[]string{"vehw.bin"},
		pipeline.WithLoader(mapLoader(files)),
		pipeline.WithDecodeOptions(block.WithStrict(true)),
	)
	require.NoError(t, err)
	assert.ErrorIs(t, items[0].Err(), block.ErrInvariantViolation)
}

func TestRunReadsFiles(t *testing.T) {
	defer goleak.VerifyNone(t)
	path := filepath.Join(t.TempDir(), "shader.bin")
	require.NoError(t, os.WriteFile(path, test.SampleProgram(), 0o600))
	items, stats, err := pipeline.Run(context.Background(), []string{path})
	require.NoError(t, err)
	require.NoError(t, items[0].Err())
	assert.Equal(t, uint64(len(test.SampleProgram())), stats.BytesLoaded)
}

func TestRunCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx, cancel := context.WithCancel(context.Background())
	var loads atomic.Int32
	loader := func(path string) ([]byte, error) {
		if loads.Add(1) == 3 {
			cancel()
		}
		return test.Block("VERT", 0x0), nil
	}
	paths := make([]string, 100)
	for i := range paths {
		paths[i] = fmt.Sprintf("file%03d.bin", i)
	}
	_, _, err := pipeline.Run(
		ctx,
		paths,
		pipeline.WithLoader(loader),
		pipeline.WithLoadWorkers(1),
		pipeline.WithBufferSize(0),
	)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunNoLoader(t *testing.T) {
	_, _, err := pipeline.Run(context.Background(), nil, pipeline.WithLoader(nil))
	assert.ErrorIs(t, err, pipeline.ErrNoLoader)
}

func TestStageWorkerPoolForwardsErrors(t *testing.T) {
	defer goleak.VerifyNone(t)
	errStage := errors.New("stage failed")
	stage := pipeline.NewStageFunc("fail-odd", func(_ context.Context, item *pipeline.FileItem) error {
		if item.SequenceNumber()%2 == 1 {
			return errStage
		}
		return nil
	})
	assert.Equal(t, "fail-odd", stage.Name())
	input := make(chan *pipeline.FileItem, 4)
	output := make(chan *pipeline.FileItem, 4)
	errs := make(chan error, 4)
	var recorded atomic.Int32
	pool := pipeline.NewStageWorkerPool(pipeline.StageWorkerPoolConfig{
		Stage:      stage,
		NumWorkers: 2,
		Input:      input,
		Output:     output,
		Errors:     errs,
		RecordMetrics: func(*pipeline.FileItem, error) {
			recorded.Add(1)
		},
	})
	pool.Start(context.Background())
	// Starting twice has no effect
	pool.Start(context.Background())
	for i := range 4 {
		input <- pipeline.NewFileItem(fmt.Sprintf("%d", i), i)
	}
	close(input)
	pool.Stop()
	close(output)
	close(errs)
	forwarded := 0
	for range output {
		forwarded++
	}
	failures := 0
	for err := range errs {
		assert.ErrorIs(t, err, errStage)
		failures++
	}
	assert.Equal(t, 4, forwarded)
	assert.Equal(t, 2, failures)
	assert.Equal(t, int32(4), recorded.Load())
}

func TestStageWorkerPoolNilStage(t *testing.T) {
	assert.PanicsWithValue(t, pipeline.ErrNilStage, func() {
		pipeline.NewStageWorkerPool(pipeline.StageWorkerPoolConfig{})
	})
}
