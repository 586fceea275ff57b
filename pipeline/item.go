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
	"sync"
	"time"

	"github.com/blinklabs-io/mpbdump/block"
)

// FileItem represents a file as it moves through the pipeline.
// It is thread-safe and tracks the processing state at each stage.
type FileItem struct {
	// Immutable fields (set at construction, never modified)
	path           string
	sequenceNumber int

	// Mutable fields protected by mutex
	mu sync.RWMutex

	// Load stage results
	data         []byte
	loaded       bool
	loadError    error
	loadDuration time.Duration

	// Decode stage results
	result         *block.Result
	decodeError    error
	decodeDuration time.Duration
}

// NewFileItem creates a new FileItem for the file at path
func NewFileItem(path string, seq int) *FileItem {
	return &FileItem{
		path:           path,
		sequenceNumber: seq,
	}
}

// Path returns the file path.
func (i *FileItem) Path() string {
	return i.path
}

// SequenceNumber returns the position of the file in the pipeline input.
func (i *FileItem) SequenceNumber() int {
	return i.sequenceNumber
}

// SetData records the loaded file contents.
func (i *FileItem) SetData(data []byte, duration time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.data = data
	i.loaded = true
	i.loadDuration = duration
}

// SetLoadError records a load failure.
func (i *FileItem) SetLoadError(err error, duration time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.loadError = err
	i.loadDuration = duration
}

// Data returns the loaded file contents, nil before the load stage.
func (i *FileItem) Data() []byte {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.data
}

// IsLoaded returns true if the file was read successfully.
func (i *FileItem) IsLoaded() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.loaded
}

// LoadDuration returns how long the load took.
func (i *FileItem) LoadDuration() time.Duration {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.loadDuration
}

// SetResult records the decode outcome. The result holds the blocks decoded before a
// failure, so both may be set.
func (i *FileItem) SetResult(result *block.Result, err error, duration time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.result = result
	i.decodeError = err
	i.decodeDuration = duration
}

// Result returns the decode result, nil if the file was never decoded.
func (i *FileItem) Result() *block.Result {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.result
}

// DecodeDuration returns how long the decode took.
func (i *FileItem) DecodeDuration() time.Duration {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.decodeDuration
}

// LoadError returns the load failure, if any.
func (i *FileItem) LoadError() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.loadError
}

// DecodeError returns the decode failure, if any.
func (i *FileItem) DecodeError() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.decodeError
}

// Err returns the first failure that happened to the file.
func (i *FileItem) Err() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.loadError != nil {
		return i.loadError
	}
	return i.decodeError
}
