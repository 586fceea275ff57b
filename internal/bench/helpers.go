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


// Package bench provides benchmark utilities and fixtures for the decoder.
package bench

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blinklabs-io/mpbdump/block"
	"github.com/blinklabs-io/mpbdump/internal/test"
)

// Fixture contains a pre-built program binary for benchmarking.
type Fixture struct {
	Name   string
	Data   []byte
	Result *block.Result
}

// fixtureBuilders holds the available fixtures by name
var fixtureBuilders = map[string]func() []byte{
	"sample": test.SampleProgram,
	"flat": func() []byte {
		return Repeat(test.Block("VERT", 0x0), 256)
	},
	"strings": func() []byte {
		parts := make([][]byte, 0, 128)
		for i := range 128 {
			parts = append(parts, test.ShortString(fmt.Sprintf("symbol_%03d", i)))
		}
		return test.Concat(parts...)
	},
	"programs": func() []byte {
		return Repeat(test.SampleProgram(), 32)
	},
}

// FixtureNames returns the names accepted by LoadFixture, sorted.
func FixtureNames() []string {
	names := make([]string, 0, len(fixtureBuilders))
	for name := range fixtureBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFixture builds the named fixture and decodes it once to make sure it is valid.
// The name is case insensitive.
func LoadFixture(name string) (*Fixture, error) {
	build, ok := fixtureBuilders[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown fixture: %s", name)
	}
	data := build()
	res, err := block.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s fixture: %w", name, err)
	}
	return &Fixture{
		Name:   strings.ToLower(name),
		Data:   data,
		Result: res,
	}, nil
}

// MustLoadFixture loads a fixture and panics on error.
// Use this in benchmark setup code.
func MustLoadFixture(name string) *Fixture {
	fixture, err := LoadFixture(name)
	if err != nil {
		panic(fmt.Sprintf("failed to load %s fixture: %v", name, err))
	}
	return fixture
}

// Repeat concatenates count copies of data.
func Repeat(data []byte, count int) []byte {
	parts := make([][]byte, count)
	for i := range parts {
		parts[i] = data
	}
	return test.Concat(parts...)
}
