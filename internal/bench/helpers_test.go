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


package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFixture(t *testing.T) {
	tests := []struct {
		name    string
		blocks  int
		wantErr bool
	}{
		{"sample", 20, false},
		{"flat", 256, false},
		{"strings", 128, false},
		{"programs", 32 * 20, false},
		{"SAMPLE", 20, false}, // case insensitive
		{"unknown", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fixture, err := LoadFixture(tc.name)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.blocks, fixture.Result.Count())
			assert.NotEmpty(t, fixture.Data)
		})
	}
}

func TestFixtureNames(t *testing.T) {
	assert.Equal(
		t,
		[]string{"flat", "programs", "sample", "strings"},
		FixtureNames(),
	)
}

func TestMustLoadFixturePanics(t *testing.T) {
	assert.Panics(t, func() {
		MustLoadFixture("unknown")
	})
}

func TestRepeat(t *testing.T) {
	assert.Equal(t, []byte{1, 2, 1, 2, 1, 2}, Repeat([]byte{1, 2}, 3))
	assert.Empty(t, Repeat([]byte{1, 2}, 0))
}
