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

package cursor_test

import (
	"errors"
	"math"
	"testing"

	"github.com/blinklabs-io/mpbdump/cursor"
	"github.com/blinklabs-io/mpbdump/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordReads(t *testing.T) {
	data := test.Words(0x11223344, 0xdeadbeef, 0x0)
	c := cursor.New(data)
	w, err := c.Word(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x11223344), w)
	w, err = c.Word(4)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), w)
	require.NoError(t, c.Advance(8))
	assert.Equal(t, 8, c.Pos())
	assert.Equal(t, 4, c.Remaining())
	_, err = c.Word(4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, cursor.ErrOutOfRange))
}

func TestSubRangeBounds(t *testing.T) {
	data := test.Words(1, 2, 3, 4, 5, 6)
	c := cursor.New(data)
	sub, err := c.Sub(8, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, sub.Start())
	assert.Equal(t, 16, sub.End())
	w, err := sub.Word(4)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), w)

	// Past the range but inside the buffer
	_, err = sub.Word(8)
	var boundsErr *cursor.BoundsError
	require.ErrorAs(t, err, &boundsErr)
	assert.False(t, boundsErr.BeyondBuffer())
	assert.Equal(t, 16, boundsErr.Offset)

	// Past the buffer as well
	_, err = sub.Bytes(0, 64)
	require.ErrorAs(t, err, &boundsErr)
	assert.True(t, boundsErr.BeyondBuffer())

	_, err = sub.Sub(12, 8)
	require.Error(t, err)
}

func TestSubRangeHugeLength(t *testing.T) {
	c := cursor.New(test.Words(1, 2, 3, 4))
	for _, length := range []int{math.MaxInt, math.MaxInt - 4} {
		_, err := c.Sub(4, length)
		var boundsErr *cursor.BoundsError
		require.ErrorAs(t, err, &boundsErr, "length 0x%x", length)
		assert.True(t, boundsErr.BeyondBuffer())
	}
	_, err := c.Sub(32, 0)
	require.Error(t, err)
	// Reads with a huge size fail rather than wrap around
	_, err = c.Bytes(4, math.MaxInt)
	assert.ErrorIs(t, err, cursor.ErrOutOfRange)
}

func TestBytesIsCopy(t *testing.T) {
	data := []byte("STRIabcd")
	c := cursor.New(data)
	b, err := c.Bytes(4, 4)
	require.NoError(t, err)
	b[0] = 'z'
	assert.Equal(t, byte('a'), data[4])
}

func TestAdvanceStopsAtEnd(t *testing.T) {
	c := cursor.New(make([]byte, 8))
	require.NoError(t, c.Advance(8))
	assert.True(t, c.Done())
	require.Error(t, c.Advance(4))
	assert.Equal(t, 8, c.Pos())
}
