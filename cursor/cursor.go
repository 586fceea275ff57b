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

// Package cursor provides bounds-checked little-endian access to a range of an
// immutable byte buffer
package cursor

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const WordSize = 4

// ErrOutOfRange is matched by every BoundsError
var ErrOutOfRange = errors.New("read out of range")

// BoundsError describes a read that does not fit in the cursor's range
type BoundsError struct {
	// Absolute offset of the first byte needed
	Offset int
	// Number of bytes needed from Offset
	Need int
	// Absolute end of the cursor's range
	End int
	// Length of the whole underlying buffer
	BufferLen int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf(
		"need 0x%x bytes at offset 0x%x, range ends at 0x%x (buffer length 0x%x)",
		e.Need,
		e.Offset,
		e.End,
		e.BufferLen,
	)
}

func (e *BoundsError) Is(target error) bool {
	return target == ErrOutOfRange
}

// BeyondBuffer reports whether the read would also run past the underlying buffer,
// rather than only past the end of the range
func (e *BoundsError) BeyondBuffer() bool {
	return e.Offset > e.BufferLen || e.Need > e.BufferLen-e.Offset
}

// Cursor reads from data[start:end]. All offsets it reports are absolute within data
type Cursor struct {
	data  []byte
	start int
	end   int
	pos   int
}

// New returns a cursor over the whole buffer
func New(data []byte) *Cursor {
	return &Cursor{
		data: data,
		end:  len(data),
	}
}

// Sub returns a new cursor over [start, start+length). The new range must lie inside
// this cursor's range
func (c *Cursor) Sub(start int, length int) (*Cursor, error) {
	if start < c.start || length < 0 {
		return nil, fmt.Errorf("invalid sub-range 0x%x+0x%x", start, length)
	}
	if start > c.end || length > c.end-start {
		return nil, c.boundsError(start, length)
	}
	return &Cursor{
		data:  c.data,
		start: start,
		end:   start + length,
		pos:   start,
	}, nil
}

// Data returns the underlying buffer
func (c *Cursor) Data() []byte {
	return c.data
}

func (c *Cursor) Start() int {
	return c.start
}

func (c *Cursor) End() int {
	return c.end
}

// Pos returns the absolute position of the cursor
func (c *Cursor) Pos() int {
	return c.pos
}

// Remaining returns the number of bytes between the position and the end of the range
func (c *Cursor) Remaining() int {
	return c.end - c.pos
}

// Done reports whether the position is exactly at the end of the range
func (c *Cursor) Done() bool {
	return c.pos == c.end
}

// Need checks that n bytes starting off bytes past the position are inside the range
func (c *Cursor) Need(off int, n int) error {
	abs := c.pos + off
	if off < 0 || n < 0 || abs > c.end || n > c.end-abs {
		return c.boundsError(abs, n)
	}
	return nil
}

// Word reads the little-endian word starting off bytes past the position
func (c *Cursor) Word(off int) (uint32, error) {
	if err := c.Need(off, WordSize); err != nil {
		return 0, err
	}
	abs := c.pos + off
	return binary.LittleEndian.Uint32(c.data[abs : abs+WordSize]), nil
}

// Bytes returns a copy of n bytes starting off bytes past the position
func (c *Cursor) Bytes(off int, n int) ([]byte, error) {
	if err := c.Need(off, n); err != nil {
		return nil, err
	}
	abs := c.pos + off
	ret := make([]byte, n)
	copy(ret, c.data[abs:abs+n])
	return ret, nil
}

// Advance moves the position forward by n bytes. The position may not pass the end
// of the range
func (c *Cursor) Advance(n int) error {
	if err := c.Need(0, n); err != nil {
		return err
	}
	c.pos += n
	return nil
}

func (c *Cursor) boundsError(offset int, need int) *BoundsError {
	return &BoundsError{
		Offset:    offset,
		Need:      need,
		End:       c.end,
		BufferLen: len(c.data),
	}
}
