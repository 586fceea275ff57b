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

// Package cookie provides the 4-byte block type tag used by the container format
package cookie

import (
	"encoding/binary"
	"fmt"
)

// Size is the on-disk size of a cookie in bytes
const Size = 4

// Cookie is a block type tag. It is stored as 4 raw ASCII bytes, which read as a
// little-endian word give the value below, so the on-disk byte order matches the
// character order of the tag
type Cookie uint32

// New packs a 4 character tag. It panics if the tag is not exactly 4 bytes long, which
// makes it usable in static tables
func New(tag string) Cookie {
	c, err := Parse(tag)
	if err != nil {
		panic(err.Error())
	}
	return c
}

// Parse packs a 4 character tag, returning an error for any other length
func Parse(tag string) (Cookie, error) {
	if len(tag) != Size {
		return 0, fmt.Errorf("cookie must be exactly %d bytes, got %q", Size, tag)
	}
	return Cookie(binary.LittleEndian.Uint32([]byte(tag))), nil
}

// Bytes returns the on-disk representation of the cookie
func (c Cookie) Bytes() []byte {
	ret := make([]byte, Size)
	binary.LittleEndian.PutUint32(ret, uint32(c))
	return ret
}

// String returns the tag characters, with non-printable bytes replaced by '.'
func (c Cookie) String() string {
	return Printable(uint32(c))
}

// Printable renders an arbitrary word as 4 characters in memory order. Non-printable
// bytes are replaced by '.'
func Printable(word uint32) string {
	ret := make([]byte, Size)
	for i := range Size {
		b := byte(word >> (8 * i))
		if b < 0x20 || b > 0x7e {
			b = '.'
		}
		ret[i] = b
	}
	return string(ret)
}
