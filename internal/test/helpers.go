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

package test

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// DecodeHexString is a helper function for tests that decodes hex strings. It doesn't return
// an error value, which makes it usable inline.
func DecodeHexString(hexData string) []byte {
	// Strip off any leading/trailing whitespace in hex string
	hexData = strings.TrimSpace(hexData)
	decoded, err := hex.DecodeString(hexData)
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

// Words encodes the given values as little-endian 32-bit words
func Words(words ...uint32) []byte {
	ret := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(ret[4*i:], w)
	}
	return ret
}

// Tag returns the word value of a 4 character tag
func Tag(tag string) uint32 {
	if len(tag) != 4 {
		panic(fmt.Sprintf("bad tag: %q", tag))
	}
	return binary.LittleEndian.Uint32([]byte(tag))
}

// Block builds a block from a tag followed by raw words
func Block(tag string, words ...uint32) []byte {
	return append(Words(Tag(tag)), Words(words...)...)
}

// Sized builds a block with a size word covering the payload that follows it
func Sized(tag string, payload ...[]byte) []byte {
	body := Concat(payload...)
	return Concat(Words(Tag(tag), uint32(len(body))), body)
}

// Concat joins byte slices into a new slice
func Concat(parts ...[]byte) []byte {
	var ret []byte
	for _, p := range parts {
		ret = append(ret, p...)
	}
	return ret
}

// PaddedString returns the string bytes zero-padded to a word boundary
func PaddedString(s string) []byte {
	n := (len(s) + 3) &^ 3
	ret := make([]byte, n)
	copy(ret, s)
	return ret
}
