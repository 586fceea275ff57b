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

package block

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/blinklabs-io/mpbdump/cookie"
	"github.com/blinklabs-io/mpbdump/cursor"
	"golang.org/x/crypto/blake2b"
)

func (b *blockCtx) childPath() []cookie.Cookie {
	return append(slices.Clone(b.path), b.blk.Tag)
}

// interior returns a cursor over the bytes after the container's own header fields
func (b *blockCtx) interior() (*cursor.Cursor, error) {
	if b.depth+1 > b.d.maxDepth {
		return nil, b.fail(
			ErrInvariantViolation,
			b.blk.Offset,
			"containers nested deeper than %d",
			b.d.maxDepth,
		)
	}
	if b.blk.Length < b.desc.Interior {
		return nil, b.fail(
			ErrInvariantViolation,
			b.blk.Offset,
			"length 0x%x is shorter than the 0x%x byte header",
			b.blk.Length,
			b.desc.Interior,
		)
	}
	sub, err := b.cur.Sub(
		b.blk.Offset+b.desc.Interior,
		b.blk.Length-b.desc.Interior,
	)
	if err != nil {
		return nil, b.outOfRange(err, b.blk.Offset)
	}
	b.d.logger.Debug(
		"decoding container",
		"component", "decoder",
		"tag", b.blk.Tag.String(),
		"offset", fmt.Sprintf("0x%08x", b.blk.Offset),
		"length", b.blk.Length,
		"depth", b.depth+1,
	)
	return sub, nil
}

// walkInterior decodes the container's interior as a plain sequence of blocks
func walkInterior(b *blockCtx) error {
	sub, err := b.interior()
	if err != nil {
		return err
	}
	children, err := b.d.walk(sub, b.depth+1, b.childPath())
	b.blk.Children = children
	return err
}

// striText extracts the string. The length word counts the string bytes; padding up to
// the word boundary is zero filled
func striText(b *blockCtx) error {
	n, err := b.word(1)
	if err != nil {
		return err
	}
	raw, err := b.cur.Bytes(8, int(n))
	if err != nil {
		return b.outOfRange(err, b.blk.Offset)
	}
	if idx := bytes.IndexByte(raw, 0); idx >= 0 {
		raw = raw[:idx]
	}
	b.addText("name", string(raw))
	return nil
}

// typeNames maps TYPE values to names. None has been identified yet
var typeNames = map[uint32]string{}

func typeName(b *blockCtx) error {
	t, err := b.word(1)
	if err != nil {
		return err
	}
	name, ok := typeNames[t]
	if !ok {
		name = "<unknown>"
	}
	b.addText("type_name", name)
	return nil
}

// objcInstructions keeps the instruction stream as words. Instructions are 64-bit, but
// clause headers and tails are mostly 32-bit, so words are the common unit
func objcInstructions(b *blockCtx) error {
	payload, err := b.cur.Bytes(8, b.blk.Length-8)
	if err != nil {
		return b.outOfRange(err, b.blk.Offset)
	}
	words := make([]uint32, len(payload)/cursor.WordSize)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(payload[i*cursor.WordSize:])
	}
	b.blk.Words = words
	digest := blake2b.Sum256(payload)
	b.addText("digest", hex.EncodeToString(digest[:]))
	return nil
}
