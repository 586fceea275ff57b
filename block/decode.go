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
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/blinklabs-io/mpbdump/cookie"
	"github.com/blinklabs-io/mpbdump/cursor"
)

// decoder holds the settings for one decode call. It carries no state between blocks
type decoder struct {
	logger   *slog.Logger
	strict   bool
	maxDepth int
}

func newDecoder(opts ...DecodeOptionFunc) *decoder {
	d := &decoder{
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	return d
}

// Decode walks the whole buffer as a sequence of top-level blocks. On failure the
// returned result holds everything decoded before the failure point
func Decode(data []byte, opts ...DecodeOptionFunc) (*Result, error) {
	return DecodeRange(data, 0, len(data), opts...)
}

// DecodeRange walks data[start:start+length] as a sequence of sibling blocks. Offsets
// in the result and in errors remain absolute within data
func DecodeRange(data []byte, start int, length int, opts ...DecodeOptionFunc) (*Result, error) {
	d := newDecoder(opts...)
	cur, err := cursor.New(data).Sub(start, length)
	if err != nil {
		return nil, &DecodeError{
			Kind:   ErrTruncatedBuffer,
			Offset: start,
			Msg:    "range does not fit in buffer",
			Err:    err,
		}
	}
	blocks, err := d.walk(cur, 0, nil)
	return &Result{
		Blocks:   blocks,
		Consumed: cur.Pos() - start,
	}, err
}

// DecodeOne decodes the single block starting at offset
func DecodeOne(data []byte, offset int, opts ...DecodeOptionFunc) (*Block, error) {
	d := newDecoder(opts...)
	cur, err := cursor.New(data).Sub(offset, max(len(data)-offset, 0))
	if err != nil {
		return nil, &DecodeError{
			Kind:   ErrTruncatedBuffer,
			Offset: offset,
			Msg:    "offset is past the end of the buffer",
			Err:    err,
		}
	}
	return d.decodeBlock(cur, 0, nil)
}

// walk decodes sibling blocks until the cursor's range is exactly consumed
func (d *decoder) walk(cur *cursor.Cursor, depth int, path []cookie.Cookie) ([]*Block, error) {
	var blocks []*Block
	for !cur.Done() {
		if cur.Remaining() < cookie.Size {
			return blocks, &DecodeError{
				Kind:   ErrUnderrun,
				Offset: cur.Pos(),
				Path:   path,
				Msg: fmt.Sprintf(
					"0x%x stray bytes before range end 0x%08x",
					cur.Remaining(),
					cur.End(),
				),
			}
		}
		blk, err := d.decodeBlock(cur, depth, path)
		if blk != nil {
			blocks = append(blocks, blk)
		}
		if err != nil {
			return blocks, err
		}
		if err := cur.Advance(blk.Length); err != nil {
			return blocks, &DecodeError{
				Kind:   ErrOverrun,
				Offset: blk.Offset,
				Tag:    blk.Tag,
				Path:   path,
				Msg:    "block runs past the end of its range",
				Err:    err,
			}
		}
	}
	return blocks, nil
}

// decodeBlock decodes the block at the cursor position without moving the cursor.
// A non-nil block is returned alongside an error when decoding stopped inside it
func (d *decoder) decodeBlock(cur *cursor.Cursor, depth int, path []cookie.Cookie) (*Block, error) {
	b := &blockCtx{
		d:     d,
		cur:   cur,
		depth: depth,
		path:  path,
	}
	// A readable tag is looked up before the minimum size is checked
	if err := cur.Need(0, cookie.Size); err != nil {
		return nil, b.outOfRange(err, cur.Pos())
	}
	tagWord, err := cur.Word(0)
	if err != nil {
		return nil, b.outOfRange(err, cur.Pos())
	}
	tag := cookie.Cookie(tagWord)
	desc, err := Lookup(tag)
	if err != nil {
		return nil, &DecodeError{
			Kind:   ErrUnknownTag,
			Offset: cur.Pos(),
			Tag:    tag,
			Path:   path,
			Msg:    fmt.Sprintf("%q (0x%08x)", tag.String(), tagWord),
			Err:    err,
		}
	}
	if err := cur.Need(0, MinBlockSize); err != nil {
		return nil, b.outOfRange(err, cur.Pos())
	}
	b.desc = desc
	b.blk = &Block{
		Tag:        tag,
		Label:      desc.Label,
		Rule:       desc.Rule,
		Offset:     cur.Pos(),
		Incomplete: true,
	}
	if err := b.decode(); err != nil {
		return b.blk, err
	}
	b.blk.Incomplete = false
	return b.blk, nil
}

// blockCtx is the decode state of a single block
type blockCtx struct {
	d     *decoder
	cur   *cursor.Cursor
	desc  Descriptor
	blk   *Block
	depth int
	path  []cookie.Cookie
}

func (b *blockCtx) decode() error {
	if err := b.cur.Need(0, b.desc.Size); err != nil {
		return b.outOfRange(err, b.blk.Offset)
	}
	for _, f := range b.desc.fields {
		if err := b.field(f); err != nil {
			return err
		}
	}
	length, err := b.length()
	if err != nil {
		return err
	}
	if length < MinBlockSize {
		return b.fail(
			ErrInvariantViolation,
			b.blk.Offset,
			"computed length 0x%x is below the minimum block size",
			length,
		)
	}
	if err := b.cur.Need(0, length); err != nil {
		return b.outOfRange(err, b.blk.Offset)
	}
	b.blk.Length = length
	if b.desc.payload != nil {
		if err := b.desc.payload(b); err != nil {
			return err
		}
	}
	// Checked after the payload so that child range errors are reported first
	if length%cursor.WordSize != 0 {
		return b.fail(
			ErrInvariantViolation,
			b.blk.Offset,
			"length 0x%x is not word aligned",
			length,
		)
	}
	return nil
}

func (b *blockCtx) length() (int, error) {
	if b.desc.length != nil {
		return b.desc.length(b)
	}
	switch b.desc.Rule {
	case RuleFixed:
		return b.desc.Size, nil
	case RuleExplicit, RuleContainer:
		size, err := b.word(1)
		if err != nil {
			return 0, err
		}
		return 8 + int(size) + b.desc.Adjust, nil
	default:
		return 0, b.fail(
			ErrInvariantViolation,
			b.blk.Offset,
			"no length rule for %s block",
			b.desc.Rule,
		)
	}
}

// word reads the idx-th word of the block, counting the cookie as word 0
func (b *blockCtx) word(idx int) (uint32, error) {
	w, err := b.cur.Word(idx * cursor.WordSize)
	if err != nil {
		return 0, b.outOfRange(err, b.blk.Offset)
	}
	return w, nil
}

func (b *blockCtx) field(f fieldSpec) error {
	w, err := b.word(f.word)
	if err != nil {
		return err
	}
	b.addWord(f.name, w)
	if len(f.want) == 0 || slices.Contains(f.want, w) {
		return nil
	}
	offset := b.blk.Offset + f.word*cursor.WordSize
	if f.hard {
		return b.fail(
			ErrInvariantViolation,
			offset,
			"%s = 0x%08x, must be 0x%08x",
			f.name,
			w,
			f.want[0],
		)
	}
	return b.warn(offset, f.name, w, f.want)
}

// warn records a provisional constant mismatch. In strict mode it aborts the decode
func (b *blockCtx) warn(offset int, name string, got uint32, want []uint32) error {
	if b.d.strict {
		return b.fail(
			ErrInvariantViolation,
			offset,
			"%s = 0x%08x, expected one of %s",
			name,
			got,
			formatWords(want),
		)
	}
	b.blk.Warnings = append(
		b.blk.Warnings,
		Warning{
			Offset: offset,
			Tag:    b.blk.Tag,
			Field:  name,
			Got:    got,
			Want:   slices.Clone(want),
		},
	)
	b.d.logger.Warn(
		"unexpected value for provisional constant",
		"component", "decoder",
		"tag", b.blk.Tag.String(),
		"offset", fmt.Sprintf("0x%08x", offset),
		"field", name,
		"got", fmt.Sprintf("0x%08x", got),
		"want", formatWords(want),
	)
	return nil
}

func (b *blockCtx) addWord(name string, w uint32) {
	b.blk.Fields = append(b.blk.Fields, Field{Name: name, Kind: FieldWord, Word: w})
}

func (b *blockCtx) addText(name string, text string) {
	b.blk.Fields = append(b.blk.Fields, Field{Name: name, Kind: FieldText, Text: text})
}

func (b *blockCtx) fail(kind error, offset int, format string, args ...any) *DecodeError {
	return &DecodeError{
		Kind:   kind,
		Offset: offset,
		Tag:    b.blk.Tag,
		Path:   b.path,
		Msg:    fmt.Sprintf(format, args...),
	}
}

// outOfRange classifies a cursor bounds error: running past the enclosing range is an
// overrun, running past the whole buffer is a truncation
func (b *blockCtx) outOfRange(err error, offset int) error {
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return err
	}
	var boundsErr *cursor.BoundsError
	if !errors.As(err, &boundsErr) {
		return err
	}
	kind := ErrOverrun
	if boundsErr.BeyondBuffer() {
		kind = ErrTruncatedBuffer
	}
	ret := &DecodeError{
		Kind:   kind,
		Offset: offset,
		Path:   b.path,
		Msg:    boundsErr.Error(),
		Err:    err,
	}
	if b.blk != nil {
		ret.Tag = b.blk.Tag
	}
	return ret
}

func formatWords(words []uint32) string {
	ret := "["
	for i, w := range words {
		if i > 0 {
			ret += " "
		}
		ret += fmt.Sprintf("0x%08x", w)
	}
	return ret + "]"
}
