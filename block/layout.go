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
	"fmt"

	"github.com/blinklabs-io/mpbdump/cookie"
	"github.com/blinklabs-io/mpbdump/cursor"
)

// Number of SSYM tables seen in every CMMN block so far
const cmmnSymbolTables = 6

// layout walks a container whose children follow a fixed order, possibly with bare
// words between them
type layout struct {
	parent *blockCtx
	cur    *cursor.Cursor
	path   []cookie.Cookie
}

func newLayout(b *blockCtx) (*layout, error) {
	sub, err := b.interior()
	if err != nil {
		return nil, err
	}
	return &layout{
		parent: b,
		cur:    sub,
		path:   b.childPath(),
	}, nil
}

// peek returns the word at the position without consuming it
func (l *layout) peek() (uint32, error) {
	w, err := l.cur.Word(0)
	if err != nil {
		return 0, l.parent.outOfRange(err, l.cur.Pos())
	}
	return w, nil
}

// next decodes the block at the position, which must carry the given tag
func (l *layout) next(tag cookie.Cookie) error {
	w, err := l.peek()
	if err != nil {
		return err
	}
	if cookie.Cookie(w) != tag {
		if !Known(w) {
			return &DecodeError{
				Kind:   ErrUnknownTag,
				Offset: l.cur.Pos(),
				Tag:    cookie.Cookie(w),
				Path:   l.path,
				Msg:    fmt.Sprintf("%q (0x%08x)", cookie.Printable(w), w),
			}
		}
		return &DecodeError{
			Kind:   ErrInvariantViolation,
			Offset: l.cur.Pos(),
			Tag:    cookie.Cookie(w),
			Path:   l.path,
			Msg: fmt.Sprintf(
				"%s block expects %s here, found %s",
				l.parent.blk.Tag,
				tag,
				cookie.Cookie(w),
			),
		}
	}
	blk, err := l.parent.d.decodeBlock(l.cur, l.parent.depth+1, l.path)
	if blk != nil {
		l.parent.blk.Children = append(l.parent.blk.Children, blk)
	}
	if err != nil {
		return err
	}
	if err := l.cur.Advance(blk.Length); err != nil {
		return l.parent.outOfRange(err, blk.Offset)
	}
	return nil
}

// count consumes a bare word and records it on the parent block
func (l *layout) count(name string) (uint32, error) {
	w, err := l.peek()
	if err != nil {
		return 0, err
	}
	l.parent.addWord(name, w)
	if err := l.cur.Advance(cursor.WordSize); err != nil {
		return 0, l.parent.outOfRange(err, l.cur.Pos())
	}
	return w, nil
}

// finish requires the layout to end exactly at the end of the interior
func (l *layout) finish() error {
	if l.cur.Done() {
		return nil
	}
	return &DecodeError{
		Kind:   ErrUnderrun,
		Offset: l.cur.Pos(),
		Tag:    l.parent.blk.Tag,
		Path:   l.path,
		Msg: fmt.Sprintf(
			"0x%x bytes left after the %s layout",
			l.cur.Remaining(),
			l.parent.blk.Tag,
		),
	}
}

// cmmnLayout: VELA, the SSYM symbol tables, UBUF, a binary count, then that many EBIN
func cmmnLayout(b *blockCtx) error {
	l, err := newLayout(b)
	if err != nil {
		return err
	}
	if err := l.next(cookie.New("VELA")); err != nil {
		return err
	}
	ssym := cookie.New("SSYM")
	tablesOffset := l.cur.Pos()
	tables := 0
	for {
		w, err := l.peek()
		if err != nil {
			return err
		}
		if cookie.Cookie(w) != ssym {
			break
		}
		if err := l.next(ssym); err != nil {
			return err
		}
		tables++
	}
	if tables == 0 {
		// Reports the missing table as an unexpected tag
		return l.next(ssym)
	}
	b.addWord("symbol_tables", uint32(tables))
	if tables != cmmnSymbolTables {
		if err := b.warn(tablesOffset, "symbol_tables", uint32(tables), []uint32{cmmnSymbolTables}); err != nil {
			return err
		}
	}
	if err := l.next(cookie.New("UBUF")); err != nil {
		return err
	}
	binaries, err := l.count("binaries")
	if err != nil {
		return err
	}
	ebin := cookie.New("EBIN")
	for range binaries {
		if err := l.next(ebin); err != nil {
			return err
		}
	}
	return l.finish()
}

// fotvLayout: the variable count in the header is followed by exactly that many OUTV
func fotvLayout(b *blockCtx) error {
	l, err := newLayout(b)
	if err != nil {
		return err
	}
	variables, err := b.word(2)
	if err != nil {
		return err
	}
	outv := cookie.New("OUTV")
	for range variables {
		if err := l.next(outv); err != nil {
			return err
		}
	}
	return l.finish()
}
