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

// The length rules in this file are inferred from a small set of sample files and are
// not confirmed. They are kept as literal special cases: each list of forms is tried in
// order, a form's predicate only runs when every earlier form failed to match, and the
// first match wins. The chosen form is recorded on the block as the "form" field.

// sizeForm is one candidate interpretation of a block's length
type sizeForm struct {
	name string
	// Bytes added to the nominal length when this form matches
	adjust int
	// at is a tag-specific byte offset from the start of the block
	match func(b *blockCtx, at int) (bool, error)
}

func always(*blockCtx, int) (bool, error) {
	return true, nil
}

// STRI: after the word padded string come up to four trailing words. Some instances
// omit some of them
var striForms = []sizeForm{
	{
		name:   "short",
		adjust: -12,
		match: func(b *blockCtx, at int) (bool, error) {
			t0, err := b.wordAt(at)
			return t0 == 0x10, err
		},
	},
	{
		name:   "terminator-a",
		adjust: -4,
		match: func(b *blockCtx, at int) (bool, error) {
			t1, err := b.wordAt(at + 4)
			return t1&0xffff0000 == 0xffff0000, err
		},
	},
	{
		name:   "terminator-b",
		adjust: -4,
		match: func(b *blockCtx, at int) (bool, error) {
			t1, err := b.wordAt(at + 4)
			return t1 == 0, err
		},
	},
	{
		name:  "full",
		match: always,
	},
}

// TPGE: the sixth word is sometimes missing, in which case the next block's cookie
// shows up in its place
var tpgeForms = []sizeForm{
	{
		name:   "range-end",
		adjust: -4,
		match: func(b *blockCtx, _ int) (bool, error) {
			return b.cur.Remaining() == 20, nil
		},
	},
	{
		name:   "truncated",
		adjust: -4,
		match: func(b *blockCtx, _ int) (bool, error) {
			w5, err := b.word(5)
			return Known(w5), err
		},
	},
	{
		name:  "full",
		match: always,
	},
}

// UBUF: the size excludes the two words after it. A non-zero unk2 comes with an extra
// trailing word
var ubufForms = []sizeForm{
	{
		name:   "binding",
		adjust: 4,
		match: func(b *blockCtx, _ int) (bool, error) {
			unk2, err := b.word(2)
			return unk2 != 0, err
		},
	},
	{
		name:  "plain",
		match: always,
	},
}

// EBIN: unk6 is normally 0xffffffff. Otherwise the size word counts itself
var ebinForms = []sizeForm{
	{
		name:   "self-sized",
		adjust: -4,
		match: func(b *blockCtx, _ int) (bool, error) {
			unk6, err := b.word(6)
			return unk6 != 0xffffffff, err
		},
	},
	{
		name:  "plain",
		match: always,
	},
}

func (b *blockCtx) selectForm(forms []sizeForm, at int) (sizeForm, error) {
	for _, form := range forms {
		ok, err := form.match(b, at)
		if err != nil {
			return sizeForm{}, err
		}
		if ok {
			b.addText("form", form.name)
			return form, nil
		}
	}
	return sizeForm{}, b.fail(
		ErrInvariantViolation,
		b.blk.Offset,
		"no size form matched",
	)
}

// wordAt reads the word at a byte offset from the start of the block
func (b *blockCtx) wordAt(off int) (uint32, error) {
	w, err := b.cur.Word(off)
	if err != nil {
		return 0, b.outOfRange(err, b.blk.Offset)
	}
	return w, nil
}

func align4(n int) int {
	return (n + 3) &^ 3
}

func striLength(b *blockCtx) (int, error) {
	n, err := b.word(1)
	if err != nil {
		return 0, err
	}
	// Cookie, length word, then the padded string
	trailer := 8 + align4(int(n))
	form, err := b.selectForm(striForms, trailer)
	if err != nil {
		return 0, err
	}
	return trailer + 16 + form.adjust, nil
}

func tpgeLength(b *blockCtx) (int, error) {
	form, err := b.selectForm(tpgeForms, 0)
	if err != nil {
		return 0, err
	}
	length := 24 + form.adjust
	if length == 24 {
		w5, err := b.word(5)
		if err != nil {
			return 0, err
		}
		b.addWord("unk5", w5)
	}
	return length, nil
}

func ubufLength(b *blockCtx) (int, error) {
	size, err := b.word(1)
	if err != nil {
		return 0, err
	}
	form, err := b.selectForm(ubufForms, 0)
	if err != nil {
		return 0, err
	}
	return 8 + int(size) + 8 + form.adjust, nil
}

func ebinLength(b *blockCtx) (int, error) {
	size, err := b.word(1)
	if err != nil {
		return 0, err
	}
	form, err := b.selectForm(ebinForms, 0)
	if err != nil {
		return 0, err
	}
	return 8 + int(size) + form.adjust, nil
}
