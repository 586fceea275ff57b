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
	"slices"
	"strings"

	"github.com/blinklabs-io/mpbdump/cookie"
)

// Every block starts with a cookie and at least one more word
const MinBlockSize = 8

// Descriptor is the registry entry for one tag
type Descriptor struct {
	Tag   cookie.Cookie
	Label string
	Rule  RuleKind
	// Total length for RuleFixed, otherwise the bytes needed to read the header fields
	Size int
	// Bytes added to 8+size for length-carrying blocks
	Adjust int
	// Offset of the first child for container blocks
	Interior int
	fields   []fieldSpec
	// Overrides the generic length rule
	length lengthFunc
	// Decodes anything past the header fields: strings, instruction streams, children
	payload payloadFunc
}

// fieldSpec declares a header word to display and, optionally, the values it has
// been observed to take
type fieldSpec struct {
	name string
	word int
	want []uint32
	// Mismatch aborts the decode instead of producing a warning
	hard bool
}

type (
	lengthFunc  func(b *blockCtx) (int, error)
	payloadFunc func(b *blockCtx) error
)

// registry is populated once by init and never modified afterwards
var registry map[cookie.Cookie]Descriptor

func init() {
	registry = make(map[cookie.Cookie]Descriptor)
	for _, desc := range descriptors() {
		if _, ok := registry[desc.Tag]; ok {
			panic("duplicate registry entry for " + desc.Tag.String())
		}
		minSize := max(MinBlockSize, desc.Size)
		for _, f := range desc.fields {
			minSize = max(minSize, 4*(f.word+1))
		}
		desc.Size = minSize
		registry[desc.Tag] = desc
	}
}

// Lookup returns the descriptor for a tag. Tags never observed in a sample file
// return an error matching ErrUnknownTag
func Lookup(tag cookie.Cookie) (Descriptor, error) {
	desc, ok := registry[tag]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q (0x%08x)", ErrUnknownTag, tag.String(), uint32(tag))
	}
	return desc, nil
}

// Known reports whether a word is a registered tag
func Known(word uint32) bool {
	_, ok := registry[cookie.Cookie(word)]
	return ok
}

// Tags returns all registered tags in ascending string order
func Tags() []cookie.Cookie {
	ret := make([]cookie.Cookie, 0, len(registry))
	for tag := range registry {
		ret = append(ret, tag)
	}
	slices.SortFunc(ret, func(a, b cookie.Cookie) int {
		return strings.Compare(a.String(), b.String())
	})
	return ret
}

func word(name string, idx int) fieldSpec {
	return fieldSpec{name: name, word: idx}
}

func soft(name string, idx int, want ...uint32) fieldSpec {
	return fieldSpec{name: name, word: idx, want: want}
}

func hard(name string, idx int, want uint32) fieldSpec {
	return fieldSpec{name: name, word: idx, want: []uint32{want}, hard: true}
}

func fixed(tag string, label string, size int, fields ...fieldSpec) Descriptor {
	return Descriptor{
		Tag:    cookie.New(tag),
		Label:  label,
		Rule:   RuleFixed,
		Size:   size,
		fields: fields,
	}
}

func explicit(tag string, label string, adjust int, fields ...fieldSpec) Descriptor {
	return Descriptor{
		Tag:    cookie.New(tag),
		Label:  label,
		Rule:   RuleExplicit,
		Adjust: adjust,
		fields: append([]fieldSpec{word("size", 1)}, fields...),
	}
}

func container(tag string, label string, interior int, fields ...fieldSpec) Descriptor {
	return Descriptor{
		Tag:      cookie.New(tag),
		Label:    label,
		Rule:     RuleContainer,
		Interior: interior,
		fields:   append([]fieldSpec{word("size", 1)}, fields...),
		payload:  walkInterior,
	}
}

func descriptors() []Descriptor {
	ret := []Descriptor{
		// The size word is the file size minus the cookie and itself
		container("MPB1", "program binary", 16,
			word("unk1", 2),
			hard("reserved", 3, 0),
		),
		fixed("VERT", "vertex stage", 8, word("unk1", 1)),
		fixed("FRAG", "fragment stage", 8, word("unk1", 1)),
		fixed("COMP", "compute stage", 8, word("unk1", 1)),
		container("MBS2", "metadata bundle", 12, word("version", 2)),
		fixed("VEHW", "hardware version", 20,
			word("unk1", 1),
			soft("unk2", 2, 0xb),
			soft("unk3", 3, 0x0),
			soft("unk4", 4, 0x0),
		),
		container("CVER", "common version", 8),
		container("CMMN", "common block", 8),
		fixed("VELA", "vela", 12,
			word("unk1", 1),
			soft("unk2", 2, 0x8),
		),
		// Observed as 0x2 in most samples but not all
		container("SSYM", "symbol table", 12, word("unk2", 2)),
		fixed("SYMB", "symbol", 8, word("unk1", 1)),
		{
			Tag:     cookie.New("STRI"),
			Label:   "string",
			Rule:    RuleHeuristic,
			fields:  []fieldSpec{word("length", 1)},
			length:  striLength,
			payload: striText,
		},
		{
			Tag:     cookie.New("TYPE"),
			Label:   "type",
			Rule:    RuleFixed,
			Size:    8,
			fields:  []fieldSpec{word("type", 1)},
			payload: typeName,
		},
		{
			Tag:   cookie.New("TPGE"),
			Label: "generic type",
			Rule:  RuleHeuristic,
			Size:  20,
			fields: []fieldSpec{
				word("unk1", 1),
				word("unk2", 2),
				word("unk3", 3),
				// Probably a bitfield
				word("unk4", 4),
			},
			length: tpgeLength,
		},
		fixed("TPIB", "type buffer", 20,
			word("unk1", 1),
			word("unk2", 2),
			word("unk3", 3),
			word("unk4", 4),
		),
		// Never seen with content
		explicit("TPST", "type struct", 0),
		fixed("TPSE", "type element", 8, word("unk1", 1)),
		fixed("TPAR", "type array", 12,
			word("unk1", 1),
			// Probably the array size
			word("unk2", 2),
		),
		{
			Tag:   cookie.New("UBUF"),
			Label: "uniform buffer",
			Rule:  RuleHeuristic,
			fields: []fieldSpec{
				word("size", 1),
				word("unk2", 2),
				word("unk3", 3),
			},
			length: ubufLength,
		},
		{
			Tag:      cookie.New("EBIN"),
			Label:    "embedded binary",
			Rule:     RuleContainer,
			Interior: 28,
			fields: []fieldSpec{
				word("size", 1),
				word("unk2", 2),
				hard("unk3", 3, 0xffffffff),
				word("unk4", 4),
				hard("unk5", 5, 0x0),
				word("unk6", 6),
			},
			length:  ebinLength,
			payload: walkInterior,
		},
		fixed("FSHA", "shader hash", 32,
			word("unk1", 1),
			soft("unk2", 2, 0x0),
			soft("unk3", 3, 0x0),
			word("unk4", 4),
			word("unk5", 5),
			// Probably a bitfield
			word("unk6", 6),
			soft("unk7", 7, 0x0),
		),
		fixed("BFRE", "bifrost", 12,
			word("unk1", 1),
			soft("unk2", 2, 0x0),
		),
		fixed("SPDv", "vertex shader descriptor", 12,
			word("unk1", 1),
			soft("unk2", 2, 0x0),
		),
		fixed("SPDf", "fragment shader descriptor", 16,
			word("unk1", 1),
			soft("unk2", 2, 0x0080003e),
			soft("unk3", 3, 0x0),
		),
		fixed("SPDc", "compute shader descriptor", 12,
			word("unk1", 1),
			soft("unk2", 2, 0x0),
		),
		{
			Tag:     cookie.New("OBJC"),
			Label:   "object code",
			Rule:    RuleExplicit,
			fields:  []fieldSpec{word("size", 1)},
			payload: objcInstructions,
		},
		container("CFRA", "compute frame", 8),
		fixed("BATT", "attributes", 12,
			word("unk1", 1),
			soft("unk2", 2, 0x2),
		),
		fixed("CCOM", "compute common", 8, word("unk1", 1)),
		fixed("KERN", "kernel", 8, word("unk1", 1)),
		fixed("KWGS", "workgroup size", 20,
			word("unk1", 1),
			word("local_x", 2),
			word("local_y", 3),
			word("local_z", 4),
		),
		fixed("RLOC", "relocation", 28,
			word("unk1", 1),
			soft("unk2", 2, 0x0),
			soft("unk3", 3, 0x0),
			soft("unk4", 4, 0x0),
			soft("unk5", 5, 0x8),
			word("unk6", 6),
		),
		container("FOTV", "output variables", 12, word("variables", 2)),
		explicit("OUTV", "output variable", 0),
		explicit("AINF", "attribute info", 0),
	}
	// Layout containers replace the generic interior walk
	for i := range ret {
		switch ret[i].Tag {
		case cookie.New("CMMN"):
			ret[i].payload = cmmnLayout
		case cookie.New("FOTV"):
			ret[i].payload = fotvLayout
		}
	}
	return ret
}
