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
	"github.com/blinklabs-io/mpbdump/cookie"
)

// RuleKind identifies how a block's length is determined
type RuleKind uint8

const (
	RuleFixed RuleKind = iota + 1
	RuleExplicit
	RuleHeuristic
	RuleContainer
)

func (r RuleKind) String() string {
	switch r {
	case RuleFixed:
		return "fixed"
	case RuleExplicit:
		return "explicit"
	case RuleHeuristic:
		return "heuristic"
	case RuleContainer:
		return "container"
	default:
		return "invalid"
	}
}

type FieldKind uint8

const (
	FieldWord FieldKind = iota + 1
	FieldText
)

// Field is a single displayable value extracted from a block
type Field struct {
	Name string
	Kind FieldKind
	Word uint32
	Text string
}

// Warning records a field that did not match a provisional constant
type Warning struct {
	Offset int
	Tag    cookie.Cookie
	Field  string
	Got    uint32
	Want   []uint32
}

// Block is one decoded unit of the container
type Block struct {
	Tag   cookie.Cookie
	Label string
	Rule  RuleKind
	// Absolute offset of the block header within the decoded buffer
	Offset int
	// Header plus payload, in bytes
	Length   int
	Fields   []Field
	Children []*Block
	Words    []uint32
	Warnings []Warning
	// Set when decoding stopped inside this block
	Incomplete bool
}

// Field returns the first field with the given name
func (b *Block) Field(name string) (Field, bool) {
	for _, f := range b.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// End returns the absolute offset just past the block
func (b *Block) End() int {
	return b.Offset + b.Length
}

// Result holds the blocks decoded from one range
type Result struct {
	Blocks []*Block
	// Number of bytes of the range consumed by complete blocks
	Consumed int
}

// Count returns the number of blocks in the result, including nested blocks
func (r *Result) Count() int {
	return countBlocks(r.Blocks)
}

func countBlocks(blocks []*Block) int {
	ret := len(blocks)
	for _, b := range blocks {
		ret += countBlocks(b.Children)
	}
	return ret
}
