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

package cbor

import (
	"errors"
	"slices"

	"github.com/blinklabs-io/mpbdump/block"
)

// NewDocument converts a decode result, and the error returned with it, into a
// Document. Either argument may be nil
func NewDocument(res *block.Result, decodeErr error) Document {
	var doc Document
	if res != nil {
		doc.Blocks = newNodes(res.Blocks)
		doc.Consumed = uint64(res.Consumed) // #nosec G115
	}
	if decodeErr != nil {
		doc.Error = newErrorInfo(decodeErr)
	}
	return doc
}

// Export encodes a decode result as a CBOR document tagged as self-described CBOR
func Export(res *block.Result, decodeErr error) ([]byte, error) {
	data, err := Encode(NewDocument(res, decodeErr))
	if err != nil {
		return nil, err
	}
	return append(slices.Clone(selfDescribePrefix), data...), nil
}

func newNodes(blocks []*block.Block) []Node {
	if len(blocks) == 0 {
		return nil
	}
	ret := make([]Node, 0, len(blocks))
	for _, blk := range blocks {
		ret = append(ret, newNode(blk))
	}
	return ret
}

func newNode(blk *block.Block) Node {
	node := Node{
		Tag:        blk.Tag.String(),
		Label:      blk.Label,
		Rule:       blk.Rule.String(),
		Offset:     uint64(blk.Offset), // #nosec G115
		Length:     uint64(blk.Length), // #nosec G115
		Words:      slices.Clone(blk.Words),
		Children:   newNodes(blk.Children),
		Incomplete: blk.Incomplete,
	}
	for _, f := range blk.Fields {
		field := Field{Name: f.Name}
		switch f.Kind {
		case block.FieldText:
			field.Value = f.Text
		default:
			field.Value = f.Word
		}
		node.Fields = append(node.Fields, field)
	}
	for _, w := range blk.Warnings {
		node.Warnings = append(
			node.Warnings,
			Warning{
				Offset: uint64(w.Offset), // #nosec G115
				Field:  w.Field,
				Got:    w.Got,
				Want:   slices.Clone(w.Want),
			},
		)
	}
	return node
}

func newErrorInfo(err error) *ErrorInfo {
	var decodeErr *block.DecodeError
	if !errors.As(err, &decodeErr) {
		return &ErrorInfo{Message: err.Error()}
	}
	ret := &ErrorInfo{
		Kind:    decodeErr.Kind.Error(),
		Offset:  uint64(decodeErr.Offset), // #nosec G115
		Message: decodeErr.Error(),
	}
	if decodeErr.Tag != 0 {
		ret.Tag = decodeErr.Tag.String()
	}
	for _, tag := range decodeErr.Path {
		ret.Path = append(ret.Path, tag.String())
	}
	return ret
}
