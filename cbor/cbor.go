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
	_cbor "github.com/fxamacker/cbor/v2"
)

// Create an alias for RawMessage for convenience
type RawMessage = _cbor.RawMessage

// Useful for embedding and easier to remember
type StructAsArray struct {
	// Tells the CBOR decoder to convert to/from a struct and a CBOR array
	_ struct{} `cbor:",toarray"`
}

// Document is the exported form of one decode pass
type Document struct {
	Blocks []Node `cbor:"blocks"`
	// Bytes consumed by complete top-level blocks
	Consumed uint64     `cbor:"consumed"`
	Error    *ErrorInfo `cbor:"error,omitempty"`
}

// Node is the exported form of a decoded block
type Node struct {
	Tag        string    `cbor:"tag"`
	Label      string    `cbor:"label"`
	Rule       string    `cbor:"rule"`
	Offset     uint64    `cbor:"offset"`
	Length     uint64    `cbor:"length"`
	Fields     []Field   `cbor:"fields,omitempty"`
	Words      []uint32  `cbor:"words,omitempty"`
	Warnings   []Warning `cbor:"warnings,omitempty"`
	Children   []Node    `cbor:"children,omitempty"`
	Incomplete bool      `cbor:"incomplete,omitempty"`
}

// Field is encoded as a [name, value] pair. The value is an unsigned integer for
// header words and a text string otherwise
type Field struct {
	StructAsArray
	Name  string
	Value any
}

type Warning struct {
	StructAsArray
	Offset uint64
	Field  string
	Got    uint32
	Want   []uint32
}

// ErrorInfo describes the failure that stopped a decode
type ErrorInfo struct {
	Kind    string   `cbor:"kind"`
	Offset  uint64   `cbor:"offset"`
	Tag     string   `cbor:"tag,omitempty"`
	Path    []string `cbor:"path,omitempty"`
	Message string   `cbor:"message"`
}
