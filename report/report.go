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

// Package report renders decoded blocks and raw word dumps for reading by a human
package report

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/blinklabs-io/mpbdump/block"
	"github.com/blinklabs-io/mpbdump/cookie"
	"github.com/blinklabs-io/mpbdump/cursor"
)

// DefaultRadius is the number of words shown on each side of a failure
const DefaultRadius = 8

// FormatTree renders blocks with one tab of indentation per nesting level
func FormatTree(blocks []*block.Block) string {
	var sb strings.Builder
	for _, blk := range blocks {
		formatBlock(&sb, blk, 0)
	}
	return sb.String()
}

// WriteTree writes the output of FormatTree to w
func WriteTree(w io.Writer, blocks []*block.Block) error {
	_, err := io.WriteString(w, FormatTree(blocks))
	return err
}

func iprintf(sb *strings.Builder, indent int, format string, args ...any) {
	sb.WriteString(strings.Repeat("\t", indent))
	fmt.Fprintf(sb, format, args...)
	sb.WriteString("\n")
}

func formatBlock(sb *strings.Builder, blk *block.Block, indent int) {
	header := fmt.Sprintf(
		"%s (%s) @0x%08x len=0x%x",
		blk.Tag,
		blk.Label,
		blk.Offset,
		blk.Length,
	)
	if blk.Incomplete {
		header += " [incomplete]"
	}
	iprintf(sb, indent, "%s", header)
	for _, f := range blk.Fields {
		switch f.Kind {
		case block.FieldText:
			iprintf(sb, indent+1, "%s = %q", f.Name, f.Text)
		default:
			iprintf(sb, indent+1, "%s = 0x%08x", f.Name, f.Word)
		}
	}
	for _, warning := range blk.Warnings {
		want := make([]string, len(warning.Want))
		for i, w := range warning.Want {
			want[i] = fmt.Sprintf("0x%08x", w)
		}
		iprintf(
			sb,
			indent+1,
			"warning: %s = 0x%08x at 0x%08x, expected %s",
			warning.Field,
			warning.Got,
			warning.Offset,
			strings.Join(want, " or "),
		)
	}
	for _, w := range blk.Words {
		iprintf(sb, indent+1, "0x%08x", w)
	}
	for _, child := range blk.Children {
		formatBlock(sb, child, indent+1)
	}
}

// WordWindow renders the words within radius of the word containing offset. Each row
// shows the address, the word and its bytes as characters. The row holding offset is
// marked with "->". Rows are clipped to the buffer and a trailing partial word is
// zero padded
func WordWindow(data []byte, offset int, radius int) string {
	if len(data) == 0 {
		return ""
	}
	last := (len(data) - 1) / cursor.WordSize
	center := min(max(offset, 0)/cursor.WordSize, last)
	var sb strings.Builder
	writeRows(&sb, data, max(center-radius, 0), min(center+radius, last), center)
	return sb.String()
}

// DumpWords writes every word in the buffer in the same row format as WordWindow
func DumpWords(w io.Writer, data []byte) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "file size is 0x%08x\n", len(data))
	if len(data) > 0 {
		writeRows(&sb, data, 0, (len(data)-1)/cursor.WordSize, -1)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeRows(sb *strings.Builder, data []byte, first int, last int, mark int) {
	var buf [cursor.WordSize]byte
	for i := first; i <= last; i++ {
		addr := i * cursor.WordSize
		clear(buf[:])
		copy(buf[:], data[addr:min(addr+cursor.WordSize, len(data))])
		word := binary.LittleEndian.Uint32(buf[:])
		marker := "  "
		if i == mark {
			marker = "->"
		}
		fmt.Fprintf(sb, "%s0x%08x :0x%08x: %s\n", marker, addr, word, cookie.Printable(word))
	}
}

// WriteFailure writes a decode error followed by the words around the failure point.
// Errors other than a block.DecodeError are written on their own
func WriteFailure(w io.Writer, data []byte, err error, radius int) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "decode failed: %s\n", err)
	var decodeErr *block.DecodeError
	if errors.As(err, &decodeErr) {
		if len(decodeErr.Path) > 0 {
			fmt.Fprintf(&sb, "inside: %s\n", decodeErr.PathString())
		}
		fmt.Fprintf(&sb, "words around 0x%08x:\n", decodeErr.Offset)
		sb.WriteString(WordWindow(data, decodeErr.Offset, radius))
	}
	_, err = io.WriteString(w, sb.String())
	return err
}
