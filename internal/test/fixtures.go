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

// Container builds a length-carrying block: cookie, size, the extra header words, then
// the children. The size covers everything after the size word
func Container(tag string, extra []uint32, children ...[]byte) []byte {
	body := Concat(children...)
	return Concat(
		Words(Tag(tag), uint32(4*len(extra)+len(body))),
		Words(extra...),
		body,
	)
}

// ShortString builds a STRI block in its short form: the padded string followed by a
// single 0x10 trailing word
func ShortString(s string) []byte {
	return Concat(
		Words(Tag("STRI"), uint32(len(s))),
		PaddedString(s),
		Words(0x10),
	)
}

// Embedded builds an EBIN block with the usual header values around the children
func Embedded(children ...[]byte) []byte {
	return Container(
		"EBIN",
		[]uint32{0x0, 0xffffffff, 0x0, 0x0, 0xffffffff},
		children...,
	)
}

// SampleInstructions is the instruction stream used by SampleProgram
var SampleInstructions = []uint32{0x00000128, 0xc0003280, 0x00200002, 0x000000f0}

// SampleProgram builds a complete program binary nested in the same way as files seen
// in the wild:
//
//	MPB1
//	  VERT
//	  MBS2
//	    VEHW
//	    CVER
//	      CMMN
//	        VELA
//	        SSYM x6 (the first holds a STRI)
//	        UBUF
//	        <binary count = 1>
//	        EBIN
//	          OBJC
//	          BFRE
//	          KERN
//	          KWGS
//
// It holds 20 blocks in total
func SampleProgram() []byte {
	ssym := [][]byte{Container("SSYM", []uint32{0x2}, ShortString("main"))}
	for range 5 {
		ssym = append(ssym, Container("SSYM", []uint32{0x2}))
	}
	cmmn := Container(
		"CMMN",
		nil,
		Concat(
			Block("VELA", 0x1, 0x8),
			Concat(ssym...),
			Block("UBUF", 0x4, 0x0, 0x0, 0xcafe),
			Words(1),
			Embedded(
				Sized("OBJC", Words(SampleInstructions...)),
				Block("BFRE", 0x1, 0x0),
				Block("KERN", 0x0),
				Block("KWGS", 0x0, 64, 1, 1),
			),
		),
	)
	return Container(
		"MPB1",
		[]uint32{0x1, 0x0},
		Block("VERT", 0x0),
		Container(
			"MBS2",
			[]uint32{0x2},
			Block("VEHW", 0x0, 0xb, 0x0, 0x0),
			Container("CVER", nil, cmmn),
		),
	)
}
