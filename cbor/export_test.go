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

package cbor_test

import (
	"encoding/hex"
	"testing"

	"github.com/blinklabs-io/mpbdump/block"
	"github.com/blinklabs-io/mpbdump/cbor"
	"github.com/blinklabs-io/mpbdump/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportSampleProgram(t *testing.T) {
	res, err := block.Decode(test.SampleProgram())
	require.NoError(t, err)
	data, err := cbor.Export(res, nil)
	require.NoError(t, err)
	// Self-describe tag 55799
	assert.Equal(t, "d9d9f7", hex.EncodeToString(data[:3]))

	doc, err := cbor.DecodeDocument(data)
	require.NoError(t, err)
	assert.Nil(t, doc.Error)
	assert.Equal(t, uint64(res.Consumed), doc.Consumed)
	require.Len(t, doc.Blocks, 1)
	mpb1 := doc.Blocks[0]
	assert.Equal(t, "MPB1", mpb1.Tag)
	assert.Equal(t, "container", mpb1.Rule)
	assert.Equal(t, uint64(0), mpb1.Offset)
	require.Len(t, mpb1.Children, 2)
	assert.Equal(t, "VERT", mpb1.Children[0].Tag)
	require.NotEmpty(t, mpb1.Fields)
	assert.Equal(t, "size", mpb1.Fields[0].Name)
	// Integers come back as uint64 when decoded into an interface
	assert.Equal(t, uint64(res.Blocks[0].Fields[0].Word), mpb1.Fields[0].Value)
}

func TestExportIsDeterministic(t *testing.T) {
	res, err := block.Decode(test.SampleProgram())
	require.NoError(t, err)
	first, err := cbor.Export(res, nil)
	require.NoError(t, err)
	second, err := cbor.Export(res, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExportFailure(t *testing.T) {
	data := test.Container(
		"CVER",
		nil,
		test.Block("VEHW", 0x0, 0xc, 0x0, 0x0),
		test.Block("ZZZZ", 0x0),
	)
	res, decodeErr := block.Decode(data)
	require.Error(t, decodeErr)
	cborData, err := cbor.Export(res, decodeErr)
	require.NoError(t, err)

	doc, err := cbor.DecodeDocument(cborData)
	require.NoError(t, err)
	require.NotNil(t, doc.Error)
	assert.Equal(t, "unknown tag", doc.Error.Kind)
	assert.Equal(t, uint64(28), doc.Error.Offset)
	assert.Equal(t, "ZZZZ", doc.Error.Tag)
	assert.Equal(t, []string{"CVER"}, doc.Error.Path)
	assert.Equal(t, decodeErr.Error(), doc.Error.Message)

	require.Len(t, doc.Blocks, 1)
	cver := doc.Blocks[0]
	assert.True(t, cver.Incomplete)
	require.Len(t, cver.Children, 1)
	vehw := cver.Children[0]
	require.Len(t, vehw.Warnings, 1)
	assert.Equal(t, "unk2", vehw.Warnings[0].Field)
	assert.Equal(t, uint32(0xc), vehw.Warnings[0].Got)
	assert.Equal(t, []uint32{0xb}, vehw.Warnings[0].Want)
	assert.Equal(t, uint64(16), vehw.Warnings[0].Offset)
}

func TestExportTextFields(t *testing.T) {
	res, err := block.Decode(test.ShortString("main"))
	require.NoError(t, err)
	doc := cbor.NewDocument(res, nil)
	require.Len(t, doc.Blocks, 1)
	var name any
	for _, f := range doc.Blocks[0].Fields {
		if f.Name == "name" {
			name = f.Value
		}
	}
	assert.Equal(t, "main", name)
}

func TestDecodeDocumentRequiresTag(t *testing.T) {
	untagged, err := cbor.Encode(map[string]any{"blocks": []any{}, "consumed": 0})
	require.NoError(t, err)
	_, err = cbor.DecodeDocument(untagged)
	assert.ErrorIs(t, err, cbor.ErrMissingSelfDescribe)
	_, err = cbor.DecodeDocument(nil)
	assert.ErrorIs(t, err, cbor.ErrMissingSelfDescribe)
}

func TestExportTagIsStrippedOnDecode(t *testing.T) {
	res, err := block.Decode(test.Block("KERN", 0x7))
	require.NoError(t, err)
	data, err := cbor.Export(res, nil)
	require.NoError(t, err)
	// The generic decoder accepts the tagged document as well
	var doc cbor.Document
	n, err := cbor.Decode(data, &doc)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, "KERN", doc.Blocks[0].Tag)
	assert.Equal(t, uint64(8), doc.Blocks[0].Length)
}
