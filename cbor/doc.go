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

// Package cbor exports decoded block trees as CBOR for consumption by other tools.
//
// This package wraps github.com/fxamacker/cbor/v2. Encoding is deterministic (core
// deterministic map key order), so exporting the same buffer twice yields identical
// bytes.
//
// A document is a map with "blocks", "consumed" and, when decoding failed, "error".
// Each block is a map with "tag", "label", "rule", "offset", "length" and optional
// "fields", "words", "warnings", "children" and "incomplete". Fields are encoded as
// [name, value] arrays so that their order is preserved.
//
// The document is wrapped in the self-describe tag 55799:
//
//	data, err := cbor.Export(res, decodeErr)
//	...
//	doc, err := cbor.DecodeDocument(data)
package cbor
