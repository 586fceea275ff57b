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
	"bytes"
	"fmt"
	"sync"

	_cbor "github.com/fxamacker/cbor/v2"
)

var (
	decModeOnce sync.Once
	decMode     _cbor.DecMode
	decModeErr  error
)

// getDecMode builds the shared DecMode on first use. Unknown fields are rejected.
func getDecMode() (_cbor.DecMode, error) {
	decModeOnce.Do(func() {
		opts := _cbor.DecOptions{
			ExtraReturnErrors: _cbor.ExtraDecErrorUnknownField,
			// Block trees nest one level per container plus the node/children arrays
			MaxNestedLevels: 256,
		}
		decMode, decModeErr = opts.DecMode()
	})
	return decMode, decModeErr
}

// Decode reads one CBOR item from data into dest and returns the number of bytes read.
func Decode(data []byte, dest any) (int, error) {
	mode, err := getDecMode()
	if err != nil {
		return 0, fmt.Errorf("cbor decode mode: %w", err)
	}
	dec := mode.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(dest); err != nil {
		return dec.NumBytesRead(), err
	}
	return dec.NumBytesRead(), nil
}

// DecodeDocument decodes a Document written by Export. The input must start with the
// self-describe tag.
func DecodeDocument(data []byte) (Document, error) {
	var doc Document
	if !hasSelfDescribe(data) {
		return doc, ErrMissingSelfDescribe
	}
	if _, err := Decode(data, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}
