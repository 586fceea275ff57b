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
	"errors"
)

const (
	// Self-described CBOR (RFC 8949 section 3.4.6)
	CborTagSelfDescribe = 55799
)

// selfDescribePrefix is the encoded head of tag 55799. The decoder strips the tag on
// its own, so it is written and checked as raw bytes.
var selfDescribePrefix = []byte{0xd9, 0xd9, 0xf7}

// ErrMissingSelfDescribe is returned by DecodeDocument for input without the
// self-describe tag
var ErrMissingSelfDescribe = errors.New("cbor: missing self-describe tag")

func hasSelfDescribe(data []byte) bool {
	return bytes.HasPrefix(data, selfDescribePrefix)
}
