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

// Package block decodes the tagged-block container used for GPU shader binaries.
//
// Every block starts with a 4-byte cookie. The format has no universal size field,
// so the length of each block comes from a per-tag rule in the registry:
//
//   - Fixed: the length is a constant
//   - Explicit: the block carries a size word, length = 8 + size (+ a per-tag adjustment)
//   - Heuristic: the length depends on payload content (STRI, TPGE, UBUF)
//   - Container: the length is explicit and the interior is itself a block sequence
//
// # Decoding
//
//	res, err := block.Decode(data, block.WithLogger(logger))
//	if err != nil {
//	    // res.Blocks still holds everything decoded before the failure
//	    var decodeErr *block.DecodeError
//	    if errors.As(err, &decodeErr) { ... }
//	}
//
// A walk over a range succeeds only when the decoded blocks end exactly at the end of
// the range. Unknown tags, truncated data, broken invariants and children that overrun
// or underrun their container all abort the whole decode. There is no attempt to
// resynchronize, because the format has no markers to resynchronize on.
//
// # Provisional constants
//
// Most header words are not understood. Words that have held the same value in every
// sample are checked, but a mismatch only produces a Warning on the block (and a log
// entry) unless WithStrict is used. A few structural words are hard invariants.
package block
