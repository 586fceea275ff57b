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
	"errors"
	"fmt"
	"strings"

	"github.com/blinklabs-io/mpbdump/cookie"
)

// Sentinel errors so callers can use errors.Is on a DecodeError
var (
	ErrUnknownTag         = errors.New("unknown tag")
	ErrTruncatedBuffer    = errors.New("truncated buffer")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrOverrun            = errors.New("overrun")
	ErrUnderrun           = errors.New("underrun")
)

// DecodeError aborts a decode. There is no recovery: everything after Offset is
// unparsed
type DecodeError struct {
	// One of the sentinel errors above
	Kind error
	// Absolute offset of the failing block or word
	Offset int
	// Tag of the block being decoded, zero if none was read
	Tag cookie.Cookie
	// Tags of the enclosing container blocks, outermost first
	Path []cookie.Cookie
	Msg  string
	Err  error
}

func (e *DecodeError) Error() string {
	var sb strings.Builder
	sb.WriteString("decode: ")
	sb.WriteString(e.Kind.Error())
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	fmt.Fprintf(&sb, " at offset 0x%08x", e.Offset)
	if len(e.Path) > 0 {
		sb.WriteString(" (in ")
		sb.WriteString(e.PathString())
		sb.WriteString(")")
	}
	return sb.String()
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool {
	return target == e.Kind
}

// PathString renders the enclosing container tags as "MPB1/MBS2/CMMN"
func (e *DecodeError) PathString() string {
	parts := make([]string, len(e.Path))
	for i, tag := range e.Path {
		parts[i] = tag.String()
	}
	return strings.Join(parts, "/")
}
