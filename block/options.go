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
	"log/slog"
)

// DefaultMaxDepth bounds container nesting. Observed files nest about 5 levels deep
const DefaultMaxDepth = 16

type DecodeOptionFunc func(*decoder)

// WithLogger specifies the logger for soft warnings and debug tracing
func WithLogger(logger *slog.Logger) DecodeOptionFunc {
	return func(d *decoder) {
		d.logger = logger
	}
}

// WithStrict turns mismatches of provisional constants into invariant violations
func WithStrict(strict bool) DecodeOptionFunc {
	return func(d *decoder) {
		d.strict = strict
	}
}

// WithMaxDepth specifies the maximum container nesting depth
func WithMaxDepth(maxDepth int) DecodeOptionFunc {
	return func(d *decoder) {
		d.maxDepth = maxDepth
	}
}
