// Copyright 2025 walteh LLC
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

package rewrite

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// PlaceholderSentinel introduces a positional placeholder in a template.
const PlaceholderSentinel = '$'

// MaxPlaceholders is the number of addressable argument slots ($1..$9, $a..$f).
const MaxPlaceholders = 15

// placeholderIndex maps a selector character to a 0-based argument index.
func placeholderIndex(c byte) (int, bool) {
	switch {
	case c >= '1' && c <= '9':
		return int(c - '1'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 9, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 9, true
	default:
		return -1, false
	}
}

// Substitute replaces every placeholder of template with the selected
// argument. Substituted text is not scanned again.
//
// When a placeholder selects an argument that was not supplied, Substitute
// returns the text substituted so far followed by the rest of the template
// unchanged, together with an ErrMissingArgument error.
func Substitute(template string, args []string) (string, error) {
	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != PlaceholderSentinel {
			b.WriteByte(c)
			continue
		}

		if i+1 >= len(template) {
			return b.String() + template[i:], errors.Errorf("dangling %q at end of template: %w", PlaceholderSentinel, ErrMissingArgument)
		}

		idx, ok := placeholderIndex(template[i+1])
		if !ok {
			return b.String() + template[i:], errors.Errorf("placeholder %q selects no argument: %w", template[i:i+2], ErrMissingArgument)
		}
		if idx >= len(args) {
			return b.String() + template[i:], errors.Errorf("placeholder %q needs %d arguments, call has %d: %w", template[i:i+2], idx+1, len(args), ErrMissingArgument)
		}

		b.WriteString(args[idx])
		i++
	}

	return b.String(), nil
}

// Arity returns the number of arguments template needs, that is the highest
// placeholder index it references. Invalid selectors are ignored.
func Arity(template string) int {
	n := 0
	for i := 0; i+1 < len(template); i++ {
		if template[i] != PlaceholderSentinel {
			continue
		}
		if idx, ok := placeholderIndex(template[i+1]); ok && idx+1 > n {
			n = idx + 1
		}
		i++
	}
	return n
}
