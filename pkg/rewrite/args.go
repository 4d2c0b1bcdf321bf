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
	"gitlab.com/tozd/go/errors"
)

// Matching returns the offset, relative to start, of the delimiter that closes
// the one at s[start]. The opening delimiter must be '(' or '"'.
//
// A quoted span is scanned verbatim up to the next '"'. Inside parentheses any
// '(' or '"' opens a nested region that is skipped as a whole.
func Matching(s string, start int) (int, error) {
	if start < 0 || start >= len(s) {
		return 0, errors.Errorf("no delimiter at offset %d: %w", start, ErrUnbalancedDelimiter)
	}

	var closer byte
	switch s[start] {
	case '(':
		closer = ')'
	case '"':
		closer = '"'
	default:
		return 0, errors.Errorf("%q at offset %d is not an opening delimiter: %w", s[start], start, ErrUnbalancedDelimiter)
	}

	i := start + 1
	for i < len(s) && s[i] != closer {
		if closer == ')' && (s[i] == '(' || s[i] == '"') {
			n, err := Matching(s, i)
			if err != nil {
				return 0, err
			}
			i += n + 1
			continue
		}
		i++
	}

	if i >= len(s) {
		return 0, errors.Errorf("no closing %q for offset %d: %w", closer, start, ErrUnbalancedDelimiter)
	}

	return i - start, nil
}

// SplitArgs splits the parenthesized argument list at the start of s into its
// top-level arguments and returns the text following the closing ')'.
//
// Commas inside nested parentheses or quoted strings do not separate
// arguments. There is always at least one argument: "()" yields [""].
// Arguments keep their surrounding blanks.
func SplitArgs(s string) ([]string, string, error) {
	if s == "" || s[0] != '(' {
		return nil, "", errors.Errorf("argument list must start with '(': %w", ErrUnbalancedDelimiter)
	}

	end, err := Matching(s, 0)
	if err != nil {
		return nil, "", err
	}

	inner := s[1:end]
	rest := s[end+1:]

	var args []string
	j := 0
	for i := 0; i < len(inner); {
		switch inner[i] {
		case '(', '"':
			n, err := Matching(inner, i)
			if err != nil {
				return nil, "", err
			}
			i += n + 1
		case ',':
			args = append(args, inner[j:i])
			i++
			j = i
		default:
			i++
		}
	}
	args = append(args, inner[j:])

	return args, rest, nil
}
