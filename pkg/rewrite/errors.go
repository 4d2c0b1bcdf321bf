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
	"fmt"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrUnbalancedDelimiter is returned when an argument list or a quoted
	// string never closes.
	ErrUnbalancedDelimiter = errors.New("un-matched parenthesis or quote")

	// ErrMalformedMatch is returned when the structural match of a rule
	// produced a capture shape the engine does not know. It points at a broken
	// rule, not at bad input.
	ErrMalformedMatch = errors.New("malformed rule match")

	// ErrMissingArgument is returned when a template references an argument
	// the call did not supply.
	ErrMissingArgument = errors.New("not enough arguments for template")
)

// LineError is a recoverable problem found while rewriting one input line.
type LineError struct {
	Line int    // 1-based input line number
	Text string // original input line
	Rule string // name of the rule that failed, if known
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%v at line %d of input", e.Err, e.Line)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ruleError tags err with the rule that produced it so the stream layer can
// report it.
type ruleError struct {
	rule string
	err  error
}

func (e *ruleError) Error() string {
	return e.rule + ": " + e.err.Error()
}

func (e *ruleError) Unwrap() error {
	return e.err
}

// RuleName returns the rule that produced err, or "" when err did not come
// from a rule.
func RuleName(err error) string {
	var re *ruleError
	if errors.As(err, &re) {
		return re.rule
	}
	return ""
}
