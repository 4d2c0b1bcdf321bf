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
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestMatching(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		start   int
		want    int
		wantErr error
	}{
		{name: "empty_parens", input: "()", want: 1},
		{name: "simple_args", input: "(a, b) rest", want: 5},
		{name: "nested_parens", input: "(a, (b, c)) x", want: 10},
		{name: "quoted_paren", input: `("(" , x)`, want: 8},
		{name: "quote_is_verbatim", input: `"a(b,c"`, want: 6},
		{name: "offset_start", input: "xx(y)", start: 2, want: 2},
		{name: "unclosed_paren", input: "(a, (b)", wantErr: ErrUnbalancedDelimiter},
		{name: "unclosed_quote", input: `(a, "b)`, wantErr: ErrUnbalancedDelimiter},
		{name: "not_a_delimiter", input: "abc", wantErr: ErrUnbalancedDelimiter},
		{name: "start_out_of_range", input: "()", start: 5, wantErr: ErrUnbalancedDelimiter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Matching(tt.input, tt.start)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "error should wrap %v, got %v", tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantArgs []string
		wantRest string
		wantErr  error
	}{
		{
			name:     "no_args",
			input:    "();",
			wantArgs: []string{""},
			wantRest: ";",
		},
		{
			name:     "blank_only",
			input:    "( )",
			wantArgs: []string{" "},
		},
		{
			name:     "two_args_keep_blanks",
			input:    "(x, y) + 1",
			wantArgs: []string{"x", " y"},
			wantRest: " + 1",
		},
		{
			name:     "nested_call_is_atomic",
			input:    "(f(a, b), c);",
			wantArgs: []string{"f(a, b)", " c"},
			wantRest: ";",
		},
		{
			name:     "quoted_comma_is_atomic",
			input:    `("a,b", c)`,
			wantArgs: []string{`"a,b"`, " c"},
		},
		{
			name:     "empty_args_between_commas",
			input:    "(,,)",
			wantArgs: []string{"", "", ""},
		},
		{
			name:    "unbalanced",
			input:   "(a, (b)",
			wantErr: ErrUnbalancedDelimiter,
		},
		{
			name:    "missing_open_paren",
			input:   "a, b)",
			wantErr: ErrUnbalancedDelimiter,
		},
		{
			name:    "empty_input",
			input:   "",
			wantErr: ErrUnbalancedDelimiter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, rest, err := SplitArgs(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "error should wrap %v, got %v", tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantArgs, args)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

// genBalanced builds properly nested argument text and returns it with the
// number of commas at nesting depth zero.
func genBalanced(rng *rand.Rand, depth int) (string, int) {
	var b strings.Builder
	commas := 0
	n := rng.Intn(8)
	for range n {
		switch pick := rng.Intn(6); {
		case pick == 0:
			b.WriteByte(',')
			if depth == 0 {
				commas++
			}
		case pick == 1 && depth < 4:
			inner, _ := genBalanced(rng, depth+1)
			b.WriteString("(" + inner + ")")
		case pick == 2:
			b.WriteString(`"` + strings.Repeat(",(", rng.Intn(3)) + `"`)
		default:
			b.WriteString(string(rune('a' + rng.Intn(26))))
		}
	}
	return b.String(), commas
}

func TestSplitArgsBalanceProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := range 500 {
		s, commas := genBalanced(rng, 0)

		args, rest, err := SplitArgs("(" + s + ")")
		require.NoError(t, err, "case %d: %q", i, s)
		assert.Len(t, args, commas+1, "case %d: %q", i, s)
		assert.Empty(t, rest, "case %d: %q", i, s)
		assert.Equal(t, s, strings.Join(args, ","), "case %d: args should reassemble the input", i)
	}
}
