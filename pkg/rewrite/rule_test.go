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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestNewRule(t *testing.T) {
	tests := []struct {
		name      string
		kind      Kind
		rule      string
		template  string
		note      string
		wantNotes []string
		wantErr   bool
	}{
		{name: "simple_call", kind: KindNoArgCall, rule: "endline", template: "glEnd()"},
		{name: "notes_are_split", kind: KindArgCall, rule: "lookat", template: "gluLookAt($1)", note: "a#b", wantNotes: []string{"a", "b"}},
		{name: "token_may_be_empty", kind: KindTokenMacro, rule: "LMNULL"},
		{name: "empty_name", kind: KindNoArgCall, rule: "", wantErr: true},
		{name: "name_with_space", kind: KindNoArgCall, rule: "end line", wantErr: true},
		{name: "name_with_regex_chars", kind: KindNoArgCall, rule: "a.b", wantErr: true},
		{name: "unknown_kind", kind: Kind(42), rule: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRule(tt.kind, tt.rule, tt.template, tt.note)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rule, r.Name)
			assert.Equal(t, tt.kind, r.Kind)
			assert.Equal(t, tt.template, r.Template)
			assert.Equal(t, tt.wantNotes, r.Notes)
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindNoArgCall, KindArgCall, KindTokenMacro, KindDelete} {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := ParseKind(" Define ")
	require.NoError(t, err)
	assert.Equal(t, KindTokenMacro, got)

	_, err = ParseKind("macro")
	assert.Error(t, err)
}

func TestRuleMatch(t *testing.T) {
	tests := []struct {
		name    string
		rule    *Rule
		line    string
		want    *Captures
		wantErr error
	}{
		{
			name: "call_with_blanks_before_paren",
			rule: MustRule(KindNoArgCall, "endline", "glEnd()", ""),
			line: " endline \t();",
			want: &Captures{Prefix: " ", Name: "endline \t", Args: []string{""}, Suffix: ";"},
		},
		{
			name: "right_most_occurrence_first",
			rule: MustRule(KindNoArgCall, "endline", "glEnd()", ""),
			line: " endline(); endline(1);",
			want: &Captures{Prefix: " endline(); ", Name: "endline", Args: []string{"1"}, Suffix: ";"},
		},
		{
			name: "longer_name_does_not_match_shorter_rule",
			rule: MustRule(KindArgCall, "v2f", "glVertex2fv($1)", ""),
			line: " v2fv(p)",
		},
		{
			name: "identifier_prefix_blocks_match",
			rule: MustRule(KindNoArgCall, "endline", "glEnd()", ""),
			line: " myendline();",
		},
		{
			name: "call_needs_parens",
			rule: MustRule(KindNoArgCall, "endline", "glEnd()", ""),
			line: " endline;",
		},
		{
			name: "empty_line",
			rule: MustRule(KindNoArgCall, "endline", "glEnd()", ""),
			line: "",
		},
		{
			name: "name_absent",
			rule: MustRule(KindNoArgCall, "endline", "glEnd()", ""),
			line: " glEnd();",
		},
		{
			name: "start_of_line_is_not_matched",
			rule: MustRule(KindNoArgCall, "endline", "glEnd()", ""),
			line: "endline();",
		},
		{
			name: "token_macro",
			rule: MustRule(KindTokenMacro, "LMNULL", "", ""),
			line: "x = LMNULL;",
			want: &Captures{Prefix: "x = ", Name: "LMNULL", Suffix: ";"},
		},
		{
			name: "token_at_end_of_line_is_not_matched",
			rule: MustRule(KindTokenMacro, "LMNULL", "", ""),
			line: "x = LMNULL",
		},
		{
			name:    "unbalanced_argument_list",
			rule:    MustRule(KindArgCall, "v2f", "glVertex2fv($1)", ""),
			line:    " v2f((p);",
			wantErr: ErrUnbalancedDelimiter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.rule.Match(tt.line)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "error should wrap %v, got %v", tt.wantErr, err)
				assert.Equal(t, tt.rule.Name, RuleName(err))
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRuleMatchBefore(t *testing.T) {
	r := MustRule(KindNoArgCall, "endline", "glEnd()", "")
	line := " endline(); endline();"

	c, err := r.MatchBefore(line, len(line))
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, " endline(); ", c.Prefix)

	c, err = r.MatchBefore(line, len(" endline(); "))
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, " ", c.Prefix, "bound should exclude the occurrence starting at the bound")
	assert.Equal(t, " endline(); endline();", c.Prefix+c.Name+"()"+c.Suffix)

	c, err = r.MatchBefore(line, 1)
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = r.MatchBefore(line, 0)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestRuleReplace(t *testing.T) {
	tests := []struct {
		name      string
		rule      *Rule
		line      string
		want      string
		wantNotes []string
		wantErr   error
	}{
		{
			name: "no_arg_call_drops_arguments",
			rule: MustRule(KindNoArgCall, "bgnpolygon", "glBegin(GL_POLYGON)", "a#b"),
			line: " bgnpolygon( junk );",
			want: " glBegin(GL_POLYGON);",
			wantNotes: []string{
				"a", "b",
			},
		},
		{
			name: "arg_call_substitutes",
			rule: MustRule(KindArgCall, "v2f", "glVertex2fv($1)", ""),
			line: " v2f(pts[i]);",
			want: " glVertex2fv(pts[i]);",
		},
		{
			name: "token_macro",
			rule: MustRule(KindTokenMacro, "LMNULL", "0", ""),
			line: "a = LMNULL;",
			want: "a = 0;",
		},
		{
			name:      "delete_keeps_call_as_note",
			rule:      MustRule(KindDelete, "blanktime", "ignored", "blanktime not supported"),
			line:      " blanktime(0, 1);",
			want:      " /*DELETED*/;",
			wantNotes: []string{"blanktime not supported", "blanktime(0, 1)"},
		},
		{
			name:      "delete_keeps_blanks_before_paren",
			rule:      MustRule(KindDelete, "winopen", "", "winopen not supported"),
			line:      ` w = winopen ("demo");`,
			want:      " w = /*DELETED*/;",
			wantNotes: []string{"winopen not supported", `winopen ("demo")`},
		},
		{
			name:    "missing_argument_is_best_effort",
			rule:    MustRule(KindArgCall, "rect", "glRectf($1, $2, $3, $4)", ""),
			line:    " rect(a, b);",
			want:    " glRectf(a,  b, $3, $4);",
			wantErr: ErrMissingArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.rule.Match(tt.line)
			require.NoError(t, err)
			require.NotNil(t, c)

			got, notes, err := tt.rule.Replace(c)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "error should wrap %v, got %v", tt.wantErr, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantNotes, notes)
		})
	}
}

func TestRuleReplaceWithoutMatch(t *testing.T) {
	r := MustRule(KindNoArgCall, "endline", "glEnd()", "")
	_, _, err := r.Replace(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedMatch))
}

func TestRuleNotesAreCopied(t *testing.T) {
	r := MustRule(KindDelete, "blanktime", "", "one")
	c, err := r.Match(" blanktime(1);")
	require.NoError(t, err)

	_, notes, err := r.Replace(c)
	require.NoError(t, err)
	notes[0] = "changed"

	assert.Equal(t, []string{"one"}, r.Notes)
}
