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
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Kind selects how a rule recognizes and rewrites its name.
type Kind int

const (
	// KindNoArgCall rewrites name(...) to the template and drops the arguments.
	KindNoArgCall Kind = iota
	// KindArgCall rewrites name(...) to the template with $N placeholders filled.
	KindArgCall
	// KindTokenMacro rewrites a bare identifier, no parentheses required.
	KindTokenMacro
	// KindDelete replaces name(...) with a marker and keeps the call as a note.
	KindDelete
)

const (
	// NoteSeparator splits one annotation string into several notes.
	NoteSeparator = "#"

	// DeletedMarker takes the place of a deleted call.
	DeletedMarker = "/*DELETED*/"
)

func (k Kind) String() string {
	switch k {
	case KindNoArgCall:
		return "call"
	case KindArgCall:
		return "args"
	case KindTokenMacro:
		return "token"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "simple":
		return KindNoArgCall, nil
	case "args":
		return KindArgCall, nil
	case "token", "define":
		return KindTokenMacro, nil
	case "delete":
		return KindDelete, nil
	default:
		return 0, errors.Errorf("unknown rule kind %q", s)
	}
}

// IsCall reports whether the kind expects a parenthesized argument list.
func (k Kind) IsCall() bool {
	return k != KindTokenMacro
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Rule binds one old API name to its replacement.
type Rule struct {
	Name     string
	Kind     Kind
	Template string
	Notes    []string
	Category string

	// tail matches from the start of the name to the end of the line.
	tail *regexp.Regexp
}

// Captures is the structural split of a line around one occurrence of a rule
// name.
type Captures struct {
	Prefix string   // text before the name, ends with a non-identifier character
	Name   string   // the name, with trailing blanks for call rules
	Args   []string // top-level arguments, call rules only
	Suffix string   // text after the closing ')' (or after the token)
}

// SplitNotes splits an annotation string on NoteSeparator. An empty string
// yields no notes.
func SplitNotes(note string) []string {
	if note == "" {
		return nil
	}
	return strings.Split(note, NoteSeparator)
}

// NewRule builds a rule. The name must be a plain identifier. The template is
// ignored for KindDelete.
func NewRule(kind Kind, name, template, note string) (*Rule, error) {
	if name == "" {
		return nil, errors.New("rule name is empty")
	}
	if !identifierRe.MatchString(name) {
		return nil, errors.Errorf("rule name %q is not an identifier", name)
	}

	var expr string
	switch kind {
	case KindNoArgCall, KindArgCall, KindDelete:
		expr = `^(` + regexp.QuoteMeta(name) + `[ \t]*)(\(.*)$`
	case KindTokenMacro:
		expr = `^(` + regexp.QuoteMeta(name) + `)([^a-zA-Z_0-9]+.*)$`
	default:
		return nil, errors.Errorf("rule %q: unknown kind %d", name, int(kind))
	}

	tail, err := regexp.Compile(`(?s)` + expr)
	if err != nil {
		return nil, errors.Errorf("compiling pattern for %q: %w", name, err)
	}

	if kind == KindDelete {
		template = ""
	}

	return &Rule{
		Name:     name,
		Kind:     kind,
		Template: template,
		Notes:    SplitNotes(note),
		tail:     tail,
	}, nil
}

// MustRule is NewRule for static tables; it panics on error.
func MustRule(kind Kind, name, template, note string) *Rule {
	r, err := NewRule(kind, name, template, note)
	if err != nil {
		panic(err)
	}
	return r
}

// BucketKey is the registry bucket the rule lives in.
func (r *Rule) BucketKey() int {
	return BucketKey(r.Name)
}

func (r *Rule) String() string {
	return r.Kind.String() + " " + r.Name
}

// Match finds the right-most occurrence of the rule's name in line that has a
// non-identifier character before it and the shape the kind expects after it.
// It returns nil when there is no such occurrence.
//
// An occurrence at offset 0 never matches, see the package documentation.
func (r *Rule) Match(line string) (*Captures, error) {
	return r.MatchBefore(line, len(line))
}

// MatchBefore is Match restricted to occurrences that start before bound. The
// argument list and suffix may extend past bound.
func (r *Rule) MatchBefore(line string, bound int) (*Captures, error) {
	if line == "" || !strings.Contains(line, r.Name) {
		return nil, nil
	}
	if bound > len(line) {
		bound = len(line)
	}

	end := min(len(line), bound-1+len(r.Name))
	for end >= len(r.Name) {
		at := strings.LastIndex(line[:end], r.Name)
		if at < 0 {
			return nil, nil
		}
		end = at + len(r.Name) - 1

		if at == 0 || isIdentByte(line[at-1]) {
			continue
		}

		groups := r.tail.FindStringSubmatch(line[at:])
		if groups == nil {
			continue
		}
		if len(groups) != 3 {
			return nil, &ruleError{rule: r.Name, err: errors.Errorf("%d capture groups at offset %d: %w", len(groups), at, ErrMalformedMatch)}
		}

		c := &Captures{
			Prefix: line[:at],
			Name:   groups[1],
			Suffix: groups[2],
		}

		if r.Kind.IsCall() {
			args, rest, err := SplitArgs(groups[2])
			if err != nil {
				return nil, &ruleError{rule: r.Name, err: err}
			}
			c.Args = args
			c.Suffix = rest
		}

		return c, nil
	}

	return nil, nil
}

// Replace builds the rewritten line from c and returns it with the notes the
// rule attaches to the rewrite.
//
// For KindArgCall a missing argument yields ErrMissingArgument together with a
// best-effort line.
func (r *Rule) Replace(c *Captures) (string, []string, error) {
	if c == nil {
		return "", nil, &ruleError{rule: r.Name, err: errors.Errorf("replacing without a match: %w", ErrMalformedMatch)}
	}

	notes := append([]string(nil), r.Notes...)

	switch r.Kind {
	case KindNoArgCall, KindTokenMacro:
		return c.Prefix + r.Template + c.Suffix, notes, nil
	case KindArgCall:
		body, err := Substitute(r.Template, c.Args)
		if err != nil {
			err = &ruleError{rule: r.Name, err: err}
		}
		return c.Prefix + body + c.Suffix, notes, err
	case KindDelete:
		notes = append(notes, c.Name+"("+strings.Join(c.Args, ",")+")")
		return c.Prefix + DeletedMarker + c.Suffix, notes, nil
	default:
		return "", nil, &ruleError{rule: r.Name, err: errors.Errorf("unknown kind %d: %w", int(r.Kind), ErrMalformedMatch)}
	}
}

func isIdentByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
