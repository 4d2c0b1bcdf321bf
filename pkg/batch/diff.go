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

package batch

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffContext is the number of unchanged lines shown around each change.
const DiffContext = 2

type diffLine struct {
	op   byte // ' ', '-' or '+'
	text string
	old  int // line number in before; for inserts, the line that follows
	keep bool
}

// 📝 Diff renders the line changes from before to after. Each hunk starts
// with "@@ line N @@", N being the first shown line of before. The result is
// empty when nothing changed.
func Diff(name, before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var flat []diffLine
	old := 1
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				flat = append(flat, diffLine{op: ' ', text: text, old: old})
				old++
			case diffmatchpatch.DiffDelete:
				flat = append(flat, diffLine{op: '-', text: text, old: old, keep: true})
				old++
			case diffmatchpatch.DiffInsert:
				flat = append(flat, diffLine{op: '+', text: text, old: old, keep: true})
			}
		}
	}

	// unchanged lines close to a change are kept as context
	for i := range flat {
		if flat[i].op == ' ' {
			continue
		}
		for j := max(0, i-DiffContext); j <= min(len(flat)-1, i+DiffContext); j++ {
			flat[j].keep = true
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s\n", name, name)
	for i, l := range flat {
		if !l.keep {
			continue
		}
		if i == 0 || !flat[i-1].keep {
			fmt.Fprintf(&sb, "@@ line %d @@\n", l.old)
		}
		sb.WriteByte(l.op)
		sb.WriteString(l.text)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// splitLines splits text after every newline and drops the terminators.
func splitLines(text string) []string {
	parts := strings.SplitAfter(text, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\n")
	}
	return parts
}
