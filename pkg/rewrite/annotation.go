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
)

// DefaultMarker tags every generated comment so users can grep for them.
const DefaultMarker = "OGLXXX"

// Annotations collects the notes produced while one line is rewritten.
type Annotations struct {
	notes []string
}

func (a *Annotations) Add(notes ...string) {
	a.notes = append(a.notes, notes...)
}

func (a *Annotations) Len() int {
	return len(a.notes)
}

func (a *Annotations) Notes() []string {
	return a.notes
}

func (a *Annotations) Reset() {
	a.notes = a.notes[:0]
}

// Render formats the notes as the C comment block written above a rewritten
// line. A single note fits on one line:
//
//	/* OGLXXX note */
//
// Several notes become a bulleted block:
//
//	/* OGLXXX
//	 * first
//	 * second
//	 */
//
// Every line is indented with a tab and ends with a newline. Render returns ""
// when there are no notes.
func (a *Annotations) Render(marker string) string {
	return RenderNotes(marker, a.notes)
}

// RenderNotes is Annotations.Render for a plain slice.
func RenderNotes(marker string, notes []string) string {
	switch len(notes) {
	case 0:
		return ""
	case 1:
		return "\t/* " + marker + " " + notes[0] + " */\n"
	}

	var b strings.Builder
	b.WriteString("\t/* " + marker + "\n")
	for _, n := range notes {
		b.WriteString("\t * " + n + "\n")
	}
	b.WriteString("\t */\n")
	return b.String()
}
