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
)

func TestAnnotationsRender(t *testing.T) {
	tests := []struct {
		name   string
		marker string
		notes  []string
		want   string
	}{
		{
			name:   "no_notes",
			marker: DefaultMarker,
			want:   "",
		},
		{
			name:   "single_note",
			marker: DefaultMarker,
			notes:  []string{"swapbuffers: replace display and window"},
			want:   "\t/* OGLXXX swapbuffers: replace display and window */\n",
		},
		{
			name:   "several_notes",
			marker: DefaultMarker,
			notes:  []string{"first", "second"},
			want:   "\t/* OGLXXX\n\t * first\n\t * second\n\t */\n",
		},
		{
			name:   "custom_marker",
			marker: "PORTME",
			notes:  []string{"check this"},
			want:   "\t/* PORTME check this */\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Annotations
			a.Add(tt.notes...)
			assert.Equal(t, tt.want, a.Render(tt.marker))
		})
	}
}

func TestAnnotationsReset(t *testing.T) {
	var a Annotations
	a.Add("one", "two")
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, []string{"one", "two"}, a.Notes())

	a.Reset()
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, "", a.Render(DefaultMarker))

	a.Add("three")
	assert.Equal(t, []string{"three"}, a.Notes())
}
