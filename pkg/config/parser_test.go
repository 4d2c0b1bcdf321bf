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

package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/glport/pkg/rules"
)

// 🧪 TestParserRegistration tests the parser registration system
func TestParserRegistration(t *testing.T) {
	// Save original parsers
	originalParsers := parsers
	defer func() {
		parsers = originalParsers
	}()

	// Reset parsers
	parsers = nil

	// Create mock parser
	mockParser := &struct {
		Parser
		canParse bool
	}{
		canParse: true,
	}

	// Test registration
	Register(mockParser)
	assert.Len(t, parsers, 1, "should have 1 parser registered")
	assert.Equal(t, mockParser, parsers[0], "registered parser should match")
}

// 🧪 TestParserSelection tests parser selection by file extension
func TestParserSelection(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Parser
	}{
		{name: "yaml_file", filename: ".glport.yaml", want: &YAMLParser{}},
		{name: "yml_file", filename: "glport.yml", want: &YAMLParser{}},
		{name: "hcl_file", filename: "glport.hcl", want: &HCLParser{}},
		{name: "json_file", filename: "glport.JSON", want: &JSONParser{}},
		{name: "unknown_extension", filename: "glport.txt", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetParser(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got, "should not find a parser")
				return
			}
			assert.IsType(t, tt.want, got, "parser type should match")
		})
	}
}

// 🧪 TestHCLParsing tests HCL config parsing
func TestHCLParsing(t *testing.T) {
	tests := []struct {
		name        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "full_config",
			config: `
comments    = false
marker      = default_marker
keep_indent = true
workers     = 2
disable     = ["winopen", "qread"]

categories {
  windowing = false
  lighting  = false
}

rule "swapbuffers" {
  kind = kind.call
  to   = "glXSwapBuffers(dpy, win)"
  note = "swapbuffers: dpy and win come from setup"
}

rule "mycircle" {
  kind = "args"
  to   = "drawCircle($1, $2, $3)"
}

files {
  include    = ["src/**/*.c"]
  output_dir = "out"
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.CommentsEnabled())
				assert.Equal(t, "OGLXXX", cfg.Marker)
				assert.True(t, cfg.KeepIndent)
				assert.Equal(t, 2, cfg.Workers)
				assert.Equal(t, []string{"winopen", "qread"}, cfg.Disable)
				assert.Equal(t, []rules.Def{
					{Kind: "call", Name: "swapbuffers", To: "glXSwapBuffers(dpy, win)", Note: "swapbuffers: dpy and win come from setup"},
					{Kind: "args", Name: "mycircle", To: "drawCircle($1, $2, $3)"},
				}, cfg.Rules)
				assert.Equal(t, []string{"src/**/*.c"}, cfg.Files.Include)
				assert.Equal(t, "out", cfg.Files.OutputDir)

				opts := cfg.RuleOptions()
				assert.False(t, opts.Windowing)
				assert.True(t, opts.EventQueue)
				assert.False(t, opts.Lighting)
			},
		},
		{
			name:   "empty_config",
			config: ``,
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.CommentsEnabled())
				assert.Equal(t, 1, cfg.Workers)
			},
		},
		{
			name:        "invalid_syntax",
			config:      `comments = `,
			wantErr:     true,
			errContains: "parsing HCL",
		},
		{
			name:        "unknown_attribute",
			config:      `colour = true`,
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name: "rule_missing_kind",
			config: `
rule "x" {
  to = "y"
}
`,
			wantErr:     true,
			errContains: "decoding HCL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse(context.Background(), "glport.hcl", []byte(tt.config))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
