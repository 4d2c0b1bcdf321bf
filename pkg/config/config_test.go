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
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/glport/pkg/rules"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid_config",
			config: `
comments: false
marker: PORTME
keep_indent: true
workers: 4
categories:
  windowing: false
  event_queue: true
rules:
  - kind: args
    name: mycircle
    to: "drawCircle($1, $2, $3)"
    note: "mycircle: check radius units"
disable:
  - winopen
files:
  include:
    - "src/**/*.c"
  ignore:
    - "**/vendor/**"
  output_dir: out
  suffix: .gl
`,
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.CommentsEnabled(), "comments should be off")
				assert.Equal(t, "PORTME", cfg.Marker, "marker should match")
				assert.True(t, cfg.KeepIndent, "keep_indent should be true")
				assert.Equal(t, 4, cfg.Workers, "workers should match")
				require.Len(t, cfg.Rules, 1, "should have 1 user rule")
				assert.Equal(t, rules.Def{Kind: "args", Name: "mycircle", To: "drawCircle($1, $2, $3)", Note: "mycircle: check radius units"}, cfg.Rules[0])
				assert.Equal(t, []string{"winopen"}, cfg.Disable, "disable should match")
				assert.Equal(t, []string{"src/**/*.c"}, cfg.Files.Include, "include should match")
				assert.Equal(t, []string{"**/vendor/**"}, cfg.Files.Ignore, "ignore should match")
				assert.Equal(t, "out", cfg.Files.OutputDir, "output_dir should match")
				assert.Equal(t, ".gl", cfg.Files.Suffix, "suffix should match")

				opts := cfg.RuleOptions()
				assert.False(t, opts.Windowing, "windowing should be off")
				assert.True(t, opts.EventQueue, "event queue should be on")
				assert.True(t, opts.Lighting, "lighting should default to on")
				assert.False(t, opts.LightingEmulation, "emulation should default to off")
			},
		},
		{
			name:   "empty_config",
			config: ``,
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.CommentsEnabled(), "comments should default to on")
				assert.Equal(t, "OGLXXX", cfg.Marker, "marker should have default value")
				assert.Equal(t, 1, cfg.Workers, "workers should default to 1")
				assert.Equal(t, DefaultInclude, cfg.Files.Include, "include should have default value")
				assert.Equal(t, rules.DefaultOptions(), cfg.RuleOptions())
			},
		},
		{
			name: "emulation_turns_lighting_off",
			config: `
categories:
  lighting: true
  lighting_emulation: true
`,
			check: func(t *testing.T, cfg *Config) {
				opts := cfg.RuleOptions()
				assert.False(t, opts.Lighting, "lighting should be forced off")
				assert.True(t, opts.LightingEmulation, "emulation should be on")
			},
		},
		{
			name:        "unknown_field",
			config:      "comment: true\n",
			wantErr:     true,
			errContains: "field comment not found",
		},
		{
			name:        "negative_workers",
			config:      "workers: -2\n",
			wantErr:     true,
			errContains: "workers must be at least 1",
		},
		{
			name: "bad_rule_kind",
			config: `
rules:
  - kind: macro
    name: x
`,
			wantErr:     true,
			errContains: "unknown rule kind",
		},
		{
			name: "bad_rule_name",
			config: `
rules:
  - kind: call
    name: "two words"
    to: x()
`,
			wantErr:     true,
			errContains: "is not an identifier",
		},
		{
			name:        "bad_glob",
			config:      "files:\n  include:\n    - \"src/[\"\n",
			wantErr:     true,
			errContains: "invalid glob pattern",
		},
		{
			name:        "marker_closes_comment",
			config:      "marker: \"X */\"\n",
			wantErr:     true,
			errContains: "would close the comment block",
		},
	}

	ctx := zerolog.New(os.Stderr).WithContext(context.Background())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create temporary config file
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "glport.yaml")
			err := os.WriteFile(configPath, []byte(tt.config), 0644)
			require.NoError(t, err, "writing config file should succeed")

			// Load config
			cfg, err := Load(ctx, configPath)
			if tt.wantErr {
				require.Error(t, err, "Load should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}

			require.NoError(t, err, "Load should succeed")
			assert.Equal(t, configPath, cfg.Location(), "location should be recorded")
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load(context.Background(), "")
	require.NoError(t, err, "missing default file should not be an error")
	assert.Equal(t, "", cfg.Location(), "defaults have no location")
	assert.True(t, cfg.CommentsEnabled())

	require.NoError(t, os.WriteFile(DefaultPath, []byte("comments: false\n"), 0644))
	cfg, err = Load(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultPath, cfg.Location())
	assert.False(t, cfg.CommentsEnabled())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestConfigString(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
		want string
	}{
		{
			name: "defaults",
			cfg:  Default(),
			want: "defaults: comments=true windowing=true event_queue=true lighting=true emulation=false rules=0 disable=0",
		},
		{
			name: "loaded",
			cfg: func() *Config {
				cfg := &Config{Comments: boolPtr(false), Disable: []string{"qread"}, location: ".glport.yaml"}
				require.NoError(t, cfg.Validate())
				return cfg
			}(),
			want: ".glport.yaml: comments=false windowing=true event_queue=true lighting=true emulation=false rules=0 disable=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.String()
			assert.Equal(t, tt.want, got, "String() should match")
		})
	}
}
