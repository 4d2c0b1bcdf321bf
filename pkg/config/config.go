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
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/glport/pkg/rewrite"
	"github.com/walteh/glport/pkg/rules"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse decodes the config from bytes; validation happens in the caller
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// DefaultInclude matches C and C++ sources when no include patterns are set.
var DefaultInclude = []string{"**/*.{c,h,cc,cpp,c++,cxx,hpp}"}

// 🧩 Categories toggle the optional rule tables. Unset values take the
// defaults of rules.DefaultOptions.
type Categories struct {
	Windowing         *bool `json:"windowing,omitempty" yaml:"windowing,omitempty"`
	EventQueue        *bool `json:"event_queue,omitempty" yaml:"event_queue,omitempty"`
	Lighting          *bool `json:"lighting,omitempty" yaml:"lighting,omitempty"`
	LightingEmulation *bool `json:"lighting_emulation,omitempty" yaml:"lighting_emulation,omitempty"`
}

// 📁 Files are the batch runner defaults
type Files struct {
	Include   []string `json:"include,omitempty" yaml:"include,omitempty"`     // Glob patterns of files to rewrite
	Ignore    []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`       // Glob patterns of files to skip
	OutputDir string   `json:"output_dir,omitempty" yaml:"output_dir,omitempty"` // Empty means rewrite in place
	Suffix    string   `json:"suffix,omitempty" yaml:"suffix,omitempty"`       // Appended to output file names
}

// 📚 Config represents the complete configuration
type Config struct {
	Comments   *bool       `json:"comments,omitempty" yaml:"comments,omitempty"`
	Marker     string      `json:"marker,omitempty" yaml:"marker,omitempty"`
	KeepIndent bool        `json:"keep_indent,omitempty" yaml:"keep_indent,omitempty"`
	Debug      bool        `json:"debug,omitempty" yaml:"debug,omitempty"`
	Workers    int         `json:"workers,omitempty" yaml:"workers,omitempty"`
	Categories Categories  `json:"categories,omitempty" yaml:"categories,omitempty"`
	Rules      []rules.Def `json:"rules,omitempty" yaml:"rules,omitempty"`
	Disable    []string    `json:"disable,omitempty" yaml:"disable,omitempty"`
	Files      Files       `json:"files,omitempty" yaml:"files,omitempty"`

	location string
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	// an empty config always validates
	_ = cfg.Validate()
	return cfg
}

func boolPtr(b bool) *bool {
	return &b
}

// 🔍 Validate fills in defaults and checks the configuration
func (cfg *Config) Validate() error {
	if cfg.Comments == nil {
		cfg.Comments = boolPtr(true)
	}
	if cfg.Marker == "" {
		cfg.Marker = rewrite.DefaultMarker
	}
	if strings.Contains(cfg.Marker, "*/") {
		return errors.Errorf("marker %q would close the comment block", cfg.Marker)
	}

	if cfg.Workers < 0 {
		return errors.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}

	defaults := rules.DefaultOptions()
	c := &cfg.Categories
	if c.Windowing == nil {
		c.Windowing = boolPtr(defaults.Windowing)
	}
	if c.EventQueue == nil {
		c.EventQueue = boolPtr(defaults.EventQueue)
	}
	if c.LightingEmulation == nil {
		c.LightingEmulation = boolPtr(defaults.LightingEmulation)
	}
	if c.Lighting == nil || *c.LightingEmulation {
		c.Lighting = boolPtr(defaults.Lighting && !*c.LightingEmulation)
	}

	for i, d := range cfg.Rules {
		if _, err := d.Rule(rules.CategoryUser); err != nil {
			return errors.Errorf("rules[%d]: %w", i, err)
		}
	}

	for i, name := range cfg.Disable {
		if strings.TrimSpace(name) == "" {
			return errors.Errorf("disable[%d] is empty", i)
		}
	}

	if len(cfg.Files.Include) == 0 {
		cfg.Files.Include = slices.Clone(DefaultInclude)
	}
	for _, pat := range append(append([]string{}, cfg.Files.Include...), cfg.Files.Ignore...) {
		if !doublestar.ValidatePattern(pat) {
			return errors.Errorf("invalid glob pattern %q", pat)
		}
	}
	if cfg.Files.OutputDir != "" {
		cfg.Files.OutputDir = filepath.Clean(cfg.Files.OutputDir)
	}

	return nil
}

// CommentsEnabled reports whether notes are written as comment blocks.
func (cfg *Config) CommentsEnabled() bool {
	return cfg.Comments == nil || *cfg.Comments
}

// ⚙️ RuleOptions converts the rule related settings for rules.Load.
func (cfg *Config) RuleOptions() rules.Options {
	opts := rules.DefaultOptions()
	c := cfg.Categories
	if c.Windowing != nil {
		opts.Windowing = *c.Windowing
	}
	if c.EventQueue != nil {
		opts.EventQueue = *c.EventQueue
	}
	if c.Lighting != nil {
		opts.Lighting = *c.Lighting
	}
	if c.LightingEmulation != nil {
		opts.LightingEmulation = *c.LightingEmulation
	}
	opts.User = cfg.Rules
	opts.Disable = cfg.Disable
	return opts
}

// Location is the file the config was loaded from, or "" for defaults.
func (cfg *Config) Location() string {
	return cfg.location
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	loc := cfg.location
	if loc == "" {
		loc = "defaults"
	}
	opts := cfg.RuleOptions()
	return fmt.Sprintf("%s: comments=%t windowing=%t event_queue=%t lighting=%t emulation=%t rules=%d disable=%d",
		loc, cfg.CommentsEnabled(), opts.Windowing, opts.EventQueue, opts.Lighting, opts.LightingEmulation,
		len(cfg.Rules), len(cfg.Disable))
}
