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

package rules

import (
	"bytes"
	"context"
	"embed"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/walteh/glport/pkg/rewrite"
)

// 📚 Rule categories
const (
	CategoryCore              = "core"
	CategoryWindowing         = "windowing"
	CategoryEventQueue        = "event_queue"
	CategoryLighting          = "lighting"
	CategoryLightingEmulation = "lighting_emulation"
	CategoryUser              = "user"
)

//go:embed tables/*.yaml
var tablesFS embed.FS

// tableFiles is the registration order of the built-in tables.
var tableFiles = []string{
	"calls",
	"deletes",
	"args",
	"tokens",
	"windowing",
	"event_queue",
	"lighting",
	"lighting_emulation",
}

// 📝 Def is the serialized form of one rule, shared by the embedded tables and
// the config file formats.
type Def struct {
	Kind string `json:"kind" yaml:"kind" hcl:"kind"`
	Name string `json:"name" yaml:"name" hcl:"name,label"`
	To   string `json:"to,omitempty" yaml:"to,omitempty" hcl:"to,optional"`
	Note string `json:"note,omitempty" yaml:"note,omitempty" hcl:"note,optional"`
}

// 🔧 Rule compiles the definition into an engine rule tagged with category.
func (d Def) Rule(category string) (*rewrite.Rule, error) {
	kind, err := rewrite.ParseKind(d.Kind)
	if err != nil {
		return nil, errors.Errorf("rule %q: %w", d.Name, err)
	}

	r, err := rewrite.NewRule(kind, d.Name, d.To, d.Note)
	if err != nil {
		return nil, errors.Errorf("building rule: %w", err)
	}
	r.Category = category

	return r, nil
}

// 📦 Table is one embedded rule file.
type Table struct {
	Category string `yaml:"category"`
	Rules    []Def  `yaml:"rules"`
}

var loadTables = sync.OnceValues(func() ([]Table, error) {
	tables := make([]Table, 0, len(tableFiles))
	for _, name := range tableFiles {
		data, err := tablesFS.ReadFile("tables/" + name + ".yaml")
		if err != nil {
			return nil, errors.Errorf("reading table %s: %w", name, err)
		}

		var t Table
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&t); err != nil {
			return nil, errors.Errorf("parsing table %s: %w", name, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
})

// 🗂️ Tables returns the built-in tables in registration order.
func Tables() ([]Table, error) {
	return loadTables()
}

// ⚙️ Options gate the optional tables and carry user additions.
type Options struct {
	Windowing         bool
	EventQueue        bool
	Lighting          bool
	LightingEmulation bool // implies Lighting off

	User    []Def    // registered after the built-in tables
	Disable []string // names removed after everything is registered
}

// DefaultOptions loads every table except lighting emulation.
func DefaultOptions() Options {
	return Options{
		Windowing:  true,
		EventQueue: true,
		Lighting:   true,
	}
}

func (o Options) enabled(category string) bool {
	switch category {
	case CategoryCore:
		return true
	case CategoryWindowing:
		return o.Windowing
	case CategoryEventQueue:
		return o.EventQueue
	case CategoryLighting:
		return o.Lighting && !o.LightingEmulation
	case CategoryLightingEmulation:
		return o.LightingEmulation
	default:
		return false
	}
}

// 🎯 Load registers the enabled tables, then the user rules, then removes the
// disabled names. It returns the number of rules left in reg.
func Load(ctx context.Context, reg *rewrite.Registry, opts Options) (int, error) {
	logger := zerolog.Ctx(ctx)

	tables, err := Tables()
	if err != nil {
		return 0, err
	}

	for _, t := range tables {
		if !opts.enabled(t.Category) {
			logger.Debug().Str("category", t.Category).Msg("skipping rule table")
			continue
		}
		for _, d := range t.Rules {
			r, err := d.Rule(t.Category)
			if err != nil {
				return 0, errors.Errorf("loading %s table: %w", t.Category, err)
			}
			reg.Register(r)
		}
		logger.Debug().Str("category", t.Category).Int("rules", len(t.Rules)).Msg("loaded rule table")
	}

	for _, d := range opts.User {
		r, err := d.Rule(CategoryUser)
		if err != nil {
			return 0, errors.Errorf("loading user rules: %w", err)
		}
		reg.Register(r)
	}

	for _, name := range opts.Disable {
		handles := reg.Lookup(name)
		if len(handles) == 0 {
			return 0, errors.Errorf("disabling %q: no such rule", name)
		}
		for _, h := range handles {
			if err := reg.Unregister(h); err != nil {
				return 0, errors.Errorf("disabling %q: %w", name, err)
			}
		}
	}

	return reg.Len(), nil
}

// 🏗️ NewRegistry builds a registry loaded with opts.
func NewRegistry(ctx context.Context, opts Options) (*rewrite.Registry, error) {
	reg := rewrite.NewRegistry()
	if _, err := Load(ctx, reg, opts); err != nil {
		return nil, err
	}
	return reg, nil
}
