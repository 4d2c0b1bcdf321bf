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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/glport/pkg/rewrite"
	"github.com/walteh/glport/pkg/rules"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// hclEvalContext exposes the rule kinds and the default marker as variables:
//
//	rule "swapbuffers" {
//	  kind = kind.call
//	  to   = "glXSwapBuffers(*display, window)"
//	}
func hclEvalContext() *hcl.EvalContext {
	kinds := map[string]cty.Value{}
	for _, k := range []rewrite.Kind{rewrite.KindNoArgCall, rewrite.KindArgCall, rewrite.KindTokenMacro, rewrite.KindDelete} {
		kinds[k.String()] = cty.StringVal(k.String())
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"kind":           cty.ObjectVal(kinds),
			"default_marker": cty.StringVal(rewrite.DefaultMarker),
		},
	}
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Define HCL schema
	type hclConfig struct {
		Comments   *bool  `hcl:"comments,optional"`
		Marker     string `hcl:"marker,optional"`
		KeepIndent bool   `hcl:"keep_indent,optional"`
		Debug      bool   `hcl:"debug,optional"`
		Workers    int    `hcl:"workers,optional"`
		Categories *struct {
			Windowing         *bool `hcl:"windowing,optional"`
			EventQueue        *bool `hcl:"event_queue,optional"`
			Lighting          *bool `hcl:"lighting,optional"`
			LightingEmulation *bool `hcl:"lighting_emulation,optional"`
		} `hcl:"categories,block"`
		Rules   []rules.Def `hcl:"rule,block"`
		Disable []string    `hcl:"disable,optional"`
		Files   *struct {
			Include   []string `hcl:"include,optional"`
			Ignore    []string `hcl:"ignore,optional"`
			OutputDir string   `hcl:"output_dir,optional"`
			Suffix    string   `hcl:"suffix,optional"`
		} `hcl:"files,block"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, hclEvalContext(), &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Comments:   hclCfg.Comments,
		Marker:     hclCfg.Marker,
		KeepIndent: hclCfg.KeepIndent,
		Debug:      hclCfg.Debug,
		Workers:    hclCfg.Workers,
		Rules:      hclCfg.Rules,
		Disable:    hclCfg.Disable,
	}

	if c := hclCfg.Categories; c != nil {
		cfg.Categories = Categories{
			Windowing:         c.Windowing,
			EventQueue:        c.EventQueue,
			Lighting:          c.Lighting,
			LightingEmulation: c.LightingEmulation,
		}
	}

	if f := hclCfg.Files; f != nil {
		cfg.Files = Files{
			Include:   f.Include,
			Ignore:    f.Ignore,
			OutputDir: f.OutputDir,
			Suffix:    f.Suffix,
		}
	}

	return cfg, nil
}
