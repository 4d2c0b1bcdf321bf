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

/*
Package config manages configuration parsing and validation for glport.

	                 +-------------+
	                 |   Config    |
	                 | (Settings)  |
	                 +------+------+
	                        |
	      +-----------------+-----------------+
	      |                 |                 |
	+-----+-----+     +-----+-----+     +-----+-----+
	|   YAML    |     |   HCL     |     |   JSON    |
	|  Parser   |     |  Parser   |     |  Parser   |
	+-----------+     +-----------+     +-----------+

🎯 Purpose:
- Loads .glport.yaml (or an explicitly named .yaml, .hcl or .json file)
- Fills in defaults and validates values
- Converts rule settings into rules.Options for the registry

🔄 Flow:
1. Load picks the parser registered for the file extension
2. The parser decodes strictly; unknown fields are errors
3. Validate fills defaults: comments on, marker OGLXXX, one worker
4. Lighting emulation forces the lighting table off

📝 Schema (YAML):

	comments: true
	marker: OGLXXX
	keep_indent: false
	workers: 1
	categories:
	  windowing: true
	  event_queue: true
	  lighting: true
	  lighting_emulation: false
	rules:
	  - kind: args            # call | args | token | delete
	    name: mycircle
	    to: "drawCircle($1, $2, $3)"
	    note: "first note#second note"
	disable:
	  - winopen
	files:
	  include: ["src/*.c", "lib/**"]
	  ignore: ["lib/vendor/**"]
	  output_dir: out
	  suffix: ""

In HCL every rule is a labeled block and the kinds are available as
kind.call, kind.args, kind.token and kind.delete:

	rule "mycircle" {
	  kind = kind.args
	  to   = "drawCircle($1, $2, $3)"
	}

🔍 Example:

	cfg, err := config.Load(ctx, "")
	if err != nil {
		return err
	}
	reg, err := rules.NewRegistry(ctx, cfg.RuleOptions())
*/
package config
