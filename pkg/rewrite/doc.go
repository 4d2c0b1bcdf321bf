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
Package rewrite is the line rewriting engine behind glport.

	        +-----------+      +-----------+
	line -> | Processor | ---> | Registry  |  buckets keyed by name length
	        +-----+-----+      +-----+-----+
	              |                  |
	              |            +-----+-----+
	              +----------> |   Rule    |  call / args / token / delete
	                           +-----+-----+
	                                 |
	                   +-------------+-------------+
	                   |                           |
	             +-----+------+             +------+------+
	             | SplitArgs  |             | Substitute  |
	             +------------+             +-------------+

🎯 Purpose:
  - Recognize calls of registered IRIS GL names inside raw source lines
  - Split their argument lists (nested parens and quoted strings are atomic)
  - Instantiate OpenGL replacement templates with the arguments ($1..$9, $a..$f)
  - Collect notes for the user as a comment block above the rewritten line

🔄 Flow:
 1. The Registry rejects every bucket whose names do not occur in the line
 2. Each rule of a surviving bucket is applied until it stops matching
 3. Replacements always happen left of the previous one, so the loop ends
 4. The Rewriter writes the notes and the line, and records line errors

⚠️ Boundary:
A call is only recognized when a non-identifier character precedes it. The
Processor pads every line with one blank on each side so calls at the very
start of a line are rewritten; Rule.Match on a raw line does not do this.

🔍 Example:

	reg := rewrite.NewRegistry()
	rule, _ := rewrite.NewRule(rewrite.KindNoArgCall, "endline", "glEnd()", "")
	reg.Register(rule)

	res := rewrite.NewProcessor(reg).ProcessLine(ctx, "endline(); endline();")
	fmt.Println(res.Text) // glEnd(); glEnd();
*/
package rewrite
