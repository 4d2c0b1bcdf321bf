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
Package batch rewrites many source files with one rewrite.Rewriter.

🎯 Purpose:
- Finds sources under a root with doublestar include and ignore patterns
- Rewrites each file, in place or into an output directory
- Reports one console line per file through pkg/log
- Previews changes as line diffs instead of writing (dry run)

🔄 Flow:
1. Discover matches the include patterns and drops ignored paths
2. Run rewrites the files concurrently, bounded by Options.Workers
3. Each output is compared with what is on disk to get its FileStatus
4. Changed outputs are written atomically (temp file, then rename)
5. Results are logged in discovery order

🔍 Example:

	runner := batch.NewRunner(rw, batch.Options{
		Root:    "src",
		Include: []string{"*.c", "gl/*.c"},
		DryRun:  true,
	}, logger)
	summary, err := runner.Run(ctx)
*/
package batch
