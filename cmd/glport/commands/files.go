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

package commands

import (
	"slices"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/glport/cmd/glport/opts"
	"github.com/walteh/glport/pkg/batch"
	"github.com/walteh/glport/pkg/log"
	"github.com/walteh/glport/pkg/rewrite"
)

// NewFilesCmd creates the files command
func NewFilesCmd(o *opts.RootOpts) *cobra.Command {
	var (
		root      string
		ignore    []string
		outputDir string
		suffix    string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "files [PATTERN...]",
		Short: "Rewrite every source file matching the patterns",
		Long: `Files rewrites many programs at once. It will:
1. Match PATTERNs (or files.include from the config) under --root
2. Drop paths matching --ignore or files.ignore
3. Rewrite each file in place, or into --out-dir with --suffix appended
4. Print one line per file, and diffs instead of writing with --dry-run

The exit status is the number of lines that could not be fully rewritten
plus the number of files that failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "files").Logger().WithContext(cmd.Context())
			logger := log.FromContext(ctx)
			cfg := o.Config

			include := args
			if len(include) == 0 {
				include = cfg.Files.Include
			}
			if !cmd.Flags().Changed("out-dir") {
				outputDir = cfg.Files.OutputDir
			}
			if !cmd.Flags().Changed("suffix") {
				suffix = cfg.Files.Suffix
			}

			// files are the unit of parallel work here
			rw, reg, err := o.Rewriter(ctx, rewrite.WithWorkers(1))
			if err != nil {
				return err
			}

			runner := batch.NewRunner(rw, batch.Options{
				Root:      root,
				Include:   include,
				Ignore:    slices.Concat(cfg.Files.Ignore, ignore),
				OutputDir: outputDir,
				Suffix:    suffix,
				DryRun:    dryRun,
				Workers:   cfg.Workers,
			}, logger)

			summary, err := runner.Run(ctx)
			if err != nil {
				return errors.Errorf("running batch: %w", err)
			}

			logger.LogNewline()
			for _, f := range summary.Files {
				if f.Diff != "" {
					printDiff(o.Stdout, f.Diff)
				}
				if f.Err != nil {
					logger.Errorf("%s: %v", f.Path, f.Err)
				}
				if len(f.Errors) > 0 {
					logger.Warning(f.Path + ":")
					if err := o.Reporter.LineErrors(f.Errors); err != nil {
						return err
					}
				}
			}

			if o.Debug {
				if err := o.Reporter.Stats(reg.Stats(), summary.Lines); err != nil {
					return err
				}
			}

			logger.Successf("%d files, %d changed, %d replacements", len(summary.Files), summary.Changed(), summary.Replacements)
			if err := o.Reporter.Summary(summary.ErrorCount()); err != nil {
				return err
			}

			return opts.ExitCode(summary.ErrorCount())
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "directory the patterns are matched in")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "glob patterns of files to skip")
	cmd.Flags().StringVar(&outputDir, "out-dir", "", "write outputs here instead of in place")
	cmd.Flags().StringVar(&suffix, "suffix", "", "append this to output file names")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print diffs instead of writing")

	return cmd
}
