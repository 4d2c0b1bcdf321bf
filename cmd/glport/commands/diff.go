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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/glport/cmd/glport/opts"
	"github.com/walteh/glport/pkg/batch"
	"github.com/walteh/glport/pkg/log"
)

// NewDiffCmd creates the diff command
func NewDiffCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff FILE",
		Short: "Show what rewriting FILE would change",
		Long: `Diff rewrites FILE in memory and prints the changed lines with a little
context. Nothing is written. The exit status is the number of lines that
could not be fully rewritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			before, err := os.ReadFile(path)
			if err != nil {
				return errors.Errorf("reading %s: %w", path, err)
			}

			rw, _, err := o.Rewriter(ctx)
			if err != nil {
				return err
			}

			after, res, err := rw.RewriteString(ctx, string(before))
			if err != nil {
				return errors.Errorf("rewriting %s: %w", path, err)
			}

			if d := batch.Diff(path, string(before), after); d != "" {
				printDiff(o.Stdout, d)
			} else {
				log.FromContext(ctx).Info(path + ": no changes")
			}

			if err := o.Reporter.LineErrors(res.Errors); err != nil {
				return err
			}
			return opts.ExitCode(res.ErrorCount())
		},
	}

	return cmd
}

// printDiff writes a diff from batch.Diff with colored markers
func printDiff(w io.Writer, diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			color.New(color.Bold).Fprint(w, line)
		case strings.HasPrefix(line, "@@"):
			color.New(color.FgCyan).Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			color.New(color.FgGreen).Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			color.New(color.FgRed).Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}
