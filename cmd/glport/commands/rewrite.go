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
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/glport/cmd/glport/opts"
)

// NewRewriteCmd creates the rewrite command
func NewRewriteCmd(o *opts.RootOpts) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "rewrite [FILE]",
		Short: "Rewrite one program from FILE or stdin",
		Long: `Rewrite reads an IRIS GL program line by line and writes the OpenGL
version. It will:
1. Read FILE, or stdin when FILE is missing or "-"
2. Rewrite every line with the enabled rule tables
3. Write the result to stdout, or to --output
4. Report lines that could not be fully rewritten on stderr

The exit status is the number of such lines.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunRewrite(cmd.Context(), o, args, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to this file instead of stdout")

	return cmd
}

// RunRewrite rewrites args[0] (or stdin) to output (or stdout)
func RunRewrite(ctx context.Context, o *opts.RootOpts, args []string, output string) error {
	ctx = zerolog.Ctx(ctx).With().Str("command", "rewrite").Logger().WithContext(ctx)

	in, name := o.Stdin, "<stdin>"
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return errors.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in, name = f, args[0]
	}

	var (
		out  io.Writer = o.Stdout
		file *os.File
	)
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return errors.Errorf("creating output: %w", err)
		}
		defer f.Close()
		out, file = f, f
	}

	rw, reg, err := o.Rewriter(ctx)
	if err != nil {
		return err
	}

	res, err := rw.Rewrite(ctx, in, out)
	if err != nil {
		return errors.Errorf("rewriting %s: %w", name, err)
	}

	if file != nil {
		if err := file.Close(); err != nil {
			return errors.Errorf("closing output: %w", err)
		}
	}

	if err := o.Reporter.LineErrors(res.Errors); err != nil {
		return err
	}
	if o.Debug {
		if err := o.Reporter.Stats(reg.Stats(), res.Lines); err != nil {
			return err
		}
	}
	if err := o.Reporter.Summary(res.ErrorCount()); err != nil {
		return err
	}

	return opts.ExitCode(res.ErrorCount())
}
