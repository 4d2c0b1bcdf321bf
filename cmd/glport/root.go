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

package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/glport/cmd/glport/commands"
	"github.com/walteh/glport/cmd/glport/opts"
	"github.com/walteh/glport/pkg/config"
	"github.com/walteh/glport/pkg/log"
	"github.com/walteh/glport/pkg/report"
)

// skipConfig marks commands that run without loading a configuration
const skipConfig = "glport/skip-config"

// NewRootCmd creates the glport command tree around o
func NewRootCmd(o *opts.RootOpts) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "glport [FILE]",
		Short: "Rewrite IRIS GL programs to OpenGL",
		Long: `glport rewrites IRIS GL calls, tokens and macros into their OpenGL
equivalents, one line at a time. Calls that need a person to look at them
get an OGLXXX comment block above the rewritten line.

Without a subcommand glport rewrites FILE (or stdin) to stdout. The exit
status is the number of lines that could not be fully rewritten.`,
		Version:       GetVersionInfo().Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd, o)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunRewrite(cmd.Context(), o, args, "")
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewRewriteCmd(o),
		commands.NewFilesCmd(o),
		commands.NewDiffCmd(o),
		commands.NewRulesCmd(o),
		newVersionCmd(o),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.ConfigFile, "config", "", "config file path (default "+config.DefaultPath+")")
	flags.BoolVarP(&o.Debug, "debug", "d", false, "print match counters and enable debug logging")
	flags.BoolVarP(&o.NoComments, "no-comments", "c", false, "don't put comments with the marker into the program")
	flags.BoolVarP(&o.NoLighting, "no-lighting", "l", false, "don't translate lighting calls (e.g. lmdef, lmbind)")
	flags.BoolVarP(&o.EmulateLighting, "emulate-lighting", "L", false, "translate lighting calls for the emulation library (implies -l)")
	flags.BoolVarP(&o.NoQueue, "no-queue", "q", false, "don't translate event queue calls (e.g. qread, setvaluator)")
	flags.BoolVarP(&o.NoWindow, "no-window", "w", false, "don't translate window manager calls (e.g. winopen, mapcolor)")
	flags.StringVar(&o.Marker, "marker", "", "tag written at the start of every comment block")
	flags.BoolVar(&o.KeepIndent, "keep-indent", false, "keep the leading blanks of input lines")
	flags.IntVarP(&o.Workers, "workers", "j", 0, "lines (or files) rewritten at once")
}

// setup loads the configuration, applies the flags that were set and creates
// the console helpers
func setup(cmd *cobra.Command, o *opts.RootOpts) error {
	if o.Stdin == nil {
		o.Stdin = cmd.InOrStdin()
	}
	if o.Stdout == nil {
		o.Stdout = cmd.OutOrStdout()
	}
	if o.Stderr == nil {
		o.Stderr = cmd.ErrOrStderr()
	}

	ctx := setupLogging(cmd.Context(), o)
	cmd.SetContext(ctx)

	o.Reporter = report.New(o.Stderr)

	if cmd.Annotations[skipConfig] == "true" {
		return nil
	}

	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}

	if err := applyFlags(cmd, o, cfg); err != nil {
		return err
	}
	o.Config = cfg

	if o.Debug {
		// the config file can turn debugging on too
		ctx = setupLogging(ctx, o)
		cmd.SetContext(ctx)
	}

	zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Msg("configuration loaded")

	return nil
}

// applyFlags overrides cfg with the flags given on the command line
func applyFlags(cmd *cobra.Command, o *opts.RootOpts, cfg *config.Config) error {
	flags := cmd.Flags()
	cats := &cfg.Categories

	if flags.Changed("no-comments") {
		cfg.Comments = boolPtr(!o.NoComments)
	}
	if flags.Changed("no-window") {
		cats.Windowing = boolPtr(!o.NoWindow)
	}
	if flags.Changed("no-queue") {
		cats.EventQueue = boolPtr(!o.NoQueue)
	}
	if flags.Changed("no-lighting") {
		cats.Lighting = boolPtr(!o.NoLighting)
	}
	if flags.Changed("emulate-lighting") {
		cats.LightingEmulation = boolPtr(o.EmulateLighting)
	}
	if flags.Changed("marker") {
		cfg.Marker = o.Marker
	}
	if flags.Changed("keep-indent") {
		cfg.KeepIndent = o.KeepIndent
	}
	if flags.Changed("workers") {
		cfg.Workers = o.Workers
	}
	if flags.Changed("debug") {
		cfg.Debug = o.Debug
	}
	o.Debug = cfg.Debug

	if err := cfg.Validate(); err != nil {
		return errors.Errorf("validating flags: %w", err)
	}
	return nil
}

// setupLogging configures zerolog based on flags and puts it, along with the
// console logger built on it, into ctx. Structured logs are only written with
// --debug.
func setupLogging(ctx context.Context, o *opts.RootOpts) context.Context {
	level := zerolog.Disabled
	if o.Debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: o.Stderr}).Level(level).With().Timestamp().Logger()
	return log.NewContext(logger.WithContext(ctx), log.NewWithZerolog(o.Stderr, logger))
}

func boolPtr(b bool) *bool {
	return &b
}
