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

package opts

import (
	"context"
	"fmt"
	"io"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/glport/pkg/config"
	"github.com/walteh/glport/pkg/report"
	"github.com/walteh/glport/pkg/rewrite"
	"github.com/walteh/glport/pkg/rules"
)

// MaxExitCode is the largest status a process can report.
const MaxExitCode = 255

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// Flags
	ConfigFile      string
	Debug           bool
	NoComments      bool
	NoWindow        bool
	NoQueue         bool
	NoLighting      bool
	EmulateLighting bool
	Marker          string
	KeepIndent      bool
	Workers         int

	// Streams, replaced in tests
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Set before any command runs
	Config   *config.Config
	Reporter *report.Reporter
}

// Registry builds the rule registry the configuration asks for.
func (o *RootOpts) Registry(ctx context.Context) (*rewrite.Registry, error) {
	reg, err := rules.NewRegistry(ctx, o.Config.RuleOptions())
	if err != nil {
		return nil, errors.Errorf("building rule registry: %w", err)
	}
	return reg, nil
}

// Rewriter builds a stream rewriter over a fresh registry. The registry is
// returned too so callers can read its counters. extra options are applied
// after the configured ones.
func (o *RootOpts) Rewriter(ctx context.Context, extra ...rewrite.RewriterOption) (*rewrite.Rewriter, *rewrite.Registry, error) {
	reg, err := o.Registry(ctx)
	if err != nil {
		return nil, nil, err
	}

	options := append([]rewrite.RewriterOption{
		rewrite.WithComments(o.Config.CommentsEnabled()),
		rewrite.WithMarker(o.Config.Marker),
		rewrite.WithKeepIndent(o.Config.KeepIndent),
		rewrite.WithWorkers(o.Config.Workers),
	}, extra...)

	return rewrite.NewRewriter(rewrite.NewProcessor(reg), options...), reg, nil
}

// ExitCodeError makes the process exit with Code without printing anything
// more.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode turns an error count into the command result: nil for zero,
// otherwise an ExitCodeError clamped to MaxExitCode.
func ExitCode(count int) error {
	if count <= 0 {
		return nil
	}
	return &ExitCodeError{Code: min(count, MaxExitCode)}
}
