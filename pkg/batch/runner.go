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

package batch

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/glport/pkg/log"
	"github.com/walteh/glport/pkg/rewrite"
)

// 🔧 Options contains configuration for a batch run
type Options struct {
	Root      string   // Directory the patterns are matched in
	Include   []string // Glob patterns of files to rewrite
	Ignore    []string // Glob patterns of files to skip
	OutputDir string   // Empty means rewrite in place
	Suffix    string   // Appended to output file names
	DryRun    bool     // Compute diffs, write nothing
	Workers   int      // Files rewritten at once, at least 1
}

// 📄 FileResult is the outcome of one file
type FileResult struct {
	Path         string // Slash separated, relative to the root
	Output       string // Destination path on disk
	Status       FileStatus
	Lines        int
	Replacements int
	Errors       []*rewrite.LineError
	Diff         string // Set in dry runs when the output changes
	Err          error  // Why the file failed, for StatusFailed
}

// 📊 Summary aggregates a batch run
type Summary struct {
	Files        []*FileResult
	Lines        int
	Replacements int
	LineErrors   int
	Failed       int
}

// ErrorCount is the number of line errors plus the number of failed files.
func (s *Summary) ErrorCount() int {
	return s.LineErrors + s.Failed
}

// Changed counts the files whose output is new or modified.
func (s *Summary) Changed() int {
	n := 0
	for _, f := range s.Files {
		if f.Status == StatusNew || f.Status == StatusModified {
			n++
		}
	}
	return n
}

// 🏃 Runner rewrites the files of a batch
type Runner struct {
	rw     *rewrite.Rewriter
	opts   Options
	logger *log.Logger
}

// 🏗️ NewRunner creates a new runner. A nil logger discards console output.
func NewRunner(rw *rewrite.Rewriter, opts Options, logger *log.Logger) *Runner {
	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = log.NewWithZerolog(io.Discard, zerolog.Nop())
	}
	return &Runner{rw: rw, opts: opts, logger: logger}
}

// 🏃 Run discovers and rewrites the files. Problems with single files are
// recorded in their FileResult; only discovery errors and cancellation are
// returned.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	ignore := slices.Clone(r.opts.Ignore)
	if rel, ok := within(r.opts.Root, r.opts.OutputDir); ok {
		// outputs of earlier runs are not inputs
		ignore = append(ignore, rel+"/**")
	}

	files, err := Discover(ctx, r.opts.Root, r.opts.Include, ignore)
	if err != nil {
		return nil, errors.Errorf("discovering files: %w", err)
	}

	r.logger.StartBatchOperation(ctx, log.BatchOperation{
		Root:      r.opts.Root,
		OutputDir: r.opts.OutputDir,
		Files:     len(files),
		DryRun:    r.opts.DryRun,
	})
	defer r.logger.EndBatchOperation(ctx)

	results := make([]*FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.processFile(gctx, rel)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Errorf("rewriting files: %w", err)
	}

	summary := &Summary{Files: results}
	for _, res := range results {
		summary.Lines += res.Lines
		summary.Replacements += res.Replacements
		summary.LineErrors += len(res.Errors)
		if res.Status == StatusFailed {
			summary.Failed++
		}

		r.logger.LogFileOperation(ctx, log.FileOperation{
			Path:         res.Path,
			Status:       res.Status.String(),
			IsNew:        res.Status == StatusNew,
			IsModified:   res.Status == StatusModified,
			IsFailed:     res.Status == StatusFailed,
			Replacements: res.Replacements,
			Errors:       len(res.Errors),
		})
	}

	return summary, nil
}

// 🔄 processFile rewrites one file and writes or diffs its output
func (r *Runner) processFile(ctx context.Context, rel string) *FileResult {
	res := &FileResult{Path: rel, Output: r.destination(rel)}
	logger := zerolog.Ctx(ctx).With().Str("file", rel).Logger()

	fail := func(err error) *FileResult {
		logger.Error().Err(err).Msg("file failed")
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	src := filepath.Join(r.opts.Root, filepath.FromSlash(rel))
	info, err := os.Stat(src)
	if err != nil {
		return fail(errors.Errorf("reading %s: %w", src, err))
	}
	input, err := os.ReadFile(src)
	if err != nil {
		return fail(errors.Errorf("reading %s: %w", src, err))
	}

	output, result, err := r.rw.RewriteString(logger.WithContext(ctx), string(input))
	if err != nil {
		return fail(errors.Errorf("rewriting %s: %w", src, err))
	}
	res.Lines = result.Lines
	res.Replacements = result.Replacements
	res.Errors = result.Errors

	existing, exists, err := readExisting(res.Output)
	if err != nil {
		return fail(err)
	}

	switch {
	case !exists:
		res.Status = StatusNew
	case bytes.Equal(existing, []byte(output)):
		res.Status = StatusUnchanged
	default:
		res.Status = StatusModified
	}

	logger.Debug().
		Str("output", res.Output).
		Str("status", res.Status.String()).
		Int("replacements", res.Replacements).
		Int("errors", len(res.Errors)).
		Msg("file rewritten")

	if res.Status == StatusUnchanged {
		return res
	}

	if r.opts.DryRun {
		res.Diff = Diff(filepath.ToSlash(res.Output), string(existing), output)
		return res
	}

	if err := writeFileAtomic(res.Output, []byte(output), info.Mode().Perm()); err != nil {
		return fail(err)
	}

	return res
}

// destination is where the rewritten form of rel is written.
func (r *Runner) destination(rel string) string {
	base := r.opts.Root
	if r.opts.OutputDir != "" {
		base = r.opts.OutputDir
	}
	return filepath.Join(base, filepath.FromSlash(rel)) + r.opts.Suffix
}

// within reports whether dir lies strictly inside root and returns it
// relative to root, slash separated.
func within(root, dir string) (string, bool) {
	if dir == "" {
		return "", false
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
