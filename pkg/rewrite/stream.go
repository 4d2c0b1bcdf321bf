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

package rewrite

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// Result summarizes one Rewrite call.
type Result struct {
	Lines        int
	Replacements int
	Errors       []*LineError
}

// ErrorCount is the number of recoverable line errors.
func (r *Result) ErrorCount() int {
	return len(r.Errors)
}

// Rewriter runs a Processor over a line stream and writes the rewritten
// lines, each preceded by its comment block.
type Rewriter struct {
	proc       *Processor
	comments   bool
	marker     string
	keepIndent bool
	workers    int
}

type RewriterOption func(*Rewriter)

// WithComments toggles the comment blocks. They are on by default.
func WithComments(on bool) RewriterOption {
	return func(r *Rewriter) {
		r.comments = on
	}
}

// WithMarker sets the tag written at the start of every comment block.
func WithMarker(marker string) RewriterOption {
	return func(r *Rewriter) {
		if marker != "" {
			r.marker = marker
		}
	}
}

// WithKeepIndent keeps leading blanks of input lines.
func WithKeepIndent(on bool) RewriterOption {
	return func(r *Rewriter) {
		r.keepIndent = on
	}
}

// WithWorkers rewrites lines concurrently. Output order is unchanged.
func WithWorkers(n int) RewriterOption {
	return func(r *Rewriter) {
		if n > 0 {
			r.workers = n
		}
	}
}

func NewRewriter(proc *Processor, opts ...RewriterOption) *Rewriter {
	r := &Rewriter{
		proc:     proc,
		comments: true,
		marker:   DefaultMarker,
		workers:  1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rewrite reads in line by line and writes the rewritten program to out.
// Line errors are collected in the result; only I/O errors and cancellation
// are returned.
func (r *Rewriter) Rewrite(ctx context.Context, in io.Reader, out io.Writer) (*Result, error) {
	w := bufio.NewWriter(out)

	var (
		res *Result
		err error
	)
	if r.workers > 1 {
		res, err = r.rewriteParallel(ctx, in, w)
	} else {
		res, err = r.rewriteSequential(ctx, in, w)
	}
	if err != nil {
		return res, err
	}

	if err := w.Flush(); err != nil {
		return res, errors.Errorf("flushing output: %w", err)
	}

	return res, nil
}

// RewriteString is Rewrite over an in-memory program.
func (r *Rewriter) RewriteString(ctx context.Context, src string) (string, *Result, error) {
	var b strings.Builder
	res, err := r.Rewrite(ctx, strings.NewReader(src), &b)
	return b.String(), res, err
}

func (r *Rewriter) rewriteSequential(ctx context.Context, in io.Reader, w *bufio.Writer) (*Result, error) {
	res := &Result{}
	br := bufio.NewReader(in)
	var sink Annotations

	for {
		if err := ctx.Err(); err != nil {
			return res, errors.Errorf("rewriting line %d: %w", res.Lines+1, err)
		}

		raw, ok, err := readLine(br)
		if err != nil {
			return res, errors.Errorf("reading line %d: %w", res.Lines+1, err)
		}
		if !ok {
			return res, nil
		}
		res.Lines++

		lr := r.proc.ProcessLine(ctx, r.prepare(raw))
		r.collect(ctx, res, res.Lines, raw, lr)

		if err := r.emit(w, &sink, lr); err != nil {
			return res, errors.Errorf("writing line %d: %w", res.Lines, err)
		}
	}
}

func (r *Rewriter) rewriteParallel(ctx context.Context, in io.Reader, w *bufio.Writer) (*Result, error) {
	res := &Result{}
	br := bufio.NewReader(in)

	var lines []string
	for {
		raw, ok, err := readLine(br)
		if err != nil {
			return res, errors.Errorf("reading line %d: %w", len(lines)+1, err)
		}
		if !ok {
			break
		}
		lines = append(lines, raw)
	}

	results := make([]*LineResult, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, raw := range lines {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Errorf("rewriting line %d: %w", i+1, err)
			}
			results[i] = r.proc.ProcessLine(gctx, r.prepare(raw))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	var sink Annotations
	for i, lr := range results {
		res.Lines++
		r.collect(ctx, res, i+1, lines[i], lr)
		if err := r.emit(w, &sink, lr); err != nil {
			return res, errors.Errorf("writing line %d: %w", i+1, err)
		}
	}

	return res, nil
}

func (r *Rewriter) prepare(raw string) string {
	if r.keepIndent {
		return raw
	}
	return strings.TrimLeft(raw, " \t")
}

func (r *Rewriter) collect(ctx context.Context, res *Result, lineno int, raw string, lr *LineResult) {
	res.Replacements += lr.Replacements
	for _, err := range lr.Errors {
		le := &LineError{Line: lineno, Text: raw, Rule: RuleName(err), Err: err}
		res.Errors = append(res.Errors, le)

		zerolog.Ctx(ctx).Error().
			Err(err).
			Int("line", lineno).
			Str("rule", le.Rule).
			Str("text", raw).
			Msg("rewriting line")
	}
}

func (r *Rewriter) emit(w *bufio.Writer, sink *Annotations, lr *LineResult) error {
	sink.Reset()
	sink.Add(lr.Notes...)
	if r.comments {
		if _, err := w.WriteString(sink.Render(r.marker)); err != nil {
			return err
		}
	}
	if _, err := w.WriteString(lr.Text); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

// readLine returns the next line without its terminator. ok is false at the
// end of input.
func readLine(br *bufio.Reader) (string, bool, error) {
	line, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, err
	}
	if line == "" && err != nil {
		return "", false, nil
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, true, nil
}
