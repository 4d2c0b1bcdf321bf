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

// Package report prints rewrite diagnostics for people: line errors, the
// per-bucket counters and the final error summary.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/glport/pkg/rewrite"
)

// 📢 Reporter writes user-facing diagnostics to a writer, normally stderr
type Reporter struct {
	w io.Writer
}

// 🏭 New creates a reporter writing to w
func New(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// FormatLineError renders a line error followed by the offending input line.
func FormatLineError(e *rewrite.LineError) string {
	return fmt.Sprintf("%s %s.\n%s\n", pterm.FgRed.Sprint("Error:"), e.Error(), e.Text)
}

// 📝 LineErrors prints every line error in input order
func (r *Reporter) LineErrors(errs []*rewrite.LineError) error {
	for _, e := range errs {
		if _, err := io.WriteString(r.w, FormatLineError(e)); err != nil {
			return errors.Errorf("writing line error: %w", err)
		}
	}
	return nil
}

// 📊 BuildStatsTable turns the bucket counters into table rows, header first.
// Buckets without rules are left out.
func BuildStatsTable(stats []rewrite.BucketStats) pterm.TableData {
	data := pterm.TableData{{"bucket", "rules", "possible hits", "replacements"}}
	for _, s := range stats {
		if s.Rules == 0 {
			continue
		}
		data = append(data, []string{
			strconv.Itoa(s.Bucket),
			strconv.Itoa(s.Rules),
			strconv.FormatInt(s.PossibleHits, 10),
			strconv.FormatInt(s.Replacements, 10),
		})
	}
	return data
}

// 📊 Stats prints the counters gathered while rewriting lines input lines
func (r *Reporter) Stats(stats []rewrite.BucketStats, lines int) error {
	table, err := pterm.DefaultTable.WithHasHeader().WithData(BuildStatsTable(stats)).Srender()
	if err != nil {
		return errors.Errorf("rendering stats table: %w", err)
	}

	if _, err := fmt.Fprintf(r.w, "Possible hits & replacements made for %d lines:\n%s\n", lines, table); err != nil {
		return errors.Errorf("writing stats: %w", err)
	}
	return nil
}

// 📝 Summary prints the total number of line errors, if any
func (r *Reporter) Summary(errorCount int) error {
	if errorCount == 0 {
		return nil
	}

	msg := pterm.Warning.Sprintfln("%d line(s) could not be fully rewritten", errorCount)
	if _, err := io.WriteString(r.w, msg); err != nil {
		return errors.Errorf("writing summary: %w", err)
	}
	return nil
}
