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
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// MatchHook observes every match attempt of the processor.
type MatchHook func(bucket int, rule *Rule)

// LineResult is the outcome of rewriting one line.
type LineResult struct {
	Text         string
	Notes        []string
	Replacements int
	Errors       []error
}

// Processor applies the rules of a Registry to single lines.
type Processor struct {
	reg  *Registry
	hook MatchHook
}

type ProcessorOption func(*Processor)

// WithMatchHook installs a hook called before every match attempt.
func WithMatchHook(h MatchHook) ProcessorOption {
	return func(p *Processor) {
		p.hook = h
	}
}

func NewProcessor(reg *Registry, opts ...ProcessorOption) *Processor {
	p := &Processor{reg: reg}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Registry returns the registry the processor reads from.
func (p *Processor) Registry() *Registry {
	return p.reg
}

// ProcessLine rewrites line to a fixed point.
//
// Buckets are visited in ascending order and each bucket's filter is checked
// against the text as rewritten so far. Every rule of a passing bucket is
// applied, in registration order, until it no longer matches. Errors do not
// stop processing: the rule that failed is skipped for the rest of the line.
func (p *Processor) ProcessLine(ctx context.Context, line string) *LineResult {
	logger := zerolog.Ctx(ctx)

	res := &LineResult{}
	text := " " + line + " "

	for i := range MaxBuckets {
		if !p.reg.check(i, text) {
			continue
		}
		b := &p.reg.buckets[i]
		b.possibleHits.Add(1)

		for _, id := range b.order {
			rule := p.reg.arena[id]
			bound := len(text)

			for {
				if p.hook != nil {
					p.hook(i, rule)
				}

				c, err := rule.MatchBefore(text, bound)
				if err != nil {
					res.Errors = append(res.Errors, err)
					break
				}
				if c == nil {
					break
				}

				out, notes, err := rule.Replace(c)
				if err != nil {
					res.Errors = append(res.Errors, err)
				}

				logger.Trace().
					Str("rule", rule.Name).
					Str("kind", rule.Kind.String()).
					Int("bucket", i).
					Str("before", text).
					Str("after", out).
					Msg("replaced")

				text = out
				res.Notes = append(res.Notes, notes...)
				res.Replacements++
				b.replacements.Add(1)
				bound = len(c.Prefix)
			}
		}
	}

	text = strings.TrimPrefix(text, " ")
	text = strings.TrimSuffix(text, " ")
	res.Text = text

	return res
}
