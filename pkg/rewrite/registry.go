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
	"slices"
	"strings"
	"sync/atomic"

	"gitlab.com/tozd/go/errors"
)

// MaxBuckets is the number of registry buckets. Names of length
// MaxBuckets-1 or longer share the last bucket.
const MaxBuckets = 16

// BucketKey returns the bucket a name belongs to.
func BucketKey(name string) int {
	return min(len(name), MaxBuckets-1)
}

// Handle identifies a registered rule. The zero Handle is invalid.
type Handle struct {
	id int
}

// Valid reports whether h was returned by Register.
func (h Handle) Valid() bool {
	return h.id > 0
}

// BucketStats are the diagnostic counters of one bucket.
type BucketStats struct {
	Bucket       int
	Rules        int
	PossibleHits int64
	Replacements int64
}

type bucket struct {
	order []int    // arena indices, registration order
	names []string // distinct names, quick-reject filter

	possibleHits atomic.Int64
	replacements atomic.Int64
}

// Registry holds rules bucketed by name length. It must not be modified while
// a Processor is using it; the counters are safe for concurrent use.
type Registry struct {
	arena   []*Rule // index 0 unused, nil after Unregister
	buckets [MaxBuckets]bucket
}

func NewRegistry() *Registry {
	return &Registry{arena: []*Rule{nil}}
}

// Register appends rule to its bucket and returns its handle.
func (r *Registry) Register(rule *Rule) Handle {
	id := len(r.arena)
	r.arena = append(r.arena, rule)

	b := &r.buckets[rule.BucketKey()]
	b.order = append(b.order, id)
	if !slices.Contains(b.names, rule.Name) {
		b.names = append(b.names, rule.Name)
	}

	return Handle{id: id}
}

// Unregister removes the rule behind h and rebuilds its bucket filter.
func (r *Registry) Unregister(h Handle) error {
	if h.id <= 0 || h.id >= len(r.arena) || r.arena[h.id] == nil {
		return errors.Errorf("unregistering handle %d: no such rule", h.id)
	}

	rule := r.arena[h.id]
	r.arena[h.id] = nil

	b := &r.buckets[rule.BucketKey()]
	b.order = slices.DeleteFunc(b.order, func(id int) bool { return id == h.id })

	b.names = b.names[:0]
	for _, id := range b.order {
		if n := r.arena[id].Name; !slices.Contains(b.names, n) {
			b.names = append(b.names, n)
		}
	}

	return nil
}

// UnregisterCategory removes every rule of the category and returns how many
// were removed.
func (r *Registry) UnregisterCategory(category string) int {
	n := 0
	for id, rule := range r.arena {
		if rule == nil || rule.Category != category {
			continue
		}
		if err := r.Unregister(Handle{id: id}); err == nil {
			n++
		}
	}
	return n
}

// Lookup returns the handles of every rule registered under name.
func (r *Registry) Lookup(name string) []Handle {
	b := &r.buckets[BucketKey(name)]
	var out []Handle
	for _, id := range b.order {
		if r.arena[id].Name == name {
			out = append(out, Handle{id: id})
		}
	}
	return out
}

// Rule returns the rule behind h, or nil.
func (r *Registry) Rule(h Handle) *Rule {
	if h.id <= 0 || h.id >= len(r.arena) {
		return nil
	}
	return r.arena[h.id]
}

// Bucket returns the rules of bucket i in application order.
func (r *Registry) Bucket(i int) []*Rule {
	if i < 0 || i >= MaxBuckets {
		return nil
	}
	out := make([]*Rule, 0, len(r.buckets[i].order))
	for _, id := range r.buckets[i].order {
		out = append(out, r.arena[id])
	}
	return out
}

// Rules returns every registered rule, bucket by bucket.
func (r *Registry) Rules() []*Rule {
	var out []*Rule
	for i := range MaxBuckets {
		out = append(out, r.Bucket(i)...)
	}
	return out
}

// Len is the number of registered rules.
func (r *Registry) Len() int {
	n := 0
	for i := range r.buckets {
		n += len(r.buckets[i].order)
	}
	return n
}

// CandidateBuckets returns, in ascending order, the non-empty buckets that
// have at least one name occurring in line.
func (r *Registry) CandidateBuckets(line string) []int {
	var out []int
	for i := range r.buckets {
		if r.check(i, line) {
			out = append(out, i)
		}
	}
	return out
}

// check is the quick-reject filter of bucket i.
func (r *Registry) check(i int, line string) bool {
	b := &r.buckets[i]
	if len(b.order) == 0 || line == "" {
		return false
	}
	for _, name := range b.names {
		if strings.Contains(line, name) {
			return true
		}
	}
	return false
}

// Stats returns the counters of every bucket.
func (r *Registry) Stats() []BucketStats {
	out := make([]BucketStats, MaxBuckets)
	for i := range r.buckets {
		b := &r.buckets[i]
		out[i] = BucketStats{
			Bucket:       i,
			Rules:        len(b.order),
			PossibleHits: b.possibleHits.Load(),
			Replacements: b.replacements.Load(),
		}
	}
	return out
}

func (r *Registry) ResetStats() {
	for i := range r.buckets {
		r.buckets[i].possibleHits.Store(0)
		r.buckets[i].replacements.Store(0)
	}
}
