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
	"context"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrNoPatterns is returned when Discover is called without include patterns.
var ErrNoPatterns = errors.New("no include patterns")

// 🔍 Discover returns the slash separated paths, relative to root, of the
// regular files matching any include pattern and no ignore pattern. The
// result is sorted and has no duplicates.
func Discover(ctx context.Context, root string, include, ignore []string) ([]string, error) {
	if len(include) == 0 {
		return nil, ErrNoPatterns
	}
	if root == "" {
		root = "."
	}

	logger := zerolog.Ctx(ctx)
	fsys := os.DirFS(root)

	var found []string
	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("matching %q in %s: %w", pattern, root, err)
		}
		logger.Debug().Str("pattern", pattern).Int("matches", len(matches)).Msg("include pattern matched")
		found = append(found, matches...)
	}

	slices.Sort(found)
	found = slices.Compact(found)

	kept := found[:0]
	for _, path := range found {
		if ignored(ctx, path, ignore) {
			continue
		}
		kept = append(kept, path)
	}

	return kept, nil
}

// 🔍 ignored checks if a path matches any ignore pattern
func ignored(ctx context.Context, path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("path", path).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			zerolog.Ctx(ctx).Debug().Str("file", path).Str("pattern", pattern).Msg("file ignored by pattern")
			return true
		}
	}
	return false
}
