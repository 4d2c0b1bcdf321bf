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
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents what a rewrite did to its output file
type FileStatus int

const (
	StatusUnchanged FileStatus = iota // Output exists and content matches
	StatusModified                    // Output exists but content differs
	StatusNew                         // Output doesn't exist yet
	StatusFailed                      // File could not be read, rewritten or written
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "UNCHANGED"
	case StatusModified:
		return "MODIFIED"
	case StatusNew:
		return "NEW"
	case StatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// 📄 readExisting returns the current content of path; exists is false when
// there is no such file.
func readExisting(path string) (content []byte, exists bool, err error) {
	content, err = os.ReadFile(path)
	if err == nil {
		return content, true, nil
	}
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	return nil, false, errors.Errorf("reading %s: %w", path, err)
}

// 💾 writeFileAtomic writes content next to path and renames it into place
func writeFileAtomic(path string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Errorf("creating directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return errors.Errorf("setting mode of temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("closing temp file: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath) // Clean up temp file
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}
