// SPDX-License-Identifier: EPL-2.0

// Package scratch owns the per-run temporary directory holding decoded
// intermediates and encoder input.
package scratch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const pattern = "mixtape-*"

// Dir is a temporary directory removed by Close. It is meant to be owned by
// a single run.
type Dir struct {
	root string

	once sync.Once
	err  error
}

// New creates a fresh directory under parent, or under os.TempDir when
// parent is empty.
func New(parent string) (*Dir, error) {
	if parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return nil, fmt.Errorf("creating scratch parent: %w", err)
		}
	}

	root, err := os.MkdirTemp(parent, pattern)
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}

	return &Dir{root: root}, nil
}

// Root is the directory path.
func (d *Dir) Root() string { return d.root }

// Path joins name onto the directory. Only the base of name is used so
// callers cannot escape the directory.
func (d *Dir) Path(name string) string {
	return filepath.Join(d.root, filepath.Base(name))
}

// Close removes the directory and everything in it. It is safe to call more
// than once.
func (d *Dir) Close() error {
	d.once.Do(func() {
		if err := os.RemoveAll(d.root); err != nil {
			d.err = fmt.Errorf("removing scratch directory: %w", err)
		}
	})
	return d.err
}
