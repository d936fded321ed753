// Package adapter contains compiler and filesystem adapters for the mutsol CLI.
package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	m "mutsol.dev/pkg/mutsol/internal/model"
)

// SourceFSAdapter abstracts filesystem access for the domain layer. It
// hides direct `os` calls so the engine and validator can be tested
// without touching the disk.
type SourceFSAdapter interface {
	// Discover resolves the given paths to Solidity source files.
	// Files are returned as passed; directories are walked recursively
	// and contribute every *.sol file underneath. Exclude patterns are
	// matched against base names. The result is sorted and free of
	// duplicates.
	Discover(ctx context.Context, paths []m.Path, exclude ...string) ([]m.Path, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(ctx context.Context, path m.Path, perm os.FileMode) error

	// CreateTempDir creates a scratch directory for compile checks.
	CreateTempDir(ctx context.Context, pattern string) (m.Path, error)

	// RemoveAll removes a directory and all its contents.
	RemoveAll(ctx context.Context, path m.Path) error

	// RelPath returns the relative path from base to target.
	RelPath(ctx context.Context, base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(ctx context.Context, elem ...string) m.Path

	// Glob returns the sorted paths matching a shell pattern.
	Glob(ctx context.Context, pattern string) ([]m.Path, error)

	// Rename moves a file or directory to a new path.
	Rename(ctx context.Context, oldPath, newPath m.Path) error
}

// LocalSourceFSAdapter backs SourceFSAdapter with the local filesystem.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter ready to be
// wired into the engine.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Discover resolves paths to a sorted, deduplicated list of Solidity files.
func (a *LocalSourceFSAdapter) Discover(ctx context.Context, paths []m.Path, exclude ...string) ([]m.Path, error) {
	seen := make(map[m.Path]bool)

	var files []m.Path

	add := func(p string) {
		path := m.Path(filepath.Clean(p))
		if !seen[path] {
			seen[path] = true

			files = append(files, path)
		}
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(string(path))
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}

		if !info.IsDir() {
			// Explicitly named files are taken as-is; the compiler will
			// reject anything it cannot parse.
			add(string(path))
			continue
		}

		err = filepath.Walk(string(path), func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}

			if info.IsDir() {
				if excluded(filepath.Base(p), exclude) && p != string(path) {
					return filepath.SkipDir
				}

				return nil
			}

			if filepath.Ext(p) != ".sol" || excluded(filepath.Base(p), exclude) {
				return nil
			}

			add(p)

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", path, err)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })

	return files, nil
}

func excluded(base string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := filepath.Match(pattern, base); err == nil && matched {
			return true
		}

		if strings.EqualFold(pattern, base) {
			return true
		}
	}

	return false
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(_ context.Context, path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(_ context.Context, path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// MkdirAll creates a directory and any missing parents.
func (a *LocalSourceFSAdapter) MkdirAll(_ context.Context, path m.Path, perm os.FileMode) error {
	return os.MkdirAll(string(path), perm)
}

// CreateTempDir creates a scratch directory for compile checks.
func (a *LocalSourceFSAdapter) CreateTempDir(_ context.Context, pattern string) (m.Path, error) {
	tmpDir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return "", err
	}

	return m.Path(tmpDir), nil
}

// RemoveAll removes a directory and all its contents.
func (a *LocalSourceFSAdapter) RemoveAll(_ context.Context, path m.Path) error {
	return os.RemoveAll(string(path))
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(_ context.Context, base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(_ context.Context, elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

// Glob returns the sorted paths matching a shell pattern.
func (a *LocalSourceFSAdapter) Glob(_ context.Context, pattern string) ([]m.Path, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)

	paths := make([]m.Path, 0, len(matches))
	for _, match := range matches {
		paths = append(paths, m.Path(match))
	}

	return paths, nil
}

// Rename moves a file or directory to a new path.
func (a *LocalSourceFSAdapter) Rename(_ context.Context, oldPath, newPath m.Path) error {
	return os.Rename(string(oldPath), string(newPath))
}
