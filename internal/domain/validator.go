package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"mutsol.dev/pkg/mutsol/internal/adapter"
	m "mutsol.dev/pkg/mutsol/internal/model"
	"mutsol.dev/pkg/mutsol/pkg"
)

// Validator runs candidate mutants through the external compiler. A
// rejected candidate is an expected outcome; only an unusable compiler
// or a cancelled context fails the stage.
type Validator interface {
	// ValidateAll compiles every spilled candidate and returns one
	// validity per index. Parallelism is bounded by parallel when
	// positive.
	ValidateAll(ctx context.Context, candidates pkg.FileSpill[m.Mutant], parallel int) ([]m.Validity, error)
}

type validator struct {
	adapter.SourceFSAdapter
	adapter.SolcAdapter
}

// NewValidator constructs a Validator backed by the provided
// filesystem and compiler adapters.
func NewValidator(fsAdapter adapter.SourceFSAdapter, solcAdapter adapter.SolcAdapter) Validator {
	return &validator{
		SourceFSAdapter: fsAdapter,
		SolcAdapter:     solcAdapter,
	}
}

func (v *validator) ValidateAll(ctx context.Context, candidates pkg.FileSpill[m.Mutant], parallel int) ([]m.Validity, error) {
	results := make([]m.Validity, candidates.Len())

	group, groupCtx := errgroup.WithContext(ctx)
	if parallel > 0 {
		group.SetLimit(parallel)
	}

	err := candidates.Range(func(index uint64, candidate m.Mutant) error {
		group.Go(func() error {
			validity, err := v.check(groupCtx, candidate)
			if err != nil {
				return err
			}

			// Each worker owns exactly one slot, so no lock is needed
			// and result order matches candidate order.
			results[index] = validity

			return nil
		})

		return nil
	})
	if err != nil {
		_ = group.Wait()

		return nil, err
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// check writes the candidate into a scratch directory and asks the
// compiler to accept it.
func (v *validator) check(ctx context.Context, candidate m.Mutant) (m.Validity, error) {
	tmpDir, err := v.CreateTempDir(ctx, "mutsol-check-*")
	if err != nil {
		return m.Unchecked, fmt.Errorf("create check dir: %w", err)
	}

	defer func() {
		if err := v.RemoveAll(ctx, tmpDir); err != nil {
			slog.Error("Failed to clean up check dir", "dir", tmpDir, "error", err)
		}
	}()

	path := v.JoinPath(ctx, string(tmpDir), filepath.Base(string(candidate.Unit)))
	if err := v.WriteFile(ctx, path, candidate.Text, 0o600); err != nil {
		return m.Unchecked, fmt.Errorf("write candidate: %w", err)
	}

	compileErr := v.Compile(ctx, path)
	if compileErr == nil {
		return m.Valid, nil
	}

	var rejected *m.CompileFailedError
	if errors.As(compileErr, &rejected) {
		slog.Debug("Compiler rejected candidate",
			"file", candidate.Unit, "operator", candidate.Point.Operator,
			"stderr", firstLine(rejected.Stderr))

		return m.Invalid, nil
	}

	// Compiler unavailable or context trouble, not a verdict on the
	// candidate. Abort the stage.
	return m.Unchecked, compileErr
}

// firstLine trims compiler output to its first non-empty line for logs.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}

	return ""
}
