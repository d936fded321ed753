package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	m "mutsol.dev/pkg/mutsol/internal/model"
)

// MutantWriter persists validated mutants to the output tree. Each
// mutant lands in its own directory together with a unified diff
// against the original source.
type MutantWriter interface {
	// WriteMutant writes one mutant under outDir and returns the paths
	// of the mutated source file and its patch.
	WriteMutant(ctx context.Context, outDir m.Path, index int, unit m.SourceUnit, mutant m.Mutant) (m.Path, m.Path, error)
}

// LocalMutantWriter writes mutants to the local filesystem.
type LocalMutantWriter struct{}

// NewLocalMutantWriter constructs a LocalMutantWriter.
func NewLocalMutantWriter() *LocalMutantWriter {
	return &LocalMutantWriter{}
}

// WriteMutant writes the annotated mutant and its patch file.
func (w *LocalMutantWriter) WriteMutant(ctx context.Context, outDir m.Path, index int, unit m.SourceUnit, mutant m.Mutant) (m.Path, m.Path, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	base := filepath.Base(string(unit.ID))
	relDir := filepath.Join("mutants", m.MutantDirName(index, mutant.Point.Operator))
	dir := filepath.Join(string(outDir), relDir)

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", "", fmt.Errorf("create mutant dir: %w", err)
	}

	annotated := annotate(unit.Text, mutant.Text, mutant.Point.Operator)

	srcPath := filepath.Join(dir, base)
	if err := os.WriteFile(srcPath, annotated, 0o600); err != nil {
		return "", "", fmt.Errorf("write mutant: %w", err)
	}

	patch, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(unit.Text)),
		B:        difflib.SplitLines(string(annotated)),
		FromFile: string(unit.ID),
		ToFile:   filepath.Join(relDir, base),
		Context:  3,
	})
	if err != nil {
		return "", "", fmt.Errorf("render patch: %w", err)
	}

	patchPath := srcPath + ".patch"
	if err := os.WriteFile(patchPath, []byte(patch), 0o600); err != nil {
		return "", "", fmt.Errorf("write patch: %w", err)
	}

	return m.Path(srcPath), m.Path(patchPath), nil
}

// annotate inserts a doc comment above the first changed line naming
// the operator and quoting the original line.
func annotate(original, mutated []byte, kind m.OperatorKind) []byte {
	origLines := strings.SplitAfter(string(original), "\n")
	mutLines := strings.SplitAfter(string(mutated), "\n")

	limit := len(origLines)
	if len(mutLines) < limit {
		limit = len(mutLines)
	}

	for i := 0; i < limit; i++ {
		if origLines[i] == mutLines[i] {
			continue
		}

		comment := m.Indent(origLines[i]) + "/// " + string(kind) + " of: " + strings.TrimSpace(origLines[i]) + "\n"

		var out strings.Builder

		for _, line := range mutLines[:i] {
			out.WriteString(line)
		}

		out.WriteString(comment)

		for _, line := range mutLines[i:] {
			out.WriteString(line)
		}

		return []byte(out.String())
	}

	return mutated
}
