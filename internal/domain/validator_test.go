package domain_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mutsol.dev/pkg/mutsol/internal/adapter"
	"mutsol.dev/pkg/mutsol/internal/domain"
	m "mutsol.dev/pkg/mutsol/internal/model"
	"mutsol.dev/pkg/mutsol/pkg"
)

func newCandidateSpill(t *testing.T, texts ...string) pkg.FileSpill[m.Mutant] {
	t.Helper()

	spill, err := pkg.NewFileSpill[m.Mutant]("validator-test-*.gob")
	require.NoError(t, err)

	t.Cleanup(func() { _ = spill.Close() })

	for _, text := range texts {
		candidate := m.Mutant{Unit: "Token.sol", Text: []byte(text), Hash: m.ContentHash([]byte(text))}
		require.NoError(t, spill.Append(candidate))
	}

	return spill
}

func TestValidateAll(t *testing.T) {
	ctx := context.Background()
	fs := adapter.NewLocalSourceFSAdapter()

	t.Run("classifies by compiler verdict keeping candidate order", func(t *testing.T) {
		solc := &stubSolc{compile: func(source []byte) error {
			if bytes.Contains(source, []byte("bad")) {
				return &m.CompileFailedError{Stderr: "ParserError: expected ';'"}
			}

			return nil
		}}

		v := domain.NewValidator(fs, solc)
		spill := newCandidateSpill(t, "good one", "bad one", "good two", "bad two")

		got, err := v.ValidateAll(ctx, spill, 2)
		require.NoError(t, err)
		assert.Equal(t, []m.Validity{m.Valid, m.Invalid, m.Valid, m.Invalid}, got)
	})

	t.Run("unbounded parallelism", func(t *testing.T) {
		v := domain.NewValidator(fs, &stubSolc{})
		spill := newCandidateSpill(t, "one", "two", "three")

		got, err := v.ValidateAll(ctx, spill, 0)
		require.NoError(t, err)
		assert.Equal(t, []m.Validity{m.Valid, m.Valid, m.Valid}, got)
	})

	t.Run("empty spill yields empty result", func(t *testing.T) {
		v := domain.NewValidator(fs, &stubSolc{})

		got, err := v.ValidateAll(ctx, newCandidateSpill(t), 4)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unavailable compiler aborts the stage", func(t *testing.T) {
		solc := &stubSolc{compile: func([]byte) error {
			return &m.CompilerUnavailableError{Binary: "solc", Cause: errors.New("executable not found")}
		}}

		v := domain.NewValidator(fs, solc)
		spill := newCandidateSpill(t, "one", "two")

		_, err := v.ValidateAll(ctx, spill, 2)
		require.Error(t, err)

		var unavailable *m.CompilerUnavailableError
		assert.True(t, errors.As(err, &unavailable))
	})
}
