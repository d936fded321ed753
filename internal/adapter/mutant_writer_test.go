package adapter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	m "mutsol.dev/pkg/mutsol/internal/model"
)

const writerOriginal = `contract Token {
    function add(uint256 a, uint256 b) public pure returns (uint256) {
        return a + b;
    }
}
`

func writerMutant() m.Mutant {
	mutated := strings.Replace(writerOriginal, "a + b", "a - b", 1)

	return m.Mutant{
		Unit: "contracts/Token.sol",
		Point: m.MutationPoint{
			Operator:    m.KindBinaryOperatorSwap,
			Original:    "+",
			Replacement: "-",
		},
		Text: []byte(mutated),
		Hash: m.ContentHash([]byte(mutated)),
	}
}

func TestLocalMutantWriter_WriteMutant(t *testing.T) {
	ctx := context.Background()
	writer := NewLocalMutantWriter()

	outDir := t.TempDir()
	unit := m.SourceUnit{ID: "contracts/Token.sol", Text: []byte(writerOriginal)}

	srcPath, patchPath, err := writer.WriteMutant(ctx, m.Path(outDir), 3, unit, writerMutant())
	if err != nil {
		t.Fatalf("WriteMutant() error = %v", err)
	}

	wantSrc := filepath.Join(outDir, "mutants", "003_binary-operator-swap", "Token.sol")
	if string(srcPath) != wantSrc {
		t.Fatalf("WriteMutant() src = %s, want %s", srcPath, wantSrc)
	}

	if string(patchPath) != wantSrc+".patch" {
		t.Fatalf("WriteMutant() patch = %s, want %s", patchPath, wantSrc+".patch")
	}

	source, err := os.ReadFile(wantSrc)
	if err != nil {
		t.Fatalf("failed to read mutant: %v", err)
	}

	if !strings.Contains(string(source), "return a - b;") {
		t.Fatalf("mutant source = %q, missing rewrite", string(source))
	}

	wantComment := "        /// binary-operator-swap of: return a + b;\n        return a - b;"
	if !strings.Contains(string(source), wantComment) {
		t.Fatalf("mutant source = %q, missing annotation above changed line", string(source))
	}

	patch, err := os.ReadFile(wantSrc + ".patch")
	if err != nil {
		t.Fatalf("failed to read patch: %v", err)
	}

	for _, want := range []string{
		"--- contracts/Token.sol",
		"+++ " + filepath.Join("mutants", "003_binary-operator-swap", "Token.sol"),
		"-        return a + b;",
		"+        return a - b;",
	} {
		if !strings.Contains(string(patch), want) {
			t.Fatalf("patch = %q, missing %q", string(patch), want)
		}
	}
}

func TestLocalMutantWriter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	writer := NewLocalMutantWriter()

	if _, _, err := writer.WriteMutant(ctx, m.Path(t.TempDir()), 1, m.SourceUnit{}, m.Mutant{}); err == nil {
		t.Fatal("WriteMutant() expected context error")
	}
}

func TestAnnotate(t *testing.T) {
	t.Run("identical text is returned as is", func(t *testing.T) {
		got := annotate([]byte("same\n"), []byte("same\n"), m.KindDeleteExpression)
		if string(got) != "same\n" {
			t.Fatalf("annotate() = %q", string(got))
		}
	})

	t.Run("comment keeps the original line's indentation", func(t *testing.T) {
		original := []byte("\tx = 1;\n")
		mutated := []byte("\tx = 2;\n")

		got := annotate(original, mutated, m.KindAssignmentReplace)
		want := "\t/// assignment-replace of: x = 1;\n\tx = 2;\n"

		if string(got) != want {
			t.Fatalf("annotate() = %q, want %q", string(got), want)
		}
	})
}
