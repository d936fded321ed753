package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	m "mutsol.dev/pkg/mutsol/internal/model"
)

// DefaultCompileTimeout bounds a single compiler invocation.
const DefaultCompileTimeout = 30 * time.Second

// SolcAdapter wraps the external Solidity compiler. Parsing and
// validity checking both shell out to the configured binary so the
// engine stays independent of any particular solc release.
type SolcAdapter interface {
	// Parse compiles the file to its compact AST and returns the root node.
	Parse(ctx context.Context, path m.Path) (m.Node, error)

	// Compile runs a plain compile of the file. A nil error means the
	// compiler accepted the input.
	Compile(ctx context.Context, path m.Path) error

	// Version reports the compiler version string.
	Version(ctx context.Context) (string, error)
}

// LocalSolcAdapter invokes a solc binary found on the local system.
type LocalSolcAdapter struct {
	binary     string
	basePath   string
	remappings []string
	timeout    time.Duration
}

// NewLocalSolcAdapter constructs a LocalSolcAdapter. An empty binary
// falls back to "solc" on PATH; a zero timeout falls back to
// DefaultCompileTimeout.
func NewLocalSolcAdapter(binary, basePath string, remappings []string, timeout time.Duration) *LocalSolcAdapter {
	if binary == "" {
		binary = "solc"
	}

	if timeout <= 0 {
		timeout = DefaultCompileTimeout
	}

	return &LocalSolcAdapter{
		binary:     binary,
		basePath:   basePath,
		remappings: remappings,
		timeout:    timeout,
	}
}

// Parse compiles path with --ast-compact-json into a scratch directory
// and decodes the emitted AST file.
func (a *LocalSolcAdapter) Parse(ctx context.Context, path m.Path) (m.Node, error) {
	outDir, err := os.MkdirTemp("", "mutsol-ast-*")
	if err != nil {
		return m.Node{}, fmt.Errorf("create ast dir: %w", err)
	}

	defer func() { _ = os.RemoveAll(outDir) }()

	args := []string{"--ast-compact-json", string(path), "-o", outDir, "--overwrite"}
	args = append(args, a.pathArgs()...)

	if _, stderr, err := a.run(ctx, args); err != nil {
		if ctx.Err() != nil {
			return m.Node{}, err
		}

		if unavailable := a.asUnavailable(err); unavailable != nil {
			return m.Node{}, unavailable
		}

		return m.Node{}, &m.ParseError{Path: path, Stderr: stderr}
	}

	// The compiler names the AST file after the full source file name.
	astPath := filepath.Join(outDir, filepath.Base(string(path))+"_json.ast")

	data, err := os.ReadFile(astPath)
	if err != nil {
		return m.Node{}, &m.ParseError{Path: path, Stderr: fmt.Sprintf("ast output missing: %v", err)}
	}

	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return m.Node{}, &m.ParseError{Path: path, Stderr: fmt.Sprintf("ast output malformed: %v", err)}
	}

	return m.NewNode(root), nil
}

// Compile runs the compiler over path and reports acceptance.
func (a *LocalSolcAdapter) Compile(ctx context.Context, path m.Path) error {
	args := append([]string{string(path)}, a.pathArgs()...)

	if _, stderr, err := a.run(ctx, args); err != nil {
		if ctx.Err() != nil {
			return err
		}

		if unavailable := a.asUnavailable(err); unavailable != nil {
			return unavailable
		}

		return &m.CompileFailedError{Stderr: stderr}
	}

	return nil
}

// Version reports the compiler version string.
func (a *LocalSolcAdapter) Version(ctx context.Context) (string, error) {
	stdout, _, err := a.run(ctx, []string{"--version"})
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}

		if unavailable := a.asUnavailable(err); unavailable != nil {
			return "", unavailable
		}

		return "", fmt.Errorf("%s --version: %w", a.binary, err)
	}

	for _, line := range strings.Split(stdout, "\n") {
		if version, ok := strings.CutPrefix(strings.TrimSpace(line), "Version: "); ok {
			return version, nil
		}
	}

	return strings.TrimSpace(stdout), nil
}

func (a *LocalSolcAdapter) pathArgs() []string {
	var args []string

	if a.basePath != "" {
		args = append(args, "--base-path", a.basePath)
	}

	return append(args, a.remappings...)
}

func (a *LocalSolcAdapter) run(ctx context.Context, args []string) (string, string, error) {
	runCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, a.binary, args...)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		// A killed process only reports "signal: killed"; surface what
		// actually ended the run.
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		} else if runCtx.Err() != nil {
			fmt.Fprintf(&stderr, "compiler timed out after %s", a.timeout)
		}
	}

	return stdout.String(), stderr.String(), err
}

// asUnavailable distinguishes a missing or unrunnable compiler from an
// input the compiler rejected. Lookup failures and nonexistent binary
// paths both count as unavailable.
func (a *LocalSolcAdapter) asUnavailable(err error) error {
	var execErr *exec.Error

	if errors.As(err, &execErr) || errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return &m.CompilerUnavailableError{Binary: a.binary, Cause: err}
	}

	return nil
}
