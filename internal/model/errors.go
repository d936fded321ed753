package model

import "fmt"

// ParseError reports that the compiler rejected an input file. It is
// fatal for that file only; the run continues with remaining inputs.
type ParseError struct {
	Path   Path
	Stderr string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: compiler rejected input", e.Path)
}

// MalformedNodeError reports an AST node whose recorded byte ranges
// are unusable. The node is skipped and traversal continues.
type MalformedNodeError struct {
	NodeID int64
	Reason string
}

func (e *MalformedNodeError) Error() string {
	return fmt.Sprintf("malformed node %d: %s", e.NodeID, e.Reason)
}

// CompileFailedError carries ordinary compiler diagnostics for a
// candidate. It is an expected outcome, not a run failure: the
// candidate is classified invalid and dropped.
type CompileFailedError struct {
	Stderr string
}

func (e *CompileFailedError) Error() string {
	return "candidate failed to compile"
}

// CompilerUnavailableError reports that the compiler binary is missing
// or died abnormally. Validity cannot be decided without it, so it
// aborts the whole run.
type CompilerUnavailableError struct {
	Binary string
	Cause  error
}

func (e *CompilerUnavailableError) Error() string {
	return fmt.Sprintf("compiler %q unavailable: %v", e.Binary, e.Cause)
}

func (e *CompilerUnavailableError) Unwrap() error { return e.Cause }
