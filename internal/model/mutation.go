// Package model defines the data structures for mutant generation.
package model

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// OperatorKind names one member of the closed mutation catalog. The
// string form doubles as the CLI/config spelling.
type OperatorKind string

const (
	// KindBinaryOperatorSwap replaces a binary operator with each other
	// member of its equivalence class.
	KindBinaryOperatorSwap OperatorKind = "binary-operator-swap"
	// KindUnaryOperatorSwap swaps increment/decrement operators and
	// their prefix/postfix position, and deletes bitwise negation.
	KindUnaryOperatorSwap OperatorKind = "unary-operator-swap"
	// KindRequireConditionNegate negates the condition of require and
	// assert calls.
	KindRequireConditionNegate OperatorKind = "require-condition-negate"
	// KindAssignmentReplace replaces an assignment's right-hand side
	// with sentinel literals.
	KindAssignmentReplace OperatorKind = "assignment-replace"
	// KindDeleteExpression comments out an expression statement.
	KindDeleteExpression OperatorKind = "delete-expression"
	// KindFunctionCallReplace replaces a call with one of its own
	// arguments.
	KindFunctionCallReplace OperatorKind = "function-call-replace"
	// KindIfConditionNegate negates an if-statement condition.
	KindIfConditionNegate OperatorKind = "if-condition-negate"
	// KindSwapFunctionArguments swaps two arguments of a call.
	KindSwapFunctionArguments OperatorKind = "swap-function-arguments"
	// KindSwapOperatorArguments swaps the operands of a binary
	// expression.
	KindSwapOperatorArguments OperatorKind = "swap-operator-arguments"
	// KindSwapLines swaps two adjacent statements in a block.
	KindSwapLines OperatorKind = "swap-lines"
	// KindEliminateDelegateCall turns a delegatecall into a plain call.
	KindEliminateDelegateCall OperatorKind = "eliminate-delegate-call"
)

// Rewrite pairs one span of the original text with its replacement.
type Rewrite struct {
	Span Span
	Text string
}

// MutationPoint is one located, not-yet-applied opportunity to mutate:
// the operator that matched, the node it matched on, and one
// enumerated rewrite variant. Swap operators carry two disjoint
// rewrites; everything else carries one.
type MutationPoint struct {
	Operator    OperatorKind
	NodeID      int64
	Variant     int
	Rewrites    []Rewrite
	Original    string
	Replacement string
}

// Spans returns the byte ranges the point touches.
func (p MutationPoint) Spans() []Span {
	spans := make([]Span, len(p.Rewrites))
	for i, r := range p.Rewrites {
		spans[i] = r.Span
	}

	return spans
}

// Describe renders the one-line human description of the point.
func (p MutationPoint) Describe(unit SourceUnit) string {
	offset := len(unit.Text)
	for _, r := range p.Rewrites {
		if r.Span.Start < offset {
			offset = r.Span.Start
		}
	}

	line, col := LineCol(unit.Text, offset)

	return fmt.Sprintf("%s %s:%d:%d: %q -> %q",
		p.Operator, unit.ID, line, col, p.Original, p.Replacement)
}

// Validity classifies a candidate against the compiler.
type Validity int

const (
	// Unchecked means the candidate has not been compiled yet.
	Unchecked Validity = iota
	// Valid means the compiler accepted the candidate.
	Valid
	// Invalid means the compiler rejected the candidate.
	Invalid
)

// String returns the lower-case name of the validity state.
func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unchecked"
	}
}

// Mutant is one full candidate source produced by applying a single
// MutationPoint. Stages never modify a Mutant in place; validation
// returns a copy with Validity set, and it is never recomputed.
type Mutant struct {
	Unit     Path
	Point    MutationPoint
	Text     []byte
	Validity Validity
	Hash     string
}

// ContentHash fingerprints candidate text for deduplication. Line
// endings are canonicalized to LF; nothing else is normalized.
func ContentHash(text []byte) string {
	norm := bytes.ReplaceAll(text, []byte("\r\n"), []byte("\n"))
	norm = bytes.ReplaceAll(norm, []byte{'\r'}, []byte{'\n'})
	sum := sha256.Sum256(norm)

	return hex.EncodeToString(sum[:])
}
