// Package domain contains the core mutation generation pipeline.
package domain

import (
	"context"
	"errors"
	"log/slog"

	"mutsol.dev/pkg/mutsol/internal/domain/operators"
	m "mutsol.dev/pkg/mutsol/internal/model"
)

// TargetFilter narrows discovery to one contract and/or a set of
// function names. Zero values leave the corresponding dimension open.
type TargetFilter struct {
	Contract  string
	Functions []string
}

// Locator walks a parsed source unit and enumerates every mutation
// point the configured operators offer. Output order is canonical:
// nodes in sorted-key pre-order, operators in catalog order, variants
// in enumeration order. Everything downstream (numbering, sampling)
// leans on that order being stable.
type Locator interface {
	Locate(ctx context.Context, unit m.SourceUnit) ([]m.MutationPoint, int, error)
}

type locator struct {
	operators []operators.Operator
	filter    TargetFilter
}

// NewLocator constructs a Locator over the given operator set.
func NewLocator(ops []operators.Operator, filter TargetFilter) Locator {
	return &locator{operators: ops, filter: filter}
}

// Locate returns the discovered points and the number of nodes skipped
// as malformed.
func (l *locator) Locate(ctx context.Context, unit m.SourceUnit) ([]m.MutationPoint, int, error) {
	state := &locateState{unit: unit}

	if err := l.walk(ctx, unit.AST, "", l.filter.open(), state); err != nil {
		return nil, state.malformed, err
	}

	return state.points, state.malformed, nil
}

type locateState struct {
	unit      m.SourceUnit
	points    []m.MutationPoint
	malformed int
}

// open reports whether the filter accepts everything up front.
func (f TargetFilter) open() bool {
	return f.Contract == "" && len(f.Functions) == 0
}

// accepts decides whether this node switches collection on. Contract
// context is the name propagated from the nearest enclosing node that
// carries a contractKind marker.
func (f TargetFilter) accepts(node m.Node, contract string) bool {
	contractOK := f.Contract == "" || contract == f.Contract

	if len(f.Functions) == 0 {
		return contractOK
	}

	if node.NodeType() != "FunctionDefinition" {
		return false
	}

	name, ok := node.Name()
	if !ok {
		return false
	}

	for _, fn := range f.Functions {
		if fn == name {
			return contractOK
		}
	}

	return false
}

// walk visits the node, then recurses into object values in sorted key
// order and array elements in index order. The accepted flag is
// sticky: once a node passes the filter, its whole subtree collects.
func (l *locator) walk(ctx context.Context, node m.Node, contract string, accepted bool, state *locateState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !node.Valid() {
		return nil
	}

	if !accepted && l.filter.accepts(node, contract) {
		accepted = true
	}

	if accepted && node.IsObject() {
		l.visit(node, state)
	}

	switch {
	case node.IsObject():
		if name, ok := node.ContractName(); ok {
			contract = name
		}

		for _, key := range node.SortedKeys() {
			if err := l.walk(ctx, node.Get(key), contract, accepted, state); err != nil {
				return err
			}
		}
	case node.IsArray():
		for _, elem := range node.Elems() {
			if err := l.walk(ctx, elem, contract, accepted, state); err != nil {
				return err
			}
		}
	}

	return nil
}

// visit runs every matching operator against the node. Malformed nodes
// are counted and skipped; a bad span never aborts the file.
func (l *locator) visit(node m.Node, state *locateState) {
	for _, op := range l.operators {
		if !op.Matches(node) {
			continue
		}

		points, err := op.Rewrites(node, state.unit.Text)
		if err != nil {
			state.malformed++

			var malformedErr *m.MalformedNodeError
			if errors.As(err, &malformedErr) {
				slog.Debug("Skipping malformed node",
					"file", state.unit.ID, "operator", op.Kind(),
					"node", malformedErr.NodeID, "reason", malformedErr.Reason)
			} else {
				slog.Debug("Skipping node after rewrite error",
					"file", state.unit.ID, "operator", op.Kind(), "error", err)
			}

			continue
		}

		for _, point := range points {
			if !spansWithinNode(point, node, len(state.unit.Text)) {
				state.malformed++
				slog.Debug("Skipping point with out-of-bounds span",
					"file", state.unit.ID, "operator", op.Kind(), "node", node.ID())

				continue
			}

			state.points = append(state.points, point)
		}
	}
}

// spansWithinNode checks that every rewrite stays inside both the
// source text and the matched node's own span.
func spansWithinNode(point m.MutationPoint, node m.Node, textLen int) bool {
	nodeSpan, err := node.SrcSpan()
	if err != nil {
		return false
	}

	for _, span := range point.Spans() {
		if !span.WithinText(textLen) || !nodeSpan.Contains(span) {
			return false
		}
	}

	return true
}
