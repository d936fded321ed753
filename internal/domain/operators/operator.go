// Package operators provides the closed catalog of Solidity mutation
// operators. Every operator pairs a site predicate with a rewrite
// enumerator; adding an operator means adding a type here and a line
// to Catalog, nothing else.
package operators

import (
	"fmt"
	"strings"

	m "mutsol.dev/pkg/mutsol/internal/model"
)

// Operator is one member of the mutation catalog. Implementations are
// pure: they read the node and the source bytes and never mutate
// either. Rewrites enumerates every variant the operator offers for a
// matched node; it must never emit a rewrite that reproduces the
// original text.
type Operator interface {
	Kind() m.OperatorKind
	Matches(node m.Node) bool
	Rewrites(node m.Node, source []byte) ([]m.MutationPoint, error)
}

// Catalog returns the full operator set in registration order. The
// order is load-bearing: the locator uses it to break ties between
// operators matching the same node, which keeps discovery output
// reproducible.
func Catalog() []Operator {
	return []Operator{
		BinaryOperatorSwap{},
		UnaryOperatorSwap{},
		RequireConditionNegate{},
		AssignmentReplace{},
		DeleteExpression{},
		FunctionCallReplace{},
		IfConditionNegate{},
		SwapFunctionArguments{},
		SwapOperatorArguments{},
		SwapLines{},
		EliminateDelegateCall{},
	}
}

// Kinds returns the operator kinds in registration order.
func Kinds() []m.OperatorKind {
	catalog := Catalog()

	kinds := make([]m.OperatorKind, len(catalog))
	for i, op := range catalog {
		kinds[i] = op.Kind()
	}

	return kinds
}

// Select filters the catalog down to the requested kinds, preserving
// registration order. An empty request selects everything.
func Select(kinds []m.OperatorKind) ([]Operator, error) {
	if len(kinds) == 0 {
		return Catalog(), nil
	}

	requested := make(map[m.OperatorKind]bool, len(kinds))
	for _, k := range kinds {
		requested[k] = true
	}

	var selected []Operator

	for _, op := range Catalog() {
		if requested[op.Kind()] {
			selected = append(selected, op)
			delete(requested, op.Kind())
		}
	}

	for k := range requested {
		return nil, fmt.Errorf("unknown operator %q", k)
	}

	return selected, nil
}

// Parse converts CLI or config spellings into operator kinds.
func Parse(names []string) ([]m.OperatorKind, error) {
	known := make(map[string]m.OperatorKind)
	for _, k := range Kinds() {
		known[string(k)] = k
	}

	kinds := make([]m.OperatorKind, 0, len(names))

	for _, name := range names {
		k, ok := known[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown operator %q (known: %s)", name, strings.Join(knownNames(), ", "))
		}

		kinds = append(kinds, k)
	}

	return kinds, nil
}

func knownNames() []string {
	kinds := Kinds()

	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}

	return names
}
