package operators

import (
	"strings"

	m "mutsol.dev/pkg/mutsol/internal/model"
)

// AssignmentReplace substitutes an assignment's right-hand side with
// sentinel literals. The literal set follows the operand type where
// the AST names one; anything else gets the whole set and the compiler
// filters the nonsense afterwards.
type AssignmentReplace struct{}

// Kind implements Operator.
func (AssignmentReplace) Kind() m.OperatorKind { return m.KindAssignmentReplace }

// Matches implements Operator.
func (AssignmentReplace) Matches(node m.Node) bool {
	return node.NodeType() == "Assignment" && node.RightHandSide().Valid()
}

// Rewrites implements Operator.
func (o AssignmentReplace) Rewrites(node m.Node, source []byte) ([]m.MutationPoint, error) {
	rhs := node.RightHandSide()

	span, text, err := spanAndText(rhs, source)
	if err != nil {
		return nil, err
	}

	var points []m.MutationPoint

	for _, lit := range sentinelsFor(rhs.TypeString()) {
		if lit == text {
			continue
		}

		points = append(points, m.MutationPoint{
			Operator:    o.Kind(),
			NodeID:      node.ID(),
			Variant:     len(points),
			Rewrites:    []m.Rewrite{{Span: span, Text: lit}},
			Original:    text,
			Replacement: lit,
		})
	}

	return points, nil
}

// sentinelsFor picks replacement literals for a typeString. Integer
// constants read as "int_const N", so the int prefix check covers
// them too.
func sentinelsFor(typeString string) []string {
	switch {
	case strings.HasPrefix(typeString, "bool"):
		return []string{"true", "false"}
	case strings.HasPrefix(typeString, "uint"), strings.HasPrefix(typeString, "int"):
		return []string{"0", "1"}
	default:
		return []string{"0", "1", "true", "false"}
	}
}
