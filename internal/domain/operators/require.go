package operators

import (
	m "mutsol.dev/pkg/mutsol/internal/model"
)

// RequireConditionNegate wraps the condition argument of require and
// assert calls in a logical negation.
type RequireConditionNegate struct{}

// Kind implements Operator.
func (RequireConditionNegate) Kind() m.OperatorKind { return m.KindRequireConditionNegate }

// Matches implements Operator.
func (RequireConditionNegate) Matches(node m.Node) bool {
	if node.NodeType() != "FunctionCall" {
		return false
	}

	name, ok := node.Expression().Name()
	if !ok || (name != "require" && name != "assert") {
		return false
	}

	return len(node.Arguments()) > 0
}

// Rewrites implements Operator.
func (o RequireConditionNegate) Rewrites(node m.Node, source []byte) ([]m.MutationPoint, error) {
	condition := node.Arguments()[0]

	span, text, err := spanAndText(condition, source)
	if err != nil {
		return nil, err
	}

	return []m.MutationPoint{{
		Operator:    o.Kind(),
		NodeID:      node.ID(),
		Rewrites:    []m.Rewrite{{Span: span, Text: negate(text)}},
		Original:    text,
		Replacement: negate(text),
	}}, nil
}
