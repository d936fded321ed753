package operators

import (
	m "mutsol.dev/pkg/mutsol/internal/model"
)

// IfConditionNegate wraps an if-statement condition in a logical
// negation, flipping which branch runs.
type IfConditionNegate struct{}

// Kind implements Operator.
func (IfConditionNegate) Kind() m.OperatorKind { return m.KindIfConditionNegate }

// Matches implements Operator.
func (IfConditionNegate) Matches(node m.Node) bool {
	return node.NodeType() == "IfStatement" && node.Condition().Valid()
}

// Rewrites implements Operator.
func (o IfConditionNegate) Rewrites(node m.Node, source []byte) ([]m.MutationPoint, error) {
	span, text, err := spanAndText(node.Condition(), source)
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
