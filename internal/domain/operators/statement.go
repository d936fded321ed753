package operators

import (
	m "mutsol.dev/pkg/mutsol/internal/model"
)

// DeleteExpression neutralizes an expression statement by wrapping its
// bytes in a block comment. The statement boundary survives, so the
// enclosing block still parses.
type DeleteExpression struct{}

// Kind implements Operator.
func (DeleteExpression) Kind() m.OperatorKind { return m.KindDeleteExpression }

// Matches implements Operator.
func (DeleteExpression) Matches(node m.Node) bool {
	return node.NodeType() == "ExpressionStatement"
}

// Rewrites implements Operator.
func (o DeleteExpression) Rewrites(node m.Node, source []byte) ([]m.MutationPoint, error) {
	span, text, err := spanAndText(node, source)
	if err != nil {
		return nil, err
	}

	return []m.MutationPoint{{
		Operator:    o.Kind(),
		NodeID:      node.ID(),
		Rewrites:    []m.Rewrite{{Span: span, Text: "/*" + text + "*/"}},
		Original:    text,
		Replacement: "/*" + text + "*/",
	}}, nil
}

// SwapLines exchanges each adjacent pair of statements in a block.
// Pairs with identical text are skipped.
type SwapLines struct{}

// Kind implements Operator.
func (SwapLines) Kind() m.OperatorKind { return m.KindSwapLines }

// Matches implements Operator.
func (SwapLines) Matches(node m.Node) bool {
	return node.NodeType() == "Block" && len(node.Statements()) > 1
}

// Rewrites implements Operator.
func (o SwapLines) Rewrites(node m.Node, source []byte) ([]m.MutationPoint, error) {
	statements := node.Statements()

	var points []m.MutationPoint

	for i := 0; i+1 < len(statements); i++ {
		firstSpan, firstText, err := spanAndText(statements[i], source)
		if err != nil {
			return nil, err
		}

		secondSpan, secondText, err := spanAndText(statements[i+1], source)
		if err != nil {
			return nil, err
		}

		if firstSpan.End > secondSpan.Start {
			return nil, malformed(node, "statement spans out of order")
		}

		if firstText == secondText {
			continue
		}

		points = append(points, m.MutationPoint{
			Operator: o.Kind(),
			NodeID:   node.ID(),
			Variant:  len(points),
			Rewrites: []m.Rewrite{
				{Span: firstSpan, Text: secondText},
				{Span: secondSpan, Text: firstText},
			},
			Original:    firstText,
			Replacement: secondText,
		})
	}

	return points, nil
}
