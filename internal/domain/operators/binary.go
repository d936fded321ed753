package operators

import (
	m "mutsol.dev/pkg/mutsol/internal/model"
)

// operatorClasses are the equivalence classes a binary operator may be
// swapped within. A swap never crosses class boundaries.
var operatorClasses = [][]string{
	{"+", "-", "*", "/", "%", "**"},
	{"<", ">", "<=", ">=", "==", "!="},
	{"&&", "||"},
	{"&", "|", "^", "<<", ">>"},
}

func classOf(op string) []string {
	for _, class := range operatorClasses {
		for _, member := range class {
			if member == op {
				return class
			}
		}
	}

	return nil
}

// BinaryOperatorSwap replaces the operator of a binary expression with
// each other member of its equivalence class. The rewrite covers the
// bytes between the operands and carries the new token padded with one
// space on each side.
type BinaryOperatorSwap struct{}

// Kind implements Operator.
func (BinaryOperatorSwap) Kind() m.OperatorKind { return m.KindBinaryOperatorSwap }

// Matches implements Operator.
func (BinaryOperatorSwap) Matches(node m.Node) bool {
	if node.NodeType() != "BinaryOperation" {
		return false
	}

	op, ok := node.Operator()

	return ok && classOf(op) != nil
}

// Rewrites implements Operator.
func (o BinaryOperatorSwap) Rewrites(node m.Node, source []byte) ([]m.MutationPoint, error) {
	op, _ := node.Operator()

	nodeSpan, _, err := spanAndText(node, source)
	if err != nil {
		return nil, err
	}

	leftSpan, _, err := spanAndText(node.LeftExpression(), source)
	if err != nil {
		return nil, err
	}

	rightSpan, _, err := spanAndText(node.RightExpression(), source)
	if err != nil {
		return nil, err
	}

	gap := m.Span{Start: leftSpan.End, End: rightSpan.Start}
	if gap.Start > gap.End || !nodeSpan.Contains(gap) {
		return nil, malformed(node, "operand spans inconsistent with expression span")
	}

	var points []m.MutationPoint

	for _, alt := range classOf(op) {
		if alt == op {
			continue
		}

		points = append(points, m.MutationPoint{
			Operator:    o.Kind(),
			NodeID:      node.ID(),
			Variant:     len(points),
			Rewrites:    []m.Rewrite{{Span: gap, Text: " " + alt + " "}},
			Original:    op,
			Replacement: alt,
		})
	}

	return points, nil
}

// SwapOperatorArguments swaps the two operand spans of a binary
// expression. Operands with identical text are skipped, the swap would
// be a no-op.
type SwapOperatorArguments struct{}

// Kind implements Operator.
func (SwapOperatorArguments) Kind() m.OperatorKind { return m.KindSwapOperatorArguments }

// Matches implements Operator.
func (SwapOperatorArguments) Matches(node m.Node) bool {
	return node.NodeType() == "BinaryOperation"
}

// Rewrites implements Operator.
func (o SwapOperatorArguments) Rewrites(node m.Node, source []byte) ([]m.MutationPoint, error) {
	leftSpan, leftText, err := spanAndText(node.LeftExpression(), source)
	if err != nil {
		return nil, err
	}

	rightSpan, rightText, err := spanAndText(node.RightExpression(), source)
	if err != nil {
		return nil, err
	}

	if leftSpan.End > rightSpan.Start {
		return nil, malformed(node, "operand spans out of order")
	}

	if leftText == rightText {
		return nil, nil
	}

	return []m.MutationPoint{{
		Operator: o.Kind(),
		NodeID:   node.ID(),
		Rewrites: []m.Rewrite{
			{Span: leftSpan, Text: rightText},
			{Span: rightSpan, Text: leftText},
		},
		Original:    leftText,
		Replacement: rightText,
	}}, nil
}
