package operators

import (
	m "mutsol.dev/pkg/mutsol/internal/model"
)

// UnaryOperatorSwap rewrites increment, decrement, and bitwise
// negation: ++ and -- swap with each other and with their mirrored
// position (prefix to postfix and back); ~ is deleted outright. The
// AST's prefix flag decides where the operator token sits, the source
// is never sniffed for it.
type UnaryOperatorSwap struct{}

// Kind implements Operator.
func (UnaryOperatorSwap) Kind() m.OperatorKind { return m.KindUnaryOperatorSwap }

// Matches implements Operator.
func (UnaryOperatorSwap) Matches(node m.Node) bool {
	if node.NodeType() != "UnaryOperation" {
		return false
	}

	op, ok := node.Operator()

	return ok && (op == "++" || op == "--" || op == "~")
}

// Rewrites implements Operator.
func (o UnaryOperatorSwap) Rewrites(node m.Node, source []byte) ([]m.MutationPoint, error) {
	op, _ := node.Operator()

	span, text, err := spanAndText(node, source)
	if err != nil {
		return nil, err
	}

	if span.Len() < len(op) {
		return nil, malformed(node, "span shorter than its operator token")
	}

	if op == "~" {
		// ~ is always prefix; deleting the token leaves the operand.
		return []m.MutationPoint{{
			Operator:    o.Kind(),
			NodeID:      node.ID(),
			Rewrites:    []m.Rewrite{{Span: m.Span{Start: span.Start, End: span.Start + 1}, Text: ""}},
			Original:    op,
			Replacement: "",
		}}, nil
	}

	other := "--"
	if op == "--" {
		other = "++"
	}

	token := m.Span{Start: span.End - len(op), End: span.End}
	if node.Prefix() {
		token = m.Span{Start: span.Start, End: span.Start + len(op)}
	}

	points := []m.MutationPoint{{
		Operator:    o.Kind(),
		NodeID:      node.ID(),
		Variant:     0,
		Rewrites:    []m.Rewrite{{Span: token, Text: other}},
		Original:    op,
		Replacement: other,
	}}

	_, subText, err := spanAndText(node.Get("subExpression"), source)
	if err != nil {
		return nil, err
	}

	// Mirror the operator position, keeping the token.
	mirrored := subText + op
	if !node.Prefix() {
		mirrored = op + subText
	}

	if mirrored != text {
		points = append(points, m.MutationPoint{
			Operator:    o.Kind(),
			NodeID:      node.ID(),
			Variant:     1,
			Rewrites:    []m.Rewrite{{Span: span, Text: mirrored}},
			Original:    text,
			Replacement: mirrored,
		})
	}

	return points, nil
}
