package operators

import (
	m "mutsol.dev/pkg/mutsol/internal/model"
)

// FunctionCallReplace substitutes a whole call expression with one of
// its own arguments, one variant per argument. No type inference is
// attempted here; candidates that do not fit the surrounding
// expression fail compilation and are discarded there.
type FunctionCallReplace struct{}

// Kind implements Operator.
func (FunctionCallReplace) Kind() m.OperatorKind { return m.KindFunctionCallReplace }

// Matches implements Operator.
func (FunctionCallReplace) Matches(node m.Node) bool {
	return node.NodeType() == "FunctionCall" && len(node.Arguments()) > 0
}

// Rewrites implements Operator.
func (o FunctionCallReplace) Rewrites(node m.Node, source []byte) ([]m.MutationPoint, error) {
	span, text, err := spanAndText(node, source)
	if err != nil {
		return nil, err
	}

	var points []m.MutationPoint

	for _, arg := range node.Arguments() {
		_, argText, err := spanAndText(arg, source)
		if err != nil {
			return nil, err
		}

		if argText == text {
			continue
		}

		points = append(points, m.MutationPoint{
			Operator:    o.Kind(),
			NodeID:      node.ID(),
			Variant:     len(points),
			Rewrites:    []m.Rewrite{{Span: span, Text: argText}},
			Original:    text,
			Replacement: argText,
		})
	}

	return points, nil
}

// SwapFunctionArguments exchanges two arguments of a call, one variant
// per unordered pair. Identical-text pairs are skipped.
type SwapFunctionArguments struct{}

// Kind implements Operator.
func (SwapFunctionArguments) Kind() m.OperatorKind { return m.KindSwapFunctionArguments }

// Matches implements Operator.
func (SwapFunctionArguments) Matches(node m.Node) bool {
	return node.NodeType() == "FunctionCall" && len(node.Arguments()) > 1
}

// Rewrites implements Operator.
func (o SwapFunctionArguments) Rewrites(node m.Node, source []byte) ([]m.MutationPoint, error) {
	arguments := node.Arguments()

	type resolved struct {
		span m.Span
		text string
	}

	args := make([]resolved, len(arguments))

	for i, arg := range arguments {
		span, text, err := spanAndText(arg, source)
		if err != nil {
			return nil, err
		}

		args[i] = resolved{span: span, text: text}
	}

	var points []m.MutationPoint

	for i := 0; i < len(args); i++ {
		for j := i + 1; j < len(args); j++ {
			if args[i].span.End > args[j].span.Start {
				return nil, malformed(node, "argument spans out of order")
			}

			if args[i].text == args[j].text {
				continue
			}

			points = append(points, m.MutationPoint{
				Operator: o.Kind(),
				NodeID:   node.ID(),
				Variant:  len(points),
				Rewrites: []m.Rewrite{
					{Span: args[i].span, Text: args[j].text},
					{Span: args[j].span, Text: args[i].text},
				},
				Original:    args[i].text,
				Replacement: args[j].text,
			})
		}
	}

	return points, nil
}

// EliminateDelegateCall downgrades a delegatecall to a plain call by
// rewriting the member token after the dot.
type EliminateDelegateCall struct{}

// Kind implements Operator.
func (EliminateDelegateCall) Kind() m.OperatorKind { return m.KindEliminateDelegateCall }

// Matches implements Operator.
func (EliminateDelegateCall) Matches(node m.Node) bool {
	if node.NodeType() != "FunctionCall" {
		return false
	}

	callee := node.Expression()
	if callee.NodeType() != "MemberAccess" {
		return false
	}

	member, ok := callee.MemberName()

	return ok && member == "delegatecall"
}

// Rewrites implements Operator.
func (o EliminateDelegateCall) Rewrites(node m.Node, source []byte) ([]m.MutationPoint, error) {
	callee := node.Expression()

	calleeSpan, _, err := spanAndText(callee, source)
	if err != nil {
		return nil, err
	}

	baseSpan, _, err := spanAndText(callee.Expression(), source)
	if err != nil {
		return nil, err
	}

	// The byte after the base expression is the dot; the member token
	// runs from there to the end of the member access.
	member := m.Span{Start: baseSpan.End + 1, End: calleeSpan.End}
	if member.Start > member.End || !calleeSpan.Contains(member) {
		return nil, malformed(node, "member token span inconsistent with callee span")
	}

	return []m.MutationPoint{{
		Operator:    o.Kind(),
		NodeID:      node.ID(),
		Rewrites:    []m.Rewrite{{Span: member, Text: "call"}},
		Original:    string(source[member.Start:member.End]),
		Replacement: "call",
	}}, nil
}
