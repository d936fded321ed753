package operators

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	m "mutsol.dev/pkg/mutsol/internal/model"
)

func TestBinaryOperatorSwapArithmetic(t *testing.T) {
	source := "uint c = a1 + b2;"
	node := binaryNode(t, source, "a1 + b2", "a1", "+", "b2")

	op := BinaryOperatorSwap{}
	if !op.Matches(node) {
		t.Fatalf("Matches() = false for arithmetic binary operation")
	}

	points, err := op.Rewrites(node, []byte(source))
	if err != nil {
		t.Fatalf("Rewrites() error = %v", err)
	}

	wantOps := []string{"-", "*", "/", "%", "**"}
	if len(points) != len(wantOps) {
		t.Fatalf("got %d variants, want %d", len(points), len(wantOps))
	}

	gap := m.Span{Start: strings.Index(source, "a1") + 2, End: strings.Index(source, "b2")}

	for i, p := range points {
		if p.Variant != i {
			t.Errorf("variant %d numbered %d", i, p.Variant)
		}

		if p.Replacement != wantOps[i] {
			t.Errorf("variant %d replacement = %q, want %q", i, p.Replacement, wantOps[i])
		}

		if p.Replacement == "+" {
			t.Errorf("variant %d reintroduces the original operator", i)
		}

		if len(p.Rewrites) != 1 || p.Rewrites[0].Span != gap {
			t.Errorf("variant %d rewrites = %+v, want single rewrite of %v", i, p.Rewrites, gap)
		}

		if p.Rewrites[0].Text != " "+wantOps[i]+" " {
			t.Errorf("variant %d text = %q", i, p.Rewrites[0].Text)
		}
	}
}

func TestBinaryOperatorSwapComparison(t *testing.T) {
	source := "bool c = a1 < b2;"
	node := binaryNode(t, source, "a1 < b2", "a1", "<", "b2")

	points, err := (BinaryOperatorSwap{}).Rewrites(node, []byte(source))
	if err != nil {
		t.Fatalf("Rewrites() error = %v", err)
	}

	got := make([]string, len(points))
	for i, p := range points {
		got[i] = p.Replacement
	}

	want := []string{">", "<=", ">=", "==", "!="}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("comparison variants = %v, want %v", got, want)
	}
}

func TestBinaryOperatorSwapMatches(t *testing.T) {
	op := BinaryOperatorSwap{}

	tests := []struct {
		name string
		node m.Node
		want bool
	}{
		{
			"logical operator",
			m.NewNode(map[string]any{"nodeType": "BinaryOperation", "operator": "&&"}),
			true,
		},
		{
			"bitwise operator",
			m.NewNode(map[string]any{"nodeType": "BinaryOperation", "operator": ">>"}),
			true,
		},
		{
			"operator outside every class",
			m.NewNode(map[string]any{"nodeType": "BinaryOperation", "operator": "="}),
			false,
		},
		{
			"missing operator",
			m.NewNode(map[string]any{"nodeType": "BinaryOperation"}),
			false,
		},
		{
			"wrong node type",
			m.NewNode(map[string]any{"nodeType": "UnaryOperation", "operator": "+"}),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := op.Matches(tt.node); got != tt.want {
				t.Fatalf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBinaryOperatorSwapMalformedOperands(t *testing.T) {
	source := "uint c = a1 + b2;"

	// Operand spans deliberately reversed against the expression span.
	raw := map[string]any{
		"id":              float64(1),
		"nodeType":        "BinaryOperation",
		"operator":        "+",
		"src":             srcField(t, source, "a1 + b2"),
		"leftExpression":  map[string]any{"id": float64(2), "nodeType": "Identifier", "src": srcField(t, source, "b2")},
		"rightExpression": map[string]any{"id": float64(3), "nodeType": "Identifier", "src": srcField(t, source, "a1")},
	}

	_, err := (BinaryOperatorSwap{}).Rewrites(m.NewNode(raw), []byte(source))

	var malformedErr *m.MalformedNodeError
	if !errors.As(err, &malformedErr) {
		t.Fatalf("Rewrites() error = %v, want MalformedNodeError", err)
	}
}

func TestSwapOperatorArguments(t *testing.T) {
	source := "uint c = a1 ** b2;"
	node := binaryNode(t, source, "a1 ** b2", "a1", "**", "b2")

	op := SwapOperatorArguments{}
	if !op.Matches(node) {
		t.Fatalf("Matches() = false for binary operation")
	}

	points, err := op.Rewrites(node, []byte(source))
	if err != nil {
		t.Fatalf("Rewrites() error = %v", err)
	}

	if len(points) != 1 || len(points[0].Rewrites) != 2 {
		t.Fatalf("points = %+v, want one point with two rewrites", points)
	}

	if got := applyRewrites(source, points[0]); got != "uint c = b2 ** a1;" {
		t.Fatalf("applied swap = %q, want %q", got, "uint c = b2 ** a1;")
	}
}

func TestSwapOperatorArgumentsIdenticalOperands(t *testing.T) {
	source := "uint c = a1 + a1;"
	node := binaryNode(t, source, "a1 + a1", "a1", "+", "a1")

	points, err := (SwapOperatorArguments{}).Rewrites(node, []byte(source))
	if err != nil {
		t.Fatalf("Rewrites() error = %v", err)
	}

	if len(points) != 0 {
		t.Fatalf("identical operands should produce no variants, got %d", len(points))
	}
}

// srcField renders the src attribute for the first occurrence of sub
// inside source. Used by the operator tests across this package.
func srcField(t *testing.T, source, sub string) string {
	t.Helper()

	idx := strings.Index(source, sub)
	if idx < 0 {
		t.Fatalf("%q not found in %q", sub, source)
	}

	return fmt.Sprintf("%d:%d:0", idx, len(sub))
}

// lastSrcField is srcField for the last occurrence.
func lastSrcField(t *testing.T, source, sub string) string {
	t.Helper()

	idx := strings.LastIndex(source, sub)
	if idx < 0 {
		t.Fatalf("%q not found in %q", sub, source)
	}

	return fmt.Sprintf("%d:%d:0", idx, len(sub))
}

// binaryNode builds a BinaryOperation AST fragment whose spans point
// into source. The right operand resolves from the end of the text so
// `a1 + a1` style sources stay unambiguous.
func binaryNode(t *testing.T, source, expr, left, operator, right string) m.Node {
	t.Helper()

	return m.NewNode(map[string]any{
		"id":       float64(1),
		"nodeType": "BinaryOperation",
		"operator": operator,
		"src":      srcField(t, source, expr),
		"leftExpression": map[string]any{
			"id": float64(2), "nodeType": "Identifier", "name": left,
			"src": srcField(t, source, left),
		},
		"rightExpression": map[string]any{
			"id": float64(3), "nodeType": "Identifier", "name": right,
			"src": lastSrcField(t, source, right),
		},
	})
}

// applyRewrites splices a point's rewrites into source, last span
// first, mirroring what the applier does.
func applyRewrites(source string, point m.MutationPoint) string {
	rewrites := append([]m.Rewrite(nil), point.Rewrites...)

	for i := 0; i < len(rewrites); i++ {
		for j := i + 1; j < len(rewrites); j++ {
			if rewrites[j].Span.Start > rewrites[i].Span.Start {
				rewrites[i], rewrites[j] = rewrites[j], rewrites[i]
			}
		}
	}

	out := source
	for _, r := range rewrites {
		out = out[:r.Span.Start] + r.Text + out[r.Span.End:]
	}

	return out
}
