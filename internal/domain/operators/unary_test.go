package operators

import (
	"testing"

	m "mutsol.dev/pkg/mutsol/internal/model"
)

func unaryNode(t *testing.T, source, expr, sub, operator string, prefix bool) m.Node {
	t.Helper()

	return m.NewNode(map[string]any{
		"id":       float64(1),
		"nodeType": "UnaryOperation",
		"operator": operator,
		"prefix":   prefix,
		"src":      srcField(t, source, expr),
		"subExpression": map[string]any{
			"id": float64(2), "nodeType": "Identifier", "name": sub,
			"src": srcField(t, source, sub),
		},
	})
}

func TestUnaryOperatorSwapPostfixIncrement(t *testing.T) {
	source := "i1++;"
	node := unaryNode(t, source, "i1++", "i1", "++", false)

	op := UnaryOperatorSwap{}
	if !op.Matches(node) {
		t.Fatalf("Matches() = false for postfix increment")
	}

	points, err := op.Rewrites(node, []byte(source))
	if err != nil {
		t.Fatalf("Rewrites() error = %v", err)
	}

	if len(points) != 2 {
		t.Fatalf("got %d variants, want 2", len(points))
	}

	if got := applyRewrites(source, points[0]); got != "i1--;" {
		t.Fatalf("token swap = %q, want %q", got, "i1--;")
	}

	if got := applyRewrites(source, points[1]); got != "++i1;" {
		t.Fatalf("position swap = %q, want %q", got, "++i1;")
	}
}

func TestUnaryOperatorSwapPrefixDecrement(t *testing.T) {
	source := "--j2;"
	node := unaryNode(t, source, "--j2", "j2", "--", true)

	points, err := (UnaryOperatorSwap{}).Rewrites(node, []byte(source))
	if err != nil {
		t.Fatalf("Rewrites() error = %v", err)
	}

	if len(points) != 2 {
		t.Fatalf("got %d variants, want 2", len(points))
	}

	if got := applyRewrites(source, points[0]); got != "++j2;" {
		t.Fatalf("token swap = %q, want %q", got, "++j2;")
	}

	if got := applyRewrites(source, points[1]); got != "j2--;" {
		t.Fatalf("position swap = %q, want %q", got, "j2--;")
	}
}

func TestUnaryOperatorSwapBitwiseNegation(t *testing.T) {
	source := "x1 = ~f1;"
	node := unaryNode(t, source, "~f1", "f1", "~", true)

	points, err := (UnaryOperatorSwap{}).Rewrites(node, []byte(source))
	if err != nil {
		t.Fatalf("Rewrites() error = %v", err)
	}

	if len(points) != 1 {
		t.Fatalf("got %d variants, want 1", len(points))
	}

	if got := applyRewrites(source, points[0]); got != "x1 = f1;" {
		t.Fatalf("negation delete = %q, want %q", got, "x1 = f1;")
	}
}

func TestUnaryOperatorSwapMatches(t *testing.T) {
	op := UnaryOperatorSwap{}

	deleteOp := m.NewNode(map[string]any{"nodeType": "UnaryOperation", "operator": "delete"})
	if op.Matches(deleteOp) {
		t.Fatalf("Matches() should reject the delete operator")
	}

	not := m.NewNode(map[string]any{"nodeType": "UnaryOperation", "operator": "!"})
	if op.Matches(not) {
		t.Fatalf("Matches() should reject logical negation")
	}
}
