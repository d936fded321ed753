package operators

import (
	"testing"

	m "mutsol.dev/pkg/mutsol/internal/model"
)

func statementMap(id int, src string) map[string]any {
	return map[string]any{
		"id": float64(id), "nodeType": "ExpressionStatement", "src": src,
	}
}

func TestDeleteExpression(t *testing.T) {
	source := "f1();"
	node := m.NewNode(statementMap(1, srcField(t, source, "f1()")))

	op := DeleteExpression{}
	if !op.Matches(node) {
		t.Fatalf("Matches() = false for expression statement")
	}

	points, err := op.Rewrites(node, []byte(source))
	if err != nil {
		t.Fatalf("Rewrites() error = %v", err)
	}

	if len(points) != 1 {
		t.Fatalf("got %d variants, want 1", len(points))
	}

	if got := applyRewrites(source, points[0]); got != "/*f1()*/;" {
		t.Fatalf("applied = %q", got)
	}

	if points[0].Replacement != "/*f1()*/" {
		t.Fatalf("Replacement = %q", points[0].Replacement)
	}
}

func TestSwapLines(t *testing.T) {
	source := "a1(); b2(); c3();"
	node := m.NewNode(map[string]any{
		"id": float64(9), "nodeType": "Block",
		"src": "0:17:0",
		"statements": []any{
			statementMap(1, srcField(t, source, "a1();")),
			statementMap(2, srcField(t, source, "b2();")),
			statementMap(3, srcField(t, source, "c3();")),
		},
	})

	op := SwapLines{}
	if !op.Matches(node) {
		t.Fatalf("Matches() = false for block with three statements")
	}

	points, err := op.Rewrites(node, []byte(source))
	if err != nil {
		t.Fatalf("Rewrites() error = %v", err)
	}

	// One variant per adjacent pair.
	if len(points) != 2 {
		t.Fatalf("got %d variants, want 2", len(points))
	}

	if got := applyRewrites(source, points[0]); got != "b2(); a1(); c3();" {
		t.Fatalf("first swap applied = %q", got)
	}

	if got := applyRewrites(source, points[1]); got != "a1(); c3(); b2();" {
		t.Fatalf("second swap applied = %q", got)
	}
}

func TestSwapLinesIdenticalStatements(t *testing.T) {
	source := "t1(); t1();"
	node := m.NewNode(map[string]any{
		"id": float64(9), "nodeType": "Block",
		"src": "0:11:0",
		"statements": []any{
			statementMap(1, srcField(t, source, "t1();")),
			statementMap(2, lastSrcField(t, source, "t1();")),
		},
	})

	points, err := (SwapLines{}).Rewrites(node, []byte(source))
	if err != nil {
		t.Fatalf("Rewrites() error = %v", err)
	}

	if len(points) != 0 {
		t.Fatalf("got %d variants, want none for identical statements", len(points))
	}
}

func TestSwapLinesMatches(t *testing.T) {
	op := SwapLines{}

	single := m.NewNode(map[string]any{
		"nodeType":   "Block",
		"statements": []any{statementMap(1, "0:5:0")},
	})
	if op.Matches(single) {
		t.Fatalf("Matches() should reject single-statement block")
	}

	if op.Matches(m.NewNode(map[string]any{"nodeType": "IfStatement"})) {
		t.Fatalf("Matches() should reject non-block node")
	}
}
