package operators

import (
	"testing"

	m "mutsol.dev/pkg/mutsol/internal/model"
)

func TestIfConditionNegate(t *testing.T) {
	source := "if (c1 > 0) { f1(); }"

	node := m.NewNode(map[string]any{
		"id": float64(1), "nodeType": "IfStatement",
		"src": srcField(t, source, "if (c1 > 0)"),
		"condition": map[string]any{
			"id": float64(2), "nodeType": "BinaryOperation",
			"operator": ">",
			"src":      srcField(t, source, "c1 > 0"),
		},
	})

	op := IfConditionNegate{}
	if !op.Matches(node) {
		t.Fatalf("Matches() = false for if statement")
	}

	points, err := op.Rewrites(node, []byte(source))
	if err != nil {
		t.Fatalf("Rewrites() error = %v", err)
	}

	if len(points) != 1 {
		t.Fatalf("got %d variants, want 1", len(points))
	}

	if points[0].Replacement != "!(c1 > 0)" {
		t.Fatalf("Replacement = %q", points[0].Replacement)
	}

	if got := applyRewrites(source, points[0]); got != "if (!(c1 > 0)) { f1(); }" {
		t.Fatalf("applied = %q", got)
	}
}

func TestIfConditionNegateMatches(t *testing.T) {
	op := IfConditionNegate{}

	if op.Matches(m.NewNode(map[string]any{"nodeType": "IfStatement"})) {
		t.Fatalf("Matches() should reject if statement without condition")
	}

	if op.Matches(m.NewNode(map[string]any{"nodeType": "WhileStatement"})) {
		t.Fatalf("Matches() should reject non-if node")
	}
}
