package model

import "testing"

func binaryOpNode() map[string]any {
	return map[string]any{
		"id":       float64(7),
		"nodeType": "BinaryOperation",
		"operator": "+",
		"src":      "4:5:0",
		"leftExpression": map[string]any{
			"id":       float64(5),
			"nodeType": "Identifier",
			"name":     "x",
			"src":      "4:1:0",
		},
		"rightExpression": map[string]any{
			"id":       float64(6),
			"nodeType": "Identifier",
			"name":     "y",
			"src":      "8:1:0",
		},
		"typeDescriptions": map[string]any{
			"typeString": "uint256",
		},
	}
}

func TestNodeSrcSpan(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    Span
		wantErr bool
	}{
		{"plain", "12:5:0", Span{12, 17}, false},
		{"zero length", "3:0:1", Span{3, 3}, false},
		{"two fields", "12:5", Span{12, 17}, false},
		{"missing", nil, Span{}, true},
		{"not numbers", "a:b:c", Span{}, true},
		{"negative start", "-1:5:0", Span{}, true},
		{"single field", "12", Span{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := map[string]any{}
			if tt.src != nil {
				obj["src"] = tt.src
			}

			got, err := NewNode(obj).SrcSpan()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("SrcSpan() error = nil, want error")
				}
				return
			}

			if err != nil {
				t.Fatalf("SrcSpan() error = %v", err)
			}

			if got != tt.want {
				t.Fatalf("SrcSpan() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNodeAccessors(t *testing.T) {
	n := NewNode(binaryOpNode())

	if got := n.NodeType(); got != "BinaryOperation" {
		t.Fatalf("NodeType() = %q", got)
	}

	if got := n.ID(); got != 7 {
		t.Fatalf("ID() = %d, want 7", got)
	}

	op, ok := n.Operator()
	if !ok || op != "+" {
		t.Fatalf("Operator() = %q, %v", op, ok)
	}

	if got := n.TypeString(); got != "uint256" {
		t.Fatalf("TypeString() = %q", got)
	}

	left := n.LeftExpression()
	if !left.Valid() || left.NodeType() != "Identifier" {
		t.Fatalf("LeftExpression() = %v", left)
	}

	name, ok := left.Name()
	if !ok || name != "x" {
		t.Fatalf("left Name() = %q, %v", name, ok)
	}

	if n.Get("missing").Valid() {
		t.Fatalf("Get(missing) should be invalid")
	}

	if NewNode(nil).ID() != -1 {
		t.Fatalf("absent node ID should be -1")
	}
}

func TestNodeText(t *testing.T) {
	source := []byte("a = x + y;")
	n := NewNode(binaryOpNode())

	text, err := n.Text(source)
	if err != nil {
		t.Fatalf("Text() error = %v", err)
	}

	if text != "x + y" {
		t.Fatalf("Text() = %q, want %q", text, "x + y")
	}

	if _, err := n.Text([]byte("a")); err == nil {
		t.Fatalf("Text() on short source should error")
	}
}

func TestNodeSortedKeys(t *testing.T) {
	n := NewNode(map[string]any{"zeta": 1, "alpha": 2, "mid": 3})

	keys := n.SortedKeys()
	want := []string{"alpha", "mid", "zeta"}

	if len(keys) != len(want) {
		t.Fatalf("SortedKeys() = %v", keys)
	}

	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("SortedKeys() = %v, want %v", keys, want)
		}
	}
}

func TestNodeElems(t *testing.T) {
	n := NewNode([]any{
		map[string]any{"nodeType": "ExpressionStatement"},
		map[string]any{"nodeType": "IfStatement"},
	})

	elems := n.Elems()
	if len(elems) != 2 {
		t.Fatalf("Elems() len = %d", len(elems))
	}

	if elems[1].NodeType() != "IfStatement" {
		t.Fatalf("Elems()[1] = %q", elems[1].NodeType())
	}

	if NewNode(map[string]any{}).Elems() != nil {
		t.Fatalf("Elems() on object should be nil")
	}
}

func TestNodeContractName(t *testing.T) {
	contract := NewNode(map[string]any{
		"nodeType":     "ContractDefinition",
		"contractKind": "contract",
		"name":         "Token",
	})

	name, ok := contract.ContractName()
	if !ok || name != "Token" {
		t.Fatalf("ContractName() = %q, %v", name, ok)
	}

	plain := NewNode(map[string]any{"nodeType": "Block", "name": "x"})
	if _, ok := plain.ContractName(); ok {
		t.Fatalf("ContractName() on non-contract should report false")
	}
}

func TestSpanGeometry(t *testing.T) {
	outer := Span{Start: 2, End: 10}

	if !outer.Contains(Span{Start: 2, End: 10}) {
		t.Fatalf("span should contain itself")
	}

	if outer.Contains(Span{Start: 1, End: 5}) {
		t.Fatalf("span should not contain earlier start")
	}

	if !outer.Overlaps(Span{Start: 9, End: 12}) {
		t.Fatalf("spans sharing byte 9 should overlap")
	}

	if outer.Overlaps(Span{Start: 10, End: 12}) {
		t.Fatalf("adjacent spans should not overlap")
	}

	if !(Span{Start: 0, End: 3}).WithinText(3) {
		t.Fatalf("span at text end should be within")
	}

	if (Span{Start: 0, End: 4}).WithinText(3) {
		t.Fatalf("span past text end should not be within")
	}
}
