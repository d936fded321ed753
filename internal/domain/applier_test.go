package domain

import (
	"testing"

	m "mutsol.dev/pkg/mutsol/internal/model"
)

func TestApply(t *testing.T) {
	unit := m.SourceUnit{ID: "a.sol", Text: []byte("uint x = a + b;")}
	applier := NewApplier()

	t.Run("single rewrite", func(t *testing.T) {
		point := m.MutationPoint{
			Operator: m.KindBinaryOperatorSwap,
			Rewrites: []m.Rewrite{{Span: m.Span{Start: 10, End: 13}, Text: " - "}},
		}

		got, err := applier.Apply(unit, point)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}

		if string(got) != "uint x = a - b;" {
			t.Fatalf("Apply() = %q", got)
		}
	})

	t.Run("disjoint rewrites splice left to right", func(t *testing.T) {
		point := m.MutationPoint{
			Operator: m.KindSwapOperatorArguments,
			Rewrites: []m.Rewrite{
				{Span: m.Span{Start: 9, End: 10}, Text: "b"},
				{Span: m.Span{Start: 13, End: 14}, Text: "a"},
			},
		}

		got, err := applier.Apply(unit, point)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}

		if string(got) != "uint x = b + a;" {
			t.Fatalf("Apply() = %q", got)
		}
	})

	t.Run("rewrite order does not matter", func(t *testing.T) {
		point := m.MutationPoint{
			Operator: m.KindSwapOperatorArguments,
			Rewrites: []m.Rewrite{
				{Span: m.Span{Start: 13, End: 14}, Text: "a"},
				{Span: m.Span{Start: 9, End: 10}, Text: "b"},
			},
		}

		got, err := applier.Apply(unit, point)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}

		if string(got) != "uint x = b + a;" {
			t.Fatalf("Apply() = %q", got)
		}
	})

	t.Run("replacement may change length", func(t *testing.T) {
		point := m.MutationPoint{
			Operator: m.KindRequireConditionNegate,
			Rewrites: []m.Rewrite{{Span: m.Span{Start: 9, End: 14}, Text: "!(a + b)"}},
		}

		got, err := applier.Apply(unit, point)
		if err != nil {
			t.Fatalf("Apply() error = %v", err)
		}

		if string(got) != "uint x = !(a + b);" {
			t.Fatalf("Apply() = %q", got)
		}
	})

	t.Run("no rewrites is an error", func(t *testing.T) {
		if _, err := applier.Apply(unit, m.MutationPoint{Operator: m.KindSwapLines}); err == nil {
			t.Fatal("Apply() expected error for empty rewrites")
		}
	})

	t.Run("out of bounds span is an error", func(t *testing.T) {
		point := m.MutationPoint{
			Rewrites: []m.Rewrite{{Span: m.Span{Start: 10, End: 99}, Text: "x"}},
		}

		if _, err := applier.Apply(unit, point); err == nil {
			t.Fatal("Apply() expected error for out-of-bounds span")
		}
	})

	t.Run("overlapping spans are an error", func(t *testing.T) {
		point := m.MutationPoint{
			Rewrites: []m.Rewrite{
				{Span: m.Span{Start: 9, End: 12}, Text: "x"},
				{Span: m.Span{Start: 11, End: 14}, Text: "y"},
			},
		}

		if _, err := applier.Apply(unit, point); err == nil {
			t.Fatal("Apply() expected error for overlapping spans")
		}
	})

	t.Run("unit text stays pristine", func(t *testing.T) {
		point := m.MutationPoint{
			Rewrites: []m.Rewrite{{Span: m.Span{Start: 0, End: 4}, Text: "int "}},
		}

		if _, err := applier.Apply(unit, point); err != nil {
			t.Fatalf("Apply() error = %v", err)
		}

		if string(unit.Text) != "uint x = a + b;" {
			t.Fatalf("unit text changed to %q", unit.Text)
		}
	})
}
