package domain

import (
	"bytes"
	"fmt"
	"sort"

	m "mutsol.dev/pkg/mutsol/internal/model"
)

// Applier splices a point's rewrites into the unit text. The unit is
// never modified; every application starts from the pristine bytes.
type Applier interface {
	Apply(unit m.SourceUnit, point m.MutationPoint) ([]byte, error)
}

type applier struct{}

// NewApplier constructs an Applier.
func NewApplier() Applier {
	return &applier{}
}

// Apply builds the mutated source for one point. Rewrites are applied
// in one left-to-right pass over spans sorted by start, so original
// offsets stay valid throughout.
func (a *applier) Apply(unit m.SourceUnit, point m.MutationPoint) ([]byte, error) {
	if len(point.Rewrites) == 0 {
		return nil, fmt.Errorf("point %s/%d has no rewrites", point.Operator, point.NodeID)
	}

	rewrites := make([]m.Rewrite, len(point.Rewrites))
	copy(rewrites, point.Rewrites)
	sort.Slice(rewrites, func(i, j int) bool { return rewrites[i].Span.Start < rewrites[j].Span.Start })

	for i, rewrite := range rewrites {
		if !rewrite.Span.WithinText(len(unit.Text)) {
			return nil, fmt.Errorf("rewrite span %d:%d outside %s (%d bytes)",
				rewrite.Span.Start, rewrite.Span.End, unit.ID, len(unit.Text))
		}

		if i > 0 && rewrites[i-1].Span.End > rewrite.Span.Start {
			return nil, fmt.Errorf("overlapping rewrite spans in %s at %d", unit.ID, rewrite.Span.Start)
		}
	}

	var out bytes.Buffer

	last := 0
	for _, rewrite := range rewrites {
		out.Write(unit.Text[last:rewrite.Span.Start])
		out.WriteString(rewrite.Text)

		last = rewrite.Span.End
	}

	out.Write(unit.Text[last:])

	return out.Bytes(), nil
}
