package operators

import (
	"fmt"

	m "mutsol.dev/pkg/mutsol/internal/model"
)

// spanAndText resolves a node's byte span and the text it covers,
// normalizing every failure into a MalformedNodeError so callers can
// skip the node and keep going.
func spanAndText(node m.Node, source []byte) (m.Span, string, error) {
	span, err := node.SrcSpan()
	if err != nil {
		return m.Span{}, "", malformed(node, err.Error())
	}

	if !span.WithinText(len(source)) {
		return m.Span{}, "", malformed(node,
			fmt.Sprintf("span %d:%d outside source of %d bytes", span.Start, span.End, len(source)))
	}

	return span, string(source[span.Start:span.End]), nil
}

func malformed(node m.Node, reason string) error {
	return &m.MalformedNodeError{NodeID: node.ID(), Reason: reason}
}

func negate(condition string) string {
	return "!(" + condition + ")"
}
