package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Span is a half-open byte range [Start, End) into a SourceUnit's text.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int { return s.End - s.Start }

// WithinText reports whether the span lies inside a text of n bytes.
func (s Span) WithinText(n int) bool {
	return s.Start >= 0 && s.Start <= s.End && s.End <= n
}

// Contains reports whether other lies fully inside s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Overlaps reports whether the two spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Node is a read-only view over one element of the compact-JSON AST
// emitted by solc. The wrapped value is a decoded JSON object, array,
// or scalar; a zero Node is the absent node. Accessors are total: they
// return zero values instead of panicking on shape mismatches, so
// operator predicates can probe freely.
type Node struct {
	v any
}

// NewNode wraps a decoded JSON value.
func NewNode(v any) Node { return Node{v: v} }

// Valid reports whether the node wraps anything at all.
func (n Node) Valid() bool { return n.v != nil }

// IsObject reports whether the node is a JSON object.
func (n Node) IsObject() bool {
	_, ok := n.v.(map[string]any)
	return ok
}

// IsArray reports whether the node is a JSON array.
func (n Node) IsArray() bool {
	_, ok := n.v.([]any)
	return ok
}

func (n Node) object() (map[string]any, bool) {
	o, ok := n.v.(map[string]any)
	return o, ok
}

// Get returns the named field as a Node, or an invalid Node.
func (n Node) Get(key string) Node {
	if o, ok := n.object(); ok {
		return Node{v: o[key]}
	}

	return Node{}
}

// Has reports whether the node is an object carrying the key.
func (n Node) Has(key string) bool {
	o, ok := n.object()
	if !ok {
		return false
	}

	_, ok = o[key]

	return ok
}

// GetString returns the named field when it is a string.
func (n Node) GetString(key string) (string, bool) {
	s, ok := n.Get(key).v.(string)
	return s, ok
}

// GetBool returns the named field when it is a boolean.
func (n Node) GetBool(key string) (bool, bool) {
	b, ok := n.Get(key).v.(bool)
	return b, ok
}

// SortedKeys returns the object's keys in lexicographic order. Child
// visit order during traversal derives from this, which is what keeps
// discovery order reproducible across runs.
func (n Node) SortedKeys() []string {
	o, ok := n.object()
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Elems returns the elements of an array node in index order.
func (n Node) Elems() []Node {
	a, ok := n.v.([]any)
	if !ok {
		return nil
	}

	out := make([]Node, len(a))
	for i, e := range a {
		out[i] = Node{v: e}
	}

	return out
}

// NodeType returns the nodeType field, empty when absent.
func (n Node) NodeType() string {
	s, _ := n.GetString("nodeType")
	return s
}

// Name returns the name field.
func (n Node) Name() (string, bool) { return n.GetString("name") }

// ID returns the numeric id solc assigned to the node, or -1.
func (n Node) ID() int64 {
	if f, ok := n.Get("id").v.(float64); ok {
		return int64(f)
	}

	return -1
}

// SrcSpan parses the node's src field ("start:length:file") into a
// byte span.
func (n Node) SrcSpan() (Span, error) {
	src, ok := n.GetString("src")
	if !ok {
		return Span{}, fmt.Errorf("node %d: missing src", n.ID())
	}

	parts := strings.Split(src, ":")
	if len(parts) < 2 {
		return Span{}, fmt.Errorf("node %d: unparseable src %q", n.ID(), src)
	}

	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return Span{}, fmt.Errorf("node %d: unparseable src %q", n.ID(), src)
	}

	length, err := strconv.Atoi(parts[1])
	if err != nil || start < 0 || length < 0 {
		return Span{}, fmt.Errorf("node %d: unparseable src %q", n.ID(), src)
	}

	return Span{Start: start, End: start + length}, nil
}

// Text returns the bytes of source the node's src span covers.
func (n Node) Text(source []byte) (string, error) {
	span, err := n.SrcSpan()
	if err != nil {
		return "", err
	}

	if !span.WithinText(len(source)) {
		return "", fmt.Errorf("node %d: span %d:%d outside source of %d bytes",
			n.ID(), span.Start, span.End, len(source))
	}

	return string(source[span.Start:span.End]), nil
}

// Operator returns the operator token of a binary, unary, or
// assignment node.
func (n Node) Operator() (string, bool) { return n.GetString("operator") }

// Prefix reports whether a unary operation is written before its
// operand. solc records this directly, so the operator token position
// never has to be guessed from the source.
func (n Node) Prefix() bool {
	b, _ := n.GetBool("prefix")
	return b
}

// Expression returns the expression field (the callee of a call, the
// base of a member access).
func (n Node) Expression() Node { return n.Get("expression") }

// LeftExpression returns the left operand of a binary operation.
func (n Node) LeftExpression() Node { return n.Get("leftExpression") }

// RightExpression returns the right operand of a binary operation.
func (n Node) RightExpression() Node { return n.Get("rightExpression") }

// LeftHandSide returns the target of an assignment.
func (n Node) LeftHandSide() Node { return n.Get("leftHandSide") }

// RightHandSide returns the value of an assignment.
func (n Node) RightHandSide() Node { return n.Get("rightHandSide") }

// Condition returns the condition of an if statement.
func (n Node) Condition() Node { return n.Get("condition") }

// Arguments returns a call's argument nodes.
func (n Node) Arguments() []Node { return n.Get("arguments").Elems() }

// Statements returns a block's statement nodes.
func (n Node) Statements() []Node { return n.Get("statements").Elems() }

// MemberName returns the member token of a member access.
func (n Node) MemberName() (string, bool) { return n.GetString("memberName") }

// TypeString returns typeDescriptions.typeString, empty when absent.
func (n Node) TypeString() string {
	s, _ := n.Get("typeDescriptions").GetString("typeString")
	return s
}

// ContractName returns the contract name when the node is a contract
// definition (it carries a contractKind field).
func (n Node) ContractName() (string, bool) {
	if !n.Has("contractKind") {
		return "", false
	}

	return n.Name()
}
