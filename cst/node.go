package cst

import (
	"fmt"
	"unicode/utf8"

	"github.com/satyls/satyls"
)

// Node is one grammar rule match with its range and owned children in
// source order. Every child range lies inside its parent's range.
type Node struct {
	Rule     satyls.Rule
	Range    Range
	Children []*Node
}

// FromPair copies a parse tree into an owned tree, one node per pair,
// keeping child order.
func FromPair(p *satyls.Pair) *Node {
	node := &Node{
		Rule: p.Rule(),
		Range: Range{
			Start: FromLexer(p.Start()),
			End:   FromLexer(p.End()),
		},
	}

	if inner := p.Inner(); len(inner) > 0 {
		node.Children = make([]*Node, len(inner))
		for i, child := range inner {
			node.Children[i] = FromPair(child)
		}
	}

	return node
}

// Parse parses text from rule and returns the owned tree.
func Parse(rule satyls.Rule, text string) (*Node, error) {
	pair, err := satyls.Parse(rule, text)
	if err != nil {
		return nil, err
	}

	return FromPair(pair), nil
}

// Text returns the source covered by the node. src must be the text the
// tree was built from.
func (n *Node) Text(src string) (string, error) {
	start, end := n.Range.Start.Offset, n.Range.End.Offset

	switch {
	case start < 0 || end < start || end > len(src):
		return "", fmt.Errorf("%w: %s range %s (bytes %d..%d) outside text of length %d",
			satyls.ErrInvariantViolation, n.Rule, n.Range, start, end, len(src))
	case !boundary(src, start) || !boundary(src, end):
		return "", fmt.Errorf("%w: %s range %s splits a character",
			satyls.ErrInvariantViolation, n.Rule, n.Range)
	}

	return src[start:end], nil
}

func boundary(s string, off int) bool {
	return off == len(s) || utf8.RuneStart(s[off])
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}
