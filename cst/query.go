package cst

import "github.com/satyls/satyls"

// Choose returns the first direct child whose range includes pos, or nil.
// On a shared boundary the left sibling wins.
func (n *Node) Choose(pos Position) *Node {
	for _, child := range n.Children {
		if child.Range.Includes(pos) {
			return child
		}
	}

	return nil
}

// Dig descends from n by repeated Choose and returns the visited nodes
// innermost first. n itself is not part of the chain; the chain is empty
// when no child includes pos.
func (n *Node) Dig(pos Position) []*Node {
	var chain []*Node

	for cur := n.Choose(pos); cur != nil; cur = cur.Choose(pos) {
		chain = append(chain, cur)
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	return chain
}

// Pickup returns every descendant matching rule in document order.
// n itself is never included.
func (n *Node) Pickup(rule satyls.Rule) []*Node {
	var found []*Node

	for _, child := range n.Children {
		child.Walk(func(node *Node) bool {
			if node.Rule == rule {
				found = append(found, node)
			}

			return true
		})
	}

	return found
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}

	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// FirstChild returns the first child with one of the given rules.
func (n *Node) FirstChild(rules ...satyls.Rule) *Node {
	for _, child := range n.Children {
		for _, r := range rules {
			if child.Rule == r {
				return child
			}
		}
	}

	return nil
}

// Find returns the innermost node on chain with one of the given rules.
func Find(chain []*Node, rules ...satyls.Rule) *Node {
	for _, node := range chain {
		for _, r := range rules {
			if node.Rule == r {
				return node
			}
		}
	}

	return nil
}
