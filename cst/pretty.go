package cst

import (
	"fmt"
	"strings"
)

// Pretty renders the tree one node per line, indented by depth. Leaves
// include their source text.
//
//   - [program] (0:0..1:0)
//     | [var] (0:0..0:8): "document"
func (n *Node) Pretty(src string) string {
	var b strings.Builder

	n.pretty(&b, src, 0)

	return b.String()
}

func (n *Node) pretty(b *strings.Builder, src string, indent int) {
	b.WriteString(strings.Repeat(" ", indent))

	if n.IsLeaf() {
		text, err := n.Text(src)
		if err != nil {
			text = "<" + err.Error() + ">"
		}

		fmt.Fprintf(b, "| [%s] (%s): %q\n", n.Rule, n.Range, text)

		return
	}

	fmt.Fprintf(b, "- [%s] (%s)\n", n.Rule, n.Range)

	for _, child := range n.Children {
		child.pretty(b, src, indent+2)
	}
}
