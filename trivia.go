package satyls

import "github.com/alecthomas/participle/v2/lexer"

// Span is the source range of a match. End is exclusive.
type Span struct {
	Start lexer.Position
	End   lexer.Position
}

// comments holds comments scanned but not yet attached to a rule. They
// attach to the innermost rule open when the next token is consumed, so a
// comment always lies inside its parent's span.
type comments []Span

func (c *comments) add(span Span) {
	*c = append(*c, span)
}

// attach moves every pending comment into parent as a comment pair.
func (c *comments) attach(parent *Pair) {
	if parent == nil || len(*c) == 0 {
		return
	}

	for _, span := range *c {
		parent.inner = append(parent.inner, &Pair{
			rule:  RuleComment,
			input: parent.input,
			span:  span,
		})
	}

	*c = (*c)[:0]
}
