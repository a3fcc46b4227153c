package satyls

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// Pair is one rule match produced by Parse. It borrows the input text it was
// parsed from: Pair.String slices that text, so a Pair must not outlive or be
// mixed with another buffer. Convert to an owned tree (package cst) before
// storing it next to the text.
type Pair struct {
	rule  Rule
	input string
	span  Span
	inner []*Pair
}

// Rule returns the rule this pair matched.
func (p *Pair) Rule() Rule { return p.rule }

// Start returns the position where the match begins.
func (p *Pair) Start() lexer.Position { return p.span.Start }

// End returns the position right after the match.
func (p *Pair) End() lexer.Position { return p.span.End }

// Span returns the source span of the match.
func (p *Pair) Span() Span { return p.span }

// Inner returns the child pairs in source order.
func (p *Pair) Inner() []*Pair { return p.inner }

// String returns the matched text.
func (p *Pair) String() string {
	return p.input[p.span.Start.Offset:p.span.End.Offset]
}

// GoString renders the pair for debugging.
func (p *Pair) GoString() string {
	return fmt.Sprintf("%s(%s..%s)", p.rule, p.span.Start, p.span.End)
}
