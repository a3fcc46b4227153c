// Package cst provides an owned concrete syntax tree for SATySFi sources
// together with position queries over it.
//
// Positions are zero-based (line, character) pairs where character counts
// Unicode code points. Nodes are immutable once built and own no reference
// to the text they were parsed from.
package cst

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// Position is a zero-based location in a document.
//
// Offset is the byte offset into the source text. It is only meaningful for
// positions taken from a tree; positions coming from a client leave it at -1
// and ordering never looks at it.
type Position struct {
	Line      uint32
	Character uint32
	Offset    int
}

// At returns a position without a known byte offset.
func At(line, character uint32) Position {
	return Position{Line: line, Character: character, Offset: -1}
}

// FromLexer converts a 1-based participle position.
func FromLexer(pos lexer.Position) Position {
	line, col := pos.Line-1, pos.Column-1
	if line < 0 {
		line = 0
	}

	if col < 0 {
		col = 0
	}

	return Position{
		Line:      uint32(line), //nolint:gosec // non-negative
		Character: uint32(col),  //nolint:gosec // non-negative
		Offset:    pos.Offset,
	}
}

// Compare orders positions by line, then character.
func (p Position) Compare(other Position) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Character < other.Character:
		return -1
	case p.Character > other.Character:
		return 1
	default:
		return 0
	}
}

// Before reports whether p comes strictly before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// String renders the position as line:character.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}
