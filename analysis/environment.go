package analysis

import (
	"fmt"
	"strings"

	"github.com/satyls/satyls"
	"github.com/satyls/satyls/cst"
)

// SymbolKind distinguishes the four kinds of definitions.
type SymbolKind int

// Symbol kinds.
const (
	SymbolInlineCommand SymbolKind = iota
	SymbolBlockCommand
	SymbolMathCommand
	SymbolVariable
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolInlineCommand:
		return "inline-cmd"
	case SymbolBlockCommand:
		return "block-cmd"
	case SymbolMathCommand:
		return "math-cmd"
	case SymbolVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// Symbol is one definition site. Name is the token text verbatim, so
// commands keep their sigil (\foo, +bar).
type Symbol struct {
	Kind  SymbolKind
	Name  string
	Range cst.Range
}

// Bare returns the name without its command sigil.
func (s Symbol) Bare() string {
	return Bare(s.Name)
}

// Bare strips a leading \ or + from a command name.
func Bare(name string) string {
	return strings.TrimLeft(name, `\+`)
}

// Environment holds every definition of a document in document order.
// Duplicates are kept; consumers resolve them with Latest.
type Environment struct {
	InlineCommands []Symbol
	BlockCommands  []Symbol
	MathCommands   []Symbol
	Variables      []Symbol
}

// All returns the symbols of one kind.
func (e *Environment) All(kind SymbolKind) []Symbol {
	switch kind {
	case SymbolInlineCommand:
		return e.InlineCommands
	case SymbolBlockCommand:
		return e.BlockCommands
	case SymbolMathCommand:
		return e.MathCommands
	case SymbolVariable:
		return e.Variables
	default:
		return nil
	}
}

// Latest returns the last definition of name, the one that wins when a
// name is defined more than once.
func (e *Environment) Latest(kind SymbolKind, name string) (Symbol, bool) {
	symbols := e.All(kind)
	for i := len(symbols) - 1; i >= 0; i-- {
		if symbols[i].Name == name {
			return symbols[i], true
		}
	}

	return Symbol{}, false
}

// Len returns the total number of definitions.
func (e *Environment) Len() int {
	return len(e.InlineCommands) + len(e.BlockCommands) + len(e.MathCommands) + len(e.Variables)
}

// BuildEnvironment collects the definitions below root. A nil root yields
// an empty environment. Statements missing their name token are skipped
// and reported as diagnostics.
func BuildEnvironment(root *cst.Node, src string) (*Environment, []Diagnostic) {
	env := &Environment{}
	if root == nil {
		return env, nil
	}

	b := &envBuilder{src: src}

	env.InlineCommands = b.commands(root, satyls.RuleLetInlineStmt, satyls.RuleInlineCmdName, SymbolInlineCommand)
	env.BlockCommands = b.commands(root, satyls.RuleLetBlockStmt, satyls.RuleBlockCmdName, SymbolBlockCommand)
	env.MathCommands = b.commands(root, satyls.RuleLetMathStmt, satyls.RuleMathCmdName, SymbolMathCommand)
	env.Variables = b.variables(root)

	return env, b.diagnostics
}

type envBuilder struct {
	src         string
	diagnostics []Diagnostic
}

// commands picks up statements of one rule. The name token is the first
// child, or the second when the first is the context variable.
func (b *envBuilder) commands(root *cst.Node, stmt, nameRule satyls.Rule, kind SymbolKind) []Symbol {
	var symbols []Symbol

	for _, node := range root.Pickup(stmt) {
		var name *cst.Node

		children := significant(node.Children)

		switch {
		case len(children) > 0 && children[0].Rule == nameRule:
			name = children[0]
		case len(children) > 1 && children[0].Rule == satyls.RuleVar && children[1].Rule == nameRule:
			name = children[1]
		default:
			b.report(node, fmt.Sprintf("%s without %s", stmt, nameRule))

			continue
		}

		if sym, ok := b.symbol(kind, name); ok {
			symbols = append(symbols, sym)
		}
	}

	return symbols
}

// variables picks up every var bound by the pattern of a let statement.
func (b *envBuilder) variables(root *cst.Node) []Symbol {
	var symbols []Symbol

	for _, node := range root.Pickup(satyls.RuleLetStmt) {
		children := significant(node.Children)
		if len(children) == 0 || children[0].Rule != satyls.RulePattern {
			b.report(node, "let_stmt without pattern")

			continue
		}

		for _, v := range children[0].Pickup(satyls.RuleVar) {
			if sym, ok := b.symbol(SymbolVariable, v); ok {
				symbols = append(symbols, sym)
			}
		}
	}

	return symbols
}

// significant drops comment children, which may sit anywhere between tokens.
func significant(children []*cst.Node) []*cst.Node {
	out := make([]*cst.Node, 0, len(children))

	for _, child := range children {
		if child.Rule != satyls.RuleComment {
			out = append(out, child)
		}
	}

	return out
}

func (b *envBuilder) symbol(kind SymbolKind, name *cst.Node) (Symbol, bool) {
	text, err := name.Text(b.src)
	if err != nil {
		b.report(name, err.Error())

		return Symbol{}, false
	}

	return Symbol{Kind: kind, Name: text, Range: name.Range}, true
}

func (b *envBuilder) report(node *cst.Node, msg string) {
	b.diagnostics = append(b.diagnostics, invariantDiagnostic(node.Range, msg))
}
