// Package analysis derives everything the language server needs from one
// document text: the owned syntax tree, the symbol environment and the
// diagnostics. Each edit rebuilds a Document from scratch.
package analysis

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/satyls/satyls"
	"github.com/satyls/satyls/cst"
)

// Document is a text buffer with the tree and environment derived from it.
// Tree is nil when parsing failed; Err then holds the syntax error. A
// Document is never modified after BuildDocument returns it.
type Document struct {
	Text        string
	Tree        *cst.Node
	Err         error
	Diagnostics []Diagnostic

	env *Environment
}

// BuildDocument parses text and derives the environment. It never fails:
// syntax errors leave the tree nil and the environment empty.
func BuildDocument(text string) *Document {
	return BuildDocumentWithChecks(text, DefaultChecks())
}

// BuildDocumentWithChecks is BuildDocument with a custom set of checks.
func BuildDocumentWithChecks(text string, checks []*Check) *Document {
	doc := &Document{
		Text:        text,
		Diagnostics: []Diagnostic{},
	}

	pair, err := satyls.ParseDocument(text)
	if err != nil {
		doc.Err = err
		doc.Diagnostics = append(doc.Diagnostics, parseErrorToDiagnostic(err))
		doc.env = &Environment{}

		return doc
	}

	doc.Tree = cst.FromPair(pair)

	env, diags := BuildEnvironment(doc.Tree, text)
	doc.env = env
	doc.Diagnostics = append(doc.Diagnostics, diags...)

	for _, check := range checks {
		check.Run(doc)
	}

	return doc
}

// Environment returns the document's definitions. Never nil.
func (d *Document) Environment() *Environment {
	if d.env == nil {
		return &Environment{}
	}

	return d.env
}

// Mode returns the lexical mode at pos; Program when there is no tree.
func (d *Document) Mode(pos cst.Position) cst.Mode {
	return cst.ModeOf(d.Dig(pos))
}

// Dig returns the nodes containing pos, innermost first.
func (d *Document) Dig(pos cst.Position) []*cst.Node {
	if d.Tree == nil {
		return nil
	}

	return d.Tree.Dig(pos)
}

// Substring returns the text covered by node, or "" if node does not belong
// to this document.
func (d *Document) Substring(node *cst.Node) string {
	text, err := node.Text(d.Text)
	if err != nil {
		return ""
	}

	return text
}

// parseErrorToDiagnostic converts a parse error to a diagnostic.
func parseErrorToDiagnostic(err error) Diagnostic {
	r := cst.Range{}
	msg := err.Error()

	// participle errors carry a position.
	type participleError interface {
		Position() lexer.Position
		Message() string
	}

	if pe, ok := err.(participleError); ok {
		pos := cst.FromLexer(pe.Position())
		r = cst.Range{Start: pos, End: pos}
		msg = pe.Message()
	}

	return Diagnostic{
		Range:    r,
		Severity: SeverityError,
		Message:  msg,
		Code:     CodeParseError,
		Source:   Source,
	}
}
