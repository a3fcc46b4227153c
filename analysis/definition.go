package analysis

import (
	"github.com/satyls/satyls"
	"github.com/satyls/satyls/cst"
)

// keywordKinds maps name tokens to the symbol kind they refer to.
var keywordKinds = map[satyls.Rule]SymbolKind{
	satyls.RuleInlineCmdName: SymbolInlineCommand,
	satyls.RuleBlockCmdName:  SymbolBlockCommand,
	satyls.RuleMathCmdName:   SymbolMathCommand,
	satyls.RuleVar:           SymbolVariable,
}

// Keyword is a name token under the cursor.
type Keyword struct {
	Kind SymbolKind
	Name string
	Node *cst.Node
}

// KeywordAt returns the innermost command name or variable at pos. Module
// qualified variables (List.map) are not keywords of this document.
func (d *Document) KeywordAt(pos cst.Position) (Keyword, bool) {
	chain := d.Dig(pos)

	for i, node := range chain {
		kind, ok := keywordKinds[node.Rule]
		if !ok {
			continue
		}

		if kind == SymbolVariable && i+1 < len(chain) && chain[i+1].Rule == satyls.RuleModVar {
			return Keyword{}, false
		}

		return Keyword{Kind: kind, Name: d.Substring(node), Node: node}, true
	}

	return Keyword{}, false
}

// Definition resolves the keyword at pos to its latest definition.
func (d *Document) Definition(pos cst.Position) (Symbol, bool) {
	kw, ok := d.KeywordAt(pos)
	if !ok {
		return Symbol{}, false
	}

	return d.Environment().Latest(kw.Kind, kw.Name)
}
