package lsp

import (
	"context"
	"slices"

	"go.lsp.dev/protocol"

	"github.com/satyls/satyls/analysis"
)

var symbolKinds = map[analysis.SymbolKind]protocol.SymbolKind{
	analysis.SymbolInlineCommand: protocol.SymbolKindFunction,
	analysis.SymbolBlockCommand:  protocol.SymbolKindFunction,
	analysis.SymbolMathCommand:   protocol.SymbolKindOperator,
	analysis.SymbolVariable:      protocol.SymbolKindVariable,
}

// DocumentSymbol handles textDocument/documentSymbol requests. Every
// definition in the environment is listed in document order.
func (s *Server) DocumentSymbol(_ context.Context, params *protocol.DocumentSymbolParams) ([]protocol.DocumentSymbol, error) {
	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	env := doc.Environment()

	all := make([]analysis.Symbol, 0, env.Len())
	all = append(all, env.InlineCommands...)
	all = append(all, env.BlockCommands...)
	all = append(all, env.MathCommands...)
	all = append(all, env.Variables...)

	slices.SortStableFunc(all, func(a, b analysis.Symbol) int {
		return a.Range.Start.Compare(b.Range.Start)
	})

	symbols := make([]protocol.DocumentSymbol, 0, len(all))

	for _, sym := range all {
		r := toProtocolRange(doc.Text, sym.Range)
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           sym.Name,
			Detail:         sym.Kind.String(),
			Kind:           symbolKinds[sym.Kind],
			Range:          r,
			SelectionRange: r,
		})
	}

	return symbols, nil
}
