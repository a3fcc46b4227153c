package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/satyls/satyls/analysis"
	"github.com/satyls/satyls/cst"
)

// Trigger characters that start a command name.
const (
	triggerInline = `\`
	triggerBlock  = "+"
)

// Completion handles textDocument/completion requests.
// The mode at the cursor and the trigger character decide the candidates.
func (s *Server) Completion(_ context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	s.logger.Debug("Completion",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	list := &protocol.CompletionList{IsIncomplete: false, Items: []protocol.CompletionItem{}}

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Tree == nil {
		return list, nil
	}

	var trigger string
	if params.Context != nil {
		trigger = params.Context.TriggerCharacter
	}

	pos := toCST(doc.Text, params.Position)
	mode := doc.Mode(pos)
	s.logger.Debug("Completion context",
		zap.Stringer("mode", mode),
		zap.String("trigger", trigger))

	if items := s.completionItems(doc, mode, trigger); items != nil {
		list.Items = items
	}

	return list, nil
}

func (s *Server) completionItems(doc *analysis.Document, mode cst.Mode, trigger string) []protocol.CompletionItem {
	env := doc.Environment()

	switch mode {
	case cst.ModeProgram:
		if trigger != "" {
			return nil
		}

		items := symbolItems(env.Variables, protocol.CompletionItemKindVariable, false)

		return append(items, s.getResources().CompletionItems()...)

	case cst.ModeMath:
		if trigger == triggerInline {
			return symbolItems(env.MathCommands, protocol.CompletionItemKindFunction, true)
		}

	case cst.ModeHorizontal:
		if trigger == triggerInline {
			return symbolItems(env.InlineCommands, protocol.CompletionItemKindFunction, true)
		}

	case cst.ModeVertical:
		if trigger == triggerBlock {
			return symbolItems(env.BlockCommands, protocol.CompletionItemKindFunction, true)
		}

	case cst.ModeHeader, cst.ModeLiteral, cst.ModeComment:
	}

	return nil
}

// symbolItems turns definitions into items, one per name. The sigil was
// already typed, so commands insert their bare name.
func symbolItems(symbols []analysis.Symbol, kind protocol.CompletionItemKind, command bool) []protocol.CompletionItem {
	seen := make(map[string]bool, len(symbols))
	items := make([]protocol.CompletionItem, 0, len(symbols))

	// Walk backwards so the latest definition provides the detail.
	for i := len(symbols) - 1; i >= 0; i-- {
		sym := symbols[i]
		if seen[sym.Name] {
			continue
		}

		seen[sym.Name] = true

		item := protocol.CompletionItem{
			Label:  sym.Name,
			Kind:   kind,
			Detail: sym.Kind.String(),
		}

		if command {
			item.InsertText = sym.Bare()
		}

		items = append(items, item)
	}

	// Restore document order.
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}

	return items
}
