package lsp

import (
	"context"
	"fmt"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/satyls/satyls/analysis"
)

var kindDescriptions = map[analysis.SymbolKind]string{
	analysis.SymbolInlineCommand: "inline command",
	analysis.SymbolBlockCommand:  "block command",
	analysis.SymbolMathCommand:   "math command",
	analysis.SymbolVariable:      "variable",
}

// Hover handles textDocument/hover requests. A name under the cursor shows
// its kind and the line it is defined on.
func (s *Server) Hover(_ context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	s.logger.Debug("Hover",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Tree == nil {
		return nil, nil //nolint:nilnil
	}

	pos := toCST(doc.Text, params.Position)

	kw, ok := doc.KeywordAt(pos)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	var b strings.Builder

	fmt.Fprintf(&b, "**%s** (%s)", kw.Name, kindDescriptions[kw.Kind])

	if sym, ok := doc.Environment().Latest(kw.Kind, kw.Name); ok {
		line := sym.Range.Start.Line
		fmt.Fprintf(&b, "\n\ndefined at line %d\n\n```satysfi\n%s\n```", line+1, lineText(doc.Text, line))
	} else {
		b.WriteString("\n\nnot defined in this document")
	}

	r := toProtocolRange(doc.Text, kw.Node.Range)

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: b.String(),
		},
		Range: &r,
	}, nil
}

func lineText(text string, line uint32) string {
	start, end, ok := lineBounds(text, line)
	if !ok {
		return ""
	}

	return strings.TrimRight(text[start:end], "\r")
}
