package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// Definition handles textDocument/definition requests. Command names and
// variables resolve to their latest definition in the same document.
func (s *Server) Definition(_ context.Context, params *protocol.DefinitionParams) ([]protocol.Location, error) {
	s.logger.Debug("Definition",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Tree == nil {
		return nil, nil
	}

	sym, ok := doc.Definition(toCST(doc.Text, params.Position))
	if !ok {
		return nil, nil
	}

	return []protocol.Location{{
		URI:   params.TextDocument.URI,
		Range: toProtocolRange(doc.Text, sym.Range),
	}}, nil
}
