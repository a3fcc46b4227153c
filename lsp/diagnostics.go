package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/satyls/satyls/analysis"
)

// publishDiagnostics converts analysis diagnostics to LSP format and publishes them.
func (s *Server) publishDiagnostics(ctx context.Context, uri protocol.DocumentURI, version int32, doc *analysis.Document) {
	diagnostics := make([]protocol.Diagnostic, 0, len(doc.Diagnostics))

	for _, d := range doc.Diagnostics {
		if d.Code == analysis.CodeInvariantViolation {
			s.logger.Error("Invariant violation",
				zap.String("uri", string(uri)),
				zap.Stringer("range", d.Range),
				zap.String("message", d.Message))
		}

		diagnostics = append(diagnostics, convertDiagnostic(doc.Text, d))
	}

	s.logger.Debug("publishDiagnostics",
		zap.String("uri", string(uri)),
		zap.Int32("version", version),
		zap.Int("count", len(diagnostics)))

	err := s.client.PublishDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Version:     uint32(version), //nolint:gosec // LSP version numbers are always non-negative
		Diagnostics: diagnostics,
	})
	if err != nil {
		s.logger.Error("publishDiagnostics: RPC failed", zap.Error(err))
	}
}

// convertDiagnostic converts an analysis.Diagnostic to an LSP protocol.Diagnostic.
func convertDiagnostic(text string, d analysis.Diagnostic) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range:    toProtocolRange(text, d.Range),
		Severity: convertSeverity(d.Severity),
		Code:     d.Code,
		Source:   d.Source,
		Message:  d.Message,
	}
}

// convertSeverity converts analysis severity to LSP severity.
func convertSeverity(sev analysis.DiagnosticSeverity) protocol.DiagnosticSeverity {
	switch sev {
	case analysis.SeverityError:
		return protocol.DiagnosticSeverityError
	case analysis.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case analysis.SeverityInformation:
		return protocol.DiagnosticSeverityInformation
	case analysis.SeverityHint:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}
