package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/satyls/satyls"
	"github.com/satyls/satyls/analysis"
	"github.com/satyls/satyls/cst"
)

// foldingKinds lists the rules that fold and how.
var foldingKinds = map[satyls.Rule]protocol.FoldingRangeKind{
	satyls.RuleHeaders:        protocol.ImportsFoldingRange,
	satyls.RuleLetStmt:        protocol.RegionFoldingRange,
	satyls.RuleLetInlineStmt:  protocol.RegionFoldingRange,
	satyls.RuleLetBlockStmt:   protocol.RegionFoldingRange,
	satyls.RuleLetMathStmt:    protocol.RegionFoldingRange,
	satyls.RuleRecord:         protocol.RegionFoldingRange,
	satyls.RuleList:           protocol.RegionFoldingRange,
	satyls.RuleHorizontalText: protocol.RegionFoldingRange,
	satyls.RuleVerticalText:   protocol.RegionFoldingRange,
}

// FoldingRanges handles textDocument/foldingRange requests.
// Returns folding ranges for headers, statements, text blocks and runs of
// comment lines.
func (s *Server) FoldingRanges(_ context.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	s.logger.Debug("FoldingRanges",
		zap.String("uri", string(params.TextDocument.URI)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Tree == nil {
		return nil, nil
	}

	ranges := foldingRanges(doc)

	s.logger.Debug("FoldingRanges result", zap.Int("count", len(ranges)))

	return ranges, nil
}

func foldingRanges(doc *analysis.Document) []protocol.FoldingRange {
	var (
		ranges   []protocol.FoldingRange
		comments []*cst.Node
	)

	doc.Tree.Walk(func(n *cst.Node) bool {
		if n.Rule == satyls.RuleComment {
			comments = append(comments, n)

			return false
		}

		if kind, ok := foldingKinds[n.Rule]; ok {
			if r, ok := validFoldingRange(n.Range.Start.Line, n.Range.End.Line, kind); ok {
				ranges = append(ranges, r)
			}
		}

		return true
	})

	return append(ranges, commentFoldingRanges(comments)...)
}

// commentFoldingRanges folds runs of comments on consecutive lines.
// comments must be in pre-order, which sorts them by position.
func commentFoldingRanges(comments []*cst.Node) []protocol.FoldingRange {
	var ranges []protocol.FoldingRange

	for i := 0; i < len(comments); {
		j := i
		for j+1 < len(comments) && comments[j+1].Range.Start.Line == comments[j].Range.Start.Line+1 {
			j++
		}

		if r, ok := validFoldingRange(comments[i].Range.Start.Line, comments[j].Range.Start.Line, protocol.CommentFoldingRange); ok {
			ranges = append(ranges, r)
		}

		i = j + 1
	}

	return ranges
}

// validFoldingRange creates a folding range only if it spans at least two lines.
func validFoldingRange(startLine, endLine uint32, kind protocol.FoldingRangeKind) (protocol.FoldingRange, bool) {
	if endLine <= startLine {
		return protocol.FoldingRange{}, false
	}

	return protocol.FoldingRange{
		StartLine: startLine,
		EndLine:   endLine,
		Kind:      kind,
	}, true
}
