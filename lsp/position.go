package lsp

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/satyls/satyls/cst"
)

// Client positions count UTF-16 code units; tree positions count code
// points. The helpers below translate between the two using the document
// text.

// lineBounds returns the byte range of line (0-based) without its newline.
func lineBounds(text string, line uint32) (start, end int, ok bool) {
	for i := uint32(0); i < line; i++ {
		nl := strings.IndexByte(text[start:], '\n')
		if nl < 0 {
			return 0, 0, false
		}

		start += nl + 1
	}

	end = len(text)
	if nl := strings.IndexByte(text[start:], '\n'); nl >= 0 {
		end = start + nl
	}

	return start, end, true
}

// toCST converts a client position. Characters past the end of the line
// clamp to the line end.
func toCST(text string, pos protocol.Position) cst.Position {
	start, end, ok := lineBounds(text, pos.Line)
	if !ok {
		return cst.At(pos.Line, pos.Character)
	}

	var units, chars uint32

	off := start
	for off < end && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[off:end])
		units += uint32(utf16.RuneLen(r)) //nolint:gosec // 1 or 2
		chars++
		off += size
	}

	return cst.Position{Line: pos.Line, Character: chars, Offset: off}
}

// toProtocol converts a tree position.
func toProtocol(text string, pos cst.Position) protocol.Position {
	start, end, ok := lineBounds(text, pos.Line)
	if !ok {
		return protocol.Position{Line: pos.Line, Character: pos.Character}
	}

	var units, chars uint32

	for off := start; off < end && chars < pos.Character; {
		r, size := utf8.DecodeRuneInString(text[off:end])
		units += uint32(utf16.RuneLen(r)) //nolint:gosec // 1 or 2
		chars++
		off += size
	}

	return protocol.Position{Line: pos.Line, Character: units}
}

func toProtocolRange(text string, r cst.Range) protocol.Range {
	return protocol.Range{
		Start: toProtocol(text, r.Start),
		End:   toProtocol(text, r.End),
	}
}

// URIToPath converts a file URI to a filesystem path. Other schemes yield "".
func URIToPath(u protocol.DocumentURI) string {
	if !strings.HasPrefix(string(u), uri.FileScheme+"://") {
		return ""
	}

	return uri.URI(u).Filename()
}
