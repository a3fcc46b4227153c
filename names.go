package satyls

import (
	"path/filepath"
	"slices"
	"strings"
)

// Source file extensions.
const (
	ExtDocument = ".saty"  // document
	ExtHeader   = ".satyh" // package header
	ExtGeneric  = ".satyg" // header usable from any backend
)

// LanguageID is the LSP language identifier for SATySFi sources.
const LanguageID = "satysfi"

// SourceExtensions lists every extension the tools treat as SATySFi source.
var SourceExtensions = []string{ExtDocument, ExtHeader, ExtGeneric}

// IsSourceFile reports whether path has one of the given extensions
// (SourceExtensions when none are given).
func IsSourceFile(path string, exts ...string) bool {
	if len(exts) == 0 {
		exts = SourceExtensions
	}

	return slices.Contains(exts, strings.ToLower(filepath.Ext(path)))
}
