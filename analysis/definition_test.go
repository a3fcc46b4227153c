package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyls/satyls/analysis"
	"github.com/satyls/satyls/cst"
)

const definitionSource = `let-inline ctx \foo = {}
let-inline ctx \foo = {x}
let x = 1
let y = {\foo;}
let z = x + 1
let w = List.map
let-block ctx +sec = '<>
let page = '<+sec;>
`

func TestKeywordAt(t *testing.T) {
	t.Parallel()

	doc := analysis.BuildDocument(definitionSource)
	require.NoError(t, doc.Err)

	kw, ok := doc.KeywordAt(cst.At(3, 10))
	require.True(t, ok)
	assert.Equal(t, analysis.SymbolInlineCommand, kw.Kind)
	assert.Equal(t, `\foo`, kw.Name)

	kw, ok = doc.KeywordAt(cst.At(7, 13))
	require.True(t, ok)
	assert.Equal(t, analysis.SymbolBlockCommand, kw.Kind)
	assert.Equal(t, `+sec`, kw.Name)

	_, ok = doc.KeywordAt(cst.At(5, 14))
	assert.False(t, ok, "module qualified names are not local")

	_, ok = doc.KeywordAt(cst.At(2, 1))
	assert.False(t, ok, "keywords of the language are not names")
}

func TestDefinition(t *testing.T) {
	t.Parallel()

	doc := analysis.BuildDocument(definitionSource)
	require.NoError(t, doc.Err)

	tests := []struct {
		name     string
		pos      cst.Position
		wantLine uint32
		wantChar uint32
	}{
		{name: "inline command resolves to latest", pos: cst.At(3, 10), wantLine: 1, wantChar: 15},
		{name: "variable", pos: cst.At(4, 8), wantLine: 2, wantChar: 4},
		{name: "block command", pos: cst.At(7, 14), wantLine: 6, wantChar: 14},
		{name: "definition site resolves to itself", pos: cst.At(2, 4), wantLine: 2, wantChar: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sym, ok := doc.Definition(tt.pos)
			require.True(t, ok)
			assert.Equal(t, tt.wantLine, sym.Range.Start.Line)
			assert.Equal(t, tt.wantChar, sym.Range.Start.Character)
		})
	}

	_, ok := doc.Definition(cst.At(4, 4))
	assert.True(t, ok, "z is defined by its own statement")

	_, ok = doc.Definition(cst.At(5, 9))
	assert.False(t, ok, "List is a module")
}
