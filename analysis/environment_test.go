package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyls/satyls"
	"github.com/satyls/satyls/analysis"
	"github.com/satyls/satyls/cst"
)

func names(symbols []analysis.Symbol) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, s.Name)
	}

	return out
}

func TestBuildEnvironment(t *testing.T) {
	t.Parallel()

	src := "let-inline ctx \\foo = {}\n" +
		"let-block ctx +bar = '<>\n" +
		"let-math \\baz = ${x}\n" +
		"let-inline \\qux = {}\n" +
		"let (a, b) :: rest = []\n" +
		"let-inline ctx \\foo = {again}\n"

	doc := analysis.BuildDocument(src)
	require.NoError(t, doc.Err)

	env := doc.Environment()
	assert.Equal(t, []string{`\foo`, `\qux`, `\foo`}, names(env.InlineCommands))
	assert.Equal(t, []string{`+bar`}, names(env.BlockCommands))
	assert.Equal(t, []string{`\baz`}, names(env.MathCommands))
	assert.Equal(t, []string{"a", "b", "rest"}, names(env.Variables))
	assert.Equal(t, 8, env.Len())

	foo := env.InlineCommands[0]
	assert.Equal(t, analysis.SymbolInlineCommand, foo.Kind)
	assert.Zero(t, cst.At(0, 15).Compare(foo.Range.Start))
	assert.Zero(t, cst.At(0, 19).Compare(foo.Range.End))
	assert.Equal(t, "foo", foo.Bare())
	assert.Equal(t, "bar", env.BlockCommands[0].Bare())
}

func TestEnvironmentLatestWins(t *testing.T) {
	t.Parallel()

	src := "let-inline ctx \\foo = {one}\nlet-inline ctx \\foo = {two}\n"

	env := analysis.BuildDocument(src).Environment()
	require.Len(t, env.InlineCommands, 2)

	latest, ok := env.Latest(analysis.SymbolInlineCommand, `\foo`)
	require.True(t, ok)
	assert.Equal(t, uint32(1), latest.Range.Start.Line)

	_, ok = env.Latest(analysis.SymbolBlockCommand, `\foo`)
	assert.False(t, ok)
}

func TestEnvironmentIgnoresComments(t *testing.T) {
	t.Parallel()

	src := "let-inline % context follows\n  ctx % name follows\n  \\foo = {}\nlet % pattern\n  x = 1\n"

	doc := analysis.BuildDocument(src)
	require.NoError(t, doc.Err)

	env := doc.Environment()
	assert.Equal(t, []string{`\foo`}, names(env.InlineCommands))
	assert.Equal(t, []string{"x"}, names(env.Variables))
	assert.Empty(t, doc.Diagnostics)
}

func TestBuildEnvironmentNilRoot(t *testing.T) {
	t.Parallel()

	env, diags := analysis.BuildEnvironment(nil, "")
	assert.Zero(t, env.Len())
	assert.Empty(t, diags)
}

func TestBuildEnvironmentReportsMalformedStatement(t *testing.T) {
	t.Parallel()

	// A let-inline statement whose only child is not a name token.
	src := "let-inline ctx \\foo = {}"
	full, err := cst.Parse(satyls.RuleLetInlineStmt, src)
	require.NoError(t, err)

	full.Children = full.Children[2:]
	wrapper := &cst.Node{Rule: satyls.RuleProgram, Range: full.Range, Children: []*cst.Node{full}}

	env, diags := analysis.BuildEnvironment(wrapper, src)
	assert.Empty(t, env.InlineCommands)
	require.Len(t, diags, 1)
	assert.Equal(t, analysis.CodeInvariantViolation, diags[0].Code)
}
