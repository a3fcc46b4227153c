package satyls_test

import (
	"strings"
	"testing"

	"github.com/alecthomas/participle/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyls/satyls"
)

// shape renders a pair tree as rule(children...) for compact comparison.
func shape(p *satyls.Pair) string {
	var b strings.Builder

	var walk func(p *satyls.Pair)
	walk = func(p *satyls.Pair) {
		b.WriteString(p.Rule().String())

		if len(p.Inner()) == 0 {
			return
		}

		b.WriteString("(")

		for i, child := range p.Inner() {
			if i > 0 {
				b.WriteString(" ")
			}

			walk(child)
		}

		b.WriteString(")")
	}
	walk(p)

	return b.String()
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rule  satyls.Rule
		input string
		want  string
	}{
		{
			name:  "let-inline with context",
			rule:  satyls.RuleLetInlineStmt,
			input: `let-inline ctx \foo = {}`,
			want:  "let_inline_stmt(var inline_cmd_name horizontal_text(horizontal_mode))",
		},
		{
			name:  "let-block with context",
			rule:  satyls.RuleLetBlockStmt,
			input: `let-block ctx +bar = '<>`,
			want:  "let_block_stmt(var block_cmd_name vertical_text(vertical_mode))",
		},
		{
			name:  "let-inline without context",
			rule:  satyls.RuleLetInlineStmt,
			input: `let-inline \foo x = x`,
			want:  "let_inline_stmt(inline_cmd_name arg(var) var)",
		},
		{
			name:  "let-math",
			rule:  satyls.RuleLetMathStmt,
			input: `let-math \m = ${x}`,
			want:  "let_math_stmt(math_cmd_name math_text(math_mode(math_token)))",
		},
		{
			name:  "let with tuple pattern",
			rule:  satyls.RuleLetStmt,
			input: "let (a, b) = (1, 2)",
			want:  "let_stmt(pattern(tuple_pattern(pattern(var) pattern(var))) tuple(int_const int_const))",
		},
		{
			name:  "let with lambda",
			rule:  satyls.RuleLetStmt,
			input: "let f = fun x -> x",
			want:  "let_stmt(pattern(var) lambda(arg(var) var))",
		},
		{
			name:  "plus before a name is a binary operator",
			rule:  satyls.RuleLetStmt,
			input: "let x = a +b",
			want:  "let_stmt(pattern(var) binary_expr(var bin_op var))",
		},
		{
			name:  "operator precedence",
			rule:  satyls.RuleLetStmt,
			input: "let x = 1 + 2 * 3",
			want:  "let_stmt(pattern(var) binary_expr(int_const bin_op binary_expr(int_const bin_op int_const)))",
		},
		{
			name:  "module variable application",
			rule:  satyls.RuleLetStmt,
			input: "let n = List.length xs",
			want:  "let_stmt(pattern(var) application(mod_var(mod_name var) var))",
		},
		{
			name:  "if expression",
			rule:  satyls.RuleLetStmt,
			input: "let y = if b then 1pt else 2.5",
			want:  "let_stmt(pattern(var) if_expr(var length_const float_const))",
		},
		{
			name:  "headers",
			rule:  satyls.RuleHeaders,
			input: "@require: stdjabook\n@import: local\n",
			want:  "headers(header_require(pkgname) header_import(pkgname))",
		},
		{
			name:  "string literal",
			rule:  satyls.RuleStringConst,
			input: "``a ` b``",
			want:  "string_const(string_interior)",
		},
		{
			name:  "inline command inside text",
			rule:  satyls.RuleHorizontalText,
			input: `{a \emph{b} c}`,
			want:  "horizontal_text(horizontal_mode(inline_text inline_cmd(inline_cmd_name horizontal_text(horizontal_mode(inline_text))) inline_text))",
		},
		{
			name:  "inline command with arguments",
			rule:  satyls.RuleHorizontalText,
			input: "{\\ref(`x`)?:(1);}",
			want:  "horizontal_text(horizontal_mode(inline_cmd(inline_cmd_name cmd_expr_arg(string_const(string_interior)) cmd_expr_option(int_const))))",
		},
		{
			name:  "comment inside text",
			rule:  satyls.RuleHorizontalText,
			input: "{a % c\n b}",
			want:  "horizontal_text(horizontal_mode(inline_text comment inline_text))",
		},
		{
			name:  "math command with groups",
			rule:  satyls.RuleMathText,
			input: `${\frac{a}{b}}`,
			want:  "math_text(math_mode(math_cmd(math_cmd_name math_group(math_token) math_group(math_token))))",
		},
		{
			name:  "math command with text argument",
			rule:  satyls.RuleMathText,
			input: `${\text!{ab}}`,
			want:  "math_text(math_mode(math_cmd(math_cmd_name math_cmd_expr_arg(horizontal_text(horizontal_mode(inline_text))))))",
		},
		{
			name:  "vertical text",
			rule:  satyls.RuleVerticalText,
			input: "'<\n  +section{Intro}<\n    +p{x}\n  >\n>",
			want: "vertical_text(vertical_mode(block_cmd(block_cmd_name " +
				"horizontal_text(horizontal_mode(inline_text)) " +
				"vertical_text(vertical_mode(block_cmd(block_cmd_name horizontal_text(horizontal_mode(inline_text))))))))",
		},
		{
			name:  "document",
			rule:  satyls.RuleProgram,
			input: "@require: stdjabook\n\ndocument (|title = {T}|) '<\n  +p{hello}\n>\n",
			want: "program(headers(header_require(pkgname)) " +
				"application(var record(record_unit(var horizontal_text(horizontal_mode(inline_text)))) " +
				"vertical_text(vertical_mode(block_cmd(block_cmd_name horizontal_text(horizontal_mode(inline_text)))))))",
		},
		{
			name:  "package preamble",
			rule:  satyls.RuleProgram,
			input: "let x = 1\nlet-inline ctx \\foo = {}\n",
			want:  "program(preamble(let_stmt(pattern(var) int_const) let_inline_stmt(var inline_cmd_name horizontal_text(horizontal_mode))))",
		},
		{
			name:  "trailing comment attaches to program",
			rule:  satyls.RuleProgram,
			input: "let x = 1 % note\n",
			want:  "program(preamble(let_stmt(pattern(var) int_const)) comment)",
		},
		{
			name:  "empty document",
			rule:  satyls.RuleProgram,
			input: "",
			want:  "program",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pair, err := satyls.Parse(tt.rule, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, shape(pair))
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rule     satyls.Rule
		input    string
		wantLine int
		wantCol  int
	}{
		{name: "missing expression", rule: satyls.RuleProgram, input: "let x =\n", wantLine: 2, wantCol: 1},
		{name: "unclosed text", rule: satyls.RuleHorizontalText, input: "{abc", wantLine: 1, wantCol: 5},
		{name: "missing semicolon", rule: satyls.RuleHorizontalText, input: `{\foo x}`, wantLine: 1, wantCol: 7},
		{name: "unterminated string", rule: satyls.RuleStringConst, input: "`abc", wantLine: 1, wantCol: 1},
		{name: "trailing input", rule: satyls.RuleLetStmt, input: "let x = 1 )", wantLine: 1, wantCol: 11},
		{name: "bad stage", rule: satyls.RuleHeaders, input: "@stage: 2\n", wantLine: 1, wantCol: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := satyls.Parse(tt.rule, tt.input)
			require.Error(t, err)

			var perr participle.Error
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.wantLine, perr.Position().Line)
			assert.Equal(t, tt.wantCol, perr.Position().Column)
		})
	}
}

func TestParseUnsupportedRule(t *testing.T) {
	t.Parallel()

	_, err := satyls.Parse(satyls.RuleInlineCmdName, `\foo`)
	require.ErrorIs(t, err, satyls.ErrUnsupportedRule)
}

func TestParseContainment(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"@require: stdjabook % std",
		"@import: lib",
		"",
		"let-inline ctx \\emph inner = % doc",
		"  read-inline ctx inner",
		"let-block ctx +note it = '<+p{it}>",
		"let-math \\abs x = ${|#x|}",
		"let (a, b) :: rest = [(1, `s`); (2, ``t``)]",
		"in",
		"document (|title = {タイトル}; author = {x}|) '<",
		"  +p{日本語 \\emph{inline}; ${x^{2}} % tail",
		"  }",
		"  % between",
		">",
		"",
	}, "\n")

	root, err := satyls.Parse(satyls.RuleProgram, input)
	require.NoError(t, err)

	assert.Equal(t, 0, root.Start().Offset)
	assert.Equal(t, len(input), root.End().Offset)

	var check func(p *satyls.Pair)
	check = func(p *satyls.Pair) {
		prev := p.Start().Offset
		for _, child := range p.Inner() {
			assert.GreaterOrEqual(t, child.Start().Offset, p.Start().Offset, "%#v in %#v", child, p)
			assert.LessOrEqual(t, child.End().Offset, p.End().Offset, "%#v in %#v", child, p)
			assert.GreaterOrEqual(t, child.Start().Offset, prev, "%#v out of order", child)
			assert.LessOrEqual(t, child.Start().Offset, child.End().Offset)

			prev = child.Start().Offset

			check(child)
		}
	}
	check(root)
}

func TestPairPositions(t *testing.T) {
	t.Parallel()

	input := "{日本 \\x;}"

	pair, err := satyls.Parse(satyls.RuleHorizontalText, input)
	require.NoError(t, err)

	mode := pair.Inner()[0]
	require.Equal(t, satyls.RuleHorizontalMode, mode.Rule())

	text := mode.Inner()[0]
	assert.Equal(t, "日本", text.String())
	assert.Equal(t, 2, text.Start().Column)
	assert.Equal(t, 4, text.End().Column)

	cmd := mode.Inner()[1]
	assert.Equal(t, `\x;`, cmd.String())
	assert.Equal(t, `\x`, cmd.Inner()[0].String())

	// The interior spans everything between the braces.
	assert.Equal(t, "日本 \\x;", mode.String())
}

func TestHeaderExcludesNewline(t *testing.T) {
	t.Parallel()

	pair, err := satyls.Parse(satyls.RuleHeaders, "@stage: persistent\n@require: math\n")
	require.NoError(t, err)

	require.Len(t, pair.Inner(), 2)
	assert.Equal(t, "@stage: persistent", pair.Inner()[0].String())
	assert.Equal(t, "persistent", pair.Inner()[0].Inner()[0].String())
	assert.Equal(t, "@require: math", pair.Inner()[1].String())
}

func TestRuleByName(t *testing.T) {
	t.Parallel()

	rule, ok := satyls.RuleByName("let_inline_stmt")
	require.True(t, ok)
	assert.Equal(t, satyls.RuleLetInlineStmt, rule)

	_, ok = satyls.RuleByName("nope")
	assert.False(t, ok)
}
