package cst_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyls/satyls"
	"github.com/satyls/satyls/cst"
)

func TestMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rule satyls.Rule
		src  string
		pos  cst.Position
		want cst.Mode
	}{
		{
			name: "string inside text inside math is a literal",
			rule: satyls.RuleMathText,
			src:  "${\\text!{\\foo(`abc`);}}",
			pos:  cst.At(0, 16),
			want: cst.ModeLiteral,
		},
		{
			name: "command name inside math text argument is horizontal",
			rule: satyls.RuleMathText,
			src:  "${\\text!{\\foo(`abc`);}}",
			pos:  cst.At(0, 11),
			want: cst.ModeHorizontal,
		},
		{
			name: "math command name",
			rule: satyls.RuleMathText,
			src:  "${\\text!{\\foo(`abc`);}}",
			pos:  cst.At(0, 4),
			want: cst.ModeMath,
		},
		{
			name: "expression argument switches back to program",
			rule: satyls.RuleHorizontalText,
			src:  "{\\foo(x);}",
			pos:  cst.At(0, 6),
			want: cst.ModeProgram,
		},
		{
			name: "vertical interior",
			rule: satyls.RuleVerticalText,
			src:  "'<\n  \n>",
			pos:  cst.At(1, 1),
			want: cst.ModeVertical,
		},
		{
			name: "header",
			rule: satyls.RuleProgram,
			src:  "@require: stdjabook\nlet x = 1\n",
			pos:  cst.At(0, 12),
			want: cst.ModeHeader,
		},
		{
			name: "comment",
			rule: satyls.RuleProgram,
			src:  "let x = 1 % note\n",
			pos:  cst.At(0, 13),
			want: cst.ModeComment,
		},
		{
			name: "keyword defaults to program",
			rule: satyls.RuleProgram,
			src:  "let x = 1\n",
			pos:  cst.At(0, 1),
			want: cst.ModeProgram,
		},
		{
			name: "past the end defaults to program",
			rule: satyls.RuleProgram,
			src:  "let x = 1\n",
			pos:  cst.At(9, 9),
			want: cst.ModeProgram,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root, err := cst.Parse(tt.rule, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, root.Mode(tt.pos))
		})
	}
}

func TestModeOfEmptyChain(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cst.ModeProgram, cst.ModeOf(nil))
	assert.Equal(t, "literal", cst.ModeLiteral.String())
}
