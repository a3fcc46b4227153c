package cst_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyls/satyls"
	"github.com/satyls/satyls/cst"
)

const sampleDocument = `@require: stdjabook
@import: local % comment

let-inline ctx \emph it = read-inline ctx it
let-block ctx +note it = '<+p{it}>
let (x, y) = (1, ` + "`日本語`" + `)
in

document (|title = {タイトル}|) '<
  +p{
    日本語 \emph{text}; ${\sqrt{x^2}}
  }
>
`

func TestFromPairContainment(t *testing.T) {
	t.Parallel()

	root, err := cst.Parse(satyls.RuleProgram, sampleDocument)
	require.NoError(t, err)

	root.Walk(func(n *cst.Node) bool {
		prev := n.Range.Start
		for _, child := range n.Children {
			assert.True(t, child.Range.IsContainedIn(n.Range), "%s %s not in %s %s", child.Rule, child.Range, n.Rule, n.Range)
			assert.False(t, child.Range.Start.Before(prev), "%s out of order", child.Rule)
			prev = child.Range.Start
		}

		return true
	})
}

func TestFromPairIdempotent(t *testing.T) {
	t.Parallel()

	pair, err := satyls.Parse(satyls.RuleProgram, sampleDocument)
	require.NoError(t, err)

	first := cst.FromPair(pair)
	second := cst.FromPair(pair)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("FromPair() mismatch (-first +second):\n%s", diff)
	}

	again, err := cst.Parse(satyls.RuleProgram, sampleDocument)
	require.NoError(t, err)

	if diff := cmp.Diff(first, again); diff != "" {
		t.Errorf("reparse mismatch (-first +again):\n%s", diff)
	}
}

func TestFromPairPreservesShape(t *testing.T) {
	t.Parallel()

	pair, err := satyls.Parse(satyls.RuleProgram, sampleDocument)
	require.NoError(t, err)

	var check func(p *satyls.Pair, n *cst.Node)
	check = func(p *satyls.Pair, n *cst.Node) {
		require.Equal(t, p.Rule(), n.Rule)
		require.Len(t, n.Children, len(p.Inner()))

		text, err := n.Text(sampleDocument)
		require.NoError(t, err)
		assert.Equal(t, p.String(), text)

		for i, child := range p.Inner() {
			check(child, n.Children[i])
		}
	}
	check(pair, cst.FromPair(pair))
}

func TestTextRoundTrip(t *testing.T) {
	t.Parallel()

	root, err := cst.Parse(satyls.RuleProgram, sampleDocument)
	require.NoError(t, err)

	text, err := root.Text(sampleDocument)
	require.NoError(t, err)
	assert.Equal(t, sampleDocument, text)

	var names []string

	for _, n := range root.Pickup(satyls.RuleInlineCmdName) {
		name, err := n.Text(sampleDocument)
		require.NoError(t, err)

		names = append(names, name)
	}

	assert.Equal(t, []string{`\emph`, `\emph`}, names)
}

func TestTextInvariantViolation(t *testing.T) {
	t.Parallel()

	node := &cst.Node{
		Rule: satyls.RuleVar,
		Range: cst.Range{
			Start: cst.Position{Offset: 2},
			End:   cst.Position{Offset: 40},
		},
	}

	_, err := node.Text("short")
	require.ErrorIs(t, err, satyls.ErrInvariantViolation)

	split := &cst.Node{
		Rule: satyls.RuleVar,
		Range: cst.Range{
			Start: cst.Position{Offset: 0},
			End:   cst.Position{Offset: 1},
		},
	}

	_, err = split.Text("日本")
	require.ErrorIs(t, err, satyls.ErrInvariantViolation)
}

func TestPretty(t *testing.T) {
	t.Parallel()

	src := "`ab`"

	root, err := cst.Parse(satyls.RuleStringConst, src)
	require.NoError(t, err)

	want := strings.Join([]string{
		"- [string_const] (0:0..0:4)",
		`  | [string_interior] (0:1..0:3): "ab"`,
		"",
	}, "\n")
	assert.Equal(t, want, root.Pretty(src))
}
