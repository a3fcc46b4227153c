package cst

import "github.com/satyls/satyls"

// Mode is the lexical mode at a position.
type Mode int

// Modes. Program is the default.
const (
	ModeProgram Mode = iota
	ModeVertical
	ModeHorizontal
	ModeMath
	ModeHeader
	ModeLiteral
	ModeComment
)

var modeNames = [...]string{
	ModeProgram:    "program",
	ModeVertical:   "vertical",
	ModeHorizontal: "horizontal",
	ModeMath:       "math",
	ModeHeader:     "header",
	ModeLiteral:    "literal",
	ModeComment:    "comment",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}

	return modeNames[m]
}

// ruleModes lists the rules that decide a mode. Any other rule is transparent.
var ruleModes = map[satyls.Rule]Mode{
	satyls.RuleVerticalMode:      ModeVertical,
	satyls.RuleHorizontalMode:    ModeHorizontal,
	satyls.RuleMathMode:          ModeMath,
	satyls.RuleHeaders:           ModeHeader,
	satyls.RuleHeaderStage:       ModeHeader,
	satyls.RuleComment:           ModeComment,
	satyls.RuleStringInterior:    ModeLiteral,
	satyls.RuleCmdExprArg:        ModeProgram,
	satyls.RuleCmdExprOption:     ModeProgram,
	satyls.RuleMathCmdExprArg:    ModeProgram,
	satyls.RuleMathCmdExprOption: ModeProgram,
}

// ModeOf classifies a Dig chain: the innermost node whose rule decides a
// mode wins. An empty chain, or one with no deciding rule, is Program.
func ModeOf(chain []*Node) Mode {
	for _, node := range chain {
		if mode, ok := ruleModes[node.Rule]; ok {
			return mode
		}
	}

	return ModeProgram
}

// Mode returns the mode at pos below n.
func (n *Node) Mode(pos Position) Mode {
	return ModeOf(n.Dig(pos))
}
