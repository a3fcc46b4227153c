package satyls

// Rule identifies a grammar rule. Every named rule the parser matches
// produces one Pair carrying its Rule.
type Rule int

// Grammar rules.
const (
	RuleUnknown Rule = iota

	// Document structure.
	RuleProgram
	RuleHeaders
	RuleHeaderStage
	RuleHeaderRequire
	RuleHeaderImport
	RuleStage
	RulePkgName
	RulePreamble

	// Statements.
	RuleLetStmt
	RuleLetInlineStmt
	RuleLetBlockStmt
	RuleLetMathStmt
	RuleArg

	// Patterns.
	RulePattern
	RuleTuplePattern
	RuleListPattern
	RuleWildcard

	// Expressions.
	RuleLetExpr
	RuleIfExpr
	RuleLambda
	RuleBinaryExpr
	RuleBinOp
	RuleUnaryExpr
	RuleUnaryOp
	RuleApplication
	RuleParenedExpr
	RuleTuple
	RuleList
	RuleRecord
	RuleRecordUnit
	RuleVar
	RuleModVar
	RuleModName
	RuleConstructor

	// Constants.
	RuleUnitConst
	RuleBoolConst
	RuleIntConst
	RuleFloatConst
	RuleLengthConst
	RuleStringConst
	RuleStringInterior

	// Horizontal mode.
	RuleHorizontalText
	RuleHorizontalMode
	RuleInlineText
	RuleInlineCmd
	RuleInlineCmdName

	// Vertical mode.
	RuleVerticalText
	RuleVerticalMode
	RuleBlockCmd
	RuleBlockCmdName

	// Command arguments.
	RuleCmdExprArg
	RuleCmdExprOption

	// Math mode.
	RuleMathText
	RuleMathMode
	RuleMathToken
	RuleMathGroup
	RuleMathCmd
	RuleMathCmdName
	RuleMathCmdExprArg
	RuleMathCmdExprOption

	// Comments.
	RuleComment
)

var ruleNames = map[Rule]string{
	RuleUnknown:           "unknown",
	RuleProgram:           "program",
	RuleHeaders:           "headers",
	RuleHeaderStage:       "header_stage",
	RuleHeaderRequire:     "header_require",
	RuleHeaderImport:      "header_import",
	RuleStage:             "stage",
	RulePkgName:           "pkgname",
	RulePreamble:          "preamble",
	RuleLetStmt:           "let_stmt",
	RuleLetInlineStmt:     "let_inline_stmt",
	RuleLetBlockStmt:      "let_block_stmt",
	RuleLetMathStmt:       "let_math_stmt",
	RuleArg:               "arg",
	RulePattern:           "pattern",
	RuleTuplePattern:      "tuple_pattern",
	RuleListPattern:       "list_pattern",
	RuleWildcard:          "wildcard",
	RuleLetExpr:           "let_expr",
	RuleIfExpr:            "if_expr",
	RuleLambda:            "lambda",
	RuleBinaryExpr:        "binary_expr",
	RuleBinOp:             "bin_op",
	RuleUnaryExpr:         "unary_expr",
	RuleUnaryOp:           "unary_op",
	RuleApplication:       "application",
	RuleParenedExpr:       "parened_expr",
	RuleTuple:             "tuple",
	RuleList:              "list",
	RuleRecord:            "record",
	RuleRecordUnit:        "record_unit",
	RuleVar:               "var",
	RuleModVar:            "mod_var",
	RuleModName:           "mod_name",
	RuleConstructor:       "constructor",
	RuleUnitConst:         "unit_const",
	RuleBoolConst:         "bool_const",
	RuleIntConst:          "int_const",
	RuleFloatConst:        "float_const",
	RuleLengthConst:       "length_const",
	RuleStringConst:       "string_const",
	RuleStringInterior:    "string_interior",
	RuleHorizontalText:    "horizontal_text",
	RuleHorizontalMode:    "horizontal_mode",
	RuleInlineText:        "inline_text",
	RuleInlineCmd:         "inline_cmd",
	RuleInlineCmdName:     "inline_cmd_name",
	RuleVerticalText:      "vertical_text",
	RuleVerticalMode:      "vertical_mode",
	RuleBlockCmd:          "block_cmd",
	RuleBlockCmdName:      "block_cmd_name",
	RuleCmdExprArg:        "cmd_expr_arg",
	RuleCmdExprOption:     "cmd_expr_option",
	RuleMathText:          "math_text",
	RuleMathMode:          "math_mode",
	RuleMathToken:         "math_token",
	RuleMathGroup:         "math_group",
	RuleMathCmd:           "math_cmd",
	RuleMathCmdName:       "math_cmd_name",
	RuleMathCmdExprArg:    "math_cmd_expr_arg",
	RuleMathCmdExprOption: "math_cmd_expr_option",
	RuleComment:           "comment",
}

// String returns the grammar name of the rule (e.g. "let_inline_stmt").
func (r Rule) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}

	return "unknown"
}

// RuleByName looks a rule up by its grammar name.
func RuleByName(name string) (Rule, bool) {
	for r, n := range ruleNames {
		if n == name && r != RuleUnknown {
			return r, true
		}
	}

	return RuleUnknown, false
}
