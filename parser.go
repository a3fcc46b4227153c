package satyls

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Parse parses text starting from the given entry rule and returns the
// resulting parse tree. The entry rule must consume the whole input.
//
// Supported entry rules are RuleProgram (a whole .saty/.satyh document),
// RuleHeaders, the four let-statement rules, RuleHorizontalText,
// RuleVerticalText, RuleMathText, RuleStringConst and RulePattern.
//
// On failure the returned error is a participle.Error carrying the
// position of the first syntax error.
func Parse(rule Rule, text string) (*Pair, error) {
	p := newParser(text)

	if rule == RuleProgram {
		return p.parseProgram()
	}

	fn, ok := p.entry(rule)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRule, rule)
	}

	holder := &Pair{input: text}
	p.stack = []*Pair{holder}

	if err := fn(); err != nil {
		return nil, err
	}

	p.skip()

	if !p.s.eof() {
		return nil, p.errorf("unexpected %s after %s", p.describe(), rule)
	}

	for _, child := range holder.inner {
		if child.rule != RuleComment {
			return child, nil
		}
	}

	return nil, p.errorf("empty %s", rule)
}

// ParseDocument parses a whole document.
func ParseDocument(text string) (*Pair, error) {
	return Parse(RuleProgram, text)
}

// parser is a recursive-descent parser building pairs on an explicit stack.
// Every parse function appends the pair it produces to the top of the stack.
type parser struct {
	s       *scanner
	input   string
	stack   []*Pair
	pending comments
	lastEnd lexer.Position
}

func newParser(input string) *parser {
	s := newScanner(input)

	return &parser{
		s:       s,
		input:   input,
		lastEnd: s.pos(),
	}
}

func (p *parser) entry(rule Rule) (func() error, bool) {
	switch rule {
	case RuleHeaders:
		return p.parseHeaders, true
	case RuleLetStmt:
		return p.parseLetStmt, true
	case RuleLetInlineStmt:
		return func() error { return p.parseLetCmdStmt(RuleLetInlineStmt, "let-inline", tInlineCmd, RuleInlineCmdName) }, true
	case RuleLetBlockStmt:
		return func() error { return p.parseLetCmdStmt(RuleLetBlockStmt, "let-block", tBlockCmd, RuleBlockCmdName) }, true
	case RuleLetMathStmt:
		return p.parseLetMathStmt, true
	case RuleHorizontalText:
		return p.parseHorizontalText, true
	case RuleVerticalText:
		return func() error { return p.parseVerticalText("'<") }, true
	case RuleMathText:
		return p.parseMathText, true
	case RuleStringConst:
		return p.parseStringConst, true
	case RulePattern:
		return p.parsePattern, true
	default:
		return nil, false
	}
}

// ----------------------------------------------------------------------------
// Tree building
// ----------------------------------------------------------------------------

func (p *parser) top() *Pair {
	return p.stack[len(p.stack)-1]
}

// skip consumes whitespace and comments, queueing the comments.
func (p *parser) skip() {
	for !p.s.eof() {
		r := p.s.peek()

		switch {
		case isSpace(r):
			p.s.advance()
		case r == '%':
			start := p.s.pos()
			for !p.s.eof() && p.s.peek() != '\n' {
				p.s.advance()
			}

			p.pending.add(Span{Start: start, End: p.s.pos()})
		default:
			return
		}
	}
}

// flush attaches pending comments to the innermost open pair.
func (p *parser) flush() {
	p.pending.attach(p.top())
}

// begin opens a pair for rule at the next significant character.
func (p *parser) begin(rule Rule) {
	p.skip()
	p.beginHere(rule)
}

// beginHere opens a pair for rule at the cursor without skipping trivia.
func (p *parser) beginHere(rule Rule) {
	p.flush()
	p.stack = append(p.stack, &Pair{
		rule:  rule,
		input: p.input,
		span:  Span{Start: p.s.pos(), End: p.s.pos()},
	})
}

// end closes the innermost pair at the end of the last consumed token.
func (p *parser) end() *Pair {
	pair := p.top()
	p.stack = p.stack[:len(p.stack)-1]

	pair.span.End = p.lastEnd
	if pair.span.End.Offset < pair.span.Start.Offset {
		pair.span.End = pair.span.Start
	}

	parent := p.top()
	parent.inner = append(parent.inner, pair)

	return pair
}

// endInterior closes the innermost pair at the cursor, keeping trailing
// whitespace and comments inside it. Used for mode interiors.
func (p *parser) endInterior() {
	p.skip()
	p.flush()
	p.lastEnd = p.s.pos()
	p.end()
}

// endRaw closes the innermost pair at the cursor without skipping.
func (p *parser) endRaw() {
	p.lastEnd = p.s.pos()
	p.end()
}

// wrapLast re-parents the last child of the innermost pair under a new pair
// for rule, which stays open.
func (p *parser) wrapLast(rule Rule) {
	parent := p.top()
	last := parent.inner[len(parent.inner)-1]
	parent.inner = parent.inner[:len(parent.inner)-1]

	p.stack = append(p.stack, &Pair{
		rule:  rule,
		input: p.input,
		span:  Span{Start: last.span.Start, End: last.span.End},
		inner: []*Pair{last},
	})
}

// consume advances over n bytes of significant text without producing a pair.
func (p *parser) consume(n int) {
	p.flush()
	p.s.advanceBytes(n)
	p.lastEnd = p.s.pos()
}

// leaf produces a pair for rule covering the next n bytes.
func (p *parser) leaf(rule Rule, n int) {
	p.flush()

	start := p.s.pos()
	p.s.advanceBytes(n)
	p.lastEnd = p.s.pos()

	parent := p.top()
	parent.inner = append(parent.inner, &Pair{
		rule:  rule,
		input: p.input,
		span:  Span{Start: start, End: p.lastEnd},
	})
}

// peek skips trivia and returns the next program-mode token.
func (p *parser) peek() lexer.Token {
	p.skip()

	return p.s.peekToken()
}

func (p *parser) isKeyword(tok lexer.Token, kw string) bool {
	return tok.Type == tIdent && tok.Value == kw
}

func (p *parser) isOp(tok lexer.Token, op string) bool {
	return tok.Type == tOp && tok.Value == op
}

// expect consumes a token of the given type (and value, if non-empty).
func (p *parser) expect(typ lexer.TokenType, value, what string) error {
	tok := p.peek()
	if tok.Type != typ || (value != "" && tok.Value != value) {
		return p.errorf("unexpected %s, expected %s", describeToken(tok), what)
	}

	p.consume(len(tok.Value))

	return nil
}

func (p *parser) expectKeyword(kw string) error {
	return p.expect(tIdent, kw, fmt.Sprintf("%q", kw))
}

func (p *parser) errorf(format string, args ...any) error {
	return participle.Errorf(p.s.pos(), format, args...)
}

func (p *parser) describe() string {
	if p.s.eof() {
		return "end of input"
	}

	return fmt.Sprintf("%q", p.s.peek())
}

func describeToken(tok lexer.Token) string {
	if tok.EOF() {
		return "end of input"
	}

	return fmt.Sprintf("%q", tok.Value)
}

// ----------------------------------------------------------------------------
// Document structure
// ----------------------------------------------------------------------------

func (p *parser) parseProgram() (*Pair, error) {
	root := &Pair{
		rule:  RuleProgram,
		input: p.input,
		span:  Span{Start: p.s.pos()},
	}
	p.stack = []*Pair{root}

	p.skip()

	if p.s.peek() == '@' {
		if err := p.parseHeaders(); err != nil {
			return nil, err
		}
	}

	if p.startsStatement(p.peek()) {
		if err := p.parsePreamble(); err != nil {
			return nil, err
		}

		tok := p.peek()
		if p.isKeyword(tok, "in") {
			p.consume(len(tok.Value))

			if err := p.parseExpr(); err != nil {
				return nil, err
			}
		}
	} else if !p.peek().EOF() {
		if err := p.parseExpr(); err != nil {
			return nil, err
		}
	}

	p.skip()

	if !p.s.eof() {
		return nil, p.errorf("unexpected %s", describeToken(p.s.peekToken()))
	}

	p.flush()
	root.span.End = p.s.pos()

	return root, nil
}

func (p *parser) parseHeaders() error {
	p.begin(RuleHeaders)

	for p.s.peek() == '@' {
		var err error

		switch {
		case p.s.match("@stage:"):
			err = p.parseHeader(RuleHeaderStage, "@stage:", RuleStage)
		case p.s.match("@require:"):
			err = p.parseHeader(RuleHeaderRequire, "@require:", RulePkgName)
		case p.s.match("@import:"):
			err = p.parseHeader(RuleHeaderImport, "@import:", RulePkgName)
		default:
			err = p.errorf("unknown header, expected @stage:, @require: or @import:")
		}

		if err != nil {
			return err
		}

		p.skip()
	}

	p.end()

	return nil
}

func (p *parser) parseHeader(rule Rule, directive string, value Rule) error {
	p.beginHere(rule)
	p.consume(len(directive))

	for p.s.peek() == ' ' || p.s.peek() == '\t' {
		p.s.advance()
	}

	n := 0
	for rest := p.input[p.s.offset:]; n < len(rest) && !isSpace(rune(rest[n])) && rest[n] != '%'; n++ {
	}

	if n == 0 {
		return p.errorf("missing value after %s", directive)
	}

	if value == RuleStage {
		switch p.input[p.s.offset : p.s.offset+n] {
		case "0", "1", "persistent":
		default:
			return p.errorf("invalid stage %q", p.input[p.s.offset:p.s.offset+n])
		}
	}

	p.leaf(value, n)

	for p.s.peek() == ' ' || p.s.peek() == '\t' {
		p.s.advance()
	}

	if !p.s.eof() && p.s.peek() != '\n' && p.s.peek() != '\r' && p.s.peek() != '%' {
		return p.errorf("unexpected %s after %s", p.describe(), directive)
	}

	p.end()

	return nil
}

func (p *parser) startsStatement(tok lexer.Token) bool {
	if tok.Type != tIdent {
		return false
	}

	switch tok.Value {
	case "let", "let-inline", "let-block", "let-math":
		return true
	}

	return false
}

func (p *parser) parsePreamble() error {
	p.begin(RulePreamble)

	for {
		tok := p.peek()
		if !p.startsStatement(tok) {
			break
		}

		var err error

		switch tok.Value {
		case "let":
			err = p.parseLetStmt()
		case "let-inline":
			err = p.parseLetCmdStmt(RuleLetInlineStmt, "let-inline", tInlineCmd, RuleInlineCmdName)
		case "let-block":
			err = p.parseLetCmdStmt(RuleLetBlockStmt, "let-block", tBlockCmd, RuleBlockCmdName)
		case "let-math":
			err = p.parseLetMathStmt()
		}

		if err != nil {
			return err
		}
	}

	p.end()

	return nil
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

// parseLetStmt parses: "let" pattern arg* "=" expr.
func (p *parser) parseLetStmt() error {
	p.begin(RuleLetStmt)

	if err := p.parseLetBinding(); err != nil {
		return err
	}

	p.end()

	return nil
}

// parseLetBinding parses the "let" pattern arg* "=" expr part shared by
// statements and let-expressions.
func (p *parser) parseLetBinding() error {
	if err := p.expectKeyword("let"); err != nil {
		return err
	}

	if err := p.parsePattern(); err != nil {
		return err
	}

	return p.parseArgsAndBody()
}

func (p *parser) parseArgsAndBody() error {
	for p.startsPatternAtom(p.peek()) {
		p.begin(RuleArg)

		if err := p.parsePatternAtom(); err != nil {
			return err
		}

		p.end()
	}

	if err := p.expect(tOp, "=", `"="`); err != nil {
		return err
	}

	return p.parseExpr()
}

// parseLetCmdStmt parses: keyword (var name | name) arg* "=" expr.
func (p *parser) parseLetCmdStmt(rule Rule, keyword string, nameTok lexer.TokenType, nameRule Rule) error {
	p.begin(rule)

	if err := p.expectKeyword(keyword); err != nil {
		return err
	}

	tok := p.peek()
	if tok.Type == tIdent && !keywords[tok.Value] {
		p.leaf(RuleVar, len(tok.Value))
		tok = p.peek()
	}

	if tok.Type != nameTok {
		return p.errorf("unexpected %s, expected command name", describeToken(tok))
	}

	p.leaf(nameRule, len(tok.Value))

	if err := p.parseArgsAndBody(); err != nil {
		return err
	}

	p.end()

	return nil
}

// parseLetMathStmt parses: "let-math" \name arg* "=" expr.
func (p *parser) parseLetMathStmt() error {
	p.begin(RuleLetMathStmt)

	if err := p.expectKeyword("let-math"); err != nil {
		return err
	}

	tok := p.peek()
	if tok.Type != tInlineCmd {
		return p.errorf("unexpected %s, expected math command name", describeToken(tok))
	}

	p.leaf(RuleMathCmdName, len(tok.Value))

	if err := p.parseArgsAndBody(); err != nil {
		return err
	}

	p.end()

	return nil
}

// ----------------------------------------------------------------------------
// Patterns
// ----------------------------------------------------------------------------

func (p *parser) startsPatternAtom(tok lexer.Token) bool {
	switch tok.Type {
	case tIdent:
		return !keywords[tok.Value] || tok.Value == "true" || tok.Value == "false"
	case tUnderscore, tLParen, tLBracket, tNumber, tLength, tString:
		return true
	}

	return false
}

// parsePattern parses: pattern-atom ("::" pattern)?.
func (p *parser) parsePattern() error {
	p.begin(RulePattern)

	if err := p.parsePatternAtom(); err != nil {
		return err
	}

	if tok := p.peek(); p.isOp(tok, "::") {
		p.leaf(RuleBinOp, len(tok.Value))

		if err := p.parsePattern(); err != nil {
			return err
		}
	}

	p.end()

	return nil
}

func (p *parser) parsePatternAtom() error {
	tok := p.peek()

	switch tok.Type {
	case tIdent:
		switch {
		case tok.Value == "true" || tok.Value == "false":
			p.leaf(RuleBoolConst, len(tok.Value))
		case keywords[tok.Value]:
			return p.errorf("unexpected keyword %q in pattern", tok.Value)
		default:
			p.leaf(RuleVar, len(tok.Value))
		}

		return nil

	case tUnderscore:
		p.leaf(RuleWildcard, len(tok.Value))

		return nil

	case tNumber, tLength:
		p.leaf(numberRule(tok), len(tok.Value))

		return nil

	case tString:
		return p.parseStringConst()

	case tLParen:
		return p.parseDelimitedPattern(RuleTuplePattern, tComma, tRParen, `")"`)

	case tLBracket:
		return p.parseDelimitedPattern(RuleListPattern, tSemi, tRBracket, `"]"`)
	}

	return p.errorf("unexpected %s, expected pattern", describeToken(tok))
}

// parseDelimitedPattern parses an opening bracket, patterns separated by sep
// and the closing bracket. "()" is the unit pattern.
func (p *parser) parseDelimitedPattern(rule Rule, sep, closer lexer.TokenType, what string) error {
	p.begin(rule)
	p.consume(1)

	if tok := p.peek(); tok.Type == closer {
		if rule == RuleTuplePattern {
			p.top().rule = RuleUnitConst
		}

		p.consume(len(tok.Value))
		p.end()

		return nil
	}

	for {
		if err := p.parsePattern(); err != nil {
			return err
		}

		tok := p.peek()
		if tok.Type != sep {
			break
		}

		p.consume(len(tok.Value))
	}

	if err := p.expect(closer, "", what); err != nil {
		return err
	}

	p.end()

	return nil
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

func (p *parser) parseExpr() error {
	tok := p.peek()

	switch {
	case p.isKeyword(tok, "let"):
		return p.parseLetExpr()
	case p.isKeyword(tok, "if"):
		return p.parseIfExpr()
	case p.isKeyword(tok, "fun"):
		return p.parseLambda()
	}

	return p.parseBinary(0)
}

func (p *parser) parseLetExpr() error {
	p.begin(RuleLetExpr)

	if err := p.parseLetBinding(); err != nil {
		return err
	}

	if err := p.expectKeyword("in"); err != nil {
		return err
	}

	if err := p.parseExpr(); err != nil {
		return err
	}

	p.end()

	return nil
}

func (p *parser) parseIfExpr() error {
	p.begin(RuleIfExpr)

	for _, kw := range []string{"if", "then", "else"} {
		if err := p.expectKeyword(kw); err != nil {
			return err
		}

		if err := p.parseExpr(); err != nil {
			return err
		}
	}

	p.end()

	return nil
}

func (p *parser) parseLambda() error {
	p.begin(RuleLambda)

	if err := p.expectKeyword("fun"); err != nil {
		return err
	}

	if !p.startsPatternAtom(p.peek()) {
		return p.errorf("unexpected %s, expected parameter", describeToken(p.peek()))
	}

	for p.startsPatternAtom(p.peek()) {
		p.begin(RuleArg)

		if err := p.parsePatternAtom(); err != nil {
			return err
		}

		p.end()
	}

	if err := p.expect(tArrow, "", `"->"`); err != nil {
		return err
	}

	if err := p.parseExpr(); err != nil {
		return err
	}

	p.end()

	return nil
}

// binop returns the precedence and associativity of a binary operator token.
func binop(tok lexer.Token) (prec int, rightAssoc, ok bool) {
	switch {
	case tok.Type == tIdent && tok.Value == "mod":
		return 6, false, true
	case tok.Type == tBlockCmd:
		// "a +b" scans as a block command name.
		return 5, false, true
	case tok.Type != tOp:
		return 0, false, false
	}

	switch tok.Value {
	case "|>":
		return 0, false, true
	case "||":
		return 1, false, true
	case "&&":
		return 2, false, true
	case "==", "<>", "<", ">", "<=", ">=":
		return 3, false, true
	case "::", "^", "++":
		return 4, true, true
	case "+", "-", "+.", "-.":
		return 5, false, true
	case "*", "/", "*.":
		return 6, false, true
	}

	return 0, false, false
}

// parseBinary implements precedence climbing over unary expressions.
func (p *parser) parseBinary(minPrec int) error {
	if err := p.parseUnary(); err != nil {
		return err
	}

	for {
		tok := p.peek()

		prec, right, ok := binop(tok)
		if !ok || prec < minPrec {
			return nil
		}

		opLen := len(tok.Value)
		if tok.Type == tBlockCmd {
			opLen = 1
		}

		p.wrapLast(RuleBinaryExpr)
		p.leaf(RuleBinOp, opLen)

		next := prec + 1
		if right {
			next = prec
		}

		if err := p.parseBinary(next); err != nil {
			return err
		}

		p.end()
	}
}

func (p *parser) parseUnary() error {
	tok := p.peek()

	if p.isOp(tok, "-") || p.isKeyword(tok, "not") {
		p.begin(RuleUnaryExpr)
		p.leaf(RuleUnaryOp, len(tok.Value))

		if err := p.parseUnary(); err != nil {
			return err
		}

		p.end()

		return nil
	}

	return p.parseApplication()
}

func (p *parser) parseApplication() error {
	if err := p.parseAtom(); err != nil {
		return err
	}

	if !p.startsAtom(p.peek()) {
		return nil
	}

	p.wrapLast(RuleApplication)

	for p.startsAtom(p.peek()) {
		if err := p.parseAtom(); err != nil {
			return err
		}
	}

	p.end()

	return nil
}

func (p *parser) startsAtom(tok lexer.Token) bool {
	switch tok.Type {
	case tIdent:
		return !keywords[tok.Value] || tok.Value == "true" || tok.Value == "false"
	case tUpper, tModVar, tNumber, tLength, tString, tLParen, tRecordOpen,
		tLBracket, tLBrace, tVertOpen, tMathOpen:
		return true
	}

	return false
}

func numberRule(tok lexer.Token) Rule {
	switch {
	case tok.Type == tLength:
		return RuleLengthConst
	case strings.Contains(tok.Value, ".") && !strings.HasPrefix(tok.Value, "0x"):
		return RuleFloatConst
	default:
		return RuleIntConst
	}
}

func (p *parser) parseAtom() error {
	tok := p.peek()

	switch tok.Type {
	case tIdent:
		switch {
		case tok.Value == "true" || tok.Value == "false":
			p.leaf(RuleBoolConst, len(tok.Value))
		case keywords[tok.Value]:
			return p.errorf("unexpected keyword %q", tok.Value)
		default:
			p.leaf(RuleVar, len(tok.Value))
		}

		return nil

	case tModVar:
		dot := strings.IndexByte(tok.Value, '.')

		p.begin(RuleModVar)
		p.leaf(RuleModName, dot)
		p.consume(1)
		p.leaf(RuleVar, len(tok.Value)-dot-1)
		p.end()

		return nil

	case tUpper:
		p.leaf(RuleConstructor, len(tok.Value))

		return nil

	case tNumber, tLength:
		p.leaf(numberRule(tok), len(tok.Value))

		return nil

	case tString:
		return p.parseStringConst()

	case tLParen:
		return p.parseParen()

	case tRecordOpen:
		return p.parseRecord()

	case tLBracket:
		return p.parseList()

	case tLBrace:
		return p.parseHorizontalText()

	case tVertOpen:
		return p.parseVerticalText("'<")

	case tMathOpen:
		return p.parseMathText()

	case tInvalid:
		if strings.HasPrefix(tok.Value, "`") {
			return p.errorf("unterminated string literal")
		}
	}

	return p.errorf("unexpected %s, expected expression", describeToken(tok))
}

// parseParen parses "()", "(" expr ")" or a tuple "(" expr ("," expr)+ ")".
func (p *parser) parseParen() error {
	p.begin(RuleTuple)
	p.consume(1)

	if tok := p.peek(); tok.Type == tRParen {
		p.top().rule = RuleUnitConst
		p.consume(1)
		p.end()

		return nil
	}

	count := 0

	for {
		if err := p.parseExpr(); err != nil {
			return err
		}

		count++

		tok := p.peek()
		if tok.Type != tComma {
			break
		}

		p.consume(1)
	}

	if err := p.expect(tRParen, "", `")"`); err != nil {
		return err
	}

	if count == 1 {
		p.top().rule = RuleParenedExpr
	}

	p.end()

	return nil
}

// parseRecord parses "(|" (var "=" expr (";" var "=" expr)*)? "|)".
func (p *parser) parseRecord() error {
	p.begin(RuleRecord)
	p.consume(2)

	for {
		tok := p.peek()
		if tok.Type == tRecordClose {
			break
		}

		if tok.Type != tIdent || keywords[tok.Value] {
			return p.errorf("unexpected %s, expected record field", describeToken(tok))
		}

		p.begin(RuleRecordUnit)
		p.leaf(RuleVar, len(tok.Value))

		if err := p.expect(tOp, "=", `"="`); err != nil {
			return err
		}

		if err := p.parseExpr(); err != nil {
			return err
		}

		p.end()

		if tok := p.peek(); tok.Type == tSemi {
			p.consume(1)

			continue
		}

		break
	}

	if err := p.expect(tRecordClose, "", `"|)"`); err != nil {
		return err
	}

	p.end()

	return nil
}

// parseList parses "[" (expr (";" expr)* ";"?)? "]".
func (p *parser) parseList() error {
	p.begin(RuleList)
	p.consume(1)

	for {
		if tok := p.peek(); tok.Type == tRBracket {
			break
		}

		if err := p.parseExpr(); err != nil {
			return err
		}

		tok := p.peek()
		if tok.Type != tSemi {
			break
		}

		p.consume(1)
	}

	if err := p.expect(tRBracket, "", `"]"`); err != nil {
		return err
	}

	p.end()

	return nil
}

// parseStringConst parses a backtick string into string_const with a
// string_interior child spanning the text between the backticks.
func (p *parser) parseStringConst() error {
	p.skip()

	tok := p.s.peekToken()
	if tok.Type != tString {
		if strings.HasPrefix(tok.Value, "`") {
			return p.errorf("unterminated string literal")
		}

		return p.errorf("unexpected %s, expected string literal", describeToken(tok))
	}

	ticks := backtickRun(tok.Value)

	p.beginHere(RuleStringConst)
	p.consume(ticks)
	p.beginHere(RuleStringInterior)
	p.s.advanceBytes(len(tok.Value) - 2*ticks)
	p.endRaw()
	p.consume(ticks)
	p.end()

	return nil
}

// ----------------------------------------------------------------------------
// Horizontal and vertical text
// ----------------------------------------------------------------------------

// parseHorizontalText parses "{" horizontal_mode "}".
func (p *parser) parseHorizontalText() error {
	p.begin(RuleHorizontalText)

	if p.s.peek() != '{' {
		return p.errorf("unexpected %s, expected \"{\"", p.describe())
	}

	p.consume(1)
	p.beginHere(RuleHorizontalMode)

	if err := p.parseHorizontalContent(); err != nil {
		return err
	}

	p.endInterior()
	p.consume(1) // }
	p.end()

	return nil
}

func (p *parser) parseHorizontalContent() error {
	for {
		p.skip()

		if p.s.eof() {
			return p.errorf("unclosed horizontal text, expected \"}\"")
		}

		r := p.s.peek()

		var err error

		switch {
		case r == '}':
			return nil
		case r == '{':
			err = p.parseHorizontalText()
		case r == '\\' && isLetter(p.s.peekAt(1)):
			err = p.parseCommand(RuleInlineCmd, RuleInlineCmdName)
		case r == '$' && p.s.peekAt(1) == '{':
			err = p.parseMathText()
		default:
			err = p.parseInlineText()
		}

		if err != nil {
			return err
		}
	}
}

// parseInlineText consumes a run of plain text, excluding trailing spaces.
func (p *parser) parseInlineText() error {
	p.beginHere(RuleInlineText)

	start := p.s.offset

	for !p.s.eof() {
		r := p.s.peek()

		if r == '$' && p.s.peekAt(1) == '{' {
			break
		}

		if r == '\\' {
			next := p.s.peekAt(1)
			if next == 0 || isLetter(next) {
				break
			}

			p.s.advance()
			p.s.advance()
			p.lastEnd = p.s.pos()

			continue
		}

		if !isTextRune(r) {
			break
		}

		p.s.advance()

		if !isSpace(r) {
			p.lastEnd = p.s.pos()
		}
	}

	if p.s.offset == start {
		return p.errorf("unexpected %s in horizontal text", p.describe())
	}

	p.end()

	return nil
}

// parseVerticalText parses opener vertical_mode ">".
func (p *parser) parseVerticalText(opener string) error {
	p.begin(RuleVerticalText)

	if !p.s.match(opener) {
		return p.errorf("unexpected %s, expected %q", p.describe(), opener)
	}

	p.consume(len(opener))
	p.beginHere(RuleVerticalMode)

	for {
		p.skip()

		if p.s.eof() {
			return p.errorf("unclosed vertical text, expected \">\"")
		}

		if p.s.peek() == '>' {
			break
		}

		if p.s.peek() != '+' || !isLetter(p.s.peekAt(1)) {
			return p.errorf("unexpected %s in vertical text, expected block command", p.describe())
		}

		if err := p.parseCommand(RuleBlockCmd, RuleBlockCmdName); err != nil {
			return err
		}
	}

	p.endInterior()
	p.consume(1) // >
	p.end()

	return nil
}

// parseCommand parses an inline or block command application:
// name (cmd_expr_arg | cmd_expr_option)* (horizontal_text | vertical_text)* ";"?
// The trailing ";" is required unless a text argument ends the command.
func (p *parser) parseCommand(rule, nameRule Rule) error {
	p.begin(rule)

	tok := p.s.peekToken()
	p.leaf(nameRule, len(tok.Value))

	if err := p.parseCmdArgs(); err != nil {
		return err
	}

	p.end()

	return nil
}

func (p *parser) parseCmdArgs() error {
	for {
		p.skip()

		switch {
		case p.s.match("?:"):
			if err := p.parseCmdExprOption(RuleCmdExprOption); err != nil {
				return err
			}
		case p.s.peek() == '(':
			if err := p.parseCmdExprArg(); err != nil {
				return err
			}
		case p.s.peek() == '[':
			p.begin(RuleCmdExprArg)

			if err := p.parseList(); err != nil {
				return err
			}

			p.end()
		case p.s.peek() == '{' || p.s.peek() == '<':
			return p.parseTextArgs()
		case p.s.peek() == ';':
			p.consume(1)

			return nil
		default:
			return p.errorf("unexpected %s, expected \";\" after command", p.describe())
		}
	}
}

// parseTextArgs parses a run of adjacent text arguments, which ends the
// command.
func (p *parser) parseTextArgs() error {
	for {
		switch p.s.peek() {
		case '{':
			if err := p.parseHorizontalText(); err != nil {
				return err
			}
		case '<':
			if err := p.parseVerticalText("<"); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// parseCmdExprArg parses "(" expr? ")" or a record argument.
func (p *parser) parseCmdExprArg() error {
	p.begin(RuleCmdExprArg)

	if p.s.match("(|") {
		if err := p.parseRecord(); err != nil {
			return err
		}

		p.end()

		return nil
	}

	p.consume(1)

	if tok := p.peek(); tok.Type != tRParen {
		if err := p.parseExpr(); err != nil {
			return err
		}
	}

	if err := p.expect(tRParen, "", `")"`); err != nil {
		return err
	}

	p.end()

	return nil
}

// parseCmdExprOption parses "?:(" expr ")".
func (p *parser) parseCmdExprOption(rule Rule) error {
	p.begin(rule)
	p.consume(2)

	if err := p.expect(tLParen, "", `"("`); err != nil {
		return err
	}

	if err := p.parseExpr(); err != nil {
		return err
	}

	if err := p.expect(tRParen, "", `")"`); err != nil {
		return err
	}

	p.end()

	return nil
}

// ----------------------------------------------------------------------------
// Math
// ----------------------------------------------------------------------------

// parseMathText parses "${" math_mode "}".
func (p *parser) parseMathText() error {
	p.begin(RuleMathText)

	if !p.s.match("${") {
		return p.errorf("unexpected %s, expected \"${\"", p.describe())
	}

	p.consume(2)
	p.beginHere(RuleMathMode)

	if err := p.parseMathContent(); err != nil {
		return err
	}

	p.endInterior()
	p.consume(1) // }
	p.end()

	return nil
}

func (p *parser) parseMathContent() error {
	for {
		p.skip()

		if p.s.eof() {
			return p.errorf("unclosed math, expected \"}\"")
		}

		r := p.s.peek()

		switch {
		case r == '}':
			return nil
		case r == '{':
			if err := p.parseMathGroup(); err != nil {
				return err
			}
		case r == '\\' && isLetter(p.s.peekAt(1)):
			if err := p.parseMathCmd(); err != nil {
				return err
			}
		case r == '\\':
			if p.s.peekAt(1) == 0 {
				return p.errorf("unexpected end of input after \"\\\"")
			}

			_, size := utf8DecodeAt(p.input, p.s.offset+1)
			p.leaf(RuleMathToken, 1+size)
		case isLetter(r) || isDigit(r):
			n := 0
			for rest := p.input[p.s.offset:]; n < len(rest) && (isLetter(rune(rest[n])) || isDigit(rune(rest[n]))); n++ {
			}

			p.leaf(RuleMathToken, n)
		default:
			_, size := utf8DecodeAt(p.input, p.s.offset)
			p.leaf(RuleMathToken, size)
		}
	}
}

// parseMathGroup parses "{" math "}".
func (p *parser) parseMathGroup() error {
	p.begin(RuleMathGroup)
	p.consume(1)

	if err := p.parseMathContent(); err != nil {
		return err
	}

	p.consume(1) // }
	p.end()

	return nil
}

// parseMathCmd parses a math command and its adjacent arguments.
func (p *parser) parseMathCmd() error {
	p.begin(RuleMathCmd)

	tok := p.s.peekToken()
	p.leaf(RuleMathCmdName, len(tok.Value))

	for {
		var err error

		switch {
		case p.s.match("!("):
			p.beginHere(RuleMathCmdExprArg)
			p.consume(1)
			p.consume(1)

			if err = p.parseExpr(); err != nil {
				return err
			}

			err = p.expect(tRParen, "", `")"`)
			p.end()
		case p.s.match("!{"):
			p.beginHere(RuleMathCmdExprArg)
			p.consume(1)
			err = p.parseHorizontalText()
			p.end()
		case p.s.match("!<"):
			p.beginHere(RuleMathCmdExprArg)
			p.consume(1)
			err = p.parseVerticalText("<")
			p.end()
		case p.s.match("?:("):
			err = p.parseCmdExprOption(RuleMathCmdExprOption)
		case p.s.peek() == '{':
			err = p.parseMathGroup()
		default:
			p.end()

			return nil
		}

		if err != nil {
			return err
		}
	}
}

func utf8DecodeAt(s string, off int) (rune, int) {
	if off >= len(s) {
		return 0, 0
	}

	r, size := utf8.DecodeRuneInString(s[off:])

	return r, size
}
