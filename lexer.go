package satyls

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// Token type constants for program mode - negative values as per participle convention.
const (
	tEOF         lexer.TokenType = lexer.EOF
	tIdent       lexer.TokenType = -(iota + 2) //nolint:mnd // participle convention
	tUpper                                     // module or constructor name
	tModVar                                    // Module.var
	tInlineCmd                                 // \name
	tBlockCmd                                  // +name
	tNumber                                    // integers and floats
	tLength                                    // 12pt, 1.5cm
	tString                                    // `...`
	tOp                                        // binary operators and =
	tUnderscore                                // _
	tLParen                                    // (
	tRParen                                    // )
	tLBracket                                  // [
	tRBracket                                  // ]
	tLBrace                                    // {
	tRBrace                                    // }
	tRecordOpen                                // (|
	tRecordClose                               // |)
	tVertOpen                                  // '<
	tMathOpen                                  // ${
	tOption                                    // ?:
	tArrow                                     // ->
	tComma                                     // ,
	tSemi                                      // ;
	tInvalid                                   // anything else
)

var keywords = map[string]bool{
	"let": true, "let-inline": true, "let-block": true, "let-math": true,
	"let-rec": true, "let-mutable": true, "in": true, "if": true, "then": true,
	"else": true, "fun": true, "true": true, "false": true, "not": true,
	"mod": true, "and": true, "type": true, "of": true, "match": true,
	"with": true, "when": true, "as": true, "module": true, "struct": true,
	"sig": true, "end": true, "open": true, "val": true, "before": true,
	"while": true, "do": true,
}

// Operators ordered longest first.
var operators = []string{
	"|>", "||", "&&", "==", "<>", "<=", ">=", "::", "++", "+.", "-.", "*.",
	"<", ">", "^", "+", "-", "*", "/", "=",
}

// scanner walks the input keeping 1-based line and rune column counters.
type scanner struct {
	input  string
	offset int
	line   int
	col    int
}

func newScanner(input string) *scanner {
	return &scanner{
		input:  input,
		offset: 0,
		line:   1,
		col:    1,
	}
}

func (s *scanner) pos() lexer.Position {
	return lexer.Position{
		Offset: s.offset,
		Line:   s.line,
		Column: s.col,
	}
}

func (s *scanner) eof() bool {
	return s.offset >= len(s.input)
}

func (s *scanner) peek() rune {
	if s.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(s.input[s.offset:])

	return r
}

// peekAt returns the rune n bytes ahead of the cursor.
func (s *scanner) peekAt(n int) rune {
	off := s.offset + n
	if off >= len(s.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(s.input[off:])

	return r
}

//nolint:unparam // Return value useful for debugging.
func (s *scanner) advance() rune {
	if s.eof() {
		return 0
	}

	r, size := utf8.DecodeRuneInString(s.input[s.offset:])
	s.offset += size

	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	return r
}

// advanceBytes moves the cursor over the next n bytes.
func (s *scanner) advanceBytes(n int) {
	target := min(s.offset+n, len(s.input))
	for s.offset < target {
		s.advance()
	}
}

func (s *scanner) match(str string) bool {
	return strings.HasPrefix(s.input[s.offset:], str)
}

type scannerState struct {
	offset, line, col int
}

func (s *scanner) save() scannerState {
	return scannerState{offset: s.offset, line: s.line, col: s.col}
}

func (s *scanner) restore(st scannerState) {
	s.offset, s.line, s.col = st.offset, st.line, st.col
}

// peekToken scans the next program-mode token without consuming it.
// Whitespace and comments must already have been skipped.
func (s *scanner) peekToken() lexer.Token {
	st := s.save()
	defer s.restore(st)

	return s.scanToken()
}

func (s *scanner) token(typ lexer.TokenType, start lexer.Position) lexer.Token {
	return lexer.Token{
		Type:  typ,
		Value: s.input[start.Offset:s.offset],
		Pos:   start,
	}
}

// scanToken scans one program-mode token.
func (s *scanner) scanToken() lexer.Token {
	if s.eof() {
		return lexer.EOFToken(s.pos())
	}

	start := s.pos()
	r := s.peek()

	switch {
	case isLower(r):
		s.scanName()

		return s.token(tIdent, start)

	case isUpper(r):
		s.scanName()

		if s.peek() == '.' && isLower(s.peekAt(1)) {
			s.advance()
			s.scanName()

			return s.token(tModVar, start)
		}

		return s.token(tUpper, start)

	case r == '\\' && isLetter(s.peekAt(1)):
		s.advance()
		s.scanCmdName()

		return s.token(tInlineCmd, start)

	case r == '+' && isLetter(s.peekAt(1)):
		s.advance()
		s.scanCmdName()

		return s.token(tBlockCmd, start)

	case isDigit(r):
		return s.scanNumber(start)

	case r == '`':
		if !s.scanString() {
			s.advance()

			return s.token(tInvalid, start)
		}

		return s.token(tString, start)

	case r == '_' && !isNameContinue(s.peekAt(1)):
		s.advance()

		return s.token(tUnderscore, start)
	}

	for _, p := range []struct {
		text string
		typ  lexer.TokenType
	}{
		{"(|", tRecordOpen}, {"|)", tRecordClose}, {"'<", tVertOpen}, {"${", tMathOpen},
		{"?:", tOption}, {"->", tArrow},
	} {
		if s.match(p.text) {
			s.advanceBytes(len(p.text))

			return s.token(p.typ, start)
		}
	}

	for _, op := range operators {
		if s.match(op) {
			s.advanceBytes(len(op))

			return s.token(tOp, start)
		}
	}

	s.advance()

	switch r {
	case '(':
		return s.token(tLParen, start)
	case ')':
		return s.token(tRParen, start)
	case '[':
		return s.token(tLBracket, start)
	case ']':
		return s.token(tRBracket, start)
	case '{':
		return s.token(tLBrace, start)
	case '}':
		return s.token(tRBrace, start)
	case ',':
		return s.token(tComma, start)
	case ';':
		return s.token(tSemi, start)
	}

	return s.token(tInvalid, start)
}

// scanName consumes an identifier body: letters, digits, '-' and '_'.
func (s *scanner) scanName() {
	s.advance()

	for !s.eof() && isNameContinue(s.peek()) {
		// A trailing '-' belongs to the next token (e.g. "x->").
		if s.peek() == '-' && !isNameContinue(s.peekAt(1)) {
			return
		}

		if s.peek() == '-' && s.peekAt(1) == '>' {
			return
		}

		s.advance()
	}
}

// scanCmdName consumes a command name after its sigil, allowing a module
// qualifier such as \List.cmd.
func (s *scanner) scanCmdName() {
	s.scanName()

	if s.peek() == '.' && isLetter(s.peekAt(1)) {
		s.advance()
		s.scanName()
	}
}

func (s *scanner) scanNumber(start lexer.Position) lexer.Token {
	if s.peek() == '0' && (s.peekAt(1) == 'x' || s.peekAt(1) == 'X') {
		s.advance() // 0
		s.advance() // x

		for !s.eof() && isHexDigit(s.peek()) {
			s.advance()
		}

		return s.token(tNumber, start)
	}

	for !s.eof() && isDigit(s.peek()) {
		s.advance()
	}

	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		s.advance() // .

		for !s.eof() && isDigit(s.peek()) {
			s.advance()
		}
	}

	// Length unit
	if isLower(s.peek()) {
		for !s.eof() && isLower(s.peek()) {
			s.advance()
		}

		return s.token(tLength, start)
	}

	return s.token(tNumber, start)
}

// scanString consumes a backtick string: n opening backticks closed by the
// next run of exactly n backticks. Returns false if unterminated.
func (s *scanner) scanString() bool {
	ticks := backtickRun(s.input[s.offset:])
	closer := strings.Repeat("`", ticks)

	end := strings.Index(s.input[s.offset+ticks:], closer)
	if end < 0 {
		return false
	}

	s.advanceBytes(ticks + end + ticks)

	return true
}

func backtickRun(str string) int {
	n := 0
	for n < len(str) && str[n] == '`' {
		n++
	}

	return n
}

// Character helpers.

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isLower(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func isUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

func isLetter(r rune) bool {
	return isLower(r) || isUpper(r)
}

func isNameContinue(r rune) bool {
	return r == '_' || r == '-' || isLetter(r) || isDigit(r)
}

// isTextRune reports whether r can appear unescaped in inline text.
func isTextRune(r rune) bool {
	switch r {
	case '\\', '{', '}', '%':
		return false
	}

	return unicode.IsPrint(r) || isSpace(r)
}
