package compiler

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// keywords is the set of reserved words, upper-cased and including any $ suffix.
var keywords = map[string]bool{
	"ABS": true, "AFTER": true, "AND": true, "ASC": true, "ATN": true, "BIN$": true,
	"BORDER": true, "CALL": true, "CHR$": true, "CINT": true, "CLEAR": true, "CLS": true,
	"COS": true, "DATA": true, "DEC$": true, "DEF": true, "DEG": true, "DIM": true,
	"DRAW": true, "DRAWR": true, "ELSE": true, "END": true, "ENT": true, "ENV": true,
	"ERASE": true, "EVERY": true, "EXP": true, "FIX": true, "FN": true, "FOR": true,
	"FRAME": true, "GOSUB": true, "GOTO": true, "GRAPHICS": true, "HEX$": true, "IF": true,
	"INK": true, "INKEY$": true, "INPUT": true, "INSTR": true, "INT": true, "KEY": true,
	"LEFT$": true, "LEN": true, "LET": true, "LOCATE": true, "LOG": true, "LOG10": true,
	"LOWER$": true, "MAX": true, "MID$": true, "MIN": true, "MOD": true, "MODE": true,
	"MOVE": true, "MOVER": true, "NEXT": true, "NOT": true, "ON": true, "OR": true,
	"ORIGIN": true, "OUT": true, "PAPER": true, "PEN": true, "PI": true, "PLOT": true,
	"PLOTR": true, "POKE": true, "PRINT": true, "RAD": true, "RANDOMIZE": true, "READ": true,
	"REM": true, "REMAIN": true, "RESTORE": true, "RETURN": true, "RIGHT$": true, "RND": true,
	"ROUND": true, "SGN": true, "SIN": true, "SOUND": true, "SPACE$": true, "SPC": true,
	"SPEED": true, "SQR": true, "STEP": true, "STOP": true, "STR$": true, "STRING$": true,
	"TAB": true, "TAG": true, "TAGOFF": true, "TAN": true, "THEN": true, "TIME": true,
	"TO": true, "UPPER$": true, "USING": true, "VAL": true, "WEND": true, "WHILE": true,
	"WINDOW": true, "WRITE": true, "XOR": true, "XPOS": true, "YPOS": true, "ZONE": true,
}

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src      []rune
	pos      int // index of the next rune to consume
	line     int // current 1-based source line
	warnings []string
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(normalizeSource(src)), pos: 0, line: 1}
}

// normalizeSource converts CRLF and lone CR line endings to LF and drops a UTF-8 BOM.
func normalizeSource(src string) string {
	src = strings.TrimPrefix(src, "\ufeff")
	src = strings.ReplaceAll(src, "\r\n", "\n")
	return strings.ReplaceAll(src, "\r", "\n")
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peek2() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *Lexer) warn(format string, args ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

// skipBlanks skips spaces and tabs but never a newline, which is significant.
func (l *Lexer) skipBlanks() {
	for l.pos < len(l.src) && (l.peek() == ' ' || l.peek() == '\t') {
		l.advance()
	}
}

// restOfLine consumes everything up to (not including) the next newline.
func (l *Lexer) restOfLine() string {
	start := l.pos
	for l.pos < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
	return string(l.src[start:l.pos])
}

func isIdentStart(r rune) bool { return r < unicode.MaxASCII && unicode.IsLetter(r) }

func isIdentPart(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}

// scanWord collects an identifier or keyword, including a trailing type suffix.
// The first letter must still be at l.peek().
func (l *Lexer) scanWord() Token {
	line := l.line
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.peek()) {
		l.advance()
	}
	word := string(l.src[start:l.pos])
	upper := strings.ToUpper(word)

	switch l.peek() {
	case '$':
		if keywords[upper+"$"] {
			l.advance()
			return Token{Type: KEYWORD, Lexeme: upper + "$", Line: line, Pos: start, End: l.pos}
		}
		l.advance()
		return Token{Type: IDENTIFIER, Lexeme: strings.ToLower(word) + "$", Line: line, Pos: start, End: l.pos}
	case '%', '!':
		if !keywords[upper] {
			suffix := l.advance()
			return Token{Type: IDENTIFIER, Lexeme: strings.ToLower(word) + string(suffix), Line: line, Pos: start, End: l.pos}
		}
	}

	if keywords[upper] {
		return Token{Type: KEYWORD, Lexeme: upper, Line: line, Pos: start, End: l.pos}
	}
	return Token{Type: IDENTIFIER, Lexeme: strings.ToLower(word), Line: line, Pos: start, End: l.pos}
}

func isHexDigit(r rune) bool {
	return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// scanNumber collects a decimal literal with optional fraction and exponent.
func (l *Lexer) scanNumber() Token {
	line := l.line
	start := l.pos
	for unicode.IsDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' {
		l.advance()
		for unicode.IsDigit(l.peek()) {
			l.advance()
		}
	}
	if (l.peek() == 'e' || l.peek() == 'E') &&
		(unicode.IsDigit(l.peek2()) || ((l.peek2() == '+' || l.peek2() == '-') && l.pos+2 < len(l.src) && unicode.IsDigit(l.src[l.pos+2]))) {
		l.advance() // e
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		for unicode.IsDigit(l.peek()) {
			l.advance()
		}
	}
	return Token{Type: NUMBER, Lexeme: string(l.src[start:l.pos]), Line: line, Pos: start, End: l.pos}
}

// scanAmpersand collects &FF, &HFF and &X1010 literals. The '&' must still be at l.peek().
func (l *Lexer) scanAmpersand() (Token, error) {
	line := l.line
	start := l.pos
	l.advance() // &

	tt := HEXNUM
	switch l.peek() {
	case 'x', 'X':
		tt = BINNUM
		l.advance()
	case 'h', 'H':
		if isHexDigit(l.peek2()) {
			l.advance()
		}
	}

	digitStart := l.pos
	for l.pos < len(l.src) {
		r := l.peek()
		if (tt == BINNUM && (r == '0' || r == '1')) || (tt == HEXNUM && isHexDigit(r)) {
			l.advance()
			continue
		}
		break
	}
	if l.pos == digitStart {
		return Token{}, fmt.Errorf("line %d: malformed number literal %q", line, string(l.src[start:l.pos]))
	}
	return Token{Type: tt, Lexeme: strings.ToLower(string(l.src[digitStart:l.pos])), Line: line, Pos: start, End: l.pos}, nil
}

// scanString collects a string literal. An unterminated string ends at the
// end of the line and produces a warning instead of an error.
func (l *Lexer) scanString() Token {
	line := l.line
	start := l.pos
	l.advance() // opening "
	var val []rune
	for l.pos < len(l.src) && l.peek() != '"' && l.peek() != '\n' {
		val = append(val, l.advance())
	}
	if l.peek() == '"' {
		l.advance()
	} else {
		l.warn("line %d: unterminated string %q", line, string(val))
	}
	for _, r := range val {
		if r == utf8.RuneError {
			l.warn("line %d: invalid UTF-8 in string replaced with U+FFFD", line)
			break
		}
	}
	return Token{Type: STRING, Lexeme: string(val), Line: line, Pos: start, End: l.pos}
}

// scanDataItems collects the raw item list of a DATA statement. It stops at an
// unquoted ':' or at the end of the line.
func (l *Lexer) scanDataItems() Token {
	line := l.line
	start := l.pos
	inString := false
	for l.pos < len(l.src) && l.peek() != '\n' {
		r := l.peek()
		if r == '"' {
			inString = !inString
		} else if r == ':' && !inString {
			break
		}
		l.advance()
	}
	return Token{Type: DATAITEMS, Lexeme: string(l.src[start:l.pos]), Line: line, Pos: start, End: l.pos}
}

// nextToken skips blanks and returns the next Token.
func (l *Lexer) nextToken() (Token, error) {
	l.skipBlanks()
	if l.pos >= len(l.src) {
		return Token{Type: EOF, Line: l.line, Pos: l.pos, End: l.pos}, nil
	}

	ch := l.peek()
	line := l.line
	start := l.pos

	switch {
	case isIdentStart(ch):
		tok := l.scanWord()
		if tok.is("REM") {
			text := strings.TrimSpace(l.restOfLine())
			return Token{Type: COMMENT, Lexeme: text, Line: line, Pos: start, End: l.pos}, nil
		}
		return tok, nil
	case unicode.IsDigit(ch) || (ch == '.' && unicode.IsDigit(l.peek2())):
		return l.scanNumber(), nil
	case ch == '&':
		return l.scanAmpersand()
	case ch == '"':
		return l.scanString(), nil
	case ch == '\'':
		l.advance()
		text := strings.TrimSpace(l.restOfLine())
		return Token{Type: COMMENT, Lexeme: text, Line: line, Pos: start, End: l.pos}, nil
	case ch == '|':
		l.advance()
		nameStart := l.pos
		for l.pos < len(l.src) && isIdentPart(l.peek()) {
			l.advance()
		}
		if l.pos == nameStart {
			return Token{}, fmt.Errorf("line %d: expected RSX name after '|'", line)
		}
		return Token{Type: RSX, Lexeme: strings.ToLower(string(l.src[nameStart:l.pos])), Line: line, Pos: start, End: l.pos}, nil
	}

	l.advance()
	tok := func(tt TokenType) (Token, error) {
		return Token{Type: tt, Lexeme: string(l.src[start:l.pos]), Line: line, Pos: start, End: l.pos}, nil
	}
	switch ch {
	case '\n':
		return Token{Type: EOL, Lexeme: "\n", Line: line, Pos: start, End: l.pos}, nil
	case '(':
		return tok(LPAREN)
	case ')':
		return tok(RPAREN)
	case '[':
		return tok(LBRACKET)
	case ']':
		return tok(RBRACKET)
	case ',':
		return tok(COMMA)
	case ';':
		return tok(SEMICOLON)
	case ':':
		return tok(COLON)
	case '#':
		return tok(HASH)
	case '@':
		return tok(AT)
	case '+':
		return tok(PLUS)
	case '-':
		return tok(MINUS)
	case '*':
		return tok(STAR)
	case '/':
		return tok(SLASH)
	case '\\':
		return tok(BACKSLASH)
	case '^':
		return tok(CARET)
	case '=':
		return tok(EQUALS)
	case '<':
		if l.peek() == '>' {
			l.advance()
			return tok(NOT_EQ)
		}
		if l.peek() == '=' {
			l.advance()
			return tok(LESS_EQ)
		}
		return tok(LESS)
	case '>':
		if l.peek() == '=' {
			l.advance()
			return tok(GREATER_EQ)
		}
		return tok(GREATER)
	default:
		return Token{}, fmt.Errorf("line %d: unexpected character %q", line, ch)
	}
}

// Lex tokenises src and returns all tokens including the final EOF token,
// together with any non-fatal lexical warnings.
// It returns a non-nil error on the first illegal character.
func Lex(src string) ([]Token, []string, error) {
	l := newLexer(src)
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return tokens, l.warnings, err
		}
		tokens = append(tokens, tok)
		if tok.is("DATA") {
			l.skipBlanks()
			tokens = append(tokens, l.scanDataItems())
		}
		if tok.Type == EOF {
			return tokens, l.warnings, nil
		}
	}
}
