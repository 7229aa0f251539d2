package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input
	EOL                  // end of a source line

	// Literals
	IDENTIFIER // variable name, lower-cased, with optional $ % ! suffix
	NUMBER     // decimal literal, e.g. 10, 1.5, .5, 2E3
	HEXNUM     // &FF or &HFF, lexeme holds the digits only
	BINNUM     // &X1010, lexeme holds the digits only
	STRING     // "..."

	KEYWORD   // reserved word, lexeme upper-cased (e.g. "PRINT", "LEFT$")
	COMMENT   // ' or REM text up to end of line
	DATAITEMS // raw text following DATA up to ':' or end of line
	RSX       // |name, lexeme is the lower-cased name

	// Paired delimiters
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]

	// Punctuation
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :
	HASH      // #
	AT        // @

	// Arithmetic operators
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	BACKSLASH // \ integer division
	CARET     // ^

	// Comparison
	EQUALS     // =
	NOT_EQ     // <>
	LESS       // <
	GREATER    // >
	LESS_EQ    // <=
	GREATER_EQ // >=
)

var tokenNames = [...]string{
	EOF:        "EOF",
	EOL:        "EOL",
	IDENTIFIER: "IDENTIFIER",
	NUMBER:     "NUMBER",
	HEXNUM:     "HEXNUM",
	BINNUM:     "BINNUM",
	STRING:     "STRING",
	KEYWORD:    "KEYWORD",
	COMMENT:    "COMMENT",
	DATAITEMS:  "DATAITEMS",
	RSX:        "RSX",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	LBRACKET:   "LBRACKET",
	RBRACKET:   "RBRACKET",
	COMMA:      "COMMA",
	SEMICOLON:  "SEMICOLON",
	COLON:      "COLON",
	HASH:       "HASH",
	AT:         "AT",
	PLUS:       "PLUS",
	MINUS:      "MINUS",
	STAR:       "STAR",
	SLASH:      "SLASH",
	BACKSLASH:  "BACKSLASH",
	CARET:      "CARET",
	EQUALS:     "EQUALS",
	NOT_EQ:     "NOT_EQ",
	LESS:       "LESS",
	GREATER:    "GREATER",
	LESS_EQ:    "LESS_EQ",
	GREATER_EQ: "GREATER_EQ",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // normalized text (see TokenType docs)
	Line   int    // 1-based source line
	Pos    int    // rune offset of the first character
	End    int    // rune offset just past the last character
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  line %d", t.Type, t.Lexeme, t.Line)
}

// is reports whether t is the keyword kw.
func (t Token) is(kw string) bool {
	return t.Type == KEYWORD && t.Lexeme == kw
}
