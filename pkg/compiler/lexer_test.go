package compiler

import (
	"strings"
	"testing"
)

type tokPair struct {
	Type   TokenType
	Lexeme string
}

func lexPairs(t *testing.T, src string) []tokPair {
	t.Helper()
	tokens, _, err := Lex(src)
	if err != nil {
		t.Fatalf("Lex(%q) failed: %v", src, err)
	}
	pairs := make([]tokPair, len(tokens))
	for i, tok := range tokens {
		pairs[i] = tokPair{tok.Type, tok.Lexeme}
	}
	return pairs
}

func TestLex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokPair
	}{
		{
			name:     "Empty",
			input:    "",
			expected: []tokPair{{EOF, ""}},
		},
		{
			name:  "Operators",
			input: "+ - * / \\ ^ = <> < > <= >= ( ) [ ] , ; : # @",
			expected: []tokPair{
				{PLUS, "+"}, {MINUS, "-"}, {STAR, "*"}, {SLASH, "/"}, {BACKSLASH, "\\"},
				{CARET, "^"}, {EQUALS, "="}, {NOT_EQ, "<>"}, {LESS, "<"}, {GREATER, ">"},
				{LESS_EQ, "<="}, {GREATER_EQ, ">="}, {LPAREN, "("}, {RPAREN, ")"},
				{LBRACKET, "["}, {RBRACKET, "]"}, {COMMA, ","}, {SEMICOLON, ";"},
				{COLON, ":"}, {HASH, "#"}, {AT, "@"}, {EOF, ""},
			},
		},
		{
			name:  "Keywords are upper-cased, identifiers lower-cased",
			input: "print Name$ Count% ratio! left$",
			expected: []tokPair{
				{KEYWORD, "PRINT"}, {IDENTIFIER, "name$"}, {IDENTIFIER, "count%"},
				{IDENTIFIER, "ratio!"}, {KEYWORD, "LEFT$"}, {EOF, ""},
			},
		},
		{
			name:  "Numbers",
			input: "10 1.5 .25 1e3 2E-4 &FF &h1f &X1010",
			expected: []tokPair{
				{NUMBER, "10"}, {NUMBER, "1.5"}, {NUMBER, ".25"}, {NUMBER, "1e3"},
				{NUMBER, "2E-4"}, {HEXNUM, "ff"}, {HEXNUM, "1f"}, {BINNUM, "1010"}, {EOF, ""},
			},
		},
		{
			name:  "Strings and lines",
			input: "10 a$=\"Hi\"\r\n20 b=1",
			expected: []tokPair{
				{NUMBER, "10"}, {IDENTIFIER, "a$"}, {EQUALS, "="}, {STRING, "Hi"}, {EOL, "\n"},
				{NUMBER, "20"}, {IDENTIFIER, "b"}, {EQUALS, "="}, {NUMBER, "1"}, {EOF, ""},
			},
		},
		{
			name:  "Comments",
			input: "10 REM hello: world\n20 ' note",
			expected: []tokPair{
				{NUMBER, "10"}, {COMMENT, "hello: world"}, {EOL, "\n"},
				{NUMBER, "20"}, {COMMENT, "note"}, {EOF, ""},
			},
		},
		{
			name:  "DATA keeps raw items",
			input: `10 DATA 1, "a:b", x: PRINT`,
			expected: []tokPair{
				{NUMBER, "10"}, {KEYWORD, "DATA"}, {DATAITEMS, `1, "a:b", x`},
				{COLON, ":"}, {KEYWORD, "PRINT"}, {EOF, ""},
			},
		},
		{
			name:  "RSX",
			input: "|Circle,1",
			expected: []tokPair{
				{RSX, "circle"}, {COMMA, ","}, {NUMBER, "1"}, {EOF, ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lexPairs(t, tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(tt.expected), tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLex_LineNumbers(t *testing.T) {
	tokens, _, err := Lex("10 a=1\n\n30 b=2")
	if err != nil {
		t.Fatalf("Lex failed: %v", err)
	}
	last := tokens[len(tokens)-2]
	if last.Lexeme != "2" || last.Line != 3 {
		t.Errorf("expected last number on line 3, got %v", last)
	}
}

func TestLex_BOM(t *testing.T) {
	got := lexPairs(t, "\ufeff10 CLS")
	if got[0] != (tokPair{NUMBER, "10"}) {
		t.Errorf("BOM not skipped: %v", got)
	}
}

func TestLex_UnterminatedString(t *testing.T) {
	tokens, warnings, err := Lex("10 PRINT \"abc\n20 CLS")
	if err != nil {
		t.Fatalf("Lex failed: %v", err)
	}
	if tokens[2].Type != STRING || tokens[2].Lexeme != "abc" {
		t.Errorf("expected string token abc, got %v", tokens[2])
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "unterminated string") {
		t.Errorf("expected unterminated string warning, got %v", warnings)
	}
}

func TestLex_InvalidUTF8InString(t *testing.T) {
	tokens, warnings, err := Lex("10 PRINT \"a\xff\xfeb\"")
	if err != nil {
		t.Fatalf("Lex failed: %v", err)
	}
	if tokens[2].Type != STRING || tokens[2].Lexeme != "a\ufffd\ufffdb" {
		t.Errorf("unexpected string token %v", tokens[2])
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "line 1: invalid UTF-8 in string") {
		t.Errorf("expected one invalid UTF-8 warning, got %v", warnings)
	}

	c := NewCompiler(Options{})
	c.Compile("10 PRINT \"\xff\"")
	assertContains(t, strings.Join(c.Warnings(), "\n"), "invalid UTF-8 in string")
}

func TestLex_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Illegal character", "10 a = 1 ~ 2", "unexpected character"},
		{"Empty hex literal", "10 a = &", "malformed number literal"},
		{"Empty binary literal", "10 a = &X2", "malformed number literal"},
		{"Bare RSX bar", "10 |", "expected RSX name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Lex(tt.input)
			if err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}
