package compiler

import (
	"strings"
	"testing"
)

func TestControlFlow(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{
			name:     "single-line FOR",
			input:    "10 FOR i=1 TO 10 STEP 2: PRINT i: NEXT",
			contains: []string{"for (i = 1; i <= 10; i += 2) { print(i, \"\\n\"); }\n"},
		},
		{
			name:     "negative literal step",
			input:    "10 FOR i=10 TO 1 STEP -1: NEXT i",
			contains: []string{"for (i = 10; i >= 1; i -= 1) { }"},
		},
		{
			name:     "variable step",
			input:    "10 FOR i=1 TO n STEP s: NEXT",
			contains: []string{"for (i = 1; (s >= 0 ? i <= n : i >= n); i += s) { }"},
		},
		{
			name:     "nested loops closed by one NEXT",
			input:    "10 FOR i=1 TO 2: FOR j=1 TO 2: NEXT j, i",
			contains: []string{"for (i = 1; i <= 2; i++) { for (j = 1; j <= 2; j++) { } }"},
		},
		{
			name:     "IF with comparison",
			input:    "10 IF a > 1 THEN PRINT \"x\" ELSE PRINT \"y\"",
			contains: []string{`if (a > 1) { print("x", "\n"); } else { print("y", "\n"); }`},
		},
		{
			name:     "IF with logical condition",
			input:    "10 IF a > 1 AND b THEN c = 1",
			contains: []string{"if ((a > 1 ? -1 : 0) & b) { c = 1; }"},
		},
		{
			name:     "IF with parenthesised comparison",
			input:    "10 IF (a = 1) THEN c = 1",
			contains: []string{"if (a === 1) { c = 1; }"},
		},
		{
			name:     "comment hoisted out of IF",
			input:    "10 IF a THEN PRINT 1 ' note",
			contains: []string{`if (a) { print(1, "\n"); } // note`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := compileOK(t, tt.input)
			for _, want := range tt.contains {
				assertContains(t, out, want)
			}
		})
	}
}

func TestControlFlow_Indentation(t *testing.T) {
	src := `10 FOR i=1 TO 3
20 WHILE a < i
30 a = a + 1
40 WEND
50 NEXT i
60 PRINT a`

	expected := "let i = 0, a = 0;\n" +
		"for (i = 1; i <= 3; i++) {\n" +
		"\twhile (a < i) {\n" +
		"\t\ta = a + 1;\n" +
		"\t}\n" +
		"}\n" +
		"print(a, \"\\n\");\n"

	out, _ := compileOK(t, src)
	if !strings.HasPrefix(out, expected) {
		t.Errorf("unexpected layout:\n%s\nwant prefix:\n%s", out, expected)
	}
}

func TestControlFlow_IndentedSubroutine(t *testing.T) {
	src := `10 GOSUB 100
20 END
100 FOR i=1 TO 2
110 PRINT i
120 NEXT
130 RETURN`

	out, _ := compileOK(t, src)
	assertContains(t, out, "function _100() {\n\tlet i = 0;\n\tfor (i = 1; i <= 2; i++) {\n\t\tprint(i, \"\\n\");\n\t}\n\treturn;\n}\n")
}
