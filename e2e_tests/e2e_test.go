package main

import (
	"strings"
	"testing"

	"locobasic/pkg/compiler"
)

func TestCompilerPipeline(t *testing.T) {
	// 1. Define BASIC source
	source := `10 REM bouncing ball
20 MODE 1: x = 320: dx = 4
30 WHILE INKEY$ <> " "
40 GOSUB 1000
50 x = x + dx
60 IF x < 0 OR x > 639 THEN dx = -dx
70 WEND
80 END
1000 PLOT x, 200, 1
1010 FRAME
1020 RETURN
`

	// 2. Lex and Parse
	tokens, warnings, err := compiler.Lex(source)
	if err != nil {
		t.Fatalf("Lexing failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected lexer warnings %v", warnings)
	}

	prog, err := compiler.Parse(tokens, source, compiler.Options{Strict: true})
	if err != nil {
		t.Fatalf("Parsing failed: %v", err)
	}
	if len(prog.Lines) != 11 {
		t.Fatalf("expected 11 lines, got %d", len(prog.Lines))
	}

	// 3. Generate JavaScript
	ctx := compiler.NewContext()
	js, err := compiler.Generate(prog, ctx)
	if err != nil {
		t.Fatalf("Code generation failed: %v", err)
	}

	t.Logf("Generated JavaScript:\n%s", js)

	// 4. Check the result against the single-call API
	if direct := compiler.Compile(source); direct != js {
		t.Errorf("Compile and the staged pipeline disagree:\n%s\n---\n%s", direct, js)
	}

	// 5. Inspect the tables
	labels := ctx.DefinedLabels()
	if last := labels[len(labels)-1]; last.Label != "1020" {
		t.Errorf("unexpected last label %+v", last)
	}
	var sub compiler.DefinedLabel
	for _, l := range labels {
		if l.Label == "1000" {
			sub = l
		}
	}
	if sub.FirstLine != 8 || sub.LastLine != 10 {
		t.Errorf("subroutine 1000 should span lines 8-10, got %+v", sub)
	}

	for _, want := range []string{
		"let x = 0, dx = 0;",
		`while (await inkey$() !== " ") {`,
		"\tawait _1000();",
		"\tif ((x < 0 ? -1 : 0) | (x > 639 ? -1 : 0)) { dx = -dx; }",
		"async function _1000() {",
		"\tplot(x, 200, 1);",
	} {
		if !strings.Contains(js, want) {
			t.Errorf("output lacks %q", want)
		}
	}
}
