//go:build !js

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"locobasic/pkg/compiler"
	"locobasic/pkg/utils"
)

func TestCompileSieveApp(t *testing.T) {
	// 1. Read source
	srcPath := "_bas/sieve.bas"
	srcBytes, err := os.ReadFile(srcPath)
	if err != nil {
		t.Fatalf("Failed to read source: %v", err)
	}

	// 2. Compile to a file
	outPath := utils.DefaultOutputPath(srcPath, t.TempDir())
	c := compiler.NewCompiler(compiler.Options{Strict: true})
	if code := compileTo(c, string(srcBytes), outPath, false); code != 0 {
		t.Fatalf("compileTo returned %d", code)
	}

	// 3. Check the generated program
	js, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	out := string(js)
	for _, want := range []string{
		"let n = 0, p = [], i = 0;",
		"if (p[i] === 0) { _1000(); }",
		"function _1000() {\n\tlet j = 0;\n",
		"for (j = i * i; (i >= 0 ? j <= n : j >= n); j += i) {",
		"function dim(dims, value = 0) {",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "async") {
		t.Errorf("sieve has no suspension points but output is async:\n%s", out)
	}
}

func TestCompileQuizApp(t *testing.T) {
	srcBytes, err := os.ReadFile("_bas/quiz.bas")
	if err != nil {
		t.Fatalf("Failed to read source: %v", err)
	}

	outPath := filepath.Join(t.TempDir(), "quiz.js")
	c := compiler.NewCompiler(compiler.Options{})
	if code := compileTo(c, string(srcBytes), outPath, false); code != 0 {
		t.Fatalf("compileTo returned %d", code)
	}
	js, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	out := string(js)
	for _, want := range []string{
		`const _data = ["2 + 2", 4, "3 * 3", 9, "&10 in decimal", 16];`,
		`const _restoreMap = {"200": 0};`,
		`reply = await input(" ", true);`,
		`question$ = read(); answer = read();`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestCompileToReportsErrors(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "bad.js")
	c := compiler.NewCompiler(compiler.Options{})
	if code := compileTo(c, "10 PRINT (", outPath, false); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Errorf("no output file may be written on error")
	}
}
