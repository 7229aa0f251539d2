package compiler

import (
	"strings"
	"testing"
)

func TestSubroutine_OnGosub(t *testing.T) {
	src := `10 ON n GOSUB 100, 200
20 ON n + 1 GOSUB 300
30 END
100 RETURN
200 RETURN
300 FRAME: RETURN`

	out, warnings := compileOK(t, src)
	assertContains(t, out, "[_100, _200][n - 1]?.();")
	assertContains(t, out, "await [_300][n + 1 - 1]?.();")
	assertContains(t, out, "function _100() {\n\treturn;\n}\n")
	assertContains(t, out, "async function _300() {\n\tawait frame(); return;\n}\n")
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings %v", warnings)
	}
}

func TestSubroutine_Timers(t *testing.T) {
	src := `10 EVERY 50 GOSUB 100
20 AFTER 100, 1 GOSUB 200
30 END
100 PRINT "tick"
110 RETURN
200 RETURN`

	out, _ := compileOK(t, src)
	assertContains(t, out, "await every(50, 0, _100);")
	assertContains(t, out, "await after(100, 1, _200);")
	assertContains(t, out, "\nfunction _100() {")
	assertContains(t, out, "async function every(")
}

func TestSubroutine_MissingTarget(t *testing.T) {
	src := `10 GOSUB 50
20 ON a GOSUB 60, 70
30 END
50 PRINT 1
70 RETURN`

	out, warnings := compileOK(t, src)
	assertContains(t, out, "/* GOSUB 50 */;")
	assertContains(t, out, "[undefined, _70][a - 1]?.();")
	assertNotContains(t, out, "function _50(")

	joined := strings.Join(warnings, "\n")
	assertContains(t, joined, "subroutine 50 has no RETURN before subroutine 70")
	assertContains(t, joined, "GOSUB target 60 is not a subroutine")
}

func TestSubroutine_NestedReturnKeepsRange(t *testing.T) {
	src := `10 a = 1: GOSUB 100
20 END
100 IF a THEN RETURN
110 b = 1
120 RETURN`

	out, _ := compileOK(t, src)
	assertContains(t, out, "function _100() {\n\tlet b = 0;\n\tif (a) { return; }\n\tb = 1;\n\treturn;\n}\n")
	assertContains(t, out, "let a = 0;\n")
}

func TestSubroutine_ReturnInsideLoop(t *testing.T) {
	t.Run("left open without a closing RETURN", func(t *testing.T) {
		src := `10 GOSUB 100
20 END
100 FOR i = 1 TO 3
110 RETURN
120 NEXT`

		out, warnings := compileOK(t, src)
		assertNotContains(t, out, "function _100(")
		assertContains(t, out, "for (i = 1; i <= 3; i++) {\n\treturn;\n}\n")
		if opens, closes := strings.Count(out, "{"), strings.Count(out, "}"); opens != closes {
			t.Errorf("unbalanced braces (%d open, %d close):\n%s", opens, closes, out)
		}

		joined := strings.Join(warnings, "\n")
		assertContains(t, joined, "line 4: RETURN inside an open FOR/WHILE block does not end subroutine 100")
		assertContains(t, joined, "GOSUB target 100 is not a subroutine")
	})

	t.Run("closed by a later RETURN", func(t *testing.T) {
		src := `10 GOSUB 100
20 END
100 FOR i = 1 TO 3
110 RETURN
120 NEXT
130 RETURN`

		out, _ := compileOK(t, src)
		assertContains(t, out, "_100();\nreturn end();\n")
		assertContains(t, out, "function _100() {\n\tlet i = 0;\n\tfor (i = 1; i <= 3; i++) {\n\t\treturn;\n\t}\n\treturn;\n}\n")
	})
}

func TestSubroutine_SharedVariableIsGlobal(t *testing.T) {
	src := `10 GOSUB 100: GOSUB 200
20 END
100 s = 1
110 RETURN
200 s = 2
210 RETURN`

	out, warnings := compileOK(t, src)
	expected := "let s = 0;\n" +
		"_100(); _200();\n" +
		"return end();\n" +
		"function _100() {\n\ts = 1;\n\treturn;\n}\n" +
		"function _200() {\n\ts = 2;\n\treturn;\n}\n" +
		"\nfunction end() { _o.end(); }\n"
	if out != expected {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", out, expected)
	}
	if n := strings.Count(out, "let s"); n != 1 {
		t.Errorf("s declared %d times, want once at top level", n)
	}
	assertNotContains(t, out, "\tlet ")
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings %v", warnings)
	}
}

func TestSubroutine_CallMarkersResolved(t *testing.T) {
	src := `10 GOSUB 100: GOSUB 100
20 IF a THEN GOSUB 100
100 RETURN`

	out, _ := compileOK(t, src)
	if strings.ContainsRune(out, callMarkOpen) || strings.ContainsRune(out, callMarkClose) {
		t.Errorf("unresolved call marker in output:\n%q", out)
	}
	assertContains(t, out, "_100(); _100();")
	assertContains(t, out, "if (a) { _100(); }")
}

func TestSubroutine_Data(t *testing.T) {
	src := `10 READ a, b$
20 RESTORE 40
30 END
40 DATA 1, "x", &FF
50 DATA -&X11, 2.5e1, abc`

	out, _ := compileOK(t, src)
	assertContains(t, out, "let a = 0, b$ = \"\";\n")
	assertContains(t, out, "const _data = [1, \"x\", 0xff, -0b11, 2.5e1, \"abc\"];\n")
	assertContains(t, out, "const _restoreMap = {\"40\": 0};\n")
	assertContains(t, out, "let _dataPtr = 0;\n")
	assertContains(t, out, "a = read(); b$ = read();")
	assertContains(t, out, "restore(40);")
	assertContains(t, out, "function read() {")
	assertContains(t, out, "function restore(label) {")
}

func TestSubroutine_RestoreIndex(t *testing.T) {
	src := `10 DATA 1,2
20 REM nothing
30 DATA 3
40 RESTORE 20: RESTORE 15: RESTORE`

	c := NewCompiler(Options{})
	out := c.Compile(src)
	assertContains(t, out, "const _restoreMap = {\"20\": 2, \"15\": 0};")
	assertContains(t, out, "restore(20); restore(15); restore();")
	assertContains(t, strings.Join(c.Warnings(), "\n"), "RESTORE target 15 does not exist")
}

func TestSubroutine_DataOnly(t *testing.T) {
	out, _ := compileOK(t, "10 DATA 5")
	assertContains(t, out, "const _data = [5];")
	assertNotContains(t, out, "function read(")
}
