package compiler

import "testing"

// simpleSource is a minimal program used for benchmarking the fast path.
const simpleSource = `10 a = 1
20 PRINT a
`

// complexSource exercises loops, subroutines, async propagation, DATA
// tables and user functions.
const complexSource = `10 REM benchmark
20 MODE 1: DEG
30 DEF FNd(x, y) = SQR(x * x + y * y)
40 DIM p(20, 2)
50 FOR i = 0 TO 20
60 READ p(i, 0), p(i, 1)
70 NEXT i
80 GOSUB 1000
90 ON 1 + i MOD 2 GOSUB 2000, 3000
100 EVERY 50 GOSUB 3000
110 END
1000 FOR i = 0 TO 19
1010 d = FNd(p(i + 1, 0) - p(i, 0), p(i + 1, 1) - p(i, 1))
1020 IF d > 10 THEN PRINT USING "###.#"; d ELSE PRINT "near"; TAB(20); d
1030 MOVE p(i, 0), p(i, 1): DRAW p(i + 1, 0), p(i + 1, 1), 2
1040 NEXT
1050 RETURN
2000 WHILE INKEY$ = ""
2010 FRAME
2020 WEND
2030 RETURN
3000 a$ = LEFT$(STR$(SIN(i * 10)), 5)
3010 |STATUS, a$, @r
3020 RETURN
4000 DATA 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20
4010 DATA &10, &X11, 2.5, 3.75, -1, -2, "a", "b", 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6
`

func BenchmarkCompileSimple(b *testing.B) {
	c := NewCompiler(Options{})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Compile(simpleSource)
	}
}

func BenchmarkCompileComplex(b *testing.B) {
	c := NewCompiler(Options{})
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Compile(complexSource)
	}
}

func BenchmarkLex(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, _, err := Lex(complexSource); err != nil {
			b.Fatal(err)
		}
	}
}

func TestComplexSourceCompiles(t *testing.T) {
	out, _ := compileOK(t, complexSource)
	assertContains(t, out, "const fnd = (x, y) => Math.sqrt(x * x + y * y);")
	assertContains(t, out, "p[i][0] = read(); p[i][1] = read();")
	assertContains(t, out, "async function _2000() {")
	assertContains(t, out, "async function _3000() {")
	assertContains(t, out, "\nfunction _1000() {")
	assertContains(t, out, "await [_2000, _3000][1 + i % 2 - 1]?.();")
	assertContains(t, out, "await every(50, 0, _3000);")
	assertContains(t, out, "a$ = str$(Math.sin(toRad(i * 10))).substring(0, 5);")
}
