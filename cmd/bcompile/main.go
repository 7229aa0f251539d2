package main

import (
	"fmt"
	"os"

	"github.com/goforj/godump"

	"locobasic/pkg/compiler"
)

const testSource = `10 a = 1
20 GOSUB 100
30 END
100 PRINT a
110 RETURN
`

// bcompile prints every compiler stage for one source file: tokens, the
// AST, the generated JavaScript and the compiler tables.
func main() {
	src := testSource
	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = string(data)
	}

	fmt.Printf("Source:\n%s\n", src)

	// Lex
	tokens, warnings, err := compiler.Lex(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lex error:", err)
		os.Exit(1)
	}

	fmt.Printf("Tokens (%d)\n", len(tokens))
	for _, tok := range tokens {
		fmt.Println(" ", tok)
	}
	fmt.Println()

	// Parse
	prog, err := compiler.Parse(tokens, src, compiler.Options{})
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse error:", err)
		os.Exit(1)
	}

	fmt.Println("AST")
	godump.Dump(prog)
	fmt.Println()

	// Code generation
	ctx := compiler.NewContext()
	js, err := compiler.Generate(prog, ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "codegen error:", err)
		os.Exit(1)
	}

	fmt.Println("Generated JavaScript")
	fmt.Print(js)
	fmt.Println()
	fmt.Print(ctx)

	warnings = append(warnings, ctx.Warnings()...)
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
}
