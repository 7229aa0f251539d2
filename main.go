//go:build !js

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/goforj/godump"
	"golang.org/x/term"

	"locobasic/pkg/compiler"
	"locobasic/pkg/utils"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("locobasic: ")

	inPath := flag.String("in", "", "input BASIC file path (default: REPL on a terminal, else stdin)")
	outPath := flag.String("out", "", "output JavaScript file path (default: input with .js extension, - for stdout)")
	strict := flag.Bool("strict", false, "require ascending line labels and reject unsupported statements")
	dump := flag.Bool("dump", false, "dump the compiler tables after compiling")
	configPath := flag.String("config", "", "YAML file with default settings")
	flag.Parse()

	cfg := utils.Config{}
	if *configPath != "" {
		var err error
		if cfg, err = utils.LoadConfig(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config %q: %v\n", *configPath, err)
			os.Exit(1)
		}
	}
	// Explicit flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "strict":
			cfg.Strict = *strict
		case "dump":
			cfg.Dump = *dump
		}
	})

	c := compiler.NewCompiler(compiler.Options{Strict: cfg.Strict})

	if *inPath == "" {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			os.Exit(runRepl(c, cfg))
		}
		source, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read stdin: %v\n", err)
			os.Exit(1)
		}
		out := *outPath
		if out == "" {
			out = "-"
		}
		os.Exit(compileTo(c, string(source), out, cfg.Dump))
	}

	fullPath, outDir, err := utils.SourcePaths(*inPath, cfg.OutDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve input path %q: %v\n", *inPath, err)
		os.Exit(1)
	}
	source, err := os.ReadFile(fullPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read input file %q: %v\n", fullPath, err)
		os.Exit(1)
	}
	output := *outPath
	if output == "" {
		output = utils.DefaultOutputPath(fullPath, outDir)
	}
	os.Exit(compileTo(c, string(source), output, cfg.Dump))
}

// compileTo compiles source and writes the result to path ("-" is stdout).
// It returns the process exit code.
func compileTo(c *compiler.Compiler, source, path string, dump bool) int {
	js := c.Compile(source)
	for _, w := range c.Warnings() {
		log.Print("warning: ", w)
	}
	if strings.HasPrefix(js, "ERROR: ") {
		fmt.Fprintln(os.Stderr, js)
		return 1
	}
	if dump {
		godump.Dump(c.Context().Variables(), c.Context().DefinedLabels())
	}

	if path == "-" {
		fmt.Print(js)
		return 0
	}
	if err := os.WriteFile(path, []byte(js), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write output file %q: %v\n", path, err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "compiled %d lines -> %s\n", strings.Count(source, "\n")+1, path)
	return 0
}
