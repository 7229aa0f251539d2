package compiler

import (
	"fmt"
)

// Compiler turns BASIC source into a JavaScript program. A Compiler may be
// reused; every Compile call starts from a reset context.
type Compiler struct {
	opts     Options
	ctx      *Context
	warnings []string
}

func NewCompiler(opts Options) *Compiler {
	return &Compiler{opts: opts, ctx: NewContext()}
}

// Compile returns the generated program, or a string starting with
// "ERROR: " when the source cannot be compiled. It never panics.
func (c *Compiler) Compile(src string) (out string) {
	c.ctx.resetParser()
	c.warnings = nil

	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("ERROR: Parsing evaluator failed: %v", r)
		}
		c.warnings = append(c.warnings, c.ctx.Warnings()...)
	}()

	tokens, lexWarnings, err := Lex(src)
	c.warnings = append(c.warnings, lexWarnings...)
	if err != nil {
		return "ERROR: Parsing failed: " + err.Error()
	}

	prog, err := Parse(tokens, src, c.opts)
	if err != nil {
		return "ERROR: Parsing failed: " + err.Error()
	}

	js, err := Generate(prog, c.ctx)
	if err != nil {
		return "ERROR: Parsing evaluator failed: " + err.Error()
	}
	return js
}

// Warnings returns the diagnostics of the last Compile call.
func (c *Compiler) Warnings() []string {
	return append([]string(nil), c.warnings...)
}

// Context exposes the tables built by the last Compile call.
func (c *Compiler) Context() *Context {
	return c.ctx
}

// Compile compiles src with the default options.
func Compile(src string) string {
	return NewCompiler(Options{}).Compile(src)
}
