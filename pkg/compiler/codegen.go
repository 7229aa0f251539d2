package compiler

import (
	"fmt"
	"strings"
)

// CodeGen walks the parsed lines and produces one JavaScript fragment per
// source line. Fragments are assembled into the final program by assemble.
type CodeGen struct {
	ctx      *Context
	frags    []lineFragment
	comments []string // comments of the line being generated, hoisted to its end
}

// lineFragment is the generated text of one source line.
type lineFragment struct {
	Label  string
	Indent int // min(indent before, indent after) of the line
	Text   string
	Await  bool // the line contains a suspension point
}

func newCodeGen(ctx *Context) *CodeGen {
	return &CodeGen{ctx: ctx}
}

// Generate translates prog into a JavaScript function body. ctx must be
// freshly reset; it is filled with the variable, label and helper tables.
func Generate(prog *Program, ctx *Context) (string, error) {
	cg := newCodeGen(ctx)

	// 1. PRE-PASS: every GOSUB and RESTORE target must be known before the
	// labels are defined.
	collectLabelRefs(prog, ctx)

	// 2. Per-line semantic actions
	for i, line := range prog.Lines {
		if err := cg.genLine(i, line); err != nil {
			return "", err
		}
	}
	ctx.lineNo = 0
	if ctx.indent != 0 {
		return "", fmt.Errorf("%d FOR/WHILE block(s) not closed at end of program", ctx.indent)
	}

	// 3. Cross-line resolution
	ctx.finalizeRestoreMap()

	return assemble(ctx, cg.frags), nil
}

func (cg *CodeGen) genLine(idx int, line *Line) error {
	ctx := cg.ctx
	ctx.beginLine(idx, line.Number)
	cg.comments = cg.comments[:0]

	if line.Label != "" {
		ctx.addDefinedLabel(line.Label, idx)
	}

	before := ctx.indent
	parts, err := cg.genStmts(line.Stmts)
	if err != nil {
		return fmt.Errorf("line %d: %w", line.Number, err)
	}
	after := ctx.indent

	// A bare RETURN at the top level of a line ends the open subroutine.
	closes := false
	for _, part := range parts {
		if part == "return" {
			closes = true
		}
	}

	text := joinFragments(parts)
	if len(cg.comments) > 0 {
		if text != "" {
			text += " "
		}
		text += "// " + strings.Join(cg.comments, " // ")
	}

	cg.frags = append(cg.frags, lineFragment{
		Label:  line.Label,
		Indent: min(before, after),
		Text:   text,
		Await:  ctx.lineAwait,
	})

	if closes {
		ctx.closeSubroutine(idx)
	}
	return nil
}

func (cg *CodeGen) genStmts(stmts []Stmt) ([]string, error) {
	parts := make([]string, 0, len(stmts))
	for _, s := range stmts {
		code, err := cg.genStmt(s)
		if err != nil {
			return nil, err
		}
		if code != "" {
			parts = append(parts, code)
		}
	}
	return parts, nil
}

// joinFragments terminates every statement with ';' unless it already
// opens or closes a block.
func joinFragments(parts []string) string {
	var sb strings.Builder
	for i, part := range parts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(part)
		if !strings.HasSuffix(part, "{") && !strings.HasSuffix(part, "}") {
			sb.WriteByte(';')
		}
	}
	return sb.String()
}

// jsQuote renders s as a double-quoted JavaScript string literal. Control
// and private-use characters are escaped so string contents can never be
// confused with call markers.
func jsQuote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			sb.WriteString(`\"`)
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r < 0x20 || r == 0x7f || (r >= 0xE000 && r <= 0xF8FF) || r == 0x2028 || r == 0x2029:
			fmt.Fprintf(&sb, `\u%04x`, r)
		case r > 0xFFFF:
			fmt.Fprintf(&sb, `\u{%x}`, r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// decimalLiteral normalizes a decimal number for JavaScript. Leading zeros
// would make JavaScript read the value as octal, so they are dropped with a
// warning.
func (cg *CodeGen) decimalLiteral(text string) string {
	intPart := text
	if i := strings.IndexAny(text, ".eE"); i >= 0 {
		intPart = text[:i]
	}
	if len(intPart) > 1 && intPart[0] == '0' {
		trimmed := strings.TrimLeft(text, "0")
		if trimmed == "" || trimmed[0] < '0' || trimmed[0] > '9' {
			trimmed = "0" + trimmed
		}
		cg.ctx.warn("number %s looks like octal; using %s", text, trimmed)
		return trimmed
	}
	return text
}

func (cg *CodeGen) numberLiteral(kind TokenType, text string) string {
	sign := ""
	if strings.HasPrefix(text, "-") {
		sign, text = "-", text[1:]
	}
	switch kind {
	case HEXNUM:
		return sign + "0x" + strings.ToLower(text)
	case BINNUM:
		return sign + "0b" + text
	}
	return sign + cg.decimalLiteral(text)
}
