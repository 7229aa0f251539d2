package compiler

import (
	"fmt"
	"strings"
)

// helperCommands are statements that compile to a helper call with their
// arguments passed through.
var helperCommands = map[string]string{
	"CLS": "cls", "MODE": "mode", "ZONE": "zone", "PAPER": "paper", "PEN": "pen",
	"LOCATE": "locate", "ORIGIN": "origin", "INK": "ink", "GRAPHICS PEN": "graphicsPen",
}

func (cg *CodeGen) genStmt(s Stmt) (string, error) {
	ctx := cg.ctx
	switch n := s.(type) {

	case *AssignStmt:
		target, _, err := cg.genTarget(n.Target)
		if err != nil {
			return "", err
		}
		value, _, err := cg.genExpr(n.Value)
		if err != nil {
			return "", err
		}
		if isIntegerName(n.Target) {
			value = "Math.round(" + value + ")"
		}
		return target + " = " + value, nil

	case *PrintStmt:
		return cg.genPrint(n)

	case *WriteStmt:
		ctx.addInstr("write")
		args, err := cg.genArgs(n.Args)
		return "write(" + args + ")", err

	case *CommandStmt:
		return cg.genCommand(n)

	case *GraphicsStmt:
		helper := strings.ToLower(n.Name)
		ctx.addInstr(helper)
		args := []Expr{n.X, n.Y}
		if n.Pen != nil {
			args = append(args, n.Pen)
		}
		code, err := cg.genArgs(args)
		return helper + "(" + code + ")", err

	case *ForStmt:
		return cg.genFor(n)

	case *NextStmt:
		count := max(1, len(n.Vars))
		for _, v := range n.Vars {
			ctx.getVariable(v.Name, VarNumber)
		}
		closing := make([]string, count)
		for i := range closing {
			ctx.addIndent(-1)
			closing[i] = "}"
		}
		return strings.Join(closing, " "), nil

	case *WhileStmt:
		cond, err := cg.genCondition(n.Cond)
		if err != nil {
			return "", err
		}
		ctx.addIndent(1)
		return "while (" + cond + ") {", nil

	case *WendStmt:
		ctx.addIndent(-1)
		return "}", nil

	case *IfStmt:
		return cg.genIf(n)

	case *GosubStmt:
		return ctx.addCallSite(CallDirect, []string{n.Label}, ""), nil

	case *ReturnStmt:
		if ctx.openIdx < 0 && ctx.indent == 0 {
			ctx.warn("RETURN outside of a subroutine")
		}
		return "return", nil

	case *OnGosubStmt:
		sel, err := cg.genExprCode(n.Selector, precAdd)
		if err != nil {
			return "", err
		}
		return ctx.addCallSite(CallIndexed, n.Labels, sel), nil

	case *DataStmt:
		literals := make([]string, 0, len(n.Items))
		for _, item := range n.Items {
			if item.Kind == STRING {
				literals = append(literals, jsQuote(item.Text))
				continue
			}
			literals = append(literals, cg.numberLiteral(item.Kind, item.Text))
		}
		ctx.addData(literals)
		return "", nil

	case *ReadStmt:
		ctx.addInstr("read")
		parts := make([]string, 0, len(n.Targets))
		for _, t := range n.Targets {
			target, _, err := cg.genTarget(t)
			if err != nil {
				return "", err
			}
			parts = append(parts, target+" = read()")
		}
		return strings.Join(parts, "; "), nil

	case *RestoreStmt:
		ctx.addInstr("restore")
		if n.Label == "" {
			return "restore()", nil
		}
		return "restore(" + n.Label + ")", nil

	case *DimStmt:
		ctx.addInstr("dim")
		parts := make([]string, 0, len(n.Arrays))
		for _, a := range n.Arrays {
			dims, err := cg.genArgs(a.Indices)
			if err != nil {
				return "", err
			}
			init := ""
			if a.Type() == TypeString {
				init = `, ""`
			}
			parts = append(parts, ctx.getVariable(a.Name, VarArray)+" = dim(["+dims+"]"+init+")")
		}
		return strings.Join(parts, "; "), nil

	case *EraseStmt:
		parts := make([]string, 0, len(n.Names))
		for _, name := range n.Names {
			parts = append(parts, ctx.getVariable(name, VarArray)+" = []")
		}
		return strings.Join(parts, "; "), nil

	case *DefFnStmt:
		return cg.genDefFn(n)

	case *InputStmt:
		return cg.genInput(n)

	case *TimerStmt:
		helper := strings.ToLower(n.Name)
		ctx.addInstr(helper)
		ctx.markAwait()
		interval, _, err := cg.genExpr(n.Interval)
		if err != nil {
			return "", err
		}
		timer := "0"
		if n.Timer != nil {
			if timer, _, err = cg.genExpr(n.Timer); err != nil {
				return "", err
			}
		}
		ref := ctx.addCallSite(CallRef, []string{n.Label}, "")
		return fmt.Sprintf("await %s(%s, %s, %s)", helper, interval, timer, ref), nil

	case *RsxStmt:
		return cg.genRsx(n)

	case *CommentStmt:
		cg.comments = append(cg.comments, stripMarkers(strings.TrimSpace(n.Text)))
		return "", nil

	case *UnsupportedStmt:
		ctx.warn("unsupported statement %s", n.Text)
		return "/* UNSUPPORTED: " + strings.ReplaceAll(stripMarkers(n.Text), "*/", "* /") + " */", nil
	}
	return "", fmt.Errorf("unsupported statement %T", s)
}

// stripMarkers removes call marker runes from raw source text copied into
// the output.
func stripMarkers(s string) string {
	return strings.Map(func(r rune) rune {
		if r == callMarkOpen || r == callMarkClose {
			return -1
		}
		return r
	}, s)
}

// genTarget renders an assignable expression.
func (cg *CodeGen) genTarget(e Expr) (string, int, error) {
	switch t := e.(type) {
	case *VarRef, *IndexExpr:
		return cg.genExpr(t)
	}
	return "", 0, fmt.Errorf("cannot assign to %s", e)
}

// isIntegerName reports whether a target was declared with the % suffix.
func isIntegerName(e Expr) bool {
	switch t := e.(type) {
	case *VarRef:
		return strings.HasSuffix(t.Name, "%")
	case *IndexExpr:
		return strings.HasSuffix(t.Name, "%")
	}
	return false
}

func (cg *CodeGen) genCommand(n *CommandStmt) (string, error) {
	ctx := cg.ctx
	switch n.Name {
	case "END":
		ctx.addInstr("end")
		return "return end()", nil
	case "STOP":
		ctx.addInstr("stop")
		return "return stop()", nil
	case "FRAME":
		ctx.addInstr("frame")
		ctx.markAwait()
		return "await frame()", nil
	case "DEG":
		ctx.setDeg(true)
		return "", nil
	case "RAD":
		ctx.setDeg(false)
		return "", nil
	case "TAG":
		ctx.setTag(true)
		ctx.addInstr("tag")
		return "tag(true)", nil
	case "TAGOFF":
		ctx.setTag(false)
		ctx.addInstr("tag")
		return "tag(false)", nil
	}

	helper, ok := helperCommands[n.Name]
	if !ok {
		return "", fmt.Errorf("unsupported command %s", n.Name)
	}
	ctx.addInstr(helper)
	args, err := cg.genArgs(n.Args)
	return helper + "(" + args + ")", err
}

func (cg *CodeGen) genPrint(n *PrintStmt) (string, error) {
	ctx := cg.ctx
	helper := "print"
	if ctx.getTag() {
		helper = "printTag"
	}
	ctx.addInstr(helper)

	if n.Stream != nil {
		if lit, ok := n.Stream.(*NumberLit); !ok || lit.Text != "0" {
			ctx.warn("PRINT stream %s ignored; printing to screen", n.Stream)
		}
	}

	var args []string
	for _, item := range n.Items {
		switch item.Kind {
		case PrintExpr:
			code, _, err := cg.genExpr(item.Expr)
			if err != nil {
				return "", err
			}
			args = append(args, code)
		case PrintComma:
			args = append(args, `{type: "commaTab", args: []}`)
		case PrintTab, PrintSpc:
			code, _, err := cg.genExpr(item.Expr)
			if err != nil {
				return "", err
			}
			kind := "tab"
			if item.Kind == PrintSpc {
				kind = "spc"
			}
			args = append(args, fmt.Sprintf(`{type: %q, args: [%s]}`, kind, code))
		case PrintUsing:
			ctx.addInstr("dec$")
			value, _, err := cg.genExpr(item.Expr)
			if err != nil {
				return "", err
			}
			format, _, err := cg.genExpr(item.Format)
			if err != nil {
				return "", err
			}
			args = append(args, "dec$("+value+", "+format+")")
		}
	}

	newline := true
	if k := len(n.Items); k > 0 {
		last := n.Items[k-1].Kind
		newline = last != PrintComma && last != PrintSemicolon
	}
	if newline {
		args = append(args, `"\n"`)
	}
	return helper + "(" + strings.Join(args, ", ") + ")", nil
}

func (cg *CodeGen) genFor(n *ForStmt) (string, error) {
	ctx := cg.ctx
	v := ctx.getVariable(n.Var.Name, VarNumber)
	start, _, err := cg.genExpr(n.Start)
	if err != nil {
		return "", err
	}
	end, err := cg.genExprCode(n.End, precAdd)
	if err != nil {
		return "", err
	}

	cond := v + " <= " + end
	incr := v + "++"
	if n.Step != nil {
		step, prec, err := cg.genExpr(n.Step)
		if err != nil {
			return "", err
		}
		switch {
		case isNegativeLiteral(n.Step):
			cond = v + " >= " + end
			incr = v + " -= " + strings.TrimPrefix(step, "-")
		case prec == precAtom && isLiteral(n.Step):
			incr = v + " += " + step
		default:
			cond = "(" + wrap(step, prec, precAdd) + " >= 0 ? " + v + " <= " + end + " : " + v + " >= " + end + ")"
			incr = v + " += " + step
		}
	}
	ctx.addIndent(1)
	return "for (" + v + " = " + start + "; " + cond + "; " + incr + ") {", nil
}

func isLiteral(e Expr) bool {
	_, ok := e.(*NumberLit)
	return ok
}

func isNegativeLiteral(e Expr) bool {
	u, ok := e.(*UnaryExpr)
	return ok && u.Op == "-" && isLiteral(u.Operand)
}

// genIf renders a single-line IF. Blocks opened inside a branch must be
// closed inside it.
func (cg *CodeGen) genIf(n *IfStmt) (string, error) {
	ctx := cg.ctx
	cond, err := cg.genCondition(n.Cond)
	if err != nil {
		return "", err
	}

	branch := func(stmts []Stmt) (string, error) {
		before := ctx.addIndent(1)
		parts, err := cg.genStmts(stmts)
		if err != nil {
			return "", err
		}
		if ctx.indent != before {
			return "", fmt.Errorf("FOR/WHILE block inside IF must be closed on the same line")
		}
		ctx.addIndent(-1)
		if len(parts) == 0 {
			return "{ }", nil
		}
		return "{ " + joinFragments(parts) + " }", nil
	}

	then, err := branch(n.Then)
	if err != nil {
		return "", err
	}
	code := "if (" + cond + ") " + then
	if n.Else != nil {
		els, err := branch(n.Else)
		if err != nil {
			return "", err
		}
		code += " else " + els
	}
	return code, nil
}

func (cg *CodeGen) genDefFn(n *DefFnStmt) (string, error) {
	ctx := cg.ctx
	name := identifier(n.Name)

	ctx.beginFnParams()
	params := make([]string, 0, len(n.Params))
	for _, p := range n.Params {
		params = append(params, ctx.getVariable(p, VarNumber))
	}
	ctx.beginFnBody()

	// The body may suspend without the defining line itself suspending.
	lineAwait := ctx.lineAwait
	ctx.lineAwait = false
	body, _, err := cg.genExpr(n.Body)
	bodyAwait := ctx.lineAwait
	ctx.lineAwait = lineAwait
	ctx.endFn()
	if err != nil {
		return "", err
	}

	arrow := "(" + strings.Join(params, ", ") + ") => " + body
	if bodyAwait {
		ctx.asyncFns[name] = true
		arrow = "async " + arrow
	}
	return "const " + name + " = " + arrow, nil
}

func (cg *CodeGen) genInput(n *InputStmt) (string, error) {
	ctx := cg.ctx
	ctx.addInstr("input")
	ctx.markAwait()

	parts := make([]string, 0, len(n.Targets))
	for i, t := range n.Targets {
		prompt := "? "
		if i == 0 {
			prompt = n.Prompt
			if n.Question {
				prompt += "? "
			}
		}
		target, _, err := cg.genTarget(t)
		if err != nil {
			return "", err
		}
		isNum := "true"
		if t.Type() == TypeString {
			isNum = "false"
		}
		parts = append(parts, target+" = await input("+jsQuote(prompt)+", "+isNum+")")
	}
	return strings.Join(parts, "; "), nil
}

func (cg *CodeGen) genRsx(n *RsxStmt) (string, error) {
	ctx := cg.ctx
	ctx.addInstr("rsx")
	ctx.markAwait()

	var args, outs []string
	for _, a := range n.Args {
		if a.Out {
			target, _, err := cg.genTarget(a.Expr)
			if err != nil {
				return "", err
			}
			outs = append(outs, target)
			continue
		}
		code, _, err := cg.genExpr(a.Expr)
		if err != nil {
			return "", err
		}
		args = append(args, code)
	}

	call := "await rsx(" + jsQuote(n.Name) + ", [" + strings.Join(args, ", ") + "])"
	if len(outs) > 0 {
		return "[" + strings.Join(outs, ", ") + "] = " + call, nil
	}
	return call, nil
}
