package compiler

import (
	"fmt"
	"strings"
)

// JavaScript binding strength of generated expressions. Operands are wrapped
// in parentheses only when the operator needs it.
const (
	precOr    = iota + 1 // |
	precXor              // ^
	precAnd              // &
	precAdd              // + -
	precMul              // * / %
	precUnary            // - ~ await
	precAtom             // literals, names, calls, parenthesised code
)

var jsComparison = map[string]string{
	"=": "===", "<>": "!==", "<": "<", ">": ">", "<=": "<=", ">=": ">=",
}

// jsBinary maps BASIC operators with a direct JavaScript counterpart.
var jsBinary = map[string]struct {
	op   string
	prec int
}{
	"+":   {"+", precAdd},
	"-":   {"-", precAdd},
	"*":   {"*", precMul},
	"/":   {"/", precMul},
	"MOD": {"%", precMul},
	"AND": {"&", precAnd},
	"OR":  {"|", precOr},
	"XOR": {"^", precXor},
}

func wrap(code string, prec, minPrec int) string {
	if prec < minPrec {
		return "(" + code + ")"
	}
	return code
}

// genExprCode returns the code of e, parenthesised if it binds looser than minPrec.
func (cg *CodeGen) genExprCode(e Expr, minPrec int) (string, error) {
	code, prec, err := cg.genExpr(e)
	if err != nil {
		return "", err
	}
	return wrap(code, prec, minPrec), nil
}

// genArgs renders expressions as a comma-separated argument list.
func (cg *CodeGen) genArgs(args []Expr) (string, error) {
	codes := make([]string, 0, len(args))
	for _, a := range args {
		code, _, err := cg.genExpr(a)
		if err != nil {
			return "", err
		}
		codes = append(codes, code)
	}
	return strings.Join(codes, ", "), nil
}

// genCondition renders an IF condition. A top-level comparison is emitted
// as a plain JavaScript comparison instead of a -1/0 value.
func (cg *CodeGen) genCondition(e Expr) (string, error) {
	for {
		p, ok := e.(*ParenExpr)
		if !ok {
			break
		}
		e = p.Inner
	}
	if b, ok := e.(*BinaryExpr); ok && isComparison(b.Op) {
		return cg.genComparison(b)
	}
	code, _, err := cg.genExpr(e)
	return code, err
}

func (cg *CodeGen) genComparison(b *BinaryExpr) (string, error) {
	left, err := cg.genExprCode(b.Left, precAdd)
	if err != nil {
		return "", err
	}
	right, err := cg.genExprCode(b.Right, precAdd)
	if err != nil {
		return "", err
	}
	return left + " " + jsComparison[b.Op] + " " + right, nil
}

// genExpr returns the code of e and its binding strength.
func (cg *CodeGen) genExpr(e Expr) (string, int, error) {
	ctx := cg.ctx
	switch n := e.(type) {

	case *NumberLit:
		return cg.numberLiteral(n.Kind, n.Text), precAtom, nil

	case *StringLit:
		return jsQuote(n.Value), precAtom, nil

	case *VarRef:
		typ := VarNumber
		if n.Type() == TypeString {
			typ = VarString
		}
		return ctx.getVariable(n.Name, typ), precAtom, nil

	case *IndexExpr:
		return cg.genIndex(n)

	case *ParenExpr:
		code, prec, err := cg.genExpr(n.Inner)
		if err != nil {
			return "", 0, err
		}
		if prec == precAtom {
			return code, precAtom, nil
		}
		return "(" + code + ")", precAtom, nil

	case *UnaryExpr:
		switch n.Op {
		case "+":
			return cg.genExpr(n.Operand)
		case "-":
			if _, nested := n.Operand.(*UnaryExpr); nested {
				code, err := cg.genExprCode(n.Operand, precAtom)
				return "-" + code, precUnary, err
			}
			code, err := cg.genExprCode(n.Operand, precUnary)
			return "-" + code, precUnary, err
		case "NOT":
			code, err := cg.genExprCode(n.Operand, precUnary)
			return "~" + code, precUnary, err
		}
		return "", 0, fmt.Errorf("unknown unary operator %s", n.Op)

	case *BinaryExpr:
		return cg.genBinary(n)

	case *FuncCall:
		return cg.genFuncCall(n)

	case *FnCall:
		args, err := cg.genArgs(n.Args)
		if err != nil {
			return "", 0, err
		}
		call := identifier(n.Name) + "(" + args + ")"
		if ctx.asyncFns[identifier(n.Name)] {
			ctx.markAwait()
			return "await " + call, precUnary, nil
		}
		return call, precAtom, nil
	}
	return "", 0, fmt.Errorf("unsupported expression %T", e)
}

func (cg *CodeGen) genIndex(n *IndexExpr) (string, int, error) {
	var sb strings.Builder
	sb.WriteString(cg.ctx.getVariable(n.Name, VarArray))
	for _, idx := range n.Indices {
		code, _, err := cg.genExpr(idx)
		if err != nil {
			return "", 0, err
		}
		sb.WriteString("[" + code + "]")
	}
	return sb.String(), precAtom, nil
}

func (cg *CodeGen) genBinary(b *BinaryExpr) (string, int, error) {
	if isComparison(b.Op) {
		code, err := cg.genComparison(b)
		if err != nil {
			return "", 0, err
		}
		return "(" + code + " ? -1 : 0)", precAtom, nil
	}

	switch b.Op {
	case "\\":
		left, err := cg.genExprCode(b.Left, precMul)
		if err != nil {
			return "", 0, err
		}
		right, err := cg.genExprCode(b.Right, precMul+1)
		if err != nil {
			return "", 0, err
		}
		return "Math.trunc(" + left + " / " + right + ")", precAtom, nil
	case "^":
		left, _, err := cg.genExpr(b.Left)
		if err != nil {
			return "", 0, err
		}
		right, _, err := cg.genExpr(b.Right)
		if err != nil {
			return "", 0, err
		}
		return "Math.pow(" + left + ", " + right + ")", precAtom, nil
	}

	op, ok := jsBinary[b.Op]
	if !ok {
		return "", 0, fmt.Errorf("unknown operator %s", b.Op)
	}
	left, err := cg.genExprCode(b.Left, op.prec)
	if err != nil {
		return "", 0, err
	}
	right, err := cg.genExprCode(b.Right, op.prec+1)
	if err != nil {
		return "", 0, err
	}
	return left + " " + op.op + " " + right, op.prec, nil
}

// mathFuncs are built-ins that map onto a Math method with the same arguments.
var mathFuncs = map[string]string{
	"ABS": "Math.abs", "EXP": "Math.exp", "INT": "Math.floor", "FIX": "Math.trunc",
	"LOG": "Math.log", "LOG10": "Math.log10", "SGN": "Math.sign", "SQR": "Math.sqrt",
	"CINT": "Math.round", "MAX": "Math.max", "MIN": "Math.min",
}

// helperFuncs are built-ins implemented by a runtime helper of the same name.
var helperFuncs = map[string]string{
	"BIN$": "bin$", "DEC$": "dec$", "HEX$": "hex$", "INSTR": "instr", "REMAIN": "remain",
	"RIGHT$": "right$", "ROUND": "round", "STR$": "str$", "STRING$": "string$",
	"TIME": "time", "VAL": "val", "XPOS": "xpos", "YPOS": "ypos",
}

func (cg *CodeGen) genFuncCall(f *FuncCall) (string, int, error) {
	ctx := cg.ctx

	if fn, ok := mathFuncs[f.Name]; ok {
		args, err := cg.genArgs(f.Args)
		return fn + "(" + args + ")", precAtom, err
	}
	if helper, ok := helperFuncs[f.Name]; ok {
		ctx.addInstr(helper)
		args, err := cg.genArgs(f.Args)
		return helper + "(" + args + ")", precAtom, err
	}

	// Method-style built-ins need their first argument as a member receiver.
	arg := func(i, minPrec int) (string, error) {
		return cg.genExprCode(f.Args[i], minPrec)
	}

	switch f.Name {
	case "SIN", "COS", "TAN":
		x, _, err := cg.genExpr(f.Args[0])
		if err != nil {
			return "", 0, err
		}
		if ctx.getDeg() {
			ctx.addInstr("toRad")
			x = "toRad(" + x + ")"
		}
		return "Math." + strings.ToLower(f.Name) + "(" + x + ")", precAtom, nil

	case "ATN":
		x, _, err := cg.genExpr(f.Args[0])
		if err != nil {
			return "", 0, err
		}
		if ctx.getDeg() {
			ctx.addInstr("toDeg")
			return "toDeg(Math.atan(" + x + "))", precAtom, nil
		}
		return "Math.atan(" + x + ")", precAtom, nil

	case "PI":
		return "Math.PI", precAtom, nil

	case "RND":
		return "Math.random()", precAtom, nil

	case "INKEY$":
		ctx.addInstr("inkey$")
		ctx.markAwait()
		return "await inkey$()", precUnary, nil

	case "ASC":
		s, err := arg(0, precAtom)
		return s + ".charCodeAt(0)", precAtom, err

	case "CHR$":
		args, err := cg.genArgs(f.Args)
		return "String.fromCharCode(" + args + ")", precAtom, err

	case "LEN":
		s, err := arg(0, precAtom)
		return s + ".length", precAtom, err

	case "LOWER$":
		s, err := arg(0, precAtom)
		return s + ".toLowerCase()", precAtom, err

	case "UPPER$":
		s, err := arg(0, precAtom)
		return s + ".toUpperCase()", precAtom, err

	case "SPACE$":
		n, _, err := cg.genExpr(f.Args[0])
		return `" ".repeat(` + n + ")", precAtom, err

	case "LEFT$":
		s, err := arg(0, precAtom)
		if err != nil {
			return "", 0, err
		}
		n, _, err := cg.genExpr(f.Args[1])
		return s + ".substring(0, " + n + ")", precAtom, err

	case "MID$":
		s, err := arg(0, precAtom)
		if err != nil {
			return "", 0, err
		}
		start, err := arg(1, precAdd+1)
		if err != nil {
			return "", 0, err
		}
		if len(f.Args) == 2 {
			return s + ".substring(" + start + " - 1)", precAtom, nil
		}
		n, _, err := cg.genExpr(f.Args[2])
		return s + ".substr(" + start + " - 1, " + n + ")", precAtom, err
	}
	return "", 0, fmt.Errorf("function %s is not supported", f.Name)
}
