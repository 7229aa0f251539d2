package compiler

// builtinSig describes the argument and result types of a built-in function.
type builtinSig struct {
	result   ValueType
	params   []ValueType
	required int
	variadic bool // repeat the last parameter type
	anyArg   int  // index of a parameter that accepts either type, -1 for none
}

func sig(result ValueType, required int, params ...ValueType) builtinSig {
	return builtinSig{result: result, params: params, required: required, anyArg: -1}
}

var builtins = map[string]builtinSig{
	"ABS":     sig(TypeNumber, 1, TypeNumber),
	"ASC":     sig(TypeNumber, 1, TypeString),
	"ATN":     sig(TypeNumber, 1, TypeNumber),
	"BIN$":    sig(TypeString, 1, TypeNumber, TypeNumber),
	"CHR$":    sig(TypeString, 1, TypeNumber),
	"CINT":    sig(TypeNumber, 1, TypeNumber),
	"COS":     sig(TypeNumber, 1, TypeNumber),
	"DEC$":    sig(TypeString, 2, TypeNumber, TypeString),
	"EXP":     sig(TypeNumber, 1, TypeNumber),
	"FIX":     sig(TypeNumber, 1, TypeNumber),
	"HEX$":    sig(TypeString, 1, TypeNumber, TypeNumber),
	"INKEY$":  sig(TypeString, 0),
	"INT":     sig(TypeNumber, 1, TypeNumber),
	"LEFT$":   sig(TypeString, 2, TypeString, TypeNumber),
	"LEN":     sig(TypeNumber, 1, TypeString),
	"LOG":     sig(TypeNumber, 1, TypeNumber),
	"LOG10":   sig(TypeNumber, 1, TypeNumber),
	"LOWER$":  sig(TypeString, 1, TypeString),
	"MAX":     {result: TypeNumber, params: []ValueType{TypeNumber}, required: 1, variadic: true, anyArg: -1},
	"MID$":    sig(TypeString, 2, TypeString, TypeNumber, TypeNumber),
	"MIN":     {result: TypeNumber, params: []ValueType{TypeNumber}, required: 1, variadic: true, anyArg: -1},
	"PI":      sig(TypeNumber, 0),
	"REMAIN":  sig(TypeNumber, 1, TypeNumber),
	"RIGHT$":  sig(TypeString, 2, TypeString, TypeNumber),
	"RND":     sig(TypeNumber, 0, TypeNumber),
	"ROUND":   sig(TypeNumber, 1, TypeNumber, TypeNumber),
	"SGN":     sig(TypeNumber, 1, TypeNumber),
	"SIN":     sig(TypeNumber, 1, TypeNumber),
	"SPACE$":  sig(TypeString, 1, TypeNumber),
	"SQR":     sig(TypeNumber, 1, TypeNumber),
	"STR$":    sig(TypeString, 1, TypeNumber),
	"STRING$": {result: TypeString, params: []ValueType{TypeNumber, TypeString}, required: 2, anyArg: 1},
	"TAN":     sig(TypeNumber, 1, TypeNumber),
	"TIME":    sig(TypeNumber, 0),
	"UPPER$":  sig(TypeString, 1, TypeString),
	"VAL":     sig(TypeNumber, 1, TypeString),
	"XPOS":    sig(TypeNumber, 0),
	"YPOS":    sig(TypeNumber, 0),
}

// parseExpression is the entry point for expression parsing.
func (p *Parser) parseExpression() (Expr, error) {
	return p.parseXor()
}

// parseTypedExpression parses an expression and checks its type.
func (p *Parser) parseTypedExpression(want ValueType) (Expr, error) {
	tok := p.peek()
	e, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if e.Type() != want {
		return nil, p.fmtError(tok, "type mismatch: expected %s expression, got %s", want, e.Type())
	}
	return e, nil
}

// binaryLevel parses one left-associative precedence level whose operands
// must be numbers.
func (p *Parser) binaryLevel(next func() (Expr, error), match func(Token) (string, bool)) (Expr, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := match(p.peek())
		if !ok {
			return expr, nil
		}
		opTok := p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		if expr.Type() != TypeNumber || right.Type() != TypeNumber {
			return nil, p.fmtError(opTok, "type mismatch: %s needs numeric operands", op)
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
}

func keywordOp(kw string) func(Token) (string, bool) {
	return func(t Token) (string, bool) { return kw, t.is(kw) }
}

func tokenOp(tt TokenType, op string) func(Token) (string, bool) {
	return func(t Token) (string, bool) { return op, t.Type == tt }
}

func (p *Parser) parseXor() (Expr, error) {
	return p.binaryLevel(p.parseOr, keywordOp("XOR"))
}

func (p *Parser) parseOr() (Expr, error) {
	return p.binaryLevel(p.parseAnd, keywordOp("OR"))
}

func (p *Parser) parseAnd() (Expr, error) {
	return p.binaryLevel(p.parseNot, keywordOp("AND"))
}

// parseNot handles NOT, which binds looser than comparisons.
func (p *Parser) parseNot() (Expr, error) {
	if tok := p.peek(); tok.is("NOT") {
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		if operand.Type() != TypeNumber {
			return nil, p.fmtError(tok, "type mismatch: NOT needs a numeric operand")
		}
		return &UnaryExpr{Op: "NOT", Operand: operand}, nil
	}
	return p.parseComparison()
}

var comparisonOps = map[TokenType]string{
	EQUALS: "=", NOT_EQ: "<>", LESS: "<", GREATER: ">", LESS_EQ: "<=", GREATER_EQ: ">=",
}

// parseComparison compares two numbers or two strings and yields a number.
func (p *Parser) parseComparison() (Expr, error) {
	expr, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := comparisonOps[p.peek().Type]
		if !ok {
			return expr, nil
		}
		opTok := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		if expr.Type() != right.Type() {
			return nil, p.fmtError(opTok, "type mismatch: cannot compare %s with %s", expr.Type(), right.Type())
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: right}
	}
}

// parseAdditive handles + (numeric add or string concatenation) and -.
func (p *Parser) parseAdditive() (Expr, error) {
	expr, err := p.parseMod()
	if err != nil {
		return nil, err
	}
	for {
		tt := p.peek().Type
		if tt != PLUS && tt != MINUS {
			return expr, nil
		}
		opTok := p.advance()
		right, err := p.parseMod()
		if err != nil {
			return nil, err
		}
		switch {
		case tt == PLUS && expr.Type() == right.Type():
		case tt == MINUS && expr.Type() == TypeNumber && right.Type() == TypeNumber:
		default:
			return nil, p.fmtError(opTok, "type mismatch: %s %s %s", expr.Type(), opTok.Lexeme, right.Type())
		}
		expr = &BinaryExpr{Op: opTok.Lexeme, Left: expr, Right: right}
	}
}

func (p *Parser) parseMod() (Expr, error) {
	return p.binaryLevel(p.parseIntDiv, keywordOp("MOD"))
}

func (p *Parser) parseIntDiv() (Expr, error) {
	return p.binaryLevel(p.parseMul, tokenOp(BACKSLASH, "\\"))
}

func (p *Parser) parseMul() (Expr, error) {
	return p.binaryLevel(p.parsePower, func(t Token) (string, bool) {
		switch t.Type {
		case STAR:
			return "*", true
		case SLASH:
			return "/", true
		}
		return "", false
	})
}

func (p *Parser) parsePower() (Expr, error) {
	return p.binaryLevel(p.parseUnary, tokenOp(CARET, "^"))
}

// parseUnary handles prefix - and +, the tightest-binding operators.
func (p *Parser) parseUnary() (Expr, error) {
	tok := p.peek()
	if tok.Type == MINUS || tok.Type == PLUS {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if operand.Type() != TypeNumber {
			return nil, p.fmtError(tok, "type mismatch: unary %s needs a numeric operand", tok.Lexeme)
		}
		return &UnaryExpr{Op: tok.Lexeme, Operand: operand}, nil
	}
	return p.parsePrimary()
}

// parsePrimary handles literals, variables, calls and parenthesised expressions.
func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case NUMBER, HEXNUM, BINNUM:
		p.advance()
		return &NumberLit{Kind: tok.Type, Text: tok.Lexeme, Line: tok.Line}, nil

	case STRING:
		p.advance()
		return &StringLit{Value: tok.Lexeme}, nil

	case IDENTIFIER:
		if isFnName(tok.Lexeme) {
			return p.parseFnCall()
		}
		p.advance()
		if p.peek().Type == LPAREN || p.peek().Type == LBRACKET {
			indices, err := p.parseIndices()
			if err != nil {
				return nil, err
			}
			return &IndexExpr{Name: tok.Lexeme, Indices: indices}, nil
		}
		return &VarRef{Name: tok.Lexeme}, nil

	case LPAREN:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return &ParenExpr{Inner: inner}, nil

	case KEYWORD:
		if tok.is("FN") {
			return p.parseFnCall()
		}
		if tok.is("INSTR") {
			return p.parseInstr()
		}
		if _, ok := builtins[tok.Lexeme]; ok {
			return p.parseBuiltin()
		}
	}
	return nil, p.fmtError(tok, "expected expression, got %s (%q)", tok.Type, tok.Lexeme)
}

// parseCallArgs parses an optional "(" expr, ... ")" list.
func (p *Parser) parseCallArgs() ([]Expr, error) {
	if p.peek().Type != LPAREN {
		return nil, nil
	}
	p.advance()
	var args []Expr
	if p.peek().Type != RPAREN {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().Type != COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseBuiltin() (Expr, error) {
	tok := p.advance()
	s := builtins[tok.Lexeme]
	args, err := p.parseCallArgs()
	if err != nil {
		return nil, err
	}
	if len(args) < s.required || (!s.variadic && len(args) > len(s.params)) {
		return nil, p.fmtError(tok, "%s: wrong number of arguments (%d)", tok.Lexeme, len(args))
	}
	for i, arg := range args {
		idx := i
		if idx >= len(s.params) {
			idx = len(s.params) - 1
		}
		if idx == s.anyArg {
			continue
		}
		if arg.Type() != s.params[idx] {
			return nil, p.fmtError(tok, "type mismatch: %s argument %d must be %s", tok.Lexeme, i+1, s.params[idx])
		}
	}
	return &FuncCall{Name: tok.Lexeme, Args: args, typ: s.result}, nil
}

// parseInstr handles INSTR([start,] haystack$, needle$).
func (p *Parser) parseInstr() (Expr, error) {
	tok := p.advance()
	args, err := p.parseCallArgs()
	if err != nil {
		return nil, err
	}
	var want []ValueType
	switch len(args) {
	case 2:
		want = []ValueType{TypeString, TypeString}
	case 3:
		want = []ValueType{TypeNumber, TypeString, TypeString}
	default:
		return nil, p.fmtError(tok, "INSTR: wrong number of arguments (%d)", len(args))
	}
	for i, arg := range args {
		if arg.Type() != want[i] {
			return nil, p.fmtError(tok, "type mismatch: INSTR argument %d must be %s", i+1, want[i])
		}
	}
	return &FuncCall{Name: "INSTR", Args: args, typ: TypeNumber}, nil
}

func (p *Parser) parseFnCall() (Expr, error) {
	name, _, err := p.parseFnName()
	if err != nil {
		return nil, err
	}
	args, err := p.parseCallArgs()
	if err != nil {
		return nil, err
	}
	return &FnCall{Name: name, Args: args}, nil
}
