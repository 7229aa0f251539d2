package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// Options selects the grammar variant.
type Options struct {
	// Strict layers extra rules over the base grammar: every line needs a
	// label, labels must ascend, and unsupported statements are errors.
	Strict bool
}

// unsupportedKeywords are statements that parse but have no translation.
var unsupportedKeywords = map[string]bool{
	"BORDER": true, "CALL": true, "CLEAR": true, "ENT": true, "ENV": true, "GOTO": true,
	"KEY": true, "OUT": true, "POKE": true, "RANDOMIZE": true, "SOUND": true, "SPEED": true,
	"WINDOW": true,
}

// Parser consumes the flat token slice produced by the Lexer and builds an AST.
//
// Grammar:
//
//	program    = line*
//	line       = [label] [statement (":" statement)*] EOL
//	statement  = assignment | keywordStmt | rsx | comment
//	if         = "IF" expr ("THEN" (label | stmts) | "GOTO" label) ["ELSE" (label | stmts)]
//	expression = xor
//	xor        = or ("XOR" or)*
//	or         = and ("OR" and)*
//	and        = not ("AND" not)*
//	not        = "NOT" not | comparison
//	comparison = additive (("=" | "<>" | "<" | ">" | "<=" | ">=") additive)*
//	additive   = mod (("+" | "-") mod)*
//	mod        = intdiv ("MOD" intdiv)*
//	intdiv     = mul ("\" mul)*
//	mul        = power (("*" | "/") power)*
//	power      = unary ("^" unary)*
//	unary      = ("-" | "+") unary | primary
//	primary    = number | string | var | var "(" args ")" | fn | builtin | "(" expression ")"
//
// Every expression carries a static type; the numeric and string grammars
// are kept apart by type checks at each operator.
type Parser struct {
	tokens      []Token
	pos         int
	sourceLines []string
	src         []rune
	opts        Options
	labels      map[string]int
}

func NewParser(tokens []Token, rawSource string, opts Options) *Parser {
	norm := normalizeSource(rawSource)
	return &Parser{
		tokens:      tokens,
		sourceLines: strings.Split(norm, "\n"),
		src:         []rune(norm),
		opts:        opts,
		labels:      make(map[string]int),
	}
}

// fmtError wraps an error message with the source line where the token appears.
func (p *Parser) fmtError(tok Token, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	lineIdx := tok.Line - 1

	snippet := "<source unavailable>"
	if lineIdx >= 0 && lineIdx < len(p.sourceLines) {
		snippet = strings.TrimSpace(p.sourceLines[lineIdx])
	}

	return fmt.Errorf("line %d: %s\n  |> %s", tok.Line, msg, snippet)
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos+offset]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.advance()
	if tok.Type != tt {
		return tok, p.fmtError(tok, "expected %s, got %s (%q)", tt, tok.Type, tok.Lexeme)
	}
	return tok, nil
}

func (p *Parser) expectKeyword(kw string) (Token, error) {
	tok := p.advance()
	if !tok.is(kw) {
		return tok, p.fmtError(tok, "expected %s, got %s (%q)", kw, tok.Type, tok.Lexeme)
	}
	return tok, nil
}

// atStatementEnd reports whether the current token terminates a statement.
func (p *Parser) atStatementEnd() bool {
	tok := p.peek()
	return tok.Type == COLON || tok.Type == EOL || tok.Type == EOF || tok.Type == COMMENT || tok.is("ELSE")
}

// Parse builds a Program from the token stream.
func Parse(tokens []Token, src string, opts Options) (*Program, error) {
	return NewParser(tokens, src, opts).parseProgram()
}

func (p *Parser) parseProgram() (*Program, error) {
	prog := &Program{}
	lastLabel := -1
	for p.peek().Type != EOF {
		if p.peek().Type == EOL {
			p.advance()
			continue
		}
		line, err := p.parseLine()
		if err != nil {
			return nil, err
		}
		if p.opts.Strict {
			first := p.tokens[p.pos-1]
			if line.Label == "" {
				return nil, p.fmtError(first, "line label expected")
			}
			n, _ := strconv.Atoi(line.Label)
			if n <= lastLabel {
				return nil, p.fmtError(first, "line label %s must be greater than %d", line.Label, lastLabel)
			}
			lastLabel = n
		}
		prog.Lines = append(prog.Lines, line)
	}
	return prog, nil
}

// parseLine parses an optional label and the ':'-separated statements up to EOL.
func (p *Parser) parseLine() (*Line, error) {
	first := p.peek()
	line := &Line{Number: first.Line}

	if first.Type == NUMBER {
		if _, err := strconv.Atoi(first.Lexeme); err != nil {
			return nil, p.fmtError(first, "invalid line label %q", first.Lexeme)
		}
		p.advance()
		label := strings.TrimLeft(first.Lexeme, "0")
		if label == "" {
			label = "0"
		}
		if prev, dup := p.labels[label]; dup {
			return nil, p.fmtError(first, "duplicate line label %s (first used on line %d)", label, prev)
		}
		p.labels[label] = first.Line
		line.Label = label
	}

	stmts, err := p.parseStatements(false)
	if err != nil {
		return nil, err
	}
	line.Stmts = stmts

	tok := p.advance()
	if tok.Type != EOL && tok.Type != EOF {
		return nil, p.fmtError(tok, "unexpected %s (%q)", tok.Type, tok.Lexeme)
	}
	return line, nil
}

// parseStatements parses statements separated by ':' until end of line,
// or, when inIf is set, until ELSE.
func (p *Parser) parseStatements(inIf bool) ([]Stmt, error) {
	var stmts []Stmt
	for {
		for p.peek().Type == COLON {
			p.advance()
		}
		tok := p.peek()
		if tok.Type == EOL || tok.Type == EOF {
			return stmts, nil
		}
		if tok.is("ELSE") {
			if inIf {
				return stmts, nil
			}
			return nil, p.fmtError(tok, "ELSE without IF")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)

		if _, isIf := stmt.(*IfStmt); isIf {
			// IF consumes the remainder of the line.
			continue
		}
		if !p.atStatementEnd() {
			tok := p.peek()
			return nil, p.fmtError(tok, "unexpected %s (%q) after statement", tok.Type, tok.Lexeme)
		}
	}
}

func (p *Parser) parseStatement() (Stmt, error) {
	tok := p.peek()
	switch tok.Type {
	case COMMENT:
		p.advance()
		return &CommentStmt{Text: tok.Lexeme}, nil
	case IDENTIFIER:
		return p.parseAssignment()
	case RSX:
		return p.parseRsx()
	case KEYWORD:
		// handled below
	default:
		return nil, p.fmtError(tok, "expected statement, got %s (%q)", tok.Type, tok.Lexeme)
	}

	if unsupportedKeywords[tok.Lexeme] {
		return p.parseUnsupported()
	}

	switch tok.Lexeme {
	case "LET":
		p.advance()
		return p.parseAssignment()
	case "PRINT":
		return p.parsePrint()
	case "WRITE":
		return p.parseWrite()
	case "CLS", "END", "STOP", "FRAME", "TAG", "TAGOFF", "DEG", "RAD":
		p.advance()
		if tok.Lexeme == "CLS" || tok.Lexeme == "TAG" || tok.Lexeme == "TAGOFF" {
			p.skipStream()
		}
		return &CommandStmt{Name: tok.Lexeme}, nil
	case "MODE", "ZONE", "PAPER", "PEN":
		p.advance()
		p.skipStream()
		return p.parseCommandArgs(tok.Lexeme, 1, 1)
	case "LOCATE":
		p.advance()
		p.skipStream()
		return p.parseCommandArgs(tok.Lexeme, 2, 2)
	case "ORIGIN":
		p.advance()
		return p.parseCommandArgs(tok.Lexeme, 2, 2)
	case "INK":
		p.advance()
		return p.parseCommandArgs(tok.Lexeme, 2, 3)
	case "GRAPHICS":
		p.advance()
		if _, err := p.expectKeyword("PEN"); err != nil {
			return nil, err
		}
		return p.parseCommandArgs("GRAPHICS PEN", 1, 1)
	case "DRAW", "DRAWR", "MOVE", "MOVER", "PLOT", "PLOTR":
		return p.parseGraphics()
	case "FOR":
		return p.parseFor()
	case "NEXT":
		return p.parseNext()
	case "WHILE":
		p.advance()
		cond, err := p.parseTypedExpression(TypeNumber)
		if err != nil {
			return nil, err
		}
		return &WhileStmt{Cond: cond}, nil
	case "WEND":
		p.advance()
		return &WendStmt{}, nil
	case "IF":
		return p.parseIf()
	case "GOSUB":
		p.advance()
		label, err := p.parseLabelRef()
		if err != nil {
			return nil, err
		}
		return &GosubStmt{Label: label}, nil
	case "RETURN":
		p.advance()
		return &ReturnStmt{}, nil
	case "ON":
		return p.parseOn()
	case "DATA":
		return p.parseData()
	case "READ":
		return p.parseRead()
	case "RESTORE":
		p.advance()
		if p.peek().Type == NUMBER {
			label, err := p.parseLabelRef()
			if err != nil {
				return nil, err
			}
			return &RestoreStmt{Label: label}, nil
		}
		return &RestoreStmt{}, nil
	case "DIM":
		return p.parseDim()
	case "ERASE":
		return p.parseErase()
	case "DEF":
		return p.parseDefFn()
	case "INPUT":
		return p.parseInput()
	case "AFTER", "EVERY":
		return p.parseTimer()
	}
	return nil, p.fmtError(tok, "unexpected keyword %s", tok.Lexeme)
}

// parseUnsupported swallows a statement that has no translation and keeps its source text.
func (p *Parser) parseUnsupported() (Stmt, error) {
	start := p.advance()
	if p.opts.Strict {
		return nil, p.fmtError(start, "unsupported statement %s", start.Lexeme)
	}
	end := start.End
	for !p.atStatementEnd() {
		end = p.advance().End
	}
	return &UnsupportedStmt{Keyword: start.Lexeme, Text: string(p.src[start.Pos:end]), Line: start.Line}, nil
}

// unsupportedFrom builds an UnsupportedStmt for tokens already consumed from start.
func (p *Parser) unsupportedFrom(start Token, keyword string) (Stmt, error) {
	if p.opts.Strict {
		return nil, p.fmtError(start, "unsupported statement %s", keyword)
	}
	end := p.tokens[p.pos-1].End
	for !p.atStatementEnd() {
		end = p.advance().End
	}
	return &UnsupportedStmt{Keyword: keyword, Text: string(p.src[start.Pos:end]), Line: start.Line}, nil
}

// skipStream drops a leading "#0," stream selector; only the screen stream exists.
func (p *Parser) skipStream() {
	if p.peek().Type != HASH {
		return
	}
	p.advance()
	if p.peek().Type == NUMBER {
		p.advance()
	}
	if p.peek().Type == COMMA {
		p.advance()
	}
}

func (p *Parser) parseLabelRef() (string, error) {
	tok, err := p.expect(NUMBER)
	if err != nil {
		return "", err
	}
	if _, err := strconv.Atoi(tok.Lexeme); err != nil {
		return "", p.fmtError(tok, "invalid line label %q", tok.Lexeme)
	}
	label := strings.TrimLeft(tok.Lexeme, "0")
	if label == "" {
		label = "0"
	}
	return label, nil
}

func (p *Parser) parseCommandArgs(name string, min, max int) (Stmt, error) {
	var args []Expr
	if !p.atStatementEnd() {
		var err error
		args, err = p.parseExprList(TypeNumber)
		if err != nil {
			return nil, err
		}
	}
	if len(args) < min || len(args) > max {
		return nil, p.fmtError(p.peek(), "%s expects %d to %d arguments, got %d", name, min, max, len(args))
	}
	return &CommandStmt{Name: name, Args: args}, nil
}

// parseExprList parses comma-separated expressions of type want.
func (p *Parser) parseExprList(want ValueType) ([]Expr, error) {
	var args []Expr
	for {
		e, err := p.parseTypedExpression(want)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		if p.peek().Type != COMMA {
			return args, nil
		}
		p.advance()
	}
}

func (p *Parser) parseAssignment() (Stmt, error) {
	target, err := p.parseTarget()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(EQUALS); err != nil {
		return nil, err
	}
	value, err := p.parseTypedExpression(target.Type())
	if err != nil {
		return nil, err
	}
	return &AssignStmt{Target: target, Value: value}, nil
}

// parseTarget parses an assignable variable or array element.
func (p *Parser) parseTarget() (Expr, error) {
	tok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if isFnName(tok.Lexeme) {
		return nil, p.fmtError(tok, "cannot assign to function %s", tok.Lexeme)
	}
	if p.peek().Type == LPAREN || p.peek().Type == LBRACKET {
		indices, err := p.parseIndices()
		if err != nil {
			return nil, err
		}
		return &IndexExpr{Name: tok.Lexeme, Indices: indices}, nil
	}
	return &VarRef{Name: tok.Lexeme}, nil
}

// parseIndices parses "(" expr, ... ")" or "[" expr, ... "]".
func (p *Parser) parseIndices() ([]Expr, error) {
	open := p.advance()
	closeType := RPAREN
	if open.Type == LBRACKET {
		closeType = RBRACKET
	}
	indices, err := p.parseExprList(TypeNumber)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(closeType); err != nil {
		return nil, err
	}
	return indices, nil
}

func (p *Parser) parsePrint() (Stmt, error) {
	p.advance() // PRINT
	stmt := &PrintStmt{}
	if p.peek().Type == HASH {
		p.advance()
		stream, err := p.parseTypedExpression(TypeNumber)
		if err != nil {
			return nil, err
		}
		stmt.Stream = stream
		if p.peek().Type == COMMA {
			p.advance()
		}
	}

	for !p.atStatementEnd() {
		tok := p.peek()
		switch {
		case tok.Type == COMMA:
			p.advance()
			stmt.Items = append(stmt.Items, PrintItem{Kind: PrintComma})
		case tok.Type == SEMICOLON:
			p.advance()
			stmt.Items = append(stmt.Items, PrintItem{Kind: PrintSemicolon})
		case tok.is("TAB"), tok.is("SPC"):
			p.advance()
			if _, err := p.expect(LPAREN); err != nil {
				return nil, err
			}
			arg, err := p.parseTypedExpression(TypeNumber)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(RPAREN); err != nil {
				return nil, err
			}
			kind := PrintTab
			if tok.is("SPC") {
				kind = PrintSpc
			}
			stmt.Items = append(stmt.Items, PrintItem{Kind: kind, Expr: arg})
		case tok.is("USING"):
			p.advance()
			format, err := p.parseTypedExpression(TypeString)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(SEMICOLON); err != nil {
				return nil, err
			}
			for {
				value, err := p.parseTypedExpression(TypeNumber)
				if err != nil {
					return nil, err
				}
				stmt.Items = append(stmt.Items, PrintItem{Kind: PrintUsing, Expr: value, Format: format})
				if p.peek().Type != SEMICOLON && p.peek().Type != COMMA {
					break
				}
				p.advance()
				if p.atStatementEnd() {
					stmt.Items = append(stmt.Items, PrintItem{Kind: PrintSemicolon})
					break
				}
			}
		default:
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			stmt.Items = append(stmt.Items, PrintItem{Kind: PrintExpr, Expr: e})
		}
	}
	return stmt, nil
}

func (p *Parser) parseWrite() (Stmt, error) {
	p.advance() // WRITE
	stmt := &WriteStmt{}
	if p.peek().Type == HASH {
		p.advance()
		stream, err := p.parseTypedExpression(TypeNumber)
		if err != nil {
			return nil, err
		}
		stmt.Stream = stream
		if p.peek().Type == COMMA {
			p.advance()
		}
	}
	for !p.atStatementEnd() {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Args = append(stmt.Args, e)
		if p.peek().Type != COMMA && p.peek().Type != SEMICOLON {
			break
		}
		p.advance()
	}
	return stmt, nil
}

func (p *Parser) parseGraphics() (Stmt, error) {
	name := p.advance().Lexeme
	args, err := p.parseExprList(TypeNumber)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 || len(args) > 3 {
		return nil, p.fmtError(p.peek(), "%s expects 2 or 3 arguments, got %d", name, len(args))
	}
	stmt := &GraphicsStmt{Name: name, X: args[0], Y: args[1]}
	if len(args) == 3 {
		stmt.Pen = args[2]
	}
	return stmt, nil
}

func (p *Parser) parseFor() (Stmt, error) {
	p.advance() // FOR
	tok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if typeOfName(tok.Lexeme) != TypeNumber {
		return nil, p.fmtError(tok, "FOR variable %s must be numeric", tok.Lexeme)
	}
	if _, err := p.expect(EQUALS); err != nil {
		return nil, err
	}
	start, err := p.parseTypedExpression(TypeNumber)
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("TO"); err != nil {
		return nil, err
	}
	end, err := p.parseTypedExpression(TypeNumber)
	if err != nil {
		return nil, err
	}
	stmt := &ForStmt{Var: &VarRef{Name: tok.Lexeme}, Start: start, End: end}
	if p.peek().is("STEP") {
		p.advance()
		step, err := p.parseTypedExpression(TypeNumber)
		if err != nil {
			return nil, err
		}
		stmt.Step = step
	}
	return stmt, nil
}

func (p *Parser) parseNext() (Stmt, error) {
	p.advance() // NEXT
	stmt := &NextStmt{}
	for p.peek().Type == IDENTIFIER {
		stmt.Vars = append(stmt.Vars, &VarRef{Name: p.advance().Lexeme})
		if p.peek().Type != COMMA {
			break
		}
		p.advance()
	}
	return stmt, nil
}

// parseBranch parses the body after THEN or ELSE: either a label (a GOTO)
// or a statement list.
func (p *Parser) parseBranch(kw Token) ([]Stmt, error) {
	if p.peek().Type == NUMBER {
		stmt, err := p.unsupportedFrom(kw, "GOTO")
		if err != nil {
			return nil, err
		}
		return []Stmt{stmt}, nil
	}
	return p.parseStatements(true)
}

func (p *Parser) parseIf() (Stmt, error) {
	p.advance() // IF
	cond, err := p.parseTypedExpression(TypeNumber)
	if err != nil {
		return nil, err
	}
	stmt := &IfStmt{Cond: cond}

	kw := p.peek()
	switch {
	case kw.is("THEN"):
		p.advance()
		if stmt.Then, err = p.parseBranch(kw); err != nil {
			return nil, err
		}
	case kw.is("GOTO"):
		branch, err := p.parseUnsupported()
		if err != nil {
			return nil, err
		}
		stmt.Then = []Stmt{branch}
	default:
		return nil, p.fmtError(kw, "expected THEN or GOTO, got %s (%q)", kw.Type, kw.Lexeme)
	}

	if p.peek().is("ELSE") {
		kw := p.advance()
		if stmt.Else, err = p.parseBranch(kw); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *Parser) parseOn() (Stmt, error) {
	start := p.advance() // ON
	selector, err := p.parseTypedExpression(TypeNumber)
	if err != nil {
		return nil, err
	}
	kw := p.advance()
	if !kw.is("GOSUB") && !kw.is("GOTO") {
		return nil, p.fmtError(kw, "expected GOSUB or GOTO, got %s (%q)", kw.Type, kw.Lexeme)
	}
	var labels []string
	for {
		label, err := p.parseLabelRef()
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
		if p.peek().Type != COMMA {
			break
		}
		p.advance()
	}
	if kw.is("GOTO") {
		return p.unsupportedFrom(start, "ON GOTO")
	}
	return &OnGosubStmt{Selector: selector, Labels: labels}, nil
}

func (p *Parser) parseData() (Stmt, error) {
	p.advance() // DATA
	raw, err := p.expect(DATAITEMS)
	if err != nil {
		return nil, err
	}
	return &DataStmt{Items: splitDataItems(raw.Lexeme)}, nil
}

// splitDataItems splits the raw text of a DATA statement on unquoted commas
// and classifies every item as number or string.
func splitDataItems(raw string) []DataItem {
	var parts []string
	var cur strings.Builder
	inString := false
	for _, r := range raw {
		switch {
		case r == '"':
			inString = !inString
			cur.WriteRune(r)
		case r == ',' && !inString:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	parts = append(parts, cur.String())

	items := make([]DataItem, 0, len(parts))
	for _, part := range parts {
		items = append(items, classifyDataItem(strings.TrimSpace(part)))
	}
	return items
}

func classifyDataItem(s string) DataItem {
	if strings.HasPrefix(s, "\"") {
		return DataItem{Kind: STRING, Text: strings.TrimSuffix(s[1:], "\"")}
	}
	body, neg := strings.CutPrefix(s, "-")
	sign := ""
	if neg {
		sign = "-"
	}
	upper := strings.ToUpper(body)
	switch {
	case strings.HasPrefix(upper, "&X") && len(upper) > 2 && strings.Trim(upper[2:], "01") == "":
		return DataItem{Kind: BINNUM, Text: sign + strings.ToLower(upper[2:])}
	case strings.HasPrefix(upper, "&H") && len(upper) > 2 && isHexString(upper[2:]):
		return DataItem{Kind: HEXNUM, Text: sign + strings.ToLower(upper[2:])}
	case strings.HasPrefix(upper, "&") && len(upper) > 1 && isHexString(upper[1:]):
		return DataItem{Kind: HEXNUM, Text: sign + strings.ToLower(upper[1:])}
	}
	if isDecimalLiteral(body) {
		return DataItem{Kind: NUMBER, Text: s}
	}
	return DataItem{Kind: STRING, Text: s}
}

// isDecimalLiteral reports whether s has the shape digits[.digits][E[+-]digits].
func isDecimalLiteral(s string) bool {
	i, digits := 0, 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		expStart := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == expStart {
			return false
		}
	}
	return i == len(s)
}

func isHexString(s string) bool {
	for _, r := range s {
		if !isHexDigit(r) {
			return false
		}
	}
	return s != ""
}

func (p *Parser) parseRead() (Stmt, error) {
	p.advance() // READ
	stmt := &ReadStmt{}
	for {
		target, err := p.parseTarget()
		if err != nil {
			return nil, err
		}
		stmt.Targets = append(stmt.Targets, target)
		if p.peek().Type != COMMA {
			return stmt, nil
		}
		p.advance()
	}
}

func (p *Parser) parseDim() (Stmt, error) {
	p.advance() // DIM
	stmt := &DimStmt{}
	for {
		tok, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		if p.peek().Type != LPAREN && p.peek().Type != LBRACKET {
			return nil, p.fmtError(p.peek(), "expected array dimensions after %s", tok.Lexeme)
		}
		dims, err := p.parseIndices()
		if err != nil {
			return nil, err
		}
		stmt.Arrays = append(stmt.Arrays, &IndexExpr{Name: tok.Lexeme, Indices: dims})
		if p.peek().Type != COMMA {
			return stmt, nil
		}
		p.advance()
	}
}

func (p *Parser) parseErase() (Stmt, error) {
	p.advance() // ERASE
	stmt := &EraseStmt{}
	for {
		tok, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		stmt.Names = append(stmt.Names, tok.Lexeme)
		if p.peek().Type != COMMA {
			return stmt, nil
		}
		p.advance()
	}
}

func isFnName(name string) bool {
	return len(name) > 2 && strings.HasPrefix(name, "fn")
}

// parseFnName accepts both "FNname" and "FN name".
func (p *Parser) parseFnName() (string, Token, error) {
	tok := p.advance()
	if tok.is("FN") {
		ident, err := p.expect(IDENTIFIER)
		if err != nil {
			return "", ident, err
		}
		return "fn" + ident.Lexeme, ident, nil
	}
	if tok.Type == IDENTIFIER && isFnName(tok.Lexeme) {
		return tok.Lexeme, tok, nil
	}
	return "", tok, p.fmtError(tok, "expected FN name, got %s (%q)", tok.Type, tok.Lexeme)
}

func (p *Parser) parseDefFn() (Stmt, error) {
	p.advance() // DEF
	name, _, err := p.parseFnName()
	if err != nil {
		return nil, err
	}
	stmt := &DefFnStmt{Name: name}
	if p.peek().Type == LPAREN {
		p.advance()
		for p.peek().Type != RPAREN {
			param, err := p.expect(IDENTIFIER)
			if err != nil {
				return nil, err
			}
			stmt.Params = append(stmt.Params, param.Lexeme)
			if p.peek().Type != COMMA {
				break
			}
			p.advance()
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(EQUALS); err != nil {
		return nil, err
	}
	body, err := p.parseTypedExpression(typeOfName(name))
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

func (p *Parser) parseInput() (Stmt, error) {
	p.advance() // INPUT
	p.skipStream()
	stmt := &InputStmt{Question: true}
	if p.peek().Type == STRING {
		stmt.Prompt = p.advance().Lexeme
		sep := p.advance()
		switch sep.Type {
		case SEMICOLON:
		case COMMA:
			stmt.Question = false
		default:
			return nil, p.fmtError(sep, "expected ';' or ',' after INPUT prompt")
		}
	}
	for {
		target, err := p.parseTarget()
		if err != nil {
			return nil, err
		}
		stmt.Targets = append(stmt.Targets, target)
		if p.peek().Type != COMMA {
			return stmt, nil
		}
		p.advance()
	}
}

func (p *Parser) parseTimer() (Stmt, error) {
	name := p.advance().Lexeme
	interval, err := p.parseTypedExpression(TypeNumber)
	if err != nil {
		return nil, err
	}
	stmt := &TimerStmt{Name: name, Interval: interval}
	if p.peek().Type == COMMA {
		p.advance()
		if stmt.Timer, err = p.parseTypedExpression(TypeNumber); err != nil {
			return nil, err
		}
	}
	if _, err := p.expectKeyword("GOSUB"); err != nil {
		return nil, err
	}
	if stmt.Label, err = p.parseLabelRef(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseRsx() (Stmt, error) {
	stmt := &RsxStmt{Name: p.advance().Lexeme}
	for p.peek().Type == COMMA {
		p.advance()
		if p.peek().Type == AT {
			p.advance()
			target, err := p.parseTarget()
			if err != nil {
				return nil, err
			}
			stmt.Args = append(stmt.Args, RsxArg{Expr: target, Out: true})
			continue
		}
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Args = append(stmt.Args, RsxArg{Expr: e})
	}
	return stmt, nil
}
