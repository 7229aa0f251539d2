package compiler

import (
	"fmt"
	"strings"
)

// ValueType is the static type of a BASIC expression.
type ValueType int

const (
	TypeNumber ValueType = iota
	TypeString
)

func (t ValueType) String() string {
	if t == TypeString {
		return "string"
	}
	return "number"
}

// typeOfName derives the type of a variable or FN name from its suffix.
func typeOfName(name string) ValueType {
	if strings.HasSuffix(name, "$") {
		return TypeString
	}
	return TypeNumber
}

//  Expression nodes

// Expr is implemented by every node that produces a value.
type Expr interface {
	exprNode()
	Type() ValueType
	String() string
}

// NumberLit is a numeric constant as written in the source.
//
//	&FF    NumberLit{Kind: HEXNUM, Text: "ff"}
//	&X101  NumberLit{Kind: BINNUM, Text: "101"}
type NumberLit struct {
	Kind TokenType // NUMBER, HEXNUM or BINNUM
	Text string
	Line int
}

func (*NumberLit) exprNode()         {}
func (*NumberLit) Type() ValueType   { return TypeNumber }
func (n *NumberLit) String() string { return n.Text }

// StringLit is a string constant "..."
type StringLit struct {
	Value string
}

func (*StringLit) exprNode()         {}
func (*StringLit) Type() ValueType   { return TypeString }
func (s *StringLit) String() string { return fmt.Sprintf("%q", s.Value) }

// VarRef is a read of a scalar variable.
type VarRef struct {
	Name string // lower-cased, suffix included
}

func (*VarRef) exprNode()           {}
func (v *VarRef) Type() ValueType  { return typeOfName(v.Name) }
func (v *VarRef) String() string   { return v.Name }

// IndexExpr is an array element access a(i, j).
type IndexExpr struct {
	Name    string
	Indices []Expr
}

func (*IndexExpr) exprNode()          {}
func (e *IndexExpr) Type() ValueType { return typeOfName(e.Name) }
func (e *IndexExpr) String() string  { return fmt.Sprintf("%s%v", e.Name, e.Indices) }

// BinaryExpr represents Left Op Right. Op is the BASIC operator text,
// upper-cased for word operators ("+", "MOD", "\\", "<>", "AND").
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}
func (b *BinaryExpr) Type() ValueType {
	if b.Op == "+" && b.Left.Type() == TypeString {
		return TypeString
	}
	return TypeNumber
}
func (b *BinaryExpr) String() string { return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right) }

// isComparison reports whether op yields a BASIC truth value (-1 / 0).
func isComparison(op string) bool {
	switch op {
	case "=", "<>", "<", ">", "<=", ">=":
		return true
	}
	return false
}

// UnaryExpr represents -x, +x or NOT x.
type UnaryExpr struct {
	Op      string
	Operand Expr
}

func (*UnaryExpr) exprNode()          {}
func (*UnaryExpr) Type() ValueType    { return TypeNumber }
func (u *UnaryExpr) String() string  { return fmt.Sprintf("(%s %s)", u.Op, u.Operand) }

// ParenExpr keeps explicit source parentheses.
type ParenExpr struct {
	Inner Expr
}

func (*ParenExpr) exprNode()          {}
func (p *ParenExpr) Type() ValueType { return p.Inner.Type() }
func (p *ParenExpr) String() string  { return "(" + p.Inner.String() + ")" }

// FuncCall is a call to a built-in function such as LEFT$ or SIN.
type FuncCall struct {
	Name string // upper-cased keyword
	Args []Expr
	typ  ValueType
}

func (*FuncCall) exprNode()          {}
func (f *FuncCall) Type() ValueType { return f.typ }
func (f *FuncCall) String() string  { return fmt.Sprintf("%s%v", f.Name, f.Args) }

// FnCall is a call to a user function declared with DEF FN.
type FnCall struct {
	Name string // "fn" + name, lower-cased
	Args []Expr
}

func (*FnCall) exprNode()          {}
func (f *FnCall) Type() ValueType { return typeOfName(f.Name) }
func (f *FnCall) String() string  { return fmt.Sprintf("%s%v", f.Name, f.Args) }

//  Statement nodes

// Stmt is implemented by every statement node.
type Stmt interface {
	stmtNode()
}

// Line is one source line: an optional numeric label and its statements.
type Line struct {
	Number int    // 1-based source line
	Label  string // "" when the line has no label
	Stmts  []Stmt
}

// Program is the parse result of a whole source text.
type Program struct {
	Lines []*Line
}

// AssignStmt is [LET] target = value.
type AssignStmt struct {
	Target Expr // *VarRef or *IndexExpr
	Value  Expr
}

// PrintItemKind distinguishes the pieces of a PRINT list.
type PrintItemKind int

const (
	PrintExpr PrintItemKind = iota
	PrintComma
	PrintSemicolon
	PrintTab
	PrintSpc
	PrintUsing
)

// PrintItem is one element of a PRINT list.
type PrintItem struct {
	Kind   PrintItemKind
	Expr   Expr // value, TAB/SPC argument or USING value
	Format Expr // USING format string
}

// PrintStmt is PRINT [#stream,] items.
type PrintStmt struct {
	Stream Expr
	Items  []PrintItem
}

// WriteStmt is WRITE [#stream,] expr, ...
type WriteStmt struct {
	Stream Expr
	Args   []Expr
}

// CommandStmt covers keyword statements that map to a plain runtime call,
// e.g. CLS, MODE 1, PEN 2, ORIGIN 10,20, FRAME, END.
type CommandStmt struct {
	Name string // upper-cased keyword, "GRAPHICS PEN" for the two-word form
	Args []Expr
}

// GraphicsStmt is DRAW/DRAWR/MOVE/MOVER/PLOT/PLOTR x, y [, pen].
type GraphicsStmt struct {
	Name string
	X, Y Expr
	Pen  Expr
}

// ForStmt is FOR var = start TO end [STEP step].
type ForStmt struct {
	Var   *VarRef
	Start Expr
	End   Expr
	Step  Expr
}

// NextStmt is NEXT [var, ...]. Each listed (or implied) variable closes one loop.
type NextStmt struct {
	Vars []*VarRef
}

// WhileStmt is WHILE cond.
type WhileStmt struct {
	Cond Expr
}

// WendStmt closes the innermost WHILE.
type WendStmt struct{}

// IfStmt is IF cond THEN stmts [ELSE stmts] on a single line.
type IfStmt struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// GosubStmt is GOSUB label.
type GosubStmt struct {
	Label string
}

// ReturnStmt is a bare RETURN.
type ReturnStmt struct{}

// OnGosubStmt is ON selector GOSUB label, label, ...
type OnGosubStmt struct {
	Selector Expr
	Labels   []string
}

// DataItem is one literal of a DATA statement.
type DataItem struct {
	Kind TokenType // NUMBER, HEXNUM, BINNUM or STRING
	Text string
}

// DataStmt is DATA item, item, ...
type DataStmt struct {
	Items []DataItem
}

// ReadStmt is READ target, ...
type ReadStmt struct {
	Targets []Expr
}

// RestoreStmt is RESTORE [label].
type RestoreStmt struct {
	Label string
}

// DimStmt is DIM a(n[, m]), ...
type DimStmt struct {
	Arrays []*IndexExpr
}

// EraseStmt is ERASE a, ...
type EraseStmt struct {
	Names []string
}

// DefFnStmt is DEF FNname(params) = body.
type DefFnStmt struct {
	Name   string
	Params []string
	Body   Expr
}

// InputStmt is INPUT [prompt ;|,] target, ...
type InputStmt struct {
	Prompt   string
	Question bool // prompt followed by ';' (or no prompt): append "? "
	Targets  []Expr
}

// TimerStmt is AFTER|EVERY interval [, timer] GOSUB label.
type TimerStmt struct {
	Name     string // "AFTER" or "EVERY"
	Interval Expr
	Timer    Expr
	Label    string
}

// RsxArg is one argument of an RSX call; Out is set for @var arguments.
type RsxArg struct {
	Expr Expr
	Out  bool
}

// RsxStmt is |name[, args].
type RsxStmt struct {
	Name string
	Args []RsxArg
}

// CommentStmt is a REM or ' comment.
type CommentStmt struct {
	Text string
}

// UnsupportedStmt is a parseable statement that has no translation.
// Text holds the original source of the statement.
type UnsupportedStmt struct {
	Keyword string
	Text    string
	Line    int
}

func (*AssignStmt) stmtNode()      {}
func (*PrintStmt) stmtNode()       {}
func (*WriteStmt) stmtNode()       {}
func (*CommandStmt) stmtNode()     {}
func (*GraphicsStmt) stmtNode()    {}
func (*ForStmt) stmtNode()         {}
func (*NextStmt) stmtNode()        {}
func (*WhileStmt) stmtNode()       {}
func (*WendStmt) stmtNode()        {}
func (*IfStmt) stmtNode()          {}
func (*GosubStmt) stmtNode()       {}
func (*ReturnStmt) stmtNode()      {}
func (*OnGosubStmt) stmtNode()     {}
func (*DataStmt) stmtNode()        {}
func (*ReadStmt) stmtNode()        {}
func (*RestoreStmt) stmtNode()     {}
func (*DimStmt) stmtNode()         {}
func (*EraseStmt) stmtNode()       {}
func (*DefFnStmt) stmtNode()       {}
func (*InputStmt) stmtNode()       {}
func (*TimerStmt) stmtNode()       {}
func (*RsxStmt) stmtNode()         {}
func (*CommentStmt) stmtNode()     {}
func (*UnsupportedStmt) stmtNode() {}
