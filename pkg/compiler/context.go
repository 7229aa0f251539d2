package compiler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// VarType is the kind of storage a variable needs in the generated program.
type VarType int

const (
	VarNumber VarType = iota
	VarString
	VarArray
)

func (t VarType) String() string {
	switch t {
	case VarString:
		return "string"
	case VarArray:
		return "array"
	}
	return "number"
}

// LabelRef is the kind of reference made to a line label.
type LabelRef int

const (
	RefGosub LabelRef = iota
	RefRestore
)

// DefinedLabel records one source label. LastLine is -1 until a bare RETURN
// closes the label as an open subroutine; DataIndex is -1 until a DATA
// statement follows the label.
type DefinedLabel struct {
	Label     string
	FirstLine int
	LastLine  int
	DataIndex int
}

// Variable is one entry of the variable table.
type Variable struct {
	Name  string // emitted identifier
	Count int
	Type  VarType
}

// CallKind selects how a call site is rendered by the final pass.
type CallKind int

const (
	CallDirect  CallKind = iota // GOSUB label
	CallIndexed                 // ON n GOSUB label, ...
	CallRef                     // timer target: function reference only
)

// CallSite is a structured reference to one or more subroutines. Fragments
// only carry an opaque marker for it, resolved after assembly.
type CallSite struct {
	Kind     CallKind
	Labels   []string
	Selector string // generated selector expression for CallIndexed
	Line     int    // fragment index of the referencing line
	LineNo   int    // source line, for diagnostics
}

type fnStatus int

const (
	fnNone    fnStatus = iota
	fnCollect          // reading DEF FN parameter names
	fnUse              // compiling the DEF FN body
)

// evalFault is a compiler-internal consistency failure raised during
// evaluation. It is recovered at the Compile boundary.
type evalFault string

func (f evalFault) Error() string { return string(f) }

// Context holds every cross-cutting compile-time fact of one compilation.
// It is single-use between calls to resetParser.
type Context struct {
	indent int

	variables map[string]*Variable
	varOrder  []string
	// varScopes maps a variable to subroutine label -> reference count.
	// The empty label is top level.
	varScopes map[string]map[string]int

	definedLabels []DefinedLabel
	labelIndex    map[string]int
	usedLabels    map[string]map[LabelRef]int
	currentSub    string // active scope key
	openIdx       int    // index in definedLabels of the open subroutine, -1 if none
	openIndent    int    // block depth at the open subroutine's label
	lastLabelIdx  int    // most recently defined label, -1 if none

	data       []string // generated literals
	restoreMap map[string]int

	instrs map[string]int

	deg bool
	tag bool

	fnStatus  fnStatus
	fnParams  map[string]bool
	asyncFns  map[string]bool
	callSites []CallSite

	lineIndex int
	lineNo    int
	lineAwait bool

	warnings []string
}

func NewContext() *Context {
	c := &Context{}
	c.resetParser()
	return c
}

// resetParser restores the fresh-instance state.
func (c *Context) resetParser() {
	*c = Context{
		variables:    make(map[string]*Variable),
		varScopes:    make(map[string]map[string]int),
		labelIndex:   make(map[string]int),
		usedLabels:   make(map[string]map[LabelRef]int),
		openIdx:      -1,
		lastLabelIdx: -1,
		restoreMap:   make(map[string]int),
		instrs:       make(map[string]int),
		fnParams:     make(map[string]bool),
		asyncFns:     make(map[string]bool),
	}
}

func (c *Context) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if c.lineNo > 0 {
		msg = fmt.Sprintf("line %d: %s", c.lineNo, msg)
	}
	c.warnings = append(c.warnings, msg)
}

// beginLine starts the evaluation of the fragment at index idx.
func (c *Context) beginLine(idx, lineNo int) {
	c.lineIndex = idx
	c.lineNo = lineNo
	c.lineAwait = false
}

// markAwait flags the current line as containing a suspension point.
func (c *Context) markAwait() {
	c.lineAwait = true
}

//  Indentation

func (c *Context) addIndent(delta int) int {
	c.indent += delta
	if c.indent < 0 {
		panic(evalFault(fmt.Sprintf("line %d: block nesting mismatch (indent %d)", c.lineNo, c.indent)))
	}
	return c.indent
}

func (c *Context) getIndentStr() string {
	return strings.Repeat("\t", c.indent)
}

//  Labels

// addDefinedLabel records label at fragment index lineIndex. When the label is
// a GOSUB target it becomes the open subroutine and the active scope key.
func (c *Context) addDefinedLabel(label string, lineIndex int) {
	if n := len(c.definedLabels); n > 0 && c.definedLabels[n-1].FirstLine >= lineIndex {
		panic(evalFault(fmt.Sprintf("label %s defined out of line order", label)))
	}
	c.definedLabels = append(c.definedLabels, DefinedLabel{Label: label, FirstLine: lineIndex, LastLine: -1, DataIndex: -1})
	idx := len(c.definedLabels) - 1
	c.labelIndex[label] = idx
	c.lastLabelIdx = idx

	if c.isGosubTarget(label) {
		if c.openIdx >= 0 {
			c.warn("subroutine %s has no RETURN before subroutine %s", c.definedLabels[c.openIdx].Label, label)
		}
		c.openIdx = idx
		c.openIndent = c.indent
		c.currentSub = label
	}
}

func (c *Context) addUsedLabel(label string, kind LabelRef) {
	refs, ok := c.usedLabels[label]
	if !ok {
		refs = make(map[LabelRef]int)
		c.usedLabels[label] = refs
	}
	refs[kind]++
}

func (c *Context) isGosubTarget(label string) bool {
	return c.usedLabels[label][RefGosub] > 0
}

// closeSubroutine ends the open subroutine's range at lineIndex. A RETURN
// nested in a FOR/WHILE opened after the label leaves the range open.
func (c *Context) closeSubroutine(lineIndex int) {
	if c.openIdx < 0 {
		return
	}
	if c.indent != c.openIndent {
		c.warn("RETURN inside an open FOR/WHILE block does not end subroutine %s", c.definedLabels[c.openIdx].Label)
		return
	}
	c.definedLabels[c.openIdx].LastLine = lineIndex
	c.openIdx = -1
	c.currentSub = ""
}

//  Variables

// jsReserved holds names that cannot be used as identifiers in the output.
var jsReserved = map[string]bool{
	"arguments": true, "async": true, "await": true, "break": true, "case": true, "catch": true,
	"class": true, "const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "enum": true, "eval": true, "export": true,
	"extends": true, "false": true, "finally": true, "for": true, "function": true, "if": true,
	"implements": true, "import": true, "in": true, "instanceof": true, "interface": true,
	"let": true, "new": true, "null": true, "package": true, "private": true, "protected": true,
	"public": true, "return": true, "static": true, "super": true, "switch": true, "this": true,
	"throw": true, "true": true, "try": true, "typeof": true, "undefined": true, "var": true,
	"void": true, "while": true, "with": true, "yield": true, "infinity": true, "nan": true,
	"math": true, "string": true, "object": true, "array": true, "number": true,
}

// identifier maps a BASIC name to an emitted identifier: lower-cased, with
// the % and ! suffixes spelled out and reserved names escaped.
func identifier(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.HasSuffix(name, "%"):
		name = strings.TrimSuffix(name, "%") + "I"
	case strings.HasSuffix(name, "!"):
		name = strings.TrimSuffix(name, "!") + "R"
	}
	if jsReserved[name] || helperDefs[name] != "" {
		name += "_"
	}
	return name
}

// getVariable returns the emitted identifier for name and, outside DEF FN
// parameter handling, registers a reference under the current subroutine.
func (c *Context) getVariable(name string, typ VarType) string {
	id := identifier(name)

	switch c.fnStatus {
	case fnCollect:
		c.fnParams[id] = true
		return id
	case fnUse:
		if c.fnParams[id] {
			return id
		}
	}

	v, ok := c.variables[id]
	if !ok {
		v = &Variable{Name: id, Type: typ}
		c.variables[id] = v
		c.varOrder = append(c.varOrder, id)
		c.varScopes[id] = make(map[string]int)
	} else if v.Type != typ {
		c.warn("variable %s used as %s and %s; using %s", id, v.Type, typ, typ)
		v.Type = typ
	}
	v.Count++
	c.varScopes[id][c.currentSub]++
	return id
}

// localTo reports whether variable id is referenced only inside subroutine label.
func (c *Context) localTo(id, label string) bool {
	scopes := c.varScopes[id]
	if len(scopes) != 1 || label == "" {
		return false
	}
	_, ok := scopes[label]
	return ok
}

//  DEF FN parameter binding

func (c *Context) beginFnParams() {
	c.fnStatus = fnCollect
	c.fnParams = make(map[string]bool)
}

func (c *Context) beginFnBody() {
	c.fnStatus = fnUse
}

func (c *Context) endFn() {
	c.fnStatus = fnNone
	c.fnParams = make(map[string]bool)
}

//  Runtime helpers

func (c *Context) addInstr(name string) int {
	c.instrs[name]++
	return c.instrs[name]
}

//  Trig and text modes

func (c *Context) setDeg(deg bool) { c.deg = deg }
func (c *Context) getDeg() bool    { return c.deg }
func (c *Context) setTag(tag bool) { c.tag = tag }
func (c *Context) getTag() bool    { return c.tag }

//  DATA / RESTORE

// addData appends literals to the data list and records the data index of
// the most recent label if it has none yet.
func (c *Context) addData(literals []string) {
	if c.lastLabelIdx >= 0 && c.definedLabels[c.lastLabelIdx].DataIndex < 0 {
		c.definedLabels[c.lastLabelIdx].DataIndex = len(c.data)
	}
	c.data = append(c.data, literals...)
}

// finalizeRestoreMap resolves every RESTORE target to a data index: the index
// of the first DATA at or after the label, else 0.
func (c *Context) finalizeRestoreMap() {
	labels := make([]string, 0, len(c.usedLabels))
	for label, refs := range c.usedLabels {
		if refs[RefRestore] > 0 {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	for _, label := range labels {
		idx, ok := c.labelIndex[label]
		if !ok {
			c.lineNo = 0
			c.warn("RESTORE target %s does not exist", label)
			c.restoreMap[label] = 0
			continue
		}
		c.restoreMap[label] = 0
		for i := idx; i < len(c.definedLabels); i++ {
			if d := c.definedLabels[i].DataIndex; d >= 0 {
				c.restoreMap[label] = d
				break
			}
		}
	}
}

//  Call sites

const (
	callMarkOpen  = '\uE000'
	callMarkClose = '\uE001'
)

// addCallSite records a structured subroutine reference and returns the
// marker to embed in the fragment.
func (c *Context) addCallSite(kind CallKind, labels []string, selector string) string {
	c.callSites = append(c.callSites, CallSite{Kind: kind, Labels: labels, Selector: selector, Line: c.lineIndex, LineNo: c.lineNo})
	return string(callMarkOpen) + strconv.Itoa(len(c.callSites)-1) + string(callMarkClose)
}

//  Inspection

func (c *Context) Warnings() []string            { return append([]string(nil), c.warnings...) }
func (c *Context) DefinedLabels() []DefinedLabel { return append([]DefinedLabel(nil), c.definedLabels...) }
func (c *Context) CallSites() []CallSite         { return append([]CallSite(nil), c.callSites...) }
func (c *Context) Data() []string                { return append([]string(nil), c.data...) }

// Variables returns the variable table in first-reference order.
func (c *Context) Variables() []Variable {
	out := make([]Variable, 0, len(c.varOrder))
	for _, id := range c.varOrder {
		out = append(out, *c.variables[id])
	}
	return out
}

// Scopes returns a copy of the subroutine reference counts of variable id.
func (c *Context) Scopes(id string) map[string]int {
	out := make(map[string]int, len(c.varScopes[id]))
	for k, v := range c.varScopes[id] {
		out[k] = v
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RestoreMap returns the resolved label -> data index table.
func (c *Context) RestoreMap() map[string]int {
	out := make(map[string]int, len(c.restoreMap))
	for k, v := range c.restoreMap {
		out[k] = v
	}
	return out
}

// Instrs returns the names of all referenced runtime helpers, sorted.
func (c *Context) Instrs() []string {
	names := make([]string, 0, len(c.instrs))
	for name := range c.instrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String returns a deterministically ordered dump of the tables.
func (c *Context) String() string {
	var sb strings.Builder
	if len(c.varOrder) > 0 {
		sb.WriteString("Variables:\n")
		for _, id := range c.varOrder {
			v := c.variables[id]
			keys := make([]string, 0, len(c.varScopes[id]))
			for k := range c.varScopes[id] {
				if k == "" {
					k = "<top>"
				}
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(&sb, "  %-20s  Type: %s (Count: %d, Scopes: %s)\n", id, v.Type, v.Count, strings.Join(keys, ","))
		}
	} else {
		sb.WriteString("Variables: (empty)\n")
	}

	if len(c.definedLabels) > 0 {
		sb.WriteString("Labels:\n")
		for _, l := range c.definedLabels {
			fmt.Fprintf(&sb, "  %-8s  Lines: %d-%d (Data: %d, Gosub: %d, Restore: %d)\n",
				l.Label, l.FirstLine, l.LastLine, l.DataIndex, c.usedLabels[l.Label][RefGosub], c.usedLabels[l.Label][RefRestore])
		}
	}

	if len(c.data) > 0 {
		fmt.Fprintf(&sb, "Data: [%s]\n", strings.Join(c.data, ", "))
	}

	if len(c.instrs) > 0 {
		fmt.Fprintf(&sb, "Helpers: %s\n", strings.Join(c.Instrs(), ", "))
	}
	return sb.String()
}
