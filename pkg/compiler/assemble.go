package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// subRange is a closed subroutine: a GOSUB-target label together with the
// lines up to and including its bare RETURN.
type subRange struct {
	Label string
	First int
	Last  int
}

// subroutineRanges returns the closed subroutines in source order.
func subroutineRanges(ctx *Context) []subRange {
	var ranges []subRange
	for _, l := range ctx.definedLabels {
		if l.LastLine >= 0 && ctx.isGosubTarget(l.Label) {
			ranges = append(ranges, subRange{Label: l.Label, First: l.FirstLine, Last: l.LastLine})
		}
	}
	return ranges
}

func declaration(v *Variable) string {
	switch v.Type {
	case VarString:
		return v.Name + ` = ""`
	case VarArray:
		return v.Name + " = []"
	}
	return v.Name + " = 0"
}

// assemble lays out the final program: global declarations, the data
// tables, the body with subroutines turned into functions, and the runtime
// helpers that were referenced.
func assemble(ctx *Context, frags []lineFragment) string {
	ranges := subroutineRanges(ctx)
	async := propagateAsync(ranges, frags, ctx.callSites)

	functions := make(map[string]bool, len(ranges))
	for _, r := range ranges {
		functions[r.Label] = true
	}

	// 1. Split variables into function locals and globals
	locals := make(map[string][]string)
	var globals []string
	for _, id := range ctx.varOrder {
		local := false
		for _, r := range ranges {
			if ctx.localTo(id, r.Label) {
				locals[r.Label] = append(locals[r.Label], declaration(ctx.variables[id]))
				local = true
				break
			}
		}
		if !local {
			globals = append(globals, declaration(ctx.variables[id]))
		}
	}

	var out strings.Builder
	if len(globals) > 0 {
		out.WriteString("let " + strings.Join(globals, ", ") + ";\n")
	}

	// 2. DATA tables
	if len(ctx.data) > 0 || ctx.instrs["read"] > 0 || ctx.instrs["restore"] > 0 {
		out.WriteString("const _data = [" + strings.Join(ctx.data, ", ") + "];\n")
		out.WriteString("const _restoreMap = {" + restoreEntries(ctx) + "};\n")
		out.WriteString("let _dataPtr = 0;\n")
	}

	// 3. Body
	writeLine := func(f lineFragment, extra int) {
		if f.Text == "" {
			return
		}
		out.WriteString(strings.Repeat("\t", f.Indent+extra))
		out.WriteString(f.Text)
		out.WriteByte('\n')
	}

	next := 0
	for _, r := range ranges {
		for ; next < r.First; next++ {
			writeLine(frags[next], 0)
		}
		indent := strings.Repeat("\t", frags[r.First].Indent)
		header := "function _" + r.Label + "() {\n"
		if async[r.Label] {
			header = "async " + header
		}
		out.WriteString(indent + header)
		if decls := locals[r.Label]; len(decls) > 0 {
			out.WriteString(indent + "\tlet " + strings.Join(decls, ", ") + ";\n")
		}
		for ; next <= r.Last; next++ {
			writeLine(frags[next], 1)
		}
		out.WriteString(indent + "}\n")
	}
	for ; next < len(frags); next++ {
		writeLine(frags[next], 0)
	}

	// 4. Runtime helpers
	if names := ctx.Instrs(); len(names) > 0 {
		out.WriteString("\n")
		for _, name := range names {
			out.WriteString(helperDefs[name] + "\n")
		}
	}

	if out.Len() == 0 {
		out.WriteByte('\n')
	}
	return resolveCallSites(ctx, out.String(), functions, async)
}

// restoreEntries renders the RESTORE map in label definition order, then
// unresolved labels.
func restoreEntries(ctx *Context) string {
	var entries []string
	seen := make(map[string]bool)
	add := func(label string) {
		if d, ok := ctx.restoreMap[label]; ok && !seen[label] {
			seen[label] = true
			entries = append(entries, strconv.Quote(label)+": "+strconv.Itoa(d))
		}
	}
	for _, l := range ctx.definedLabels {
		add(l.Label)
	}
	for _, label := range sortedKeys(ctx.restoreMap) {
		add(label)
	}
	return strings.Join(entries, ", ")
}

// resolveCallSites replaces every call marker in text with its final form.
// Sync or async status of the targets is only known at this point.
func resolveCallSites(ctx *Context, text string, functions, async map[string]bool) string {
	if !strings.ContainsRune(text, callMarkOpen) {
		return text
	}

	ref := func(label string, lineNo int) string {
		if functions[label] {
			return "_" + label
		}
		ctx.lineNo = lineNo
		ctx.warn("GOSUB target %s is not a subroutine ending with RETURN", label)
		return "undefined"
	}

	var out strings.Builder
	for {
		open := strings.IndexRune(text, callMarkOpen)
		if open < 0 {
			out.WriteString(text)
			break
		}
		out.WriteString(text[:open])
		text = text[open+len(string(callMarkOpen)):]
		end := strings.IndexRune(text, callMarkClose)
		idx, err := strconv.Atoi(text[:end])
		if err != nil || idx >= len(ctx.callSites) {
			panic(evalFault(fmt.Sprintf("corrupt call marker %q", text[:end])))
		}
		text = text[end+len(string(callMarkClose)):]

		site := ctx.callSites[idx]
		switch site.Kind {
		case CallDirect:
			label := site.Labels[0]
			if !functions[label] {
				ref(label, site.LineNo)
				out.WriteString("/* GOSUB " + label + " */")
				continue
			}
			if async[label] {
				out.WriteString("await ")
			}
			out.WriteString("_" + label + "()")

		case CallIndexed:
			refs := make([]string, len(site.Labels))
			awaited := false
			for i, label := range site.Labels {
				refs[i] = ref(label, site.LineNo)
				awaited = awaited || async[label]
			}
			if awaited {
				out.WriteString("await ")
			}
			out.WriteString("[" + strings.Join(refs, ", ") + "][" + site.Selector + " - 1]?.()")

		case CallRef:
			out.WriteString(ref(site.Labels[0], site.LineNo))
		}
	}
	return out.String()
}
