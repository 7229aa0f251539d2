package compiler

// collectLabelRefs records every GOSUB-style and RESTORE target of prog in
// ctx before any line is evaluated, so a label knows on definition whether
// it starts a subroutine.
func collectLabelRefs(prog *Program, ctx *Context) {
	for _, line := range prog.Lines {
		for _, s := range line.Stmts {
			findLabelRefs(s, ctx)
		}
	}
}

// findLabelRefs recursively extracts label references from a statement.
func findLabelRefs(s Stmt, ctx *Context) {
	switch n := s.(type) {
	case *GosubStmt:
		ctx.addUsedLabel(n.Label, RefGosub)
	case *OnGosubStmt:
		for _, label := range n.Labels {
			ctx.addUsedLabel(label, RefGosub)
		}
	case *TimerStmt:
		ctx.addUsedLabel(n.Label, RefGosub)
	case *RestoreStmt:
		if n.Label != "" {
			ctx.addUsedLabel(n.Label, RefRestore)
		}
	case *IfStmt:
		for _, child := range n.Then {
			findLabelRefs(child, ctx)
		}
		for _, child := range n.Else {
			findLabelRefs(child, ctx)
		}
	}
}

// propagateAsync returns the set of subroutine functions that must be
// declared async: those containing a suspension point, and transitively
// every function calling one of them.
func propagateAsync(ranges []subRange, frags []lineFragment, sites []CallSite) map[string]bool {
	// 1. Map each line to the function that encloses it
	owner := make([]string, len(frags))
	for _, r := range ranges {
		for i := r.First; i <= r.Last; i++ {
			owner[i] = r.Label
		}
	}

	async := make(map[string]bool)
	var worklist []string

	markAsync := func(label string) {
		if label != "" && !async[label] {
			async[label] = true
			worklist = append(worklist, label)
		}
	}

	// 2. Roots: functions with an awaited line
	for i, f := range frags {
		if f.Await {
			markAsync(owner[i])
		}
	}

	// 3. Reverse call graph. Timer targets are only referenced, not called.
	callers := make(map[string][]string)
	for _, site := range sites {
		if site.Kind == CallRef || owner[site.Line] == "" {
			continue
		}
		for _, label := range site.Labels {
			callers[label] = append(callers[label], owner[site.Line])
		}
	}

	// 4. Traverse the worklist to find all transitive callers
	for len(worklist) > 0 {
		curr := worklist[0]
		worklist = worklist[1:]
		for _, caller := range callers[curr] {
			markAsync(caller)
		}
	}

	return async
}
