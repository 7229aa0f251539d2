package compiler

import (
	"strings"
	"testing"
)

func TestIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"a", "a"},
		{"name$", "name$"},
		{"count%", "countI"},
		{"ratio!", "ratioR"},
		{"new", "new_"},
		{"arguments", "arguments_"},
		{"print", "print_"},
		{"frame", "frame_"},
		{"delete%", "deleteI"},
	}
	for _, tt := range tests {
		if got := identifier(tt.name); got != tt.expected {
			t.Errorf("identifier(%q) = %q, want %q", tt.name, got, tt.expected)
		}
	}
}

func TestContext_GetVariable(t *testing.T) {
	ctx := NewContext()
	ctx.getVariable("a", VarNumber)
	ctx.getVariable("b$", VarString)
	ctx.getVariable("a", VarNumber)

	vars := ctx.Variables()
	if len(vars) != 2 || vars[0].Name != "a" || vars[0].Count != 2 || vars[1].Type != VarString {
		t.Errorf("unexpected variable table %+v", vars)
	}
	if scopes := ctx.Scopes("a"); scopes[""] != 2 {
		t.Errorf("expected 2 top-level references of a, got %v", scopes)
	}

	// The most recent use decides the type.
	ctx.getVariable("a", VarArray)
	if vars := ctx.Variables(); vars[0].Type != VarArray {
		t.Errorf("expected a to become an array, got %s", vars[0].Type)
	}
	if w := ctx.Warnings(); len(w) != 1 || !strings.Contains(w[0], "used as number and array") {
		t.Errorf("expected type conflict warning, got %v", w)
	}
}

func TestContext_FnParameters(t *testing.T) {
	ctx := NewContext()
	ctx.beginFnParams()
	ctx.getVariable("x", VarNumber)
	ctx.beginFnBody()
	ctx.getVariable("x", VarNumber)
	ctx.getVariable("y", VarNumber)
	ctx.endFn()

	vars := ctx.Variables()
	if len(vars) != 1 || vars[0].Name != "y" {
		t.Errorf("parameters must not enter the variable table, got %+v", vars)
	}
}

func TestContext_Subroutines(t *testing.T) {
	ctx := NewContext()
	ctx.addUsedLabel("100", RefGosub)

	ctx.beginLine(0, 1)
	ctx.addDefinedLabel("10", 0)
	ctx.getVariable("g", VarNumber)

	ctx.beginLine(1, 2)
	ctx.addDefinedLabel("100", 1)
	if ctx.currentSub != "100" {
		t.Fatalf("expected label 100 to open a subroutine, got %q", ctx.currentSub)
	}
	ctx.getVariable("g", VarNumber)
	ctx.getVariable("l", VarNumber)
	ctx.closeSubroutine(1)

	if !ctx.localTo("l", "100") {
		t.Errorf("l should be local to 100")
	}
	if ctx.localTo("g", "100") {
		t.Errorf("g is shared with the top level")
	}
	labels := ctx.DefinedLabels()
	if labels[0].LastLine != -1 || labels[1].LastLine != 1 {
		t.Errorf("unexpected label ranges %+v", labels)
	}
	if ctx.currentSub != "" {
		t.Errorf("RETURN must reset the scope key, got %q", ctx.currentSub)
	}
}

func TestContext_LabelOrder(t *testing.T) {
	ctx := NewContext()
	ctx.addDefinedLabel("20", 1)
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for out-of-order label")
		}
	}()
	ctx.addDefinedLabel("10", 0)
}

func TestContext_NegativeIndent(t *testing.T) {
	ctx := NewContext()
	ctx.addIndent(1)
	ctx.addIndent(-1)
	defer func() {
		r := recover()
		if _, ok := r.(evalFault); !ok {
			t.Errorf("expected evalFault panic, got %v", r)
		}
	}()
	ctx.addIndent(-1)
}

func TestContext_RestoreMap(t *testing.T) {
	ctx := NewContext()
	ctx.addUsedLabel("10", RefRestore)
	ctx.addUsedLabel("20", RefRestore)
	ctx.addUsedLabel("40", RefRestore)
	ctx.addUsedLabel("99", RefRestore)

	ctx.addDefinedLabel("10", 0)
	ctx.addData([]string{"1", "2"})
	ctx.addDefinedLabel("20", 1) // no DATA of its own
	ctx.addDefinedLabel("30", 2)
	ctx.addData([]string{"3"})
	ctx.addDefinedLabel("40", 3)
	ctx.finalizeRestoreMap()

	want := map[string]int{"10": 0, "20": 2, "40": 0, "99": 0}
	got := ctx.RestoreMap()
	for label, idx := range want {
		if got[label] != idx {
			t.Errorf("restore %s: got %d, want %d", label, got[label], idx)
		}
	}
	if w := ctx.Warnings(); len(w) != 1 || !strings.Contains(w[0], "RESTORE target 99") {
		t.Errorf("expected missing-label warning, got %v", w)
	}
}

func TestContext_ResetParser(t *testing.T) {
	ctx := NewContext()
	ctx.getVariable("a", VarNumber)
	ctx.addInstr("print")
	ctx.setDeg(true)
	ctx.addIndent(2)
	ctx.resetParser()

	if len(ctx.Variables()) != 0 || len(ctx.Instrs()) != 0 || ctx.getDeg() || ctx.indent != 0 {
		t.Errorf("context not reset: %s", ctx)
	}
	if ctx.openIdx != -1 || ctx.lastLabelIdx != -1 {
		t.Errorf("label cursors not reset")
	}
}

func TestContext_String(t *testing.T) {
	ctx := NewContext()
	ctx.getVariable("zeta", VarNumber)
	ctx.getVariable("alpha$", VarString)
	ctx.addInstr("print")
	ctx.addInstr("cls")

	s := ctx.String()
	if strings.Index(s, "zeta") > strings.Index(s, "alpha$") {
		t.Errorf("variables must be listed in first-reference order:\n%s", s)
	}
	if !strings.Contains(s, "Helpers: cls, print") {
		t.Errorf("helpers must be sorted:\n%s", s)
	}
	if s != ctx.String() {
		t.Errorf("String is not deterministic")
	}
}
