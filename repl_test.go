//go:build !js

package main

import (
	"testing"
)

func TestProgramBuffer(t *testing.T) {
	p := newProgram()
	for _, line := range []string{"20 PRINT 2", "10 PRINT 1", "30 PRINT 3", "20 PRINT 22"} {
		if !p.enter(line) {
			t.Fatalf("enter(%q) rejected", line)
		}
	}
	p.enter("30")
	if p.enter("PRINT 4") {
		t.Errorf("unlabelled line must be rejected")
	}

	want := "10 PRINT 1\n20 PRINT 22\n"
	if got := p.source(); got != want {
		t.Errorf("source() = %q, want %q", got, want)
	}
}
