package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		in, outDir, expected string
	}{
		{"game.bas", "", "game.js"},
		{"dir/game.bas", "", filepath.Join("dir", "game") + ".js"},
		{"noext", "", "noext.js"},
		{"dir/game.bas", "build", filepath.Join("build", "game.js")},
	}
	for _, tt := range tests {
		if got := DefaultOutputPath(tt.in, tt.outDir); got != tt.expected {
			t.Errorf("DefaultOutputPath(%q, %q) = %q, want %q", tt.in, tt.outDir, got, tt.expected)
		}
	}
}

func TestSourcePaths(t *testing.T) {
	full, outDir, err := SourcePaths("x/y.bas", "build")
	if err != nil {
		t.Fatalf("SourcePaths failed: %v", err)
	}
	if !filepath.IsAbs(full) || filepath.Base(full) != "y.bas" {
		t.Errorf("unexpected source path %q", full)
	}
	if want := filepath.Join(filepath.Dir(full), "build"); outDir != want {
		t.Errorf("outDir = %q, want %q", outDir, want)
	}

	abs := filepath.Join(t.TempDir(), "js")
	if _, outDir, _ := SourcePaths("y.bas", abs); outDir != abs {
		t.Errorf("absolute outDir changed to %q", outDir)
	}
	if _, outDir, _ := SourcePaths("y.bas", ""); outDir != "" {
		t.Errorf("empty outDir changed to %q", outDir)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "locobasic.yaml")
	if err := os.WriteFile(path, []byte("strict: true\nout_dir: build\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !cfg.Strict || cfg.OutDir != "build" || cfg.Dump {
		t.Errorf("unexpected config %+v", cfg)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("strict: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Errorf("expected parse error, got %v", err)
	}
}
