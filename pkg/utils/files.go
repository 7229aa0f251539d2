package utils

import (
	"path/filepath"
	"strings"
)

// SourcePaths resolves a BASIC source path given on the command line. A
// relative outDir is taken relative to the directory holding the source.
func SourcePaths(relPath, outDir string) (fullPath, resolvedOutDir string, err error) {
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}
	resolvedOutDir = outDir
	if outDir != "" && !filepath.IsAbs(outDir) {
		resolvedOutDir = filepath.Join(filepath.Dir(fullPath), outDir)
	}
	return fullPath, resolvedOutDir, nil
}

// DefaultOutputPath derives the .js path for a BASIC source file. When outDir
// is set the file is placed there instead of next to the input.
func DefaultOutputPath(inPath, outDir string) string {
	base := inPath
	if ext := filepath.Ext(inPath); ext != "" {
		base = strings.TrimSuffix(inPath, ext)
	}
	if outDir != "" {
		base = filepath.Join(outDir, filepath.Base(base))
	}
	return base + ".js"
}
