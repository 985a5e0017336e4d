// Package stacktrace trims goroutine dumps down to this module's frames.
package stacktrace

import "strings"

// InternalPaths returns "internal/<pkg>/<file>.go:<line>" entries from a raw
// debug.Stack dump, in call order. Frames outside internal/ are dropped.
func InternalPaths(stack []byte) []string {
	var paths []string
	for _, line := range strings.Split(string(stack), "\n") {
		line = strings.TrimSpace(line)
		_, rest, ok := strings.Cut(line, "/internal/")
		if !ok {
			continue
		}
		file, _, _ := strings.Cut(rest, " ")
		if !strings.Contains(file, ".go:") {
			continue
		}
		paths = append(paths, "internal/"+file)
	}
	return paths
}
