// Package stacktrace trims runtime stacks down to this module's frames.
package stacktrace

import "strings"

const marker = "/internal/"

// InternalPaths returns "internal/<pkg>/<file>.go:<line>" for each frame of
// stack that lives under an internal/ directory.
func InternalPaths(stack []byte) []string {
	var paths []string
	for line := range strings.Lines(string(stack)) {
		line = strings.TrimSpace(line)
		dot := strings.Index(line, ".go:")
		if dot == -1 {
			continue
		}
		at := strings.Index(line, marker)
		if at == -1 || at > dot {
			continue
		}

		frame := line[at+1:]
		if sp := strings.IndexByte(frame, ' '); sp != -1 {
			frame = frame[:sp]
		}
		paths = append(paths, frame)
	}
	return paths
}
