package dsl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxIncludeDepth bounds Include recursion. The original implementation
// this grammar is modeled on expands Include textually with no cycle
// detection at all; a scene file that Includes itself would recurse until
// the process runs out of stack. This loader adds a depth cap plus a
// visited-path set so a cyclic Include fails with a clear error instead.
const maxIncludeDepth = 64

// ExpandIncludes takes src (the contents of a file already read from disk)
// and dir (the directory used to resolve relative Include targets) and
// inlines every Include "file" directive it finds, recursively,
// depth-first. The scan is textual: any occurrence of the word Include
// followed by a quoted string is expanded, including one inside a # comment.
func ExpandIncludes(src, dir string) (string, error) {
	return expandIncludes(src, dir, map[string]bool{}, 0)
}

func expandIncludes(src, dir string, visited map[string]bool, depth int) (string, error) {
	if depth > maxIncludeDepth {
		return "", fmt.Errorf("Include nesting exceeds %d levels (cycle?)", maxIncludeDepth)
	}
	var out strings.Builder
	rest := src
	for {
		idx := strings.Index(rest, "Include")
		if idx < 0 {
			out.WriteString(rest)
			return out.String(), nil
		}
		out.WriteString(rest[:idx])
		after := rest[idx+len("Include"):]
		path, tail, ok := scanIncludeTarget(after)
		if !ok {
			// Not a real Include directive (e.g. an identifier that merely
			// starts with "Include") — copy the keyword and keep scanning.
			out.WriteString("Include")
			rest = after
			continue
		}
		fullPath := filepath.Join(dir, path)
		canon, err := filepath.Abs(fullPath)
		if err != nil {
			return "", err
		}
		if visited[canon] {
			return "", fmt.Errorf("Include cycle detected at %q", fullPath)
		}
		data, err := os.ReadFile(fullPath)
		if err != nil {
			return "", fmt.Errorf("Include %q: %w", fullPath, err)
		}
		visited[canon] = true
		expanded, err := expandIncludes(string(data), filepath.Dir(fullPath), visited, depth+1)
		delete(visited, canon)
		if err != nil {
			return "", err
		}
		out.WriteString(expanded)
		rest = tail
	}
}

// scanIncludeTarget parses the whitespace then quoted path following the
// "Include" keyword. Returns ok=false if what follows isn't a valid
// quoted-string argument, in which case the caller treats "Include" as
// plain text.
func scanIncludeTarget(s string) (path, tail string, ok bool) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	if i >= len(s) || s[i] != '"' {
		return "", "", false
	}
	i++
	start := i
	for i < len(s) && s[i] != '"' {
		if s[i] == '\\' {
			i++
		}
		i++
	}
	if i >= len(s) {
		return "", "", false
	}
	return s[start:i], s[i+1:], true
}
