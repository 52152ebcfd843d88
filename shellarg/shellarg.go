// Package shellarg implements the quoting discipline used to turn an
// Invocation's executable and argument vector into a shell command string,
// plus the executable-search-path lookup the emitted command string depends
// on.
//
// Both are ported from xcbuild's NinjaExecutor: ShellEscape and
// ResolveExecutable there define the exact byte-level behavior the
// downstream Ninja-compatible executor requires, so this package
// reimplements them literally rather than reaching for a general-purpose
// shell-quoting library.
package shellarg

import (
	"os"
	"path/filepath"
	"strings"
)

const builtinPrefix = "builtin-"

// safeChars is the exact alphabet that may appear unquoted.
const safeChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789@%_-+=:,./"

// Escape quotes value for inclusion in a POSIX shell command line. The empty
// string becomes '' so that it survives as an argument. Otherwise, if value
// consists entirely of characters in the safe alphabet it is returned
// unchanged; if not, it is wrapped in single quotes, with every embedded
// single quote replaced by the five-character escape '"'"'.
func Escape(value string) string {
	if value == "" {
		return "''"
	}
	if strings.IndexFunc(value, func(r rune) bool {
		return !strings.ContainsRune(safeChars, r)
	}) == -1 {
		return value
	}

	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte('\'')
	for _, r := range value {
		if r == '\'' {
			b.WriteString(`'"'"'`)
		} else {
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// Command joins executable and args into a single escaped shell command
// string, in the order the executor will invoke them.
func Command(executable string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, Escape(executable))
	for _, arg := range args {
		parts = append(parts, Escape(arg))
	}
	return strings.Join(parts, " ")
}

// IsBuiltin reports whether executable names an in-process "builtin-"
// tool, which this planner cannot resolve to a real executable path.
func IsBuiltin(executable string) bool {
	return strings.HasPrefix(executable, builtinPrefix)
}

// Resolve finds the real executable path for an invocation's Executable
// field. A "builtin-" prefixed name returns "" (the caller skips the
// invocation). An absolute path is returned unchanged. A bare name is
// looked up in searchPaths, in order, for an existing, executable regular
// file; "" is returned if none match.
func Resolve(executable string, searchPaths []string) string {
	if IsBuiltin(executable) {
		return ""
	}
	if filepath.IsAbs(executable) {
		return executable
	}
	for _, dir := range searchPaths {
		candidate := filepath.Join(dir, executable)
		if isExecutableFile(candidate) {
			return candidate
		}
	}
	return ""
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0111 != 0
}
