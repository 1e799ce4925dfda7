package reindent

import (
	"strings"
	"unicode"
)

// Unit is the number of spaces that make up one indent level.
const Unit = 4

// IndentLevel counts the leading space characters of line and converts them
// to an indent level. Tabs are not counted.
func IndentLevel(line string) (level, spaces int) {
	for spaces < len(line) && line[spaces] == ' ' {
		spaces++
	}
	return spaces / Unit, spaces
}

// Line rewrites the indentation of a single line. Lines without leading
// spaces are returned as is.
func Line(line string, useTabs bool) string {
	level, spaces := IndentLevel(line)
	if spaces == 0 {
		return line
	}

	var indent string
	if useTabs {
		indent = strings.Repeat("\t", level)
	} else {
		indent = strings.Repeat(" ", level*Unit)
	}
	// Only spaces are counted above, but every leading whitespace rune is
	// dropped here, including tabs that follow the spaces.
	return indent + strings.TrimLeftFunc(line, isSpace)
}

// isSpace is unicode.IsSpace plus the ASCII separators U+001C..U+001F,
// which Python's str.strip also treats as whitespace.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// Reindent rewrites the leading indentation of every line in content to
// tabs or to groups of Unit spaces. The number of lines never changes.
func Reindent(content string, useTabs bool) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = Line(line, useTabs)
	}
	return strings.Join(lines, "\n")
}
