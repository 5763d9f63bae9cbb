// Package normalizers tidies the long descriptions and examples embedded in
// command definitions.
package normalizers

import (
	"strings"
)

const Indentation = `  `

// LongDesc trims a long description and strips the common indentation that
// comes from declaring it in a raw string literal.
func LongDesc(s string) string {
	return strings.Join(dedent(strings.Split(strings.TrimSpace(s), "\n")), "\n")
}

// Examples trims every example line and indents it by one level. Blank lines
// between examples are kept empty.
func Examples(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			lines[i] = ""
			continue
		}
		lines[i] = Indentation + trimmed
	}
	return strings.Join(lines, "\n")
}

func dedent(lines []string) []string {
	prefix := -1
	for i, line := range lines {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if prefix == -1 || n < prefix {
			prefix = n
		}
	}
	if prefix <= 0 {
		return lines
	}
	for i, line := range lines {
		if i == 0 {
			continue
		}
		if len(line) >= prefix {
			lines[i] = line[prefix:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return lines
}
