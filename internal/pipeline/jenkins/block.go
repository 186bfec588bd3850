package jenkins

import (
	"regexp"
	"strings"
)

// maskStrings overwrites the contents of quoted spans with equal-length
// filler so brace scanning cannot be desynchronized by a literal { or }
// inside a string value. Offsets into the masked text are valid offsets into
// the original. An unterminated quote is closed at end of line.
func maskStrings(text string) string {
	out := []byte(text)
	var quote byte
	for i := 0; i < len(out); i++ {
		c := out[i]
		if quote != 0 {
			switch c {
			case quote:
				quote = 0
			case '\n':
				quote = 0
			default:
				out[i] = '_'
			}
			continue
		}
		if c == '\'' || c == '"' {
			quote = c
		}
	}
	return string(out)
}

// ExtractBlock returns the text strictly between the braces of the first
// `keyword { ... }` occurrence. The boolean is false when the keyword is
// absent or the block never closes before end of text; both are treated as
// absence, never as an error.
func ExtractBlock(text, keyword string) (string, bool) {
	masked := maskStrings(text)
	open := regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\s*\{`)
	loc := open.FindStringIndex(masked)
	if loc == nil {
		return "", false
	}
	end := matchBrace(masked, loc[1])
	if end < 0 {
		return "", false
	}
	return text[loc[1]:end], true
}

// matchBrace scans forward from start (the offset just past an opening
// brace) and returns the offset of the brace that closes it, or -1 when the
// depth never returns to zero.
func matchBrace(masked string, start int) int {
	depth := 1
	for i := start; i < len(masked); i++ {
		switch masked[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// stripComments removes single-line `//` comments. The transformation is
// lossy and irreversible; block comments are not supported.
func stripComments(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if idx := strings.Index(line, "//"); idx >= 0 {
			lines[i] = line[:idx]
		}
	}
	return strings.Join(lines, "\n")
}
