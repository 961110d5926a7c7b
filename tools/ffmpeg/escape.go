package ffmpeg

import "strings"

// The drawtext filter parametrization is a colon/quote delimited
// mini-language: an unescaped colon ends the current parameter and an
// unescaped quote ends the text value. Every value interpolated into a
// filter goes through exactly one of the escapers below.

// EscapeDrawtextValue - escapes backslash, single quote and colon in a
// text value before it is interpolated into drawtext.
func EscapeDrawtextValue(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		switch r {
		case '\\', '\'', ':':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}

	return b.String()
}

// UnescapeDrawtextValue - reverses EscapeDrawtextValue.
func UnescapeDrawtextValue(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); i++ {
		if text[i] == '\\' && i+1 < len(text) {
			switch text[i+1] {
			case '\\', '\'', ':':
				i++
			}
		}
		b.WriteByte(text[i])
	}

	return b.String()
}

// EscapeFontPath - normalizes a font file path for interpolation into a
// filter: forward slashes, escaped drive letter colon, escaped spaces.
func EscapeFontPath(path string) string {
	normalized := strings.ReplaceAll(path, "\\", "/")
	normalized = strings.ReplaceAll(normalized, ":", "\\:")
	normalized = strings.ReplaceAll(normalized, " ", "\\ ")
	return normalized
}

// WrapText - greedy word wrap to at most maxCharsPerLine characters per
// line. Words longer than the limit occupy a line of their own.
func WrapText(text string, maxCharsPerLine int) []string {
	words := strings.Fields(text)
	lines := []string{}
	current := ""

	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}

		if len(candidate) <= maxCharsPerLine {
			current = candidate
			continue
		}

		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}

	if current != "" {
		lines = append(lines, current)
	}

	return lines
}
