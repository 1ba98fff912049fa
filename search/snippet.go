package search

import (
	"strings"
	"unicode/utf8"
)

// snippetContext is the number of bytes kept on each side of a match.
const snippetContext = 80

// Snippet returns the part of text around the first case-insensitive
// occurrence of term, with the match wrapped in << >>. Text without the
// term yields an empty snippet.
func Snippet(text, term string) string {
	text = strings.Join(strings.Fields(text), " ")
	if term == "" {
		return ""
	}
	start, end := indexFold(text, term)
	if start < 0 {
		return ""
	}
	return windowedHighlight(text, start, end)
}

// indexFold finds term in text ignoring case and returns the byte range of
// the match, or -1, -1.
func indexFold(text, term string) (int, int) {
	for i := range text {
		if n, ok := foldPrefixLen(text[i:], term); ok {
			return i, i + n
		}
	}
	return -1, -1
}

// foldPrefixLen reports whether s starts with prefix ignoring case, and the
// number of bytes of s the prefix covers.
func foldPrefixLen(s, prefix string) (int, bool) {
	n := 0
	for _, r := range prefix {
		if n >= len(s) {
			return 0, false
		}
		sr, size := utf8.DecodeRuneInString(s[n:])
		if sr != r && !strings.EqualFold(string(sr), string(r)) {
			return 0, false
		}
		n += size
	}
	return n, true
}

func windowedHighlight(line string, start, end int) string {
	winStart := max(0, start-snippetContext)
	for winStart > 0 && !utf8.RuneStart(line[winStart]) {
		winStart--
	}
	winEnd := min(len(line), end+snippetContext)
	for winEnd < len(line) && !utf8.RuneStart(line[winEnd]) {
		winEnd++
	}

	var b strings.Builder
	b.Grow(winEnd - winStart + 10)
	if winStart > 0 {
		b.WriteString("…")
	}
	b.WriteString(line[winStart:start])
	b.WriteString("<<")
	b.WriteString(line[start:end])
	b.WriteString(">>")
	b.WriteString(line[end:winEnd])
	if winEnd < len(line) {
		b.WriteString("…")
	}
	return b.String()
}
