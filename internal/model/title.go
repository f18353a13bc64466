package model

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// NormalizeTitle converts a raw title into MediaWiki canonical form:
// NFC-normalized, underscores replaced by spaces, runs of whitespace
// collapsed, surrounding whitespace trimmed, and the first letter
// uppercased. It does not resolve namespace aliases; that requires the
// target site's namespace table and is left to the API's own
// normalization report.
func NormalizeTitle(raw string) string {
	t := norm.NFC.String(raw)
	t = strings.ReplaceAll(t, "_", " ")
	t = strings.Join(strings.Fields(t), " ")
	if t == "" {
		return ""
	}
	return upperFirst(t)
}

// SectionlessTitle strips a "#section" fragment from a title.
// Interwiki links may carry fragments, but page identity never does.
func SectionlessTitle(title string) string {
	if i := strings.IndexByte(title, '#'); i >= 0 {
		return strings.TrimSpace(title[:i])
	}
	return title
}

// upperFirst uppercases the first rune of s.
// MediaWiki titles are case-sensitive except for the first character.
func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
