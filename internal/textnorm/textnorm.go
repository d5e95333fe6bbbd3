// Package textnorm canonicalizes extracted document text so the field
// patterns see the same string regardless of source format or encoding.
package textnorm

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	newlineRun    = regexp.MustCompile(`\n+`)
	whitespaceRun = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)

	quoteReplacer = strings.NewReplacer(
		"\u201c", `"`,
		"\u201d", `"`,
		"\u201e", `"`,
		"\u201f", `"`,
	)
)

// Normalize applies, in order: NFC composition, NBSP to space, CR removal,
// newline collapse, whitespace collapse, trim and quote canonicalization.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "\r", "")
	s = newlineRun.ReplaceAllString(s, " ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return CanonicalizeQuotes(s)
}

// ForTypeDetection is Normalize followed by upper-casing.
func ForTypeDetection(s string) string {
	return strings.ToUpper(Normalize(s))
}

// CanonicalizeQuotes maps curly double quotes to the straight double quote.
func CanonicalizeQuotes(s string) string {
	return quoteReplacer.Replace(s)
}

// CollapseSpaces squeezes whitespace runs into one space and trims.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// Head returns the first n runes of s.
func Head(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Len counts runes, which is how every length guard in this module measures.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}
