package fields

import (
	"regexp"
	"strings"

	"github.com/feichai0017/legaldoc-extractor/internal/models"
	"github.com/feichai0017/legaldoc-extractor/internal/textnorm"
)

const (
	quoteChars        = "\"“”„‟"
	minLitigantSpan   = 15
	caratulaTierQuote = "quoted"
	caratulaTierPlain = "unquoted"
)

var (
	caratulaTrigger = regexp.MustCompile(`(?i)expediente\s+caratulado\s*:`)

	caratulaTiers = []tier[string]{
		{
			name:    caratulaTierQuote,
			pattern: regexp.MustCompile(`(?is)expediente\s+caratulado\s*:\s*["\x{201C}-\x{201F}](.*?)["\x{201C}-\x{201F}]`),
			transform: func(g []string) string {
				return textnorm.CollapseSpaces(g[1])
			},
			validate: nonEmpty,
			final:    true,
		},
		{
			name:    caratulaTierPlain,
			pattern: regexp.MustCompile(`(?i)expediente\s+caratulado\s*:\s*(.+?)(?:\.|\n|\s{2,}|$)`),
			transform: func(g []string) string {
				return textnorm.CollapseSpaces(strings.Trim(g[1], " \t"+quoteChars))
			},
			validate: nonEmpty,
		},
	}

	quotedSpan    = regexp.MustCompile(`"([^"]+)"`)
	litigantSep   = regexp.MustCompile(`(?i)\s[CS]/\s`)
	parenthetical = regexp.MustCompile(`\([^()]*\)`)
)

// Caratula extracts the case caption that follows "Expediente caratulado:".
// This is the rule set used by the inline extraction endpoints.
func Caratula(text string) (string, bool) {
	v, _, ok := firstMatch(text, caratulaTiers)
	return v, ok
}

// CaratulaStrict is the microservice rule set: on top of Caratula it accepts,
// for oficios without the trigger phrase, the first quoted span naming
// litigants (" C/ " or " S/ "), strips parenthesized sub-spans and upper-cases.
func CaratulaStrict(text string, tipo models.DocumentType) (string, bool) {
	c, ok := Caratula(text)
	if !ok && tipo == models.Oficio && !caratulaTrigger.MatchString(text) {
		c, ok = quotedLitigants(text)
	}
	if !ok {
		return "", false
	}

	for parenthetical.MatchString(c) {
		c = parenthetical.ReplaceAllString(c, "")
	}
	c = strings.ToUpper(textnorm.CollapseSpaces(c))
	return c, c != ""
}

func quotedLitigants(text string) (string, bool) {
	for _, m := range quotedSpan.FindAllStringSubmatch(textnorm.CanonicalizeQuotes(text), -1) {
		span := textnorm.CollapseSpaces(m[1])
		if textnorm.Len(span) > minLitigantSpan && litigantSep.MatchString(span) {
			return span, true
		}
	}
	return "", false
}
