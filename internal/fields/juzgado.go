package fields

import (
	"regexp"
	"strings"

	"github.com/feichai0017/legaldoc-extractor/internal/textnorm"
)

const (
	juzgadoMinLen = 10
	juzgadoMaxLen = 200
)

var (
	courtNumber    = regexp.MustCompile(`N\s?[°º]\s*\d+`)
	tribunalPrefix = regexp.MustCompile(`^TRIBUNAL\s*:\s*`)

	juzgadoTiers = []tier[string]{
		{
			name:      "tramita-ante",
			pattern:   regexp.MustCompile(`(?is)que\s+tramita\s+ante\s+(?:el\s+)?(juzgado.*?N\s?[°º]\s*\d+)`),
			transform: func(g []string) string { return cleanCourt(g[1]) },
			validate:  boundedCourt,
		},
		{
			name:    "tribunal",
			pattern: regexp.MustCompile(`(?s)(\bTRIBUNAL\b.*?)(?:\s-\s|(?i:sito\s+en))`),
			transform: func(g []string) string {
				c := g[1]
				if loc := courtNumber.FindStringIndex(c); loc != nil {
					c = c[:loc[1]]
				}
				c = cleanCourt(c)
				if stripped := tribunalPrefix.ReplaceAllString(c, ""); stripped != "" {
					c = stripped
				}
				return c
			},
			validate: func(c string) bool {
				n := textnorm.Len(c)
				return n > juzgadoMinLen && n < juzgadoMaxLen
			},
		},
		{
			name:      "juzgado-nacional",
			pattern:   regexp.MustCompile(`(?is)(juzgado\s+nacional.*?N\s?[°º]\s*\d+)`),
			transform: func(g []string) string { return cleanCourt(g[1]) },
			validate:  boundedCourt,
		},
	}
)

// Juzgado extracts the court handling the case, upper-cased.
func Juzgado(text string) (string, bool) {
	v, _, ok := firstMatch(text, juzgadoTiers)
	return v, ok
}

func cleanCourt(s string) string {
	s = textnorm.CollapseSpaces(s)
	s = strings.TrimRight(s, " ,;-")
	return strings.ToUpper(s)
}

func boundedCourt(c string) bool {
	n := textnorm.Len(c)
	return courtNumber.MatchString(c) && n > juzgadoMinLen && n < juzgadoMaxLen
}
