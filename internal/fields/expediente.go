package fields

import (
	"regexp"
	"strconv"

	"github.com/feichai0017/legaldoc-extractor/internal/models"
)

const (
	minYear          = 1900
	maxYear          = 2100
	bareNumberWindow = 500
)

var expedienteTiers = []tier[models.ExpedienteRef]{
	{
		name:      "expte-numero",
		pattern:   regexp.MustCompile(`(?i)\bexpte\.?\s*n\s?[°º]\s*(\d+)\s*/\s*(\d{4})\b`),
		transform: toExpediente,
		validate:  validYear,
	},
	{
		name:      "keyword",
		pattern:   regexp.MustCompile(`(?i)\b(?:expediente|expte\.?|exp\.)\s*(?:n\s?[°º.]|[°º])?\s*(\d+)\s*/\s*(\d{4})\b`),
		transform: toExpediente,
		validate:  validYear,
	},
	{
		name:      "bare",
		pattern:   regexp.MustCompile(`\b(\d{4,6})/(\d{4})\b`),
		window:    bareNumberWindow,
		transform: toExpediente,
		validate:  validYear,
	},
}

// Expediente extracts the docket number and year. A tier whose first match has
// a year outside [1900, 2100] is skipped in favour of the next one.
func Expediente(text string) (models.ExpedienteRef, bool) {
	v, _, ok := firstMatch(text, expedienteTiers)
	return v, ok
}

func toExpediente(g []string) models.ExpedienteRef {
	anio, err := strconv.Atoi(g[2])
	if err != nil {
		anio = 0
	}
	return models.ExpedienteRef{Numero: g[1], Anio: anio}
}

func validYear(e models.ExpedienteRef) bool {
	return e.Anio >= minYear && e.Anio <= maxYear
}
