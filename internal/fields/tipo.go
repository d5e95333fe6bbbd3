package fields

import (
	"regexp"
	"strings"

	"github.com/feichai0017/legaldoc-extractor/internal/models"
	"github.com/feichai0017/legaldoc-extractor/internal/textnorm"
)

const (
	cedulaWindow = 500
	oficioWindow = 200
)

var (
	cedulaWord   = regexp.MustCompile(`\bC[EÉ]DULA\b`)
	cedulaPhrase = regexp.MustCompile(`C[EÉ]DULA DE NOTIFICACI[OÓ]N`)
	oficioWord   = regexp.MustCompile(`\bOFICIO\b`)
)

// DetectType classifies text as OFICIO or CEDULA. OFICIO wins when both match;
// a leading OFICIO always falls inside the OFICIO window.
func DetectType(text string) (models.DocumentType, bool) {
	upper := textnorm.ForTypeDetection(text)
	if upper == "" {
		return "", false
	}

	head := textnorm.Head(upper, cedulaWindow)
	isCedula := cedulaWord.MatchString(head) || cedulaPhrase.MatchString(head)
	isOficio := oficioWord.MatchString(textnorm.Head(upper, oficioWindow))

	switch {
	case isOficio:
		return models.Oficio, true
	case isCedula:
		return models.Cedula, true
	default:
		return "", false
	}
}

// DetectTypeFromFilename is the fallback used when no text could be read.
func DetectTypeFromFilename(name string) (models.DocumentType, bool) {
	upper := textnorm.ForTypeDetection(name)
	switch {
	case strings.Contains(upper, "OFICIO"):
		return models.Oficio, true
	case strings.Contains(upper, "CEDULA"), strings.Contains(upper, "CÉDULA"):
		return models.Cedula, true
	default:
		return "", false
	}
}
