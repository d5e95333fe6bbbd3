package fields

import (
	"github.com/feichai0017/legaldoc-extractor/internal/models"
)

// ExtractAll runs every extractor independently over normalized text. The
// filename is only consulted for the type when the text is empty.
func ExtractAll(text, filename string) models.Fields {
	var out models.Fields

	tipo, ok := DetectType(text)
	if !ok && text == "" {
		tipo, ok = DetectTypeFromFilename(filename)
	}
	if ok {
		out.Tipo = &tipo
	}
	if c, ok := Caratula(text); ok {
		out.Caratula = &c
	}
	if j, ok := Juzgado(text); ok {
		out.Juzgado = &j
	}
	if e, ok := Expediente(text); ok {
		out.Expediente = &e
	}
	return out
}
