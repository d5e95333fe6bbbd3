package fields

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/feichai0017/legaldoc-extractor/internal/models"
)

func TestDetectType(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   models.DocumentType
		wantOK bool
	}{
		{"cedula phrase", "CÉDULA DE NOTIFICACIÓN Sr. Pérez", models.Cedula, true},
		{"lowercase cedula", "cedula de notificacion al domicilio", models.Cedula, true},
		{"cedula word", "Se libra la presente CEDULA al domicilio", models.Cedula, true},
		{"oficio", "OFICIO N° 123 al Banco Nación", models.Oficio, true},
		{"oficio lower", "Buenos Aires, 3 de marzo. oficio al registro", models.Oficio, true},
		{"both oficio wins", "CEDULA y OFICIO librados en autos", models.Oficio, true},
		{"plural is not a word match", "OFICIOS VARIOS y CEDULAS", "", false},
		{"neither", "Escrito de demanda", "", false},
		{"empty", "", "", false},
		{"whitespace", "  \n\t ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectType(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectType_Windows(t *testing.T) {
	// OFICIO past rune 200 no longer counts.
	late := "CEDULA " + strings.Repeat("x ", 150) + "OFICIO"
	got, ok := DetectType(late)
	assert.True(t, ok)
	assert.Equal(t, models.Cedula, got)

	// CEDULA past rune 500 is ignored.
	_, ok = DetectType(strings.Repeat("palabra ", 70) + "CEDULA")
	assert.False(t, ok)

	// Leading OFICIO is always honoured.
	got, ok = DetectType("OFICIO" + strings.Repeat(" y", 300))
	assert.True(t, ok)
	assert.Equal(t, models.Oficio, got)
}

func TestDetectType_OficioPriority(t *testing.T) {
	prefixes := []string{"", "Juzgado Civil. ", "Ref: "}
	for _, p := range prefixes {
		for _, text := range []string{
			p + "OFICIO librado junto a CEDULA",
			p + "CEDULA DE NOTIFICACION - OFICIO",
		} {
			got, ok := DetectType(text)
			assert.True(t, ok, text)
			assert.Equal(t, models.Oficio, got, text)
		}
	}
}

func TestDetectTypeFromFilename(t *testing.T) {
	tests := []struct {
		name   string
		want   models.DocumentType
		wantOK bool
	}{
		{"oficio_cedula_banco.pdf", models.Oficio, true},
		{"Cedula_123.docx", models.Cedula, true},
		{"cédula notificación.pdf", models.Cedula, true},
		{"OFICIO.DOC", models.Oficio, true},
		{"escrito.pdf", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DetectTypeFromFilename(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
