package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/legaldoc-extractor/internal/models"
	"github.com/feichai0017/legaldoc-extractor/internal/textnorm"
)

func TestExtractAll(t *testing.T) {
	raw := "CÉDULA DE NOTIFICACIÓN\r\n\r\nSe hace saber que en el Expediente caratulado: " +
		"“PEREZ C/ GOMEZ S/ DAÑOS”, Expte N° 105662/2025, que tramita ante el " +
		"Juzgado Nacional en lo Civil N° 17, sito en Talcahuano 490"

	got := ExtractAll(textnorm.Normalize(raw), "scan.pdf")

	require.NotNil(t, got.Tipo)
	assert.Equal(t, models.Cedula, *got.Tipo)
	require.NotNil(t, got.Caratula)
	assert.Equal(t, "PEREZ C/ GOMEZ S/ DAÑOS", *got.Caratula)
	require.NotNil(t, got.Juzgado)
	assert.Equal(t, "JUZGADO NACIONAL EN LO CIVIL N° 17", *got.Juzgado)
	require.NotNil(t, got.Expediente)
	assert.Equal(t, "105662/2025", got.Expediente.String())
}

func TestExtractAll_EmptyTextUsesFilename(t *testing.T) {
	got := ExtractAll("", "oficio_cedula_banco.pdf")

	require.NotNil(t, got.Tipo)
	assert.Equal(t, models.Oficio, *got.Tipo)
	assert.Nil(t, got.Caratula)
	assert.Nil(t, got.Juzgado)
	assert.Nil(t, got.Expediente)
}

func TestExtractAll_TextWithoutTypeIgnoresFilename(t *testing.T) {
	got := ExtractAll("Escrito de demanda", "oficio.pdf")
	assert.Nil(t, got.Tipo)
}
