package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/legaldoc-extractor/internal/agent/document"
	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
)

func buildDocx(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const body = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>CEDULA DE NOTIFICACION</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Expediente caratulado: </w:t></w:r><w:r><w:t>"PEREZ C/ GOMEZ"</w:t></w:r></w:p>
<w:tbl><w:tr><w:tc><w:p><w:r><w:t>celda</w:t><w:tab/><w:t>dos</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
<w:p><w:r><w:instrText>PAGE</w:instrText><w:t>linea</w:t><w:br/><w:t>siguiente</w:t></w:r></w:p>
</w:body>
</w:document>`

func TestProcessor_Extract(t *testing.T) {
	data := buildDocx(t, map[string]string{
		"word/document.xml": body,
		"word/header1.xml":  `<w:hdr xmlns:w="x"><w:p><w:r><w:t>ENCABEZADO</w:t></w:r></w:p></w:hdr>`,
	})

	p := NewProcessor(logger.NewTestLogger())
	text, err := p.Extract(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t,
		"CEDULA DE NOTIFICACION\nExpediente caratulado: \"PEREZ C/ GOMEZ\"\ncelda\tdos\nlinea\nsiguiente",
		text)
	assert.NotContains(t, text, "ENCABEZADO")
	assert.NotContains(t, text, "PAGE")
}

func TestProcessor_FormatErrors(t *testing.T) {
	p := NewProcessor(logger.NewTestLogger())

	tests := []struct {
		name string
		data []byte
	}{
		{"not a zip", []byte("\xd0\xcf\x11\xe0 legacy doc")},
		{"missing main part", buildDocx(t, map[string]string{"word/styles.xml": "<x/>"})},
		{"broken xml", buildDocx(t, map[string]string{"word/document.xml": "<w:document><w:p>"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Extract(context.Background(), tt.data)
			var fe *document.FormatError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, "docx", fe.Format)
		})
	}
}

func TestProcessor_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProcessor(logger.NewTestLogger()).Extract(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
