package validator

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
)

func minimalDocx(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, _ = w.Write([]byte("<w:document/>"))
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestValidate(t *testing.T) {
	log := logger.NewTestLogger()
	v := NewDocumentValidator(log, nil)

	info, err := v.Validate("Cedula.PDF", []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj"))
	require.NoError(t, err)
	assert.Equal(t, ".pdf", info.Extension)
	assert.False(t, info.MimeMismatch)

	info, err = v.Validate("oficio.docx", minimalDocx(t))
	require.NoError(t, err)
	assert.False(t, info.MimeMismatch)

	info, err = v.Validate("renombrado.pdf", []byte("plain text, not a pdf"))
	require.NoError(t, err)
	assert.True(t, info.MimeMismatch)
	assert.Equal(t, 1, log.CountLevel("WARN"))
}

func TestValidate_Rejections(t *testing.T) {
	v := NewDocumentValidator(logger.NewTestLogger(), &ValidatorConfig{
		MaxFileSize:  8,
		AllowedTypes: DefaultConfig().AllowedTypes,
	})

	tests := []struct {
		name     string
		filename string
		data     []byte
		code     string
	}{
		{"empty", "a.pdf", nil, CodeEmptyFile},
		{"too large", "a.pdf", []byte("%PDF-1.4 more"), CodeFileTooLarge},
		{"extension", "a.png", []byte("\x89PNG"), CodeInvalidFileType},
		{"no extension", "archivo", []byte("x"), CodeInvalidFileType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(tt.filename, tt.data)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.code, ve.Code)
		})
	}
}

func TestValidateSize_AnyExtension(t *testing.T) {
	v := NewDocumentValidator(logger.NewTestLogger(), nil)
	info, err := v.ValidateSize("foto.png", []byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, err)
	assert.Equal(t, "image/png", info.MimeType)
}
