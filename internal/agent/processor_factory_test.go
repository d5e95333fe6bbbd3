package agent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/legaldoc-extractor/internal/agent/document"
	"github.com/feichai0017/legaldoc-extractor/internal/models"
	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
)

func TestProcessorFactory_GetProcessor(t *testing.T) {
	f := NewProcessorFactory(logger.NewTestLogger())

	tests := []struct {
		filename string
		purpose  Purpose
		want     models.Source
	}{
		{"cedula.docx", PurposeFields, models.SourceDOCX},
		{"OFICIO.DOC", PurposeFields, models.SourceDOCX},
		{"cedula.pdf", PurposeFields, models.SourcePDFRuns},
		{"cedula.Pdf", PurposeExpediente, models.SourcePDFText},
		{"oficio.docx", PurposeExpediente, models.SourceDOCX},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			p, err := f.GetProcessor(tt.filename, tt.purpose)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Source())
		})
	}
}

func TestProcessorFactory_Unsupported(t *testing.T) {
	f := NewProcessorFactory(logger.NewTestLogger())

	for _, name := range []string{"scan.png", "notas.txt", ""} {
		_, err := f.GetProcessor(name, PurposeFields)
		assert.True(t, errors.Is(err, document.ErrUnsupportedFormat), name)
	}
}
