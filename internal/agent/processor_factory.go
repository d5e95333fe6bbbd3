package agent

import (
	"fmt"

	"github.com/feichai0017/legaldoc-extractor/internal/agent/document"
	"github.com/feichai0017/legaldoc-extractor/internal/agent/document/docx"
	"github.com/feichai0017/legaldoc-extractor/internal/agent/document/pdf"
	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
)

// Purpose selects between the PDF backends.
type Purpose int

const (
	// PurposeFields feeds type, carátula and juzgado detection from text runs.
	PurposeFields Purpose = iota
	// PurposeExpediente reads the embedded text layer.
	PurposeExpediente
)

type ProcessorFactory struct {
	docx    document.Processor
	pdfRuns document.Processor
	pdfText document.Processor
	logger  logger.Logger
}

func NewProcessorFactory(log logger.Logger) *ProcessorFactory {
	return &ProcessorFactory{
		docx:    docx.NewProcessor(log),
		pdfRuns: pdf.NewRunsProcessor(log),
		pdfText: pdf.NewTextLayerProcessor(log),
		logger:  log,
	}
}

// GetProcessor picks a backend from the filename suffix.
func (f *ProcessorFactory) GetProcessor(filename string, purpose Purpose) (document.Processor, error) {
	var p document.Processor
	switch document.FormatOf(filename) {
	case document.FormatDOCX:
		p = f.docx
	case document.FormatPDF:
		if purpose == PurposeExpediente {
			p = f.pdfText
		} else {
			p = f.pdfRuns
		}
	default:
		return nil, fmt.Errorf("%w: %q", document.ErrUnsupportedFormat, filename)
	}

	f.logger.Debug("Processor selected",
		logger.String("filename", filename),
		logger.String("source", string(p.Source())),
	)
	return p, nil
}
