package handlers

import (
	"github.com/feichai0017/legaldoc-extractor/internal/service/document"
	"github.com/feichai0017/legaldoc-extractor/internal/utils/validator"
	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
)

type Handlers struct {
	Document *DocumentHandler
}

func NewHandlers(
	documentService document.DocumentProcessor,
	v *validator.DocumentValidator,
	logger logger.Logger,
) *Handlers {
	return &Handlers{
		Document: NewDocumentHandler(documentService, v, logger),
	}
}
