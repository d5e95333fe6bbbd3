package document

import (
	"context"

	"github.com/feichai0017/legaldoc-extractor/internal/models"
	"github.com/feichai0017/legaldoc-extractor/pkg/converters"
)

// DocumentProcessor is the extraction boundary used by the HTTP handlers and the worker.
type DocumentProcessor interface {
	Resolve(ctx context.Context, req ResolveRequest) (*models.SourceDocument, error)

	DetectType(ctx context.Context, doc *models.SourceDocument) converters.TypeResponse
	ExtractCaratula(ctx context.Context, doc *models.SourceDocument) (converters.CaratulaResponse, error)
	ExtractJuzgado(ctx context.Context, doc *models.SourceDocument) (converters.JuzgadoResponse, error)
	ExtractExpediente(ctx context.Context, doc *models.SourceDocument) (converters.ExpedienteResponse, error)
	ExtractPDF(ctx context.Context, doc *models.SourceDocument) (models.ProxyResponse, error)

	SubmitJob(ctx context.Context, path, filename string) (*models.JobResult, error)
	JobStatus(ctx context.Context, taskID string) (*models.JobResult, error)
	HandleJob(ctx context.Context, job *models.ExtractionJob) error
}

// ResolveRequest names a document either by its bytes or by a storage path.
type ResolveRequest struct {
	Data     []byte
	Filename string
	Path     string
}

var _ DocumentProcessor = (*DocumentService)(nil)
