package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/feichai0017/legaldoc-extractor/config"
	"github.com/feichai0017/legaldoc-extractor/internal/agent"
	"github.com/feichai0017/legaldoc-extractor/internal/agent/document"
	"github.com/feichai0017/legaldoc-extractor/internal/fields"
	"github.com/feichai0017/legaldoc-extractor/internal/models"
	"github.com/feichai0017/legaldoc-extractor/internal/ocrclient"
	"github.com/feichai0017/legaldoc-extractor/internal/textnorm"
	"github.com/feichai0017/legaldoc-extractor/pkg/converters"
	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
	"github.com/feichai0017/legaldoc-extractor/pkg/queue"
	"github.com/feichai0017/legaldoc-extractor/pkg/storage"
)

// ErrMissingDocument means the request carried neither a file nor a path.
var ErrMissingDocument = errors.New("no file or path provided")

// ProcessorSource picks an acquisition backend for a filename.
type ProcessorSource interface {
	GetProcessor(filename string, purpose agent.Purpose) (document.Processor, error)
}

// PDFExtractor is the extraction microservice client.
type PDFExtractor interface {
	ExtractPDF(ctx context.Context, filename string, data []byte) (*models.ExtractResponse, error)
}

type ServiceConfig struct {
	MaxFileSize int64
}

type DocumentService struct {
	processors ProcessorSource
	ocr        PDFExtractor
	queue      queue.Queue
	storage    storage.Storage
	logger     logger.Logger
	config     *ServiceConfig
	now        func() time.Time
}

func NewService(
	processors ProcessorSource,
	ocr PDFExtractor,
	q queue.Queue,
	store storage.Storage,
	log logger.Logger,
	cfg *ServiceConfig,
) *DocumentService {
	if cfg == nil {
		cfg = &ServiceConfig{MaxFileSize: 20 << 20}
	}
	if store == nil {
		store = storage.Disabled{}
	}
	return &DocumentService{
		processors: processors,
		ocr:        ocr,
		queue:      q,
		storage:    store,
		logger:     log,
		config:     cfg,
		now:        time.Now,
	}
}

// GetService wires the service from environment configuration.
func GetService(ctx context.Context, log logger.Logger, maxFileSize int64) (*DocumentService, error) {
	store, err := storage.NewStorage(ctx, config.GetStorageConfig(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	q := queue.NewAsynqQueue(config.GetRedisConfig())
	ocr := ocrclient.NewClient(config.GetOCRClientConfig(), log)

	return NewService(agent.NewProcessorFactory(log), ocr, q, store, log, &ServiceConfig{MaxFileSize: maxFileSize}), nil
}

func (s *DocumentService) Resolve(ctx context.Context, req ResolveRequest) (*models.SourceDocument, error) {
	switch {
	case len(req.Data) > 0:
		return &models.SourceDocument{
			Data:     req.Data,
			Filename: req.Filename,
			MimeType: mimetype.Detect(req.Data).String(),
		}, nil
	case strings.TrimSpace(req.Path) == "" && req.Filename != "":
		// An empty upload still carries a filename to classify.
		return &models.SourceDocument{Filename: req.Filename}, nil
	case strings.TrimSpace(req.Path) != "":
		data, err := storage.ReadAll(ctx, s.storage, req.Path, s.config.MaxFileSize)
		if err != nil {
			return nil, err
		}
		filename := req.Filename
		if filename == "" {
			filename = path.Base(req.Path)
		}
		return &models.SourceDocument{
			Data:     data,
			Filename: filename,
			MimeType: mimetype.Detect(data).String(),
		}, nil
	default:
		return nil, ErrMissingDocument
	}
}

// acquire returns normalized text. Errors wrap either document.ErrUnsupportedFormat
// or document.ErrAcquisition.
func (s *DocumentService) acquire(ctx context.Context, doc *models.SourceDocument, purpose agent.Purpose) (string, models.Source, error) {
	p, err := s.processors.GetProcessor(doc.Filename, purpose)
	if err != nil {
		return "", "", err
	}

	raw, err := p.Extract(ctx, doc.Data)
	if err != nil {
		return "", p.Source(), fmt.Errorf("%w: %w", document.ErrAcquisition, err)
	}
	return textnorm.Normalize(raw), p.Source(), nil
}

// DetectType never fails: unsupported extensions, unreadable or textless
// documents fall back to the filename.
func (s *DocumentService) DetectType(ctx context.Context, doc *models.SourceDocument) converters.TypeResponse {
	log := logger.FromContext(ctx, s.logger).With(logger.String("filename", doc.Filename))

	text, source, err := s.acquire(ctx, doc, agent.PurposeFields)
	switch {
	case errors.Is(err, document.ErrUnsupportedFormat):
		log.Debug("Unsupported extension, using filename")
	case err != nil:
		log.Warn("Text acquisition failed, using filename", logger.Error(err))
	case text != "":
		tipo, ok := fields.DetectType(text)
		log.Debug("Type detected from text",
			logger.String("source", string(source)),
			logger.Bool("found", ok),
		)
		if !ok {
			return converters.TypeResponse{}
		}
		return converters.TypeResponse{Tipo: &tipo}
	}

	tipo, ok := fields.DetectTypeFromFilename(doc.Filename)
	log.Debug("Type detected",
		logger.String("source", string(models.SourceFilename)),
		logger.Bool("found", ok),
	)
	if !ok {
		return converters.TypeResponse{}
	}
	return converters.TypeResponse{Tipo: &tipo}
}

func (s *DocumentService) ExtractCaratula(ctx context.Context, doc *models.SourceDocument) (converters.CaratulaResponse, error) {
	text, ok, err := s.softText(ctx, doc, "caratula")
	if err != nil || !ok {
		return converters.CaratulaResponse{}, err
	}
	if c, found := fields.Caratula(text); found {
		return converters.CaratulaResponse{Caratula: &c}, nil
	}
	return converters.CaratulaResponse{}, nil
}

func (s *DocumentService) ExtractJuzgado(ctx context.Context, doc *models.SourceDocument) (converters.JuzgadoResponse, error) {
	text, ok, err := s.softText(ctx, doc, "juzgado")
	if err != nil || !ok {
		return converters.JuzgadoResponse{}, err
	}
	if j, found := fields.Juzgado(text); found {
		return converters.JuzgadoResponse{Juzgado: &j}, nil
	}
	return converters.JuzgadoResponse{}, nil
}

// softText only fails for unsupported extensions. An unreadable file gives
// ok=false so the field comes back null.
func (s *DocumentService) softText(ctx context.Context, doc *models.SourceDocument, field string) (string, bool, error) {
	text, _, err := s.acquire(ctx, doc, agent.PurposeFields)
	if errors.Is(err, document.ErrUnsupportedFormat) {
		return "", false, err
	}
	if err != nil {
		logger.FromContext(ctx, s.logger).Warn("Text acquisition failed",
			logger.String("field", field),
			logger.String("filename", doc.Filename),
			logger.Error(err),
		)
		return "", false, nil
	}
	return text, true, nil
}

// ExtractExpediente reads the PDF text layer. Acquisition failures are
// returned as errors: this flow has no manual fallback.
func (s *DocumentService) ExtractExpediente(ctx context.Context, doc *models.SourceDocument) (converters.ExpedienteResponse, error) {
	text, _, err := s.acquire(ctx, doc, agent.PurposeExpediente)
	if err != nil {
		if errors.Is(err, document.ErrAcquisition) {
			logger.FromContext(ctx, s.logger).Warn("Text acquisition failed",
				logger.String("field", "expediente"),
				logger.String("filename", doc.Filename),
				logger.Error(err),
			)
		}
		return converters.ExpedienteResponse{}, err
	}

	ref, ok := fields.Expediente(text)
	if !ok {
		return converters.ExpedienteResponse{}, nil
	}
	return converters.ToExpedienteResponse(&ref), nil
}

// ExtractPDF forwards to the microservice. Only a non-PDF filename is an error;
// every upstream failure becomes null fields plus a message.
func (s *DocumentService) ExtractPDF(ctx context.Context, doc *models.SourceDocument) (models.ProxyResponse, error) {
	if document.FormatOf(doc.Filename) != document.FormatPDF {
		return models.ProxyResponse{}, fmt.Errorf("%w: %q is not a PDF", document.ErrUnsupportedFormat, doc.Filename)
	}

	result, err := s.ocr.ExtractPDF(ctx, doc.Filename, doc.Data)
	if err != nil {
		logger.FromContext(ctx, s.logger).Warn("Extraction service call failed",
			logger.String("filename", doc.Filename),
			logger.Error(err),
		)
	}
	return ocrclient.ToResponse(result, err), nil
}

func (s *DocumentService) SubmitJob(ctx context.Context, storagePath, filename string) (*models.JobResult, error) {
	if strings.TrimSpace(storagePath) == "" {
		return nil, ErrMissingDocument
	}
	if _, disabled := s.storage.(storage.Disabled); disabled {
		return nil, storage.ErrDisabled
	}
	if filename == "" {
		filename = path.Base(storagePath)
	}
	if document.FormatOf(filename) == document.FormatUnknown {
		return nil, fmt.Errorf("%w: %q", document.ErrUnsupportedFormat, filename)
	}

	now := s.now()
	job := &models.ExtractionJob{
		ID:        uuid.NewString(),
		Path:      storagePath,
		Filename:  filename,
		CreatedAt: now,
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	result := &models.JobResult{TaskID: job.ID, Status: models.JobPending, StartedAt: now}
	if err := s.queue.SaveStatus(ctx, result); err != nil {
		s.logger.Error("Failed to save initial status",
			logger.String("taskId", job.ID),
			logger.Error(err),
		)
	}

	s.logger.Info("Extraction job submitted",
		logger.String("taskId", job.ID),
		logger.String("path", storagePath),
	)
	return result, nil
}

func (s *DocumentService) JobStatus(ctx context.Context, taskID string) (*models.JobResult, error) {
	result, err := s.queue.GetStatus(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job status: %w", err)
	}
	return result, nil
}

// Close releases the queue's connections when it holds any.
func (s *DocumentService) Close() error {
	if c, ok := s.queue.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// HandleJob runs every extractor over a stored document and records the outcome.
// The returned error is what the queue sees; the saved status is what clients see.
func (s *DocumentService) HandleJob(ctx context.Context, job *models.ExtractionJob) error {
	log := s.logger.With(logger.String("taskId", job.ID), logger.String("path", job.Path))
	result := &models.JobResult{TaskID: job.ID, Status: models.JobRunning, StartedAt: s.now()}
	s.saveStatus(ctx, log, result)

	fail := func(err error) error {
		result.Status = models.JobFailed
		result.Error = err.Error()
		result.FinishedAt = s.now()
		s.saveStatus(ctx, log, result)
		log.Error("Extraction job failed", logger.Error(err))
		return err
	}

	doc, err := s.Resolve(ctx, ResolveRequest{Path: job.Path, Filename: job.Filename})
	if err != nil {
		return fail(err)
	}

	text, source, err := s.acquire(ctx, doc, agent.PurposeFields)
	switch {
	case errors.Is(err, document.ErrUnsupportedFormat):
		return fail(err)
	case err != nil:
		log.Warn("Text acquisition failed", logger.Error(err))
		result.Error = "no se pudo leer el texto del documento"
		source = models.SourceFilename
	}
	result.Source = source

	extracted := fields.ExtractAll(text, doc.Filename)
	if document.FormatOf(doc.Filename) == document.FormatPDF {
		layer, _, err := s.acquire(ctx, doc, agent.PurposeExpediente)
		if err == nil {
			if ref, ok := fields.Expediente(layer); ok {
				extracted.Expediente = &ref
			}
		}
	}

	result.Status = models.JobCompleted
	result.Fields = &extracted
	result.FinishedAt = s.now()
	s.saveStatus(ctx, log, result)

	log.Info("Extraction job completed",
		logger.Bool("tipo", extracted.Tipo != nil),
		logger.Bool("caratula", extracted.Caratula != nil),
		logger.Bool("juzgado", extracted.Juzgado != nil),
		logger.Bool("expediente", extracted.Expediente != nil),
	)
	return nil
}

func (s *DocumentService) saveStatus(ctx context.Context, log logger.Logger, result *models.JobResult) {
	if err := s.queue.SaveStatus(ctx, result); err != nil {
		log.Error("Failed to save job status", logger.Error(err))
	}
}
