// Package ocrservice is the PDF extraction microservice: native text first,
// page OCR when the native layer is too thin, then field derivation.
package ocrservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/sync/errgroup"

	"github.com/feichai0017/legaldoc-extractor/config"
	"github.com/feichai0017/legaldoc-extractor/internal/agent/document"
	"github.com/feichai0017/legaldoc-extractor/internal/fields"
	"github.com/feichai0017/legaldoc-extractor/internal/models"
	"github.com/feichai0017/legaldoc-extractor/internal/textnorm"
	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
)

// ErrInvalidPDF is returned when the upload cannot be parsed as a PDF at all.
var ErrInvalidPDF = errors.New("invalid pdf")

// OCREngine recognizes the text of one rendered page.
type OCREngine interface {
	Name() string
	Recognize(ctx context.Context, page []byte) (string, error)
}

// Rasterizer renders the first maxPages pages as images, in page order.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdf []byte, maxPages int) ([][]byte, error)
}

// PageCounter validates a PDF and returns its page count.
type PageCounter func(data []byte) (int, error)

// PDFCPUPageCounter validates with pdfcpu in relaxed mode.
func PDFCPUPageCounter(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.PageCount(bytes.NewReader(data), conf)
}

type Options struct {
	MaxPages      int
	MinTextLength int
	PreviewLength int
	Workers       int
}

func OptionsFromConfig(cfg *config.OCRServiceConfig) Options {
	return Options{
		MaxPages:      cfg.MaxPages,
		MinTextLength: cfg.MinTextLength,
		PreviewLength: cfg.PreviewLength,
		Workers:       cfg.Workers,
	}
}

type Service struct {
	native     document.Processor
	rasterizer Rasterizer
	engine     OCREngine
	countPages PageCounter
	opts       Options
	logger     logger.Logger
}

func NewService(native document.Processor, rasterizer Rasterizer, engine OCREngine, countPages PageCounter, opts Options, log logger.Logger) *Service {
	if opts.MaxPages <= 0 {
		opts.MaxPages = 5
	}
	if opts.MinTextLength <= 0 {
		opts.MinTextLength = 50
	}
	if opts.PreviewLength <= 0 {
		opts.PreviewLength = 500
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if countPages == nil {
		countPages = PDFCPUPageCounter
	}
	return &Service{
		native:     native,
		rasterizer: rasterizer,
		engine:     engine,
		countPages: countPages,
		opts:       opts,
		logger:     log,
	}
}

// Extract returns ErrInvalidPDF for unparseable input. Every other failure is
// reported inside the response so callers can keep going.
func (s *Service) Extract(ctx context.Context, data []byte) (*models.ExtractResponse, error) {
	log := logger.FromContext(ctx, s.logger)
	start := time.Now()

	pagesTotal, err := s.countPages(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}

	native, err := s.native.Extract(ctx, data)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Warn("Native extraction failed", logger.Error(err))
		native = ""
	}

	debug := &models.ExtractDebug{
		Method:      models.MethodNative,
		NativeChars: textnorm.Len(strings.TrimSpace(native)),
		PagesTotal:  pagesTotal,
	}
	text := native
	source := s.native.Source()
	var softErr string

	if debug.NativeChars < s.opts.MinTextLength {
		ocrText, pages, err := s.ocr(ctx, data, pagesTotal)
		switch {
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			log.Warn("OCR fallback failed", logger.Error(err))
			if debug.NativeChars == 0 {
				softErr = "No se pudo extraer texto del PDF."
			}
		default:
			text = ocrText
			source = models.SourceOCR
			debug.Method = models.MethodOCR
			debug.OCRUsed = true
			debug.PagesOCR = pages
			debug.Engine = s.engine.Name()
		}
	}

	normalized := textnorm.Normalize(text)
	resp := &models.ExtractResponse{
		RawPreview: textnorm.Head(normalized, s.opts.PreviewLength),
		Error:      softErr,
		Debug:      debug,
	}

	tipo, ok := fields.DetectType(normalized)
	if ok {
		resp.Tipo = &tipo
	}
	if c, ok := fields.CaratulaStrict(normalized, tipo); ok {
		resp.Caratula = &c
	}
	if j, ok := fields.Juzgado(normalized); ok {
		resp.Juzgado = &j
	}

	log.Info("PDF extracted",
		logger.String("method", string(debug.Method)),
		logger.String("source", string(source)),
		logger.Int("native_chars", debug.NativeChars),
		logger.Int("pages_total", debug.PagesTotal),
		logger.Int("pages_ocr", debug.PagesOCR),
		logger.Bool("caratula", resp.Caratula != nil),
		logger.Bool("juzgado", resp.Juzgado != nil),
		logger.Duration("duration", time.Since(start)),
	)
	return resp, nil
}

// ocr rasterizes up to MaxPages pages and recognizes them concurrently. A page
// that fails contributes no text; the call fails only if every page does.
func (s *Service) ocr(ctx context.Context, data []byte, pagesTotal int) (string, int, error) {
	limit := s.opts.MaxPages
	if pagesTotal > 0 && pagesTotal < limit {
		limit = pagesTotal
	}

	images, err := s.rasterizer.Rasterize(ctx, data, limit)
	if err != nil {
		return "", 0, fmt.Errorf("failed to rasterize: %w", err)
	}
	if len(images) > limit {
		images = images[:limit]
	}

	texts := make([]string, len(images))
	var failed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, img := range images {
		i, img := i, img
		g.Go(func() error {
			text, err := s.engine.Recognize(gctx, img)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failed.Add(1)
				s.logger.Warn("Page OCR failed", logger.Int("page", i+1), logger.Error(err))
				return nil
			}
			texts[i] = strings.TrimSpace(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", 0, err
	}
	if len(images) == 0 || int(failed.Load()) == len(images) {
		return "", 0, fmt.Errorf("no page could be recognized")
	}

	return strings.Join(texts, "\n"), len(images), nil
}
