// Package tesseract wraps gosseract, which needs cgo and the tesseract
// libraries at build time. It is kept apart so the rest of the image package
// builds without them.
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/feichai0017/legaldoc-extractor/internal/agent/document/image"
	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
)

type Options struct {
	Language    string
	PageSegMode gosseract.PageSegMode
	Preprocess  image.PreprocessConfig
}

func DefaultOptions() Options {
	return Options{
		Language:    "spa",
		PageSegMode: gosseract.PSM_AUTO,
		Preprocess:  image.DefaultPreprocessConfig(),
	}
}

// Engine runs Tesseract on preprocessed page images.
type Engine struct {
	opts   Options
	steps  []image.Preprocessor
	logger logger.Logger
}

func NewEngine(opts Options, log logger.Logger) *Engine {
	if opts.Language == "" {
		opts.Language = "spa"
	}
	return &Engine{
		opts:   opts,
		steps:  image.NewPipeline(opts.Preprocess),
		logger: log,
	}
}

func (e *Engine) Name() string {
	return "tesseract"
}

// Recognize creates a client per call; gosseract clients are not safe for
// concurrent use and pages are recognized in parallel.
func (e *Engine) Recognize(ctx context.Context, page []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	prepared, err := image.Preprocess(page, e.steps)
	if err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.opts.Language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(e.opts.PageSegMode); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(prepared); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to get text: %w", err)
	}

	e.logger.Debug("Tesseract page recognized", logger.Int("chars", len(text)))
	return text, nil
}
