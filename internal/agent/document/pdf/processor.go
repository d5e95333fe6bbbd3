package pdf

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/feichai0017/legaldoc-extractor/internal/agent/document"
	"github.com/feichai0017/legaldoc-extractor/internal/models"
	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
)

// RunsProcessor concatenates positioned text runs page by page: runs are
// joined with single spaces and each page ends with a newline. All pages are read.
type RunsProcessor struct {
	logger logger.Logger
}

func NewRunsProcessor(log logger.Logger) *RunsProcessor {
	return &RunsProcessor{logger: log}
}

func (p *RunsProcessor) Source() models.Source {
	return models.SourcePDFRuns
}

func (p *RunsProcessor) Extract(ctx context.Context, data []byte) (text string, err error) {
	// The parser panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", &document.FormatError{Format: "pdf", Err: fmt.Errorf("parser panic: %v", r)}
		}
	}()

	r, err := open(data)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if !page.V.IsNull() {
			b.WriteString(strings.Join(textRuns(page.Content().Text), " "))
		}
		b.WriteByte('\n')
	}

	p.logger.Debug("PDF runs extracted",
		logger.Int("pages", numPages),
		logger.Int("chars", b.Len()),
	)
	return b.String(), nil
}

// TextLayerProcessor returns the embedded text layer: glyphs in content-stream
// order, a newline whenever the baseline moves and after every page. A PDF
// without a text layer yields an empty string; there is no OCR at this level.
type TextLayerProcessor struct {
	logger logger.Logger
}

func NewTextLayerProcessor(log logger.Logger) *TextLayerProcessor {
	return &TextLayerProcessor{logger: log}
}

func (p *TextLayerProcessor) Source() models.Source {
	return models.SourcePDFText
}

func (p *TextLayerProcessor) Extract(ctx context.Context, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", &document.FormatError{Format: "pdf", Err: fmt.Errorf("parser panic: %v", r)}
		}
	}()

	r, err := open(data)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		if lines := textLines(page.Content().Text); lines != "" {
			b.WriteString(lines)
			b.WriteByte('\n')
		}
	}

	p.logger.Debug("PDF text layer extracted",
		logger.Int("pages", numPages),
		logger.Int("chars", b.Len()),
	)
	return b.String(), nil
}

func open(data []byte) (*pdf.Reader, error) {
	if len(data) == 0 {
		return nil, &document.FormatError{Format: "pdf", Err: fmt.Errorf("empty content")}
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &document.FormatError{Format: "pdf", Err: err}
	}
	return r, nil
}

// textRuns groups per-glyph output back into runs: a run breaks on whitespace,
// on a baseline change or on a horizontal gap wider than a quarter em.
func textRuns(glyphs []pdf.Text) []string {
	var runs []string
	var current strings.Builder
	var prev *pdf.Text

	flush := func() {
		if current.Len() > 0 {
			runs = append(runs, current.String())
			current.Reset()
		}
	}

	for i := range glyphs {
		g := &glyphs[i]
		if strings.TrimFunc(g.S, unicode.IsSpace) == "" {
			flush()
			prev = nil
			continue
		}
		if prev != nil && breaksRun(prev, g) {
			flush()
		}
		current.WriteString(g.S)
		prev = g
	}
	flush()
	return runs
}

func breaksRun(prev, next *pdf.Text) bool {
	size := math.Max(prev.FontSize, 1)
	if math.Abs(next.Y-prev.Y) > size/2 {
		return true
	}
	gap := next.X - (prev.X + prev.W)
	return gap > size/4 || gap < -size
}

// textLines keeps glyph text as emitted and starts a new line whenever the
// baseline moves by more than half the font size.
func textLines(glyphs []pdf.Text) string {
	var b strings.Builder
	var prev *pdf.Text
	for i := range glyphs {
		g := &glyphs[i]
		if prev != nil && math.Abs(g.Y-prev.Y) > math.Max(prev.FontSize, 1)/2 {
			b.WriteByte('\n')
		}
		b.WriteString(g.S)
		prev = g
	}
	return b.String()
}
