package ocrservice

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/legaldoc-extractor/internal/models"
	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
)

type fakeNative struct {
	text string
	err  error
}

func (f fakeNative) Source() models.Source { return models.SourcePDFRuns }

func (f fakeNative) Extract(ctx context.Context, data []byte) (string, error) {
	return f.text, f.err
}

type fakeRasterizer struct {
	mu        sync.Mutex
	pages     int
	requested int
	err       error
}

func (f *fakeRasterizer) Rasterize(ctx context.Context, pdf []byte, maxPages int) ([][]byte, error) {
	f.mu.Lock()
	f.requested = maxPages
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	n := f.pages
	if n > maxPages {
		n = maxPages
	}
	out := make([][]byte, n)
	for i := range out {
		out[i] = []byte{byte(i)}
	}
	return out, nil
}

// fakeEngine returns pageTexts[page index] and fails for indexes in failing.
type fakeEngine struct {
	pageTexts []string
	failing   map[int]bool
}

func (f fakeEngine) Name() string { return "fake" }

func (f fakeEngine) Recognize(ctx context.Context, page []byte) (string, error) {
	i := int(page[0])
	if f.failing[i] {
		return "", errors.New("unreadable page")
	}
	return f.pageTexts[i], nil
}

func pages(n int) PageCounter {
	return func([]byte) (int, error) { return n, nil }
}

const ocrPage1 = `CEDULA DE NOTIFICACION
Expediente caratulado: "PEREZ JUAN C/ GOMEZ MARIA (HOY SUCESION) S/ DAÑOS"`

const ocrPage2 = `que tramita ante el Juzgado Nacional de Primera Instancia en lo Civil N° 45, sito en Talcahuano 550`

func TestExtract_OCRFallbackOnThinNativeText(t *testing.T) {
	native := strings.Repeat("x", 30)
	raster := &fakeRasterizer{pages: 2}
	engine := fakeEngine{pageTexts: []string{ocrPage1, ocrPage2}}

	log := logger.NewTestLogger()
	svc := NewService(fakeNative{text: native}, raster, engine, pages(2), Options{Workers: 2}, log)
	resp, err := svc.Extract(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, string(models.SourceOCR), extractedSource(t, log))

	require.NotNil(t, resp.Debug)
	assert.Equal(t, models.MethodOCR, resp.Debug.Method)
	assert.True(t, resp.Debug.OCRUsed)
	assert.Equal(t, 30, resp.Debug.NativeChars)
	assert.Equal(t, 2, resp.Debug.PagesOCR)
	assert.Equal(t, "fake", resp.Debug.Engine)
	assert.Equal(t, 2, raster.requested)

	require.NotNil(t, resp.Tipo)
	assert.Equal(t, models.Cedula, *resp.Tipo)
	require.NotNil(t, resp.Caratula)
	assert.Equal(t, "PEREZ JUAN C/ GOMEZ MARIA S/ DAÑOS", *resp.Caratula)
	require.NotNil(t, resp.Juzgado)
	assert.Equal(t, "JUZGADO NACIONAL DE PRIMERA INSTANCIA EN LO CIVIL N° 45", *resp.Juzgado)
	assert.True(t, strings.HasPrefix(resp.RawPreview, "CEDULA DE NOTIFICACION Expediente"))
	assert.Empty(t, resp.Error)
}

// extractedSource returns the source field of the "PDF extracted" entry.
func extractedSource(t *testing.T, log *logger.TestLogger) string {
	t.Helper()
	for _, e := range log.GetEntries() {
		if e.Message != "PDF extracted" {
			continue
		}
		for _, f := range e.Fields {
			if f.Key == "source" {
				return f.String
			}
		}
	}
	t.Fatal("no PDF extracted entry")
	return ""
}

func TestExtract_NativeTextIsEnough(t *testing.T) {
	raster := &fakeRasterizer{pages: 1}
	log := logger.NewTestLogger()
	svc := NewService(fakeNative{text: ocrPage1}, raster, fakeEngine{}, pages(1), Options{}, log)

	resp, err := svc.Extract(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, models.MethodNative, resp.Debug.Method)
	assert.Equal(t, string(models.SourcePDFRuns), extractedSource(t, log))
	assert.False(t, resp.Debug.OCRUsed)
	assert.Zero(t, raster.requested)
	require.NotNil(t, resp.Caratula)
}

func TestExtract_PageCap(t *testing.T) {
	texts := make([]string, 12)
	for i := range texts {
		texts[i] = "pagina"
	}
	raster := &fakeRasterizer{pages: 12}
	svc := NewService(fakeNative{}, raster, fakeEngine{pageTexts: texts}, pages(12), Options{}, logger.NewTestLogger())

	resp, err := svc.Extract(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, 5, raster.requested)
	assert.Equal(t, 5, resp.Debug.PagesOCR)
	assert.Equal(t, 12, resp.Debug.PagesTotal)
}

func TestExtract_PageOrderPreserved(t *testing.T) {
	engine := fakeEngine{pageTexts: []string{"uno", "dos", "tres", "cuatro"}}
	svc := NewService(fakeNative{}, &fakeRasterizer{pages: 4}, engine, pages(4), Options{Workers: 4}, logger.NewTestLogger())

	resp, err := svc.Extract(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "uno dos tres cuatro", resp.RawPreview)
}

func TestExtract_PartialPageFailure(t *testing.T) {
	engine := fakeEngine{pageTexts: []string{"uno", "", "tres"}, failing: map[int]bool{1: true}}
	log := logger.NewTestLogger()
	svc := NewService(fakeNative{}, &fakeRasterizer{pages: 3}, engine, pages(3), Options{}, log)

	resp, err := svc.Extract(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "uno tres", resp.RawPreview)
	assert.Equal(t, 1, log.CountLevel("WARN"))
}

func TestExtract_OCRUnavailable(t *testing.T) {
	raster := &fakeRasterizer{err: errors.New("pdftoppm not found")}

	t.Run("no native text", func(t *testing.T) {
		svc := NewService(fakeNative{}, raster, fakeEngine{}, pages(1), Options{}, logger.NewTestLogger())
		resp, err := svc.Extract(context.Background(), []byte("%PDF"))
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Error)
		assert.Nil(t, resp.Caratula)
		assert.Nil(t, resp.Juzgado)
		assert.Equal(t, models.MethodNative, resp.Debug.Method)
	})

	t.Run("thin native text kept", func(t *testing.T) {
		svc := NewService(fakeNative{text: "OFICIO breve"}, raster, fakeEngine{}, pages(1), Options{}, logger.NewTestLogger())
		resp, err := svc.Extract(context.Background(), []byte("%PDF"))
		require.NoError(t, err)
		assert.Empty(t, resp.Error)
		require.NotNil(t, resp.Tipo)
		assert.Equal(t, models.Oficio, *resp.Tipo)
	})
}

func TestExtract_InvalidPDF(t *testing.T) {
	counter := func([]byte) (int, error) { return 0, errors.New("xref missing") }
	svc := NewService(fakeNative{}, &fakeRasterizer{}, fakeEngine{}, counter, Options{}, logger.NewTestLogger())

	_, err := svc.Extract(context.Background(), []byte("garbage"))
	assert.ErrorIs(t, err, ErrInvalidPDF)
}

func TestPDFCPUPageCounter_RejectsGarbage(t *testing.T) {
	_, err := PDFCPUPageCounter([]byte("this is not a pdf"))
	assert.Error(t, err)
}
