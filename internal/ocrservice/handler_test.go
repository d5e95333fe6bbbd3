package ocrservice

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/legaldoc-extractor/internal/models"
	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
)

func newRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc, 1<<20, logger.NewTestLogger()).Register(r)
	return r
}

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHandler_Extract(t *testing.T) {
	svc := NewService(fakeNative{text: ocrPage1 + " " + ocrPage2}, &fakeRasterizer{}, fakeEngine{}, pages(1), Options{}, logger.NewTestLogger())
	router := newRouter(svc)

	body, ct := multipartBody(t, "file", "cedula.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Juzgado)
	assert.Equal(t, "native", string(resp.Debug.Method))
}

func TestHandler_Errors(t *testing.T) {
	invalid := func([]byte) (int, error) { return 0, errors.New("bad") }
	router := newRouter(NewService(fakeNative{}, &fakeRasterizer{}, fakeEngine{}, invalid, Options{}, logger.NewTestLogger()))

	t.Run("missing file", func(t *testing.T) {
		body, ct := multipartBody(t, "other", "a.pdf", []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/extract", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("corrupt pdf", func(t *testing.T) {
		body, ct := multipartBody(t, "file", "a.pdf", []byte("garbage"))
		req := httptest.NewRequest(http.MethodPost, "/extract", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "error")
	})

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
