package ocrclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/feichai0017/legaldoc-extractor/config"
	"github.com/feichai0017/legaldoc-extractor/internal/models"
	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
)

const maxErrorBody = 512

// Client forwards PDFs to the extraction microservice. One attempt per call.
type Client struct {
	endpoint string
	timeout  time.Duration
	http     *http.Client
	logger   logger.Logger
}

func NewClient(cfg *config.OCRClientConfig, log logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: strings.TrimRight(cfg.URL, "/") + "/extract",
		timeout:  timeout,
		http:     &http.Client{},
		logger:   log,
	}
}

// ExtractPDF posts data as multipart field "file". Errors are one of ErrTimeout,
// *NetworkError, *UpstreamStatusError or ErrDecode.
func (c *Client) ExtractPDF(ctx context.Context, filename string, data []byte) (*models.ExtractResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if id := logger.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, ErrTimeout
		}
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &UpstreamStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	var result models.ExtractResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if isTimeout(ctx, err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	logger.FromContext(ctx, c.logger).Debug("Extraction service answered",
		logger.String("filename", filename),
		logger.Duration("duration", time.Since(start)),
	)
	return &result, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
