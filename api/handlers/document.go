package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/legaldoc-extractor/internal/agent/document"
	"github.com/feichai0017/legaldoc-extractor/internal/models"
	docservice "github.com/feichai0017/legaldoc-extractor/internal/service/document"
	"github.com/feichai0017/legaldoc-extractor/internal/utils/validator"
	"github.com/feichai0017/legaldoc-extractor/pkg/converters"
	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
	"github.com/feichai0017/legaldoc-extractor/pkg/queue"
	"github.com/feichai0017/legaldoc-extractor/pkg/storage"
)

type DocumentHandler struct {
	service   docservice.DocumentProcessor
	validator *validator.DocumentValidator
	logger    logger.Logger
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type SubmitRequest struct {
	Path     string `json:"path" binding:"required"`
	Filename string `json:"filename"`
}

type SubmitResponse struct {
	TaskID string `json:"taskId"`
	Status string `json:"status"`
}

func NewDocumentHandler(service docservice.DocumentProcessor, v *validator.DocumentValidator, log logger.Logger) *DocumentHandler {
	return &DocumentHandler{
		service:   service,
		validator: v,
		logger:    log,
	}
}

// DetectType accepts any extension and empty files; both are classified by filename.
func (h *DocumentHandler) DetectType(c *gin.Context) {
	doc, ok := h.readDocument(c, false, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.service.DetectType(c.Request.Context(), doc))
}

func (h *DocumentHandler) ExtractCaratula(c *gin.Context) {
	doc, ok := h.readDocument(c, true, true)
	if !ok {
		return
	}
	resp, err := h.service.ExtractCaratula(c.Request.Context(), doc)
	if err != nil {
		h.handleError(c, statusFor(err), "Failed to extract caratula", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DocumentHandler) ExtractJuzgado(c *gin.Context) {
	doc, ok := h.readDocument(c, true, true)
	if !ok {
		return
	}
	resp, err := h.service.ExtractJuzgado(c.Request.Context(), doc)
	if err != nil {
		h.handleError(c, statusFor(err), "Failed to extract juzgado", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DocumentHandler) ExtractExpediente(c *gin.Context) {
	doc, ok := h.readDocument(c, true, true)
	if !ok {
		return
	}
	resp, err := h.service.ExtractExpediente(c.Request.Context(), doc)
	if err != nil {
		h.handleError(c, statusFor(err), "Failed to extract expediente", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExtractPDF proxies to the extraction microservice. Upstream failures still
// answer 200 with null fields and a message.
func (h *DocumentHandler) ExtractPDF(c *gin.Context) {
	doc, ok := h.readDocument(c, true, false)
	if !ok {
		return
	}
	resp, err := h.service.ExtractPDF(c.Request.Context(), doc)
	if err != nil {
		h.handleError(c, statusFor(err), "Failed to extract PDF", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DocumentHandler) SubmitExtraction(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.service.SubmitJob(c.Request.Context(), req.Path, req.Filename)
	if err != nil {
		h.handleError(c, statusFor(err), "Failed to submit extraction", err)
		return
	}

	c.JSON(http.StatusAccepted, SubmitResponse{TaskID: result.TaskID, Status: string(result.Status)})
}

func (h *DocumentHandler) GetExtraction(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		h.handleError(c, http.StatusBadRequest, "Task ID is required", nil)
		return
	}

	result, err := h.service.JobStatus(c.Request.Context(), taskID)
	if err != nil {
		h.handleError(c, statusFor(err), "Failed to get status", err)
		return
	}

	c.JSON(http.StatusOK, converters.ToJobResponse(result))
}

func (h *DocumentHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readDocument takes the multipart "file", or the form "path" when allowPath is
// set. strict enables the extension allow-list and rejects empty files; otherwise
// an empty file is passed on so its filename can still be classified.
func (h *DocumentHandler) readDocument(c *gin.Context, strict, allowPath bool) (*models.SourceDocument, bool) {
	ctx := c.Request.Context()

	fh, err := c.FormFile("file")
	if err != nil {
		if path := c.PostForm("path"); allowPath && path != "" {
			doc, err := h.service.Resolve(ctx, docservice.ResolveRequest{Path: path, Filename: c.PostForm("filename")})
			if err != nil {
				h.handleError(c, statusFor(err), "Failed to load document", err)
				return nil, false
			}
			return doc, true
		}
		h.handleError(c, http.StatusBadRequest, "File is required", err)
		return nil, false
	}

	if fh.Size > h.validator.MaxFileSize() {
		err := &validator.ValidationError{
			Code:    validator.CodeFileTooLarge,
			Message: fmt.Sprintf("file size %d exceeds limit %d", fh.Size, h.validator.MaxFileSize()),
		}
		h.handleError(c, http.StatusRequestEntityTooLarge, "Invalid file", err)
		return nil, false
	}

	f, err := fh.Open()
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid file upload", err)
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid file upload", err)
		return nil, false
	}

	switch {
	case strict:
		_, err = h.validator.Validate(fh.Filename, data)
	case len(data) > 0:
		_, err = h.validator.ValidateSize(fh.Filename, data)
	}
	if err != nil {
		h.handleError(c, statusFor(err), "Invalid file", err)
		return nil, false
	}

	doc, err := h.service.Resolve(ctx, docservice.ResolveRequest{Data: data, Filename: fh.Filename})
	if err != nil {
		h.handleError(c, statusFor(err), "Failed to load document", err)
		return nil, false
	}
	return doc, true
}

func statusFor(err error) int {
	var verr *validator.ValidationError
	switch {
	case errors.As(err, &verr):
		if verr.Code == validator.CodeFileTooLarge {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusBadRequest
	case errors.Is(err, document.ErrUnsupportedFormat),
		errors.Is(err, docservice.ErrMissingDocument),
		errors.Is(err, storage.ErrDisabled):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, queue.ErrTaskNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *DocumentHandler) handleError(c *gin.Context, status int, message string, err error) {
	log := logger.FromContext(c.Request.Context(), h.logger)
	fields := []logger.Field{
		logger.String("path", c.Request.URL.Path),
		logger.Int("status", status),
	}
	if err != nil {
		fields = append(fields, logger.Error(err))
	}
	if status >= http.StatusInternalServerError {
		log.Error(message, fields...)
	} else {
		log.Warn(message, fields...)
	}

	response := ErrorResponse{
		Message: message,
	}
	if err != nil {
		response.Error = err.Error()
	}

	c.AbortWithStatusJSON(status, response)
}
