package ocrservice

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
)

type Handler struct {
	service *Service
	maxSize int64
	logger  logger.Logger
}

func NewHandler(service *Service, maxSize int64, log logger.Logger) *Handler {
	return &Handler{service: service, maxSize: maxSize, logger: log}
}

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/extract", h.Extract)
	r.GET("/health", h.Health)
}

// Extract serves POST /extract with a multipart "file" field.
func (h *Handler) Extract(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "campo 'file' requerido"})
		return
	}
	if h.maxSize > 0 && fileHeader.Size > h.maxSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "archivo demasiado grande"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no se pudo leer el archivo"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no se pudo leer el archivo"})
		return
	}

	resp, err := h.service.Extract(c.Request.Context(), data)
	if err != nil {
		if errors.Is(err, ErrInvalidPDF) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "PDF inválido o dañado"})
			return
		}
		logger.FromContext(c.Request.Context(), h.logger).Error("Extraction failed",
			logger.String("filename", fileHeader.Filename),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error interno de extracción"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
