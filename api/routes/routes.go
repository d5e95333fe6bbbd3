package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/feichai0017/legaldoc-extractor/api/handlers"
	"github.com/feichai0017/legaldoc-extractor/api/middleware"
	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
)

// SetupRoutes registers middleware and every route on r.
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, allowOrigins []string, log logger.Logger) {
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.CORS(allowOrigins))

	v1 := r.Group("/api/v1")
	v1.GET("/health", h.Document.Health)

	docs := v1.Group("/documents")
	{
		docs.POST("/detect-type", h.Document.DetectType)
		docs.POST("/caratula", h.Document.ExtractCaratula)
		docs.POST("/juzgado", h.Document.ExtractJuzgado)
		docs.POST("/expediente", h.Document.ExtractExpediente)
		docs.POST("/extract-pdf", h.Document.ExtractPDF)
	}

	jobs := v1.Group("/extractions")
	{
		jobs.POST("", h.Document.SubmitExtraction)
		jobs.GET("/:taskId", h.Document.GetExtraction)
	}
}
