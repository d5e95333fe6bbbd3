package config

import (
	"sync"
	"time"
)

var (
	ocrClientOnce   sync.Once
	ocrClientConfig *OCRClientConfig

	ocrServiceOnce   sync.Once
	ocrServiceConfig *OCRServiceConfig
)

// OCRClientConfig is what the API server needs to reach the extraction microservice.
type OCRClientConfig struct {
	URL     string
	Timeout time.Duration
}

// OCRServiceConfig drives the extraction microservice itself.
type OCRServiceConfig struct {
	Addr          string
	MaxPages      int
	MinTextLength int
	Language      string
	Engine        string
	DPI           int
	PdftoppmPath  string
	PreviewLength int
	Workers       int
}

func LoadOCRClientConfig() *OCRClientConfig {
	return &OCRClientConfig{
		URL:     envString("OCR_SERVICE_URL", "http://localhost:8090"),
		Timeout: envDuration("OCR_TIMEOUT", 30*time.Second),
	}
}

func GetOCRClientConfig() *OCRClientConfig {
	ocrClientOnce.Do(func() {
		loadDotEnv()
		ocrClientConfig = LoadOCRClientConfig()
	})
	return ocrClientConfig
}

func LoadOCRServiceConfig() *OCRServiceConfig {
	return &OCRServiceConfig{
		Addr:          envString("OCR_SERVICE_ADDR", ":8090"),
		MaxPages:      envInt("OCR_MAX_PAGES", 5),
		MinTextLength: envInt("OCR_MIN_TEXT_LENGTH", 50),
		Language:      envString("OCR_LANGUAGE", "spa"),
		Engine:        envString("OCR_ENGINE", "tesseract"),
		DPI:           envInt("OCR_DPI", 300),
		PdftoppmPath:  envString("PDFTOPPM_PATH", "pdftoppm"),
		PreviewLength: envInt("OCR_PREVIEW_LENGTH", 500),
		Workers:       envInt("OCR_WORKERS", 2),
	}
}

func GetOCRServiceConfig() *OCRServiceConfig {
	ocrServiceOnce.Do(func() {
		loadDotEnv()
		ocrServiceConfig = LoadOCRServiceConfig()
	})
	return ocrServiceConfig
}
