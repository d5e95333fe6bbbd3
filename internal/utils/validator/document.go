package validator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
)

const (
	CodeFileTooLarge    = "FILE_TOO_LARGE"
	CodeEmptyFile       = "EMPTY_FILE"
	CodeInvalidFileType = "INVALID_FILE_TYPE"
)

// ValidationError is a rejected upload; Code is stable for clients.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

type ValidatorConfig struct {
	MaxFileSize  int64
	AllowedTypes map[string][]string // extension -> accepted sniffed MIME types
}

func DefaultConfig() *ValidatorConfig {
	return &ValidatorConfig{
		MaxFileSize: 20 << 20,
		AllowedTypes: map[string][]string{
			".pdf":  {"application/pdf"},
			".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
			".doc":  {"application/msword", "application/x-ole-storage"},
		},
	}
}

// FileInfo describes an accepted upload.
type FileInfo struct {
	Filename  string
	Size      int64
	Extension string
	MimeType  string
	// MimeMismatch is set when the content does not look like its extension.
	// Such files are still extracted; acquisition then fails softly.
	MimeMismatch bool
}

type DocumentValidator struct {
	logger logger.Logger
	config *ValidatorConfig
}

func NewDocumentValidator(log logger.Logger, config *ValidatorConfig) *DocumentValidator {
	if config == nil {
		config = DefaultConfig()
	}
	return &DocumentValidator{logger: log, config: config}
}

func (v *DocumentValidator) MaxFileSize() int64 {
	return v.config.MaxFileSize
}

// ValidateSize checks only the size limit; type detection accepts any extension.
func (v *DocumentValidator) ValidateSize(filename string, data []byte) (*FileInfo, error) {
	size := int64(len(data))
	if size == 0 {
		return nil, &ValidationError{Code: CodeEmptyFile, Message: "el archivo está vacío"}
	}
	if size > v.config.MaxFileSize {
		return nil, &ValidationError{
			Code:    CodeFileTooLarge,
			Message: fmt.Sprintf("el archivo supera el máximo de %d bytes", v.config.MaxFileSize),
		}
	}
	return &FileInfo{
		Filename:  filename,
		Size:      size,
		Extension: strings.ToLower(filepath.Ext(strings.TrimSpace(filename))),
		MimeType:  mimetype.Detect(data).String(),
	}, nil
}

// Validate additionally requires a supported extension and sniffs the content.
func (v *DocumentValidator) Validate(filename string, data []byte) (*FileInfo, error) {
	info, err := v.ValidateSize(filename, data)
	if err != nil {
		return nil, err
	}

	allowed, ok := v.config.AllowedTypes[info.Extension]
	if !ok {
		return nil, &ValidationError{
			Code:    CodeInvalidFileType,
			Message: fmt.Sprintf("tipo de archivo no soportado: %q (use .pdf, .docx o .doc)", info.Extension),
		}
	}

	detected := mimetype.Detect(data)
	info.MimeMismatch = true
	for _, m := range allowed {
		if detected.Is(m) {
			info.MimeMismatch = false
			break
		}
	}
	if info.MimeMismatch {
		v.logger.Warn("Upload content does not match extension",
			logger.String("filename", filename),
			logger.String("extension", info.Extension),
			logger.String("detected", detected.String()),
		)
	}
	return info, nil
}
