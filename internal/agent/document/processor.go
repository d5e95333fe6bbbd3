package document

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/feichai0017/legaldoc-extractor/internal/models"
)

// ErrUnsupportedFormat is returned for files that are neither DOCX/DOC nor PDF.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// FormatError reports bytes that cannot be parsed as the declared format.
type FormatError struct {
	Format string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s document: %v", e.Format, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Processor turns a document's raw bytes into plain text.
type Processor interface {
	Source() models.Source
	Extract(ctx context.Context, data []byte) (string, error)
}

// Format is the acquisition family chosen from a filename suffix.
type Format string

const (
	FormatDOCX    Format = "docx"
	FormatPDF     Format = "pdf"
	FormatUnknown Format = ""
)

// FormatOf matches the filename suffix case-insensitively.
func FormatOf(filename string) Format {
	name := strings.ToLower(strings.TrimSpace(filename))
	switch {
	case strings.HasSuffix(name, ".docx"), strings.HasSuffix(name, ".doc"):
		return FormatDOCX
	case strings.HasSuffix(name, ".pdf"):
		return FormatPDF
	default:
		return FormatUnknown
	}
}

// ErrAcquisition marks a supported document whose text could not be obtained.
var ErrAcquisition = errors.New("text acquisition failed")
