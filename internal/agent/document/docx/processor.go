package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/feichai0017/legaldoc-extractor/internal/agent/document"
	"github.com/feichai0017/legaldoc-extractor/internal/models"
	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
)

const mainPart = "word/document.xml"

// Processor reads the main OOXML part only, so headers and footers (stored in
// their own parts) never reach the output.
type Processor struct {
	logger logger.Logger
}

func NewProcessor(log logger.Logger) *Processor {
	return &Processor{logger: log}
}

func (p *Processor) Source() models.Source {
	return models.SourceDOCX
}

// Extract returns one line per paragraph, table cell paragraphs included.
func (p *Processor) Extract(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &document.FormatError{Format: "docx", Err: err}
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == mainPart {
			part = f
			break
		}
	}
	if part == nil {
		return "", &document.FormatError{Format: "docx", Err: fmt.Errorf("%s not found in archive", mainPart)}
	}

	rc, err := part.Open()
	if err != nil {
		return "", &document.FormatError{Format: "docx", Err: err}
	}
	defer rc.Close()

	text, err := paragraphs(rc)
	if err != nil {
		return "", &document.FormatError{Format: "docx", Err: err}
	}

	p.logger.Debug("DOCX text extracted", logger.Int("chars", len(text)))
	return text, nil
}

func paragraphs(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var out []string
	var current strings.Builder
	inText := false

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				current.Reset()
			case "t":
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "br", "cr":
				current.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				out = append(out, current.String())
				current.Reset()
			}
		}
	}

	return strings.Join(out, "\n"), nil
}
