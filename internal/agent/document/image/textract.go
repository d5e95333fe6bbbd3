package image

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/feichai0017/legaldoc-extractor/config"
	"github.com/feichai0017/legaldoc-extractor/pkg/logger"
)

// DetectTextAPI is the slice of the Textract client the engine uses.
type DetectTextAPI interface {
	DetectDocumentText(ctx context.Context, params *textract.DetectDocumentTextInput, optFns ...func(*textract.Options)) (*textract.DetectDocumentTextOutput, error)
}

// TextractEngine recognizes page images with AWS Textract line detection.
type TextractEngine struct {
	client        DetectTextAPI
	minConfidence float32
	logger        logger.Logger
}

// NewTextractClient builds a Textract client from static credentials when present,
// otherwise from the default AWS chain.
func NewTextractClient(ctx context.Context, cfg *config.TextractConfig) (*textract.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return textract.NewFromConfig(awsCfg, func(o *textract.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

func NewTextractEngine(client DetectTextAPI, minConfidence float32, log logger.Logger) *TextractEngine {
	return &TextractEngine{client: client, minConfidence: minConfidence, logger: log}
}

func (e *TextractEngine) Name() string {
	return "textract"
}

// Recognize returns the LINE blocks of one page image joined by newlines.
func (e *TextractEngine) Recognize(ctx context.Context, page []byte) (string, error) {
	out, err := e.client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &types.Document{Bytes: page},
	})
	if err != nil {
		return "", fmt.Errorf("failed to detect document text: %w", err)
	}

	var lines []string
	for _, block := range out.Blocks {
		if block.BlockType != types.BlockTypeLine || block.Text == nil {
			continue
		}
		if block.Confidence != nil && *block.Confidence < e.minConfidence {
			continue
		}
		lines = append(lines, *block.Text)
	}

	e.logger.Debug("Textract page recognized", logger.Int("lines", len(lines)))
	return strings.Join(lines, "\n"), nil
}
