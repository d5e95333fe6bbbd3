package image

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Preprocessor transforms a rendered page before recognition.
type Preprocessor interface {
	Process(img image.Image) (image.Image, error)
}

// PreprocessConfig tunes the default page pipeline.
type PreprocessConfig struct {
	Contrast  float64
	Sharpen   float64
	Threshold uint8 // 0 disables binarization
}

func DefaultPreprocessConfig() PreprocessConfig {
	return PreprocessConfig{
		Contrast: 20,
		Sharpen:  0.5,
	}
}

// NewPipeline builds grayscale, contrast, sharpen and optional binarization steps.
func NewPipeline(cfg PreprocessConfig) []Preprocessor {
	steps := []Preprocessor{
		NewGrayscaleProcessor(),
		NewContrastProcessor(cfg.Contrast),
		NewSharpenProcessor(cfg.Sharpen),
	}
	if cfg.Threshold > 0 {
		steps = append(steps, NewBinarizationProcessor(cfg.Threshold))
	}
	return steps
}

// Preprocess decodes a page image, runs it through steps and re-encodes it as PNG.
func Preprocess(data []byte, steps []Preprocessor) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode page image: %w", err)
	}

	for _, step := range steps {
		img, err = step.Process(img)
		if err != nil {
			return nil, fmt.Errorf("preprocessing failed: %w", err)
		}
		if img == nil {
			return nil, fmt.Errorf("preprocessor returned nil image")
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode page image: %w", err)
	}
	return buf.Bytes(), nil
}

type GrayscaleProcessor struct{}

func NewGrayscaleProcessor() *GrayscaleProcessor {
	return &GrayscaleProcessor{}
}

func (p *GrayscaleProcessor) Process(img image.Image) (image.Image, error) {
	return imaging.Grayscale(img), nil
}

type ContrastProcessor struct {
	amount float64
}

func NewContrastProcessor(amount float64) *ContrastProcessor {
	return &ContrastProcessor{amount: amount}
}

func (p *ContrastProcessor) Process(img image.Image) (image.Image, error) {
	if p.amount == 0 {
		return img, nil
	}
	return imaging.AdjustContrast(img, p.amount), nil
}

type SharpenProcessor struct {
	sigma float64
}

func NewSharpenProcessor(sigma float64) *SharpenProcessor {
	return &SharpenProcessor{sigma: sigma}
}

func (p *SharpenProcessor) Process(img image.Image) (image.Image, error) {
	if p.sigma <= 0 {
		return img, nil
	}
	return imaging.Sharpen(img, p.sigma), nil
}

// BinarizationProcessor maps pixels above threshold to white, the rest to black.
type BinarizationProcessor struct {
	threshold uint8
}

func NewBinarizationProcessor(threshold uint8) *BinarizationProcessor {
	return &BinarizationProcessor{threshold: threshold}
}

func (p *BinarizationProcessor) Process(img image.Image) (image.Image, error) {
	gray := imaging.Grayscale(img)
	bounds := gray.Bounds()
	out := image.NewGray(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := color.GrayModel.Convert(gray.At(x, y)).(color.Gray).Y
			if v > p.threshold {
				out.SetGray(x, y, color.Gray{Y: 255})
			} else {
				out.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return out, nil
}
