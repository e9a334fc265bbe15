package extract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// tesseractOCR extracts text from images through the tesseract engine.
// A fresh client per call keeps the native handle out of shared state.
type tesseractOCR struct {
	language string
}

// NewTesseractOCR returns the default OCR backend.
func NewTesseractOCR(language string) OCR {
	if language == "" {
		language = "eng"
	}
	return tesseractOCR{language: language}
}

func (o tesseractOCR) Extract(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(o.language); err != nil {
		return "", fmt.Errorf("set ocr language: %w", err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("load image for ocr: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("run ocr: %w", err)
	}
	return text, nil
}
