package extract

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/rusca02/shpe-assistant/config"
)

// Document is one corpus file converted to raw text.
type Document struct {
	Filename string
	Text     string
	Format   Format
}

// Extractor dispatches files to format-specific strategies. DOCX and image
// failures degrade to empty text with a log line; TXT decoding failures and
// unsupported formats are errors for that file only.
type Extractor struct {
	pdf    *PDFExtractor
	ocr    OCR
	logger *log.Logger
}

func NewExtractor(pdf *PDFExtractor, ocr OCR, logger *log.Logger) *Extractor {
	if logger == nil {
		logger = log.Default()
	}
	return &Extractor{pdf: pdf, ocr: ocr, logger: logger}
}

// NewDefaultExtractor wires the production backends from configuration.
func NewDefaultExtractor(cfg config.Config, logger *log.Logger) *Extractor {
	ocr := NewTesseractOCR(cfg.OCRLanguage)
	pdf := NewPDFExtractor(
		NewTextLayerOpener(),
		NewPopplerRenderer(cfg.PdftoppmBin),
		NewMuPDFRenderer(),
		ocr,
		cfg.RenderDPI,
		logger,
	)
	return NewExtractor(pdf, ocr, logger)
}

// Extract converts one file into a Document. Empty text with a nil error
// means every strategy for that format came up dry; the caller decides
// whether to keep or drop the document.
func (e *Extractor) Extract(ctx context.Context, path string) (Document, error) {
	format := DetectFormat(path)
	doc := Document{Filename: filepath.Base(path), Format: format}

	switch format {
	case FormatText:
		text, err := readTextFile(path)
		if err != nil {
			return Document{}, err
		}
		doc.Text = text
	case FormatPDF:
		text, err := e.pdf.Extract(ctx, path)
		if err != nil {
			return Document{}, err
		}
		doc.Text = text
	case FormatDOCX:
		text, err := extractDOCX(path)
		if err != nil {
			e.logger.Printf("docx %s: extraction failed: %v", path, err)
			text = ""
		}
		doc.Text = text
	case FormatImage:
		text, err := e.extractImage(ctx, path)
		if err != nil {
			e.logger.Printf("image %s: OCR failed: %v", path, err)
			text = ""
		}
		doc.Text = text
	default:
		return Document{}, fmt.Errorf("unsupported file type: %s", path)
	}

	return doc, nil
}

func (e *Extractor) extractImage(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	return e.ocr.Extract(ctx, data)
}

func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("text file %s is not valid UTF-8", path)
	}
	return string(data), nil
}
