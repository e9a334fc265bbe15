// Package extract converts corpus files into raw text. PDF extraction runs a
// tiered cascade: embedded text layer first, per-page OCR for pages without a
// usable layer, and a whole-document OCR pass through an alternate renderer
// when the first two tiers produce nothing.
package extract

import (
	"path/filepath"
	"strings"
)

// Format enumerates supported document payload formats.
type Format string

const (
	// FormatUnknown represents an unsupported or undetected format.
	FormatUnknown Format = ""
	// FormatText represents plain UTF-8 text documents.
	FormatText Format = "txt"
	// FormatPDF represents PDF documents.
	FormatPDF Format = "pdf"
	// FormatDOCX represents Word documents.
	FormatDOCX Format = "docx"
	// FormatImage represents raster images processed through OCR.
	FormatImage Format = "image"
)

// DetectFormat infers a document format from the provided path's extension.
func DetectFormat(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt":
		return FormatText
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	case ".png", ".jpg", ".jpeg":
		return FormatImage
	default:
		return FormatUnknown
	}
}
