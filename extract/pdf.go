package extract

import (
	"context"
	"log"
	"strings"
)

// A page's embedded text layer is usable when it carries more than this many
// characters after trimming; shorter layers are treated as scanned pages.
const minTextLayerChars = 20

// OCR output shorter than this after trimming is considered noise.
const minOCRChars = 10

// TextLayerDocument reads the embedded text layer of an open PDF.
type TextLayerDocument interface {
	NumPages() int
	// PageText returns the embedded text of the given 1-based page.
	PageText(page int) (string, error)
	Close() error
}

// TextLayerOpener opens a PDF for text-layer reading.
type TextLayerOpener interface {
	Open(path string) (TextLayerDocument, error)
}

// PageRenderer rasterizes a single PDF page to a PNG image.
type PageRenderer interface {
	RenderPage(ctx context.Context, path string, page, dpi int) ([]byte, error)
}

// RenderedDocument is a PDF opened by the fallback renderer.
type RenderedDocument interface {
	NumPages() int
	RenderPage(page, dpi int) ([]byte, error)
	Close() error
}

// DocumentRenderer opens a PDF with the fallback rendering backend.
type DocumentRenderer interface {
	Open(path string) (RenderedDocument, error)
}

// OCR converts a rasterized page or image into text.
type OCR interface {
	Extract(ctx context.Context, image []byte) (string, error)
}

type tierOutcome int

const (
	outcomeSufficient tierOutcome = iota
	outcomeInsufficient
	outcomeFailed
)

type tierResult struct {
	outcome tierOutcome
	text    string
	err     error
}

// PDFExtractor runs the three-tier extraction cascade: embedded text layer,
// per-page render+OCR for insufficient pages, and a whole-document pass with
// an alternate renderer when the first two tiers accumulate nothing. Using a
// different renderer per tier hedges against renderer-specific failures.
type PDFExtractor struct {
	textLayer TextLayerOpener
	renderer  PageRenderer
	fallback  DocumentRenderer
	ocr       OCR
	dpi       int
	logger    *log.Logger
}

func NewPDFExtractor(textLayer TextLayerOpener, renderer PageRenderer, fallback DocumentRenderer, ocr OCR, dpi int, logger *log.Logger) *PDFExtractor {
	if logger == nil {
		logger = log.Default()
	}
	if dpi <= 0 {
		dpi = 300
	}
	return &PDFExtractor{
		textLayer: textLayer,
		renderer:  renderer,
		fallback:  fallback,
		ocr:       ocr,
		dpi:       dpi,
		logger:    logger,
	}
}

// Extract returns the concatenated page texts in page order. Pages contribute
// through tier 1 or 2; when neither tier produced anything for the whole
// document, the tier-3 fallback renderer is tried once. Total failure yields
// empty text, never an error: failed tiers degrade, they do not abort.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (string, error) {
	var sb strings.Builder

	doc, err := e.textLayer.Open(path)
	if err != nil {
		e.logger.Printf("pdf %s: text-layer open failed: %v", path, err)
	} else {
		func() {
			defer doc.Close()
			pages := doc.NumPages()
			for page := 1; page <= pages; page++ {
				if res := e.textLayerTier(doc, path, page); res.outcome == outcomeSufficient {
					sb.WriteString(res.text)
					sb.WriteString("\n")
					continue
				}
				res := e.ocrTier(ctx, path, page)
				switch res.outcome {
				case outcomeSufficient:
					sb.WriteString(res.text)
					sb.WriteString("\n")
				case outcomeInsufficient:
					e.logger.Printf("pdf %s page %d: OCR returned insufficient text", path, page)
				case outcomeFailed:
					e.logger.Printf("pdf %s page %d: OCR failed: %v", path, page, res.err)
				}
			}
		}()
	}

	if strings.TrimSpace(sb.String()) != "" {
		return sb.String(), nil
	}

	e.logger.Printf("pdf %s: text layer and per-page OCR yielded nothing, trying fallback renderer", path)
	return e.fallbackPass(ctx, path), nil
}

func (e *PDFExtractor) textLayerTier(doc TextLayerDocument, path string, page int) tierResult {
	text, err := doc.PageText(page)
	if err != nil {
		e.logger.Printf("pdf %s page %d: text layer read failed: %v", path, page, err)
		return tierResult{outcome: outcomeFailed, err: err}
	}
	if len(strings.TrimSpace(text)) > minTextLayerChars {
		return tierResult{outcome: outcomeSufficient, text: text}
	}
	return tierResult{outcome: outcomeInsufficient}
}

func (e *PDFExtractor) ocrTier(ctx context.Context, path string, page int) tierResult {
	img, err := e.renderer.RenderPage(ctx, path, page, e.dpi)
	if err != nil {
		return tierResult{outcome: outcomeFailed, err: err}
	}
	text, err := e.ocr.Extract(ctx, img)
	if err != nil {
		return tierResult{outcome: outcomeFailed, err: err}
	}
	if len(strings.TrimSpace(text)) > minOCRChars {
		return tierResult{outcome: outcomeSufficient, text: text}
	}
	return tierResult{outcome: outcomeInsufficient}
}

func (e *PDFExtractor) fallbackPass(ctx context.Context, path string) string {
	doc, err := e.fallback.Open(path)
	if err != nil {
		e.logger.Printf("pdf %s: fallback renderer open failed: %v", path, err)
		return ""
	}
	defer doc.Close()

	var sb strings.Builder
	pages := doc.NumPages()
	for page := 1; page <= pages; page++ {
		img, err := doc.RenderPage(page, e.dpi)
		if err != nil {
			e.logger.Printf("pdf %s page %d: fallback render failed: %v", path, page, err)
			continue
		}
		text, err := e.ocr.Extract(ctx, img)
		if err != nil {
			e.logger.Printf("pdf %s page %d: fallback OCR failed: %v", path, page, err)
			continue
		}
		if len(strings.TrimSpace(text)) > minOCRChars {
			sb.WriteString(text)
			sb.WriteString("\n")
		} else {
			e.logger.Printf("pdf %s page %d: fallback OCR returned insufficient text", path, page)
		}
	}
	return sb.String()
}
