package extract

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// mupdfRenderer is the whole-document fallback backend, rendering through
// MuPDF via go-fitz.
type mupdfRenderer struct{}

// NewMuPDFRenderer returns the fallback DocumentRenderer.
func NewMuPDFRenderer() DocumentRenderer {
	return mupdfRenderer{}
}

type mupdfDocument struct {
	doc *fitz.Document
}

func (mupdfRenderer) Open(path string) (RenderedDocument, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf with mupdf: %w", err)
	}
	return &mupdfDocument{doc: doc}, nil
}

func (d *mupdfDocument) NumPages() int {
	return d.doc.NumPage()
}

func (d *mupdfDocument) RenderPage(page, dpi int) ([]byte, error) {
	// go-fitz pages are 0-based.
	data, err := d.doc.ImagePNG(page-1, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("render page %d with mupdf: %w", page, err)
	}
	return data, nil
}

func (d *mupdfDocument) Close() error {
	return d.doc.Close()
}
