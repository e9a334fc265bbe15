package extract

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// textLayerOpener reads embedded PDF text layers via ledongthuc/pdf.
type textLayerOpener struct{}

// NewTextLayerOpener returns the default text-layer backend.
func NewTextLayerOpener() TextLayerOpener {
	return textLayerOpener{}
}

type textLayerDocument struct {
	file   *os.File
	reader *pdf.Reader
}

func (textLayerOpener) Open(path string) (TextLayerDocument, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &textLayerDocument{file: file, reader: reader}, nil
}

func (d *textLayerDocument) NumPages() int {
	return d.reader.NumPage()
}

func (d *textLayerDocument) PageText(page int) (string, error) {
	p := d.reader.Page(page)
	if p.V.IsNull() {
		return "", nil
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("read page %d text layer: %w", page, err)
	}
	return text, nil
}

func (d *textLayerDocument) Close() error {
	return d.file.Close()
}
