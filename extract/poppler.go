package extract

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// popplerRenderer rasterizes single PDF pages through poppler's pdftoppm.
// There is no maintained pure-Go poppler binding; shelling out keeps this
// tier on a different rendering engine than the MuPDF fallback.
type popplerRenderer struct {
	bin string
}

// NewPopplerRenderer returns a PageRenderer backed by the pdftoppm binary.
func NewPopplerRenderer(bin string) PageRenderer {
	if bin == "" {
		bin = "pdftoppm"
	}
	return popplerRenderer{bin: bin}
}

func (r popplerRenderer) RenderPage(ctx context.Context, path string, page, dpi int) ([]byte, error) {
	dir, err := os.MkdirTemp("", "shpe-render-*")
	if err != nil {
		return nil, fmt.Errorf("create render dir: %w", err)
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	cmd := exec.CommandContext(ctx, r.bin,
		"-png",
		"-r", strconv.Itoa(dpi),
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		"-singlefile",
		path,
		prefix,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm page %d: %w: %s", page, err, out)
	}

	data, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("read rendered page %d: %w", page, err)
	}
	return data, nil
}
