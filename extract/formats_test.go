package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	cases := map[string]Format{
		"notes.txt":        FormatText,
		"REPORT.PDF":       FormatPDF,
		"minutes.docx":     FormatDOCX,
		"scan.png":         FormatImage,
		"photo.jpg":        FormatImage,
		"photo.JPEG":       FormatImage,
		"archive.tar.gz":   FormatUnknown,
		"README.md":        FormatUnknown,
		"no-extension":     FormatUnknown,
		"dir/nested/a.txt": FormatText,
	}

	for path, want := range cases {
		require.Equal(t, want, DetectFormat(path), "path %s", path)
	}
}
