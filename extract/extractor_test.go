package extract

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestExtractTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	extractor := NewExtractor(nil, nil, testLogger())
	doc, err := extractor.Extract(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "note.txt", doc.Filename)
	require.Equal(t, FormatText, doc.Format)
	require.Equal(t, "hello world", doc.Text)
}

func TestExtractTextFileRejectsInvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.txt")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0xfd}, 0o644))

	extractor := NewExtractor(nil, nil, testLogger())
	_, err := extractor.Extract(context.Background(), path)
	require.Error(t, err)
}

func TestExtractUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("whatever"), 0o644))

	extractor := NewExtractor(nil, nil, testLogger())
	_, err := extractor.Extract(context.Background(), path)
	require.Error(t, err)
}

func TestExtractImageRunsOCR(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(path, []byte("raster-bytes"), 0o644))

	ocr := &fakeOCR{texts: map[string]string{"raster-bytes": "recognized text"}}
	extractor := NewExtractor(nil, ocr, testLogger())

	doc, err := extractor.Extract(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, FormatImage, doc.Format)
	require.Equal(t, "recognized text", doc.Text)
}

func TestExtractDOCXFailureDegradesToEmptyText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	extractor := NewExtractor(nil, nil, testLogger())
	doc, err := extractor.Extract(context.Background(), path)
	require.NoError(t, err)
	require.Empty(t, doc.Text)
}
