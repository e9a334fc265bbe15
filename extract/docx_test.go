package extract

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeDocx(t *testing.T, documentXML string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "doc.docx")
	file, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(file)
	entry, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = entry.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, file.Close())

	return path
}

func TestExtractDOCXJoinsParagraphsWithNewlines(t *testing.T) {
	path := writeDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	text, err := extractDOCX(path)
	require.NoError(t, err)
	require.Equal(t, "First paragraph.\nSecond paragraph.", text)
}

func TestExtractDOCXRejectsNonArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a.docx")
	require.NoError(t, os.WriteFile(path, []byte("plain bytes"), 0o644))

	_, err := extractDOCX(path)
	require.Error(t, err)
}

func TestExtractDOCXMissingDocumentXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	file, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(file)
	require.NoError(t, zw.Close())
	require.NoError(t, file.Close())

	_, err = extractDOCX(path)
	require.Error(t, err)
}
