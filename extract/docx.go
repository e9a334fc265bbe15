package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// extractDOCX concatenates paragraph texts from word/document.xml in document
// order, one paragraph per line.
func extractDOCX(path string) (string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml: %w", err)
		}
		return parseDocumentXML(content)
	}
	return "", fmt.Errorf("docx archive has no word/document.xml")
}

type documentXML struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Text []docxText `xml:"t"`
}

type docxText struct {
	Content string `xml:",chardata"`
}

func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("parse document.xml: %w", err)
	}

	var sb strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			sb.WriteString("\n")
		}
		for _, run := range para.Runs {
			for _, text := range run.Text {
				sb.WriteString(text.Content)
			}
		}
	}
	return sb.String(), nil
}
