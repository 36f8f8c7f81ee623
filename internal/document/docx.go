package document

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var xmlTag = regexp.MustCompile(`<[^>]+>`)

// extractDOCX reads the body text of a Word document and counts the images
// embedded under word/media.
func extractDOCX(data []byte) (*Document, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	text := docxXMLToText(doc.Editable().GetContent())

	images, err := countDocxMedia(data)
	if err != nil {
		return nil, err
	}

	return &Document{Text: text, ImageCount: images, Pages: 1}, nil
}

func docxXMLToText(xml string) string {
	xml = strings.ReplaceAll(xml, "</w:p>", "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	xml = strings.ReplaceAll(xml, "<w:br/>", "\n")
	txt := xmlTag.ReplaceAllString(xml, "")
	return normalizeWhitespace(html.UnescapeString(txt))
}

func countDocxMedia(data []byte) (int, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to open docx archive: %w", err)
	}
	count := 0
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/media/") && !f.FileInfo().IsDir() {
			count++
		}
	}
	return count, nil
}
