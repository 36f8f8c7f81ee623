package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxFormDepth bounds recursion into nested form XObjects.
const maxFormDepth = 4

// extractPDF reads page text and counts image XObjects page by page.
// The pdf reader panics on some malformed files, so panics become errors.
func extractPDF(data []byte) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var text strings.Builder
	images := 0
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err == nil {
			text.WriteString(pageText)
			text.WriteString("\n")
		}

		images += countImages(page.Resources(), 0)
	}

	return &Document{
		Text:       normalizeWhitespace(text.String()),
		ImageCount: images,
		Pages:      pages,
	}, nil
}

// countImages counts XObjects of subtype Image in a resource dictionary,
// descending into form XObjects which carry their own resources.
func countImages(resources pdf.Value, depth int) int {
	if resources.IsNull() || depth > maxFormDepth {
		return 0
	}

	xobjects := resources.Key("XObject")
	count := 0
	for _, name := range xobjects.Keys() {
		obj := xobjects.Key(name)
		switch obj.Key("Subtype").Name() {
		case "Image":
			count++
		case "Form":
			count += countImages(obj.Key("Resources"), depth+1)
		}
	}
	return count
}
