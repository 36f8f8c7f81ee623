// Package document extracts plain text and an image count from resume files.
package document

import (
	"bytes"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"resumetwin/internal/errors"
)

// Kind identifies a supported resume document format.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
	KindText Kind = "text"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Document is the extracted content of a resume.
type Document struct {
	Kind       Kind
	Text       string
	ImageCount int
	Pages      int
}

// DetectKind picks the document format from the file extension, then the
// declared content type, then the leading bytes.
func DetectKind(filename, contentType string, data []byte) (Kind, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return KindPDF, nil
	case ".docx":
		return KindDOCX, nil
	case ".txt", ".md", ".text":
		return KindText, nil
	}

	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch {
		case mediaType == mimePDF:
			return KindPDF, nil
		case mediaType == mimeDOCX:
			return KindDOCX, nil
		case strings.HasPrefix(mediaType, "text/"):
			return KindText, nil
		}
	}

	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return KindPDF, nil
	}

	return "", errors.NewValidationError(errors.ErrCodeUnsupportedDocument,
		fmt.Sprintf("unsupported document %q: only PDF, DOCX and plain text are accepted", filename), nil)
}

// Extract reads text and images from data according to its detected kind.
func Extract(filename, contentType string, data []byte) (*Document, error) {
	kind, err := DetectKind(filename, contentType, data)
	if err != nil {
		return nil, err
	}

	var doc *Document
	switch kind {
	case KindPDF:
		doc, err = extractPDF(data)
	case KindDOCX:
		doc, err = extractDOCX(data)
	default:
		doc = &Document{Text: string(data), Pages: 1}
	}
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeDocumentUnreadable,
			fmt.Sprintf("failed to read %s document %q", kind, filename), err)
	}
	doc.Kind = kind
	return doc, nil
}

// ExtractFile is Extract over a file on disk.
func ExtractFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable, fmt.Sprintf("cannot read file: %s", path), err)
	}
	return Extract(filepath.Base(path), "", data)
}

var (
	horizontalSpace = regexp.MustCompile(`[ \t\r\f\v\x{00A0}]+`)
	blankLines      = regexp.MustCompile(`\n{2,}`)
)

func normalizeWhitespace(s string) string {
	s = horizontalSpace.ReplaceAllString(s, " ")
	s = blankLines.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
