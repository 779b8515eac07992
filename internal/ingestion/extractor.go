package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrUnsupportedFormat indicates a file extension other than .pdf or .docx.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrCorruptDocument indicates the decoder rejected the document bytes.
	ErrCorruptDocument = errors.New("corrupt document")
)

// RawDocument is an uploaded or fetched document held in memory.
type RawDocument struct {
	Name string
	Data []byte
}

// ExtractText extracts plain text from PDF or DOCX bytes. The format is
// chosen by the file name's extension, matched case-insensitively. Empty text
// from an intact document is valid output, not an error.
func ExtractText(data []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".pdf":
		return extractPDF(data)
	case ".docx":
		return extractDOCX(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// CandidateName derives a candidate name from a resume filename by stripping
// any directory components and the extension.
func CandidateName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// extractPDF concatenates the text of every page in document order, each page
// followed by a newline even when the page yields no text.
func extractPDF(data []byte) (text string, err error) {
	// The pdf library panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: pdf: %v", ErrCorruptDocument, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", ErrCorruptDocument, err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			sb.WriteString("\n")
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: pdf page %d: %v", ErrCorruptDocument, i, err)
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}
