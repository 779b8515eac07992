package ingestion

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// extractDOCX concatenates all body paragraph texts in document order, each
// followed by a newline, then all table cell texts in row-major, table-order
// traversal, each followed by a newline. Tables always come after paragraphs,
// regardless of where they sit in the document body.
func extractDOCX(data []byte) (string, error) {
	reader, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrCorruptDocument, err)
	}
	defer reader.Close()

	paragraphs, cells, err := docxBodyText(reader.Editable().GetContent())
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrCorruptDocument, err)
	}

	var sb strings.Builder
	for _, p := range paragraphs {
		sb.WriteString(p)
		sb.WriteString("\n")
	}
	for _, c := range cells {
		sb.WriteString(c)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// docxBodyText walks the word/document.xml content and collects body
// paragraph texts and table cell texts separately. A cell's text is its
// paragraphs joined by newlines.
func docxBodyText(content string) (paragraphs, cells []string, err error) {
	decoder := xml.NewDecoder(strings.NewReader(content))

	var (
		paragraph  strings.Builder
		cellParas  []string
		inText     bool
		tableDepth int
		inCell     bool
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "tc":
				if tableDepth > 0 {
					inCell = true
					cellParas = cellParas[:0]
				}
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				if tableDepth > 0 {
					tableDepth--
				}
			case "tc":
				if inCell {
					cells = append(cells, strings.Join(cellParas, "\n"))
					inCell = false
				}
			case "p":
				if inCell {
					cellParas = append(cellParas, paragraph.String())
				} else if tableDepth == 0 {
					paragraphs = append(paragraphs, paragraph.String())
				}
				paragraph.Reset()
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				paragraph.Write(t)
			}
		}
	}

	return paragraphs, cells, nil
}
