// Package extract turns uploaded document bytes into plain text, dispatching
// on the filename's extension.
package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
)

// ExtractionError reports an unsupported or corrupt document.
type ExtractionError struct {
	Filename string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %q: %v", e.Filename, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extractor extracts plain text from uploaded files.
type Extractor struct{}

// New returns an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the text content of the given file bytes. The extension is
// matched case-sensitively against .pdf, .docx and .txt; anything else is
// decoded as UTF-8 text. Output is never truncated here; the prompt
// assembler owns the context cap.
func (e *Extractor) Extract(content []byte, filename string) (string, error) {
	switch filepath.Ext(filename) {
	case ".pdf":
		text, err := extractPDF(content)
		if err != nil {
			return "", &ExtractionError{Filename: filename, Err: err}
		}
		return text, nil
	case ".docx":
		text, err := extractDOCX(content)
		if err != nil {
			return "", &ExtractionError{Filename: filename, Err: err}
		}
		return text, nil
	default:
		// .txt and unknown extensions: best-effort plain text.
		text, err := extractPlain(content)
		if err != nil {
			return "", &ExtractionError{Filename: filename, Err: err}
		}
		return text, nil
	}
}

// extractPDF joins page text with newlines, preserving page order. A page
// that fails to extract contributes an empty string rather than aborting the
// whole document.
func extractPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n"), nil
}

// extractDOCX returns paragraph text in document order.
func extractDOCX(content []byte) (string, error) {
	text, _, err := docconv.ConvertDocx(bytes.NewReader(content))
	if err != nil {
		return "", err
	}
	return text, nil
}

// extractPlain decodes the bytes as UTF-8. Invalid encodings are reported
// rather than silently replaced with empty or mangled text.
func extractPlain(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", fmt.Errorf("content is not valid UTF-8 text")
	}
	return string(content), nil
}
