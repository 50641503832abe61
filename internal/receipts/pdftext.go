package receipts

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// maxPDFPages caps how many pages of a receipt PDF are read. Receipts are
// one or two pages; anything longer is almost certainly the wrong document.
const maxPDFPages = 5

// PDFText extracts the embedded text layer from a PDF. Pages that fail to
// decode are skipped; an error is returned only when no page yields any text
// at all.
func PDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("PDFText: opening document: %w", err)
	}

	pages := reader.NumPage()
	if pages > maxPDFPages {
		pages = maxPDFPages
	}

	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", fmt.Errorf("PDFText: no extractable text in document")
	}
	return out, nil
}

// IsPDF reports whether the data looks like a PDF document.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}
