// Package pdf extracts plain text from uploaded PDFs for note attachment.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxUploadBytes bounds how much of an upload is read into memory.
const MaxUploadBytes = 20 << 20

// ExtractText renders every page of the PDF to plain text. Each page is
// prefixed with a [Page N] marker and pages are separated by blank lines;
// pages that fail to render are skipped with their marker left in place.
func ExtractText(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes))
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= doc.NumPage(); i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[Page %d]", i)
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			b.WriteString(" ")
			b.WriteString(text)
		}
	}
	return strings.TrimSpace(b.String()), nil
}
