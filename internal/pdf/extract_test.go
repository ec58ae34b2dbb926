package pdf

import (
	"strings"
	"testing"
)

func TestExtractTextRejectsNonPDF(t *testing.T) {
	if _, err := ExtractText(strings.NewReader("plain text, not a pdf")); err == nil {
		t.Fatal("expected error for non-PDF input")
	}
}

func TestExtractTextRejectsEmptyUpload(t *testing.T) {
	if _, err := ExtractText(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty upload")
	}
}
