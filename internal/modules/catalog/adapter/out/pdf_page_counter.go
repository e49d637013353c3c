package out

import (
	"context"
	"fmt"
	"strings"

	catalogout "shelfmark/internal/modules/catalog/port/out"
	"rsc.io/pdf"
)

// PDFPageCounter derives a book's page count from a local PDF file so an
// imported book gets a progress denominator without manual entry.
type PDFPageCounter struct{}

func NewPDFPageCounter() catalogout.PageCounter {
	return &PDFPageCounter{}
}

func (c *PDFPageCounter) CountPages(_ context.Context, path string) (int, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return 0, fmt.Errorf("not a pdf file: %s", path)
	}
	doc, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	return doc.NumPage(), nil
}
