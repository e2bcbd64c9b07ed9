package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor joins the plain text of every page with newlines. Pages
// without extractable text contribute an empty line.
type PDFExtractor struct{}

func (PDFExtractor) Extract(_ context.Context, src Source) (text string, err error) {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return "", err
	}
	// the pdf package panics on some malformed documents
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("parse pdf: %v", r)
		}
	}()

	rdr, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	n := rdr.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		pg := rdr.Page(i)
		if pg.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		txt, err := pg.GetPlainText(nil)
		if err != nil {
			txt = ""
		}
		pages = append(pages, txt)
	}
	return strings.Join(pages, "\n"), nil
}
