// Package extract produces the text sent to the model for an uploaded file.
// The strategy is chosen from the file extension alone.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"hardwarebot/internal/models"
)

// Kind enumerates the extraction strategies.
type Kind int

const (
	KindUnsupported Kind = iota
	KindPlainText
	KindPDF
	KindDocx
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindPlainText:
		return "plain_text"
	case KindPDF:
		return "pdf"
	case KindDocx:
		return "docx"
	case KindImage:
		return "image"
	default:
		return "unsupported"
	}
}

var kindByExt = map[string]Kind{
	".txt":  KindPlainText,
	".py":   KindPlainText,
	".js":   KindPlainText,
	".html": KindPlainText,
	".pdf":  KindPDF,
	".docx": KindDocx,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".png":  KindImage,
}

// KindOf maps a file name to its strategy, ignoring extension case.
func KindOf(name string) Kind {
	if kind, ok := kindByExt[strings.ToLower(filepath.Ext(name))]; ok {
		return kind
	}
	return KindUnsupported
}

// Source points at a stored upload.
type Source struct {
	Name string // client file name, used in placeholders
	Path string // location on disk
}

// Extractor turns one stored file into text.
type Extractor interface {
	Extract(ctx context.Context, src Source) (string, error)
}

// Dispatcher routes a Source to the Extractor registered for its Kind.
type Dispatcher struct {
	byKind map[Kind]Extractor
}

// NewDispatcher wires the default strategies.
func NewDispatcher(ctx context.Context) (*Dispatcher, error) {
	text, err := NewTextExtractor(ctx)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{byKind: map[Kind]Extractor{
		KindPlainText:   text,
		KindPDF:         PDFExtractor{},
		KindDocx:        DocxExtractor{},
		KindImage:       ImagePlaceholder{},
		KindUnsupported: UnsupportedPlaceholder{},
	}}, nil
}

// Extract runs the strategy for src. Read and parse failures are returned as
// *models.FileReadError.
func (d *Dispatcher) Extract(ctx context.Context, src Source) (string, error) {
	kind := KindOf(src.Name)
	ex, ok := d.byKind[kind]
	if !ok {
		ex = UnsupportedPlaceholder{}
	}
	content, err := ex.Extract(ctx, src)
	if err != nil {
		return "", &models.FileReadError{Name: src.Name, Err: fmt.Errorf("%s extraction: %w", kind, err)}
	}
	return content, nil
}

// ImagePlaceholder asks the model to describe an image it cannot see.
type ImagePlaceholder struct{}

func (ImagePlaceholder) Extract(_ context.Context, src Source) (string, error) {
	return fmt.Sprintf("This is an image file named %s. Please describe or analyze it.", src.Name), nil
}

// UnsupportedPlaceholder reports a file type that is not analysed.
type UnsupportedPlaceholder struct{}

func (UnsupportedPlaceholder) Extract(_ context.Context, src Source) (string, error) {
	return fmt.Sprintf("Uploaded file '%s' is not supported for analysis.", src.Name), nil
}

// Truncate keeps the first limit characters of s.
func Truncate(s string, limit int) string {
	if limit < 0 {
		return s
	}
	count := 0
	for idx := range s {
		if count == limit {
			return s[:idx]
		}
		count++
	}
	return s
}
