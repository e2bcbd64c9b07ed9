package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/eino-ext/components/document/loader/file"
	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/components/document/parser"
)

// TextExtractor reads a whole file as UTF-8 text through the eino file loader.
type TextExtractor struct {
	loader *file.FileLoader
}

func NewTextExtractor(ctx context.Context) (*TextExtractor, error) {
	loader, err := file.NewFileLoader(ctx, &file.FileLoaderConfig{
		UseNameAsID: true,
		Parser:      parser.TextParser{},
	})
	if err != nil {
		return nil, fmt.Errorf("init text loader: %w", err)
	}
	return &TextExtractor{loader: loader}, nil
}

func (t *TextExtractor) Extract(ctx context.Context, src Source) (string, error) {
	docs, err := t.loader.Load(ctx, document.Source{URI: src.Path})
	if err != nil {
		return "", fmt.Errorf("load file: %w", err)
	}
	var builder strings.Builder
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		builder.WriteString(doc.Content)
	}
	text := builder.String()
	if !utf8.ValidString(text) {
		return "", errors.New("file is not valid UTF-8 text")
	}
	// universal newlines
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text, nil
}
