package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hardwarebot/internal/models"
)

func TestKindOf(t *testing.T) {
	cases := map[string]Kind{
		"notes.txt":      KindPlainText,
		"NOTES.TXT":      KindPlainText,
		"main.py":        KindPlainText,
		"app.js":         KindPlainText,
		"index.html":     KindPlainText,
		"manual.pdf":     KindPDF,
		"Manual.PDF":     KindPDF,
		"notes.docx":     KindDocx,
		"photo.jpg":      KindImage,
		"photo.JPEG":     KindImage,
		"diagram.png":    KindImage,
		"data.csv":       KindUnsupported,
		"legacy.doc":     KindUnsupported,
		"index.htm":      KindUnsupported,
		"README":         KindUnsupported,
		"archive.tar.gz": KindUnsupported,
	}
	for name, want := range cases {
		if got := KindOf(name); got != want {
			t.Errorf("KindOf(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestExtractPlainText(t *testing.T) {
	d := newDispatcher(t)
	path := writeFile(t, "hello.txt", []byte("hello world"))
	got, err := d.Extract(context.Background(), Source{Name: "hello.txt", Path: path})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "hello world" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestExtractPlainTextNormalizesNewlines(t *testing.T) {
	d := newDispatcher(t)
	path := writeFile(t, "script.PY", []byte("a = 1\r\nb = 2\rc = 3\n"))
	got, err := d.Extract(context.Background(), Source{Name: "script.PY", Path: path})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "a = 1\nb = 2\nc = 3\n" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestExtractPlainTextRejectsInvalidUTF8(t *testing.T) {
	d := newDispatcher(t)
	path := writeFile(t, "binary.txt", []byte{0xff, 0xfe, 0x00, 0x41})
	_, err := d.Extract(context.Background(), Source{Name: "binary.txt", Path: path})
	var readErr *models.FileReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected FileReadError, got %v", err)
	}
	if readErr.Name != "binary.txt" {
		t.Fatalf("unexpected name in error: %s", readErr.Name)
	}
}

func TestExtractUnsupported(t *testing.T) {
	d := newDispatcher(t)
	path := writeFile(t, "data.csv", []byte("a,b\n1,2\n"))
	got, err := d.Extract(context.Background(), Source{Name: "data.csv", Path: path})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if want := "Uploaded file 'data.csv' is not supported for analysis."; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractImageIgnoresContent(t *testing.T) {
	d := newDispatcher(t)
	want := "This is an image file named photo.jpg. Please describe or analyze it."
	for _, content := range [][]byte{{0xff, 0xd8, 0xff}, []byte("not an image at all")} {
		path := writeFile(t, "photo.jpg", content)
		got, err := d.Extract(context.Background(), Source{Name: "photo.jpg", Path: path})
		if err != nil {
			t.Fatalf("extract: %v", err)
		}
		if got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
}

func TestExtractImageDoesNotReadFile(t *testing.T) {
	d := newDispatcher(t)
	got, err := d.Extract(context.Background(), Source{Name: "scan.png", Path: filepath.Join(t.TempDir(), "missing.png")})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(got, "scan.png") {
		t.Fatalf("placeholder does not name the file: %q", got)
	}
}

func TestExtractDocx(t *testing.T) {
	d := newDispatcher(t)
	body := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<w:body>
<w:p><w:r><w:t>First </w:t></w:r><w:r><w:t>paragraph</w:t></w:r></w:p>
<w:p></w:p>
<w:tbl><w:tr><w:tc><w:p><w:r><w:t>table cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
<w:p><w:r><w:t>Col</w:t><w:tab/><w:t>umn</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">See </w:t></w:r><w:hyperlink r:id="rId9"><w:r><w:t>link</w:t></w:r></w:hyperlink></w:p>
<w:sdt><w:sdtContent><w:p><w:r><w:t>content control</w:t></w:r></w:p></w:sdtContent></w:sdt>
<w:p><w:r><w:t>line one</w:t><w:br/><w:t>line two</w:t></w:r></w:p>
<w:sectPr/>
</w:body>
</w:document>`
	path := writeDocx(t, "notes.docx", body)
	got, err := d.Extract(context.Background(), Source{Name: "notes.docx", Path: path})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if want := "First paragraph\n\nCol\tumn\nSee link\nline one\nline two"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractDocxNotAZip(t *testing.T) {
	d := newDispatcher(t)
	path := writeFile(t, "broken.docx", []byte("plain text pretending to be docx"))
	_, err := d.Extract(context.Background(), Source{Name: "broken.docx", Path: path})
	var readErr *models.FileReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected FileReadError, got %v", err)
	}
}

func TestExtractPDFJoinsPages(t *testing.T) {
	d := newDispatcher(t)
	path := writeFile(t, "manual.pdf", buildPDF("Hello", "", "World"))
	got, err := d.Extract(context.Background(), Source{Name: "manual.pdf", Path: path})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if want := "Hello\n\nWorld"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractPDFInvalid(t *testing.T) {
	d := newDispatcher(t)
	path := writeFile(t, "manual.pdf", []byte("this is not a pdf"))
	_, err := d.Extract(context.Background(), Source{Name: "manual.pdf", Path: path})
	var readErr *models.FileReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected FileReadError, got %v", err)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 3, "hel"},
		{"hello", 0, ""},
		{"héllo wörld", 4, "héll"},
		{"日本語テキスト", 3, "日本語"},
	}
	for _, tc := range cases {
		if got := Truncate(tc.in, tc.limit); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func newDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(context.Background())
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	return d
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func writeDocx(t *testing.T, name, documentXML string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create docx: %v", err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close docx: %v", err)
	}
	return path
}

// buildPDF writes a minimal document with one page per entry. An empty entry
// yields a page whose content stream draws no text.
func buildPDF(pages ...string) []byte {
	var objects []string
	kids := make([]string, 0, len(pages))
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // page tree, filled in below
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for _, text := range pages {
		content := "q Q"
		if text != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		pageID := len(objects) + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageID))
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", pageID+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}
