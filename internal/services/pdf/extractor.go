// Package pdf provides page-by-page text access to PDF test banks.
//
// We use the ledongthuc/pdf library for text extraction. It's a pure Go
// implementation — no CGO or external dependencies required, which keeps
// the tool a single static binary.
package pdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ledongthuc/pdf"
)

// PageSource reads text one page at a time from an open document.
// Pages are numbered from 1, the way PDF viewers count them.
//
// Go Pattern: Consumers (the extract service, tests) depend on this
// interface rather than on the concrete document type, so extraction
// logic can be tested with fake sources instead of real PDF fixtures.
type PageSource interface {
	PageCount() int
	PageText(page int) (string, error)
	Close() error
}

// BankOpener opens a test bank file as a PageSource.
type BankOpener interface {
	Open(path string) (PageSource, error)
}

// FileOpener is the production BankOpener backed by ledongthuc/pdf.
type FileOpener struct{}

// Open checks the file header and opens the document for page access.
// The caller owns the returned source and must Close it.
func (FileOpener) Open(path string) (PageSource, error) {
	header, err := readHeader(path)
	if err != nil {
		return nil, err
	}
	if !ValidatePDF(header) {
		return nil, fmt.Errorf("%s is not a PDF (bad magic bytes)", filepath.Base(path))
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return &document{file: f, reader: reader}, nil
}

// document implements PageSource over an open file.
type document struct {
	file   *os.File
	reader *pdf.Reader
}

func (d *document) PageCount() int { return d.reader.NumPage() }

// PageText extracts the plain text of one page. A page with no text
// layer (image-only scans) returns an empty string, not an error.
func (d *document) PageText(page int) (string, error) {
	if page < 1 || page > d.reader.NumPage() {
		return "", fmt.Errorf("page %d out of range (document has %d)", page, d.reader.NumPage())
	}
	p := d.reader.Page(page)
	if p.V.IsNull() {
		return "", nil
	}
	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract page %d: %w", page, err)
	}
	return text, nil
}

func (d *document) Close() error { return d.file.Close() }

// readHeader returns the first few bytes of a file for magic byte checks.
func readHeader(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	buf := make([]byte, 5)
	n, _ := io.ReadFull(f, buf)
	return buf[:n], nil
}

// ValidatePDF checks if the data looks like a valid PDF by checking the magic bytes.
func ValidatePDF(data []byte) bool {
	// PDF files start with "%PDF-"
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}
