// Package pdftext supplies per-page plain text from PDF documents.
package pdftext

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// Extractor produces the plain text of every page in a document.
type Extractor interface {
	// ExtractPages returns one string per page of the document at path.
	ExtractPages(path string) ([]string, error)
}

// FitzExtractor reads the text layer of PDF files with MuPDF.
type FitzExtractor struct{}

// NewFitzExtractor creates a new FitzExtractor.
func NewFitzExtractor() *FitzExtractor {
	return &FitzExtractor{}
}

// ExtractPages returns the text of every page of the PDF at path.
func (e *FitzExtractor) ExtractPages(path string) ([]string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			return nil, fmt.Errorf("extracting text from page %d: %w", n+1, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
