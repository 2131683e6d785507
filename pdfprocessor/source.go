// source.go implements DocumentSource, the page-level access layer over a
// PDF byte buffer. The embedded text layer is read with ledongthuc/pdf;
// page rasterization goes through go-fitz (MuPDF). Keeping the two
// concerns behind one interface lets the extractor be tested against an
// in-memory fake.
package pdfprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

// ErrEmptyDocument is returned when an empty byte buffer is provided.
var ErrEmptyDocument = errors.New("pdfprocessor: empty document data")

// DocumentSource provides page-level access to an opened PDF document.
// Pages are 1-indexed. Implementations are not required to be safe for
// concurrent use; the extractor walks pages sequentially.
type DocumentSource interface {
	// PageCount returns the number of pages in the document.
	PageCount() int

	// PageText returns the embedded text layer of a page, with all
	// text-run fragments space-joined. An empty string means the page
	// has no text layer (image-only or scanned).
	PageText(page int) (string, error)

	// PageImage rasterizes a page at the given render scale, where 1.0
	// corresponds to the page's natural 72 DPI size.
	PageImage(page int, scale float64) (image.Image, error)

	// Close releases resources held by the source.
	Close() error
}

// pdfSource is the production DocumentSource. The raster side (page
// count, images) is authoritative; the text reader is best-effort. If
// ledongthuc/pdf cannot parse the file that fitz accepted, every page
// simply reports an empty text layer and falls through to OCR.
type pdfSource struct {
	raster *fitz.Document
	text   *pdf.Reader
}

// OpenDocument opens a PDF from an in-memory byte buffer.
//
// A corrupt or password-protected document fails here, which is fatal for
// the whole file; page-level problems surface later from PageText and
// PageImage instead.
func OpenDocument(data []byte) (DocumentSource, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	raster, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("pdfprocessor: failed to open document: %w", err)
	}

	// Text-layer parsing failure is not fatal; OCR covers those pages.
	textReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		textReader = nil
	}

	return &pdfSource{
		raster: raster,
		text:   textReader,
	}, nil
}

// PageCount returns the number of pages in the document.
func (s *pdfSource) PageCount() int {
	return s.raster.NumPage()
}

// PageText returns the space-joined text-run fragments of a page.
func (s *pdfSource) PageText(page int) (string, error) {
	if s.text == nil {
		return "", nil
	}
	if page < 1 || page > s.text.NumPage() {
		return "", nil
	}

	p := s.text.Page(page)
	if p.V.IsNull() {
		return "", nil
	}

	content := p.Content()
	fragments := make([]string, 0, len(content.Text))
	for _, t := range content.Text {
		fragments = append(fragments, t.S)
	}
	return JoinFragments(fragments), nil
}

// PageImage rasterizes a page. go-fitz pages are 0-indexed and render at
// 72 DPI for scale 1.0.
func (s *pdfSource) PageImage(page int, scale float64) (image.Image, error) {
	if page < 1 || page > s.raster.NumPage() {
		return nil, fmt.Errorf("pdfprocessor: page %d out of range", page)
	}
	if scale <= 0 {
		scale = 1.0
	}

	img, err := s.raster.ImageDPI(page-1, scale*72)
	if err != nil {
		return nil, fmt.Errorf("pdfprocessor: failed to rasterize page %d: %w", page, err)
	}
	return img, nil
}

// Close releases the underlying MuPDF document.
func (s *pdfSource) Close() error {
	return s.raster.Close()
}
