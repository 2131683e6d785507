// extractor.go implements the Extractor organism that walks a PDF page by
// page, extracting the embedded text layer and falling back to OCR for
// scanned pages. It composes:
//   - source.go: DocumentSource page access
//   - atoms.go: page markers, progress bands, token estimation
//   - ocrprocessor: recognition of rasterized pages
//   - vision: PNG encoding of rasterized pages
//   - logging.Logger: structured logging
package pdfprocessor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"edukai_backend/logging"
	"edukai_backend/ocrprocessor"
	"edukai_backend/vision"

	"go.uber.org/zap"
)

// Progress stages reported by the extractor. The orchestrator maps them
// into the uniform progress shape shown to the UI.
const (
	StageExtracting = "extracting"
	StageOCR        = "ocr"
)

// ProgressCallback receives progress updates during extraction. Percent
// is in [0,100] and non-decreasing within a single run.
type ProgressCallback func(stage string, percent float64, message string)

// Common errors for PDF extraction.
var (
	// ErrNilRecognizer indicates the OCR recognizer is nil.
	ErrNilRecognizer = errors.New("pdfprocessor: recognizer cannot be nil")

	// ErrNilLogger indicates the logger is nil.
	ErrNilLogger = errors.New("pdfprocessor: logger cannot be nil")

	// ErrNilSource indicates a nil document source was provided.
	ErrNilSource = errors.New("pdfprocessor: document source cannot be nil")
)

// Recognizer is the OCR capability the extractor needs for pages without
// a text layer. *ocrprocessor.Processor satisfies it.
type Recognizer interface {
	Recognize(ctx context.Context, imageData []byte, progress ocrprocessor.ProgressFunc) (*ocrprocessor.Result, error)
}

// ExtractorConfig holds configuration for PDF extraction.
type ExtractorConfig struct {
	// RenderScale is the raster scale for OCR fallback pages, where 1.0
	// is the page's natural 72 DPI size
	RenderScale float64

	// PageSeparator is inserted between page sections
	// Defaults to "\n\n" if empty
	PageSeparator string
}

// DefaultExtractorConfig returns sensible default configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		RenderScale:   2.0,
		PageSeparator: "\n\n",
	}
}

// PageOutcome records how a single page was handled.
type PageOutcome struct {
	// PageNumber is the 1-indexed page number
	PageNumber int

	// Text is the text obtained for this page (possibly empty)
	Text string

	// UsedOCR is true when the text came from OCR fallback
	UsedOCR bool

	// Error is non-nil if the page failed; page failures are non-fatal
	Error error
}

// ExtractionResult contains the complete result of one extraction run.
type ExtractionResult struct {
	// Text is the concatenated page sections, or NoTextSentinel when
	// the whole document yielded nothing
	Text string

	// Images holds base64 PNG data URLs of every page that was
	// rasterized for OCR fallback, in page order
	Images []string

	// TotalPages is the page count of the document
	TotalPages int

	// ExtractedPages counts pages whose embedded text layer was used
	ExtractedPages int

	// OCRPages counts pages whose text came from OCR fallback
	OCRPages int

	// SkippedPages counts pages that produced no text at all
	SkippedPages int

	// EstimatedTokens is the estimated token count of Text
	EstimatedTokens int

	// Pages contains per-page outcomes
	Pages []PageOutcome

	// ProcessingTime is the total time taken
	ProcessingTime time.Duration
}

// Extractor extracts text from PDF documents.
//
// Thread-Safety:
//   - Extractor is safe for concurrent use; each Extract call opens its
//     own DocumentSource and walks it sequentially.
type Extractor struct {
	config     ExtractorConfig
	recognizer Recognizer
	logger     *logging.Logger
	open       func(data []byte) (DocumentSource, error)
}

// NewExtractor creates a PDF Extractor.
//
// Returns an error if the recognizer or logger is nil.
func NewExtractor(recognizer Recognizer, logger *logging.Logger, config ExtractorConfig) (*Extractor, error) {
	if recognizer == nil {
		return nil, ErrNilRecognizer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if config.RenderScale <= 0 {
		config.RenderScale = 2.0
	}
	if config.PageSeparator == "" {
		config.PageSeparator = "\n\n"
	}

	return &Extractor{
		config:     config,
		recognizer: recognizer,
		logger:     logger.Named("pdf-extractor"),
		open:       OpenDocument,
	}, nil
}

// Extract opens a PDF from an in-memory byte buffer and extracts its
// text. A document that cannot be opened (corrupt, password-protected)
// fails here; individual page failures are swallowed and recorded in the
// result instead.
func (e *Extractor) Extract(ctx context.Context, data []byte, progress ProgressCallback) (*ExtractionResult, error) {
	report(progress, StageExtracting, 10, "loading document")

	source, err := e.open(data)
	if err != nil {
		e.logger.Error("failed to open document", zap.Error(err))
		return nil, err
	}
	defer source.Close()

	return e.ExtractFromSource(ctx, source, progress)
}

// ExtractFromSource walks an already-opened document. The caller retains
// ownership of the source and is responsible for closing it when Extract
// is not the opener.
func (e *Extractor) ExtractFromSource(ctx context.Context, source DocumentSource, progress ProgressCallback) (*ExtractionResult, error) {
	if source == nil {
		return nil, ErrNilSource
	}

	start := time.Now()
	totalPages := source.PageCount()
	log := e.logger.With(zap.Int("total_pages", totalPages))
	log.Info("starting PDF extraction")

	report(progress, StageExtracting, 20, fmt.Sprintf("%d pages to extract", totalPages))

	result := &ExtractionResult{
		TotalPages: totalPages,
		Pages:      make([]PageOutcome, 0, totalPages),
	}

	var textBuilder strings.Builder
	for page := 1; page <= totalPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pdfprocessor: extraction aborted at page %d: %w", page, err)
		}

		outcome := e.extractPage(ctx, source, page, totalPages, result, progress)
		result.Pages = append(result.Pages, outcome)

		switch {
		case outcome.Error != nil:
			// Page-level failure is non-fatal; the rest of the
			// document still completes.
			log.Warn("page extraction failed",
				zap.Int("page", page),
				zap.Error(outcome.Error))
			result.SkippedPages++
		case outcome.Text == "":
			result.SkippedPages++
		default:
			if outcome.UsedOCR {
				result.OCRPages++
			} else {
				result.ExtractedPages++
			}

			marker := PageMarker(page)
			if outcome.UsedOCR {
				marker = OCRPageMarker(page)
			}
			if textBuilder.Len() > 0 {
				textBuilder.WriteString(e.config.PageSeparator)
			}
			textBuilder.WriteString(marker)
			textBuilder.WriteString("\n")
			textBuilder.WriteString(outcome.Text)
		}

		_, bandEnd := PageBand(page, totalPages)
		report(progress, StageExtracting, bandEnd, fmt.Sprintf("page %d/%d", page, totalPages))
	}

	result.Text = textBuilder.String()
	if strings.TrimSpace(result.Text) == "" {
		result.Text = NoTextSentinel
	}
	result.EstimatedTokens = EstimateTokenCount(result.Text)
	result.ProcessingTime = time.Since(start)

	report(progress, StageExtracting, 100, "extraction complete")
	log.Info("PDF extraction completed",
		zap.Int("extracted_pages", result.ExtractedPages),
		zap.Int("ocr_pages", result.OCRPages),
		zap.Int("skipped_pages", result.SkippedPages),
		zap.Int("text_length", len(result.Text)),
		zap.Duration("processing_time", result.ProcessingTime))

	return result, nil
}

// extractPage handles one page: embedded text layer first, OCR fallback
// for pages without one. The rasterized image is collected into the
// result whether or not OCR produced text.
func (e *Extractor) extractPage(ctx context.Context, source DocumentSource, page, totalPages int, result *ExtractionResult, progress ProgressCallback) PageOutcome {
	outcome := PageOutcome{PageNumber: page}

	text, err := source.PageText(page)
	if err != nil {
		outcome.Error = fmt.Errorf("text layer: %w", err)
		return outcome
	}
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		outcome.Text = trimmed
		return outcome
	}

	// No text layer: rasterize and OCR.
	img, err := source.PageImage(page, e.config.RenderScale)
	if err != nil {
		outcome.Error = fmt.Errorf("rasterize: %w", err)
		return outcome
	}

	encoded, err := vision.EncodePNGBase64(img)
	if err != nil {
		outcome.Error = fmt.Errorf("encode: %w", err)
		return outcome
	}
	result.Images = append(result.Images, encoded)

	raster, err := vision.EncodeBMP(img)
	if err != nil {
		outcome.Error = fmt.Errorf("encode: %w", err)
		return outcome
	}

	bandStart, bandEnd := PageBand(page, totalPages)
	ocrResult, err := e.recognizer.Recognize(ctx, raster, func(fraction float64) {
		report(progress, StageOCR, ScaleIntoBand(fraction, bandStart, bandEnd),
			fmt.Sprintf("recognizing page %d/%d", page, totalPages))
	})
	if err != nil {
		outcome.Error = fmt.Errorf("ocr: %w", err)
		return outcome
	}

	outcome.Text = strings.TrimSpace(ocrResult.Text)
	outcome.UsedOCR = true
	return outcome
}

// report invokes a progress callback if one was provided.
func report(progress ProgressCallback, stage string, percent float64, message string) {
	if progress != nil {
		progress(stage, percent, message)
	}
}
