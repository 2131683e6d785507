// processor.go implements the Processor organism that turns one uploaded
// file into extracted text. It composes:
//   - classifier.go: format classification
//   - text.go: plain-text extraction
//   - ocrprocessor: OCR for image files
//   - pdfprocessor: extraction for PDF documents
//   - logging.Logger: structured logging
package fileprocessor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"edukai_backend/core"
	"edukai_backend/logging"
	"edukai_backend/ocrprocessor"
	"edukai_backend/pdfprocessor"

	"go.uber.org/zap"
)

// Common errors for file processing.
var (
	// ErrNilLogger indicates the logger is nil.
	ErrNilLogger = errors.New("fileprocessor: logger cannot be nil")

	// ErrNilEngine indicates a required extraction engine is nil.
	ErrNilEngine = errors.New("fileprocessor: extraction engine cannot be nil")

	// ErrUnsupportedType indicates classification produced a type no
	// engine handles. The classifier cannot currently produce one, but
	// the dispatch tolerates it anyway.
	ErrUnsupportedType = errors.New("fileprocessor: unsupported file type")
)

// ImageRecognizer is the OCR capability used for image files.
// *ocrprocessor.Processor satisfies it.
type ImageRecognizer interface {
	Recognize(ctx context.Context, imageData []byte, progress ocrprocessor.ProgressFunc) (*ocrprocessor.Result, error)
}

// DocumentExtractor is the PDF extraction capability.
// *pdfprocessor.Extractor satisfies it.
type DocumentExtractor interface {
	Extract(ctx context.Context, data []byte, progress pdfprocessor.ProgressCallback) (*pdfprocessor.ExtractionResult, error)
}

// Result is the terminal output of one processing run.
type Result struct {
	// Text is the extracted text; possibly empty, never meaningful as
	// a nil distinction
	Text string

	// Images holds base64 PNG data URLs of rasterized PDF pages that
	// required OCR fallback; nil for text and image files
	Images []string

	// Type echoes the classification used for dispatch
	Type FileType

	// ProcessingTime is the total time taken
	ProcessingTime time.Duration
}

// Processor dispatches uploaded files to the matching extraction engine.
//
// Thread-Safety:
//   - Processor is safe for concurrent use; processing runs for
//     different files are independent.
type Processor struct {
	ocr    ImageRecognizer
	pdf    DocumentExtractor
	logger *logging.Logger
}

// NewProcessor creates a file Processor.
//
// Returns an error if any engine or the logger is nil.
func NewProcessor(ocr ImageRecognizer, pdf DocumentExtractor, logger *logging.Logger) (*Processor, error) {
	if ocr == nil || pdf == nil {
		return nil, ErrNilEngine
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	return &Processor{
		ocr:    ocr,
		pdf:    pdf,
		logger: logger.Named("file-processor"),
	}, nil
}

// ProcessFile classifies the file and runs the matching engine,
// normalizing all progress reporting into the Progress shape.
//
// Engine failures propagate to the caller; the caller decides whether to
// retry the file.
func (p *Processor) ProcessFile(ctx context.Context, file core.UploadedFile, progress ProgressFunc) (*Result, error) {
	start := time.Now()
	fileType := Classify(file.Name, file.MimeType)

	log := p.logger.With(
		zap.String("file_id", file.ID),
		zap.String("file_name", file.Name),
		zap.String("file_type", string(fileType)),
		zap.Int64("size_bytes", file.Size()),
	)
	log.Info("processing file")

	result := &Result{Type: fileType}
	var err error

	switch fileType {
	case TypeText:
		result.Text, err = extractText(file.Name, file.Data, progress)

	case TypeImage:
		result.Text, err = p.processImage(ctx, file, progress)

	case TypePDF:
		result.Text, result.Images, err = p.processPDF(ctx, file, progress)

	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedType, fileType)
	}

	if err != nil {
		log.Error("file processing failed", zap.Error(err))
		return nil, err
	}

	result.ProcessingTime = time.Since(start)
	log.Info("file processing completed",
		zap.Int("text_length", len(result.Text)),
		zap.Int("image_count", len(result.Images)),
		zap.Duration("processing_time", result.ProcessingTime))
	return result, nil
}

// processImage runs OCR over an image file, rescaling the backend's
// fractional progress to percentages.
func (p *Processor) processImage(ctx context.Context, file core.UploadedFile, progress ProgressFunc) (string, error) {
	emit(progress, StageReading, 0, fmt.Sprintf("reading %s", file.Name))

	ocrResult, err := p.ocr.Recognize(ctx, file.Data, func(fraction float64) {
		emit(progress, StageOCR, float64(ocrprocessor.ScaleToPercent(fraction)),
			fmt.Sprintf("recognizing text in %s", file.Name))
	})
	if err != nil {
		return "", err
	}

	emit(progress, StageComplete, 100, "text recognition complete")
	return ocrResult.Text, nil
}

// processPDF runs document extraction, forwarding the extractor's staged
// progress unchanged; its stage vocabulary already matches.
func (p *Processor) processPDF(ctx context.Context, file core.UploadedFile, progress ProgressFunc) (string, []string, error) {
	emit(progress, StageReading, 0, fmt.Sprintf("reading %s", file.Name))

	extraction, err := p.pdf.Extract(ctx, file.Data, func(stage string, percent float64, message string) {
		emit(progress, stage, percent, message)
	})
	if err != nil {
		return "", nil, err
	}

	emit(progress, StageComplete, 100, "document extraction complete")
	return extraction.Text, extraction.Images, nil
}
