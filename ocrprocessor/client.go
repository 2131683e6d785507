// Package ocrprocessor provides optical character recognition for uploaded
// course material using a Tesseract backend.
//
// client.go implements the TesseractBackend that wraps gosseract for
// recognition calls. It composes:
//   - atoms.go: language code validation
//   - logging.Logger: structured logging
package ocrprocessor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"edukai_backend/logging"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

// StatusRecognizing is the backend status during the text recognition
// phase. Only events carrying this status are surfaced as caller-visible
// progress; internal phases (initialization, layout analysis) stay silent.
const StatusRecognizing = "recognizing text"

// ProgressEvent is a raw progress report from an OCR backend.
type ProgressEvent struct {
	// Status names the backend phase producing this event
	Status string

	// Fraction is the completion of that phase in [0,1]
	Fraction float64
}

// Backend abstracts the OCR engine so the processor can be exercised
// against fakes in tests. Implementations report zero or more progress
// events before returning the recognized text.
type Backend interface {
	Recognize(ctx context.Context, image []byte, lang string, report func(ProgressEvent)) (string, error)
}

// Common errors for OCR operations.
var (
	// ErrNilLogger indicates the logger is nil.
	ErrNilLogger = errors.New("ocrprocessor: logger cannot be nil")

	// ErrNilBackend indicates the OCR backend is nil.
	ErrNilBackend = errors.New("ocrprocessor: backend cannot be nil")

	// ErrEmptyImage indicates empty image data was provided.
	ErrEmptyImage = errors.New("ocrprocessor: image data is empty")
)

// TesseractBackend performs OCR through a local Tesseract installation
// via gosseract.
//
// Thread-Safety:
//   - TesseractBackend is safe for concurrent use; each Recognize call
//     creates its own gosseract client, which is not shareable.
type TesseractBackend struct {
	logger *logging.Logger
}

// NewTesseractBackend creates a Backend backed by the local Tesseract
// installation. Returns an error if the logger is nil.
func NewTesseractBackend(logger *logging.Logger) (*TesseractBackend, error) {
	if logger == nil {
		return nil, ErrNilLogger
	}
	return &TesseractBackend{
		logger: logger.Named("tesseract"),
	}, nil
}

// Recognize runs Tesseract over the image bytes.
//
// Tesseract does not stream fine-grained progress, so the backend reports
// a single "recognizing text" event at the start and one at completion;
// fakes in tests report denser sequences. A context already cancelled
// before the call returns immediately; an in-flight Text() call cannot be
// interrupted.
func (b *TesseractBackend) Recognize(ctx context.Context, image []byte, lang string, report func(ProgressEvent)) (string, error) {
	if len(image) == 0 {
		return "", ErrEmptyImage
	}
	if err := ValidateLanguageCode(lang); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("ocrprocessor: recognition aborted: %w", err)
	}

	start := time.Now()
	log := b.logger.With(
		zap.Int("image_size_bytes", len(image)),
		zap.String("language", lang),
	)
	log.Debug("starting tesseract recognition")

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(SplitLanguages(lang)...); err != nil {
		return "", fmt.Errorf("ocrprocessor: failed to set language %q: %w", lang, err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("ocrprocessor: failed to load image: %w", err)
	}

	if report != nil {
		report(ProgressEvent{Status: StatusRecognizing, Fraction: 0})
	}

	text, err := client.Text()
	if err != nil {
		log.Error("tesseract recognition failed", zap.Error(err))
		return "", fmt.Errorf("ocrprocessor: recognition failed: %w", err)
	}

	if report != nil {
		report(ProgressEvent{Status: StatusRecognizing, Fraction: 1})
	}

	log.Debug("tesseract recognition completed",
		zap.Int("text_length", len(text)),
		zap.Duration("duration", time.Since(start)))

	return text, nil
}
