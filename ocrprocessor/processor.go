// Package ocrprocessor provides optical character recognition for uploaded
// course material using a Tesseract backend.
//
// processor.go implements the Processor that orchestrates recognition.
// It composes:
//   - client.go: Backend for the underlying OCR engine
//   - atoms.go: language validation and progress conversion
//   - vision: raster normalization before recognition
//   - logging.Logger: structured logging
package ocrprocessor

import (
	"context"
	"errors"
	"time"

	"edukai_backend/logging"
	"edukai_backend/vision"

	"go.uber.org/zap"
)

// DefaultLanguage is the recognition language used when none is configured.
// Edukai's course material is predominantly French.
const DefaultLanguage = "fra"

// ErrProcessorNotConfigured indicates the processor is missing required config.
var ErrProcessorNotConfigured = errors.New("ocrprocessor: processor not properly configured")

// ProcessorConfig holds configuration for the OCR processor.
type ProcessorConfig struct {
	// Language is the Tesseract language code (default: "fra")
	Language string

	// Timeout bounds a single recognition call (0 = unbounded)
	Timeout time.Duration

	// NormalizeInput upscales low-resolution rasters before recognition
	NormalizeInput bool

	// MaxImageSize is the maximum image size in bytes (0 = no limit)
	MaxImageSize int64
}

// DefaultProcessorConfig returns sensible default configuration.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		Language:       DefaultLanguage,
		Timeout:        0,
		NormalizeInput: true,
		MaxImageSize:   20 * 1024 * 1024, // 20MB
	}
}

// ErrImageTooLarge indicates the image exceeds MaxImageSize.
var ErrImageTooLarge = errors.New("ocrprocessor: image exceeds maximum size")

// Result contains the outcome of one recognition call.
type Result struct {
	// Text is the recognized text (possibly empty)
	Text string

	// ProcessingTime is the total time taken
	ProcessingTime time.Duration
}

// ProgressFunc receives fractional completion values in [0,1] while
// recognition is running. Callers may observe no calls at all before the
// backend enters its recognition phase.
type ProgressFunc func(fraction float64)

// Processor orchestrates OCR recognition over a Backend.
//
// Thread-Safety:
//   - Processor is safe for concurrent use; each Recognize call is independent.
type Processor struct {
	config  ProcessorConfig
	backend Backend
	logger  *logging.Logger
}

// NewProcessor creates an OCR Processor.
//
// Returns an error if the backend or logger is nil, or the configured
// language code is invalid.
func NewProcessor(backend Backend, logger *logging.Logger, config ProcessorConfig) (*Processor, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if config.Language == "" {
		config.Language = DefaultLanguage
	}
	if err := ValidateLanguageCode(config.Language); err != nil {
		return nil, err
	}

	return &Processor{
		config:  config,
		backend: backend,
		logger:  logger.Named("ocr-processor"),
	}, nil
}

// Language returns the configured recognition language.
func (p *Processor) Language() string {
	return p.config.Language
}

// Recognize extracts text from image data.
//
// The progress callback, if non-nil, receives fractional completion values
// in [0,1]; only the backend's "recognizing text" phase is surfaced, so the
// first call may arrive well after Recognize itself was entered. A backend
// failure is fatal for this call; the caller decides whether to retry.
func (p *Processor) Recognize(ctx context.Context, imageData []byte, progress ProgressFunc) (*Result, error) {
	if p.backend == nil {
		return nil, ErrProcessorNotConfigured
	}
	if len(imageData) == 0 {
		return nil, ErrEmptyImage
	}
	if p.config.MaxImageSize > 0 && int64(len(imageData)) > p.config.MaxImageSize {
		return nil, ErrImageTooLarge
	}

	start := time.Now()
	log := p.logger.With(zap.Int("image_size_bytes", len(imageData)))
	log.Info("starting OCR recognition")

	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	input := imageData
	if p.config.NormalizeInput {
		normalized, err := vision.NormalizeForOCR(imageData)
		if err != nil {
			// The backend gets a chance at the raw bytes; formats the
			// stdlib cannot decode may still be readable by Tesseract.
			log.Warn("raster normalization failed, using raw image", zap.Error(err))
		} else {
			input = normalized
		}
	}

	text, err := p.backend.Recognize(ctx, input, p.config.Language, func(ev ProgressEvent) {
		if progress == nil || ev.Status != StatusRecognizing {
			return
		}
		progress(ev.Fraction)
	})
	if err != nil {
		log.Error("OCR recognition failed", zap.Error(err))
		return nil, err
	}

	elapsed := time.Since(start)
	log.Info("OCR recognition completed",
		zap.Int("text_length", len(text)),
		zap.Duration("processing_time", elapsed))

	return &Result{
		Text:           text,
		ProcessingTime: elapsed,
	}, nil
}

// RecognizeText is a convenience method returning only the recognized text.
func (p *Processor) RecognizeText(ctx context.Context, imageData []byte) (string, error) {
	result, err := p.Recognize(ctx, imageData, nil)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}
