package ocrprocessor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"path/filepath"
	"testing"

	"edukai_backend/logging"
)

// newTestLogger builds a logger writing to a temp file.
func newTestLogger(t *testing.T) *logging.Logger {
	t.Helper()
	logger, err := logging.NewLogger(true, filepath.Join(t.TempDir(), "test.log"))
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return logger
}

// testImage returns a small valid PNG.
func testImage(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

// fakeBackend is a scriptable OCR backend for tests.
type fakeBackend struct {
	text   string
	err    error
	events []ProgressEvent
	calls  int
	// captured inputs
	lastLang  string
	lastImage []byte
}

func (f *fakeBackend) Recognize(ctx context.Context, img []byte, lang string, report func(ProgressEvent)) (string, error) {
	f.calls++
	f.lastLang = lang
	f.lastImage = img
	for _, ev := range f.events {
		if report != nil {
			report(ev)
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func TestNewProcessor_Validation(t *testing.T) {
	logger := newTestLogger(t)
	backend := &fakeBackend{}

	tests := []struct {
		name    string
		backend Backend
		logger  *logging.Logger
		config  ProcessorConfig
		wantErr bool
	}{
		{"valid", backend, logger, DefaultProcessorConfig(), false},
		{"nil backend", nil, logger, DefaultProcessorConfig(), true},
		{"nil logger", backend, nil, DefaultProcessorConfig(), true},
		{"bad language", backend, logger, ProcessorConfig{Language: "nope!"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProcessor(tt.backend, tt.logger, tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewProcessor error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewProcessor_DefaultsToFrench(t *testing.T) {
	p, err := NewProcessor(&fakeBackend{}, newTestLogger(t), ProcessorConfig{})
	if err != nil {
		t.Fatalf("NewProcessor failed: %v", err)
	}
	if p.Language() != "fra" {
		t.Errorf("Language = %q, want %q", p.Language(), "fra")
	}
}

func TestProcessor_Recognize(t *testing.T) {
	backend := &fakeBackend{text: "Bonjour le monde"}
	p, err := NewProcessor(backend, newTestLogger(t), DefaultProcessorConfig())
	if err != nil {
		t.Fatalf("NewProcessor failed: %v", err)
	}

	result, err := p.Recognize(context.Background(), testImage(t), nil)
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if result.Text != "Bonjour le monde" {
		t.Errorf("Text = %q, want %q", result.Text, "Bonjour le monde")
	}
	if backend.lastLang != "fra" {
		t.Errorf("backend language = %q, want %q", backend.lastLang, "fra")
	}
}

func TestProcessor_Recognize_EmptyImage(t *testing.T) {
	p, _ := NewProcessor(&fakeBackend{}, newTestLogger(t), DefaultProcessorConfig())
	if _, err := p.Recognize(context.Background(), nil, nil); err != ErrEmptyImage {
		t.Errorf("error = %v, want ErrEmptyImage", err)
	}
}

func TestProcessor_Recognize_ImageTooLarge(t *testing.T) {
	config := DefaultProcessorConfig()
	config.MaxImageSize = 4
	p, _ := NewProcessor(&fakeBackend{}, newTestLogger(t), config)

	if _, err := p.Recognize(context.Background(), testImage(t), nil); !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("error = %v, want ErrImageTooLarge", err)
	}
}

func TestProcessor_Recognize_BackendFailure(t *testing.T) {
	backendErr := errors.New("engine crashed")
	p, _ := NewProcessor(&fakeBackend{err: backendErr}, newTestLogger(t), DefaultProcessorConfig())

	_, err := p.Recognize(context.Background(), testImage(t), nil)
	if !errors.Is(err, backendErr) {
		t.Errorf("backend failure should propagate, got %v", err)
	}
}

func TestProcessor_Recognize_ProgressFiltering(t *testing.T) {
	// Only "recognizing text" events reach the caller; other backend
	// phases stay silent.
	backend := &fakeBackend{
		text: "ok",
		events: []ProgressEvent{
			{Status: "loading language model", Fraction: 0.5},
			{Status: StatusRecognizing, Fraction: 0.25},
			{Status: StatusRecognizing, Fraction: 0.75},
			{Status: "finalizing", Fraction: 0.9},
			{Status: StatusRecognizing, Fraction: 1.0},
		},
	}
	p, _ := NewProcessor(backend, newTestLogger(t), DefaultProcessorConfig())

	var fractions []float64
	_, err := p.Recognize(context.Background(), testImage(t), func(f float64) {
		fractions = append(fractions, f)
	})
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}

	want := []float64{0.25, 0.75, 1.0}
	if len(fractions) != len(want) {
		t.Fatalf("got %d progress calls %v, want %d", len(fractions), fractions, len(want))
	}
	for i := range want {
		if fractions[i] != want[i] {
			t.Errorf("fraction[%d] = %v, want %v", i, fractions[i], want[i])
		}
	}
}

func TestProcessor_Recognize_NormalizationFallback(t *testing.T) {
	// Bytes the stdlib cannot decode still reach the backend untouched.
	backend := &fakeBackend{text: "ok"}
	p, _ := NewProcessor(backend, newTestLogger(t), DefaultProcessorConfig())

	raw := []byte("not-a-decodable-image")
	if _, err := p.Recognize(context.Background(), raw, nil); err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if !bytes.Equal(backend.lastImage, raw) {
		t.Error("undecodable input should be passed through to the backend unchanged")
	}
}

func TestProcessor_RecognizeText(t *testing.T) {
	p, _ := NewProcessor(&fakeBackend{text: "short"}, newTestLogger(t), DefaultProcessorConfig())

	text, err := p.RecognizeText(context.Background(), testImage(t))
	if err != nil {
		t.Fatalf("RecognizeText failed: %v", err)
	}
	if text != "short" {
		t.Errorf("text = %q, want %q", text, "short")
	}
}
