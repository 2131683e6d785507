// Package ocrprocessor provides optical character recognition for uploaded
// course material using a Tesseract backend.
//
// atoms.go contains pure validation and conversion functions with no dependencies.
package ocrprocessor

import (
	"errors"
	"regexp"
	"strings"
)

// Common validation errors for OCR processing.
var (
	// ErrEmptyLanguage indicates the language code is empty or whitespace.
	ErrEmptyLanguage = errors.New("ocrprocessor: language code is empty")

	// ErrInvalidLanguage indicates the language code does not match the
	// expected Tesseract format.
	ErrInvalidLanguage = errors.New("ocrprocessor: language code has invalid format")
)

// languageCodePattern matches Tesseract traineddata language codes:
// three-letter ISO 639-2 codes, optionally script-qualified
// (e.g. "fra", "eng", "deu", "script/Latin" style codes are not accepted),
// joined with "+" for multi-language recognition (e.g. "fra+eng").
var languageCodePattern = regexp.MustCompile(`^[a-z]{3}(_[a-z]{3,4})?(\+[a-z]{3}(_[a-z]{3,4})?)*$`)

// ValidateLanguageCode validates a Tesseract language code.
//
// This is a pure function with no dependencies.
//
// Example:
//
//	err := ValidateLanguageCode("fra")      // nil
//	err := ValidateLanguageCode("fra+eng")  // nil
//	err := ValidateLanguageCode("")         // ErrEmptyLanguage
//	err := ValidateLanguageCode("French!")  // ErrInvalidLanguage
func ValidateLanguageCode(lang string) error {
	trimmed := strings.TrimSpace(lang)
	if trimmed == "" {
		return ErrEmptyLanguage
	}
	if !languageCodePattern.MatchString(trimmed) {
		return ErrInvalidLanguage
	}
	return nil
}

// SplitLanguages splits a combined language code ("fra+eng") into its
// component codes for backends configured per-language.
func SplitLanguages(lang string) []string {
	trimmed := strings.TrimSpace(lang)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "+")
}

// ScaleToPercent converts a fractional completion value in [0,1] to an
// integer percentage in [0,100], clamping out-of-range input.
//
// Example:
//
//	ScaleToPercent(0.425) // 42
//	ScaleToPercent(-0.5)  // 0
//	ScaleToPercent(1.7)   // 100
func ScaleToPercent(fraction float64) int {
	if fraction <= 0 {
		return 0
	}
	if fraction >= 1 {
		return 100
	}
	return int(fraction * 100)
}
