// Package pdfprocessor provides PDF text extraction for Edukai course
// material, combining embedded text-layer extraction with OCR fallback
// for scanned pages.
package pdfprocessor

import (
	"fmt"
	"strings"
)

// NoTextSentinel is returned as the result text when a document yields no
// extractable text at all. Downstream consumers use it to distinguish
// "processed, genuinely empty" from "not yet processed".
const NoTextSentinel = "No text found in document"

// PageMarker formats the section header inserted before a page's
// embedded text.
//
// Example:
//
//	PageMarker(3) // Returns "--- Page 3 ---"
func PageMarker(page int) string {
	return fmt.Sprintf("--- Page %d ---", page)
}

// OCRPageMarker formats the section header inserted before text recovered
// through OCR fallback, so downstream consumers can tell recognized text
// apart from embedded text.
//
// Example:
//
//	OCRPageMarker(3) // Returns "--- Page 3 (OCR) ---"
func OCRPageMarker(page int) string {
	return fmt.Sprintf("--- Page %d (OCR) ---", page)
}

// PageBand returns the progress band (in percent) assigned to one page of
// an N-page document. The first 20% of the run covers loading and page
// counting; the remaining 80% is divided evenly across pages.
//
// Example:
//
//	start, end := PageBand(1, 4) // Returns 20, 40
//	start, end := PageBand(4, 4) // Returns 80, 100
func PageBand(page, totalPages int) (start, end float64) {
	if totalPages <= 0 || page <= 0 {
		return 20, 100
	}
	start = 20 + 80*float64(page-1)/float64(totalPages)
	end = 20 + 80*float64(page)/float64(totalPages)
	return start, end
}

// ScaleIntoBand maps a fractional completion value in [0,1] into the
// given progress band. Out-of-range fractions are clamped.
//
// Example:
//
//	ScaleIntoBand(0.5, 20, 40) // Returns 30
func ScaleIntoBand(fraction, start, end float64) float64 {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return start + fraction*(end-start)
}

// JoinFragments concatenates text-run fragments from a page's content
// stream, space-joined, skipping empty runs.
//
// This is a pure function with no dependencies.
func JoinFragments(fragments []string) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f == "" {
			continue
		}
		parts = append(parts, f)
	}
	return strings.Join(parts, " ")
}

// EstimateTokenCount provides a rough estimate of tokens in a text,
// using an average of 4 characters per token. A reasonable heuristic
// for GPT-style tokenizers.
//
// Example:
//
//	tokens := EstimateTokenCount("Hello, world!") // Returns 3
//	tokens := EstimateTokenCount("")              // Returns 0
func EstimateTokenCount(text string) int {
	if len(text) == 0 {
		return 0
	}
	return len(text) / 4
}
