package pdfprocessor

import (
	"math"
	"testing"
)

func TestPageMarker(t *testing.T) {
	tests := []struct {
		page int
		want string
	}{
		{1, "--- Page 1 ---"},
		{42, "--- Page 42 ---"},
	}

	for _, tt := range tests {
		if got := PageMarker(tt.page); got != tt.want {
			t.Errorf("PageMarker(%d) = %q, want %q", tt.page, got, tt.want)
		}
	}
}

func TestOCRPageMarker(t *testing.T) {
	if got := OCRPageMarker(2); got != "--- Page 2 (OCR) ---" {
		t.Errorf("OCRPageMarker(2) = %q", got)
	}
}

func TestPageBand(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		totalPages int
		wantStart  float64
		wantEnd    float64
	}{
		{"first of four", 1, 4, 20, 40},
		{"last of four", 4, 4, 80, 100},
		{"single page", 1, 1, 20, 100},
		{"middle of three", 2, 3, 20 + 80.0/3, 20 + 160.0/3},
		{"zero pages", 1, 0, 20, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := PageBand(tt.page, tt.totalPages)
			if math.Abs(start-tt.wantStart) > 1e-9 || math.Abs(end-tt.wantEnd) > 1e-9 {
				t.Errorf("PageBand(%d, %d) = (%v, %v), want (%v, %v)",
					tt.page, tt.totalPages, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestScaleIntoBand(t *testing.T) {
	tests := []struct {
		name     string
		fraction float64
		start    float64
		end      float64
		want     float64
	}{
		{"midpoint", 0.5, 20, 40, 30},
		{"at start", 0, 20, 40, 20},
		{"at end", 1, 20, 40, 40},
		{"clamped below", -0.5, 20, 40, 20},
		{"clamped above", 1.5, 20, 40, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScaleIntoBand(tt.fraction, tt.start, tt.end); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ScaleIntoBand(%v, %v, %v) = %v, want %v",
					tt.fraction, tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestJoinFragments(t *testing.T) {
	tests := []struct {
		name      string
		fragments []string
		want      string
	}{
		{"simple", []string{"Hello", "world"}, "Hello world"},
		{"skips empty runs", []string{"Hello", "", "world"}, "Hello world"},
		{"empty input", nil, ""},
		{"all empty", []string{"", ""}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoinFragments(tt.fragments); got != tt.want {
				t.Errorf("JoinFragments(%v) = %q, want %q", tt.fragments, got, tt.want)
			}
		})
	}
}

func TestEstimateTokenCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"Hello, world!", 3},
		{"abcd", 1},
	}

	for _, tt := range tests {
		if got := EstimateTokenCount(tt.text); got != tt.want {
			t.Errorf("EstimateTokenCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
