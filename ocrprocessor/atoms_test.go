package ocrprocessor

import (
	"reflect"
	"testing"
)

func TestValidateLanguageCode(t *testing.T) {
	tests := []struct {
		name    string
		lang    string
		wantErr error
	}{
		{"french", "fra", nil},
		{"english", "eng", nil},
		{"multi language", "fra+eng", nil},
		{"three languages", "fra+eng+deu", nil},
		{"with whitespace", "  fra  ", nil},
		{"empty", "", ErrEmptyLanguage},
		{"whitespace only", "   ", ErrEmptyLanguage},
		{"too short", "fr", ErrInvalidLanguage},
		{"uppercase", "FRA", ErrInvalidLanguage},
		{"trailing plus", "fra+", ErrInvalidLanguage},
		{"punctuation", "French!", ErrInvalidLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateLanguageCode(tt.lang); err != tt.wantErr {
				t.Errorf("ValidateLanguageCode(%q) = %v, want %v", tt.lang, err, tt.wantErr)
			}
		})
	}
}

func TestSplitLanguages(t *testing.T) {
	tests := []struct {
		lang string
		want []string
	}{
		{"fra", []string{"fra"}},
		{"fra+eng", []string{"fra", "eng"}},
		{"", nil},
	}

	for _, tt := range tests {
		if got := SplitLanguages(tt.lang); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitLanguages(%q) = %v, want %v", tt.lang, got, tt.want)
		}
	}
}

func TestScaleToPercent(t *testing.T) {
	tests := []struct {
		fraction float64
		want     int
	}{
		{0, 0},
		{-0.5, 0},
		{0.005, 0},
		{0.25, 25},
		{0.425, 42},
		{0.999, 99},
		{1, 100},
		{1.7, 100},
	}

	for _, tt := range tests {
		if got := ScaleToPercent(tt.fraction); got != tt.want {
			t.Errorf("ScaleToPercent(%v) = %d, want %d", tt.fraction, got, tt.want)
		}
	}
}
