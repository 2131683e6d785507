package vision

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

// makeTestPNG creates a width x height PNG for testing.
func makeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	data := makeTestPNG(t, 10, 20)

	img, err := DecodeImage(data)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 20 {
		t.Errorf("bounds = %v, want 10x20", img.Bounds())
	}
}

func TestDecodeImage_Empty(t *testing.T) {
	if _, err := DecodeImage(nil); err != ErrEmptyImage {
		t.Errorf("error = %v, want ErrEmptyImage", err)
	}
}

func TestDecodeImage_Garbage(t *testing.T) {
	_, err := DecodeImage([]byte("not an image"))
	if err == nil {
		t.Fatal("garbage bytes should fail to decode")
	}
}

func TestScale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))

	scaled := Scale(img, 2.0)
	if scaled.Bounds().Dx() != 200 || scaled.Bounds().Dy() != 100 {
		t.Errorf("scaled bounds = %v, want 200x100", scaled.Bounds())
	}
}

func TestScale_Identity(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if got := Scale(img, 1.0); got != img {
		t.Error("factor 1.0 should return the input image unchanged")
	}
}

func TestScale_TinyResult(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	scaled := Scale(img, 0.1)
	if scaled.Bounds().Dx() < 1 || scaled.Bounds().Dy() < 1 {
		t.Errorf("scaled image should never collapse to zero size, got %v", scaled.Bounds())
	}
}

func TestNormalizeForOCR_UpscalesSmallImages(t *testing.T) {
	data := makeTestPNG(t, 100, 40)

	normalized, err := NormalizeForOCR(data)
	if err != nil {
		t.Fatalf("NormalizeForOCR failed: %v", err)
	}

	img, err := DecodeImage(normalized)
	if err != nil {
		t.Fatalf("normalized output should decode: %v", err)
	}
	if img.Bounds().Dx() != MinOCRWidth {
		t.Errorf("width = %d, want %d", img.Bounds().Dx(), MinOCRWidth)
	}
}

func TestNormalizeForOCR_KeepsLargeImages(t *testing.T) {
	data := makeTestPNG(t, MinOCRWidth+200, 400)

	normalized, err := NormalizeForOCR(data)
	if err != nil {
		t.Fatalf("NormalizeForOCR failed: %v", err)
	}

	img, err := DecodeImage(normalized)
	if err != nil {
		t.Fatalf("normalized output should decode: %v", err)
	}
	if img.Bounds().Dx() != MinOCRWidth+200 {
		t.Errorf("large image should not be rescaled, width = %d", img.Bounds().Dx())
	}
}

func TestEncodePNGBase64(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	encoded, err := EncodePNGBase64(img)
	if err != nil {
		t.Fatalf("EncodePNGBase64 failed: %v", err)
	}

	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(encoded, prefix) {
		t.Fatalf("encoded string should carry data URL prefix, got %q", encoded[:20])
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(encoded, prefix))
	if err != nil {
		t.Fatalf("payload should be valid base64: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(raw)); err != nil {
		t.Errorf("payload should be a valid PNG: %v", err)
	}
}

func TestEncodeBMP(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	data, err := EncodeBMP(img)
	if err != nil {
		t.Fatalf("EncodeBMP failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("BMP output should not be empty")
	}
	// BMP magic
	if data[0] != 'B' || data[1] != 'M' {
		t.Errorf("BMP header = %q, want BM", data[:2])
	}
}
