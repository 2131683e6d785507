// Package vision provides image decoding, scaling, and encoding helpers
// used by the OCR and PDF extraction engines.
package vision

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Image handling errors
var (
	ErrInvalidImage = errors.New("vision: invalid image data")
	ErrEmptyImage   = errors.New("vision: empty image data")
)

// MinOCRWidth is the minimum raster width below which images are upscaled
// before OCR. Tesseract accuracy degrades sharply on low-resolution input.
const MinOCRWidth = 1000

// DecodeImage decodes image data from common formats (PNG, JPEG, GIF, BMP, WEBP).
// This is a pure function with no side effects.
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	return img, nil
}

// Scale resizes an image by the given factor using high-quality
// Catmull-Rom interpolation. A factor of 1.0 returns the input unchanged.
func Scale(img image.Image, factor float64) image.Image {
	if factor == 1.0 {
		return img
	}

	bounds := img.Bounds()
	newWidth := int(float64(bounds.Dx()) * factor)
	newHeight := int(float64(bounds.Dy()) * factor)
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// NormalizeForOCR decodes raw image bytes and, if the raster is narrower
// than MinOCRWidth, upscales it so the recognition engine has enough
// pixels to work with. Returns PNG-encoded bytes ready for OCR.
func NormalizeForOCR(data []byte) ([]byte, error) {
	img, err := DecodeImage(data)
	if err != nil {
		return nil, err
	}

	width := img.Bounds().Dx()
	if width > 0 && width < MinOCRWidth {
		img = Scale(img, float64(MinOCRWidth)/float64(width))
	}

	return EncodePNG(img)
}

// EncodePNG encodes an image as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("vision: failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodePNGBase64 encodes an image as a base64 data URL, the form in which
// rasterized PDF pages are handed to downstream consumers.
func EncodePNGBase64(img image.Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// EncodeBMP encodes an image as BMP bytes. Tesseract handles uncompressed
// BMP input fastest; this is used when handing rasters straight to OCR.
func EncodeBMP(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("vision: failed to encode BMP: %w", err)
	}
	return buf.Bytes(), nil
}
