// classifier.go implements format classification for uploaded files.
// Classification is a pure function of file metadata; no content is
// inspected.
package fileprocessor

import (
	"path/filepath"
	"strings"
)

// FileType is the processing strategy chosen for a file.
type FileType string

// Supported file types.
const (
	TypeText  FileType = "text"
	TypeImage FileType = "image"
	TypePDF   FileType = "pdf"
)

// extensionTypes maps known file extensions (lowercased, with dot) to
// their processing strategy.
var extensionTypes = map[string]FileType{
	".pdf":  TypePDF,
	".png":  TypeImage,
	".jpg":  TypeImage,
	".jpeg": TypeImage,
	".gif":  TypeImage,
	".bmp":  TypeImage,
	".webp": TypeImage,
	".txt":  TypeText,
	".md":   TypeText,
	".csv":  TypeText,
}

// Classify picks the processing strategy for a file from its name and
// declared MIME type. The extension wins when recognized; otherwise the
// MIME type decides. Unresolvable files default to image, so OCR gets
// attempted as a last resort rather than rejecting the file.
//
// Example:
//
//	Classify("notes.txt", "")                  // Returns TypeText
//	Classify("scan", "application/pdf")        // Returns TypePDF
//	Classify("mystery.bin", "")                // Returns TypeImage
func Classify(name, mimeType string) FileType {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}

	mime := strings.ToLower(mimeType)
	switch {
	case mime == "application/pdf":
		return TypePDF
	case strings.HasPrefix(mime, "image/"):
		return TypeImage
	case strings.HasPrefix(mime, "text/"):
		return TypeText
	}

	return TypeImage
}
