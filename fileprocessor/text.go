// text.go implements the plain-text extraction path. Text files are a
// single synchronous read; the staged progress sequence exists so the UI
// behaves identically across file types.
package fileprocessor

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrNotValidText is returned when a file classified as text does not
// hold valid UTF-8.
var ErrNotValidText = errors.New("fileprocessor: file content is not valid text")

// extractText decodes a text file's payload and reports the fixed
// reading/extracting/complete progress sequence.
func extractText(name string, data []byte, progress ProgressFunc) (string, error) {
	emit(progress, StageReading, 0, fmt.Sprintf("reading %s", name))

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrNotValidText, name)
	}
	text := string(data)

	emit(progress, StageExtracting, 50, fmt.Sprintf("extracting text from %s", name))
	emit(progress, StageComplete, 100, "text extraction complete")
	return text, nil
}
