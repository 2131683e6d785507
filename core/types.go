// Package core provides shared types, configuration, and error handling
// for the Edukai ingestion backend.
package core

import (
	"errors"

	"github.com/google/uuid"
)

// ErrEmptyFileName indicates an uploaded file has no name.
var ErrEmptyFileName = errors.New("core: uploaded file has no name")

// UploadedFile is an immutable in-memory representation of a file the
// user added for ingestion. The ID is client-generated and opaque; it is
// the key under which the file's processing state and corpus contribution
// are tracked.
type UploadedFile struct {
	// ID uniquely identifies this file for the lifetime of the session
	ID string

	// Name is the declared file name, including extension
	Name string

	// MimeType is the declared MIME type (may be empty or wrong)
	MimeType string

	// Data is the raw file content
	Data []byte
}

// NewUploadedFile creates an UploadedFile with a fresh client-generated ID.
//
// Returns an error if the name is empty. The data slice is not copied;
// callers must not mutate it after construction.
func NewUploadedFile(name, mimeType string, data []byte) (UploadedFile, error) {
	if name == "" {
		return UploadedFile{}, ErrEmptyFileName
	}
	return UploadedFile{
		ID:       uuid.NewString(),
		Name:     name,
		MimeType: mimeType,
		Data:     data,
	}, nil
}

// Size returns the payload size in bytes.
func (f UploadedFile) Size() int64 {
	return int64(len(f.Data))
}
