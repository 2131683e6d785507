// repository.go provides CRUD operations over the extraction_history
// and corpus_entries tables.
package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Extraction statuses recorded in history.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ExtractionRecord is one row of extraction_history: the outcome of a
// single extraction run.
type ExtractionRecord struct {
	ID           int64     // Auto-incremented primary key
	FileID       string    // Client-generated file id
	FileName     string    // Declared file name
	FileType     string    // Classification used: "text", "image", "pdf"
	Status       string    // "success" or "error"
	TextLength   int       // Length of the extracted text
	TotalPages   int       // Page count for PDFs, 0 otherwise
	OCRPages     int       // Pages that needed OCR fallback
	DurationMS   int       // Extraction duration in milliseconds
	ErrorMessage string    // Failure cause when Status is "error"
	CreatedAt    time.Time // Timestamp when the record was created
}

// CorpusEntry is one row of corpus_entries: a file's persisted corpus
// contribution.
type CorpusEntry struct {
	ID        int64     // Auto-incremented primary key
	FileID    string    // Contributing file id (unique)
	TextHash  string    // SHA-256 of the text, hex-encoded
	Text      string    // The contributed text
	CreatedAt time.Time // Timestamp when the entry was created
}

// Repository provides typed access to the database tables. The
// asyncWriter is optional; when present, inserts are queued instead of
// blocking the caller.
type Repository struct {
	db          *Database
	asyncWriter *AsyncWriter
}

// NewRepository creates a Repository. Pass a nil asyncWriter for
// synchronous writes.
func NewRepository(database *Database, asyncWriter *AsyncWriter) *Repository {
	return &Repository{
		db:          database,
		asyncWriter: asyncWriter,
	}
}

// HashText returns the hex-encoded SHA-256 of a corpus text.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// InsertExtractionRecord records one extraction run. With an async
// writer configured the insert is queued and the returned id is 0.
func (r *Repository) InsertExtractionRecord(ctx context.Context, record ExtractionRecord) (int64, error) {
	if r.db == nil {
		return 0, fmt.Errorf("db: database connection is nil")
	}

	const query = `
		INSERT INTO extraction_history (
			file_id, file_name, file_type, status,
			text_length, total_pages, ocr_pages, duration_ms, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := []interface{}{
		record.FileID,
		record.FileName,
		record.FileType,
		record.Status,
		record.TextLength,
		record.TotalPages,
		record.OCRPages,
		record.DurationMS,
		record.ErrorMessage,
	}

	if r.asyncWriter != nil {
		queued := r.asyncWriter.Enqueue(func(jobCtx context.Context) error {
			_, err := r.db.DB().ExecContext(jobCtx, query, args...)
			return err
		})
		if !queued {
			return 0, fmt.Errorf("db: write queue full, extraction record dropped")
		}
		return 0, nil
	}

	result, err := r.db.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db: failed to insert extraction record: %w", err)
	}
	return result.LastInsertId()
}

// ListExtractionHistory returns the most recent extraction records,
// newest first.
func (r *Repository) ListExtractionHistory(ctx context.Context, limit int) ([]ExtractionRecord, error) {
	if r.db == nil {
		return nil, fmt.Errorf("db: database connection is nil")
	}
	if limit <= 0 {
		limit = 50
	}

	const query = `
		SELECT id, file_id, file_name, file_type, status,
		       text_length, total_pages, ocr_pages, duration_ms, error_message, created_at
		FROM extraction_history
		ORDER BY id DESC
		LIMIT ?`

	rows, err := r.db.DB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db: failed to query extraction history: %w", err)
	}
	defer rows.Close()

	var records []ExtractionRecord
	for rows.Next() {
		var rec ExtractionRecord
		if err := rows.Scan(
			&rec.ID, &rec.FileID, &rec.FileName, &rec.FileType, &rec.Status,
			&rec.TextLength, &rec.TotalPages, &rec.OCRPages, &rec.DurationMS,
			&rec.ErrorMessage, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("db: failed to scan extraction record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// UpsertCorpusEntry persists a file's corpus contribution, replacing any
// previous contribution by the same file.
func (r *Repository) UpsertCorpusEntry(ctx context.Context, fileID, text string) error {
	if r.db == nil {
		return fmt.Errorf("db: database connection is nil")
	}

	const query = `
		INSERT INTO corpus_entries (file_id, text_hash, text)
		VALUES (?, ?, ?)
		ON CONFLICT(file_id) DO UPDATE SET text_hash = excluded.text_hash, text = excluded.text`

	if _, err := r.db.DB().ExecContext(ctx, query, fileID, HashText(text), text); err != nil {
		return fmt.Errorf("db: failed to upsert corpus entry: %w", err)
	}
	return nil
}

// DeleteCorpusEntry removes a file's persisted contribution. Deleting an
// unknown file id is a no-op.
func (r *Repository) DeleteCorpusEntry(ctx context.Context, fileID string) error {
	if r.db == nil {
		return fmt.Errorf("db: database connection is nil")
	}
	if _, err := r.db.DB().ExecContext(ctx, `DELETE FROM corpus_entries WHERE file_id = ?`, fileID); err != nil {
		return fmt.Errorf("db: failed to delete corpus entry: %w", err)
	}
	return nil
}

// LoadCorpusEntries returns all persisted corpus entries in insertion
// order, for reloading a session.
func (r *Repository) LoadCorpusEntries(ctx context.Context) ([]CorpusEntry, error) {
	if r.db == nil {
		return nil, fmt.Errorf("db: database connection is nil")
	}

	const query = `
		SELECT id, file_id, text_hash, text, created_at
		FROM corpus_entries
		ORDER BY id ASC`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db: failed to query corpus entries: %w", err)
	}
	defer rows.Close()

	var entries []CorpusEntry
	for rows.Next() {
		var e CorpusEntry
		if err := rows.Scan(&e.ID, &e.FileID, &e.TextHash, &e.Text, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("db: failed to scan corpus entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
