package db

import (
	"context"
	"path/filepath"
	"testing"
)

// newTestDatabase opens a migrated database in a temp dir. Migrations
// are resolved relative to the package directory.
func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	migrations, err := filepath.Abs("migrations")
	if err != nil {
		t.Fatalf("failed to resolve migrations path: %v", err)
	}

	database, err := NewDatabaseWithConfig(DatabaseConfig{
		Path:           filepath.Join(t.TempDir(), "test.db"),
		MigrationsPath: "file://" + migrations,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestRepository_InsertAndListExtractionHistory(t *testing.T) {
	repo := NewRepository(newTestDatabase(t), nil)
	ctx := context.Background()

	id, err := repo.InsertExtractionRecord(ctx, ExtractionRecord{
		FileID:     "f1",
		FileName:   "cours.pdf",
		FileType:   "pdf",
		Status:     StatusSuccess,
		TextLength: 1234,
		TotalPages: 3,
		OCRPages:   1,
		DurationMS: 875,
	})
	if err != nil {
		t.Fatalf("InsertExtractionRecord failed: %v", err)
	}
	if id == 0 {
		t.Error("synchronous insert should return the row id")
	}

	if _, err := repo.InsertExtractionRecord(ctx, ExtractionRecord{
		FileID:       "f2",
		FileName:     "corrupt.pdf",
		FileType:     "pdf",
		Status:       StatusError,
		ErrorMessage: "bad xref table",
	}); err != nil {
		t.Fatalf("second insert failed: %v", err)
	}

	records, err := repo.ListExtractionHistory(ctx, 10)
	if err != nil {
		t.Fatalf("ListExtractionHistory failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	// Newest first.
	if records[0].FileID != "f2" || records[1].FileID != "f1" {
		t.Errorf("ordering = %s, %s; want f2, f1", records[0].FileID, records[1].FileID)
	}
	if records[1].TotalPages != 3 || records[1].OCRPages != 1 {
		t.Errorf("page counts not round-tripped: %+v", records[1])
	}
	if records[0].ErrorMessage != "bad xref table" {
		t.Errorf("ErrorMessage = %q", records[0].ErrorMessage)
	}
}

func TestRepository_AsyncInsert(t *testing.T) {
	writer := NewAsyncWriter()
	writer.Start()
	repo := NewRepository(newTestDatabase(t), writer)
	ctx := context.Background()

	id, err := repo.InsertExtractionRecord(ctx, ExtractionRecord{
		FileID:   "f1",
		FileName: "notes.txt",
		FileType: "text",
		Status:   StatusSuccess,
	})
	if err != nil {
		t.Fatalf("async insert failed: %v", err)
	}
	if id != 0 {
		t.Errorf("async insert id = %d, want 0", id)
	}

	if !writer.Stop() {
		t.Fatal("writer drain timed out")
	}

	records, err := repo.ListExtractionHistory(ctx, 10)
	if err != nil {
		t.Fatalf("ListExtractionHistory failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records after drain, want 1", len(records))
	}
}

func TestRepository_CorpusEntries(t *testing.T) {
	repo := NewRepository(newTestDatabase(t), nil)
	ctx := context.Background()

	if err := repo.UpsertCorpusEntry(ctx, "f1", "chapter one"); err != nil {
		t.Fatalf("UpsertCorpusEntry failed: %v", err)
	}
	if err := repo.UpsertCorpusEntry(ctx, "f2", "chapter two"); err != nil {
		t.Fatalf("UpsertCorpusEntry failed: %v", err)
	}

	// Same file replaces its contribution.
	if err := repo.UpsertCorpusEntry(ctx, "f1", "chapter one revised"); err != nil {
		t.Fatalf("upsert replace failed: %v", err)
	}

	entries, err := repo.LoadCorpusEntries(ctx)
	if err != nil {
		t.Fatalf("LoadCorpusEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].FileID != "f1" || entries[0].Text != "chapter one revised" {
		t.Errorf("entry[0] = %+v, want revised f1 text", entries[0])
	}
	if entries[0].TextHash != HashText("chapter one revised") {
		t.Error("TextHash does not match the stored text")
	}

	if err := repo.DeleteCorpusEntry(ctx, "f1"); err != nil {
		t.Fatalf("DeleteCorpusEntry failed: %v", err)
	}
	entries, err = repo.LoadCorpusEntries(ctx)
	if err != nil {
		t.Fatalf("LoadCorpusEntries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].FileID != "f2" {
		t.Errorf("entries after delete = %+v, want only f2", entries)
	}

	// Deleting an unknown id is a no-op.
	if err := repo.DeleteCorpusEntry(ctx, "ghost"); err != nil {
		t.Errorf("delete of unknown id should not fail: %v", err)
	}
}

func TestHashText(t *testing.T) {
	a := HashText("same")
	b := HashText("same")
	c := HashText("different")

	if a != b {
		t.Error("identical text must hash identically")
	}
	if a == c {
		t.Error("different text must hash differently")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestNewDatabase_CreatesParentDirectories(t *testing.T) {
	migrations, err := filepath.Abs("migrations")
	if err != nil {
		t.Fatalf("failed to resolve migrations path: %v", err)
	}

	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	database, err := NewDatabaseWithConfig(DatabaseConfig{
		Path:           path,
		MigrationsPath: "file://" + migrations,
	})
	if err != nil {
		t.Fatalf("NewDatabaseWithConfig failed: %v", err)
	}
	defer database.Close()

	if database.Path() != path {
		t.Errorf("Path() = %q, want %q", database.Path(), path)
	}
}

func TestMigrateUp_IsIdempotent(t *testing.T) {
	migrations, err := filepath.Abs("migrations")
	if err != nil {
		t.Fatalf("failed to resolve migrations path: %v", err)
	}
	path := filepath.Join(t.TempDir(), "test.db")

	if err := MigrateUpFromPath(path, "file://"+migrations); err != nil {
		t.Fatalf("first migration failed: %v", err)
	}
	// Second run hits ErrNoChange, which is not an error.
	if err := MigrateUpFromPath(path, "file://"+migrations); err != nil {
		t.Fatalf("re-running migrations failed: %v", err)
	}
}
