package journal

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/starford/inkwell/internal/apperr"
	"github.com/starford/inkwell/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "inkwell-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM imports`).Scan(&count); err != nil {
		t.Fatalf("imports table missing: %v", err)
	}
}

func TestUpsertAndGet(t *testing.T) {
	db := testDB(t)
	rec := Record{
		DateKey:      "20240315",
		DailyNote:    "Daily/2024-03-15.md",
		ImportedPath: "Daily/Note_Attachments/2024/2024_03_Mar/20240315.note",
		Checksum:     "abc123",
		Status:       models.StatusImported,
	}
	if err := db.Upsert(rec); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := db.Get("20240315")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != models.StatusImported {
		t.Errorf("status = %q", got.Status)
	}
	if got.ImportedPath != rec.ImportedPath {
		t.Errorf("imported path = %q", got.ImportedPath)
	}
	if got.ImportedAt.IsZero() {
		t.Error("imported_at should be populated")
	}
}

func TestUpsertReplacesExisting(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(Record{DateKey: "20240315", Status: models.StatusSkipped, Detail: "no matching device export"})
	_ = db.Upsert(Record{DateKey: "20240315", Status: models.StatusImported, Checksum: "def"})

	got, err := db.Get("20240315")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != models.StatusImported || got.Checksum != "def" {
		t.Errorf("record not replaced: %+v", got)
	}
	if got.Detail != "" {
		t.Errorf("detail should be cleared, got %q", got.Detail)
	}
}

func TestGet_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.Get("19990101")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	db := testDB(t)
	base := time.Now().Add(-time.Hour)
	_ = db.Upsert(Record{DateKey: "20240313", Status: models.StatusImported, ImportedAt: base})
	_ = db.Upsert(Record{DateKey: "20240314", Status: models.StatusSkipped, ImportedAt: base.Add(time.Minute)})
	_ = db.Upsert(Record{DateKey: "20240315", Status: models.StatusFailed, ImportedAt: base.Add(2 * time.Minute)})

	records, err := db.List(0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len = %d, want 3", len(records))
	}
	if records[0].DateKey != "20240315" || records[2].DateKey != "20240313" {
		t.Errorf("unexpected order: %q, %q, %q", records[0].DateKey, records[1].DateKey, records[2].DateKey)
	}
}

func TestList_Limit(t *testing.T) {
	db := testDB(t)
	_ = db.Upsert(Record{DateKey: "20240313", Status: models.StatusImported})
	_ = db.Upsert(Record{DateKey: "20240314", Status: models.StatusImported})

	records, err := db.List(1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("len = %d, want 1", len(records))
	}
}
