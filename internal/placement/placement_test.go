package placement

import (
	"strings"
	"testing"
	"time"
)

func TestAttachmentDir(t *testing.T) {
	d := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	got := AttachmentDir("Daily", d)
	want := "Daily/Note_Attachments/2024/2024_03_Mar"
	if got != want {
		t.Errorf("AttachmentDir = %q, want %q", got, want)
	}
}

func TestAttachmentDir_Segments(t *testing.T) {
	dates := []time.Time{
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.Local),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.Local),
	}
	for _, d := range dates {
		got := AttachmentDir("Daily", d)
		year := d.Format("2006")
		parts := strings.Split(got, "/")
		if len(parts) != 4 {
			t.Fatalf("unexpected segments in %q", got)
		}
		if parts[2] != year {
			t.Errorf("year segment = %q, want %q", parts[2], year)
		}
		if !strings.HasPrefix(parts[3], year+"_"+d.Format("01")+"_") {
			t.Errorf("month segment = %q", parts[3])
		}
	}
}

func TestAttachmentDir_VaultRootBase(t *testing.T) {
	d := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	got := AttachmentDir(".", d)
	if got != "Note_Attachments/2024/2024_03_Mar" {
		t.Errorf("AttachmentDir = %q", got)
	}
}

func TestImportedFile(t *testing.T) {
	got := ImportedFile("Daily/Note_Attachments/2024/2024_03_Mar", "20240315")
	want := "Daily/Note_Attachments/2024/2024_03_Mar/20240315.note"
	if got != want {
		t.Errorf("ImportedFile = %q, want %q", got, want)
	}
}
