package importer

import (
	"strings"
	"testing"

	"github.com/starford/inkwell/internal/notefile"
	"github.com/starford/inkwell/internal/testutil"
	"github.com/starford/inkwell/internal/textclean"
)

func decode(t *testing.T, pageTexts ...string) *notefile.Notebook {
	t.Helper()
	nb, err := notefile.NewDecoder().Decode(testutil.BuildNote(pageTexts...))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return nb
}

func TestExtractText(t *testing.T) {
	nb := decode(t, "A", "", "B")
	got, err := ExtractText(nb, nil)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "A\nB\n" {
		t.Errorf("text = %q, want %q", got, "A\nB\n")
	}
}

func TestExtractText_NoPages(t *testing.T) {
	nb := decode(t)
	got, err := ExtractText(nb, nil)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "" {
		t.Errorf("text = %q, want empty", got)
	}
}

func TestExtractText_AllPagesEmpty(t *testing.T) {
	nb := decode(t, "", "")
	got, err := ExtractText(nb, nil)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "" {
		t.Errorf("text = %q, want empty", got)
	}
}

func TestExtractText_TransformApplied(t *testing.T) {
	nb := decode(t, "", "middle", "")
	upper := func(s string) string { return strings.ToUpper(s) }
	got, err := ExtractText(nb, upper)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "MIDDLE\n" {
		t.Errorf("text = %q, want %q", got, "MIDDLE\n")
	}
}

func TestExtractText_CleanupOptions(t *testing.T) {
	nb := decode(t, "  padded   words  ")
	got, err := ExtractText(nb, textclean.New(textclean.Options{Trim: true, CollapseSpaces: true}))
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "padded words\n" {
		t.Errorf("text = %q, want %q", got, "padded words\n")
	}
}
