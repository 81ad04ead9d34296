// Package testutil provides shared test helpers for setting up vaults,
// device roots, journals, and synthetic device note containers.
package testutil

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/inkwell/internal/device"
	"github.com/starford/inkwell/internal/journal"
	"github.com/starford/inkwell/internal/vault"
)

// TestVault creates a temporary vault directory with a vault.Provider.
func TestVault(t *testing.T) (string, *vault.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := vault.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// TestDeviceRoot creates a temporary device export root with a provider.
func TestDeviceRoot(t *testing.T) (string, *device.FS) {
	t.Helper()
	dir := t.TempDir()
	fs, err := device.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, fs
}

// TestJournal creates a temporary SQLite journal that is automatically
// cleaned up.
func TestJournal(t *testing.T) *journal.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "inkwell-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := journal.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// BuildNote assembles a synthetic device note container with one page per
// entry in pageTexts. An empty string produces a page without recognition
// data. Multi-line texts become one recognition element per line.
func BuildNote(pageTexts ...string) []byte {
	buf := []byte("noteSN")

	appendBlock := func(payload []byte) uint32 {
		addr := uint32(len(buf))
		var size [4]byte
		binary.LittleEndian.PutUint32(size[:], uint32(len(payload)))
		buf = append(buf, size[:]...)
		buf = append(buf, payload...)
		return addr
	}

	var pageAddrs []uint32
	for _, text := range pageTexts {
		meta := "<RECOGNTEXT:0>"
		if text != "" {
			recogAddr := appendBlock(recognitionPayload(text))
			meta = fmt.Sprintf("<RECOGNTEXT:%d>", recogAddr)
		}
		pageAddrs = append(pageAddrs, appendBlock([]byte(meta)))
	}

	footer := "<FILE_TYPE:NOTE>"
	for i, addr := range pageAddrs {
		footer += fmt.Sprintf("<PAGE%d:%d>", i+1, addr)
	}
	footerAddr := appendBlock([]byte(footer))

	var trailer [4]byte
	binary.LittleEndian.PutUint32(trailer[:], footerAddr)
	return append(buf, trailer[:]...)
}

// WriteExport writes a synthetic device export named <key>.note into dir.
func WriteExport(t *testing.T, dir, key string, pageTexts ...string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, key+".note"), BuildNote(pageTexts...), 0o644); err != nil {
		t.Fatal(err)
	}
}

func recognitionPayload(text string) []byte {
	type element struct {
		Type  string `json:"type"`
		Label string `json:"label"`
	}
	var elements []element
	for _, line := range strings.Split(text, "\n") {
		elements = append(elements, element{Type: "Text", Label: line})
	}
	raw, _ := json.Marshal(map[string]any{"elements": elements})
	return []byte(base64.StdEncoding.EncodeToString(raw))
}
