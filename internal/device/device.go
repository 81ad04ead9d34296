// Package device provides read-only access to the folder where the
// handwriting device drops its exports, and locates exports by date.
package device

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/inkwell/internal/datekey"
	"github.com/starford/inkwell/internal/placement"
)

// Provider is the read-only device file-system abstraction.
type Provider interface {
	// Exists reports whether name exists under the export root.
	Exists(name string) bool
	// Read returns the raw bytes of the export at name.
	Read(name string) ([]byte, error)
}

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path to the device export root
}

// NewFS creates a provider rooted at the configured export root.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("device: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("device: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("device: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

var _ Provider = (*FS)(nil)

// safeName rejects anything that is not a plain filename directly under the
// export root (exports use a flat layout, no subfolders).
func (f *FS) safeName(name string) (string, error) {
	cleaned := filepath.Clean(name)
	if cleaned == "" || cleaned != filepath.Base(cleaned) || strings.HasPrefix(cleaned, ".") {
		return "", fmt.Errorf("device: invalid export name: %s", name)
	}
	return filepath.Join(f.root, cleaned), nil
}

// Exists reports whether a regular file exists at name.
func (f *FS) Exists(name string) bool {
	abs, err := f.safeName(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && info.Mode().IsRegular()
}

// Read returns the raw bytes of the export at name.
func (f *FS) Read(name string) ([]byte, error) {
	abs, err := f.safeName(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("device: read %s: %w", name, err)
	}
	return data, nil
}

// Locate returns the export filename for the given date if the device
// produced one. A missing export is a normal outcome, not an error.
func Locate(fs Provider, t time.Time) (string, bool) {
	name := datekey.Encode(t) + placement.Ext
	if !fs.Exists(name) {
		return "", false
	}
	return name, true
}
