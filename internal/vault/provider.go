// Package vault defines the host-side vault file-system abstraction.
package vault

// CreateResult is the discriminated outcome of a folder creation.
type CreateResult int

const (
	Created CreateResult = iota
	AlreadyExists
)

// Provider is the interface for vault file operations. All paths are
// relative to the vault root and use forward slashes.
type Provider interface {
	// Exists reports whether a regular file exists at path.
	Exists(path string) bool
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// CreateFolder creates dir and any missing parents. It distinguishes
	// "already exists" from real failures so callers can treat repeated
	// creation as idempotent.
	CreateFolder(dir string) (CreateResult, error)
	// ReplaceContent reads the file at path, applies transform to its
	// content, and atomically writes the result back.
	ReplaceContent(path string, transform func(string) string) error
	// Abs returns the absolute file-system path for a vault path.
	Abs(path string) (string, error)
}
