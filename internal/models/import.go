// Package models defines the domain types for Inkwell.
package models

// Status is the terminal state of one import attempt.
type Status string

const (
	StatusImported Status = "imported"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
)

// Outcome describes how a single import attempt ended.
type Outcome struct {
	Status       Status `json:"status"`
	DateKey      string `json:"date_key,omitempty"`
	DailyNote    string `json:"daily_note,omitempty"`
	ImportedPath string `json:"imported_path,omitempty"`
	Checksum     string `json:"checksum,omitempty"`
	// Reason explains a skip (e.g. "no matching device export").
	Reason string `json:"reason,omitempty"`
}
