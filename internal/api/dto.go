package api

import (
	"github.com/starford/inkwell/internal/journal"
	"github.com/starford/inkwell/internal/models"
)

// ImportRecord is the journal row response type (aliased from the journal layer).
type ImportRecord = journal.Record

// ImportListResponse wraps a listing of import records.
type ImportListResponse struct {
	Imports []ImportRecord `json:"imports"`
	Total   int            `json:"total"`
}

// TriggerResponse is returned after a manual import trigger.
type TriggerResponse struct {
	Outcome *models.Outcome `json:"outcome"`
}
