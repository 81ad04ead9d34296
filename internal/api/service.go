package api

import (
	"context"
	"time"

	"github.com/starford/inkwell/internal/datekey"
	"github.com/starford/inkwell/internal/importer"
	"github.com/starford/inkwell/internal/journal"
	"github.com/starford/inkwell/internal/models"
)

// Service coordinates the journal and the import pipeline for the API layer.
type Service struct {
	journal journal.Store
	imp     *importer.Importer
}

// NewService creates a new API service.
func NewService(j journal.Store, imp *importer.Importer) *Service {
	return &Service{journal: j, imp: imp}
}

// ListImports returns the most recent import records.
func (s *Service) ListImports(_ context.Context, limit int) ([]journal.Record, error) {
	return s.journal.List(limit)
}

// GetImport returns the record for a date, or apperr.ErrNotFound.
func (s *Service) GetImport(_ context.Context, date time.Time) (*journal.Record, error) {
	return s.journal.Get(datekey.Encode(date))
}

// Trigger runs the import pipeline for a date's daily note.
func (s *Service) Trigger(ctx context.Context, date time.Time) (*models.Outcome, error) {
	return s.imp.ImportForDate(ctx, date)
}
