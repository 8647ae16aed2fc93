package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/parfold/parfold/internal/domain"
	"github.com/parfold/parfold/internal/journal"
)

// AlertService fronts the journal for the read API. Filter normalization
// and validation live here so handlers stay thin and the journal
// implementations only ever see well-formed filters.
type AlertService struct {
	journal journal.EventJournal
	logger  *zap.Logger
}

func NewAlertService(j journal.EventJournal, logger *zap.Logger) *AlertService {
	return &AlertService{journal: j, logger: logger}
}

// List validates and normalizes the filter, then queries the journal. The
// normalized filter is returned so callers can report the page and limit
// that were actually applied.
func (s *AlertService) List(ctx context.Context, f domain.ListFilter) ([]domain.Event, int, domain.ListFilter, error) {
	if err := f.Normalize(); err != nil {
		return nil, 0, f, err
	}

	events, total, err := s.journal.List(ctx, f)
	if err != nil {
		return nil, 0, f, fmt.Errorf("list events: %w", err)
	}
	return events, total, f, nil
}
