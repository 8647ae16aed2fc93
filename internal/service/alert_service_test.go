package service_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/parfold/parfold/internal/domain"
	"github.com/parfold/parfold/internal/journal"
	"github.com/parfold/parfold/internal/service"
)

func seedJournal(t *testing.T) *journal.MemJournal {
	t.Helper()
	j := journal.NewMemJournal()
	err := j.Insert(context.Background(), []domain.Event{
		{ID: "1", EntityID: 1, Kind: domain.KindAlert, Severity: domain.SeverityWarning, Tick: 1},
		{ID: "2", EntityID: 2, Kind: domain.KindAlert, Severity: domain.SeverityCritical, Tick: 2},
		{ID: "3", EntityID: 1, Kind: domain.KindRecovery, Tick: 3},
	})
	if err != nil {
		t.Fatal(err)
	}
	return j
}

func TestAlertService_List_DefaultsPagination(t *testing.T) {
	svc := service.NewAlertService(seedJournal(t), zap.NewNop())

	events, total, used, err := svc.List(context.Background(), domain.ListFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(events) != 3 {
		t.Fatalf("expected all 3 events, got len=%d total=%d", len(events), total)
	}
	// Newest tick first.
	if events[0].Tick != 3 {
		t.Fatalf("expected newest event first, got tick %d", events[0].Tick)
	}
	// The returned filter reports the defaults that were applied.
	if used.Page != 1 || used.Limit != 50 {
		t.Fatalf("expected normalized filter page=1 limit=50, got page=%d limit=%d", used.Page, used.Limit)
	}
}

func TestAlertService_List_FiltersByKindAndSeverity(t *testing.T) {
	svc := service.NewAlertService(seedJournal(t), zap.NewNop())

	events, total, _, err := svc.List(context.Background(), domain.ListFilter{
		Kind:     domain.KindAlert,
		Severity: domain.SeverityCritical,
	})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || events[0].ID != "2" {
		t.Fatalf("expected only the critical alert, got %+v", events)
	}
}

func TestAlertService_List_RejectsInvalidFilter(t *testing.T) {
	svc := service.NewAlertService(seedJournal(t), zap.NewNop())

	_, _, _, err := svc.List(context.Background(), domain.ListFilter{Kind: "meltdown"})
	if !errors.Is(err, domain.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestAlertService_List_Paginates(t *testing.T) {
	svc := service.NewAlertService(seedJournal(t), zap.NewNop())

	events, total, used, err := svc.List(context.Background(), domain.ListFilter{Page: 2, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(events) != 1 {
		t.Fatalf("expected 1 event on page 2, got len=%d total=%d", len(events), total)
	}
	if used.Page != 2 || used.Limit != 2 {
		t.Fatalf("explicit page/limit must pass through unchanged, got page=%d limit=%d", used.Page, used.Limit)
	}
}
