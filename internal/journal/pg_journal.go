package journal

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/parfold/parfold/internal/domain"
)

type pgJournal struct {
	pool *pgxpool.Pool
}

// NewPgJournal returns an EventJournal backed by PostgreSQL.
func NewPgJournal(pool *pgxpool.Pool) EventJournal {
	return &pgJournal{pool: pool}
}

// Insert writes the batch in a single round trip using a pgx batch. Severity
// and threshold are stored as NULL for recoveries.
func (j *pgJournal) Insert(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	b := &pgx.Batch{}
	for _, e := range events {
		var severity *string
		var threshold *float64
		if e.Kind == domain.KindAlert {
			s := string(e.Severity)
			severity = &s
			threshold = &e.Threshold
		}
		b.Queue(`
			INSERT INTO events
				(id, entity_id, kind, severity, value, threshold, tick, emitted_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			e.ID, e.EntityID, string(e.Kind), severity, e.Value, threshold, int64(e.Tick), e.EmittedAt,
		)
	}

	if err := j.pool.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("insert events: %w", err)
	}
	return nil
}

func (j *pgJournal) List(ctx context.Context, f domain.ListFilter) ([]domain.Event, int, error) {
	where, args := buildListWhere(f)
	offset := (f.Page - 1) * f.Limit

	// Count total matching rows for pagination metadata.
	var total int
	countQuery := "SELECT COUNT(*) FROM events" + where
	if err := j.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	// Append pagination args after the WHERE args.
	args = append(args, f.Limit, offset)
	limitPlaceholder := fmt.Sprintf("$%d", len(args)-1)
	offsetPlaceholder := fmt.Sprintf("$%d", len(args))

	query := fmt.Sprintf(`
		SELECT id, entity_id, kind, severity, value, threshold, tick, emitted_at
		FROM events%s
		ORDER BY tick DESC, emitted_at DESC
		LIMIT %s OFFSET %s`, where, limitPlaceholder, offsetPlaceholder)

	rows, err := j.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var (
		e         domain.Event
		kind      string
		severity  *string
		threshold *float64
		tick      int64
	)
	if err := row.Scan(&e.ID, &e.EntityID, &kind, &severity, &e.Value, &threshold, &tick, &e.EmittedAt); err != nil {
		return domain.Event{}, fmt.Errorf("scan event: %w", err)
	}
	e.Kind = domain.Kind(kind)
	e.Tick = uint64(tick)
	if severity != nil {
		e.Severity = domain.Severity(*severity)
	}
	if threshold != nil {
		e.Threshold = *threshold
	}
	return e, nil
}

// buildListWhere builds a parameterised WHERE clause from a ListFilter.
func buildListWhere(f domain.ListFilter) (string, []any) {
	var conditions []string
	var args []any

	add := func(condition string, val any) {
		args = append(args, val)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if f.Kind != "" {
		add("kind = $%d", string(f.Kind))
	}
	if f.Severity != "" {
		add("severity = $%d", string(f.Severity))
	}
	if f.EntityID != nil {
		add("entity_id = $%d", *f.EntityID)
	}
	if f.SinceTick != nil {
		add("tick >= $%d", int64(*f.SinceTick))
	}

	if len(conditions) == 0 {
		return "", nil
	}

	where := " WHERE " + conditions[0]
	for _, c := range conditions[1:] {
		where += " AND " + c
	}
	return where, args
}
