package repo

import (
	"context"
	"fmt"
	"time"

	"campusconnect/internal/domain"
	"campusconnect/internal/infra"
	"campusconnect/internal/sqlinline"
)

// VisitRepositoryPG implements domain.VisitRepository using PostgreSQL.
type VisitRepositoryPG struct {
	sql infra.SQLExecutor
	loc *time.Location
}

// NewVisitRepository constructs the repository. loc is the reference
// timezone used to interpret stored calendar days.
func NewVisitRepository(sql infra.SQLExecutor, loc *time.Location) *VisitRepositoryPG {
	if loc == nil {
		loc = time.UTC
	}
	return &VisitRepositoryPG{sql: sql, loc: loc}
}

// RecordVisit appends the event and upserts the bucket for day, returning the
// bucket's total after the increment.
func (r *VisitRepositoryPG) RecordVisit(ctx context.Context, event domain.VisitEvent, day string) (int64, error) {
	var total int64
	err := r.sql.QueryRow(ctx, sqlinline.QRecordVisit,
		event.ID,
		event.Page,
		event.Country,
		day,
		event.VisitedAt,
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

// DailyCounts returns the stored buckets between from and to inclusive, oldest first.
func (r *VisitRepositoryPG) DailyCounts(ctx context.Context, from, to string) ([]domain.DailyVisitCount, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QDailyVisitCounts, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DailyVisitCount
	for rows.Next() {
		var key string
		var total int64
		if err := rows.Scan(&key, &total); err != nil {
			return nil, err
		}
		day, err := time.ParseInLocation(time.DateOnly, key, r.loc)
		if err != nil {
			return nil, fmt.Errorf("parse day %q: %w", key, err)
		}
		out = append(out, domain.DailyVisitCount{Day: day, Total: total})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// PurgeBefore deletes events and buckets older than the cutoffs in a single statement.
func (r *VisitRepositoryPG) PurgeBefore(ctx context.Context, eventCutoff time.Time, dayCutoff string) (domain.PurgeResult, error) {
	var res domain.PurgeResult
	if err := r.sql.QueryRow(ctx, sqlinline.QPurgeVisits, eventCutoff, dayCutoff).Scan(&res.Events, &res.Days); err != nil {
		return domain.PurgeResult{}, err
	}
	return res, nil
}

var _ domain.VisitRepository = (*VisitRepositoryPG)(nil)
