package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/openpress/manuscripta/internal/journal/domain"
	"github.com/openpress/manuscripta/internal/journal/storage"
)

// AuthorManuscripts returns the manuscripts the author leads, ordered by
// status then number.
func (s *Store) AuthorManuscripts(ctx context.Context, authorID int) (storage.StatusReport, error) {
	if s == nil || s.sqlDB == nil {
		return storage.StatusReport{}, fmt.Errorf("store is not initialized")
	}

	return s.statusReport(ctx, `
SELECT m.manuscript_number, m.status, m.status_change_date
FROM manuscripts m
JOIN manuscript_authors ma ON ma.manuscript_number = m.manuscript_number
WHERE ma.author_id = ? AND ma.ordinal = 1
ORDER BY m.status, m.manuscript_number
`, authorID)
}

// AllManuscripts returns every manuscript ordered by status then number.
func (s *Store) AllManuscripts(ctx context.Context) (storage.StatusReport, error) {
	if s == nil || s.sqlDB == nil {
		return storage.StatusReport{}, fmt.Errorf("store is not initialized")
	}

	return s.statusReport(ctx, `
SELECT manuscript_number, status, status_change_date
FROM manuscripts
ORDER BY status, manuscript_number
`)
}

// ReviewerManuscripts returns the manuscripts assigned to the reviewer.
func (s *Store) ReviewerManuscripts(ctx context.Context, reviewerID int) (storage.StatusReport, error) {
	if s == nil || s.sqlDB == nil {
		return storage.StatusReport{}, fmt.Errorf("store is not initialized")
	}

	return s.statusReport(ctx, `
SELECT DISTINCT m.manuscript_number, m.status, m.status_change_date
FROM manuscripts m
JOIN reviewer_assignments ra ON ra.manuscript_number = m.manuscript_number
WHERE ra.reviewer_id = ?
ORDER BY m.status, m.manuscript_number
`, reviewerID)
}

// StatusCounts returns the number of manuscripts per status.
func (s *Store) StatusCounts(ctx context.Context) ([]storage.StatusCount, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("store is not initialized")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT status, COUNT(*)
FROM manuscripts
GROUP BY status
ORDER BY status
`)
	if err != nil {
		return nil, fmt.Errorf("count statuses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts []storage.StatusCount
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts = append(counts, storage.StatusCount{Status: domain.Status(status), Count: count})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}

func (s *Store) statusReport(ctx context.Context, query string, args ...any) (storage.StatusReport, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return storage.StatusReport{}, fmt.Errorf("query status report: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var report storage.StatusReport
	var lastChange sql.NullInt64
	for rows.Next() {
		var row storage.StatusRow
		var status string
		var changed int64
		if err := rows.Scan(&row.Number, &status, &changed); err != nil {
			return storage.StatusReport{}, fmt.Errorf("scan status row: %w", err)
		}
		row.Status = domain.Status(status)
		report.Rows = append(report.Rows, row)
		if !lastChange.Valid || changed > lastChange.Int64 {
			lastChange = sql.NullInt64{Int64: changed, Valid: true}
		}
	}
	if err := rows.Err(); err != nil {
		return storage.StatusReport{}, fmt.Errorf("iterate status report: %w", err)
	}
	if lastChange.Valid {
		report.LastChange = fromMillis(lastChange.Int64)
	}
	return report, nil
}
