package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/openpress/manuscripta/internal/journal/domain"
	"github.com/openpress/manuscripta/internal/journal/storage"
)

// GetIssue returns an issue by its year-period label.
func (s *Store) GetIssue(ctx context.Context, label domain.IssueLabel) (storage.Issue, error) {
	if s == nil || s.sqlDB == nil {
		return storage.Issue{}, fmt.Errorf("store is not initialized")
	}

	var issue storage.Issue
	var published sql.NullInt64
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT issue_id, year, period, publication_date
FROM issues
WHERE year = ? AND period = ?
`, label.Year, label.Period).Scan(&issue.ID, &issue.Year, &issue.Period, &published)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Issue{}, storage.ErrNotFound
		}
		return storage.Issue{}, fmt.Errorf("get issue: %w", err)
	}
	if published.Valid {
		value := fromMillis(published.Int64)
		issue.PublicationDate = &value
	}
	return issue, nil
}

// CreateIssue inserts an issue row and returns its id.
func (s *Store) CreateIssue(ctx context.Context, label domain.IssueLabel) (int, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("store is not initialized")
	}

	result, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO issues (year, period) VALUES (?, ?)
`, label.Year, label.Period)
	if err != nil {
		return 0, fmt.Errorf("insert issue: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("issue id: %w", err)
	}
	return int(id), nil
}
