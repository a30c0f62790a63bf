package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openpress/manuscripta/internal/journal/domain"
	"github.com/openpress/manuscripta/internal/journal/storage"
	perrors "github.com/openpress/manuscripta/internal/platform/errors"
)

// SubmitManuscript records a submission atomically: the manuscript row, the
// lead-author relation and one relation per filled co-author slot. Unknown
// co-author names get a profile and a credential row in the same transaction.
//
// The stored ordinal is the slot position, so a gap in the slots leaves a
// gap in the ordinals.
func (s *Store) SubmitManuscript(ctx context.Context, input storage.SubmitManuscriptInput) (int, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("store is not initialized")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin submit manuscript: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
INSERT INTO manuscripts (title, status, institutional_code, filename, date_received, status_change_date)
VALUES (?, ?, ?, ?, ?, ?)
`, input.Title, string(domain.StatusSubmitted), input.InstitutionalCode, input.Filename,
		toMillis(input.Today), toMillis(input.Today))
	if err != nil {
		return 0, fmt.Errorf("insert manuscript: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("manuscript number: %w", err)
	}
	number := int(id)

	if _, err := tx.ExecContext(ctx, `
INSERT INTO manuscript_authors (manuscript_number, author_id, ordinal)
VALUES (?, ?, 1)
`, number, input.LeadAuthorID); err != nil {
		return 0, fmt.Errorf("insert lead author relation: %w", err)
	}

	for slot, name := range input.CoAuthors {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		first, last, _ := strings.Cut(name, " ")
		authorID, _, err := ensureAuthor(ctx, tx, storage.RegisterAuthorInput{
			FirstName:   first,
			LastName:    strings.TrimSpace(last),
			Affiliation: input.Affiliation,
		})
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO manuscript_authors (manuscript_number, author_id, ordinal)
VALUES (?, ?, ?)
`, number, authorID, slot+2); err != nil {
			return 0, fmt.Errorf("insert co-author relation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit submit manuscript: %w", err)
	}
	return number, nil
}

// GetManuscript returns a manuscript by number.
func (s *Store) GetManuscript(ctx context.Context, number int) (storage.Manuscript, error) {
	if s == nil || s.sqlDB == nil {
		return storage.Manuscript{}, fmt.Errorf("store is not initialized")
	}

	var m storage.Manuscript
	var status string
	var issueID sql.NullInt64
	var received, changed int64
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT manuscript_number, title, status, page_count, issue_id, institutional_code, filename, date_received, status_change_date
FROM manuscripts
WHERE manuscript_number = ?
`, number).Scan(&m.Number, &m.Title, &status, &m.PageCount, &issueID,
		&m.InstitutionalCode, &m.Filename, &received, &changed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Manuscript{}, storage.ErrNotFound
		}
		return storage.Manuscript{}, fmt.Errorf("get manuscript: %w", err)
	}
	m.Status = domain.Status(status)
	if issueID.Valid {
		value := int(issueID.Int64)
		m.IssueID = &value
	}
	m.DateReceived = fromMillis(received)
	m.StatusChangeDate = fromMillis(changed)
	return m, nil
}

// UpdateManuscriptStatus overwrites a manuscript's status and change date.
func (s *Store) UpdateManuscriptStatus(ctx context.Context, number int, status domain.Status, changed time.Time) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("store is not initialized")
	}

	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE manuscripts SET status = ?, status_change_date = ? WHERE manuscript_number = ?
`, string(status), toMillis(changed), number)
	if err != nil {
		return fmt.Errorf("update manuscript status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update manuscript status: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SetPageCount overwrites a manuscript's page count.
func (s *Store) SetPageCount(ctx context.Context, number, pages int) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("store is not initialized")
	}

	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE manuscripts SET page_count = ? WHERE manuscript_number = ?
`, pages, number)
	if err != nil {
		return fmt.Errorf("set page count: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set page count: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AssignReviewer inserts a reviewer assignment. A referential rejection
// (unknown manuscript or reviewer) comes back as a domain error.
func (s *Store) AssignReviewer(ctx context.Context, number, reviewerID int) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("store is not initialized")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO reviewer_assignments (manuscript_number, reviewer_id)
VALUES (?, ?)
`, number, reviewerID)
	if err != nil {
		if strings.Contains(strings.ToUpper(err.Error()), "FOREIGN KEY") {
			return perrors.Wrap(perrors.CodeAssignmentRejected, "assignment rejected by referential constraint", err)
		}
		return fmt.Errorf("insert reviewer assignment: %w", err)
	}
	return nil
}

// ScheduleManuscript admits a manuscript into an issue. The manuscript must
// be ready and the issue's scheduled page total plus this manuscript must
// stay within the page budget; the check and the write share one
// transaction.
func (s *Store) ScheduleManuscript(ctx context.Context, number int, label domain.IssueLabel, changed time.Time) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("store is not initialized")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schedule manuscript: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var issueID int
	err = tx.QueryRowContext(ctx, `
SELECT issue_id FROM issues WHERE year = ? AND period = ?
`, label.Year, label.Period).Scan(&issueID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return perrors.New(perrors.CodeIssueNotFound, "issue "+label.String()+" not found")
		}
		return fmt.Errorf("find issue: %w", err)
	}

	var status string
	var pages int
	err = tx.QueryRowContext(ctx, `
SELECT status, page_count FROM manuscripts WHERE manuscript_number = ?
`, number).Scan(&status, &pages)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("find manuscript: %w", err)
	}

	if domain.Status(status) != domain.StatusReady {
		return perrors.New(perrors.CodeManuscriptNotReady, "manuscript is not ready")
	}

	var scheduled int
	err = tx.QueryRowContext(ctx, `
SELECT COALESCE(SUM(page_count), 0)
FROM manuscripts
WHERE issue_id = ? AND status = ?
`, issueID, string(domain.StatusScheduled)).Scan(&scheduled)
	if err != nil {
		return fmt.Errorf("sum scheduled pages: %w", err)
	}

	if !domain.CanSchedule(domain.Status(status), pages, scheduled) {
		return perrors.New(perrors.CodePageBudgetExceeded, "issue page budget exceeded")
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE manuscripts
SET status = ?, issue_id = ?, status_change_date = ?
WHERE manuscript_number = ?
`, string(domain.StatusScheduled), issueID, toMillis(changed), number); err != nil {
		return fmt.Errorf("schedule manuscript: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schedule manuscript: %w", err)
	}
	return nil
}

// PublishIssue marks every manuscript in the issue published and stamps the
// issue's publication date. An issue with no manuscripts fails without
// mutation.
func (s *Store) PublishIssue(ctx context.Context, label domain.IssueLabel, published time.Time) (int, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("store is not initialized")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin publish issue: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var issueID int
	err = tx.QueryRowContext(ctx, `
SELECT issue_id FROM issues WHERE year = ? AND period = ?
`, label.Year, label.Period).Scan(&issueID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, perrors.New(perrors.CodeIssueNotFound, "issue "+label.String()+" not found")
		}
		return 0, fmt.Errorf("find issue: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
UPDATE manuscripts
SET status = ?, status_change_date = ?
WHERE issue_id = ?
`, string(domain.StatusPublished), toMillis(published), issueID)
	if err != nil {
		return 0, fmt.Errorf("publish manuscripts: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("publish manuscripts: %w", err)
	}
	if count == 0 {
		return 0, perrors.New(perrors.CodeIssueEmpty, "issue "+label.String()+" has no manuscripts")
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE issues SET publication_date = ? WHERE issue_id = ?
`, toMillis(published), issueID); err != nil {
		return 0, fmt.Errorf("stamp publication date: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit publish issue: %w", err)
	}
	return int(count), nil
}
