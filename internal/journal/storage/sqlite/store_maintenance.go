package sqlite

import (
	"context"
	"fmt"
)

// CreateAdminCredential inserts an admin login row. Admins have no profile
// table, so the role-local id is fixed at 1.
func (s *Store) CreateAdminCredential(ctx context.Context, secretHash string) (int, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("store is not initialized")
	}

	result, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO credentials (user_type, type_id, secret_hash)
VALUES ('admin', 1, ?)
`, secretHash)
	if err != nil {
		return 0, fmt.Errorf("insert admin credential: %w", err)
	}
	userID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("admin credential id: %w", err)
	}
	return int(userID), nil
}

// resetTables lists every table in child-before-parent order so the deletes
// satisfy referential constraints.
var resetTables = []string{
	"reviewer_assignments",
	"manuscript_authors",
	"manuscripts",
	"issues",
	"reviewers",
	"editors",
	"authors",
	"credentials",
}

// Reset deletes every row from every table in one transaction and rewinds
// the id sequences so a fresh population starts from 1.
func (s *Store) Reset(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("store is not initialized")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "PRAGMA defer_foreign_keys = ON"); err != nil {
		return fmt.Errorf("defer foreign keys: %w", err)
	}

	for _, table := range resetTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM sqlite_sequence"); err != nil {
		return fmt.Errorf("rewind sequences: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}
