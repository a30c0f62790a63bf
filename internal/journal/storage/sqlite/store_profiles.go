package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/openpress/manuscripta/internal/journal/storage"
)

// GetAuthor returns an author profile by role-local id.
func (s *Store) GetAuthor(ctx context.Context, id int) (storage.Author, error) {
	if s == nil || s.sqlDB == nil {
		return storage.Author{}, fmt.Errorf("store is not initialized")
	}

	var author storage.Author
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT author_id, first_name, last_name, email, affiliation
FROM authors
WHERE author_id = ?
`, id).Scan(&author.ID, &author.FirstName, &author.LastName, &author.Email, &author.Affiliation)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Author{}, storage.ErrNotFound
		}
		return storage.Author{}, fmt.Errorf("get author: %w", err)
	}
	return author, nil
}

// GetEditor returns an editor profile by role-local id.
func (s *Store) GetEditor(ctx context.Context, id int) (storage.Editor, error) {
	if s == nil || s.sqlDB == nil {
		return storage.Editor{}, fmt.Errorf("store is not initialized")
	}

	var editor storage.Editor
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT editor_id, first_name, last_name
FROM editors
WHERE editor_id = ?
`, id).Scan(&editor.ID, &editor.FirstName, &editor.LastName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Editor{}, storage.ErrNotFound
		}
		return storage.Editor{}, fmt.Errorf("get editor: %w", err)
	}
	return editor, nil
}

// GetReviewer returns a reviewer profile by role-local id.
func (s *Store) GetReviewer(ctx context.Context, id int) (storage.Reviewer, error) {
	if s == nil || s.sqlDB == nil {
		return storage.Reviewer{}, fmt.Errorf("store is not initialized")
	}

	var reviewer storage.Reviewer
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT reviewer_id, first_name, last_name
FROM reviewers
WHERE reviewer_id = ?
`, id).Scan(&reviewer.ID, &reviewer.FirstName, &reviewer.LastName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Reviewer{}, storage.ErrNotFound
		}
		return storage.Reviewer{}, fmt.Errorf("get reviewer: %w", err)
	}
	return reviewer, nil
}

// RegisterAuthor inserts an author profile and its credential row atomically.
//
// The (first name, last name) pair is a natural key: registering a name that
// already has a profile returns the existing principal id without writing.
func (s *Store) RegisterAuthor(ctx context.Context, input storage.RegisterAuthorInput) (int, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("store is not initialized")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin register author: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, userID, err := ensureAuthor(ctx, tx, input)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit register author: %w", err)
	}
	return userID, nil
}

// RegisterEditor inserts an editor profile and its credential row atomically.
// Idempotent on the (first name, last name) natural key.
func (s *Store) RegisterEditor(ctx context.Context, input storage.RegisterEditorInput) (int, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("store is not initialized")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin register editor: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var editorID int
	err = tx.QueryRowContext(ctx, `
SELECT editor_id FROM editors WHERE first_name = ? AND last_name = ?
`, input.FirstName, input.LastName).Scan(&editorID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		result, err := tx.ExecContext(ctx, `
INSERT INTO editors (first_name, last_name) VALUES (?, ?)
`, input.FirstName, input.LastName)
		if err != nil {
			return 0, fmt.Errorf("insert editor: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("editor id: %w", err)
		}
		editorID = int(id)
	case err != nil:
		return 0, fmt.Errorf("find editor: %w", err)
	default:
		userID, err := credentialForProfile(ctx, tx, "editor", editorID)
		if err == nil {
			if err := tx.Commit(); err != nil {
				return 0, fmt.Errorf("commit register editor: %w", err)
			}
			return userID, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("find editor credential: %w", err)
		}
	}

	userID, err := insertCredential(ctx, tx, "editor", editorID, input.SecretHash)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit register editor: %w", err)
	}
	return userID, nil
}

// RegisterReviewer inserts a reviewer profile and its credential row
// atomically. Idempotent on the (first name, last name) natural key.
func (s *Store) RegisterReviewer(ctx context.Context, input storage.RegisterReviewerInput) (int, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("store is not initialized")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin register reviewer: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var reviewerID int
	err = tx.QueryRowContext(ctx, `
SELECT reviewer_id FROM reviewers WHERE first_name = ? AND last_name = ?
`, input.FirstName, input.LastName).Scan(&reviewerID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		result, err := tx.ExecContext(ctx, `
INSERT INTO reviewers (first_name, last_name) VALUES (?, ?)
`, input.FirstName, input.LastName)
		if err != nil {
			return 0, fmt.Errorf("insert reviewer: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("reviewer id: %w", err)
		}
		reviewerID = int(id)
	case err != nil:
		return 0, fmt.Errorf("find reviewer: %w", err)
	default:
		userID, err := credentialForProfile(ctx, tx, "reviewer", reviewerID)
		if err == nil {
			if err := tx.Commit(); err != nil {
				return 0, fmt.Errorf("commit register reviewer: %w", err)
			}
			return userID, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("find reviewer credential: %w", err)
		}
	}

	userID, err := insertCredential(ctx, tx, "reviewer", reviewerID, input.SecretHash)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit register reviewer: %w", err)
	}
	return userID, nil
}

// ensureAuthor resolves an author profile by its (first, last) natural key
// inside an open transaction, creating the profile and its credential row
// when absent. Returns the author id and the principal id.
func ensureAuthor(ctx context.Context, tx *sql.Tx, input storage.RegisterAuthorInput) (authorID, userID int, err error) {
	err = tx.QueryRowContext(ctx, `
SELECT author_id FROM authors WHERE first_name = ? AND last_name = ?
`, input.FirstName, input.LastName).Scan(&authorID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		result, err := tx.ExecContext(ctx, `
INSERT INTO authors (first_name, last_name, email, affiliation)
VALUES (?, ?, ?, ?)
`, input.FirstName, input.LastName, input.Email, input.Affiliation)
		if err != nil {
			return 0, 0, fmt.Errorf("insert author: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return 0, 0, fmt.Errorf("author id: %w", err)
		}
		authorID = int(id)
	case err != nil:
		return 0, 0, fmt.Errorf("find author: %w", err)
	default:
		userID, err = credentialForProfile(ctx, tx, "author", authorID)
		if err == nil {
			return authorID, userID, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, 0, fmt.Errorf("find author credential: %w", err)
		}
	}

	userID, err = insertCredential(ctx, tx, "author", authorID, input.SecretHash)
	if err != nil {
		return 0, 0, err
	}
	return authorID, userID, nil
}

func credentialForProfile(ctx context.Context, tx *sql.Tx, roleTag string, localID int) (int, error) {
	var userID int
	err := tx.QueryRowContext(ctx, `
SELECT user_id FROM credentials WHERE user_type = ? AND type_id = ?
`, roleTag, localID).Scan(&userID)
	return userID, err
}
