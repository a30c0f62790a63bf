package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/openpress/manuscripta/internal/journal/storage"
)

// GetCredential returns the credential row for a principal id.
func (s *Store) GetCredential(ctx context.Context, userID int) (storage.Credential, error) {
	if s == nil || s.sqlDB == nil {
		return storage.Credential{}, fmt.Errorf("store is not initialized")
	}

	var cred storage.Credential
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT user_id, user_type, type_id, secret_hash
FROM credentials
WHERE user_id = ?
`, userID).Scan(&cred.UserID, &cred.RoleTag, &cred.LocalID, &cred.SecretHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Credential{}, storage.ErrNotFound
		}
		return storage.Credential{}, fmt.Errorf("get credential: %w", err)
	}
	return cred, nil
}

// insertCredential adds a login row inside an open transaction and returns
// the new principal id.
func insertCredential(ctx context.Context, tx *sql.Tx, roleTag string, localID int, secretHash string) (int, error) {
	result, err := tx.ExecContext(ctx, `
INSERT INTO credentials (user_type, type_id, secret_hash)
VALUES (?, ?, ?)
`, roleTag, localID, secretHash)
	if err != nil {
		return 0, fmt.Errorf("insert credential: %w", err)
	}
	userID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("credential id: %w", err)
	}
	return int(userID), nil
}
