// Package auth resolves login attempts against the credential store.
package auth

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	stderrors "errors"
	"fmt"

	"github.com/openpress/manuscripta/internal/journal/domain"
	"github.com/openpress/manuscripta/internal/journal/storage"
	"github.com/openpress/manuscripta/internal/platform/errors"
)

// Session is the identity a successful login binds to the console.
type Session struct {
	Role    domain.Role
	LocalID int
	Name    string
}

// Resolver checks principals and secrets against stored credentials.
type Resolver struct {
	store interface {
		storage.CredentialStore
		storage.ProfileStore
	}
}

// NewResolver builds a Resolver over the given store.
func NewResolver(store storage.Store) *Resolver {
	return &Resolver{store: store}
}

// HashSecret hashes a secret the way the credential store expects it.
// Stored hashes are lowercase md5 hex.
func HashSecret(secret string) string {
	sum := md5.Sum([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// Resolve checks a principal id and secret and returns the bound session.
//
// An empty stored hash admits any secret. A credential row whose role tag is
// unknown, or whose role-local profile is missing, resolves to an error even
// when the secret matches.
func (r *Resolver) Resolve(ctx context.Context, principalID int, secret string) (Session, error) {
	cred, err := r.store.GetCredential(ctx, principalID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return Session{}, errors.New(errors.CodeUnknownPrincipal, "unknown principal")
		}
		return Session{}, fmt.Errorf("resolve credential: %w", err)
	}

	if cred.SecretHash != "" && cred.SecretHash != HashSecret(secret) {
		return Session{}, errors.New(errors.CodeSecretMismatch, "secret mismatch")
	}

	role := domain.ParseRole(cred.RoleTag)
	if role == domain.RoleInvalid {
		return Session{}, errors.WithMetadata(errors.CodeUnknownRole, "unknown role tag",
			map[string]string{"role_tag": cred.RoleTag})
	}

	name, err := r.profileName(ctx, role, cred.LocalID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return Session{}, errors.New(errors.CodeProfileMissing, "credential has no profile")
		}
		return Session{}, fmt.Errorf("resolve profile: %w", err)
	}

	return Session{Role: role, LocalID: cred.LocalID, Name: name}, nil
}

func (r *Resolver) profileName(ctx context.Context, role domain.Role, localID int) (string, error) {
	switch role {
	case domain.RoleAuthor:
		author, err := r.store.GetAuthor(ctx, localID)
		if err != nil {
			return "", err
		}
		return author.FirstName + " " + author.LastName, nil
	case domain.RoleEditor:
		editor, err := r.store.GetEditor(ctx, localID)
		if err != nil {
			return "", err
		}
		return editor.FirstName + " " + editor.LastName, nil
	case domain.RoleReviewer:
		reviewer, err := r.store.GetReviewer(ctx, localID)
		if err != nil {
			return "", err
		}
		return reviewer.FirstName + " " + reviewer.LastName, nil
	case domain.RoleAdmin:
		// Admins carry no profile table; the role name stands in.
		return "Admin", nil
	default:
		return "", storage.ErrNotFound
	}
}
