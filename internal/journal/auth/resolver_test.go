package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/openpress/manuscripta/internal/journal/domain"
	"github.com/openpress/manuscripta/internal/journal/storage"
	"github.com/openpress/manuscripta/internal/journal/storage/sqlite"
	perrors "github.com/openpress/manuscripta/internal/platform/errors"
)

func openTempStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestResolveUnknownPrincipal(t *testing.T) {
	store := openTempStore(t)
	resolver := NewResolver(store)

	_, err := resolver.Resolve(context.Background(), 42, "secret")
	if !errors.Is(err, perrors.New(perrors.CodeUnknownPrincipal, "")) {
		t.Fatalf("expected unknown-principal error, got %v", err)
	}
}

func TestResolveChecksSecretHash(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	userID, err := store.RegisterAuthor(ctx, storage.RegisterAuthorInput{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		SecretHash: HashSecret("opensesame"),
	})
	if err != nil {
		t.Fatalf("register author: %v", err)
	}

	resolver := NewResolver(store)

	if _, err := resolver.Resolve(ctx, userID, "wrong"); !errors.Is(err, perrors.New(perrors.CodeSecretMismatch, "")) {
		t.Fatalf("expected secret mismatch, got %v", err)
	}

	session, err := resolver.Resolve(ctx, userID, "opensesame")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if session.Role != domain.RoleAuthor {
		t.Fatalf("role = %v", session.Role)
	}
	if session.Name != "Ada Lovelace" {
		t.Fatalf("name = %q", session.Name)
	}
}

func TestResolveEmptyHashAdmitsAnySecret(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	userID, err := store.RegisterAuthor(ctx, storage.RegisterAuthorInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	if err != nil {
		t.Fatalf("register author: %v", err)
	}

	resolver := NewResolver(store)
	if _, err := resolver.Resolve(ctx, userID, "anything at all"); err != nil {
		t.Fatalf("resolve with empty stored hash: %v", err)
	}
	if _, err := resolver.Resolve(ctx, userID, ""); err != nil {
		t.Fatalf("resolve with empty secret: %v", err)
	}
}

func TestResolveUnknownRoleTag(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	result, err := store.DB().Exec(
		"INSERT INTO credentials (user_type, type_id, secret_hash) VALUES ('superuser', 1, '')")
	if err != nil {
		t.Fatalf("seed credential: %v", err)
	}
	userID, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("credential id: %v", err)
	}

	resolver := NewResolver(store)
	_, err = resolver.Resolve(ctx, int(userID), "")
	if !errors.Is(err, perrors.New(perrors.CodeUnknownRole, "")) {
		t.Fatalf("expected unknown-role error, got %v", err)
	}
}

func TestResolveMissingProfile(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	result, err := store.DB().Exec(
		"INSERT INTO credentials (user_type, type_id, secret_hash) VALUES ('editor', 77, '')")
	if err != nil {
		t.Fatalf("seed credential: %v", err)
	}
	userID, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("credential id: %v", err)
	}

	resolver := NewResolver(store)
	_, err = resolver.Resolve(ctx, int(userID), "")
	if !errors.Is(err, perrors.New(perrors.CodeProfileMissing, "")) {
		t.Fatalf("expected profile-missing error, got %v", err)
	}
}

func TestHashSecretIsLowercaseHex(t *testing.T) {
	// Known md5 vector.
	if got := HashSecret("abc"); got != "900150983cd24fb0d6963f7d28e17f72" {
		t.Fatalf("HashSecret(abc) = %q", got)
	}
}
