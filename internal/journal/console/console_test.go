package console

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/openpress/manuscripta/internal/journal/provision"
	"github.com/openpress/manuscripta/internal/journal/storage/sqlite"
)

func fixedClock() time.Time {
	return time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
}

// Seeded principals: 1 admin, 2-4 authors (Amara Okafor / Tomas Lindqvist /
// Priya Raman), 5-6 editors (Helen Ward / Marcus Bell), 7-8 reviewers
// (Ines Duarte / Viktor Hale).
func populatedStore(t *testing.T) *sqlite.Store {
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
	if err := provision.Populate(context.Background(), store, fixedClock); err != nil {
		t.Fatalf("populate: %v", err)
	}
	return store
}

func runScript(t *testing.T, store *sqlite.Store, script string) string {
	t.Helper()

	var out bytes.Buffer
	c := New(store, Options{
		In:            strings.NewReader(script),
		Out:           &out,
		SecretTimeout: time.Second,
		Clock:         fixedClock,
	})
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("run console: %v\noutput:\n%s", err, out.String())
	}
	return out.String()
}

func TestAuthorLoginAndStatus(t *testing.T) {
	store := populatedStore(t)

	out := runScript(t, store, "2\nquill\nstatus\nexit\n")

	for _, want := range []string{
		"Enter User ID: ",
		"Enter password: ",
		"Hello, Amara Okafor \n",
		"Author 1> ",
		"Author ID: 1",
		"Last Change: 2024-03-05",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestUnknownPrincipalReprompts(t *testing.T) {
	store := populatedStore(t)

	out := runScript(t, store, "99\nwhatever\n3\nfjord\nexit\n")

	if !strings.Contains(out, "User not found") {
		t.Fatalf("output missing diagnostic:\n%s", out)
	}
	if !strings.Contains(out, "Hello, Tomas Lindqvist") {
		t.Fatalf("second login did not succeed:\n%s", out)
	}
	if got := strings.Count(out, "Enter User ID: "); got != 2 {
		t.Fatalf("user id prompt count = %d, want 2:\n%s", got, out)
	}
}

func TestWrongPasswordReprompts(t *testing.T) {
	store := populatedStore(t)

	out := runScript(t, store, "2\nwrong\n")

	if !strings.Contains(out, "Incorrect password!\nPlease try again.") {
		t.Fatalf("output missing diagnostic:\n%s", out)
	}
	if !strings.Contains(out, "Reached end of stream, exiting...") {
		t.Fatalf("output missing end-of-stream message:\n%s", out)
	}
}

func TestNonNumericUserID(t *testing.T) {
	store := populatedStore(t)

	out := runScript(t, store, "alice\n2\nquill\nexit\n")

	if !strings.Contains(out, "Invalid request: user ID must be an integer.") {
		t.Fatalf("output missing diagnostic:\n%s", out)
	}
	if !strings.Contains(out, "Hello, Amara Okafor") {
		t.Fatalf("login after diagnostic did not succeed:\n%s", out)
	}
}

func TestEmptySecretFixtureAdmitsAnyPassword(t *testing.T) {
	store := populatedStore(t)

	out := runScript(t, store, "4\nanything\nexit\n")

	if !strings.Contains(out, "Hello, Priya Raman") {
		t.Fatalf("empty-hash login failed:\n%s", out)
	}
}

func TestLoginVerbSwitchesRole(t *testing.T) {
	store := populatedStore(t)

	out := runScript(t, store, "2\nquill\nlogin 5\nredpen\nstatus\nexit\n")

	if !strings.Contains(out, "Hello, Helen Ward") {
		t.Fatalf("role switch failed:\n%s", out)
	}
	if !strings.Contains(out, "Editor 1> ") {
		t.Fatalf("prompt did not switch to editor:\n%s", out)
	}
	if !strings.Contains(out, "Editor ID: 1") {
		t.Fatalf("editor status not reached:\n%s", out)
	}
}

func TestFailedLoginVerbKeepsRole(t *testing.T) {
	store := populatedStore(t)

	out := runScript(t, store, "2\nquill\nlogin 99\nx\nstatus\nexit\n")

	if !strings.Contains(out, "User not found") {
		t.Fatalf("output missing diagnostic:\n%s", out)
	}
	if !strings.Contains(out, "Author ID: 1") {
		t.Fatalf("author session was lost after failed re-login:\n%s", out)
	}
}

func TestEditorLifecycleCommands(t *testing.T) {
	store := populatedStore(t)

	// Manuscript 3 is seeded as submitted; 2024-2 is an empty issue.
	script := strings.Join([]string{
		"5", "redpen",
		"accept 3",
		"schedule 3 2024-2",
		"publish 2024-2",
		"exit",
	}, "\n") + "\n"

	out := runScript(t, store, script)

	for _, want := range []string{
		"Manuscript accepted successfully.",
		"Manuscript scheduled successfully.",
		"Issue published successfully.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEditorScheduleNotReady(t *testing.T) {
	store := populatedStore(t)

	// Manuscript 3 is still submitted.
	out := runScript(t, store, "5\nredpen\nschedule 3 2024-2\nexit\n")

	if !strings.Contains(out, "Manuscript not ready or page count exceeds 100") {
		t.Fatalf("output missing budget diagnostic:\n%s", out)
	}
	if !strings.Contains(out, "Manuscript scheduling failed.") {
		t.Fatalf("output missing failure message:\n%s", out)
	}
}

func TestEditorPublishEmptyIssueFails(t *testing.T) {
	store := populatedStore(t)

	out := runScript(t, store, "5\nredpen\npublish 2024-2\nexit\n")

	if !strings.Contains(out, "Issue publishing failed.") {
		t.Fatalf("output missing failure message:\n%s", out)
	}
}

func TestEditorRegisterPromptsForSecret(t *testing.T) {
	store := populatedStore(t)

	out := runScript(t, store, "5\nredpen\nregister editor Nina Sosa\nsecret9\nexit\n")

	if !strings.Contains(out, "Registered User ID: 9") {
		t.Fatalf("output missing registered principal:\n%s", out)
	}
	if !strings.Contains(out, "Editor registered successfully.") {
		t.Fatalf("output missing success message:\n%s", out)
	}
}

func TestAuthorSubmitWithQuotedTitle(t *testing.T) {
	store := populatedStore(t)

	script := "2\nquill\nsubmit \"Spectral Methods in Practice\" \"Westfield University\" WU01 \"\" \"Viktor Hale\"\nstatus\nexit\n"
	out := runScript(t, store, script)

	if !strings.Contains(out, "Manuscript submitted successfully.") {
		t.Fatalf("output missing success message:\n%s", out)
	}
	// Four seeded manuscripts, so the new one is number 5.
	if !strings.Contains(out, "| Manuscript    5 |") {
		t.Fatalf("status table missing new manuscript:\n%s", out)
	}
}

func TestBadArityDiagnostics(t *testing.T) {
	store := populatedStore(t)

	script := strings.Join([]string{
		"5", "redpen",
		"assign 2",
		"assign two 7",
		"bogus",
		"login",
		"exit",
	}, "\n") + "\n"

	out := runScript(t, store, script)

	for _, want := range []string{
		"Invalid request: too few arguments.",
		"Invalid request: manuscript number and reviewer ID must be integers.",
		"Invalid request.",
		"Invalid command: too few or too many arguments",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestAdminStatusAndRebuild(t *testing.T) {
	store := populatedStore(t)

	out := runScript(t, store, "1\nadmin\nstatus\nrebuild populate\nstatus\nexit\n")

	if !strings.Contains(out, "Hello, Admin") {
		t.Fatalf("admin login failed:\n%s", out)
	}
	if !strings.Contains(out, "Admin ID: 1") {
		t.Fatalf("admin status not reached:\n%s", out)
	}
	if !strings.Contains(out, "Database rebuilt and populated successfully.") {
		t.Fatalf("populate not confirmed:\n%s", out)
	}
}

type blockingReader struct {
	release <-chan struct{}
}

func (r blockingReader) Read(p []byte) (int, error) {
	<-r.release
	return 0, io.EOF
}

func TestPasswordPromptTimesOut(t *testing.T) {
	store := populatedStore(t)

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	in := io.MultiReader(strings.NewReader("2\n"), blockingReader{release: release})

	var out bytes.Buffer
	c := New(store, Options{
		In:            in,
		Out:           &out,
		SecretTimeout: 20 * time.Millisecond,
		Clock:         fixedClock,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := c.Run(ctx)
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	if !strings.Contains(out.String(), "Password prompt timed out.") {
		t.Fatalf("output missing timeout message:\n%s", out.String())
	}
	// The empty secret does not match the stored hash.
	if !strings.Contains(out.String(), "Incorrect password!") {
		t.Fatalf("output missing login failure:\n%s", out.String())
	}
}
