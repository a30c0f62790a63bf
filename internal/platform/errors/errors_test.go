package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	err := New(CodeManuscriptNotReady, "manuscript 12 is not ready")
	target := New(CodeManuscriptNotReady, "different message")

	if !stderrors.Is(err, target) {
		t.Fatal("expected errors with the same code to match")
	}
	if stderrors.Is(err, New(CodePageBudgetExceeded, "budget")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestIsMatchesThroughWrapping(t *testing.T) {
	inner := New(CodeIssueNotFound, "issue 2024-1 not found")
	outer := fmt.Errorf("schedule manuscript: %w", inner)

	if !stderrors.Is(outer, New(CodeIssueNotFound, "")) {
		t.Fatal("expected wrapped error to match by code")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(CodeUnknown, "persist manuscript", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable")
	}
	if err.Error() != "persist manuscript" {
		t.Fatalf("expected message, got %q", err.Error())
	}
}

func TestWithMetadata(t *testing.T) {
	err := WithMetadata(CodePageBudgetExceeded, "over budget", map[string]string{"issue": "2024-1"})
	if err.Metadata["issue"] != "2024-1" {
		t.Fatalf("expected metadata to be kept, got %v", err.Metadata)
	}
}
