// Package workflow drives manuscript lifecycle transitions. The engine is
// the sole writer of manuscript status and issue-assignment fields; role
// handlers go through it rather than touching the store directly.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openpress/manuscripta/internal/journal/domain"
	"github.com/openpress/manuscripta/internal/journal/storage"
	"github.com/openpress/manuscripta/internal/platform/errors"
)

// Engine orchestrates workflow operations over the store.
type Engine struct {
	store storage.Store
	clock func() time.Time
}

// NewEngine builds an Engine. A nil clock falls back to time.Now.
func NewEngine(store storage.Store, clock func() time.Time) *Engine {
	if clock == nil {
		clock = time.Now
	}
	return &Engine{store: store, clock: clock}
}

func (e *Engine) today() time.Time {
	return e.clock().UTC().Truncate(24 * time.Hour)
}

// SubmitInput describes a manuscript submission from the console.
type SubmitInput struct {
	Title             string
	LeadAuthorID      int
	Affiliation       string
	InstitutionalCode string
	Filename          string
	CoAuthors         []string
}

// Submit records a new manuscript with status submitted and today's dates.
// Co-author slots keep their argument position as the stored ordinal.
func (e *Engine) Submit(ctx context.Context, input SubmitInput) (int, error) {
	if strings.TrimSpace(input.Title) == "" {
		return 0, errors.New(errors.CodeEmptyTitle, "manuscript title is required")
	}
	number, err := e.store.SubmitManuscript(ctx, storage.SubmitManuscriptInput{
		Title:             input.Title,
		LeadAuthorID:      input.LeadAuthorID,
		Affiliation:       input.Affiliation,
		InstitutionalCode: input.InstitutionalCode,
		Filename:          input.Filename,
		CoAuthors:         input.CoAuthors,
		Today:             e.today(),
	})
	if err != nil {
		return 0, fmt.Errorf("submit manuscript: %w", err)
	}
	return number, nil
}

// AssignReviewer links a reviewer to a manuscript. Duplicate assignments
// are not prevented.
func (e *Engine) AssignReviewer(ctx context.Context, number, reviewerID int) error {
	return e.store.AssignReviewer(ctx, number, reviewerID)
}

// Accept overwrites the manuscript's status with ready, which makes it
// eligible for scheduling. No precondition on the current status.
func (e *Engine) Accept(ctx context.Context, number int) error {
	return e.store.UpdateManuscriptStatus(ctx, number, domain.StatusReady, e.today())
}

// Reject overwrites the manuscript's status with rejected. No precondition
// on the current status.
func (e *Engine) Reject(ctx context.Context, number int) error {
	return e.store.UpdateManuscriptStatus(ctx, number, domain.StatusRejected, e.today())
}

// Schedule places a ready manuscript into the labeled issue when the
// issue's page budget allows it.
func (e *Engine) Schedule(ctx context.Context, number int, label string) error {
	parsed, err := domain.ParseIssueLabel(label)
	if err != nil {
		return err
	}
	return e.store.ScheduleManuscript(ctx, number, parsed, e.today())
}

// PublishIssue publishes every manuscript in the labeled issue and stamps
// the issue's publication date. Returns the number of manuscripts
// published.
func (e *Engine) PublishIssue(ctx context.Context, label string) (int, error) {
	parsed, err := domain.ParseIssueLabel(label)
	if err != nil {
		return 0, err
	}
	return e.store.PublishIssue(ctx, parsed, e.today())
}

// Reset wipes every workflow table.
func (e *Engine) Reset(ctx context.Context) error {
	return e.store.Reset(ctx)
}

// RegisterAuthor creates an author profile plus its login row and returns
// the new principal id. Registering an existing (first, last) name returns
// the existing principal id.
func (e *Engine) RegisterAuthor(ctx context.Context, input storage.RegisterAuthorInput) (int, error) {
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return 0, errors.New(errors.CodeEmptyName, "first and last name are required")
	}
	return e.store.RegisterAuthor(ctx, input)
}

// RegisterEditor creates an editor profile plus its login row and returns
// the new principal id.
func (e *Engine) RegisterEditor(ctx context.Context, input storage.RegisterEditorInput) (int, error) {
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return 0, errors.New(errors.CodeEmptyName, "first and last name are required")
	}
	return e.store.RegisterEditor(ctx, input)
}

// AuthorStatus renders the status table for the manuscripts the author
// leads.
func (e *Engine) AuthorStatus(ctx context.Context, authorID int) (string, error) {
	report, err := e.store.AuthorManuscripts(ctx, authorID)
	if err != nil {
		return "", err
	}
	return renderStatusTable(report, "Author has no manuscripts."), nil
}

// EditorStatus renders the status table for every manuscript.
func (e *Engine) EditorStatus(ctx context.Context) (string, error) {
	report, err := e.store.AllManuscripts(ctx)
	if err != nil {
		return "", err
	}
	return renderStatusTable(report, "Editor has no manuscripts."), nil
}

// ReviewerStatus renders the status table for the manuscripts assigned to
// the reviewer.
func (e *Engine) ReviewerStatus(ctx context.Context, reviewerID int) (string, error) {
	report, err := e.store.ReviewerManuscripts(ctx, reviewerID)
	if err != nil {
		return "", err
	}
	return renderStatusTable(report, "Reviewer has no manuscripts."), nil
}

// AdminStatus renders the manuscript count per status.
func (e *Engine) AdminStatus(ctx context.Context) (string, error) {
	counts, err := e.store.StatusCounts(ctx)
	if err != nil {
		return "", err
	}
	return renderCountTable(counts), nil
}
