// Package storage defines the persistence interfaces and record types for
// the journal workflow.
package storage

import (
	"context"
	"time"

	"github.com/openpress/manuscripta/internal/journal/domain"
	"github.com/openpress/manuscripta/internal/platform/errors"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New(errors.CodeNotFound, "record not found")

// Credential is a login row binding a principal id to a role-local profile.
type Credential struct {
	UserID     int
	RoleTag    string
	LocalID    int
	SecretHash string
}

// Author is an author profile row.
type Author struct {
	ID          int
	FirstName   string
	LastName    string
	Email       string
	Affiliation string
}

// Editor is an editor profile row.
type Editor struct {
	ID        int
	FirstName string
	LastName  string
}

// Reviewer is a reviewer profile row.
type Reviewer struct {
	ID        int
	FirstName string
	LastName  string
}

// Issue is a journal issue row. PublicationDate is nil until the issue is
// published.
type Issue struct {
	ID              int
	Year            int
	Period          int
	PublicationDate *time.Time
}

// Manuscript is a manuscript row. IssueID is nil until the manuscript is
// scheduled into an issue.
type Manuscript struct {
	Number            int
	Title             string
	Status            domain.Status
	PageCount         int
	IssueID           *int
	InstitutionalCode string
	Filename          string
	DateReceived      time.Time
	StatusChangeDate  time.Time
}

// StatusRow is one line of a status report projection.
type StatusRow struct {
	Number int
	Status domain.Status
}

// StatusReport is a status projection: manuscript rows plus the most recent
// status change among them. LastChange is the zero time when Rows is empty.
type StatusReport struct {
	Rows       []StatusRow
	LastChange time.Time
}

// StatusCount is the number of manuscripts in one status.
type StatusCount struct {
	Status domain.Status
	Count  int
}

// RegisterAuthorInput describes a new author profile plus its credential row.
type RegisterAuthorInput struct {
	FirstName   string
	LastName    string
	Email       string
	Affiliation string
	SecretHash  string
}

// RegisterEditorInput describes a new editor profile plus its credential row.
type RegisterEditorInput struct {
	FirstName  string
	LastName   string
	SecretHash string
}

// RegisterReviewerInput describes a new reviewer profile plus its credential
// row.
type RegisterReviewerInput struct {
	FirstName  string
	LastName   string
	SecretHash string
}

// SubmitManuscriptInput describes a manuscript submission. CoAuthors holds
// the raw co-author arguments by slot: the slice index plus two is the
// stored ordinal, and empty entries leave their ordinal unused.
type SubmitManuscriptInput struct {
	Title             string
	LeadAuthorID      int
	Affiliation       string
	InstitutionalCode string
	Filename          string
	CoAuthors         []string
	Today             time.Time
}

// CredentialStore reads login rows.
type CredentialStore interface {
	// GetCredential returns the credential row for a principal id, or
	// ErrNotFound.
	GetCredential(ctx context.Context, userID int) (Credential, error)
}

// ProfileStore manages author, editor and reviewer profiles.
type ProfileStore interface {
	// GetAuthor returns an author profile by role-local id, or ErrNotFound.
	GetAuthor(ctx context.Context, id int) (Author, error)
	// GetEditor returns an editor profile by role-local id, or ErrNotFound.
	GetEditor(ctx context.Context, id int) (Editor, error)
	// GetReviewer returns a reviewer profile by role-local id, or ErrNotFound.
	GetReviewer(ctx context.Context, id int) (Reviewer, error)
	// RegisterAuthor inserts an author profile and its credential row in one
	// transaction and returns the new principal id.
	RegisterAuthor(ctx context.Context, input RegisterAuthorInput) (userID int, err error)
	// RegisterEditor inserts an editor profile and its credential row in one
	// transaction and returns the new principal id.
	RegisterEditor(ctx context.Context, input RegisterEditorInput) (userID int, err error)
	// RegisterReviewer inserts a reviewer profile and its credential row in
	// one transaction and returns the new principal id.
	RegisterReviewer(ctx context.Context, input RegisterReviewerInput) (userID int, err error)
}

// ManuscriptStore manages manuscripts and their workflow transitions.
type ManuscriptStore interface {
	// SubmitManuscript inserts the manuscript, its lead-author relation and
	// its co-author relations in one transaction, creating author profiles
	// for unknown co-author names. Returns the new manuscript number.
	SubmitManuscript(ctx context.Context, input SubmitManuscriptInput) (number int, err error)
	// GetManuscript returns a manuscript by number, or ErrNotFound.
	GetManuscript(ctx context.Context, number int) (Manuscript, error)
	// UpdateManuscriptStatus overwrites a manuscript's status and status
	// change date. Returns ErrNotFound for an unknown number.
	UpdateManuscriptStatus(ctx context.Context, number int, status domain.Status, changed time.Time) error
	// SetPageCount overwrites a manuscript's page count. Used by seed
	// loading; submissions start at zero pages.
	SetPageCount(ctx context.Context, number, pages int) error
	// AssignReviewer inserts a reviewer assignment. An unknown manuscript or
	// reviewer is reported as a domain error, not a fault.
	AssignReviewer(ctx context.Context, number, reviewerID int) error
	// ScheduleManuscript admits a manuscript into an issue when the
	// manuscript is ready and the issue's page total stays within budget.
	// The admission check and the write share one transaction.
	ScheduleManuscript(ctx context.Context, number int, label domain.IssueLabel, changed time.Time) error
	// PublishIssue marks every manuscript in the issue published and stamps
	// the issue's publication date, all in one transaction. An issue with no
	// manuscripts is an error and leaves no mutation.
	PublishIssue(ctx context.Context, label domain.IssueLabel, published time.Time) (count int, err error)
}

// IssueStore manages journal issues.
type IssueStore interface {
	// GetIssue returns an issue by label, or ErrNotFound.
	GetIssue(ctx context.Context, label domain.IssueLabel) (Issue, error)
	// CreateIssue inserts an issue row and returns its id.
	CreateIssue(ctx context.Context, label domain.IssueLabel) (int, error)
}

// ProjectionStore serves the role status reports.
type ProjectionStore interface {
	// AuthorManuscripts returns the manuscripts the author leads.
	AuthorManuscripts(ctx context.Context, authorID int) (StatusReport, error)
	// AllManuscripts returns every manuscript ordered by status then number.
	AllManuscripts(ctx context.Context) (StatusReport, error)
	// ReviewerManuscripts returns the manuscripts assigned to the reviewer.
	ReviewerManuscripts(ctx context.Context, reviewerID int) (StatusReport, error)
	// StatusCounts returns the number of manuscripts per status.
	StatusCounts(ctx context.Context) ([]StatusCount, error)
}

// MaintenanceStore holds the admin bootstrap operations.
type MaintenanceStore interface {
	// Reset deletes every row from every table in one transaction.
	Reset(ctx context.Context) error
	// CreateAdminCredential inserts an admin login row and returns its
	// principal id. Admins carry no profile table.
	CreateAdminCredential(ctx context.Context, secretHash string) (userID int, err error)
}

// Store is the full persistence surface of the journal workflow.
type Store interface {
	CredentialStore
	ProfileStore
	ManuscriptStore
	IssueStore
	ProjectionStore
	MaintenanceStore
}
