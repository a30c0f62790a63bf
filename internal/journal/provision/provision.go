// Package provision rebuilds the journal database and loads the embedded
// seed fixtures.
package provision

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/openpress/manuscripta/internal/journal/auth"
	"github.com/openpress/manuscripta/internal/journal/domain"
	"github.com/openpress/manuscripta/internal/journal/storage"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Admin struct {
		Secret string `yaml:"secret"`
	} `yaml:"admin"`
	Authors []struct {
		First       string `yaml:"first"`
		Last        string `yaml:"last"`
		Email       string `yaml:"email"`
		Affiliation string `yaml:"affiliation"`
		Secret      string `yaml:"secret"`
	} `yaml:"authors"`
	Editors []struct {
		First  string `yaml:"first"`
		Last   string `yaml:"last"`
		Secret string `yaml:"secret"`
	} `yaml:"editors"`
	Reviewers []struct {
		First  string `yaml:"first"`
		Last   string `yaml:"last"`
		Secret string `yaml:"secret"`
	} `yaml:"reviewers"`
	Issues []struct {
		Label string `yaml:"label"`
	} `yaml:"issues"`
	Manuscripts []struct {
		Title     string   `yaml:"title"`
		Lead      string   `yaml:"lead"`
		Pages     int      `yaml:"pages"`
		Status    string   `yaml:"status"`
		Code      string   `yaml:"code"`
		Filename  string   `yaml:"filename"`
		CoAuthors []string `yaml:"co_authors"`
	} `yaml:"manuscripts"`
	Assignments []struct {
		Manuscript int    `yaml:"manuscript"`
		Reviewer   string `yaml:"reviewer"`
	} `yaml:"assignments"`
}

// hashOrEmpty keeps empty fixture secrets empty so those logins admit any
// password.
func hashOrEmpty(secret string) string {
	if secret == "" {
		return ""
	}
	return auth.HashSecret(secret)
}

// Rebuild wipes every workflow table. The schema itself is managed by the
// store's migrations and stays in place.
func Rebuild(ctx context.Context, store storage.Store) error {
	if err := store.Reset(ctx); err != nil {
		return fmt.Errorf("rebuild: %w", err)
	}
	return nil
}

// Populate wipes the database and loads the embedded seed fixtures. Fixture
// secrets are stored as hashes; an empty secret stays empty.
func Populate(ctx context.Context, store storage.Store, clock func() time.Time) error {
	if clock == nil {
		clock = time.Now
	}
	today := clock().UTC().Truncate(24 * time.Hour)

	var seed seedFile
	if err := yaml.Unmarshal(seedYAML, &seed); err != nil {
		return fmt.Errorf("parse seed fixtures: %w", err)
	}

	if err := Rebuild(ctx, store); err != nil {
		return err
	}

	if _, err := store.CreateAdminCredential(ctx, hashOrEmpty(seed.Admin.Secret)); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	authorIDs := map[string]int{}
	for _, a := range seed.Authors {
		userID, err := store.RegisterAuthor(ctx, storage.RegisterAuthorInput{
			FirstName:   a.First,
			LastName:    a.Last,
			Email:       a.Email,
			Affiliation: a.Affiliation,
			SecretHash:  hashOrEmpty(a.Secret),
		})
		if err != nil {
			return fmt.Errorf("seed author %s %s: %w", a.First, a.Last, err)
		}
		cred, err := store.GetCredential(ctx, userID)
		if err != nil {
			return fmt.Errorf("seed author credential: %w", err)
		}
		authorIDs[a.First+" "+a.Last] = cred.LocalID
	}

	for _, e := range seed.Editors {
		if _, err := store.RegisterEditor(ctx, storage.RegisterEditorInput{
			FirstName:  e.First,
			LastName:   e.Last,
			SecretHash: hashOrEmpty(e.Secret),
		}); err != nil {
			return fmt.Errorf("seed editor %s %s: %w", e.First, e.Last, err)
		}
	}

	reviewerIDs := map[string]int{}
	for _, r := range seed.Reviewers {
		userID, err := store.RegisterReviewer(ctx, storage.RegisterReviewerInput{
			FirstName:  r.First,
			LastName:   r.Last,
			SecretHash: hashOrEmpty(r.Secret),
		})
		if err != nil {
			return fmt.Errorf("seed reviewer %s %s: %w", r.First, r.Last, err)
		}
		cred, err := store.GetCredential(ctx, userID)
		if err != nil {
			return fmt.Errorf("seed reviewer credential: %w", err)
		}
		reviewerIDs[r.First+" "+r.Last] = cred.LocalID
	}

	for _, i := range seed.Issues {
		label, err := domain.ParseIssueLabel(i.Label)
		if err != nil {
			return fmt.Errorf("seed issue %q: %w", i.Label, err)
		}
		if _, err := store.CreateIssue(ctx, label); err != nil {
			return fmt.Errorf("seed issue %q: %w", i.Label, err)
		}
	}

	for _, m := range seed.Manuscripts {
		leadID, ok := authorIDs[m.Lead]
		if !ok {
			return fmt.Errorf("seed manuscript %q: unknown lead author %q", m.Title, m.Lead)
		}
		number, err := store.SubmitManuscript(ctx, storage.SubmitManuscriptInput{
			Title:             m.Title,
			LeadAuthorID:      leadID,
			InstitutionalCode: m.Code,
			Filename:          m.Filename,
			CoAuthors:         m.CoAuthors,
			Today:             today,
		})
		if err != nil {
			return fmt.Errorf("seed manuscript %q: %w", m.Title, err)
		}
		if m.Pages > 0 {
			if err := store.SetPageCount(ctx, number, m.Pages); err != nil {
				return fmt.Errorf("seed manuscript %q pages: %w", m.Title, err)
			}
		}
		status := domain.Status(strings.TrimSpace(m.Status))
		if status != "" && status != domain.StatusSubmitted {
			if err := store.UpdateManuscriptStatus(ctx, number, status, today); err != nil {
				return fmt.Errorf("seed manuscript %q status: %w", m.Title, err)
			}
		}
	}

	for _, a := range seed.Assignments {
		reviewerID, ok := reviewerIDs[a.Reviewer]
		if !ok {
			return fmt.Errorf("seed assignment: unknown reviewer %q", a.Reviewer)
		}
		if err := store.AssignReviewer(ctx, a.Manuscript, reviewerID); err != nil {
			return fmt.Errorf("seed assignment for manuscript %d: %w", a.Manuscript, err)
		}
	}

	return nil
}
