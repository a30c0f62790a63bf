package console

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/openpress/manuscripta/internal/journal/auth"
	"github.com/openpress/manuscripta/internal/journal/provision"
	"github.com/openpress/manuscripta/internal/journal/storage"
	"github.com/openpress/manuscripta/internal/journal/workflow"
	"github.com/openpress/manuscripta/internal/platform/errors"
)

func (c *Console) handleAuthor(ctx context.Context, verb string, tokens []string) {
	switch verb {
	case "status":
		status, err := c.engine.AuthorStatus(ctx, c.session.LocalID)
		if err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(c.out, "Author ID: %d\n%s\n", c.session.LocalID, status)

	case "register":
		if len(tokens) < 6 {
			fmt.Fprintln(c.out, "Invalid request: too few arguments.")
			return
		}
		if strings.ToLower(tokens[1]) != "author" {
			fmt.Fprintln(c.out, "Invalid request.")
			return
		}
		userID, err := c.engine.RegisterAuthor(ctx, storage.RegisterAuthorInput{
			FirstName:   tokens[2],
			LastName:    tokens[3],
			Email:       tokens[4],
			Affiliation: tokens[5],
			SecretHash:  c.registrationSecretHash(ctx),
		})
		if err != nil {
			fmt.Fprintln(c.out, "Author registration failed.")
			return
		}
		fmt.Fprintf(c.out, "Registered User ID: %d\n", userID)
		fmt.Fprintln(c.out, "Author registered successfully.")

	case "submit":
		if len(tokens) < 4 {
			fmt.Fprintln(c.out, "Invalid request: not enough arguments.")
			return
		}
		input := workflow.SubmitInput{
			Title:             tokens[1],
			LeadAuthorID:      c.session.LocalID,
			Affiliation:       tokens[2],
			InstitutionalCode: tokens[3],
			CoAuthors:         make([]string, 3),
		}
		for slot := 0; slot < 3; slot++ {
			if len(tokens) > 4+slot {
				input.CoAuthors[slot] = tokens[4+slot]
			}
		}
		if len(tokens) > 7 {
			input.Filename = tokens[7]
		}
		if _, err := c.engine.Submit(ctx, input); err != nil {
			fmt.Fprintln(c.out, "Manuscript submission failed.")
			return
		}
		fmt.Fprintln(c.out, "Manuscript submitted successfully.")

	default:
		fmt.Fprintln(c.out, "Invalid request.")
	}
}

func (c *Console) handleEditor(ctx context.Context, verb string, tokens []string) {
	switch verb {
	case "status":
		status, err := c.engine.EditorStatus(ctx)
		if err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(c.out, "Editor ID: %d\n%s\n", c.session.LocalID, status)

	case "register":
		if len(tokens) != 4 {
			fmt.Fprintln(c.out, "Invalid request: too few arguments.")
			return
		}
		if strings.ToLower(tokens[1]) != "editor" {
			fmt.Fprintln(c.out, "Invalid request.")
			return
		}
		userID, err := c.engine.RegisterEditor(ctx, storage.RegisterEditorInput{
			FirstName:  tokens[2],
			LastName:   tokens[3],
			SecretHash: c.registrationSecretHash(ctx),
		})
		if err != nil {
			fmt.Fprintln(c.out, "Editor registration failed.")
			return
		}
		fmt.Fprintf(c.out, "Registered User ID: %d\n", userID)
		fmt.Fprintln(c.out, "Editor registered successfully.")

	case "assign":
		if len(tokens) != 3 {
			fmt.Fprintln(c.out, "Invalid request: too few arguments.")
			return
		}
		number, err1 := strconv.Atoi(tokens[1])
		reviewerID, err2 := strconv.Atoi(tokens[2])
		if err1 != nil || err2 != nil {
			fmt.Fprintln(c.out, "Invalid request: manuscript number and reviewer ID must be integers.")
			return
		}
		if err := c.engine.AssignReviewer(ctx, number, reviewerID); err != nil {
			fmt.Fprintln(c.out, "Reviewer assignment failed.")
			return
		}
		fmt.Fprintln(c.out, "Reviewer assigned successfully.")

	case "reject":
		number, ok := c.manuscriptNumberArg(tokens)
		if !ok {
			return
		}
		if err := c.engine.Reject(ctx, number); err != nil {
			fmt.Fprintln(c.out, "Manuscript rejection failed.")
			return
		}
		fmt.Fprintln(c.out, "Manuscript rejected successfully.")

	case "accept":
		number, ok := c.manuscriptNumberArg(tokens)
		if !ok {
			return
		}
		if err := c.engine.Accept(ctx, number); err != nil {
			fmt.Fprintln(c.out, "Manuscript acceptance failed.")
			return
		}
		fmt.Fprintln(c.out, "Manuscript accepted successfully.")

	case "schedule":
		if len(tokens) != 3 {
			fmt.Fprintln(c.out, "Invalid request: too few arguments.")
			return
		}
		number, err := strconv.Atoi(tokens[1])
		if err != nil {
			fmt.Fprintln(c.out, "Invalid request: manuscript number must be an integer.")
			return
		}
		if err := c.engine.Schedule(ctx, number, tokens[2]); err != nil {
			if stderrors.Is(err, errors.New(errors.CodeManuscriptNotReady, "")) ||
				stderrors.Is(err, errors.New(errors.CodePageBudgetExceeded, "")) {
				fmt.Fprintln(c.out, "Manuscript not ready or page count exceeds 100")
			}
			fmt.Fprintln(c.out, "Manuscript scheduling failed.")
			return
		}
		fmt.Fprintln(c.out, "Manuscript scheduled successfully.")

	case "publish":
		if len(tokens) != 2 {
			fmt.Fprintln(c.out, "Invalid request: too few arguments.")
			return
		}
		if _, err := c.engine.PublishIssue(ctx, tokens[1]); err != nil {
			fmt.Fprintln(c.out, "Issue publishing failed.")
			return
		}
		fmt.Fprintln(c.out, "Issue published successfully.")

	case "reset":
		if err := c.engine.Reset(ctx); err != nil {
			fmt.Fprintln(c.out, "Database reset failed.")
			return
		}
		fmt.Fprintln(c.out, "Database reset successfully.")

	default:
		fmt.Fprintln(c.out, "Invalid request.")
	}
}

func (c *Console) handleReviewer(ctx context.Context, verb string, tokens []string) {
	switch verb {
	case "status":
		status, err := c.engine.ReviewerStatus(ctx, c.session.LocalID)
		if err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(c.out, "Reviewer ID: %d\n%s\n", c.session.LocalID, status)

	default:
		fmt.Fprintln(c.out, "Invalid request.")
	}
}

func (c *Console) handleAdmin(ctx context.Context, verb string, tokens []string) {
	switch verb {
	case "status":
		status, err := c.engine.AdminStatus(ctx)
		if err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(c.out, "Admin ID: %d\n%s\n", c.session.LocalID, status)

	case "rebuild":
		if len(tokens) > 1 && strings.ToLower(tokens[1]) == "populate" {
			if err := provision.Populate(ctx, c.store, c.clock); err != nil {
				fmt.Fprintf(c.out, "Error: %v\n", err)
				return
			}
			fmt.Fprintln(c.out, "Database rebuilt and populated successfully.")
			return
		}
		if err := provision.Rebuild(ctx, c.store); err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
			return
		}
		fmt.Fprintln(c.out, "Database rebuilt successfully.")

	default:
		fmt.Fprintln(c.out, "Invalid request.")
	}
}

// manuscriptNumberArg validates the single-integer argument shared by the
// accept and reject verbs.
func (c *Console) manuscriptNumberArg(tokens []string) (int, bool) {
	if len(tokens) != 2 {
		fmt.Fprintln(c.out, "Invalid request: too few arguments.")
		return 0, false
	}
	number, err := strconv.Atoi(tokens[1])
	if err != nil {
		fmt.Fprintln(c.out, "Invalid request: manuscript number must be an integer.")
		return 0, false
	}
	return number, true
}

// registrationSecretHash runs the bounded password prompt for a new
// profile. An empty or abandoned secret leaves the stored hash empty, which
// admits any password at login.
func (c *Console) registrationSecretHash(ctx context.Context) string {
	secret := c.promptSecret(ctx)
	if secret == "" {
		return ""
	}
	return auth.HashSecret(secret)
}
