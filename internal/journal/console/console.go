// Package console implements the role-scoped command loop: login
// resolution, command tokenization and dispatch, and the role handlers.
package console

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/openpress/manuscripta/internal/journal/auth"
	"github.com/openpress/manuscripta/internal/journal/domain"
	"github.com/openpress/manuscripta/internal/journal/storage"
	"github.com/openpress/manuscripta/internal/journal/workflow"
	"github.com/openpress/manuscripta/internal/platform/errors"
)

// Outcome is a handler's verdict on the session loop.
type Outcome int

const (
	// OutcomeContinue keeps the session loop running.
	OutcomeContinue Outcome = iota
	// OutcomeTerminate ends the session loop.
	OutcomeTerminate
)

const defaultSecretTimeout = 5 * time.Second

// Options configures a Console.
type Options struct {
	In            io.Reader
	Out           io.Writer
	SecretTimeout time.Duration
	Clock         func() time.Time
}

// Console runs the single-user session loop over a journal store.
type Console struct {
	store         storage.Store
	engine        *workflow.Engine
	resolver      *auth.Resolver
	in            *Input
	out           io.Writer
	secretTimeout time.Duration
	clock         func() time.Time
	tracer        trace.Tracer

	session   auth.Session
	sessionID string
}

// New builds a Console over the given store.
func New(store storage.Store, opts Options) *Console {
	timeout := opts.SecretTimeout
	if timeout <= 0 {
		timeout = defaultSecretTimeout
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Console{
		store:         store,
		engine:        workflow.NewEngine(store, clock),
		resolver:      auth.NewResolver(store),
		in:            NewInput(opts.In),
		out:           opts.Out,
		secretTimeout: timeout,
		clock:         clock,
		tracer:        otel.Tracer("manuscripta/console"),
		sessionID:     uuid.NewString(),
	}
}

// Run drives the session loop until exit or end of input. Malformed user
// input never ends the loop; it prints a diagnostic and re-prompts.
func (c *Console) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if c.session.Role == domain.RoleInvalid {
			fmt.Fprint(c.out, "Enter User ID: ")
			line, err := c.in.ReadLine(ctx)
			if err != nil {
				return c.finishRead(err)
			}
			principalID, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil {
				fmt.Fprintln(c.out, "Invalid request: user ID must be an integer.")
				continue
			}
			c.login(ctx, principalID)
			continue
		}

		fmt.Fprintf(c.out, "%s %d> ", c.session.Role, c.session.LocalID)
		line, err := c.in.ReadLine(ctx)
		if err != nil {
			return c.finishRead(err)
		}
		if c.dispatch(ctx, line) == OutcomeTerminate {
			return nil
		}
	}
}

// finishRead translates the end of the input stream into a clean exit.
func (c *Console) finishRead(err error) error {
	if stderrors.Is(err, io.EOF) {
		fmt.Fprintln(c.out, "Reached end of stream, exiting...")
		return nil
	}
	return err
}

// dispatch tokenizes one command line and routes it. Session verbs (login,
// exit) work for every role; everything else goes to the active role's
// handler.
func (c *Console) dispatch(ctx context.Context, line string) Outcome {
	tokens := SplitCommand(line)
	if len(tokens) == 0 {
		return OutcomeContinue
	}
	verb := strings.ToLower(tokens[0])

	ctx, span := c.tracer.Start(ctx, "console.command",
		trace.WithAttributes(
			attribute.String("session.id", c.sessionID),
			attribute.String("session.role", c.session.Role.String()),
			attribute.String("command.verb", verb),
		))
	defer span.End()

	switch verb {
	case "exit":
		return OutcomeTerminate
	case "login":
		if len(tokens) != 2 {
			fmt.Fprintln(c.out, "Invalid command: too few or too many arguments")
			return OutcomeContinue
		}
		principalID, err := strconv.Atoi(tokens[1])
		if err != nil {
			fmt.Fprintln(c.out, "Invalid request: user ID must be an integer.")
			return OutcomeContinue
		}
		// A failed re-login keeps the current role bound.
		c.login(ctx, principalID)
		return OutcomeContinue
	}

	switch c.session.Role {
	case domain.RoleAuthor:
		c.handleAuthor(ctx, verb, tokens)
	case domain.RoleEditor:
		c.handleEditor(ctx, verb, tokens)
	case domain.RoleReviewer:
		c.handleReviewer(ctx, verb, tokens)
	case domain.RoleAdmin:
		c.handleAdmin(ctx, verb, tokens)
	}
	return OutcomeContinue
}

// login prompts for the secret, resolves the credential and, on success,
// binds the session and prints the greeting plus the role's status report.
func (c *Console) login(ctx context.Context, principalID int) bool {
	secret := c.promptSecret(ctx)

	session, err := c.resolver.Resolve(ctx, principalID, secret)
	if err != nil {
		switch {
		case stderrors.Is(err, errors.New(errors.CodeUnknownPrincipal, "")),
			stderrors.Is(err, errors.New(errors.CodeProfileMissing, "")):
			fmt.Fprintln(c.out, "User not found")
		case stderrors.Is(err, errors.New(errors.CodeSecretMismatch, "")):
			fmt.Fprintln(c.out, "Incorrect password!\nPlease try again.")
		case stderrors.Is(err, errors.New(errors.CodeUnknownRole, "")):
			fmt.Fprintln(c.out, "Invalid user type, please contact the system administrator.")
		default:
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
		return false
	}

	c.session = session
	c.sessionID = uuid.NewString()
	log.Printf("session %s: %s %d authenticated", c.sessionID, session.Role, session.LocalID)
	fmt.Fprintf(c.out, "Hello, %s \n", session.Name)

	status, err := c.roleStatus(ctx)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return true
	}
	fmt.Fprintf(c.out, "Status:\n%s\n", status)
	return true
}

// promptSecret runs the bounded password prompt. A timeout or end of
// stream proceeds with an empty secret.
func (c *Console) promptSecret(ctx context.Context) string {
	fmt.Fprint(c.out, "Enter password: ")
	secret, timedOut := c.in.ReadSecret(ctx, c.secretTimeout)
	if c.in.Interactive() {
		fmt.Fprintln(c.out)
	}
	if timedOut {
		fmt.Fprintln(c.out, "Password prompt timed out.")
	}
	return secret
}

func (c *Console) roleStatus(ctx context.Context) (string, error) {
	switch c.session.Role {
	case domain.RoleAuthor:
		return c.engine.AuthorStatus(ctx, c.session.LocalID)
	case domain.RoleEditor:
		return c.engine.EditorStatus(ctx)
	case domain.RoleReviewer:
		return c.engine.ReviewerStatus(ctx, c.session.LocalID)
	case domain.RoleAdmin:
		return c.engine.AdminStatus(ctx)
	default:
		return "", fmt.Errorf("no role bound")
	}
}
