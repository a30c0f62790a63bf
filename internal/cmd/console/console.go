// Package console parses console command flags and runs the session loop.
package console

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	journalconsole "github.com/openpress/manuscripta/internal/journal/console"
	"github.com/openpress/manuscripta/internal/journal/provision"
	"github.com/openpress/manuscripta/internal/journal/storage/sqlite"
	entrypoint "github.com/openpress/manuscripta/internal/platform/cmd"
)

// Config holds console command configuration.
type Config struct {
	DBPath        string        `env:"MANUSCRIPTA_DB_PATH"        envDefault:"data/manuscripta.db"`
	SecretTimeout time.Duration `env:"MANUSCRIPTA_SECRET_TIMEOUT" envDefault:"5s"`
	Rebuild       bool
	Populate      bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "path to the journal SQLite database")
	fs.DurationVar(&cfg.SecretTimeout, "secret-timeout", cfg.SecretTimeout, "bounded wait for the password prompt")
	fs.BoolVar(&cfg.Rebuild, "rebuild", cfg.Rebuild, "wipe the database before starting")
	fs.BoolVar(&cfg.Populate, "populate", cfg.Populate, "wipe the database and load seed fixtures (implies -rebuild)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens the store, provisions it when asked, and drives the session
// loop over the given streams.
func Run(ctx context.Context, cfg Config, in io.Reader, out, errOut io.Writer) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceConsole, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open journal store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				fmt.Fprintf(errOut, "Error: close journal store: %v\n", err)
			}
		}()

		switch {
		case cfg.Populate:
			if err := provision.Populate(ctx, store, nil); err != nil {
				return fmt.Errorf("populate journal store: %w", err)
			}
		case cfg.Rebuild:
			if err := provision.Rebuild(ctx, store); err != nil {
				return fmt.Errorf("rebuild journal store: %w", err)
			}
		}

		c := journalconsole.New(store, journalconsole.Options{
			In:            in,
			Out:           out,
			SecretTimeout: cfg.SecretTimeout,
		})
		return c.Run(ctx)
	})
}
