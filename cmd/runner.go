package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytshift/internal/batch"
	"github.com/desertthunder/ytshift/internal/order"
	"github.com/desertthunder/ytshift/internal/repositories"
	"github.com/desertthunder/ytshift/internal/services"
	"github.com/desertthunder/ytshift/internal/shared"
	"github.com/desertthunder/ytshift/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	catalog services.Catalog
	api     *services.APIService
	planner *order.Planner
	logger  *log.Logger
	output  io.Writer
	db      *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Catalog services.Catalog
	API     *services.APIService
	Planner *order.Planner
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Planner == nil && opts.Catalog != nil {
		opts.Planner = order.NewPlanner(opts.Catalog, pollPolicy(opts.Config), opts.Config.Playlist.EntryLimit)
	}

	return &Runner{
		config:  opts.Config,
		catalog: opts.Catalog,
		api:     opts.API,
		planner: opts.Planner,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

// pollPolicy builds the reconciliation poll schedule from config, falling
// back to the defaults for unset values.
func pollPolicy(config *shared.Config) order.PollPolicy {
	policy := order.DefaultPollPolicy()
	if config.Reconcile.PollAttempts > 0 {
		policy.Attempts = config.Reconcile.PollAttempts
	}
	if config.Reconcile.PollDelayMS > 0 {
		policy.Delay = time.Duration(config.Reconcile.PollDelayMS) * time.Millisecond
	}
	return policy
}

// SetLogger swaps the runner's logger. The TUI uses this to redirect logs
// to a file while it owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// Close releases the match cache database if a command opened it.
func (r *Runner) Close() {
	if r.db != nil {
		r.db.Close()
		r.db = nil
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		statusCommand, playlistsCommand, songsCommand, migrateCommand, batchCommand,
		serveCommand, setupCommand, cacheCommand, apiCommand, tuiCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openDB opens the match cache database once per process, running migrations
// on first open.
func (r *Runner) openDB() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	return db, nil
}

func (r *Runner) matchRepo() (*repositories.MatchRepository, error) {
	db, err := r.openDB()
	if err != nil {
		return nil, err
	}
	return repositories.NewMatchRepository(db), nil
}

// matchCache returns the persistent match cache, or nil when the database
// cannot be opened. Migrations run without memoization in that case.
func (r *Runner) matchCache() tasks.MatchCache {
	repo, err := r.matchRepo()
	if err != nil {
		r.logger.Warn("match cache unavailable", "error", err)
		return nil
	}
	return repositories.NewMatchCacheAdapter(repo, r.logger)
}

func (r *Runner) engine(cache tasks.MatchCache) tasks.Engine {
	return tasks.NewMigrationEngine(r.catalog, r.planner, cache)
}

// batchHandler assembles the action dispatcher the batch and serve commands
// share.
func (r *Runner) batchHandler() *batch.Handler {
	return batch.NewHandler(batch.HandlerOpts{
		Catalog:  r.catalog,
		Planner:  r.planner,
		Engine:   r.engine(r.matchCache()),
		AuthFile: r.config.Proxy.AuthFile,
		Debug:    r.config.Debug,
		Logger:   r.logger,
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
