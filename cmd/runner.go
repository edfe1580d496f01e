package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mhoffer1/spotify-release-hub/internal/formatter"
	"github.com/mhoffer1/spotify-release-hub/internal/shared"
	"github.com/mhoffer1/spotify-release-hub/internal/spotify"
	"github.com/mhoffer1/spotify-release-hub/internal/store"
	"github.com/mhoffer1/spotify-release-hub/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	engine  *tasks.Engine
	logger  *log.Logger
	output  io.Writer
	palette *formatter.Palette
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Engine *tasks.Engine
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		engine:  opts.Engine,
		logger:  opts.Logger,
		output:  opts.Output,
		palette: formatter.NewPalette(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, analyzeCommand, followCommand, scanCommand, playlistCommand, relatedCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

// resolveConfig returns the runner's config, loading it on first use from
// the command's --config flag. A missing or unparsable file falls back to
// defaults.
func (r *Runner) resolveConfig(cmd *cli.Command) *shared.Config {
	if r.config != nil {
		return r.config
	}

	path := cmd.String("config")
	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if loaded, err := shared.LoadConfig(path); err != nil {
			r.logger.Warn("failed to load config, using defaults", "path", path, "err", err)
		} else {
			config = loaded
		}
	}
	r.config = config
	return config
}

// requireEngine returns the API engine, building it on first use from the
// resolved config. Commands that need API credentials fail when none are
// configured.
func (r *Runner) requireEngine(cmd *cli.Command) (*tasks.Engine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	config := r.resolveConfig(cmd)
	if config.Credentials.ClientID == "" || config.Credentials.ClientSecret == "" {
		return nil, fmt.Errorf("%w: set client_id and client_secret in config.toml", shared.ErrMissingCredentials)
	}

	// A broken credential store degrades to in-memory tokens. The interface
	// stays nil in that case so the token manager skips persistence.
	var persist spotify.CredentialStore
	var token *oauth2.Token
	if s, err := store.Open(config.Database); err != nil {
		r.logger.Warn("credential store unavailable", "err", err)
	} else {
		persist = s
		if loaded, err := s.Load(); err == nil {
			token = loaded
		}
	}

	issuer := spotify.NewOAuthIssuer(
		config.Credentials.ClientID,
		config.Credentials.ClientSecret,
		config.Credentials.RedirectURI,
	)
	auth := spotify.NewTokenManager(token, issuer, persist, r.logger)

	client := spotify.NewClient(spotify.ClientOpts{
		Auth:   auth,
		Config: config.Client,
		Caches: spotify.NewCaches(cacheTTLs(config.Cache), shared.SystemClock{}),
		Logger: r.logger,
	})
	r.engine = tasks.NewEngine(client, config.Scan, r.logger)
	return r.engine, nil
}

// opLogger returns a child logger carrying a fresh operation ID.
func (r *Runner) opLogger(op string) *log.Logger {
	return shared.WithLogger(r.logger, "op", op, "op_id", shared.GenerateID())
}

// streamProgress starts a goroutine rendering progress updates to the
// output. The returned stop function closes the channel and waits for the
// renderer to drain it.
func (r *Runner) streamProgress() (chan<- tasks.ProgressUpdate, func()) {
	ch := make(chan tasks.ProgressUpdate, 64)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range ch {
			r.writePlain("%s\n", r.palette.Progress(update))
		}
	}()
	return ch, func() {
		close(ch)
		wg.Wait()
	}
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

	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
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

// elapsed reports a duration since start, rounded for display.
func elapsed(start time.Time) time.Duration {
	return time.Since(start).Round(time.Millisecond)
}
