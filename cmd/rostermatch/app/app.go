// Package app provides the application context and dependency management
// for the rostermatch CLI. Configuration, logging and the reconciliation
// pipeline are created here and handed to the cobra commands.
package app

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/rostermatch/internal/reconcile"
	"github.com/agentstation/rostermatch/internal/transport"
	"github.com/agentstation/rostermatch/pkg/errors"
)

// App represents the rostermatch application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	stdout io.Writer
	stderr io.Writer

	// client overrides the export HTTP client (tests)
	client *transport.Client
}

// New creates a new App instance with the given version information.
// The app is initialized from the default configuration sources and can
// be customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Pipeline creates a reconciliation pipeline from the current configuration.
// Progress lines go to progress.
func (a *App) Pipeline(progress io.Writer) (*reconcile.Pipeline, error) {
	var opts []reconcile.Option
	if a.client != nil {
		opts = append(opts, reconcile.WithClient(a.client))
	}

	p, err := reconcile.New(a.config.ReconcileOptions(), progress, opts...)
	if err != nil {
		return nil, errors.NewConfigError("reconcile", err.Error(), err)
	}
	return p, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewConfigError("app", "config must not be nil", nil)
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithOutput redirects command output and error streams.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *App) error {
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
		return nil
	}
}

// WithClient sets the HTTP client used for the rating exports.
func WithClient(client *transport.Client) Option {
	return func(a *App) error {
		a.client = client
		return nil
	}
}
