// Package reconcile runs the matching pipeline: fetch both rating exports,
// merge them, scan the local roster, match every local name and write the
// report.
package reconcile

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/agentstation/rostermatch/internal/matcher"
	"github.com/agentstation/rostermatch/internal/report"
	"github.com/agentstation/rostermatch/internal/roster"
	"github.com/agentstation/rostermatch/internal/sources/export"
	"github.com/agentstation/rostermatch/internal/transport"
	"github.com/agentstation/rostermatch/pkg/constants"
	"github.com/agentstation/rostermatch/pkg/errors"
	"github.com/agentstation/rostermatch/pkg/logging"
	"github.com/agentstation/rostermatch/pkg/ratings"
)

// Options holds the locations a run reads from and writes to.
type Options struct {
	CTFURL         string
	TDMURL         string
	PlayersDir     string
	PlayersPattern string
	OutputPath     string
	LookupURL      string
	HTTPTimeout    time.Duration
}

// DefaultOptions returns the fixed production locations.
func DefaultOptions() Options {
	return Options{
		CTFURL:         constants.CTFExportURL,
		TDMURL:         constants.TDMExportURL,
		PlayersDir:     constants.DefaultPlayersDir,
		PlayersPattern: constants.DefaultPlayersPattern,
		OutputPath:     constants.DefaultOutputPath,
		LookupURL:      constants.LookupURL,
		HTTPTimeout:    constants.DefaultHTTPTimeout,
	}
}

// Validate checks that every location is set.
func (o Options) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"ctf_url", o.CTFURL},
		{"tdm_url", o.TDMURL},
		{"players_dir", o.PlayersDir},
		{"output_path", o.OutputPath},
	}
	for _, r := range required {
		if r.value == "" {
			return errors.NewValidationError(r.field, r.value, "must not be empty")
		}
	}
	if o.HTTPTimeout < 0 {
		return errors.NewValidationError("http_timeout", o.HTTPTimeout, "must not be negative")
	}
	return nil
}

// Pipeline runs reconciliations.
type Pipeline struct {
	opts     Options
	progress io.Writer
	client   *transport.Client
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClient replaces the HTTP client used for the rating exports.
func WithClient(client *transport.Client) Option {
	return func(p *Pipeline) {
		if client != nil {
			p.client = client
		}
	}
}

// New creates a pipeline. Progress lines are printed to progress.
func New(opts Options, progress io.Writer, options ...Option) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = io.Discard
	}

	p := &Pipeline{opts: opts, progress: progress}
	for _, opt := range options {
		opt(p)
	}
	if p.client == nil {
		p.client = transport.New(
			transport.BrowserHeaders(constants.RatingHost),
			transport.WithTimeout(opts.HTTPTimeout),
		)
	}
	return p, nil
}

// Options returns the pipeline's options.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Remote is the merged remote data of one run.
type Remote struct {
	CTF   ratings.Export
	TDM   ratings.Export
	Index *ratings.Index
}

// Result describes a finished run.
type Result struct {
	Report     *report.Report
	Summary    report.Summary
	OutputPath string
	Remote     *Remote
	Roster     *roster.Roster
}

// Fetch downloads both exports in order and merges them. An unavailable
// export contributes no players; Fetch itself only fails when ctx is done.
func (p *Pipeline) Fetch(ctx context.Context) (*Remote, error) {
	fetcher := export.NewFetcher(p.client, p.progress)

	remote := &Remote{}
	sources := []struct {
		src    export.Source
		target *ratings.Export
	}{
		{export.Source{Mode: ratings.ModeCTF, URL: p.opts.CTFURL}, &remote.CTF},
		{export.Source{Mode: ratings.ModeTDM, URL: p.opts.TDMURL}, &remote.TDM},
	}

	for _, s := range sources {
		label := s.src.Mode.Label()
		p.printf("Fetching %s data...\n", label)
		*s.target = fetcher.FetchOrEmpty(ctx, s.src)
		p.printf("  Got %d %s players\n", len(s.target.Entries), label)

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	remote.Index = ratings.Merge(remote.CTF, remote.TDM)
	p.printf("Combined: %d unique players\n", remote.Index.Len())

	logger := logging.Ctx(ctx)
	for _, c := range remote.Index.Conflicts() {
		logger.Warn().
			Str("id", c.ID).
			Str("mode", c.Mode.String()).
			Str("kind", string(c.Kind)).
			Str("previous", c.Previous).
			Str("current", c.Current).
			Msg("Rating export id collision")
	}

	return remote, nil
}

// Run executes the whole pipeline and writes the report.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	ctx = logging.WithOperation(ctx, "report")
	logger := logging.Ctx(ctx)
	started := time.Now()

	remote, err := p.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	r, err := roster.Collect(ctx, p.opts.PlayersDir, p.opts.PlayersPattern)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Int("files", r.Files).
		Int("records", len(r.Records)).
		Int("skipped", len(r.Skipped)).
		Msg("Collected roster")

	renderer := report.NewRenderer(report.WithLookupURL(p.opts.LookupURL))
	rep, err := renderer.Render(report.Input{
		CTFCount:  len(remote.CTF.Entries),
		TDMCount:  len(remote.TDM.Entries),
		Players:   remote.Index.Players(),
		Conflicts: remote.Index.Conflicts(),
		Roster:    r,
	})
	if err != nil {
		return nil, err
	}

	if err := report.Write(ctx, p.opts.OutputPath, rep.String()); err != nil {
		return nil, err
	}

	p.printf("\nReport written to: %s\n", p.opts.OutputPath)
	p.printf("Exact matches: %d\n", rep.Summary.ExactMatches)
	p.printf("Need manual lookup: %d\n", rep.Summary.NeedsManualLookup)

	logger.Info().
		Int("players", r.Files).
		Int("exact", rep.Summary.ExactMatches).
		Int("manual", rep.Summary.NeedsManualLookup).
		Dur("elapsed", time.Since(started)).
		Str("output", p.opts.OutputPath).
		Msg("Reconciliation complete")

	return &Result{
		Report:     rep,
		Summary:    rep.Summary,
		OutputPath: p.opts.OutputPath,
		Remote:     remote,
		Roster:     r,
	}, nil
}

// Match fetches the remote data and classifies it against a single name.
func (p *Pipeline) Match(ctx context.Context, name string) (matcher.Result, error) {
	if matcher.Normalize(name) == "" {
		return matcher.Result{}, errors.NewValidationError("name", name, "must not be empty")
	}

	ctx = logging.WithPlayer(logging.WithOperation(ctx, "match"), name)
	remote, err := p.Fetch(ctx)
	if err != nil {
		return matcher.Result{}, err
	}
	return matcher.Find(name, remote.Index.Players()), nil
}

func (p *Pipeline) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.progress, format, args...)
}
