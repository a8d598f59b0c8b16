// Package export downloads the per-mode rating exports from the community
// tracker. A failed download never aborts a run: the fetcher reports the
// error and hands back an empty export instead.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/agentstation/rostermatch/internal/transport"
	"github.com/agentstation/rostermatch/pkg/errors"
	"github.com/agentstation/rostermatch/pkg/logging"
	"github.com/agentstation/rostermatch/pkg/ratings"
)

// Source is one rating export endpoint.
type Source struct {
	Mode ratings.Mode
	URL  string
}

// Fetcher downloads rating exports.
type Fetcher struct {
	client   *transport.Client
	progress io.Writer
}

// NewFetcher creates a fetcher. Fetch failures are reported on progress.
func NewFetcher(client *transport.Client, progress io.Writer) *Fetcher {
	if progress == nil {
		progress = io.Discard
	}
	return &Fetcher{client: client, progress: progress}
}

// Fetch downloads and decodes one export.
func (f *Fetcher) Fetch(ctx context.Context, src Source) ([]ratings.Entry, error) {
	var entries []ratings.Entry
	if err := f.client.GetJSON(ctx, src.Mode.String(), src.URL, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FetchOrEmpty downloads one export, substituting an empty one on any error.
func (f *Fetcher) FetchOrEmpty(ctx context.Context, src Source) ratings.Export {
	ctx = logging.WithSource(ctx, src.Mode.String())
	logger := logging.FromContext(ctx)

	entries, err := f.Fetch(ctx, src)
	if err != nil {
		_, _ = fmt.Fprintf(f.progress, "Error fetching %s: %v\n", src.URL, err)
		logger.Warn().
			Err(err).
			Str("url", src.URL).
			Str("reason", failureReason(err)).
			Msg("Rating export unavailable, continuing with an empty list")
		return ratings.Export{Mode: src.Mode}
	}

	logger.Debug().
		Int("entries", len(entries)).
		Str("url", src.URL).
		Msg("Fetched rating export")
	return ratings.Export{Mode: src.Mode, Entries: entries}
}

// failureReason classifies a fetch error for the log line.
func failureReason(err error) string {
	switch {
	case errors.IsTimeout(err):
		return "timeout"
	case errors.IsSourceUnavailable(err):
		return "host unavailable"
	default:
		return "request failed"
	}
}
