// Package report renders the Steam ID matching report as markdown.
//
// Every local player becomes one section string; the header, summary and
// sections are kept as an ordered list and joined once, so the summary can
// sit above the per-player sections even though it is only known after
// all of them were rendered.
package report

import (
	"fmt"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/rostermatch/internal/matcher"
	"github.com/agentstation/rostermatch/internal/roster"
	"github.com/agentstation/rostermatch/pkg/constants"
	"github.com/agentstation/rostermatch/pkg/errors"
	"github.com/agentstation/rostermatch/pkg/ratings"
)

// Title is the report's top-level heading.
const Title = "Steam ID Matching Report"

// Input is everything the renderer needs for one run.
type Input struct {
	CTFCount  int
	TDMCount  int
	Players   []ratings.Player
	Conflicts []ratings.Conflict
	Roster    *roster.Roster
}

// Summary holds the per-run counters.
type Summary struct {
	// ExactMatches counts players with exactly one exact match.
	ExactMatches int `json:"exact_matches" yaml:"exact_matches"`
	// MultipleExact counts players with more than one exact match.
	MultipleExact int `json:"multiple_exact" yaml:"multiple_exact"`
	// Possible counts players with no exact and exactly one partial match.
	Possible int `json:"possible" yaml:"possible"`
	// NeedsManualLookup counts players without any candidate.
	NeedsManualLookup int `json:"needs_manual_lookup" yaml:"needs_manual_lookup"`
	// Total is the number of description files processed.
	Total int `json:"total" yaml:"total"`
}

// Entry is the outcome for one local player.
type Entry struct {
	Record   roster.Record
	Result   matcher.Result
	Decision Decision
}

// Report is a rendered report.
type Report struct {
	Summary  Summary
	Entries  []Entry
	header   string
	summary  string
	sections []string
}

// String joins the rendered blocks in document order.
func (r *Report) String() string {
	var b strings.Builder
	b.WriteString(r.header)
	b.WriteString(r.summary)
	for _, s := range r.sections {
		b.WriteString(s)
	}
	return b.String()
}

// Sections returns the per-player blocks in order.
func (r *Report) Sections() []string {
	return append([]string(nil), r.sections...)
}

// Renderer turns match results into markdown.
type Renderer struct {
	lookupURL string
	maxListed int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLookupURL sets the prefix of the external player search link.
func WithLookupURL(prefix string) Option {
	return func(r *Renderer) {
		if prefix != "" {
			r.lookupURL = prefix
		}
	}
}

// WithMaxListed caps the partial and similar lists of each section.
func WithMaxListed(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.maxListed = n
		}
	}
}

// NewRenderer creates a renderer with the default lookup URL and list cap.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		lookupURL: constants.LookupURL,
		maxListed: constants.MaxListedCandidates,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render matches every roster record against the merged players and builds
// the report.
func (r *Renderer) Render(in Input) (*Report, error) {
	if in.Roster == nil {
		return nil, errors.NewValidationError("roster", nil, "roster is required")
	}

	rep := &Report{}
	rep.Summary.Total = in.Roster.Files

	for _, rec := range in.Roster.Records {
		result := matcher.Find(rec.Name, in.Players)
		decision := Decide(result)

		switch {
		case result.Empty():
			rep.Summary.NeedsManualLookup++
		case decision.Verdict == Recommended:
			rep.Summary.ExactMatches++
		case decision.Verdict == MultipleExact:
			rep.Summary.MultipleExact++
		case decision.Verdict == Possible:
			rep.Summary.Possible++
		}

		section, err := r.section(rec, result, decision)
		if err != nil {
			return nil, errors.WrapResource("render", "section", rec.SourceFile, err)
		}
		rep.sections = append(rep.sections, section)
		rep.Entries = append(rep.Entries, Entry{Record: rec, Result: result, Decision: decision})
	}

	var err error
	if rep.header, err = r.header(in); err != nil {
		return nil, errors.WrapResource("render", "header", "", err)
	}
	if rep.summary, err = r.summary(rep.Summary, in.Conflicts); err != nil {
		return nil, errors.WrapResource("render", "summary", "", err)
	}

	return rep, nil
}

// LookupURL builds the external search link for a display name.
func (r *Renderer) LookupURL(name string) string {
	return r.lookupURL + strings.ReplaceAll(name, " ", "%20")
}

func (r *Renderer) header(in Input) (string, error) {
	var b strings.Builder
	err := md.NewMarkdown(&b).
		H1(Title).
		PlainText("").
		PlainTextf("Generated from %s (%d players) and %s (%d players) data.",
			ratings.ModeCTF.Label(), in.CTFCount, ratings.ModeTDM.Label(), in.TDMCount).
		PlainText("").
		PlainTextf("Total unique players in JSON: %d", len(in.Players)).
		PlainText("").
		PlainTextf("Total player YAMLs: %d", in.Roster.Files).
		PlainText("").
		HorizontalRule().
		Build()
	return block(&b), err
}

func (r *Renderer) summary(s Summary, conflicts []ratings.Conflict) (string, error) {
	var b strings.Builder
	doc := md.NewMarkdown(&b).
		H2("Summary").
		PlainText("").
		BulletList(
			fmt.Sprintf("%s %d players", md.Bold("Exact matches:"), s.ExactMatches),
			fmt.Sprintf("%s %d players", md.Bold("Need manual lookup:"), s.NeedsManualLookup),
			fmt.Sprintf("%s %d players", md.Bold("Total:"), s.Total),
		)

	if len(conflicts) > 0 {
		items := make([]string, len(conflicts))
		for i, c := range conflicts {
			items[i] = conflictLine(c)
		}
		doc.PlainText("").
			H2("Merge conflicts").
			PlainText("").
			PlainText("These ids appear more than once in the rating exports. The last value read was kept; verify them before use.").
			PlainText("").
			BulletList(items...)
	}

	err := doc.Build()
	return block(&b), err
}

func (r *Renderer) section(rec roster.Record, result matcher.Result, decision Decision) (string, error) {
	var b strings.Builder
	doc := md.NewMarkdown(&b).
		H2(fmt.Sprintf("%d. %s", rec.Position, rec.Name)).
		PlainText("").
		PlainTextf("%s %s", md.Bold("YAML file:"), md.Code(rec.SourceFile)).
		PlainText("").
		PlainText(md.Bold("Potential matches:")).
		PlainText("")

	shown := result.Limit(r.maxListed)
	items := make([]string, 0, len(shown.All())+1)
	for _, c := range shown.All() {
		items = append(items, candidateLine(c))
	}
	if result.Empty() {
		items = append(items, "❌ No matches found")
	}

	err := doc.BulletList(items...).
		PlainText("").
		PlainTextf("%s %s", md.Bold("QLStats search:"), r.LookupURL(rec.Name)).
		PlainText("").
		PlainText(decision.Line()).
		PlainText("").
		HorizontalRule().
		Build()
	return block(&b), err
}

// block ends a rendered block with exactly one blank line so blocks can be
// concatenated as they are.
func block(b *strings.Builder) string {
	return strings.TrimRight(b.String(), "\n") + "\n\n"
}

func candidateLine(c matcher.Candidate) string {
	var marker string
	switch c.Kind {
	case matcher.Exact:
		marker = "✅ " + md.Bold("EXACT:")
	case matcher.Partial:
		marker = "⚠️ PARTIAL:"
	default:
		marker = "🔍 SIMILAR:"
	}
	return fmt.Sprintf("%s \"%s\" → %s (%s)", marker, c.Name, md.Code(c.ID), c.Ratings())
}

func conflictLine(c ratings.Conflict) string {
	return fmt.Sprintf("%s %s", md.Code(c.ID), strings.TrimPrefix(c.String(), c.ID+": "))
}
