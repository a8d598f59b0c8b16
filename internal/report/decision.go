package report

import (
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/rostermatch/internal/matcher"
)

// Verdict is the recommendation for one local player.
type Verdict int

const (
	// ManualLookup means no single candidate stands out.
	ManualLookup Verdict = iota
	// Recommended means exactly one exact match was found.
	Recommended
	// MultipleExact means several remote players share the exact name.
	MultipleExact
	// Possible means there is no exact match but exactly one partial one.
	Possible
)

// String returns a string representation of the Verdict.
func (v Verdict) String() string {
	switch v {
	case Recommended:
		return "recommended"
	case MultipleExact:
		return "multiple_exact_matches"
	case Possible:
		return "possible"
	default:
		return "manual_lookup_needed"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Decision is a verdict plus the candidate it points at, if any.
type Decision struct {
	Verdict   Verdict
	Candidate *matcher.Candidate
}

// Decide picks the recommendation for a match result. Exact matches win
// over partial ones; a lone partial match is only a suggestion.
func Decide(result matcher.Result) Decision {
	switch {
	case len(result.Exact) == 1:
		c := result.Exact[0]
		return Decision{Verdict: Recommended, Candidate: &c}
	case len(result.Exact) > 1:
		return Decision{Verdict: MultipleExact}
	case len(result.Partial) == 1:
		c := result.Partial[0]
		return Decision{Verdict: Possible, Candidate: &c}
	default:
		return Decision{Verdict: ManualLookup}
	}
}

// Line renders the decision as a markdown line.
func (d Decision) Line() string {
	switch d.Verdict {
	case Recommended:
		return fmt.Sprintf("%s %s", md.Bold("Recommended:"), md.Code(d.Candidate.ID))
	case MultipleExact:
		return fmt.Sprintf("%s MULTIPLE_EXACT_MATCHES - Review needed", md.Bold("Decision:"))
	case Possible:
		return fmt.Sprintf("%s %s (verify name: \"%s\")", md.Bold("Possible:"), md.Code(d.Candidate.ID), d.Candidate.Name)
	default:
		return fmt.Sprintf("%s %s", md.Bold("Decision:"), md.Code("MANUAL_LOOKUP_NEEDED"))
	}
}
