// Package matcher classifies remote players against a local display name.
//
// Names are compared after normalization (Unicode lower-casing and trimming
// surrounding whitespace). Each remote player lands in at most one bucket,
// checked in this order:
//
//   - exact: normalized names are identical
//   - partial: one normalized name contains the other and both are at
//     least three characters long
//   - similar: the remote name is at least four characters long and starts
//     with the first four characters of the local name
package matcher

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/rostermatch/pkg/constants"
	"github.com/agentstation/rostermatch/pkg/ratings"
)

// Kind is the bucket a candidate falls into.
type Kind int

const (
	// None means the remote player is not a candidate.
	None Kind = iota
	// Exact means the normalized names are identical.
	Exact
	// Partial means one normalized name is a substring of the other.
	Partial
	// Similar means the remote name shares the local name's prefix.
	Similar
)

// String returns a string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Partial:
		return "partial"
	case Similar:
		return "similar"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Candidate is a remote player matched against one local name.
type Candidate struct {
	Name string   `json:"name" yaml:"name"`
	ID   string   `json:"id" yaml:"id"`
	CTF  *float64 `json:"ctf_rating,omitempty" yaml:"ctf_rating,omitempty"`
	TDM  *float64 `json:"tdm_rating,omitempty" yaml:"tdm_rating,omitempty"`
	Kind Kind     `json:"kind" yaml:"kind"`
}

// Ratings formats the candidate's ratings.
func (c Candidate) Ratings() string {
	return ratings.Format(c.CTF, c.TDM)
}

// Result holds the candidates for one local name, each bucket in the order
// the remote players were given.
type Result struct {
	Exact   []Candidate
	Partial []Candidate
	Similar []Candidate
}

// Empty reports whether no remote player matched at all.
func (r Result) Empty() bool {
	return len(r.Exact) == 0 && len(r.Partial) == 0 && len(r.Similar) == 0
}

// Limit returns a copy with Partial and Similar truncated to n entries.
// Exact is never truncated.
func (r Result) Limit(n int) Result {
	return Result{
		Exact:   r.Exact,
		Partial: head(r.Partial, n),
		Similar: head(r.Similar, n),
	}
}

// All returns every candidate, exact first.
func (r Result) All() []Candidate {
	all := make([]Candidate, 0, len(r.Exact)+len(r.Partial)+len(r.Similar))
	all = append(all, r.Exact...)
	all = append(all, r.Partial...)
	return append(all, r.Similar...)
}

func head(cs []Candidate, n int) []Candidate {
	if n >= 0 && len(cs) > n {
		return cs[:n]
	}
	return cs
}

// Normalize lower-cases and trims a name for comparison. The result is
// never displayed.
func Normalize(name string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(name))
}

// Matcher compares remote players with one local name.
type Matcher struct {
	local  string
	prefix string
}

// New prepares a matcher for a local display name.
func New(localName string) *Matcher {
	local := Normalize(localName)
	return &Matcher{
		local:  local,
		prefix: prefixOf(local, constants.SimilarPrefixLength),
	}
}

// Classify returns the bucket for one remote name.
func (m *Matcher) Classify(remoteName string) Kind {
	remote := Normalize(remoteName)

	if remote == m.local {
		return Exact
	}

	// a substring pair is never similar, even when too short to be partial
	if strings.Contains(remote, m.local) || strings.Contains(m.local, remote) {
		if length(m.local) >= constants.MinPartialLength && length(remote) >= constants.MinPartialLength {
			return Partial
		}
		return None
	}

	if length(remote) >= constants.MinSimilarLength && strings.HasPrefix(remote, m.prefix) {
		return Similar
	}

	return None
}

// Find classifies every remote player in a single pass.
func (m *Matcher) Find(players []ratings.Player) Result {
	var result Result
	for _, p := range players {
		kind := m.Classify(p.Name)
		if kind == None {
			continue
		}

		c := Candidate{Name: p.Name, ID: p.ID, CTF: p.CTF, TDM: p.TDM, Kind: kind}
		switch kind {
		case Exact:
			result.Exact = append(result.Exact, c)
		case Partial:
			result.Partial = append(result.Partial, c)
		case Similar:
			result.Similar = append(result.Similar, c)
		}
	}
	return result
}

// Find is a shorthand for New(localName).Find(players).
func Find(localName string, players []ratings.Player) Result {
	return New(localName).Find(players)
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}

// prefixOf returns the first n characters of s, or s if it is shorter.
func prefixOf(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
