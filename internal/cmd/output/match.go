package output

import (
	"github.com/agentstation/rostermatch/internal/matcher"
	"github.com/agentstation/rostermatch/internal/report"
)

// Match is the printable result of the match command.
type Match struct {
	Query     string              `json:"query" yaml:"query"`
	Verdict   report.Verdict      `json:"verdict" yaml:"verdict"`
	Suggested string              `json:"suggested_id,omitempty" yaml:"suggested_id,omitempty"`
	LookupURL string              `json:"lookup_url" yaml:"lookup_url"`
	Exact     []matcher.Candidate `json:"exact" yaml:"exact"`
	Partial   []matcher.Candidate `json:"partial" yaml:"partial"`
	Similar   []matcher.Candidate `json:"similar" yaml:"similar"`
}

// NewMatch builds the printable result for one queried name.
func NewMatch(query string, result matcher.Result, renderer *report.Renderer) Match {
	decision := report.Decide(result)
	m := Match{
		Query:     query,
		Verdict:   decision.Verdict,
		LookupURL: renderer.LookupURL(query),
		Exact:     nonNil(result.Exact),
		Partial:   nonNil(result.Partial),
		Similar:   nonNil(result.Similar),
	}
	if decision.Candidate != nil {
		m.Suggested = decision.Candidate.ID
	}
	return m
}

// TableData lists every candidate, one row each, exact first.
func (m Match) TableData() Data {
	result := matcher.Result{Exact: m.Exact, Partial: m.Partial, Similar: m.Similar}

	rows := make([][]string, 0, len(m.Exact)+len(m.Partial)+len(m.Similar))
	for _, c := range result.All() {
		marker := ""
		if c.ID == m.Suggested {
			marker = "*"
		}
		rows = append(rows, []string{marker, c.Kind.String(), c.Name, c.ID, c.Ratings()})
	}

	return Data{
		Headers:         []string{"", "Kind", "Name", "ID", "Ratings"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignCenter, AlignLeft, AlignLeft, AlignLeft, AlignLeft},
	}
}

func nonNil(cs []matcher.Candidate) []matcher.Candidate {
	if cs == nil {
		return []matcher.Candidate{}
	}
	return cs
}
