package ratings

import (
	"fmt"
	"strings"
)

// ConflictKind describes what an id collision did to the merged record.
type ConflictKind string

const (
	// ConflictRenamed means a later entry replaced the record under a different name.
	ConflictRenamed ConflictKind = "renamed"
	// ConflictNameMismatch means a later export matched the id under a different
	// name; the ratings were joined and the first name kept.
	ConflictNameMismatch ConflictKind = "name_mismatch"
	// ConflictRatingOverwritten means the same mode rated the id twice; the last value wins.
	ConflictRatingOverwritten ConflictKind = "rating_overwritten"
)

// Conflict records an id collision seen while merging. The merge keeps
// last-writer-wins semantics; conflicts exist so the report can flag them.
type Conflict struct {
	ID       string
	Mode     Mode
	Kind     ConflictKind
	Previous string
	Current  string
}

// String implements fmt.Stringer.
func (c Conflict) String() string {
	switch c.Kind {
	case ConflictRatingOverwritten:
		return fmt.Sprintf("%s: %s rating %s replaced by %s", c.ID, c.Mode.Label(), c.Previous, c.Current)
	case ConflictNameMismatch:
		return fmt.Sprintf("%s: %s lists %q, kept %q", c.ID, c.Mode.Label(), c.Current, c.Previous)
	default:
		return fmt.Sprintf("%s: %q replaced by %q in %s", c.ID, c.Previous, c.Current, c.Mode.Label())
	}
}

// Index is the merged view of all exports keyed by player id. Iteration
// follows first-insertion order.
type Index struct {
	order     []string
	byID      map[string]Player
	seen      map[string]map[Mode]bool
	conflicts []Conflict
}

// Merge combines exports in the given order. The first export writes whole
// records, so a repeated id inside it replaces the earlier record. Every
// later export only fills in its own rating on known ids and inserts the
// rest. Entries without an id are dropped.
func Merge(exports ...Export) *Index {
	idx := &Index{
		byID: make(map[string]Player),
		seen: make(map[string]map[Mode]bool),
	}
	for i, export := range exports {
		idx.add(export, i == 0)
	}
	return idx
}

func (idx *Index) add(export Export, replace bool) {
	for _, entry := range export.Entries {
		if entry.ID == "" {
			continue
		}

		existing, ok := idx.byID[entry.ID]
		switch {
		case !ok:
			idx.order = append(idx.order, entry.ID)
			idx.byID[entry.ID] = Player{ID: entry.ID, Name: entry.Name}.withRating(export.Mode, entry.Rating)
		case replace:
			if !sameName(existing.Name, entry.Name) {
				idx.record(entry.ID, export.Mode, ConflictRenamed, existing.Name, entry.Name)
			} else if idx.rated(entry.ID, export.Mode) {
				idx.recordRating(entry.ID, export.Mode, existing.Rating(export.Mode), entry.Rating)
			}
			idx.byID[entry.ID] = Player{ID: entry.ID, Name: entry.Name}.withRating(export.Mode, entry.Rating)
		default:
			if idx.rated(entry.ID, export.Mode) {
				idx.recordRating(entry.ID, export.Mode, existing.Rating(export.Mode), entry.Rating)
			} else if !sameName(existing.Name, entry.Name) {
				idx.record(entry.ID, export.Mode, ConflictNameMismatch, existing.Name, entry.Name)
			}
			idx.byID[entry.ID] = existing.withRating(export.Mode, entry.Rating)
		}
		idx.markRated(entry.ID, export.Mode)
	}
}

func (idx *Index) rated(id string, mode Mode) bool {
	return idx.seen[id][mode]
}

func (idx *Index) markRated(id string, mode Mode) {
	if idx.seen[id] == nil {
		idx.seen[id] = make(map[Mode]bool)
	}
	idx.seen[id][mode] = true
}

func (idx *Index) record(id string, mode Mode, kind ConflictKind, previous, current string) {
	idx.conflicts = append(idx.conflicts, Conflict{
		ID:       id,
		Mode:     mode,
		Kind:     kind,
		Previous: previous,
		Current:  current,
	})
}

func (idx *Index) recordRating(id string, mode Mode, previous, current *float64) {
	idx.record(id, mode, ConflictRatingOverwritten, formatOptional(previous), formatOptional(current))
}

// Players returns the merged records in first-insertion order.
func (idx *Index) Players() []Player {
	players := make([]Player, 0, len(idx.order))
	for _, id := range idx.order {
		players = append(players, idx.byID[id])
	}
	return players
}

// Get returns the merged record for id.
func (idx *Index) Get(id string) (Player, bool) {
	p, ok := idx.byID[id]
	return p, ok
}

// Len returns the number of unique ids.
func (idx *Index) Len() int {
	return len(idx.order)
}

// Conflicts returns the id collisions seen during the merge.
func (idx *Index) Conflicts() []Conflict {
	return append([]Conflict(nil), idx.conflicts...)
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func formatOptional(v *float64) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprintf("%.1f", *v)
}
