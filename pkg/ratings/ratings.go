// Package ratings holds the remote player records built from the rating
// exports and the id-keyed merge that combines them.
package ratings

import (
	"fmt"
	"strings"
)

// Mode identifies the game mode a rating export belongs to.
type Mode string

const (
	// ModeCTF is capture-the-flag.
	ModeCTF Mode = "ctf"
	// ModeTDM is team deathmatch.
	ModeTDM Mode = "tdm"
)

// Label returns the upper-case name used in console and report text.
func (m Mode) Label() string {
	return strings.ToUpper(string(m))
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	return string(m)
}

// Entry is one row of a rating export as served by the tracker.
type Entry struct {
	ID     string   `json:"_id"`
	Name   string   `json:"name"`
	Rating *float64 `json:"rating"`
}

// Export is the decoded content of one rating export.
type Export struct {
	Mode    Mode
	Entries []Entry
}

// Player is a merged remote record. A rating is nil when the player does not
// appear in that mode's export.
type Player struct {
	ID   string   `json:"id" yaml:"id"`
	Name string   `json:"name" yaml:"name"`
	CTF  *float64 `json:"ctf_rating,omitempty" yaml:"ctf_rating,omitempty"`
	TDM  *float64 `json:"tdm_rating,omitempty" yaml:"tdm_rating,omitempty"`
}

// Rating returns the rating for mode, or nil.
func (p Player) Rating(mode Mode) *float64 {
	switch mode {
	case ModeCTF:
		return p.CTF
	case ModeTDM:
		return p.TDM
	default:
		return nil
	}
}

// withRating returns a copy of p with the rating for mode replaced.
func (p Player) withRating(mode Mode, rating *float64) Player {
	switch mode {
	case ModeCTF:
		p.CTF = rating
	case ModeTDM:
		p.TDM = rating
	}
	return p
}

// RatingString formats the player's ratings, see Format.
func (p Player) RatingString() string {
	return Format(p.CTF, p.TDM)
}

// Format renders ratings as "CTF: X.X, TDM: Y.Y" with one decimal, omitting
// absent ratings, or "No ratings" when both are absent.
func Format(ctf, tdm *float64) string {
	parts := make([]string, 0, 2)
	if ctf != nil {
		parts = append(parts, fmt.Sprintf("%s: %.1f", ModeCTF.Label(), *ctf))
	}
	if tdm != nil {
		parts = append(parts, fmt.Sprintf("%s: %.1f", ModeTDM.Label(), *tdm))
	}
	if len(parts) == 0 {
		return "No ratings"
	}
	return strings.Join(parts, ", ")
}
