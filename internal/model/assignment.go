package model

import (
	"sort"
	"strings"
)

// Unassigned marks a team that no participant owns.
const Unassigned = "N/A"

// FanAssignment maps a team abbreviation to the participant who owns it.
type FanAssignment map[string]string

// Owner returns the participant owning abbrev, or false when the team is
// unknown or unassigned.
func (a FanAssignment) Owner(abbrev string) (string, bool) {
	p, ok := a[abbrev]
	p = strings.TrimSpace(p)
	if !ok || p == "" || p == Unassigned {
		return "", false
	}
	return p, true
}

// Owns reports whether abbrev has a participant.
func (a FanAssignment) Owns(abbrev string) bool {
	_, ok := a.Owner(abbrev)
	return ok
}

// OwnedTeams returns every owned abbreviation in sorted order.
func (a FanAssignment) OwnedTeams() []string {
	out := make([]string, 0, len(a))
	for abbrev := range a {
		if a.Owns(abbrev) {
			out = append(out, abbrev)
		}
	}
	sort.Strings(out)
	return out
}

// Participants returns the distinct participant names in sorted order.
func (a FanAssignment) Participants() []string {
	seen := make(map[string]struct{})
	for abbrev := range a {
		if p, ok := a.Owner(abbrev); ok {
			seen[p] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// TeamsOf returns the sorted abbreviations owned by participant.
func (a FanAssignment) TeamsOf(participant string) []string {
	var out []string
	for abbrev := range a {
		if p, ok := a.Owner(abbrev); ok && p == participant {
			out = append(out, abbrev)
		}
	}
	sort.Strings(out)
	return out
}
