package lineup

import (
	"sort"
	"strings"
)

// teamAbbreviations maps the short code used in lineup headers to the club
// name used in notifications.
var teamAbbreviations = map[string]string{
	"ARI": "Diamondbacks",
	"ATH": "Athletics",
	"ATL": "Braves",
	"BAL": "Orioles",
	"BOS": "Red Sox",
	"CHC": "Cubs",
	"CIN": "Reds",
	"CLE": "Guardians",
	"COL": "Rockies",
	"CWS": "White Sox",
	"DET": "Tigers",
	"HOU": "Astros",
	"KC":  "Royals",
	"LAA": "Angels",
	"LAD": "Dodgers",
	"MIA": "Marlins",
	"MIL": "Brewers",
	"MIN": "Twins",
	"NYM": "Mets",
	"NYY": "Yankees",
	"PHI": "Phillies",
	"PIT": "Pirates",
	"SD":  "Padres",
	"SEA": "Mariners",
	"SF":  "Giants",
	"STL": "Cardinals",
	"TB":  "Rays",
	"TEX": "Rangers",
	"TOR": "Blue Jays",
	"WSH": "Nationals",
}

// teamEntry is one lookup key (abbreviation or full name) for a club.
type teamEntry struct {
	key  string // lowercased
	name string
}

// teamTable holds lookup entries ordered longest-key-first so that prefix
// matching prefers the most specific entry ("White Sox" over "WSH" etc.).
var teamTable = buildTeamTable()

func buildTeamTable() []teamEntry {
	entries := make([]teamEntry, 0, 2*len(teamAbbreviations))
	for abbr, name := range teamAbbreviations {
		entries = append(entries, teamEntry{key: strings.ToLower(abbr), name: name})
		entries = append(entries, teamEntry{key: strings.ToLower(name), name: name})
	}
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].key) != len(entries[j].key) {
			return len(entries[i].key) > len(entries[j].key)
		}
		return entries[i].key < entries[j].key
	})
	return entries
}

// matchTeamPrefix returns the club whose abbreviation or full name prefixes
// the given line, case-insensitively, preferring the longest match.
func matchTeamPrefix(line string) (string, bool) {
	lowered := strings.ToLower(line)
	for _, e := range teamTable {
		if strings.HasPrefix(lowered, e.key) {
			return e.name, true
		}
	}
	return "", false
}

// matchTeamIn returns the club whose abbreviation or full name appears at the
// start of s (after trimming), used for opponent resolution.
func matchTeamIn(s string) (string, bool) {
	return matchTeamPrefix(strings.TrimSpace(s))
}
