// Package model defines the domain types used across the application.
package model

import "time"

// Post is a single item from a feed source. The ID is content-addressed by the
// source, so re-fetching the same post always yields the same ID.
type Post struct {
	ID        string
	Author    string
	RawText   string
	CreatedAt time.Time
}

// AlertCategory is the closed set of alert classifications.
type AlertCategory string

// Supported alert categories.
const (
	CategoryGame   AlertCategory = "Game"
	CategoryLineup AlertCategory = "Lineup"
	CategoryStatus AlertCategory = "Status"
	CategoryInjury AlertCategory = "Injury"
	CategoryNews   AlertCategory = "News"
)

// AlertClassification is the result of running a post through the classifier.
// When IsMatch is false the remaining fields carry no meaning.
type AlertClassification struct {
	IsMatch        bool
	Category       AlertCategory
	MatchedTrigger string
	DisplayText    string
}

// BattingSlot is one entry in a batting order.
type BattingSlot struct {
	Slot     int
	Player   string
	Position string
}

// LineupRecord is the structured form of a lineup announcement post.
// Optional fields are empty when the post did not carry them; a partial
// batting order is valid.
type LineupRecord struct {
	TeamName        string
	GameMonth       int
	GameDay         int
	Opponent        string
	BattingOrder    []BattingSlot
	StartingPitcher string
	PitcherHand     string
	StartTimeText   string
	StartTimeZoned  string
}

// Game is one scheduled MLB game from the scoreboard feed.
type Game struct {
	GamePk   int64  `json:"gamePk"`
	HomeTeam string `json:"homeTeam"`
	AwayTeam string `json:"awayTeam"`
	Venue    string `json:"venue"`
	City     string `json:"city"`
	State    string `json:"state"`
	GameTime string `json:"gameTime"`
}
