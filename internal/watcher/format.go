package watcher

import (
	"fmt"
	"strings"

	"bsky_watcher/internal/classifier"
	"bsky_watcher/internal/lineup"
	"bsky_watcher/internal/mlb"
	"bsky_watcher/internal/model"
)

const messageFooter = "\n\n----------------------\n\n"

// AlertMatcher builds the MatchFunc for the general alerts account: classify
// the text, wrap the cleaned body in an alert banner.
func AlertMatcher(c *classifier.Classifier) MatchFunc {
	return func(post model.Post) (string, bool) {
		result := c.Classify(post.RawText)
		if !result.IsMatch {
			return "", false
		}
		return FormatAlert(result), true
	}
}

// LineupMatcher builds the MatchFunc for the lineup account: posts whose
// header names a known team become lineup messages, everything else is
// skipped. games may be nil; when present it supplies venue enrichment.
func LineupMatcher(p *lineup.Parser, games *mlb.Cache) MatchFunc {
	return func(post model.Post) (string, bool) {
		rec, ok := p.Parse(post.RawText)
		if !ok {
			return "", false
		}
		return FormatLineup(rec, games), true
	}
}

// FormatAlert renders a classified alert post.
func FormatAlert(result model.AlertClassification) string {
	return fmt.Sprintf("🚨 %s Alert 🚨\n\n%s%s", result.Category, result.DisplayText, messageFooter)
}

// FormatLineup renders a lineup record as the notification message. A partial
// record renders whatever is present; absent parts leave no trace.
func FormatLineup(rec *model.LineupRecord, games *mlb.Cache) string {
	var b strings.Builder
	b.WriteString("⚾️ New Lineup:\n\n")

	fmt.Fprintf(&b, "**%s**", rec.TeamName)
	if rec.GameMonth > 0 {
		fmt.Fprintf(&b, ": %d/%d", rec.GameMonth, rec.GameDay)
	}
	b.WriteString("\n\n")

	for _, slot := range rec.BattingOrder {
		fmt.Fprintf(&b, "%d. %s, %s\n", slot.Slot, slot.Player, slot.Position)
	}

	if rec.StartingPitcher != "" {
		fmt.Fprintf(&b, "SP: %s", rec.StartingPitcher)
		if rec.PitcherHand != "" {
			fmt.Fprintf(&b, " (%s)", rec.PitcherHand)
		}
		b.WriteString("\n")
	}

	if rec.StartTimeZoned != "" {
		fmt.Fprintf(&b, "Game Time: %s\n", rec.StartTimeZoned)
	} else if rec.StartTimeText != "" {
		fmt.Fprintf(&b, "Game Time: %s\n", rec.StartTimeText)
	}

	if rec.Opponent != "" {
		fmt.Fprintf(&b, "Opponent: %s\n", rec.Opponent)
	}

	if games != nil {
		if game, ok := games.GameFor(rec.TeamName); ok && game.Venue != "" {
			fmt.Fprintf(&b, "Venue: %s, %s, %s\n", game.Venue, game.City, game.State)
		}
	}

	return strings.TrimRight(b.String(), "\n") + messageFooter
}
