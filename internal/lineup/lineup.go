// Package lineup extracts structured batting-order announcements from raw
// post text. Parsing is a single pass over the post's lines: the header names
// the team and date, up to nine following lines are batting slots, and
// marker-prefixed lines carry the starting pitcher and start time.
package lineup

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"bsky_watcher/internal/model"
)

const maxBattingSlots = 9

var (
	headerDateRe = regexp.MustCompile(`(\d{1,2})[-/](\d{1,2})`)
	ordinalRe    = regexp.MustCompile(`^\d{1,2}[.)]\s*`)
	pitcherRe    = regexp.MustCompile(`(?i)^sp[:.]?\s+([^(]+?)\s*(?:\(([LRS])(?:HP)?\))?\s*$`)
	startTimeRe  = regexp.MustCompile(`(?i)^(?:start time|first pitch|game time)[:.]?\s*(.+)$`)
	opponentRe   = regexp.MustCompile(`(?i)vs\.?\s*([^,:\n]+)`)
	positionRe   = regexp.MustCompile(`(?i)^(C|1B|2B|3B|SS|LF|CF|RF|OF|DH|P|UTIL)$`)
)

// Parser converts lineup posts into LineupRecords. now supplies the date used
// to anchor start-time zone conversion; it is injectable for tests.
type Parser struct {
	now func() time.Time
}

// NewParser creates a Parser using the wall clock.
func NewParser() *Parser {
	return &Parser{now: time.Now}
}

// NewParserAt creates a Parser with a fixed clock (useful for testing).
func NewParserAt(now func() time.Time) *Parser {
	return &Parser{now: now}
}

// Parse extracts a LineupRecord from raw post text. It returns ok=false only
// when the first line does not start with a known team, which is what
// distinguishes lineup announcements from everything else the account posts.
// All other fields are best-effort: missing or malformed lines leave their
// fields empty rather than failing the parse.
func (p *Parser) Parse(rawText string) (*model.LineupRecord, bool) {
	lines := nonEmptyLines(rawText)
	if len(lines) == 0 {
		return nil, false
	}

	header := lines[0]
	team, ok := matchTeamPrefix(header)
	if !ok {
		return nil, false
	}

	rec := &model.LineupRecord{TeamName: team}

	if m := headerDateRe.FindStringSubmatch(header); m != nil {
		rec.GameMonth, _ = strconv.Atoi(m[1])
		rec.GameDay, _ = strconv.Atoi(m[2])
	}

	for _, line := range lines[1:] {
		if m := pitcherRe.FindStringSubmatch(line); m != nil {
			rec.StartingPitcher = strings.TrimSpace(m[1])
			rec.PitcherHand = strings.ToUpper(m[2])
			continue
		}
		if m := startTimeRe.FindStringSubmatch(line); m != nil {
			rec.StartTimeText = strings.TrimSpace(m[1])
			if zoned, err := FormatGameTime(rec.StartTimeText, p.gameDay(rec)); err == nil {
				rec.StartTimeZoned = zoned
			}
			continue
		}
		if len(rec.BattingOrder) < maxBattingSlots {
			if slot, ok := parseBattingLine(line, len(rec.BattingOrder)+1); ok {
				rec.BattingOrder = append(rec.BattingOrder, slot)
			}
		}
	}

	if m := opponentRe.FindStringSubmatch(rawText); m != nil {
		if opp, ok := matchTeamIn(m[1]); ok {
			rec.Opponent = opp
		}
	}

	return rec, true
}

// gameDay anchors zone conversion on the announced game date when the header
// carried one, falling back to today. DST correctness depends on using the
// actual date, not just the current offset.
func (p *Parser) gameDay(rec *model.LineupRecord) time.Time {
	now := p.now()
	if rec.GameMonth == 0 {
		return now
	}
	return time.Date(now.Year(), time.Month(rec.GameMonth), rec.GameDay, 0, 0, 0, 0, time.UTC)
}

// parseBattingLine splits one candidate line into player and position. Lines
// split on the first comma when present, otherwise on the whitespace boundary
// before a trailing position token. A leading ordinal ("3. ") is stripped.
func parseBattingLine(line string, slot int) (model.BattingSlot, bool) {
	line = ordinalRe.ReplaceAllString(strings.TrimSpace(line), "")

	var name, pos string
	if i := strings.Index(line, ","); i >= 0 {
		name = strings.TrimSpace(line[:i])
		pos = strings.TrimSpace(line[i+1:])
	} else {
		j := strings.LastIndexAny(line, " \t")
		if j < 0 {
			return model.BattingSlot{}, false
		}
		name = strings.TrimSpace(line[:j])
		pos = strings.TrimSpace(line[j+1:])
	}

	if name == "" || !positionRe.MatchString(pos) {
		return model.BattingSlot{}, false
	}
	return model.BattingSlot{Slot: slot, Player: name, Position: strings.ToUpper(pos)}, true
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
