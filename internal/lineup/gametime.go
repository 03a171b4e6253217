package lineup

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

var clockRe = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(am|pm)`)

// zones caches the two reference locations after the first load.
var zones struct {
	once    sync.Once
	eastern *time.Location
	pacific *time.Location
	err     error
}

func loadZones() (*time.Location, *time.Location, error) {
	zones.once.Do(func() {
		zones.eastern, zones.err = time.LoadLocation("America/New_York")
		if zones.err != nil {
			zones.err = fmt.Errorf("load eastern zone: %w", zones.err)
			return
		}
		zones.pacific, zones.err = time.LoadLocation("America/Los_Angeles")
		if zones.err != nil {
			zones.err = fmt.Errorf("load pacific zone: %w", zones.err)
		}
	})
	return zones.eastern, zones.pacific, zones.err
}

// FormatGameTime renders a clock string like "10:10pm" as a dual-timezone
// display, e.g. "10:10pm ET, 7:10pm PT". The clock is taken to be Eastern
// wall time on the given day; conversion uses real zone rules, so the spread
// is correct across daylight-saving transitions.
func FormatGameTime(clock string, day time.Time) (string, error) {
	m := clockRe.FindStringSubmatch(clock)
	if m == nil {
		return "", fmt.Errorf("no clock token in %q", clock)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return "", fmt.Errorf("clock %q out of range", clock)
	}
	switch strings.ToLower(m[3]) {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}

	eastern, pacific, err := loadZones()
	if err != nil {
		return "", err
	}

	et := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, eastern)
	return renderDual(et, et.In(pacific)), nil
}

// FormatGameTimeISO renders an RFC 3339 timestamp (as served by the MLB
// scoreboard API) in the same dual-timezone form.
func FormatGameTimeISO(iso string) (string, error) {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return "", fmt.Errorf("parse game time: %w", err)
	}
	eastern, pacific, err := loadZones()
	if err != nil {
		return "", err
	}
	return renderDual(t.In(eastern), t.In(pacific)), nil
}

func renderDual(et, pt time.Time) string {
	return fmt.Sprintf("%s ET, %s PT", renderClock(et), renderClock(pt))
}

func renderClock(t time.Time) string {
	return strings.ToLower(t.Format("3:04PM"))
}
