// Package classifier implements the alert post matching engine.
package classifier

import (
	"regexp"
	"strings"

	"bsky_watcher/internal/model"
)

// Classifier matches post text against a trigger lexicon and derives the alert
// category. It is stateless after construction and safe for concurrent use.
type Classifier struct {
	lexicon  Lexicon
	labelRes map[string]*regexp.Regexp
}

// New builds a Classifier for the given lexicon. Category derivation follows a
// fixed priority: alert triggers are checked first, in lexicon order; reporter
// names only produce a News match when no alert trigger was found.
func New(lex Lexicon) *Classifier {
	labelRes := make(map[string]*regexp.Regexp, len(lex.LabelTriggers))
	for _, label := range lex.LabelTriggers {
		labelRes[label] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `:?\s*`)
	}
	return &Classifier{lexicon: lex, labelRes: labelRes}
}

// Classify runs raw post text through the lexicon. It is total: any input
// yields a valid classification, with IsMatch=false when nothing applies.
func (c *Classifier) Classify(rawText string) model.AlertClassification {
	lowered := strings.ToLower(rawText)

	for _, trigger := range c.lexicon.AlertTriggers {
		if strings.Contains(lowered, strings.ToLower(trigger)) {
			return model.AlertClassification{
				IsMatch:        true,
				Category:       c.categoryFor(trigger),
				MatchedTrigger: trigger,
				DisplayText:    c.displayText(rawText, trigger),
			}
		}
	}

	for _, name := range c.lexicon.ReporterNames {
		if strings.Contains(lowered, strings.ToLower(name)) {
			return model.AlertClassification{
				IsMatch:        true,
				Category:       model.CategoryNews,
				MatchedTrigger: name,
				DisplayText:    rawText,
			}
		}
	}

	return model.AlertClassification{}
}

// categoryFor maps a matched alert trigger to its category. Unlisted triggers
// fall into the Game bucket.
func (c *Classifier) categoryFor(trigger string) model.AlertCategory {
	switch {
	case trigger == "lineup alert":
		return model.CategoryLineup
	case inSet(trigger, "postponed", "weather"):
		return model.CategoryGame
	case inSet(trigger, "scratched", "status alert", "optioned", "designated", "recalled"):
		return model.CategoryStatus
	case inSet(trigger, "7-day il", "10-day il", "15-day il", "activated", "x-rays", "left game"):
		return model.CategoryInjury
	default:
		return model.CategoryGame
	}
}

// displayText strips a label-style trigger ("game alert:", "lineup alert:")
// from the text so the notification does not repeat it. Non-label triggers
// leave the text unchanged.
func (c *Classifier) displayText(rawText, trigger string) string {
	re, ok := c.labelRes[trigger]
	if !ok {
		return rawText
	}
	loc := re.FindStringIndex(rawText)
	if loc == nil {
		return rawText
	}
	return strings.TrimSpace(rawText[:loc[0]] + rawText[loc[1]:])
}

func inSet(s string, set ...string) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}
