package classifier

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Lexicon is the ordered keyword configuration driving classification.
// AlertTriggers are checked in slice order; the first contained trigger wins.
// LabelTriggers is the subset of AlertTriggers that prefix a post (e.g.
// "game alert:") and get stripped from the display text.
type Lexicon struct {
	AlertTriggers []string `yaml:"alert_triggers"`
	ReporterNames []string `yaml:"reporter_names"`
	LabelTriggers []string `yaml:"label_triggers"`
}

// DefaultLexicon returns the built-in trigger and reporter lists.
func DefaultLexicon() Lexicon {
	return Lexicon{
		AlertTriggers: []string{
			"game alert", "lineup alert", "postponed", "weather", "scratched",
			"7-day il", "10-day il", "15-day il", "activated", "status alert",
			"x-rays", "left game", "optioned", "designated", "recalled",
		},
		ReporterNames: []string{
			"Hyde", "Passan", "Feinsand", "Rosenthal", "Weyrich", "Murray",
			"Francona", "Roberts", "Friedman", "per", "Boone", "Espada",
			"McCullough", "Nightengale", "Heyman", "Rome", "Anthopoulos", "Lovullo",
		},
		LabelTriggers: []string{"game alert", "lineup alert"},
	}
}

// LoadLexicon reads a YAML lexicon override from path. An empty path returns
// the default lexicon. Fields omitted from the file keep their defaults.
func LoadLexicon(path string) (Lexicon, error) {
	lex := DefaultLexicon()
	if path == "" {
		return lex, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("read lexicon file: %w", err)
	}

	var override Lexicon
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Lexicon{}, fmt.Errorf("parse lexicon file: %w", err)
	}

	if len(override.AlertTriggers) > 0 {
		lex.AlertTriggers = override.AlertTriggers
	}
	if len(override.ReporterNames) > 0 {
		lex.ReporterNames = override.ReporterNames
	}
	if len(override.LabelTriggers) > 0 {
		lex.LabelTriggers = override.LabelTriggers
	}
	return lex, nil
}
