package wake_word

import (
	"errors"
	"fmt"
	"strings"
)

var (
	DefaultTriggers = []string{"atlas", "nova"}

	ErrNoTriggers   = errors.New("no trigger phrases configured")
	ErrEmptyTrigger = errors.New("empty trigger phrase")
)

type Config struct {
	Triggers []string
}

type scannerImpl struct {
	triggers []string
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if len(cfg.Triggers) == 0 {
		return nil, ErrNoTriggers
	}

	triggers := make([]string, len(cfg.Triggers))
	for i, trigger := range cfg.Triggers {
		if trigger == "" {
			return nil, fmt.Errorf("%w at position %d", ErrEmptyTrigger, i)
		}

		triggers[i] = trigger
	}

	return &scannerImpl{triggers: triggers}, nil
}

// Scan is a plain case-sensitive substring search; "Atlas" does not match
// "atlas" and neither does "at las".
func (s *scannerImpl) Scan(text string) Detection {
	var detection Detection

	for _, trigger := range s.triggers {
		if strings.Contains(text, trigger) {
			detection.Detected = true
			detection.Matches = append(detection.Matches, trigger)
		}
	}

	return detection
}

func (s *scannerImpl) Triggers() []string {
	return append([]string(nil), s.triggers...)
}

// Banner renders e.g. "Listening for 'atlas' or 'nova'...".
func (s *scannerImpl) Banner() string {
	quoted := make([]string, len(s.triggers))
	for i, trigger := range s.triggers {
		quoted[i] = "'" + trigger + "'"
	}

	return "Listening for " + strings.Join(quoted, " or ") + "..."
}
