package wake_word

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func newDefault(t *testing.T) Interface {
	t.Helper()

	scanner, err := New(&Config{Triggers: DefaultTriggers})
	require.NoError(t, err)

	return scanner
}

func TestNew(t *testing.T) {
	t.Run("nil config is rejected", func(t *testing.T) {
		_, err := New(nil)
		assert.Error(t, err)
	})

	t.Run("an empty trigger set is rejected", func(t *testing.T) {
		_, err := New(&Config{})
		assert.ErrorIs(t, err, ErrNoTriggers)
	})

	t.Run("an empty trigger is rejected", func(t *testing.T) {
		_, err := New(&Config{Triggers: []string{"atlas", ""}})
		assert.ErrorIs(t, err, ErrEmptyTrigger)
	})

	t.Run("the trigger set is copied", func(t *testing.T) {
		triggers := []string{"atlas"}
		scanner, err := New(&Config{Triggers: triggers})
		require.NoError(t, err)

		triggers[0] = "nova"

		assert.Equal(t, []string{"atlas"}, scanner.Triggers())
	})
}

func TestScanner_Scan(t *testing.T) {
	scanner := newDefault(t)

	cases := []struct {
		name    string
		text    string
		matches []string
	}{
		{name: "trigger inside a sentence", text: "I think atlas is ready", matches: []string{"atlas"}},
		{name: "capitalized trigger does not match", text: "Atlas is ready"},
		{name: "no trigger", text: "no trigger here"},
		{name: "empty transcript", text: ""},
		{name: "both triggers in configured order", text: "nova and atlas", matches: []string{"atlas", "nova"}},
		{name: "trigger as part of a longer word", text: "supernova", matches: []string{"nova"}},
		{name: "split trigger does not match", text: "at las"},
		{name: "punctuation adjacent trigger", text: "atlas, wake up", matches: []string{"atlas"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			detection := scanner.Scan(tc.text)

			assert.Equal(t, len(tc.matches) > 0, detection.Detected)
			assert.Equal(t, tc.matches, detection.Matches)
		})
	}
}

func TestScanner_ScanMatchesSubstringSearch(t *testing.T) {
	scanner := newDefault(t)

	words := []string{"atlas", "Atlas", "nova", "NOVA", "at", "las", "no", "va", " ", "x"}

	// every concatenation of up to three words
	for _, a := range words {
		for _, b := range words {
			for _, c := range words {
				text := a + b + c
				want := strings.Contains(text, "atlas") || strings.Contains(text, "nova")

				assert.Equal(t, want, scanner.Scan(text).Detected, "text %q", text)
			}
		}
	}
}

func TestScanner_Banner(t *testing.T) {
	t.Run("default triggers", func(t *testing.T) {
		assert.Equal(t, "Listening for 'atlas' or 'nova'...", newDefault(t).Banner())
	})

	t.Run("single trigger", func(t *testing.T) {
		scanner, err := New(&Config{Triggers: []string{"computer"}})
		require.NoError(t, err)

		assert.Equal(t, "Listening for 'computer'...", scanner.Banner())
	})
}
