package speech_to_text

import "strings"

// JoinSegments joins recognized segments into one transcript. Segments that
// are wrapped in brackets or parentheses ([BLANK_AUDIO], (music)) are
// annotations rather than speech and are dropped, as are repeated segments.
func JoinSegments(segments []string) string {
	seenText := make(map[string]bool)
	kept := make([]string, 0, len(segments))

	for _, segment := range segments {
		text := strings.TrimSpace(segment)
		if text == "" {
			continue
		}

		if text[0] == '(' || text[0] == '[' ||
			text[len(text)-1] == ')' || text[len(text)-1] == ']' {
			continue
		}

		if seenText[text] {
			continue
		}

		seenText[text] = true
		kept = append(kept, text)
	}

	return strings.Join(kept, " ")
}
