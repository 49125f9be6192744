package speech_to_text

import (
	"encoding/binary"
	"encoding/json"
	"strings"
)

type resultJSON struct {
	Text    string `json:"text"`
	Partial string `json:"partial"`
}

// ParseResult extracts the text from a final result such as {"text" : "hi"}.
// Input that is not a JSON object is returned trimmed.
func ParseResult(raw string) string {
	var r resultJSON
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return strings.TrimSpace(raw)
	}

	return strings.TrimSpace(r.Text)
}

// ParsePartial extracts the text from a partial result such as {"partial" : "hi"}.
func ParsePartial(raw string) string {
	var r resultJSON
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return strings.TrimSpace(raw)
	}

	return strings.TrimSpace(r.Partial)
}

// Int16ToBytes writes samples as little-endian PCM into dst, growing it only
// when it is too small, and returns the filled slice.
func Int16ToBytes(dst []byte, samples []int16) []byte {
	n := len(samples) * 2
	if cap(dst) < n {
		dst = make([]byte, n)
	}

	dst = dst[:n]
	for i, s := range samples {
		binary.LittleEndian.PutUint16(dst[i*2:], uint16(s))
	}

	return dst
}

// BytesToInt16 is the inverse of Int16ToBytes and reuses dst the same way. A
// trailing odd byte is dropped.
func BytesToInt16(dst []int16, pcm []byte) []int16 {
	n := len(pcm) / 2
	if cap(dst) < n {
		dst = make([]int16, n)
	}

	samples := dst[:n]
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[i*2:]))
	}

	return samples
}
