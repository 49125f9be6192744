package utterance

import "github.com/go-audio/audio"

// Transcriber turns one complete utterance into text segments. It is only
// ever called from the engine's worker goroutine.
type Transcriber interface {
	Transcribe(buf audio.Buffer) ([]string, error)
}
