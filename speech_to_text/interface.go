package speech_to_text

// Interface is a streaming recognizer. It owns its recognition state; chunks
// must be fed in temporal order.
type Interface interface {
	// AcceptWaveform feeds little-endian 16-bit PCM and reports whether an
	// utterance boundary was reached.
	AcceptWaveform(pcm []byte) bool
	// Result is the final text of the utterance that just ended.
	Result() string
	// PartialResult is the current guess for audio since the last boundary.
	PartialResult() string
	// FinalResult flushes pending audio and returns its text.
	FinalResult() string
	Close() error
}

// Model is a loaded recognition model that engines are bound to.
type Model interface {
	NewEngine(sampleRate int) (Interface, error)
	Close() error
}

type Loader func(path string) (Model, error)
