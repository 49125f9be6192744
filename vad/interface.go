package vad

type Activity int

const (
	Silence Activity = iota
	Speech
	EndOfSpeech
)

func (a Activity) String() string {
	switch a {
	case Speech:
		return "speech"
	case EndOfSpeech:
		return "end_of_speech"
	default:
		return "silence"
	}
}

type Interface interface {
	// Flux returns the spectral flux of samples against the previous call.
	Flux(samples []int16) float64
	// Update feeds one chunk through the onset/quiet state machine.
	Update(samples []int16) Activity
	Reset()
}
