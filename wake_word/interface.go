package wake_word

// Detection is the outcome of scanning one final transcript.
type Detection struct {
	Detected bool
	// Matches lists the triggers found, in configured order.
	Matches []string
}

type Interface interface {
	Scan(text string) Detection
	Triggers() []string
	Banner() string
}
