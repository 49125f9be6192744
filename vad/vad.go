package vad

import (
	"fmt"
	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"math/cmplx"
	"time"
)

const (
	DefaultQuietTime = time.Millisecond * 200
	DefaultRatio     = 1.75

	floorSmoothing = 0.1
)

type Config struct {
	SampleRate int
	// QuietTime is measured in audio time, so replayed audio behaves the
	// same as live audio.
	QuietTime time.Duration
	// Ratio is how far above the noise floor flux must rise to count as speech.
	Ratio float64
	// MinFlux ignores onsets below this flux.
	MinFlux float64
}

type vadImpl struct {
	cfg Config

	frame    []float64
	previous []float64

	// floor tracks the flux of background noise between utterances
	floor  float64
	primed bool

	heardSomething bool
	quiet          bool
	quietSamples   int
	quietLimit     int
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", cfg.SampleRate)
	}

	c := *cfg
	if c.QuietTime <= 0 {
		c.QuietTime = DefaultQuietTime
	}

	if c.Ratio <= 1 {
		c.Ratio = DefaultRatio
	}

	return &vadImpl{
		cfg:        c,
		quietLimit: int(c.QuietTime.Seconds() * float64(c.SampleRate)),
	}, nil
}

func (v *vadImpl) Flux(samples []int16) float64 {
	if cap(v.frame) < len(samples) {
		v.frame = make([]float64, len(samples))
	}

	frame := v.frame[:len(samples)]
	for i, s := range samples {
		frame[i] = float64(s) / 32768.0
	}

	window.Apply(frame, window.Hann)

	spectrum := fft.FFTReal(frame)
	bins := len(spectrum)/2 + 1
	magnitudes := make([]float64, bins)

	var flux float64

	for i := 0; i < bins; i++ {
		magnitudes[i] = cmplx.Abs(spectrum[i])

		if i < len(v.previous) {
			if diff := magnitudes[i] - v.previous[i]; diff > 0 {
				flux += diff
			}
		}
	}

	v.previous = magnitudes

	return flux
}

// Update reports Speech once flux jumps above the noise floor by Ratio, and
// EndOfSpeech once it has stayed within Ratio of the floor for QuietTime.
func (v *vadImpl) Update(samples []int16) Activity {
	hadPrevious := v.previous != nil
	flux := v.Flux(samples)

	if !hadPrevious {
		return Silence
	}

	if !v.heardSomething {
		if v.primed && flux > v.floor*v.cfg.Ratio && flux >= v.cfg.MinFlux {
			v.heardSomething = true
			v.quiet = false

			return Speech
		}

		v.trackFloor(flux)

		return Silence
	}

	if flux <= v.floor*v.cfg.Ratio {
		if !v.quiet {
			v.quiet = true
			v.quietSamples = 0
		}

		v.quietSamples += len(samples)

		if v.quietSamples > v.quietLimit {
			v.heardSomething = false
			v.quiet = false

			return EndOfSpeech
		}

		return Speech
	}

	v.quiet = false

	return Speech
}

func (v *vadImpl) trackFloor(flux float64) {
	if !v.primed {
		v.floor = flux
		v.primed = true

		return
	}

	v.floor = v.floor*(1-floorSmoothing) + flux*floorSmoothing
}

func (v *vadImpl) Reset() {
	v.heardSomething = false
	v.quiet = false
	v.quietSamples = 0
	v.floor = 0
	v.primed = false
	v.previous = nil
}
