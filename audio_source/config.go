package audio_source

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultSampleRate      = 16000
	DefaultFramesPerBuffer = 512
)

var ErrFormatMismatch = errors.New("audio format mismatch")

// StreamConfig describes a signed 16-bit capture stream.
type StreamConfig struct {
	InputChannels   int
	OutputChannels  int
	SampleRate      int
	FramesPerBuffer int
}

func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		InputChannels:   1,
		OutputChannels:  0,
		SampleRate:      DefaultSampleRate,
		FramesPerBuffer: DefaultFramesPerBuffer,
	}
}

func (c StreamConfig) Validate() error {
	if c.InputChannels != 1 {
		return fmt.Errorf("%w: only mono capture is supported, got %d input channels", ErrFormatMismatch, c.InputChannels)
	}

	if c.OutputChannels != 0 {
		return fmt.Errorf("%w: capture streams have no output channels, got %d", ErrFormatMismatch, c.OutputChannels)
	}

	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	}

	if c.FramesPerBuffer <= 0 {
		return fmt.Errorf("frames per buffer must be positive, got %d", c.FramesPerBuffer)
	}

	return nil
}

// BufferDuration is the real-time length of one callback buffer, which is
// also the processing budget of the callback.
func (c StreamConfig) BufferDuration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}

	return time.Duration(c.FramesPerBuffer) * time.Second / time.Duration(c.SampleRate)
}
