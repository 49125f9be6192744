package microphone

import (
	"fmt"
	"github.com/gordonklaus/portaudio"
	"sync"
	"wake-word-detection/audio_source"
)

type micImpl struct {
	mu           sync.Mutex
	audioRunning bool
}

// New returns the default input device, captured through PortAudio.
func New() audio_source.Interface {
	return &micImpl{}
}

func (m *micImpl) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.audioRunning {
		err := portaudio.Initialize()
		if err != nil {
			return fmt.Errorf("initializing portaudio: %w", err)
		}

		m.audioRunning = true
	}

	return nil
}

func (m *micImpl) Open(cfg audio_source.StreamConfig, cb audio_source.Callback) (audio_source.Stream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cb == nil {
		return nil, fmt.Errorf("callback is nil")
	}

	m.mu.Lock()
	running := m.audioRunning
	m.mu.Unlock()

	if !running {
		return nil, fmt.Errorf("portaudio is not initialized")
	}

	// portaudio picks paInt16 from the []int16 parameter of the callback.
	stream, err := portaudio.OpenDefaultStream(cfg.InputChannels, cfg.OutputChannels,
		float64(cfg.SampleRate), cfg.FramesPerBuffer, func(in []int16) {
			cb(in)
		})
	if err != nil {
		return nil, fmt.Errorf("opening default input stream: %w", err)
	}

	return &streamImpl{stream: stream}, nil
}

func (m *micImpl) Terminate() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.audioRunning {
		m.audioRunning = false

		if err := portaudio.Terminate(); err != nil {
			return fmt.Errorf("terminating portaudio: %w", err)
		}
	}

	return nil
}

type streamImpl struct {
	stream *portaudio.Stream
}

func (s *streamImpl) Start() error {
	return s.stream.Start()
}

// Stop maps to Pa_StopStream, which returns only after pending buffers are
// processed and the callback thread is idle.
func (s *streamImpl) Stop() error {
	return s.stream.Stop()
}

func (s *streamImpl) Close() error {
	return s.stream.Close()
}
