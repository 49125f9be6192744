package audio_source

import (
	"fmt"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"
	"sync"
	"time"
)

// Finisher is implemented by streams that end on their own.
type Finisher interface {
	Done() <-chan struct{}
}

type ReplayConfig struct {
	FileSys afero.Fs
	Path    string
	// Realtime paces delivery at the stream's sample rate instead of
	// delivering as fast as the callback returns.
	Realtime bool
}

type replayImpl struct {
	fileSys  afero.Fs
	path     string
	realtime bool

	mu          sync.Mutex
	initialized bool
}

// NewReplay returns a source that plays a 16-bit mono WAV file through the
// callback as if it were captured live.
func NewReplay(cfg *ReplayConfig) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.FileSys == nil {
		return nil, fmt.Errorf("fileSys is nil")
	}

	if cfg.Path == "" {
		return nil, fmt.Errorf("path is empty")
	}

	return &replayImpl{
		fileSys:  cfg.FileSys,
		path:     cfg.Path,
		realtime: cfg.Realtime,
	}, nil
}

func (r *replayImpl) Initialize() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.initialized = true

	return nil
}

func (r *replayImpl) Terminate() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.initialized = false

	return nil
}

func (r *replayImpl) Open(cfg StreamConfig, cb Callback) (Stream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cb == nil {
		return nil, fmt.Errorf("callback is nil")
	}

	r.mu.Lock()
	initialized := r.initialized
	r.mu.Unlock()

	if !initialized {
		return nil, fmt.Errorf("replay source is not initialized")
	}

	samples, err := r.load(cfg)
	if err != nil {
		return nil, err
	}

	return &replayStream{
		cfg:      cfg,
		cb:       cb,
		samples:  samples,
		realtime: r.realtime,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

func (r *replayImpl) load(cfg StreamConfig) ([]int16, error) {
	f, err := r.fileSys.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", r.path, err)
	}

	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%s is not a valid wav file", r.path)
	}

	if int(decoder.SampleRate) != cfg.SampleRate || int(decoder.NumChans) != cfg.InputChannels || decoder.BitDepth != 16 {
		return nil, fmt.Errorf("%w: %s is %d Hz, %d channels, %d bit; want %d Hz, %d channels, 16 bit",
			ErrFormatMismatch, r.path, decoder.SampleRate, decoder.NumChans, decoder.BitDepth,
			cfg.SampleRate, cfg.InputChannels)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", r.path, err)
	}

	samples := make([]int16, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = int16(s)
	}

	return samples, nil
}

type replayStream struct {
	cfg      StreamConfig
	cb       Callback
	samples  []int16
	realtime bool

	startOnce sync.Once
	stopOnce  sync.Once
	started   bool
	stop      chan struct{}
	done      chan struct{}
}

func (s *replayStream) Start() error {
	s.startOnce.Do(func() {
		s.started = true
		go s.deliver()
	})

	return nil
}

func (s *replayStream) deliver() {
	defer close(s.done)

	var ticker *time.Ticker
	if s.realtime {
		ticker = time.NewTicker(s.cfg.BufferDuration())
		defer ticker.Stop()
	}

	frames := s.cfg.FramesPerBuffer
	in := make([]int16, frames)

	for offset := 0; offset < len(s.samples); offset += frames {
		select {
		case <-s.stop:
			return
		default:
		}

		n := copy(in, s.samples[offset:])
		for i := n; i < frames; i++ {
			in[i] = 0
		}

		s.cb(in)

		if ticker != nil {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
			}
		}
	}
}

func (s *replayStream) Done() <-chan struct{} {
	return s.done
}

// Stop waits for the delivery goroutine, so no callback runs after it returns.
func (s *replayStream) Stop() error {
	s.stopOnce.Do(func() {
		close(s.stop)
	})

	if s.started {
		<-s.done
	}

	return nil
}

func (s *replayStream) Close() error {
	return s.Stop()
}
