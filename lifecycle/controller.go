// Package lifecycle brings the recognizer and the audio stream up in
// dependency order, keeps them running until asked to stop, and tears them
// down so that the stream is quiet before the engine is released.
package lifecycle

import (
	"context"
	"fmt"
	"go.uber.org/zap"
	"io"
	"wake-word-detection/audio_source"
	"wake-word-detection/listener"
	"wake-word-detection/speech_to_text"
	"wake-word-detection/wake_word"
)

type Config struct {
	ModelPath   string
	Loader      speech_to_text.Loader
	AudioSource audio_source.Interface
	Stream      audio_source.StreamConfig
	Scanner     wake_word.Interface
	Out         io.Writer
	Logger      *zap.Logger
	OnWake      func(text string, detection wake_word.Detection)
}

type Controller struct {
	modelPath   string
	loader      speech_to_text.Loader
	audioSource audio_source.Interface
	stream      audio_source.StreamConfig
	scanner     wake_word.Interface
	out         io.Writer
	logger      *zap.Logger
	onWake      func(text string, detection wake_word.Detection)
}

func New(cfg *Config) (*Controller, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Loader == nil {
		return nil, fmt.Errorf("loader is nil")
	}

	if cfg.AudioSource == nil {
		return nil, fmt.Errorf("audioSource is nil")
	}

	if cfg.Scanner == nil {
		return nil, fmt.Errorf("scanner is nil")
	}

	if cfg.Out == nil {
		return nil, fmt.Errorf("out is nil")
	}

	if err := cfg.Stream.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Controller{
		modelPath:   cfg.ModelPath,
		loader:      cfg.Loader,
		audioSource: cfg.AudioSource,
		stream:      cfg.Stream,
		scanner:     cfg.Scanner,
		out:         cfg.Out,
		logger:      logger,
		onWake:      cfg.OnWake,
	}, nil
}

// Run listens until ctx is done, or until the stream ends by itself. Any
// failure while starting up is returned after the resources acquired so far
// are released. Run may be called again after it returns.
func (c *Controller) Run(ctx context.Context) (err error) {
	// Deferred steps run in reverse: stop, close, terminate, flush, engine, model.
	// quiet is false while the audio thread may still call into the engine.
	quiet := true

	model, err := c.loader(c.modelPath)
	if err != nil {
		return fmt.Errorf("loading model %q: %w", c.modelPath, err)
	}

	defer func() {
		if !quiet {
			c.logger.Error("stream did not stop, leaving model allocated")

			return
		}

		c.release("model", model.Close, &err)
	}()

	c.logger.Debug("model loaded", zap.String("path", c.modelPath))

	engine, err := model.NewEngine(c.stream.SampleRate)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	defer func() {
		if !quiet {
			c.logger.Error("stream did not stop, leaving engine allocated")

			return
		}

		c.release("engine", engine.Close, &err)
	}()

	l, err := listener.New(&listener.Config{
		STTEngine: engine,
		Scanner:   c.scanner,
		Out:       c.out,
		OnWake:    c.onWake,
	})
	if err != nil {
		return err
	}

	defer func() {
		if quiet {
			l.Flush()
		}

		c.logger.Info("stopped listening", zap.Int("detections", l.Detections()))
	}()

	if err = c.audioSource.Initialize(); err != nil {
		return fmt.Errorf("initializing audio: %w", err)
	}

	defer c.release("audio", c.audioSource.Terminate, &err)

	stream, err := c.audioSource.Open(c.stream, l.HandleChunk)
	if err != nil {
		return fmt.Errorf("opening stream: %w", err)
	}

	defer c.release("stream", stream.Close, &err)

	// out belongs to the audio thread once the stream starts
	fmt.Fprintln(c.out, c.scanner.Banner())

	if err = stream.Start(); err != nil {
		return fmt.Errorf("starting stream: %w", err)
	}

	quiet = false

	defer func() {
		if stopErr := stream.Stop(); stopErr != nil {
			c.logger.Error("stopping stream", zap.Error(stopErr))

			if err == nil {
				err = fmt.Errorf("stopping stream: %w", stopErr)
			}

			return
		}

		quiet = true
	}()

	c.logger.Info("listening",
		zap.Strings("triggers", c.scanner.Triggers()),
		zap.Int("sample_rate", c.stream.SampleRate),
		zap.Int("frames_per_buffer", c.stream.FramesPerBuffer),
		zap.Duration("buffer_duration", c.stream.BufferDuration()),
	)

	var finished <-chan struct{}
	if f, ok := stream.(audio_source.Finisher); ok {
		finished = f.Done()
	}

	select {
	case <-ctx.Done():
	case <-finished:
		c.logger.Info("audio stream finished")
	}

	return nil
}

func (c *Controller) release(what string, closeFn func() error, err *error) {
	if closeErr := closeFn(); closeErr != nil {
		c.logger.Error("releasing "+what, zap.Error(closeErr))

		if *err == nil {
			*err = fmt.Errorf("releasing %s: %w", what, closeErr)
		}
	}
}
