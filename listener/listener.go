package listener

import (
	"fmt"
	"io"
	"sync/atomic"
	"wake-word-detection/speech_to_text"
	"wake-word-detection/wake_word"
)

const (
	resultPrefix  = "[RESULT]: "
	partialPrefix = "[PARTIAL]: "
	wakeMessage   = "Wake word detected!"
)

type Config struct {
	STTEngine speech_to_text.Interface
	Scanner   wake_word.Interface
	Out       io.Writer
	// OnWake is called after the notification is written. It runs on the
	// audio thread and must return quickly.
	OnWake func(text string, detection wake_word.Detection)
}

// Listener bridges the audio callback to the engine and the scanner. It is
// driven by one audio thread at a time and holds no lock.
type Listener struct {
	sttEngine speech_to_text.Interface
	scanner   wake_word.Interface
	out       io.Writer
	onWake    func(text string, detection wake_word.Detection)

	pcm        []byte
	detections atomic.Int64
}

func New(cfg *Config) (*Listener, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.STTEngine == nil {
		return nil, fmt.Errorf("sttEngine is nil")
	}

	if cfg.Scanner == nil {
		return nil, fmt.Errorf("scanner is nil")
	}

	if cfg.Out == nil {
		return nil, fmt.Errorf("out is nil")
	}

	return &Listener{
		sttEngine: cfg.STTEngine,
		scanner:   cfg.Scanner,
		out:       cfg.Out,
		onWake:    cfg.OnWake,
	}, nil
}

// HandleChunk is a no-op on a nil or unbound Listener, so a callback that
// fires before the engine exists is skipped rather than failing.
func (l *Listener) HandleChunk(in []int16) {
	if l == nil || l.sttEngine == nil || l.scanner == nil || l.out == nil || len(in) == 0 {
		return
	}

	l.pcm = speech_to_text.Int16ToBytes(l.pcm, in)

	if l.sttEngine.AcceptWaveform(l.pcm) {
		l.handleFinal(l.sttEngine.Result())

		return
	}

	// partial text is shown but never scanned
	fmt.Fprint(l.out, partialPrefix+l.sttEngine.PartialResult()+"\r")
}

func (l *Listener) handleFinal(text string) {
	fmt.Fprintln(l.out, resultPrefix+text)

	detection := l.scanner.Scan(text)
	if !detection.Detected {
		return
	}

	l.detections.Add(1)
	fmt.Fprintln(l.out, wakeMessage)

	if l.onWake != nil {
		l.onWake(text, detection)
	}
}

func (l *Listener) Flush() {
	if l == nil || l.sttEngine == nil || l.scanner == nil || l.out == nil {
		return
	}

	if text := l.sttEngine.FinalResult(); text != "" {
		l.handleFinal(text)
	}
}

func (l *Listener) Detections() int {
	if l == nil {
		return 0
	}

	return int(l.detections.Load())
}
