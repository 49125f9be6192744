// Package utterance adapts a batch transcriber to the streaming
// speech_to_text contract. Voice activity detection cuts the stream into
// utterances and a worker goroutine transcribes them, so AcceptWaveform never
// waits on the model.
package utterance

import (
	"fmt"
	"github.com/go-audio/audio"
	"sync"
	"sync/atomic"
	"time"
	"wake-word-detection/ring_buffer"
	"wake-word-detection/speech_to_text"
	"wake-word-detection/vad"
)

const (
	defaultPreRoll     = 8196
	defaultMaxDuration = time.Second * 15
	defaultQueueSize   = 4
	// utterances shorter than this never grow their buffer
	onsetDuration = time.Second * 2
)

type Config struct {
	SampleRate  int
	Transcriber Transcriber
	QuietTime   time.Duration
	// PreRoll is the number of samples kept from before speech onset.
	PreRoll     int
	MaxDuration time.Duration
	QueueSize   int
}

type engineImpl struct {
	sampleRate  int
	transcriber Transcriber
	vad         vad.Interface
	preRoll     ring_buffer.Interface
	maxSamples  int
	samples     []int16

	speaking  bool
	utterance []int
	result    string

	jobs    chan []int
	results chan string
	dropped atomic.Int64
	failed  atomic.Int64

	finishOnce sync.Once
	finished   bool
	leftover   []string
}

func New(cfg *Config) (speech_to_text.Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Transcriber == nil {
		return nil, fmt.Errorf("transcriber is nil")
	}

	detector, err := vad.New(&vad.Config{
		SampleRate: cfg.SampleRate,
		QuietTime:  cfg.QuietTime,
	})
	if err != nil {
		return nil, err
	}

	preRoll := cfg.PreRoll
	if preRoll <= 0 {
		preRoll = defaultPreRoll
	}

	maxDuration := cfg.MaxDuration
	if maxDuration <= 0 {
		maxDuration = defaultMaxDuration
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	e := &engineImpl{
		sampleRate:  cfg.SampleRate,
		transcriber: cfg.Transcriber,
		vad:         detector,
		preRoll:     ring_buffer.New(preRoll),
		maxSamples:  int(maxDuration.Seconds() * float64(cfg.SampleRate)),
		jobs:        make(chan []int, queueSize),
		results:     make(chan string, queueSize+1),
	}

	go e.work()

	return e, nil
}

func (e *engineImpl) AcceptWaveform(pcm []byte) bool {
	if e.finished {
		return false
	}

	e.samples = speech_to_text.BytesToInt16(e.samples, pcm)
	activity := e.vad.Update(e.samples)

	switch {
	case e.speaking:
		e.appendSamples(e.samples)

		if activity == vad.EndOfSpeech || len(e.utterance) >= e.maxSamples {
			e.submit()
		}
	case activity == vad.Speech:
		e.speaking = true
		e.utterance = make([]int, 0, e.onsetCapacity())
		e.appendSamples(e.preRoll.Read())
		e.appendSamples(e.samples)
		e.preRoll.Reset()
	default:
		e.preRoll.Add(e.samples)
	}

	select {
	case text := <-e.results:
		if text == "" {
			return false
		}

		e.result = text

		return true
	default:
		return false
	}
}

// onsetCapacity sizes a new utterance buffer. The buffer is handed to the
// worker on submit, so each utterance needs its own.
func (e *engineImpl) onsetCapacity() int {
	n := int(onsetDuration.Seconds() * float64(e.sampleRate))
	if n > e.maxSamples {
		n = e.maxSamples
	}

	return n + e.preRoll.Len() + len(e.samples)
}

func (e *engineImpl) appendSamples(samples []int16) {
	for _, s := range samples {
		e.utterance = append(e.utterance, int(s))
	}
}

// submit hands the current utterance to the worker. A full queue drops the
// utterance instead of blocking the caller.
func (e *engineImpl) submit() {
	utterance := e.utterance
	e.utterance = nil
	e.speaking = false

	select {
	case e.jobs <- utterance:
	default:
		e.dropped.Add(1)
	}
}

func (e *engineImpl) work() {
	defer close(e.results)

	for job := range e.jobs {
		e.results <- e.transcribe(job)
	}
}

func (e *engineImpl) transcribe(samples []int) string {
	if len(samples) == 0 {
		return ""
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  e.sampleRate,
		},
		Data:           samples,
		SourceBitDepth: 16,
	}

	segments, err := e.transcriber.Transcribe(buf)
	if err != nil {
		e.failed.Add(1)

		return ""
	}

	return speech_to_text.JoinSegments(segments)
}

func (e *engineImpl) Result() string {
	return e.result
}

// PartialResult is always empty: batch models have no interim hypothesis.
func (e *engineImpl) PartialResult() string {
	return ""
}

// FinalResult stops the worker, waits for queued utterances and transcribes
// the one still being spoken. The engine accepts no audio afterwards.
func (e *engineImpl) FinalResult() string {
	e.finish()

	texts := e.leftover
	e.leftover = nil

	if len(e.utterance) > 0 {
		texts = append(texts, e.transcribe(e.utterance))
		e.utterance = nil
		e.speaking = false
	}

	e.vad.Reset()
	e.preRoll.Reset()

	return speech_to_text.JoinSegments(texts)
}

func (e *engineImpl) finish() {
	e.finishOnce.Do(func() {
		e.finished = true
		close(e.jobs)

		for text := range e.results {
			e.leftover = append(e.leftover, text)
		}
	})
}

func (e *engineImpl) Close() error {
	e.finish()

	failed, dropped := e.failed.Load(), e.dropped.Load()
	if failed > 0 || dropped > 0 {
		return fmt.Errorf("utterances lost: %d failed to transcribe, %d dropped", failed, dropped)
	}

	return nil
}
