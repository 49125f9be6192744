package utterance

import (
	"errors"
	"github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math/rand"
	"sync"
	"testing"
	"time"
	"wake-word-detection/speech_to_text"
)

type fakeTranscriber struct {
	mu       sync.Mutex
	segments []string
	err      error
	frames   []int
}

func (f *fakeTranscriber) Transcribe(buf audio.Buffer) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.frames = append(f.frames, buf.NumFrames())

	return f.segments, f.err
}

func (f *fakeTranscriber) calls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]int(nil), f.frames...)
}

func noisePCM(rng *rand.Rand, amplitude float64) []byte {
	samples := make([]int16, 512)
	for i := range samples {
		samples[i] = int16((rng.Float64()*2 - 1) * amplitude)
	}

	return speech_to_text.Int16ToBytes(nil, samples)
}

func newEngine(t *testing.T, transcriber Transcriber) speech_to_text.Interface {
	t.Helper()

	engine, err := New(&Config{SampleRate: 16000, Transcriber: transcriber})
	require.NoError(t, err)

	return engine
}

func TestNew(t *testing.T) {
	t.Run("nil config is rejected", func(t *testing.T) {
		_, err := New(nil)
		assert.Error(t, err)
	})

	t.Run("nil transcriber is rejected", func(t *testing.T) {
		_, err := New(&Config{SampleRate: 16000})
		assert.Error(t, err)
	})
}

func TestEngine_AcceptWaveform(t *testing.T) {
	t.Run("an utterance followed by quiet becomes a final result", func(t *testing.T) {
		transcriber := &fakeTranscriber{segments: []string{"this is", "atlas online"}}
		engine := newEngine(t, transcriber)
		rng := rand.New(rand.NewSource(3))

		for i := 0; i < 10; i++ {
			assert.False(t, engine.AcceptWaveform(noisePCM(rng, 50)))
		}

		for i := 0; i < 10; i++ {
			assert.False(t, engine.AcceptWaveform(noisePCM(rng, 10000)))
		}

		assert.Eventually(t, func() bool {
			return engine.AcceptWaveform(noisePCM(rng, 50))
		}, time.Second*2, time.Millisecond)

		assert.Equal(t, "this is atlas online", engine.Result())
		assert.Equal(t, "", engine.PartialResult())

		calls := transcriber.calls()
		require.Len(t, calls, 1)
		assert.GreaterOrEqual(t, calls[0], 10*512)

		assert.NoError(t, engine.Close())
	})

	t.Run("an utterance of annotations only is not a final result", func(t *testing.T) {
		transcriber := &fakeTranscriber{segments: []string{"[BLANK_AUDIO]"}}
		engine := newEngine(t, transcriber)
		rng := rand.New(rand.NewSource(3))

		final := false
		for i := 0; i < 10; i++ {
			if engine.AcceptWaveform(noisePCM(rng, 50)) {
				final = true
			}
		}

		for i := 0; i < 10; i++ {
			if engine.AcceptWaveform(noisePCM(rng, 10000)) {
				final = true
			}
		}

		for i := 0; i < 40; i++ {
			if engine.AcceptWaveform(noisePCM(rng, 50)) {
				final = true
			}
		}

		assert.False(t, final)
		assert.Equal(t, "", engine.FinalResult())
		assert.NoError(t, engine.Close())
	})

	t.Run("chunks are decoded into one reused buffer", func(t *testing.T) {
		engine := newEngine(t, &fakeTranscriber{}).(*engineImpl)
		rng := rand.New(rand.NewSource(5))

		engine.AcceptWaveform(noisePCM(rng, 50))
		first := &engine.samples[0]

		for i := 0; i < 5; i++ {
			engine.AcceptWaveform(noisePCM(rng, 50))
			assert.Same(t, first, &engine.samples[0])
		}

		assert.NoError(t, engine.Close())
	})

	t.Run("an utterance buffer is sized at speech onset", func(t *testing.T) {
		engine := newEngine(t, &fakeTranscriber{segments: []string{"nova"}}).(*engineImpl)
		rng := rand.New(rand.NewSource(3))

		for i := 0; i < 10; i++ {
			engine.AcceptWaveform(noisePCM(rng, 50))
		}

		for i := 0; i < 10 && !engine.speaking; i++ {
			engine.AcceptWaveform(noisePCM(rng, 10000))
		}
		require.True(t, engine.speaking)
		assert.GreaterOrEqual(t, cap(engine.utterance), 2*16000)

		backing := &engine.utterance[0]
		for i := 0; i < 3; i++ {
			engine.AcceptWaveform(noisePCM(rng, 10000))
			require.True(t, engine.speaking)
			assert.Same(t, backing, &engine.utterance[0])
		}

		engine.FinalResult()
		assert.NoError(t, engine.Close())
	})

	t.Run("silence never reaches the transcriber", func(t *testing.T) {
		transcriber := &fakeTranscriber{segments: []string{"atlas"}}
		engine := newEngine(t, transcriber)

		for i := 0; i < 50; i++ {
			assert.False(t, engine.AcceptWaveform(make([]byte, 1024)))
		}

		assert.Equal(t, "", engine.FinalResult())
		assert.Empty(t, transcriber.calls())
		assert.NoError(t, engine.Close())
	})
}

func TestEngine_FinalResult(t *testing.T) {
	t.Run("speech still in progress is transcribed on flush", func(t *testing.T) {
		transcriber := &fakeTranscriber{segments: []string{"hello nova"}}
		engine := newEngine(t, transcriber)
		rng := rand.New(rand.NewSource(5))

		for i := 0; i < 5; i++ {
			engine.AcceptWaveform(noisePCM(rng, 50))
		}

		for i := 0; i < 5; i++ {
			engine.AcceptWaveform(noisePCM(rng, 10000))
		}

		assert.Equal(t, "hello nova", engine.FinalResult())
		assert.False(t, engine.AcceptWaveform(noisePCM(rng, 10000)))
		assert.NoError(t, engine.Close())
	})
}

func TestEngine_Close(t *testing.T) {
	t.Run("transcription failures are reported on close", func(t *testing.T) {
		transcriber := &fakeTranscriber{err: errors.New("model exploded")}
		engine := newEngine(t, transcriber)
		rng := rand.New(rand.NewSource(5))

		for i := 0; i < 5; i++ {
			engine.AcceptWaveform(noisePCM(rng, 50))
		}

		for i := 0; i < 5; i++ {
			engine.AcceptWaveform(noisePCM(rng, 10000))
		}

		assert.Equal(t, "", engine.FinalResult())
		assert.Error(t, engine.Close())
	})

	t.Run("close is idempotent", func(t *testing.T) {
		engine := newEngine(t, &fakeTranscriber{})

		assert.NoError(t, engine.Close())
		assert.NoError(t, engine.Close())
	})
}
