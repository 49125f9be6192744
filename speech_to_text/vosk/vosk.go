package vosk

import (
	"fmt"
	vosk_api "github.com/alphacep/vosk-api/go"
	"wake-word-detection/speech_to_text"
)

type modelImpl struct {
	model *vosk_api.VoskModel
}

// LoadModel loads an unpacked vosk model directory, e.g. vosk-model-small-en-us-0.15.
func LoadModel(path string) (speech_to_text.Model, error) {
	if path == "" {
		return nil, fmt.Errorf("model path is empty")
	}

	model, err := vosk_api.NewModel(path)
	if err != nil {
		return nil, fmt.Errorf("loading vosk model %q: %w", path, err)
	}

	return &modelImpl{model: model}, nil
}

// SetLogLevel forwards to the native library; -1 silences it.
func SetLogLevel(level int) {
	vosk_api.SetLogLevel(level)
}

func (m *modelImpl) NewEngine(sampleRate int) (speech_to_text.Interface, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	rec, err := vosk_api.NewRecognizer(m.model, float64(sampleRate))
	if err != nil {
		return nil, fmt.Errorf("creating vosk recognizer: %w", err)
	}

	return &engineImpl{rec: rec}, nil
}

func (m *modelImpl) Close() error {
	if m.model != nil {
		m.model.Free()
		m.model = nil
	}

	return nil
}

type engineImpl struct {
	rec *vosk_api.VoskRecognizer
}

func (e *engineImpl) AcceptWaveform(pcm []byte) bool {
	return e.rec.AcceptWaveform(pcm) != 0
}

func (e *engineImpl) Result() string {
	return speech_to_text.ParseResult(e.rec.Result())
}

func (e *engineImpl) PartialResult() string {
	return speech_to_text.ParsePartial(e.rec.PartialResult())
}

func (e *engineImpl) FinalResult() string {
	return speech_to_text.ParseResult(e.rec.FinalResult())
}

func (e *engineImpl) Close() error {
	if e.rec != nil {
		e.rec.Free()
		e.rec = nil
	}

	return nil
}
