package whisper

import (
	"fmt"
	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/go-audio/audio"
	"io"
	"wake-word-detection/speech_to_text"
	"wake-word-detection/speech_to_text/utterance"
)

const sampleRate = 16000

type modelImpl struct {
	model    whisper.Model
	language string
}

// LoadModel loads a ggml whisper model file, e.g. ggml-base.en.bin.
func LoadModel(path string) (speech_to_text.Model, error) {
	if path == "" {
		return nil, fmt.Errorf("model path is empty")
	}

	model, err := whisper.New(path)
	if err != nil {
		return nil, fmt.Errorf("loading whisper model %q: %w", path, err)
	}

	return &modelImpl{model: model, language: "en"}, nil
}

func (m *modelImpl) NewEngine(rate int) (speech_to_text.Interface, error) {
	if rate != sampleRate {
		return nil, fmt.Errorf("whisper requires %d Hz audio, got %d", sampleRate, rate)
	}

	return utterance.New(&utterance.Config{
		SampleRate:  rate,
		Transcriber: &sttImpl{model: m.model, language: m.language},
	})
}

func (m *modelImpl) Close() error {
	return m.model.Close()
}

type sttImpl struct {
	model    whisper.Model
	language string
}

func (stt *sttImpl) Transcribe(buf audio.Buffer) ([]string, error) {
	// Create processing context
	context, err := stt.model.NewContext()
	if err != nil {
		return nil, err
	}

	if stt.language != "" && stt.model.IsMultilingual() {
		if err := context.SetLanguage(stt.language); err != nil {
			return nil, err
		}
	}

	data := buf.AsFloat32Buffer().Data

	if err := context.Process(data, nil); err != nil {
		return nil, err
	}

	var segments []string

	for {
		segment, err := context.NextSegment()
		if err == io.EOF {
			return segments, nil
		} else if err != nil {
			return nil, err
		}

		segments = append(segments, segment.Text)
	}
}
