package config

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"wake-word-detection/audio_source"
	"wake-word-detection/wake_word"
)

const (
	EngineVosk    = "vosk"
	EngineWhisper = "whisper"

	SourceMicrophone = "microphone"
	SourceReplay     = "replay"

	// FileName is looked up, with any extension viper supports, in the
	// working directory.
	FileName = "wakeword"
)

type AppConfig struct {
	Engine          string   `mapstructure:"engine" validate:"required,oneof=vosk whisper"`
	ModelPath       string   `mapstructure:"model_path" validate:"required"`
	Source          string   `mapstructure:"source" validate:"required,oneof=microphone replay"`
	ReplayFile      string   `mapstructure:"replay_file" validate:"required_if=Source replay"`
	ReplayRealtime  bool     `mapstructure:"replay_realtime"`
	SampleRate      int      `mapstructure:"sample_rate" validate:"required,gt=0"`
	FramesPerBuffer int      `mapstructure:"frames_per_buffer" validate:"required,gt=0"`
	Triggers        []string `mapstructure:"triggers" validate:"required,min=1,dive,required"`
	LogLevel        string   `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

func (c *AppConfig) StreamConfig() audio_source.StreamConfig {
	stream := audio_source.DefaultStreamConfig()
	stream.SampleRate = c.SampleRate
	stream.FramesPerBuffer = c.FramesPerBuffer

	return stream
}

// Load reads the optional config file from dir on fs. A missing file leaves
// every setting at its default; environment variables are not consulted.
func Load(fs afero.Fs, dir string) (*AppConfig, error) {
	v := viper.New()
	v.SetFs(fs)
	v.AddConfigPath(dir)
	v.SetConfigName(FileName)

	setDefault(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func setDefault(v *viper.Viper) {
	v.SetDefault("engine", EngineVosk)
	v.SetDefault("model_path", "model")
	v.SetDefault("source", SourceMicrophone)
	v.SetDefault("replay_file", "")
	v.SetDefault("replay_realtime", false)
	v.SetDefault("sample_rate", audio_source.DefaultSampleRate)
	v.SetDefault("frames_per_buffer", audio_source.DefaultFramesPerBuffer)
	v.SetDefault("triggers", wake_word.DefaultTriggers)
	v.SetDefault("log_level", "info")
}
