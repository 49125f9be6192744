package main

import (
	"bufio"
	"context"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"log"
	"os"
	"os/signal"
	"syscall"
	"wake-word-detection/audio_source"
	"wake-word-detection/audio_source/microphone"
	"wake-word-detection/config"
	"wake-word-detection/lifecycle"
	"wake-word-detection/speech_to_text"
	"wake-word-detection/speech_to_text/vosk"
	"wake-word-detection/speech_to_text/whisper"
	"wake-word-detection/wake_word"
)

func main() {
	fileSys := afero.NewOsFs()

	cfg, err := config.Load(fileSys, ".")
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("error creating logger: %v", err)
	}

	defer logger.Sync()

	scanner, err := wake_word.New(&wake_word.Config{Triggers: cfg.Triggers})
	if err != nil {
		logger.Fatal("error with wake_word.New", zap.Error(err))
	}

	var loader speech_to_text.Loader

	switch cfg.Engine {
	case config.EngineWhisper:
		loader = whisper.LoadModel
	default:
		if cfg.LogLevel != "debug" {
			vosk.SetLogLevel(-1)
		}

		loader = vosk.LoadModel
	}

	var source audio_source.Interface

	switch cfg.Source {
	case config.SourceReplay:
		source, err = audio_source.NewReplay(&audio_source.ReplayConfig{
			FileSys:  fileSys,
			Path:     cfg.ReplayFile,
			Realtime: cfg.ReplayRealtime,
		})
		if err != nil {
			logger.Fatal("error with audio_source.NewReplay", zap.Error(err))
		}
	default:
		source = microphone.New()
	}

	controller, err := lifecycle.New(&lifecycle.Config{
		ModelPath:   cfg.ModelPath,
		Loader:      loader,
		AudioSource: source,
		Stream:      cfg.StreamConfig(),
		Scanner:     scanner,
		Out:         os.Stdout,
		Logger:      logger,
		OnWake: func(text string, detection wake_word.Detection) {
			logger.Debug("wake word", zap.String("text", text), zap.Strings("matches", detection.Matches))
		},
	})
	if err != nil {
		logger.Fatal("error with lifecycle.New", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go waitForEnter(stop)

	if err = controller.Run(ctx); err != nil {
		logger.Fatal("error", zap.Error(err))
	}
}

// waitForEnter stops listening when the user presses Enter. A closed stdin
// does not count, so replays can run unattended.
func waitForEnter(stop context.CancelFunc) {
	_, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err == nil {
		stop()
	}
}
