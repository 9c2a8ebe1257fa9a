// Command jim-satellite runs the edge process: microphone capture, wake
// detection, VAD endpointing, speech recognition, the core client, speech
// playback, and the LED lantern.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/xhyrom/jim/internal/led"
	"github.com/xhyrom/jim/internal/satellite"
	"github.com/xhyrom/jim/pkg/audio"
	"github.com/xhyrom/jim/pkg/provider/asr"
	asrgoogle "github.com/xhyrom/jim/pkg/provider/asr/google"
	asrmock "github.com/xhyrom/jim/pkg/provider/asr/mock"
	asrvosk "github.com/xhyrom/jim/pkg/provider/asr/vosk"
	asrwhisper "github.com/xhyrom/jim/pkg/provider/asr/whisper"
	"github.com/xhyrom/jim/pkg/provider/tts"
	ttsmock "github.com/xhyrom/jim/pkg/provider/tts/mock"
	ttspiper "github.com/xhyrom/jim/pkg/provider/tts/piper"
	"github.com/xhyrom/jim/pkg/provider/vad"
	"github.com/xhyrom/jim/pkg/provider/vad/energy"
	"github.com/xhyrom/jim/pkg/provider/wake/openwakeword"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.json", "path to the JSON configuration file")
	debug := flag.Bool("debug", false, "enable debug logging")
	userID := flag.String("user", "default", "user id sent with core requests")
	deviceID := flag.String("device", "satellite", "device id sent with core requests")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	cfg := satellite.LoadConfig(*configPath)
	slog.Info("jim satellite starting",
		"config", *configPath,
		"asr", cfg.ASR.Type,
		"tts", cfg.TTS.Type,
		"core", cfg.Core.URL,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Audio hardware failures are fatal on the satellite.
	capture, err := audio.NewMalgoCapture()
	if err != nil {
		slog.Error("microphone unavailable", "err", err)
		return 1
	}
	defer capture.Close()

	playback, err := audio.NewOtoPlayback()
	if err != nil {
		slog.Error("speaker unavailable", "err", err)
		return 1
	}
	defer playback.Close()

	detector, err := openwakeword.New(openwakeword.Config{
		KeywordModels:  cfg.Wake.ModelPaths,
		MelspecModel:   cfg.Wake.MelspecModel,
		EmbeddingModel: cfg.Wake.EmbeddingModel,
		OnnxLib:        cfg.Wake.OnnxLib,
	})
	if err != nil {
		slog.Error("wake detector unavailable", "err", err)
		return 1
	}
	defer detector.Close()

	transcriber, err := buildTranscriber(cfg.ASR)
	if err != nil {
		slog.Error("transcriber unavailable", "err", err)
		return 1
	}

	synthesizer, err := buildSynthesizer(cfg.TTS)
	if err != nil {
		slog.Error("synthesizer unavailable", "err", err)
		return 1
	}

	// The LED driver falls back to mock when hardware is absent; SPI pixel
	// drivers are deployment-specific.
	lantern := led.NewLantern(
		led.NewMock(cfg.LED.NumLEDs),
		cfg.LED.BaseColor.Color,
		led.Schedule{
			Enabled:   cfg.LED.Schedule.Enabled,
			StartHour: cfg.LED.Schedule.StartHour,
			EndHour:   cfg.LED.Schedule.EndHour,
		},
	)
	defer lantern.Close()

	sat := satellite.New(satellite.Deps{
		Capture:     capture,
		Playback:    playback,
		Detector:    detector,
		Endpointer:  vad.NewEndpointer(energy.New(), vad.DefaultSilenceDuration),
		Transcriber: transcriber,
		Synthesizer: synthesizer,
		Lantern:     lantern,
		Core:        satellite.NewClient(cfg.Core.URL, cfg.Core.APIKey),
	}, cfg.Wake.Threshold, *userID, *deviceID)

	if err := sat.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("satellite error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// buildTranscriber constructs the configured ASR backend.
func buildTranscriber(cfg satellite.ASRConfig) (asr.Transcriber, error) {
	switch cfg.Type {
	case satellite.ASRWhisper:
		return asrwhisper.New(cfg.ModelPath)
	case satellite.ASRGoogle:
		return asrgoogle.New(cfg.APIKey)
	case satellite.ASRVosk:
		return asrvosk.New(cfg.ModelPath)
	case satellite.ASRMock:
		return &asrmock.Transcriber{Text: "hello"}, nil
	default:
		return nil, fmt.Errorf("unknown asr type %q", cfg.Type)
	}
}

// buildSynthesizer constructs the configured TTS backend.
func buildSynthesizer(cfg satellite.TTSConfig) (tts.Synthesizer, error) {
	switch cfg.Type {
	case satellite.TTSPiper:
		return ttspiper.New(cfg.ModelPath)
	case satellite.TTSMock:
		return &ttsmock.Synthesizer{}, nil
	default:
		return nil, fmt.Errorf("unknown tts type %q", cfg.Type)
	}
}
