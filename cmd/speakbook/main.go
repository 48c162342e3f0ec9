package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/speakbook/speakbook/internal/audio"
	"github.com/speakbook/speakbook/internal/config"
	"github.com/speakbook/speakbook/internal/logging"
	"github.com/speakbook/speakbook/internal/pipeline"
	"github.com/speakbook/speakbook/internal/progress"
	"github.com/speakbook/speakbook/internal/text"
	"github.com/speakbook/speakbook/internal/tts"
)

var pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

func main() {
	model := flag.String("model", "", "TTS model ("+strings.Join(config.Models, ", ")+")")
	voice := flag.String("voice", "", "Voice ("+strings.Join(config.Voices, ", ")+")")
	format := flag.String("format", "", "Audio format ("+strings.Join(config.Formats, ", ")+")")
	apiKey := flag.String("apikey", "", "API key (overrides OPENAI_API_KEY)")
	baseURL := flag.String("base-url", "", "OpenAI-compatible endpoint override")
	chunkLimit := flag.Int("chunk-limit", 0, "Chunk budget in runes")
	timeout := flag.Duration("timeout", 0, "Per-request timeout")
	outputDir := flag.String("output-dir", "", "Work directory (default: derived from input name)")
	configPath := flag.String("config", "", "Config file path")
	keepTemp := flag.Bool("keep-temp", false, "Keep chunk files after combining")
	play := flag.Bool("play", false, "Play the combined file (mp3 only)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] input_file\n\nConverts a text file into spoken audio using the OpenAI TTS API.\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	inputPath := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, *model, *voice, *format, *apiKey, *baseURL, *chunkLimit, *outputDir, *keepTemp)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid flags: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ValidateKey(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if *play && cfg.TTS.Format != "mp3" {
		fmt.Fprintf(os.Stderr, "--play requires --format mp3, got %s\n", cfg.TTS.Format)
		os.Exit(1)
	}

	if err := logging.Init(logging.Config(cfg.Logging)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()
	logging.SetJobID(logging.NewJobID())

	combiner, err := audio.NewCombiner()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	p := &pipeline.Pipeline{
		Synth: tts.NewOpenAISynthesizer(tts.Config{
			APIKey:     cfg.TTS.APIKey,
			BaseURL:    cfg.TTS.BaseURL,
			Model:      cfg.TTS.Model,
			Voice:      cfg.TTS.Voice,
			Format:     cfg.TTS.Format,
			Timeout:    resolveTimeout(*timeout, cfg.TTS.TimeoutSec),
			MaxRetries: 3,
		}),
		Combiner: combiner,
		Chunker:  text.NewChunker(cfg.Chunker.MaxRunes, cfg.Chunker.HardLimit),
		Spinner:  progress.New(),
		Format:   cfg.TTS.Format,
		WorkDir:  cfg.Output.Dir,
		KeepTemp: cfg.Output.KeepTemp,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := p.Run(ctx, inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d chunks (%d bytes) in %s.\n", result.Chunks, result.Bytes, result.Elapsed.Round(time.Millisecond))
	fmt.Printf("The file [ %s ] is ready for you.\n", pathStyle.Render(result.OutputPath))

	if *play {
		if err := audio.Play(ctx, result.OutputPath); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "Playback failed: %v\n", err)
			os.Exit(1)
		}
	}
}

// resolveTimeout prefers the flag value, at full precision, over the config
// file's whole-second setting.
func resolveTimeout(flagValue time.Duration, cfgSeconds int) time.Duration {
	if flagValue > 0 {
		return flagValue
	}
	return time.Duration(cfgSeconds) * time.Second
}

func applyFlags(cfg *config.AppConfig, model, voice, format, apiKey, baseURL string, chunkLimit int, outputDir string, keepTemp bool) {
	if model != "" {
		cfg.TTS.Model = model
	}
	if voice != "" {
		cfg.TTS.Voice = voice
	}
	if format != "" {
		cfg.TTS.Format = format
	}
	if apiKey != "" {
		cfg.TTS.APIKey = apiKey
	}
	if baseURL != "" {
		cfg.TTS.BaseURL = baseURL
	}
	if chunkLimit > 0 {
		cfg.Chunker.MaxRunes = chunkLimit
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if keepTemp {
		cfg.Output.KeepTemp = true
	}
}
