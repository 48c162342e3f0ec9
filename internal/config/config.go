package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const DefaultPath = "speakbook.json"

// Models and voices accepted by the speech endpoint.
var (
	Models  = []string{"tts-1-hd", "tts-1"}
	Voices  = []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}
	Formats = []string{"flac", "mp3", "wav", "opus", "aac"}
)

type AppConfig struct {
	Logging LoggingConfig `json:"logging"`
	TTS     TTSConfig     `json:"tts"`
	Chunker ChunkerConfig `json:"chunker"`
	Output  OutputConfig  `json:"output"`
}

type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

type TTSConfig struct {
	APIKey     string `json:"api_key"`
	BaseURL    string `json:"base_url"`
	Model      string `json:"model"`
	Voice      string `json:"voice"`
	Format     string `json:"format"`
	TimeoutSec int    `json:"timeout_sec"`
}

type ChunkerConfig struct {
	// MaxRunes is the accumulation budget per chunk.
	MaxRunes int `json:"max_runes"`
	// HardLimit is the per-request input ceiling enforced by the API.
	HardLimit int `json:"hard_limit"`
}

type OutputConfig struct {
	// Dir overrides the work directory derived from the input file name.
	Dir      string `json:"dir"`
	KeepTemp bool   `json:"keep_temp"`
}

func DefaultConfig() *AppConfig {
	return &AppConfig{
		Logging: LoggingConfig{},
		TTS: TTSConfig{
			Model:      "tts-1-hd",
			Voice:      "fable",
			Format:     "flac",
			TimeoutSec: 120,
		},
		Chunker: ChunkerConfig{
			MaxRunes:  500,
			HardLimit: 4096,
		},
		Output: OutputConfig{},
	}
}

// Load reads the JSON config at path, fills gaps with defaults and applies
// environment overrides. The default file may be absent; a path the caller
// named explicitly must exist. A .env file in the working directory is
// honored before the environment is read.
func Load(path string) (*AppConfig, error) {
	path = strings.TrimSpace(path)
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	_ = godotenv.Load()

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			cfg.ApplyEnv()
			return cfg, cfg.Validate()
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

func (c *AppConfig) ApplyEnv() {
	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		c.Logging.Level = level
	}
	if format := strings.TrimSpace(os.Getenv("LOG_FORMAT")); format != "" {
		c.Logging.Format = format
	}
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		c.TTS.APIKey = key
	}
	if base := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); base != "" {
		c.TTS.BaseURL = base
	}
}

func (c *AppConfig) Validate() error {
	if !contains(Models, c.TTS.Model) {
		return fmt.Errorf("invalid tts.model %q, must be one of %s", c.TTS.Model, strings.Join(Models, ", "))
	}
	if !contains(Voices, c.TTS.Voice) {
		return fmt.Errorf("invalid tts.voice %q, must be one of %s", c.TTS.Voice, strings.Join(Voices, ", "))
	}
	if !contains(Formats, c.TTS.Format) {
		return fmt.Errorf("invalid tts.format %q, must be one of %s", c.TTS.Format, strings.Join(Formats, ", "))
	}
	if c.Chunker.MaxRunes <= 0 {
		return errors.New("chunker.max_runes must be positive")
	}
	if c.Chunker.HardLimit <= 0 {
		return errors.New("chunker.hard_limit must be positive")
	}
	if c.Chunker.MaxRunes > c.Chunker.HardLimit {
		return errors.New("chunker.max_runes must not exceed chunker.hard_limit")
	}
	if c.TTS.TimeoutSec < 0 {
		return errors.New("tts.timeout_sec must be non-negative")
	}
	return nil
}

// ValidateKey checks that an API key is available after flag, env and file
// resolution.
func (c *AppConfig) ValidateKey() error {
	if strings.TrimSpace(c.TTS.APIKey) == "" {
		return errors.New("tts api_key is required (set OPENAI_API_KEY or pass --apikey)")
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == strings.TrimSpace(v) {
			return true
		}
	}
	return false
}
