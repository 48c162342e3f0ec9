package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAISynthesizer struct {
	client openai.Client
	cfg    Config
}

func NewOpenAISynthesizer(cfg Config) *OpenAISynthesizer {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	client := openai.NewClient(opts...)
	return &OpenAISynthesizer{client: client, cfg: cfg}
}

func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	voice, err := voiceParam(s.cfg.Voice)
	if err != nil {
		return nil, err
	}
	format, err := formatParam(s.cfg.Format)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(s.cfg.Model),
		Input:          text,
		Voice:          voice,
		ResponseFormat: format,
	})
	if err != nil {
		return nil, classify(err)
	}

	return resp.Body, nil
}

// classify maps API failures onto the package error taxonomy so callers can
// tell a bad key from a bad request from a flaky backend.
func classify(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch {
		case apierr.StatusCode == http.StatusUnauthorized || apierr.StatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrAuth, err)
		case apierr.StatusCode == http.StatusTooManyRequests || apierr.StatusCode >= 500:
			return fmt.Errorf("%w: %v", ErrTransient, err)
		case apierr.StatusCode >= 400:
			return fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
	}
	// Connection resets, timeouts and the like are worth retrying.
	return fmt.Errorf("%w: %v", ErrTransient, err)
}

func voiceParam(voice string) (openai.AudioSpeechNewParamsVoice, error) {
	switch voice {
	case "alloy":
		return openai.AudioSpeechNewParamsVoiceAlloy, nil
	case "echo":
		return openai.AudioSpeechNewParamsVoiceEcho, nil
	case "shimmer":
		return openai.AudioSpeechNewParamsVoiceShimmer, nil
	case "fable", "onyx", "nova":
		// Accepted by the endpoint but missing from the SDK's constant list.
		return openai.AudioSpeechNewParamsVoice(voice), nil
	default:
		return "", fmt.Errorf("%w: unknown voice %q", ErrBadRequest, voice)
	}
}

func formatParam(format string) (openai.AudioSpeechNewParamsResponseFormat, error) {
	switch format {
	case "flac":
		return openai.AudioSpeechNewParamsResponseFormatFLAC, nil
	case "mp3":
		return openai.AudioSpeechNewParamsResponseFormatMP3, nil
	case "wav":
		return openai.AudioSpeechNewParamsResponseFormatWAV, nil
	case "opus":
		return openai.AudioSpeechNewParamsResponseFormatOpus, nil
	case "aac":
		return openai.AudioSpeechNewParamsResponseFormatAAC, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", ErrBadRequest, format)
	}
}
