package tts

import (
	"context"
	"errors"
	"io"
	"time"
)

type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Voice      string
	Format     string
	Timeout    time.Duration
	MaxRetries int
}

// Synthesizer turns one chunk of text into encoded audio. The returned
// reader streams the response body and must be closed by the caller.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (io.ReadCloser, error)
}

var (
	ErrTransient  = errors.New("tts transient error")
	ErrAuth       = errors.New("tts auth error")
	ErrBadRequest = errors.New("tts bad request")
)
