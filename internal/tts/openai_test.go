package tts

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/speakbook/speakbook/internal/config"
)

func newTestSynthesizer(t *testing.T, handler http.HandlerFunc) *OpenAISynthesizer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewOpenAISynthesizer(Config{
		APIKey:  "sk-test",
		BaseURL: srv.URL,
		Model:   "tts-1-hd",
		Voice:   "fable",
		Format:  "flac",
	})
}

func TestSynthesize_ReturnsAudioBody(t *testing.T) {
	s := newTestSynthesizer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header: %q", got)
		}
		w.Header().Set("Content-Type", "audio/flac")
		_, _ = w.Write([]byte("fLaC-bytes"))
	})

	body, err := s.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(data) != "fLaC-bytes" {
		t.Fatalf("unexpected body: %q", data)
	}
}

func TestSynthesize_ErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, want: ErrAuth},
		{name: "forbidden", status: http.StatusForbidden, want: ErrAuth},
		{name: "bad request", status: http.StatusBadRequest, want: ErrBadRequest},
		{name: "rate limited", status: http.StatusTooManyRequests, want: ErrTransient},
		{name: "server error", status: http.StatusInternalServerError, want: ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSynthesizer(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":{"message":"nope"}}`, tt.status)
			})

			_, err := s.Synthesize(context.Background(), "hello")
			if err == nil {
				t.Fatalf("expected error for status %d", tt.status)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestVoiceParam_CoversConfiguredVoices(t *testing.T) {
	for _, voice := range config.Voices {
		got, err := voiceParam(voice)
		if err != nil {
			t.Fatalf("voiceParam(%q) error = %v", voice, err)
		}
		if string(got) != voice {
			t.Fatalf("voiceParam(%q) = %q", voice, got)
		}
	}
}

func TestFormatParam_CoversConfiguredFormats(t *testing.T) {
	for _, format := range config.Formats {
		got, err := formatParam(format)
		if err != nil {
			t.Fatalf("formatParam(%q) error = %v", format, err)
		}
		if string(got) != format {
			t.Fatalf("formatParam(%q) = %q", format, got)
		}
	}
}

func TestSynthesize_RejectsUnknownVoice(t *testing.T) {
	s := NewOpenAISynthesizer(Config{APIKey: "sk-test", Model: "tts-1", Voice: "bariton", Format: "flac"})
	_, err := s.Synthesize(context.Background(), "hello")
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}
