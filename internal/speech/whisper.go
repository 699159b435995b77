package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"
)

const (
	Language     = "en"
	DefaultModel = openai.Whisper1
)

var ErrNoAudio = errors.New("speech: no audio")

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Whisper transcribes English audio through an OpenAI-compatible
// /audio/transcriptions endpoint. The API client is built on first use and
// shared by every later call.
type Whisper struct {
	cfg Config

	once   sync.Once
	client *openai.Client
}

func NewWhisper(cfg Config) *Whisper {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Whisper{cfg: cfg}
}

func (w *Whisper) load() *openai.Client {
	w.once.Do(func() {
		key := w.cfg.APIKey
		if key == "" {
			key = "not-needed"
		}
		oc := openai.DefaultConfig(key)
		if w.cfg.BaseURL != "" {
			oc.BaseURL = strings.TrimRight(w.cfg.BaseURL, "/")
		}
		w.client = openai.NewClientWithConfig(oc)
	})
	return w.client
}

// Transcribe returns the text spoken in a WAV recording.
func (w *Whisper) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", ErrNoAudio
	}
	resp, err := w.load().CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.cfg.Model,
		FilePath: "recording.wav",
		Reader:   bytes.NewReader(audio),
		Language: Language,
	})
	if err != nil {
		return "", fmt.Errorf("speech: transcribe: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
