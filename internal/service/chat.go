package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/katakuxiko/agentchat/internal/agent"
	"github.com/katakuxiko/agentchat/internal/metrics"
	"github.com/katakuxiko/agentchat/internal/model"
	"github.com/katakuxiko/agentchat/internal/router"
	"github.com/katakuxiko/agentchat/internal/session"
	"github.com/katakuxiko/agentchat/internal/util"
)

var ErrEmptyInput = errors.New("service: no text or transcribable audio in input")

type Router interface {
	Route(ctx context.Context, query string) router.Decision
}

type Dispatcher interface {
	Dispatch(ctx context.Context, route model.Route, req agent.Request) agent.Result
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Input is one user turn. When Audio transcribes to non-blank text it is
// used instead of Text.
type Input struct {
	Text  string
	Audio []byte
}

type Reply struct {
	Route         model.Route
	Rule          string
	Answer        string
	Transcription string
	Warnings      []string
}

func (r Reply) Response() model.AskResponse {
	return model.AskResponse{
		Route:         r.Route,
		Rule:          r.Rule,
		Answer:        r.Answer,
		Transcription: r.Transcription,
		Warnings:      r.Warnings,
	}
}

// ChatService runs one interaction: transcribe, route, dispatch, record.
type ChatService struct {
	router     Router
	dispatcher Dispatcher
	stt        Transcriber
	log        zerolog.Logger
}

// NewChatService wires the pipeline. stt may be nil when audio input is
// not supported.
func NewChatService(r Router, d Dispatcher, stt Transcriber, log zerolog.Logger) (*ChatService, error) {
	if r == nil {
		return nil, errors.New("service: router must not be nil")
	}
	if d == nil {
		return nil, errors.New("service: dispatcher must not be nil")
	}
	return &ChatService{router: r, dispatcher: d, stt: stt, log: log}, nil
}

// Route classifies a query without answering it.
func (s *ChatService) Route(ctx context.Context, query string) router.Decision {
	return s.router.Route(ctx, query)
}

// Interact handles one input to completion while holding the session lock,
// so a session never has two inputs in flight.
func (s *ChatService) Interact(ctx context.Context, sess *session.Session, in Input) (Reply, error) {
	var reply Reply
	query := strings.TrimSpace(in.Text)

	if len(in.Audio) > 0 {
		text, warn := s.transcribe(ctx, in.Audio)
		if warn != "" {
			reply.Warnings = append(reply.Warnings, warn)
		}
		if text != "" {
			reply.Transcription = text
			query = text
		}
	}
	if query == "" {
		return Reply{Warnings: reply.Warnings}, ErrEmptyInput
	}

	sess.Lock()
	defer sess.Unlock()

	start := time.Now()
	if err := sess.Transcript.Append(model.NewMessage(model.RoleUser, query)); err != nil {
		return Reply{}, fmt.Errorf("service: record question: %w", err)
	}

	decision := s.router.Route(ctx, query)
	if decision.Err != nil {
		reply.Warnings = append(reply.Warnings, "router: "+decision.Err.Error())
	}
	res := s.dispatcher.Dispatch(ctx, decision.Route, agent.Request{
		Query:    query,
		Document: sess.Document(),
	})

	// the user turn is already recorded, so the reply must be too
	if err := sess.Transcript.Append(model.NewMessage(model.RoleAssistant, res.Answer)); err != nil {
		return Reply{}, fmt.Errorf("service: record answer: %w", err)
	}
	metrics.InteractionDuration.WithLabelValues(string(res.Route)).Observe(time.Since(start).Seconds())

	s.log.Info().
		Str("session", sess.ID).
		Str("route", string(res.Route)).
		Str("rule", decision.Rule).
		Bool("failed", res.Failed).
		Int("messages", sess.Transcript.Len()).
		Str("query", util.TruncateRunes(query, 80)).
		Dur("latency", time.Since(start)).
		Msg("interaction completed")

	reply.Route = res.Route
	reply.Rule = decision.Rule
	reply.Answer = res.Answer
	return reply, nil
}

func (s *ChatService) transcribe(ctx context.Context, audio []byte) (text, warning string) {
	if s.stt == nil {
		return "", "speech: audio input is not configured"
	}
	text, err := s.stt.Transcribe(ctx, audio)
	if err != nil {
		metrics.TranscriptionFailures.Inc()
		s.log.Warn().Err(err).Int("bytes", len(audio)).Msg("transcription failed")
		return "", err.Error()
	}
	text = strings.TrimSpace(text)
	if text == "" {
		metrics.TranscriptionFailures.Inc()
		return "", "speech: no speech recognized"
	}
	return text, ""
}
