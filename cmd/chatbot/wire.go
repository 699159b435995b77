package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/katakuxiko/agentchat/internal/agent"
	"github.com/katakuxiko/agentchat/internal/config"
	"github.com/katakuxiko/agentchat/internal/pdf"
	"github.com/katakuxiko/agentchat/internal/router"
	"github.com/katakuxiko/agentchat/internal/search"
	"github.com/katakuxiko/agentchat/internal/service"
	"github.com/katakuxiko/agentchat/internal/session"
	"github.com/katakuxiko/agentchat/internal/speech"
	"github.com/katakuxiko/agentchat/internal/store"
)

// components is everything a running chatbot needs.
type components struct {
	sales    *store.SalesDB
	llm      *service.LLMClient
	chat     *service.ChatService
	sessions *session.Manager
	doc      *pdf.Document
}

func (c *components) Close() error {
	if c.sales == nil {
		return nil
	}
	return c.sales.Close()
}

func salesDSN(cfg *config.Config, readOnly bool) string {
	if cfg.SalesDBDSN != "" {
		return cfg.SalesDBDSN
	}
	return store.SQLiteDSN(cfg.SalesDBPath, readOnly)
}

func build(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *components, err error) {
	sales, err := store.OpenSalesDB(ctx, cfg.SalesDBDriver, salesDSN(cfg, true))
	if err != nil {
		return nil, fmt.Errorf("open sales db (run init-db first?): %w", err)
	}
	c := &components{sales: sales, sessions: session.NewManager()}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	c.doc = pdf.Load(cfg.DocumentPath, cfg.ChunkSize, cfg.ChunkOverlap)
	ev := log.Info()
	if c.doc.Status != pdf.StatusLoaded {
		ev = log.Warn().Err(c.doc.Err)
	}
	ev.Str("path", cfg.DocumentPath).Str("status", string(c.doc.Status)).Int("chunks", c.doc.Len()).Msg("default document")

	c.llm, err = service.NewLLMClient(service.Endpoint{
		BaseURL:     cfg.LLMBaseURL,
		APIKey:      cfg.LLMAPIKey,
		Model:       cfg.ChatModel,
		Temperature: cfg.LLMTemperature,
	})
	if err != nil {
		return nil, err
	}
	sqlLLM, err := service.NewLLMClient(service.Endpoint{
		BaseURL: cfg.SQLBaseURL,
		APIKey:  cfg.SQLAPIKey,
		Model:   cfg.SQLModel,
	})
	if err != nil {
		return nil, err
	}

	rules := router.DefaultRules()
	if cfg.RouterRulesFile != "" {
		if rules, err = router.LoadRules(cfg.RouterRulesFile); err != nil {
			return nil, err
		}
	}
	classifier, err := router.NewLLMClassifier(c.llm)
	if err != nil {
		return nil, err
	}
	rt := router.New(rules, classifier, log)

	fire, err := agent.NewFireSafety(c.llm)
	if err != nil {
		return nil, err
	}
	salesAgent, err := agent.NewSales(sqlLLM, sales)
	if err != nil {
		return nil, err
	}
	web, err := agent.NewWebSearch(search.NewDuckDuckGo(
		search.WithBaseURL(cfg.SearchURL),
		search.WithMaxResults(cfg.SearchMaxResults),
	))
	if err != nil {
		return nil, err
	}
	dispatcher, err := agent.NewDispatcher(log, fire, salesAgent, web)
	if err != nil {
		return nil, err
	}

	stt := speech.NewWhisper(speech.Config{
		BaseURL: cfg.STTBaseURL,
		APIKey:  cfg.STTAPIKey,
		Model:   cfg.STTModel,
	})
	c.chat, err = service.NewChatService(rt, dispatcher, stt, log)
	if err != nil {
		return nil, err
	}
	return c, nil
}
