package agent

import (
	"context"
	"errors"

	"github.com/katakuxiko/agentchat/internal/model"
)

type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// WebSearch passes the query through to a search backend unchanged.
type WebSearch struct {
	searcher Searcher
}

func NewWebSearch(s Searcher) (*WebSearch, error) {
	if s == nil {
		return nil, errors.New("agent: searcher must not be nil")
	}
	return &WebSearch{searcher: s}, nil
}

func (w *WebSearch) Route() model.Route { return model.RouteWebSearch }

func (w *WebSearch) Answer(ctx context.Context, req Request) (string, error) {
	return w.searcher.Search(ctx, req.Query)
}
