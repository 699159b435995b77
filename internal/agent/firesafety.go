package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/katakuxiko/agentchat/internal/model"
)

// FireSafety answers questions grounded on the loaded document.
type FireSafety struct {
	llm Completer
}

func NewFireSafety(llm Completer) (*FireSafety, error) {
	if llm == nil {
		return nil, errors.New("agent: fire safety completer must not be nil")
	}
	return &FireSafety{llm: llm}, nil
}

func (f *FireSafety) Route() model.Route { return model.RouteFireSafety }

func (f *FireSafety) Answer(ctx context.Context, req Request) (string, error) {
	return f.llm.Complete(ctx, fireSafetyPrompt(req.Query, req.Document.Context()))
}

func fireSafetyPrompt(query, docText string) string {
	return fmt.Sprintf(`You are a fire safety expert. Use the provided context to answer the user's question.

Context:
%s

Question:
%s

Answer:`, docText, query)
}
