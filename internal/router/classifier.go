package router

import (
	"context"
	"errors"
	"fmt"
)

// Completer sends a single prompt to a text-generation model.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// LLMClassifier asks a model to pick one of the route labels.
type LLMClassifier struct {
	llm Completer
}

func NewLLMClassifier(llm Completer) (*LLMClassifier, error) {
	if llm == nil {
		return nil, errors.New("router: completer must not be nil")
	}
	return &LLMClassifier{llm: llm}, nil
}

func (c *LLMClassifier) Classify(ctx context.Context, query string) (string, error) {
	out, err := c.llm.Complete(ctx, classifierPrompt(query))
	if err != nil {
		return "", fmt.Errorf("router: classify: %w", err)
	}
	return out, nil
}

func classifierPrompt(query string) string {
	return fmt.Sprintf(`Decide which agent should handle the query:
- "fire_safety" -> questions about fire safety, prevention, drills, alarms, etc.
- "sales_data" -> questions about sales, products, customers, regions, revenue, etc.
- "web_search" -> anything else.

Query: %s
Answer with only one: fire_safety, sales_data, web_search`, query)
}
