package router

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/katakuxiko/agentchat/internal/model"
)

type fakeClassifier struct {
	answer string
	err    error
	calls  int
	query  string
}

func (f *fakeClassifier) Classify(_ context.Context, query string) (string, error) {
	f.calls++
	f.query = query
	return f.answer, f.err
}

type fakeCompleter struct {
	out    string
	err    error
	prompt string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.out, f.err
}

func newRouter(c Classifier) *Router {
	return New(DefaultRules(), c, zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Keyword rules
// ---------------------------------------------------------------------------

func TestRoute_KeywordMatches(t *testing.T) {
	cases := []struct {
		query string
		route model.Route
		rule  string
	}{
		{"What were Q3 sales for Eve in North?", model.RouteSalesData, "sales"},
		{"Which CUSTOMERS bought widgets?", model.RouteSalesData, "sales"},
		{"What is the price of a Gadget", model.RouteSalesData, "sales"},
		{"What is the fire drill procedure?", model.RouteFireSafety, "fire_safety"},
		{"Where is the nearest Emergency Exit", model.RouteFireSafety, "fire_safety"},
		{"how often to test a smoke detector", model.RouteFireSafety, "fire_safety"},
	}
	for _, tc := range cases {
		c := &fakeClassifier{answer: "web_search"}
		d := newRouter(c).Route(context.Background(), tc.query)
		require.Equal(t, tc.route, d.Route, "query=%q", tc.query)
		require.Equal(t, tc.rule, d.Rule, "query=%q", tc.query)
		require.NoError(t, d.Err)
		require.Zero(t, c.calls, "keyword match must not consult the classifier")
	}
}

func TestRoute_SalesBeatsFireSafety(t *testing.T) {
	d := newRouter(nil).Route(context.Background(), "fire alarm sales report")
	require.Equal(t, model.RouteSalesData, d.Route)
	require.Equal(t, "sales", d.Rule)
}

// ---------------------------------------------------------------------------
// Classifier fallback
// ---------------------------------------------------------------------------

func TestRoute_DelegatesWhenNoKeyword(t *testing.T) {
	c := &fakeClassifier{answer: "web_search"}
	d := newRouter(c).Route(context.Background(), "What's the capital of France?")
	require.Equal(t, 1, c.calls)
	require.Equal(t, "What's the capital of France?", c.query)
	require.Equal(t, model.RouteWebSearch, d.Route)
	require.Equal(t, RuleClassifier, d.Rule)
}

func TestRoute_ClassifierLabelNormalized(t *testing.T) {
	for _, answer := range []string{" Fire_Safety\n", "\"fire_safety\"", "fire_safety."} {
		c := &fakeClassifier{answer: answer}
		d := newRouter(c).Route(context.Background(), "how do I stay safe at work")
		require.Equal(t, model.RouteFireSafety, d.Route, "answer=%q", answer)
		require.Equal(t, RuleClassifier, d.Rule)
	}
}

func TestRoute_UnknownLabelDefaultsToWebSearch(t *testing.T) {
	c := &fakeClassifier{answer: "I think this is about geography"}
	d := newRouter(c).Route(context.Background(), "tell me about Paris")
	require.Equal(t, model.RouteWebSearch, d.Route)
	require.Equal(t, RuleDefault, d.Rule)
	require.NoError(t, d.Err)
}

func TestRoute_ClassifierErrorDegrades(t *testing.T) {
	boom := errors.New("llm down")
	c := &fakeClassifier{err: boom}
	d := newRouter(c).Route(context.Background(), "tell me about Paris")
	require.Equal(t, model.RouteWebSearch, d.Route)
	require.Equal(t, RuleDefault, d.Rule)
	require.ErrorIs(t, d.Err, boom)
}

func TestRoute_NilClassifier(t *testing.T) {
	d := newRouter(nil).Route(context.Background(), "tell me about Paris")
	require.Equal(t, model.RouteWebSearch, d.Route)
	require.Equal(t, RuleDefault, d.Rule)
}

func TestLLMClassifier(t *testing.T) {
	_, err := NewLLMClassifier(nil)
	require.Error(t, err)

	llm := &fakeCompleter{out: "sales_data"}
	c, err := NewLLMClassifier(llm)
	require.NoError(t, err)

	out, err := c.Classify(context.Background(), "who sold the most?")
	require.NoError(t, err)
	require.Equal(t, "sales_data", out)
	require.Contains(t, llm.prompt, "Query: who sold the most?")
	require.Contains(t, llm.prompt, "fire_safety, sales_data, web_search")

	llm.err = errors.New("timeout")
	_, err = c.Classify(context.Background(), "x")
	require.ErrorIs(t, err, llm.err)
}

// ---------------------------------------------------------------------------
// YAML rules
// ---------------------------------------------------------------------------

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rules:
  - name: safety
    route: fire_safety
    keywords: [fire, "Smoke Detector"]
  - route: sales_data
    keywords: [revenue]
`), 0o600))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	require.Equal(t, "safety", rules[0].Name)
	require.Equal(t, "sales_data", rules[1].Name)

	r := New(rules, nil, zerolog.Nop())
	d := r.Route(context.Background(), "fire and revenue")
	require.Equal(t, model.RouteFireSafety, d.Route, "file order decides precedence")
	require.Equal(t, model.RouteFireSafety, r.Route(context.Background(), "check the smoke detector").Route)
}

func TestParseRules_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":         `rules: []`,
		"unknown route": "rules:\n  - route: weather\n    keywords: [rain]\n",
		"no keywords":   "rules:\n  - route: sales_data\n",
		"bad yaml":      "rules: [",
	}
	for name, raw := range cases {
		_, err := ParseRules([]byte(raw))
		require.Error(t, err, name)
	}

	_, err := LoadRules(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadRules_SampleFileMatchesDefaults(t *testing.T) {
	rules, err := LoadRules(filepath.Join("..", "..", "router_rules.yaml"))
	require.NoError(t, err)

	fromFile := New(rules, nil, zerolog.Nop())
	builtin := New(DefaultRules(), nil, zerolog.Nop())
	for _, q := range []string{
		"What is the total revenue?",
		"Where is the emergency exit?",
		"Is the fire alarm tested monthly for customers?",
		"Who painted the Mona Lisa?",
	} {
		require.Equal(t, builtin.Route(context.Background(), q), fromFile.Route(context.Background(), q), q)
	}
}
