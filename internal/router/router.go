package router

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/katakuxiko/agentchat/internal/metrics"
	"github.com/katakuxiko/agentchat/internal/model"
)

const (
	RuleClassifier = "classifier"
	RuleDefault    = "default"
)

// Rule maps a query to a route when Match reports true.
type Rule struct {
	Name  string
	Route model.Route
	Match func(query string) bool
}

// KeywordRule matches when the lowercased query contains any keyword.
func KeywordRule(name string, route model.Route, keywords ...string) Rule {
	kws := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			kws = append(kws, k)
		}
	}
	return Rule{
		Name:  name,
		Route: route,
		Match: func(query string) bool {
			q := strings.ToLower(query)
			for _, k := range kws {
				if strings.Contains(q, k) {
					return true
				}
			}
			return false
		},
	}
}

// DefaultRules are checked in order: sales before fire safety.
func DefaultRules() []Rule {
	return []Rule{
		KeywordRule("sales", model.RouteSalesData,
			"sales", "revenue", "customer", "customers",
			"product", "products", "region", "regions",
			"order", "orders", "amount", "price", "quantity",
		),
		KeywordRule("fire_safety", model.RouteFireSafety,
			"fire", "alarm", "evacuation", "drill", "smoke detector",
			"extinguisher", "emergency exit", "sprinkler",
		),
	}
}

// Classifier labels queries no rule matched.
type Classifier interface {
	Classify(ctx context.Context, query string) (string, error)
}

// Decision is the outcome of routing one query. Err is set when the
// classifier failed; Route is still usable.
type Decision struct {
	Route model.Route
	Rule  string
	Err   error
}

type Router struct {
	rules      []Rule
	classifier Classifier
	log        zerolog.Logger
}

// New builds a router over rules. A nil classifier sends every unmatched
// query to web search.
func New(rules []Rule, classifier Classifier, log zerolog.Logger) *Router {
	return &Router{rules: rules, classifier: classifier, log: log}
}

// Route never fails: classifier problems degrade to web search.
func (r *Router) Route(ctx context.Context, query string) Decision {
	d := r.decide(ctx, query)
	metrics.RouteDecisions.WithLabelValues(string(d.Route), d.Rule).Inc()
	return d
}

func (r *Router) decide(ctx context.Context, query string) Decision {
	for _, rule := range r.rules {
		if rule.Match(query) {
			return Decision{Route: rule.Route, Rule: rule.Name}
		}
	}

	if r.classifier == nil {
		return Decision{Route: model.RouteWebSearch, Rule: RuleDefault}
	}
	answer, err := r.classifier.Classify(ctx, query)
	if err != nil {
		r.log.Warn().Err(err).Msg("router classifier failed, using web search")
		return Decision{Route: model.RouteWebSearch, Rule: RuleDefault, Err: err}
	}
	route, ok := model.ParseRoute(normalizeLabel(answer))
	if !ok {
		r.log.Debug().Str("answer", answer).Msg("router classifier returned unknown label")
		return Decision{Route: model.RouteWebSearch, Rule: RuleDefault}
	}
	return Decision{Route: route, Rule: RuleClassifier}
}

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Trim(s, "\"'`.,;:!* \n\t")
}
