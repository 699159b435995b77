package agent

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/katakuxiko/agentchat/internal/metrics"
	"github.com/katakuxiko/agentchat/internal/model"
	"github.com/katakuxiko/agentchat/internal/pdf"
)

// Completer sends a single prompt to a text-generation model.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Request is what a handler receives. Document is only read by the fire
// safety handler and may be nil.
type Request struct {
	Query    string
	Document *pdf.Document
}

type Agent interface {
	Route() model.Route
	Answer(ctx context.Context, req Request) (string, error)
}

// Result is a dispatched answer. Failed marks answers that are error text.
type Result struct {
	Route  model.Route
	Answer string
	Failed bool
}

// Dispatcher forwards a routed query to its agent and turns every failure
// into an "Error: ..." answer.
type Dispatcher struct {
	agents   map[model.Route]Agent
	fallback model.Route
	log      zerolog.Logger
}

// NewDispatcher registers agents by their route. Queries for a route with no
// agent go to the web search agent.
func NewDispatcher(log zerolog.Logger, agents ...Agent) (*Dispatcher, error) {
	d := &Dispatcher{
		agents:   make(map[model.Route]Agent, len(agents)),
		fallback: model.RouteWebSearch,
		log:      log,
	}
	for _, a := range agents {
		if a == nil {
			return nil, fmt.Errorf("agent: nil agent")
		}
		if _, dup := d.agents[a.Route()]; dup {
			return nil, fmt.Errorf("agent: duplicate agent for route %s", a.Route())
		}
		d.agents[a.Route()] = a
	}
	if _, ok := d.agents[d.fallback]; !ok {
		return nil, fmt.Errorf("agent: no agent registered for %s", d.fallback)
	}
	return d, nil
}

func (d *Dispatcher) Dispatch(ctx context.Context, route model.Route, req Request) (res Result) {
	a, ok := d.agents[route]
	if !ok {
		a = d.agents[d.fallback]
	}
	res.Route = a.Route()

	defer func() {
		if r := recover(); r != nil {
			res.Answer, res.Failed = d.fail(res.Route, fmt.Errorf("panic: %v", r))
		}
	}()

	answer, err := a.Answer(ctx, req)
	if err != nil {
		res.Answer, res.Failed = d.fail(res.Route, err)
		return res
	}
	res.Answer = answer
	return res
}

func (d *Dispatcher) fail(route model.Route, err error) (string, bool) {
	d.log.Error().Err(err).Str("route", string(route)).Msg("agent failed")
	metrics.AgentErrors.WithLabelValues(string(route)).Inc()
	return ErrorAnswer(err), true
}

// ErrorAnswer renders err as a user-visible reply.
func ErrorAnswer(err error) string {
	return "Error: " + err.Error()
}
