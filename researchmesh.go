// Package researchmesh provides a high-level façade over the research agent,
// session runner and service abstractions (persistence, identity & logging)
// enabling rapid construction of query-answering research services. Most
// applications interact with this package by:
//  1. Creating a ResearchMesh via New() with a reasoning model and a searcher
//     (optionally overriding the default in-memory store and logger)
//  2. Starting runs asynchronously (Research) or synchronously (ResearchSync)
//
// The façade delegates orchestration to runner.Runner while keeping setup
// and usage ergonomics concise. All defaults are safe for local development
// and testing; production deployments typically supply the SQLite store and
// a structured logger.
package researchmesh

import (
	"context"

	"github.com/hupe1980/researchmesh/agent"
	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/logging"
	"github.com/hupe1980/researchmesh/model"
	"github.com/hupe1980/researchmesh/runner"
	"github.com/hupe1980/researchmesh/session"
)

// Options configures the ResearchMesh instance.
type Options struct {
	// Planner, Evaluator and Summarizer override the default model per
	// reasoning role.
	Planner    model.Model
	Evaluator  model.Model
	Summarizer model.Model

	// AgentConfig tunes loop termination and pacing.
	AgentConfig agent.Config

	// SessionStore defaults to an in-memory implementation.
	SessionStore core.SessionStore

	// Logger defaults to a NoOp logger if nil.
	Logger logging.Logger
}

// ResearchMesh is the high-level façade aggregating the agent and runner.
type ResearchMesh struct {
	opts   Options
	agent  *agent.ResearchAgent
	runner *runner.Runner
}

// New creates a ResearchMesh around a reasoning model and a web searcher.
// Any unset service is initialized with a safe default.
func New(m model.Model, searcher core.Searcher, optFns ...func(o *Options)) *ResearchMesh {
	opts := Options{
		AgentConfig:  agent.DefaultConfig,
		SessionStore: session.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	a := agent.New(m, searcher, func(o *agent.Options) {
		o.Planner = opts.Planner
		o.Evaluator = opts.Evaluator
		o.Summarizer = opts.Summarizer
		o.Logger = opts.Logger
		o.Config = opts.AgentConfig
	})

	r := runner.New(a, func(o *runner.Options) {
		o.SessionStore = opts.SessionStore
		o.Logger = opts.Logger
	})

	return &ResearchMesh{opts: opts, agent: a, runner: r}
}

// Agent returns the underlying research agent.
func (m *ResearchMesh) Agent() *agent.ResearchAgent { return m.agent }

// Runner returns the underlying session runner.
func (m *ResearchMesh) Runner() *runner.Runner { return m.runner }

// Sessions returns the configured session store.
func (m *ResearchMesh) Sessions() core.SessionStore { return m.opts.SessionStore }

// Research starts an asynchronous run returning the ordered progress stream.
func (m *ResearchMesh) Research(ctx context.Context, query, ownerID string) <-chan core.ProgressEvent {
	return m.runner.Run(ctx, query, ownerID)
}

// ResearchSync is a synchronous helper that drains the progress stream and
// returns the collected events plus the final report.
func (m *ResearchMesh) ResearchSync(ctx context.Context, query, ownerID string) ([]core.ProgressEvent, string, error) {
	return m.runner.RunSync(ctx, query, ownerID)
}
