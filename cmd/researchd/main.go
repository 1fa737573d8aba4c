// Command researchd runs the research service: a websocket endpoint that
// streams live agent progress plus REST endpoints for stored sessions.
package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/hupe1980/researchmesh/agent"
	"github.com/hupe1980/researchmesh/auth"
	"github.com/hupe1980/researchmesh/config"
	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/logging"
	"github.com/hupe1980/researchmesh/model"
	"github.com/hupe1980/researchmesh/model/anthropic"
	"github.com/hupe1980/researchmesh/model/openai"
	"github.com/hupe1980/researchmesh/runner"
	"github.com/hupe1980/researchmesh/search"
	"github.com/hupe1980/researchmesh/server"
	"github.com/hupe1980/researchmesh/session/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := sqlite.NewStore(ctx, cfg.DBPath)
	cancel()
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer store.Close()

	researchAgent := agent.New(buildModel(cfg), buildSearcher(cfg), func(o *agent.Options) {
		o.Logger = logger.WithComponent("agent")
		o.Config = agent.Config{
			MaxLoops:       cfg.MaxLoops,
			MaxSubQueries:  cfg.MaxSubQueries,
			ModelCallDelay: cfg.ModelCallDelay,
			SearchStagger:  cfg.SearchStagger,
		}
	})

	sessionRunner := runner.New(researchAgent, func(o *runner.Options) {
		o.SessionStore = store
		o.Logger = logger.WithComponent("runner")
	})

	var authClient *auth.Client
	var verifier core.Verifier
	if cfg.AuthURL != "" {
		authClient = auth.NewClient(cfg.AuthURL, cfg.AuthAPIKey)
		verifier = authClient
	} else {
		// Single-user development mode.
		static := auth.NewStaticVerifier()
		token := cfg.DevToken
		if token == "" {
			token = "dev"
		}
		static.Add(token, core.Identity{ID: "local", Email: "local@localhost"})
		verifier = static
		logger.Warn("AUTH_URL not set, using static dev verifier", "token", token)
	}

	srv := server.New(sessionRunner, store, verifier, func(o *server.Options) {
		o.AuthClient = authClient
		o.StaticDir = cfg.StaticDir
		o.Logger = logger.WithComponent("server")
	})

	logger.Info("Listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv.Handler()); err != nil {
		log.Fatalf("serve: %v", err)
	}
}

func buildModel(cfg *config.Config) model.Model {
	if cfg.OpenAIAPIKey != "" {
		return openai.NewModel()
	}
	return anthropic.NewModel(func(o *anthropic.Options) {
		o.APIKey = cfg.AnthropicAPIKey
	})
}

func buildSearcher(cfg *config.Config) core.Searcher {
	if cfg.TavilyAPIKey != "" {
		return search.NewTavily(cfg.TavilyAPIKey)
	}
	return search.NewBrave(cfg.BraveAPIKey)
}
