package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/logging"
	"github.com/hupe1980/researchmesh/model"
	"github.com/hupe1980/researchmesh/progress"
)

// phase enumerates the internal states of the research loop.
type phase int

const (
	phasePlan phase = iota
	phaseSearch
	phaseEvaluate
	phaseSummarize
)

func (p phase) String() string {
	switch p {
	case phasePlan:
		return "plan"
	case phaseSearch:
		return "search"
	case phaseEvaluate:
		return "evaluate"
	case phaseSummarize:
		return "summarize"
	default:
		return "unknown"
	}
}

// Config tunes the termination and pacing behavior of the research loop.
type Config struct {
	// MaxLoops bounds the number of Plan/Search/Evaluate cycles before the
	// loop is forced into summarization.
	MaxLoops int
	// MaxSubQueries is the sub-query cap passed to the planner prompt. The
	// cap is a prompt instruction, not a structural guarantee.
	MaxSubQueries int
	// ModelCallDelay is the quiescence interval applied before each
	// reasoning-model call, accommodating provider rate limits.
	ModelCallDelay time.Duration
	// SearchStagger offsets each concurrent sub-query search by
	// index*SearchStagger so the search provider is not hit in a burst.
	SearchStagger time.Duration
}

// DefaultConfig is suitable for interactive use with hosted providers.
var DefaultConfig = Config{
	MaxLoops:       2,
	MaxSubQueries:  3,
	ModelCallDelay: 2 * time.Second,
	SearchStagger:  500 * time.Millisecond,
}

// Options holds dependency and configuration overrides passed to New.
type Options struct {
	// Planner, Evaluator and Summarizer override the default model for the
	// corresponding step. Any nil role falls back to the model given to New.
	Planner    model.Model
	Evaluator  model.Model
	Summarizer model.Model
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
	// Config defaults to DefaultConfig.
	Config Config
}

// ResearchAgent drives one research run through the plan/search/evaluate/
// summarize loop. It is stateless between runs; all run data lives in the
// core.State threaded through Run.
type ResearchAgent struct {
	planner    model.Model
	evaluator  model.Model
	summarizer model.Model
	searcher   core.Searcher
	logger     logging.Logger
	config     Config
	pacer      *Pacer
}

// New constructs a ResearchAgent. The given model serves all three reasoning
// roles unless overridden per role via options.
func New(m model.Model, searcher core.Searcher, optFns ...func(o *Options)) *ResearchAgent {
	opts := Options{
		Logger: logging.NoOpLogger{},
		Config: DefaultConfig,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Planner == nil {
		opts.Planner = m
	}
	if opts.Evaluator == nil {
		opts.Evaluator = m
	}
	if opts.Summarizer == nil {
		opts.Summarizer = m
	}
	if opts.Config.MaxLoops <= 0 {
		opts.Config.MaxLoops = DefaultConfig.MaxLoops
	}
	if opts.Config.MaxSubQueries <= 0 {
		opts.Config.MaxSubQueries = DefaultConfig.MaxSubQueries
	}

	return &ResearchAgent{
		planner:    opts.Planner,
		evaluator:  opts.Evaluator,
		summarizer: opts.Summarizer,
		searcher:   searcher,
		logger:     opts.Logger,
		config:     opts.Config,
		pacer:      NewPacer(opts.Config.ModelCallDelay),
	}
}

// Config returns the effective loop configuration.
func (a *ResearchAgent) Config() Config { return a.config }

// Run executes the state machine to completion for one run. The state must be
// freshly constructed and exclusively owned by this call. Progress events are
// published to ch; a nil channel silently discards them.
//
// Run returns an error only for context cancellation or a failed
// summarization; planning, search and evaluation failures are recovered
// inside their steps.
func (a *ResearchAgent) Run(ctx context.Context, state *core.State, ch *progress.Channel) error {
	current := phasePlan
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		switch current {
		case phasePlan:
			if err := a.plan(ctx, state, ch); err != nil {
				return err
			}
			a.logger.Debug("Stage transition", "from", phasePlan.String(), "to", phaseSearch.String())
			current = phaseSearch

		case phaseSearch:
			if err := a.search(ctx, state, ch); err != nil {
				return err
			}
			current = phaseEvaluate

		case phaseEvaluate:
			verdict, err := a.evaluate(ctx, state, ch)
			if err != nil {
				return err
			}
			if verdict.Next == NextSummarize {
				current = phaseSummarize
			} else {
				current = phasePlan
			}
			a.logger.Debug("Stage transition",
				"from", phaseEvaluate.String(), "to", current.String(), "loop_count", state.LoopCount)

		case phaseSummarize:
			return a.summarize(ctx, state, ch)

		default:
			return fmt.Errorf("agent: invalid phase %d", current)
		}
	}
}
