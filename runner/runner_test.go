package runner

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/researchmesh/agent"
	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/model"
	"github.com/hupe1980/researchmesh/session"
)

type stubSearcher struct {
	results []core.SearchResult
	err     error
}

func (s *stubSearcher) Search(context.Context, string) ([]core.SearchResult, error) {
	return s.results, s.err
}

// panicModel blows up on every reasoning call.
type panicModel struct{}

func (panicModel) Generate(context.Context, model.Request) (*model.Response, error) {
	panic("reasoning model exploded")
}

func (panicModel) GenerateStructured(context.Context, model.Request, *model.ResponseSchema) (json.RawMessage, error) {
	panic("reasoning model exploded")
}

func (panicModel) Info() model.Info { return model.Info{Name: "panic", Provider: "test"} }

// failingStore rejects every save.
type failingStore struct{ session.InMemoryStore }

func (f *failingStore) Save(context.Context, string, string, string) (*core.Record, error) {
	return nil, errors.New("disk full")
}

func fastAgent(m model.Model, s core.Searcher) *agent.ResearchAgent {
	return agent.New(m, s, func(o *agent.Options) {
		o.Config = agent.Config{MaxLoops: 2, MaxSubQueries: 3}
	})
}

// A bare MockModel fails every structured call with a decode error, which
// drives the run down the degraded paths: plan falls back to the raw query,
// evaluation fails open, and the mock's free-text default becomes the report.
func TestRun_TerminalEventCarriesReportAndSessionID(t *testing.T) {
	m := model.NewMockModel("test-model")
	searcher := &stubSearcher{results: []core.SearchResult{{Content: "some result"}}}
	store := session.NewInMemoryStore()

	r := New(fastAgent(m, searcher), func(o *Options) { o.SessionStore = store })

	var events []core.ProgressEvent
	for ev := range r.Run(context.Background(), "test query", "owner-1") {
		events = append(events, ev)
	}

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.True(t, last.IsTerminal())
	assert.Equal(t, "Task Completed", last.Message)
	assert.NotEmpty(t, last.Extra["report"])

	// Only the last event is terminal.
	for _, ev := range events[:len(events)-1] {
		assert.False(t, ev.IsTerminal(), "non-final event %q must not be terminal", ev.Message)
	}

	// The run has been persisted and the record id is surfaced.
	sessionID, ok := last.Extra["session_id"].(string)
	require.True(t, ok)
	rec, err := store.Get(context.Background(), sessionID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "test query", rec.Query)
	assert.Equal(t, last.Extra["report"], rec.Report)
}

func TestRun_AgentPanicYieldsErrorTerminal(t *testing.T) {
	r := New(fastAgent(panicModel{}, &stubSearcher{}))

	var events []core.ProgressEvent
	for ev := range r.Run(context.Background(), "q", "owner-1") {
		events = append(events, ev)
	}

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.True(t, last.IsTerminal())
	assert.Equal(t, "Task Completed (Error)", last.Message)
	report, _ := last.Extra["report"].(string)
	assert.Contains(t, report, "agent panicked")
}

func TestRun_PersistenceFailureDoesNotLoseReport(t *testing.T) {
	m := model.NewMockModel("test-model")
	searcher := &stubSearcher{results: []core.SearchResult{{Content: "text"}}}

	r := New(fastAgent(m, searcher), func(o *Options) { o.SessionStore = &failingStore{} })

	var last core.ProgressEvent
	for ev := range r.Run(context.Background(), "q", "owner-1") {
		last = ev
	}

	assert.Equal(t, "Task Completed", last.Message)
	assert.NotEmpty(t, last.Extra["report"])
	assert.Contains(t, last.Extra["persistence_error"], "disk full")
	assert.NotContains(t, last.Extra, "session_id")
}

func TestRunSync_ReturnsReport(t *testing.T) {
	m := model.NewMockModel("test-model")
	searcher := &stubSearcher{results: []core.SearchResult{{Content: "text"}}}

	r := New(fastAgent(m, searcher))

	events, report, err := r.RunSync(context.Background(), "sync query", "owner-1")
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.NotEmpty(t, report)
	assert.Equal(t, events[len(events)-1].Extra["report"], report)
}
