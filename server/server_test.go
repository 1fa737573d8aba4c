package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/researchmesh/agent"
	"github.com/hupe1980/researchmesh/auth"
	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/model"
	"github.com/hupe1980/researchmesh/runner"
	"github.com/hupe1980/researchmesh/session"
)

type stubSearcher struct{}

func (stubSearcher) Search(context.Context, string) ([]core.SearchResult, error) {
	return []core.SearchResult{{Title: "t", URL: "u", Content: "some content"}}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *session.InMemoryStore) {
	t.Helper()

	// A bare mock model drives the degraded-but-successful path end to end.
	a := agent.New(model.NewMockModel("test"), stubSearcher{}, func(o *agent.Options) {
		o.Config = agent.Config{MaxLoops: 2, MaxSubQueries: 3}
	})
	store := session.NewInMemoryStore()
	r := runner.New(a, func(o *runner.Options) { o.SessionStore = store })

	verifier := auth.NewStaticVerifier()
	verifier.Add("dev-token", core.Identity{ID: "owner-1", Email: "dev@localhost"})

	srv := httptest.NewServer(New(r, store, verifier).Handler())
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url, token string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp, body
}

func TestSessions_RequireAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/sessions", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/sessions", "wrong-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessions_CRUD(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()

	mine, err := store.Save(ctx, "my query", "my report", "owner-1")
	require.NoError(t, err)
	theirs, err := store.Save(ctx, "their query", "their report", "owner-2")
	require.NoError(t, err)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/sessions", "dev-token")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sessions := body["sessions"].([]any)
	require.Len(t, sessions, 1)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/sessions/"+mine.ID, "dev-token")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "my report", body["report"])

	// A foreign record reads as missing.
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/sessions/"+theirs.ID, "dev-token")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/sessions/"+mine.ID, "dev-token")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/sessions/"+mine.ID, "dev-token")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func dialAgent(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/agent"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestAgentSocket_StreamsRunToTerminalEvent(t *testing.T) {
	srv, store := newTestServer(t)
	conn := dialAgent(t, srv)

	require.NoError(t, conn.WriteJSON(map[string]string{
		"query": "what is a websocket?",
		"token": "dev-token",
	}))

	var events []core.ProgressEvent
	for {
		var ev core.ProgressEvent
		require.NoError(t, conn.ReadJSON(&ev))
		events = append(events, ev)
		if ev.IsTerminal() {
			break
		}
	}

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, "Task Completed", last.Message)
	assert.NotEmpty(t, last.Extra["report"])

	// The run was persisted for the authenticated owner.
	records, err := store.List(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "what is a websocket?", records[0].Query)
}

func TestAgentSocket_RejectsEmptyQuery(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialAgent(t, srv)

	require.NoError(t, conn.WriteJSON(map[string]string{"query": "", "token": "dev-token"}))

	var ev core.ProgressEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, core.StageError, ev.Stage)
	assert.Equal(t, "No query provided", ev.Message)
}

func TestAgentSocket_RejectsInvalidToken(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialAgent(t, srv)

	require.NoError(t, conn.WriteJSON(map[string]string{"query": "q", "token": "nope"}))

	var ev core.ProgressEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, core.StageError, ev.Stage)
	assert.Equal(t, "invalid token", ev.Message)
}
