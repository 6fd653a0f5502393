// Copyright (C) 2025 GraphBench Authors
// Tests for the graphd HTTP surface.

package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphbench/graphbench/pkg/graph"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	return New().Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func openFeedSession(t *testing.T, router *gin.Engine, size int) (sessionID string, placeholder, op int) {
	t.Helper()
	g := graph.New()
	p := g.Placeholder(size)
	id := g.Identity(p)

	w := doJSON(t, router, "POST", "/v1/session/open", OpenSessionRequest{Graph: g.Marshal()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp OpenSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID, p.ID(), id.ID()
}

func TestHealth(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestOpenSessionRejectsInvalidGraph(t *testing.T) {
	router := newTestRouter()

	wire := []graph.WireNode{{ID: 0, Op: "bogus", Shape: 1}}
	w := doJSON(t, router, "POST", "/v1/session/open", OpenSessionRequest{Graph: wire})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid graph")
}

func TestOpenSessionRejectsEmptyBody(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, "POST", "/v1/session/open", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunFeedOpReturnsNoValue(t *testing.T) {
	router := newTestRouter()
	sid, p, op := openFeedSession(t, router, 3)

	req := RunRequest{
		Node:  op,
		Fetch: false,
		Feeds: []FeedEntry{{Node: p, Value: []float32{1, 2, 3}}},
	}
	w := doJSON(t, router, "POST", fmt.Sprintf("/v1/session/%s/run", sid), req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp RunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Value, "op-only run must not transfer the tensor back")
}

func TestRunFetchReturnsValue(t *testing.T) {
	router := newTestRouter()
	sid, p, op := openFeedSession(t, router, 2)

	req := RunRequest{
		Node:  op,
		Fetch: true,
		Feeds: []FeedEntry{{Node: p, Value: []float32{5, 6}}},
	}
	w := doJSON(t, router, "POST", fmt.Sprintf("/v1/session/%s/run", sid), req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp RunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []float32{5, 6}, resp.Value)
}

func TestRunUnknownSession(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, "POST", "/v1/session/nope/run", RunRequest{Node: 0})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRunMissingFeedFails(t *testing.T) {
	router := newTestRouter()
	sid, _, op := openFeedSession(t, router, 2)

	w := doJSON(t, router, "POST", fmt.Sprintf("/v1/session/%s/run", sid), RunRequest{Node: op})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "not fed")
}

func TestVariableLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter()

	g := graph.New()
	v := g.Variable(g.RandomNormal(4))

	w := doJSON(t, router, "POST", "/v1/session/open", OpenSessionRequest{Graph: g.Marshal()})
	require.Equal(t, http.StatusOK, w.Code)
	var open OpenSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &open))

	// Fetching before the initializer runs is an error.
	w = doJSON(t, router, "POST", fmt.Sprintf("/v1/session/%s/run", open.SessionID),
		RunRequest{Node: v.ID(), Fetch: true})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Run the initializer, then fetch twice; the value is stable.
	w = doJSON(t, router, "POST", fmt.Sprintf("/v1/session/%s/run", open.SessionID),
		RunRequest{Node: v.Initializer().ID()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var first, second RunResponse
	w = doJSON(t, router, "POST", fmt.Sprintf("/v1/session/%s/run", open.SessionID),
		RunRequest{Node: v.ID(), Fetch: true})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	require.Len(t, first.Value, 4)

	w = doJSON(t, router, "POST", fmt.Sprintf("/v1/session/%s/run", open.SessionID),
		RunRequest{Node: v.ID(), Fetch: true})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Equal(t, first.Value, second.Value)
}

func TestCloseSession(t *testing.T) {
	router := newTestRouter()
	sid, _, op := openFeedSession(t, router, 1)

	w := doJSON(t, router, "POST", fmt.Sprintf("/v1/session/%s/close", sid), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// A closed session is gone.
	w = doJSON(t, router, "POST", fmt.Sprintf("/v1/session/%s/run", sid), RunRequest{Node: op})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Closing twice is an error.
	w = doJSON(t, router, "POST", fmt.Sprintf("/v1/session/%s/close", sid), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResetDropsAllSessions(t *testing.T) {
	router := newTestRouter()
	sid1, _, _ := openFeedSession(t, router, 1)
	sid2, _, _ := openFeedSession(t, router, 1)

	w := doJSON(t, router, "POST", "/v1/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2")

	for _, sid := range []string{sid1, sid2} {
		w = doJSON(t, router, "POST", fmt.Sprintf("/v1/session/%s/run", sid), RunRequest{Node: 0})
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter()
	openFeedSession(t, router, 1)

	w := doJSON(t, router, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "graphd_sessions_opened_total")
}
