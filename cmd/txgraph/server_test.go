package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-txgraph/pkg/analytics"
	"github.com/dd0wney/cluso-txgraph/pkg/config"
	"github.com/dd0wney/cluso-txgraph/pkg/graph"
	"github.com/dd0wney/cluso-txgraph/pkg/logging"
	"github.com/dd0wney/cluso-txgraph/pkg/metrics"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	b := graph.NewBuilder()
	for _, id := range []string{"A", "B", "C"} {
		require.NoError(t, b.AddAccount(id))
	}
	require.NoError(t, b.Transfer("e1", "A", "B", 5))
	require.NoError(t, b.Transfer("e2", "B", "C", 5))
	require.NoError(t, b.Transfer("e3", "C", "A", 5))

	reg := metrics.NewRegistry()
	engine, err := analytics.NewEngine(config.DefaultEngine(), analytics.WithMetrics(reg))
	require.NoError(t, err)
	return NewServer(engine, b.Build(), reg, logging.NewNopLogger())
}

func TestServer_GraphQLBeforeRefresh(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query": "{ health }"}`))
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_GraphQL(t *testing.T) {
	s := newTestServer(t)
	_, err := s.Refresh(context.Background())
	require.NoError(t, err)

	body := `{"query": "query($id: ID!) { node(id: $id) { id degree } cycles { key } }", "variables": {"id": "B"}}`
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			Node struct {
				ID     string `json:"id"`
				Degree int    `json:"degree"`
			} `json:"node"`
			Cycles []struct {
				Key string `json:"key"`
			} `json:"cycles"`
		} `json:"data"`
		Errors []GraphQLError `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Errors)
	assert.Equal(t, "B", resp.Data.Node.ID)
	assert.Equal(t, 2, resp.Data.Node.Degree)
	require.Len(t, resp.Data.Cycles, 1)
	assert.Equal(t, "A|B|C", resp.Data.Cycles[0].Key)
}

func TestServer_BadRequest(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()

	s.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/refresh", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"done"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"engine":"done"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `txgraph_passes_total{state="done"} 1`)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
