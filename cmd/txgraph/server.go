package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/graphql-go/graphql"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/cluso-txgraph/pkg/analytics"
	"github.com/dd0wney/cluso-txgraph/pkg/graph"
	"github.com/dd0wney/cluso-txgraph/pkg/logging"
	"github.com/dd0wney/cluso-txgraph/pkg/metrics"
	"github.com/dd0wney/cluso-txgraph/pkg/query"
)

// Server serves the latest report of one snapshot
type Server struct {
	engine *analytics.Engine
	snap   *graph.Snapshot
	reg    *metrics.Registry
	logger logging.Logger

	mu     sync.RWMutex
	report *analytics.Report
	schema graphql.Schema
}

// GraphQLRequest represents a GraphQL HTTP request
type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GraphQLResponse represents a GraphQL HTTP response
type GraphQLResponse struct {
	Data   any            `json:"data,omitempty"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error
type GraphQLError struct {
	Message string `json:"message"`
}

func NewServer(engine *analytics.Engine, snap *graph.Snapshot, reg *metrics.Registry, logger logging.Logger) *Server {
	return &Server{engine: engine, snap: snap, reg: reg, logger: logger}
}

// Refresh recomputes the report and swaps the schema
func (s *Server) Refresh(ctx context.Context) (*analytics.Report, error) {
	r := s.engine.Compute(ctx, s.snap)
	schema, err := query.NewSchema(r)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.report, s.schema = r, schema
	s.mu.Unlock()
	return r, nil
}

func (s *Server) current() (*analytics.Report, graphql.Schema) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report, s.schema
}

// Router wires every endpoint
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/graphql", s.graphql).Methods("POST")
	router.HandleFunc("/refresh", s.refresh).Methods("POST")
	router.HandleFunc("/health", s.health).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(s.reg.GetPrometheusRegistry(), promhttp.HandlerOpts{})).Methods("GET")

	router.Use(s.loggingMiddleware)
	return router
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			logging.String("method", r.Method),
			logging.String("uri", r.RequestURI),
			logging.Latency(time.Since(start)))
	})
}

func (s *Server) graphql(w http.ResponseWriter, r *http.Request) {
	var req GraphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	report, schema := s.current()
	if report == nil {
		http.Error(w, "No report computed yet", http.StatusServiceUnavailable)
		return
	}

	result := query.Execute(schema, req.Query, req.Variables)
	response := GraphQLResponse{Data: result.Data}
	for _, err := range result.Errors {
		response.Errors = append(response.Errors, GraphQLError{Message: err.Message})
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	report, err := s.Refresh(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":   report.RunID,
		"state":    report.State.String(),
		"complete": report.Complete,
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	report, _ := s.current()
	status := map[string]any{
		"status": "ok",
		"engine": s.engine.State().String(),
	}
	if report != nil {
		status["run_id"] = report.RunID
		status["complete"] = report.Complete
	}
	writeJSON(w, http.StatusOK, status)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
