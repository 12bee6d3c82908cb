// Copyright 2025 The Catalyst Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	catalystv1alpha1 "github.com/catalyst-dev/catalyst/api/v1alpha1"
	"github.com/catalyst-dev/catalyst/internal/lifecycle"
	"github.com/catalyst-dev/catalyst/internal/observability"
)

// Server is the HTTP front door: the GitHub webhook receiver plus the JSON
// API the platform UI calls. Metrics is optional; without it /metrics is
// not served.
type Server struct {
	addr          string
	port          int
	webhookSecret string
	trigger       *Trigger
	lifecycle     *lifecycle.Service
	server        *http.Server
	rateLimiter   *RateLimiter

	Metrics *observability.Metrics

	// ShutdownTimeout bounds the drain when Start's context is canceled.
	// Zero waits for in-flight requests indefinitely.
	ShutdownTimeout time.Duration
}

// RateLimiter provides per-repository rate limiting
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
}

type bucket struct {
	tokens    int
	lastReset time.Time
}

// NewServer creates a webhook server dispatching deliveries to trigger and
// API calls to svc.
func NewServer(addr string, port int, trigger *Trigger, svc *lifecycle.Service, webhookSecret string) *Server {
	return &Server{
		addr:          addr,
		port:          port,
		webhookSecret: webhookSecret,
		trigger:       trigger,
		lifecycle:     svc,
		rateLimiter:   NewRateLimiter(10, time.Second), // 10 requests per second per repo
	}
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
	}
}

// Allow checks if a request from the given repository should be allowed
func (rl *RateLimiter) Allow(repo string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[repo]
	if !exists {
		b = &bucket{
			tokens:    rl.limit,
			lastReset: time.Now(),
		}
		rl.buckets[repo] = b
	}

	if time.Since(b.lastReset) >= rl.window {
		b.tokens = rl.limit
		b.lastReset = time.Now()
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}

	return false
}

// Handler returns the server's routes. Factored out of Start so tests can
// drive them through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhook", s.handleWebhook)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/readyz", s.handleHealthz)
	if s.Metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{}))
	}

	mux.HandleFunc("POST /api/v1/environments", s.handleCreateEnvironment)
	mux.HandleFunc("GET /api/v1/projects/{slug}/environments", s.handleListEnvironments)
	mux.HandleFunc("GET /api/v1/projects/{slug}/environments/{name}", s.handleGetEnvironment)
	return mux
}

// Start starts the server and blocks until ctx is canceled or serving
// fails.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.addr, s.port),
		Handler: s.Handler(),
	}

	errChan := make(chan error, 1)
	go func() {
		logf.Log.Info("Starting webhook server", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx := context.Background()
		if s.ShutdownTimeout > 0 {
			var cancel context.CancelFunc
			shutdownCtx, cancel = context.WithTimeout(context.Background(), s.ShutdownTimeout)
			defer cancel()
		}
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	logf.Log.Info("Shutting down webhook server")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleWebhook authenticates and parses a GitHub delivery, then hands the
// event to the trigger. Only pull_request events reach it; everything else
// is acknowledged and dropped.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	logger := logf.FromContext(r.Context())

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error(err, "Failed to read request body")
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("X-Hub-Signature-256")
	if !ValidateSignature(payload, signature, s.webhookSecret) {
		logger.Info("Invalid webhook signature")
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	eventType := r.Header.Get("X-GitHub-Event")
	if eventType != "pull_request" {
		logger.V(1).Info("Ignoring non-PR event", "event", eventType)
		w.WriteHeader(http.StatusOK)
		return
	}

	var event PullRequestEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		logger.Error(err, "Failed to parse JSON payload")
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if !s.rateLimiter.Allow(event.Repository.FullName) {
		logger.Info("Rate limit exceeded", "repository", event.Repository.FullName)
		http.Error(w, "Too many requests", http.StatusTooManyRequests)
		return
	}

	result := s.trigger.HandlePullRequest(r.Context(), &event)

	status := http.StatusOK
	switch {
	case !result.Success:
		status = http.StatusInternalServerError
	case result.Namespace != nil:
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

// handleCreateEnvironment serves the UI's create call. The outcome is
// always a lifecycle.EnvironmentResult; the status code just mirrors its
// Success flag.
func (s *Server) handleCreateEnvironment(w http.ResponseWriter, r *http.Request) {
	var req lifecycle.CreateEnvironmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	result := s.lifecycle.CreateEnvironment(r.Context(), req)

	status := http.StatusCreated
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

func (s *Server) handleListEnvironments(w http.ResponseWriter, r *http.Request) {
	envs, err := s.lifecycle.ListProjectEnvironments(r.Context(), r.PathValue("slug"))
	if err != nil {
		logf.FromContext(r.Context()).Error(err, "Failed to list environments")
		http.Error(w, "Failed to list environments", http.StatusInternalServerError)
		return
	}
	if envs == nil {
		envs = []catalystv1alpha1.Environment{}
	}
	writeJSON(w, http.StatusOK, envs)
}

func (s *Server) handleGetEnvironment(w http.ResponseWriter, r *http.Request) {
	detail, err := s.lifecycle.GetEnvironmentDetail(r.Context(), r.PathValue("slug"), r.PathValue("name"))
	if err != nil {
		logf.FromContext(r.Context()).Error(err, "Failed to get environment")
		http.Error(w, "Failed to get environment", http.StatusInternalServerError)
		return
	}
	if detail == nil {
		http.Error(w, "Environment not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logf.Log.Error(err, "Failed to encode response")
	}
}
