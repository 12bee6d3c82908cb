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

// Package observability holds the Prometheus metrics the lifecycle and
// webhook paths report. Everything registers on a private registry so the
// process does not leak metrics into the client library's default one.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values shared by the counters below.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeIgnored = "ignored"
)

// Metrics holds the Prometheus collectors for the environment subsystem.
type Metrics struct {
	Registry *prometheus.Registry

	// WebhookEvents counts processed pull_request deliveries by action and
	// outcome.
	WebhookEvents *prometheus.CounterVec

	// EnvironmentsCreated counts Environment resources created through the
	// lifecycle service, by environment type.
	EnvironmentsCreated *prometheus.CounterVec

	// NamespaceOps counts namespace creates and deletes by operation and
	// outcome.
	NamespaceOps *prometheus.CounterVec

	// NameFallbacks counts memorable-name generations that exhausted their
	// retries and fell back to a random hex name.
	NameFallbacks prometheus.Counter
}

// NewMetrics creates the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,

		WebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalyst_webhook_events_total",
			Help: "Pull request webhook deliveries processed, by action and outcome.",
		}, []string{"action", "outcome"}),

		EnvironmentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalyst_environments_created_total",
			Help: "Environment resources created, by environment type.",
		}, []string{"type"}),

		NamespaceOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalyst_namespace_operations_total",
			Help: "Namespace operations performed against the cluster, by operation and outcome.",
		}, []string{"operation", "outcome"}),

		NameFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalyst_name_fallbacks_total",
			Help: "Memorable name generations that degraded to a hash fallback.",
		}),
	}

	reg.MustRegister(
		m.WebhookEvents,
		m.EnvironmentsCreated,
		m.NamespaceOps,
		m.NameFallbacks,
	)

	return m
}
