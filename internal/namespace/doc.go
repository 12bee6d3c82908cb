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

// Package namespace manages the Kubernetes namespaces behind the Catalyst
// hierarchy (team and project namespaces) and behind pull-request previews.
//
// # Semantics
//
// Namespaces are ensured, never reconciled: Ensure creates the namespace with
// the caller's labels and annotations if it is absent, and leaves an existing
// namespace completely untouched. Concurrent creators are safe because an
// AlreadyExists conflict counts as success. Delete is equally tolerant: a
// namespace that is already gone is a no-op, not an error.
//
// # Labels
//
// The manager injects no labels of its own. The lifecycle orchestrator labels
// hierarchy namespaces with the catalyst.dev/ keys, while the webhook trigger
// labels pull-request namespaces with the bare catalyst/ keys; both sets are
// passed in by those callers.
//
// # Quotas
//
// Project namespaces can carry a default ResourceQuota derived from the
// project's configuration. Unlike namespaces, quotas are managed objects and
// EnsureQuota reconciles them on every call.
//
// # Deletion
//
// Namespaces cannot own cross-namespace resources, so cleanup works by name:
// deleting the namespace lets Kubernetes cascade to everything inside it.
package namespace
