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

// Package names derives the Kubernetes names and labels used across the
// Catalyst namespace hierarchy.
//
// Every piece of user-controlled text (team names, project names, branch
// names) passes through here before it is allowed anywhere near the cluster.
//
// # Namespace Naming
//
// Namespaces follow a deterministic hierarchy:
//
//	{team}                        team namespace, holds Project resources
//	{team}-{project}              project namespace, holds Environment resources
//	{team}-{project}-{environment} environment namespace, created by the reconciler
//
// Each component is sanitized to DNS-1123 label rules (lowercased, illegal
// runs collapsed to single dashes, dashes trimmed from both ends). Components
// that sanitize to nothing are dropped from the join.
//
// When a joined name exceeds the 63 character limit it is not simply cut:
// the full pre-truncation name is hashed with SHA-256 and the name becomes
//
//	{first 57 chars, trailing dashes trimmed}-{first 5 hex chars of digest}
//
// so that distinct long inputs stay distinct after truncation, and the same
// input always maps to the same namespace.
//
// # Hierarchy Labels
//
// Namespaces created by Catalyst carry the catalyst.dev/team, catalyst.dev/project
// and catalyst.dev/environment labels. ExtractHierarchy reads them back and
// returns nil unless all three are present; a partially labelled namespace is
// indeterminate, not an error.
//
// # Memorable Names
//
// Development environments get human-friendly names such as "swift-falcon-42"
// (adjective, noun, two digit number). GenerateUnique retries against a
// caller-supplied existence check and falls back to "fallback-" plus eight
// random hex characters once the retry budget is exhausted, so the operation
// cannot fail outright because of collisions.
//
// # Usage
//
//	ns := names.ProjectNamespace("Platform Team", "web-app")
//
//	unique, err := names.GenerateUnique(ctx, exists, names.Config{})
//	if err != nil {
//	    return err
//	}
//	envName := "dev-" + unique.Name
package names
