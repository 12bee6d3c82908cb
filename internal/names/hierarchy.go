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

package names

// Hierarchy labels attached to namespaces and custom resources managed by the
// lifecycle service. The webhook trigger uses its own bare "catalyst/" keys
// (see internal/webhook); the two conventions are intentionally separate.
const (
	LabelTeam        = "catalyst.dev/team"
	LabelProject     = "catalyst.dev/project"
	LabelEnvironment = "catalyst.dev/environment"

	// LabelNamespaceType distinguishes team, project and environment
	// namespaces from each other.
	LabelNamespaceType = "catalyst.dev/namespace-type"
)

// Namespace type label values.
const (
	NamespaceTypeTeam        = "team"
	NamespaceTypeProject     = "project"
	NamespaceTypeEnvironment = "environment"
)

// Hierarchy is the team/project/environment triple recovered from namespace
// labels.
type Hierarchy struct {
	Team        string
	Project     string
	Environment string
}

// HierarchyLabels builds the label set for an environment within the
// hierarchy. Values are the sanitized namespace components, not the raw
// names: anything later derived from these labels (the reconciler rebuilds
// namespace names from them) must sanitize to the same components, and
// sanitization is idempotent, so storing the sanitized form keeps the
// round trip exact.
func HierarchyLabels(team, project, environment string) map[string]string {
	return map[string]string{
		LabelTeam:        SanitizeComponent(team),
		LabelProject:     SanitizeComponent(project),
		LabelEnvironment: SanitizeComponent(environment),
	}
}

// ExtractHierarchy reads the hierarchy labels back from a label map. It
// returns nil when any of the three labels is missing: a partially labelled
// namespace has no determinable position in the hierarchy, which is not an
// error.
func ExtractHierarchy(labels map[string]string) *Hierarchy {
	team, ok := labels[LabelTeam]
	if !ok {
		return nil
	}
	project, ok := labels[LabelProject]
	if !ok {
		return nil
	}
	environment, ok := labels[LabelEnvironment]
	if !ok {
		return nil
	}
	return &Hierarchy{Team: team, Project: project, Environment: environment}
}
