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

import "testing"

func TestHierarchyLabels(t *testing.T) {
	labels := HierarchyLabels("Platform Team", "acme/web", "dev-swift-falcon-42")

	if got := labels[LabelTeam]; got != "platform-team" {
		t.Errorf("team label = %q, want %q", got, "platform-team")
	}
	if got := labels[LabelProject]; got != "acme-web" {
		t.Errorf("project label = %q, want %q", got, "acme-web")
	}
	if got := labels[LabelEnvironment]; got != "dev-swift-falcon-42" {
		t.Errorf("environment label = %q, want %q", got, "dev-swift-falcon-42")
	}
}

func TestHierarchyLabelsRoundTripThroughNamespaces(t *testing.T) {
	// Rebuilding namespace names from stored label values must match the
	// names derived from the raw inputs, so the values have to survive
	// another pass through the component sanitizer unchanged.
	labels := HierarchyLabels("Platform Team", "Billing Portal", "dev-swift-falcon-42")
	h := ExtractHierarchy(labels)
	if h == nil {
		t.Fatal("ExtractHierarchy returned nil for complete labels")
	}

	direct := EnvironmentNamespace("Platform Team", "Billing Portal", "dev-swift-falcon-42")
	rebuilt := EnvironmentNamespace(h.Team, h.Project, h.Environment)
	if direct != rebuilt {
		t.Errorf("namespace from labels = %q, from raw names = %q", rebuilt, direct)
	}
}

func TestExtractHierarchy(t *testing.T) {
	tests := []struct {
		name   string
		labels map[string]string
		want   *Hierarchy
	}{
		{
			name: "all three labels present",
			labels: map[string]string{
				LabelTeam:        "platform",
				LabelProject:     "web",
				LabelEnvironment: "dev-swift-falcon-42",
			},
			want: &Hierarchy{Team: "platform", Project: "web", Environment: "dev-swift-falcon-42"},
		},
		{
			name: "missing team label",
			labels: map[string]string{
				LabelProject:     "web",
				LabelEnvironment: "production",
			},
			want: nil,
		},
		{
			name: "missing project label",
			labels: map[string]string{
				LabelTeam:        "platform",
				LabelEnvironment: "production",
			},
			want: nil,
		},
		{
			name: "missing environment label",
			labels: map[string]string{
				LabelTeam:    "platform",
				LabelProject: "web",
			},
			want: nil,
		},
		{
			name:   "no labels at all",
			labels: map[string]string{},
			want:   nil,
		},
		{
			name:   "nil map",
			labels: nil,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractHierarchy(tt.labels)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ExtractHierarchy(%v) = %v, want %v", tt.labels, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("ExtractHierarchy(%v) = %+v, want %+v", tt.labels, *got, *tt.want)
			}
		})
	}
}
