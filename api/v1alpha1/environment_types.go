/*
Copyright (c) 2025 Catalyst Authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Environment types. The lifecycle service sets these; the reconciler
// interprets them.
const (
	EnvironmentTypeDevelopment = "development"
	EnvironmentTypeDeployment  = "deployment"
)

// Environment phases reported by the reconciler in Status.Phase. This
// service only ever reads them.
const (
	EnvironmentPhasePending   = "Pending"
	EnvironmentPhaseBuilding  = "Building"
	EnvironmentPhaseDeploying = "Deploying"
	EnvironmentPhaseReady     = "Ready"
	EnvironmentPhaseFailed    = "Failed"
)

// EnvironmentSpec defines the desired state of Environment
type EnvironmentSpec struct {
	// ProjectRef names the Project this environment belongs to. The referenced
	// Project lives in the team namespace.
	ProjectRef ProjectReference `json:"projectRef"`

	// Type of environment
	// +kubebuilder:validation:Enum=development;deployment
	Type string `json:"type"`

	// DeploymentMode selects how the reconciler deploys this environment
	// (e.g. "production", "development", "workspace")
	// +optional
	DeploymentMode string `json:"deploymentMode,omitempty"`

	// Sources pins the git state this environment is built from
	// +optional
	Sources []EnvironmentSource `json:"sources,omitempty"`

	// Config overrides for this environment
	// +optional
	Config EnvironmentConfig `json:"config,omitempty"`
}

// ProjectReference points at a Project CR by name.
type ProjectReference struct {
	// Name of the Project CR
	Name string `json:"name"`
}

// EnvironmentSource identifies one repository snapshot feeding the environment.
type EnvironmentSource struct {
	// Name matches a source declared on the Project
	Name string `json:"name"`

	// CommitSha is the git commit to build, empty when only the branch is known
	// +optional
	CommitSha string `json:"commitSha,omitempty"`

	// Branch name
	Branch string `json:"branch"`

	// PrNumber is set for pull-request driven environments
	// +kubebuilder:validation:Minimum=1
	// +optional
	PrNumber int `json:"prNumber,omitempty"`
}

// EnvironmentConfig carries per-environment overrides.
type EnvironmentConfig struct {
	// EnvVars to inject into the environment's workloads
	// +optional
	EnvVars []EnvVar `json:"envVars,omitempty"`
}

// EnvVar is a simple name/value pair.
type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// EnvironmentStatus defines the observed state of Environment.
type EnvironmentStatus struct {
	// Phase represents the current lifecycle state
	// +kubebuilder:validation:Enum=Pending;Building;Deploying;Ready;Failed
	// +optional
	Phase string `json:"phase,omitempty"`

	// URL is the public endpoint once the environment is reachable
	// +optional
	URL string `json:"url,omitempty"`

	// conditions represent the current state of the Environment resource.
	// +listType=map
	// +listMapKey=type
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Project",type="string",JSONPath=".spec.projectRef.name",description="Parent Project"
// +kubebuilder:printcolumn:name="Type",type="string",JSONPath=".spec.type",description="Environment Type"
// +kubebuilder:printcolumn:name="Phase",type="string",JSONPath=".status.phase",description="Current Phase"
// +kubebuilder:printcolumn:name="URL",type="string",JSONPath=".status.url",description="Public URL"
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp",description="Creation Time"
// +kubebuilder:resource:shortName=env;envs

// Environment is the Schema for the environments API
type Environment struct {
	metav1.TypeMeta `json:",inline"`

	// metadata is a standard object metadata
	// +optional
	metav1.ObjectMeta `json:"metadata,omitempty,omitzero"`

	// spec defines the desired state of Environment
	// +required
	Spec EnvironmentSpec `json:"spec"`

	// status defines the observed state of Environment
	// +optional
	Status EnvironmentStatus `json:"status,omitempty,omitzero"`
}

// +kubebuilder:object:root=true

// EnvironmentList contains a list of Environment
type EnvironmentList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Environment `json:"items"`
}

func init() {
	SchemeBuilder.Register(&Environment{}, &EnvironmentList{})
}
