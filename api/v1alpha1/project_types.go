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

// ProjectSpec defines the desired state of Project
type ProjectSpec struct {
	// GitHubInstallationId selects the GitHub credentials used for this
	// project: either a numeric GitHub App installation id as a string, or
	// "pat" for a personal access token.
	// +optional
	GitHubInstallationId string `json:"githubInstallationId,omitempty"`

	// Sources lists the repositories backing this project
	// +kubebuilder:validation:MinItems=1
	Sources []SourceConfig `json:"sources"`

	// Resources configuration (quotas, limits)
	// +optional
	Resources ResourceConfig `json:"resources,omitempty"`
}

// SourceConfig declares one repository backing a project.
type SourceConfig struct {
	// Name identifies this source component (e.g. "frontend", "backend")
	Name string `json:"name"`

	// RepositoryURL is the git repository URL
	RepositoryURL string `json:"repositoryUrl"`

	// Branch is the default branch to build from
	Branch string `json:"branch"`
}

// ResourceConfig carries quota configuration for the project's environments.
type ResourceConfig struct {
	// DefaultQuota applied to environments that do not override it
	// +optional
	DefaultQuota QuotaSpec `json:"defaultQuota,omitempty"`
}

// QuotaSpec is a CPU/memory pair in Kubernetes quantity notation.
type QuotaSpec struct {
	// CPU limit (e.g. "1")
	// +optional
	CPU string `json:"cpu,omitempty"`

	// Memory limit (e.g. "2Gi")
	// +optional
	Memory string `json:"memory,omitempty"`
}

// ProjectStatus defines the observed state of Project.
type ProjectStatus struct {
	// conditions represent the current state of the Project resource.
	// +listType=map
	// +listMapKey=type
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Installation",type="string",JSONPath=".spec.githubInstallationId",description="GitHub Installation"
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp",description="Creation Time"

// Project is the Schema for the projects API
type Project struct {
	metav1.TypeMeta `json:",inline"`

	// metadata is a standard object metadata
	// +optional
	metav1.ObjectMeta `json:"metadata,omitempty,omitzero"`

	// spec defines the desired state of Project
	// +required
	Spec ProjectSpec `json:"spec"`

	// status defines the observed state of Project
	// +optional
	Status ProjectStatus `json:"status,omitempty,omitzero"`
}

// +kubebuilder:object:root=true

// ProjectList contains a list of Project
type ProjectList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Project `json:"items"`
}

func init() {
	SchemeBuilder.Register(&Project{}, &ProjectList{})
}
