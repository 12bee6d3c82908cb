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

// Package store defines the read-side contract against the platform's
// project and team records. The lifecycle service never owns this data; it
// resolves it through the Store interface and an implementation is injected
// at startup (see the memory subpackage).
package store

import (
	"context"
	"strings"
)

// Team is the owning group of one or more projects. Its name anchors the
// namespace hierarchy.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Repository is one git repository attached to a project. Exactly one
// repository per project is expected to be flagged Primary; the lifecycle
// orchestrator enforces that before creating anything.
type Repository struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	DefaultBranch string `json:"defaultBranch"`
	Primary       bool   `json:"primary"`
}

// Quota is a project's default resource allowance in Kubernetes quantity
// notation, applied to its namespaces when set.
type Quota struct {
	CPU    string `json:"cpu,omitempty"`
	Memory string `json:"memory,omitempty"`
}

// Project is the unit environments are created under.
type Project struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Slug         string       `json:"slug"`
	TeamID       string       `json:"teamId"`
	Repositories []Repository `json:"repositories"`

	// GitHubInstallationID selects the GitHub credentials synced to the
	// Project resource: a numeric installation id, or empty for "pat".
	GitHubInstallationID string `json:"githubInstallationId,omitempty"`

	// DefaultQuota, when set, is applied to the project namespace.
	DefaultQuota *Quota `json:"defaultQuota,omitempty"`
}

// Store resolves projects and teams. Lookups that find nothing return
// (nil, nil); a non-nil error always means the backend itself failed.
type Store interface {
	// ResolveProject looks a project up by its opaque id.
	ResolveProject(ctx context.Context, id string) (*Project, error)

	// ResolveProjectBySlug looks a project up by its URL slug.
	ResolveProjectBySlug(ctx context.Context, slug string) (*Project, error)

	// ResolveProjectByRepository looks a project up by one of its
	// repositories, given as "owner/name". The webhook path has nothing but
	// the GitHub repository to go on.
	ResolveProjectByRepository(ctx context.Context, fullName string) (*Project, error)

	// ResolveTeam looks a team up by its opaque id.
	ResolveTeam(ctx context.Context, id string) (*Team, error)
}

// MatchesFullName reports whether the repository's URL points at the GitHub
// repository "owner/name". Trailing ".git" and slashes on the URL are
// ignored; the comparison is case-insensitive because GitHub treats
// owner and repository names that way.
func (r Repository) MatchesFullName(fullName string) bool {
	path := strings.TrimSuffix(r.URL, "/")
	path = strings.TrimSuffix(path, ".git")

	segments := strings.Split(path, "/")
	if len(segments) < 2 {
		return false
	}
	got := segments[len(segments)-2] + "/" + segments[len(segments)-1]
	return strings.EqualFold(got, fullName)
}
