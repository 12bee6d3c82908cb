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

// PullRequestEvent is the slice of a GitHub pull_request delivery the
// trigger consumes
type PullRequestEvent struct {
	PullRequest PullRequest `json:"pull_request"`
	Repository  Repository  `json:"repository"`
	Action      string      `json:"action"`
	Number      int         `json:"number"`
}

// PullRequest carries the head and base of the pull request
type PullRequest struct {
	Head  Ref    `json:"head"`
	Base  Ref    `json:"base"`
	Title string `json:"title"`
	State string `json:"state"`
}

// Ref is one side of a pull request, a branch name plus its commit
type Ref struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// Repository identifies where the pull request lives
type Repository struct {
	FullName string `json:"full_name"`
	Name     string `json:"name"`
	Owner    Owner  `json:"owner"`
}

// Owner is the account the repository belongs to
type Owner struct {
	Login string `json:"login"`
}

// Result is the response body for a processed pull_request delivery.
// Namespace is set only for opened pull requests and NamespaceDeleted only
// for closed ones; every other action gets neither.
type Result struct {
	Success          bool           `json:"success"`
	PRNumber         int            `json:"pr_number"`
	Message          string         `json:"message"`
	Namespace        *NamespaceInfo `json:"namespace,omitempty"`
	NamespaceDeleted *bool          `json:"namespace_deleted,omitempty"`
}

// NamespaceInfo reports the preview namespace a pull request got.
type NamespaceInfo struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels"`
}
