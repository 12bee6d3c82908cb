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

package github

import (
	"context"
	"time"
)

// Client is the slice of the GitHub API this service consumes. Every
// consumer holds it as an optional collaborator and must work without one.
type Client interface {
	// GetPullRequest retrieves metadata about a pull request.
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error)

	// BranchHead resolves the head commit SHA of a branch. The repository
	// is addressed by its clone URL, the form the store records.
	BranchHead(ctx context.Context, repoURL, branch string) (string, error)

	// CreatePreviewStatus posts a commit status on a pull request head
	// under the catalyst/preview context.
	CreatePreviewStatus(ctx context.Context, owner, repo, sha, state, description string) error
}

// PullRequest is the subset of pull request metadata the janitor and the
// lifecycle paths read.
type PullRequest struct {
	Number     int
	Title      string
	State      string // open or closed
	Merged     bool
	HeadSHA    string
	HeadBranch string
	BaseBranch string
	Author     string
	UpdatedAt  time.Time
}
