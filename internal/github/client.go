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
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
)

// previewStatusContext names the commit status posted on pull request heads.
const previewStatusContext = "catalyst/preview"

// RetryConfig bounds the retry loop around API calls. Backoff doubles each
// attempt, with jitter, capped at MaxBackoff.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

type apiClient struct {
	gh    *github.Client
	retry *RetryConfig
}

// NewClient creates a Client authenticated with token. An empty token makes
// an unauthenticated client, which GitHub rate limits hard; fine for tests,
// not for production.
func NewClient(token string) Client {
	gh := github.NewClient(nil)
	if token != "" {
		gh = gh.WithAuthToken(token)
	}

	return &apiClient{
		gh: gh,
		retry: &RetryConfig{
			MaxRetries:     3,
			InitialBackoff: 100 * time.Millisecond,
			MaxBackoff:     30 * time.Second,
		},
	}
}

func (c *apiClient) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	var pr *github.PullRequest

	err := c.executeWithRetry(ctx, func() error {
		var err error
		pr, _, err = c.gh.PullRequests.Get(ctx, owner, repo, number)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("getting pull request %s/%s#%d: %w", owner, repo, number, err)
	}

	return convertPullRequest(pr), nil
}

func (c *apiClient) BranchHead(ctx context.Context, repoURL, branch string) (string, error) {
	owner, repo, err := splitRepoURL(repoURL)
	if err != nil {
		return "", err
	}

	var b *github.Branch
	err = c.executeWithRetry(ctx, func() error {
		var err error
		b, _, err = c.gh.Repositories.GetBranch(ctx, owner, repo, branch, 1)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("getting branch %s of %s/%s: %w", branch, owner, repo, err)
	}

	sha := b.GetCommit().GetSHA()
	if sha == "" {
		return "", fmt.Errorf("branch %s of %s/%s has no head commit", branch, owner, repo)
	}
	return sha, nil
}

func (c *apiClient) CreatePreviewStatus(ctx context.Context, owner, repo, sha, state, description string) error {
	status := &github.RepoStatus{
		State:       github.String(state),
		Description: github.String(description),
		Context:     github.String(previewStatusContext),
	}

	err := c.executeWithRetry(ctx, func() error {
		_, _, err := c.gh.Repositories.CreateStatus(ctx, owner, repo, sha, status)
		return err
	})
	if err != nil {
		return fmt.Errorf("creating commit status on %s/%s@%s: %w", owner, repo, sha, err)
	}
	return nil
}

// splitRepoURL extracts owner and repository name from a clone URL, e.g.
// https://github.com/acme/billing-api.git yields (acme, billing-api).
func splitRepoURL(repoURL string) (string, string, error) {
	path := strings.TrimSuffix(repoURL, "/")
	path = strings.TrimSuffix(path, ".git")

	segments := strings.Split(path, "/")
	if len(segments) < 2 {
		return "", "", fmt.Errorf("repository URL %q has no owner/name path", repoURL)
	}
	owner, repo := segments[len(segments)-2], segments[len(segments)-1]
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("repository URL %q has no owner/name path", repoURL)
	}
	return owner, repo, nil
}

// executeWithRetry runs operation, retrying retryable failures with
// exponential backoff until the retry budget or the context runs out.
func (c *apiClient) executeWithRetry(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			return nil
		}
		if !isRetryable(lastErr) {
			return lastErr
		}
		if attempt == c.retry.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoff(attempt)):
		}
	}

	return fmt.Errorf("operation failed after %d retries: %w", c.retry.MaxRetries, lastErr)
}

// isRetryable reports whether err is transient. Server-side failures and
// rate limits are retried; everything else surfaces immediately.
func isRetryable(err error) bool {
	ghErr, ok := err.(*github.ErrorResponse)
	if !ok || ghErr.Response == nil {
		return false
	}

	switch ghErr.Response.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	case http.StatusForbidden:
		// GitHub reports primary rate limiting as 403 with this message.
		return ghErr.Message == "API rate limit exceeded"
	}
	return false
}

// backoff doubles per attempt with ±20% jitter so retrying clients spread
// out, capped at MaxBackoff.
func (c *apiClient) backoff(attempt int) time.Duration {
	base := float64(c.retry.InitialBackoff) * float64(int(1)<<uint(attempt))
	jitter := (rand.Float64() * 0.4) - 0.2
	d := time.Duration(base * (1 + jitter))

	if d > c.retry.MaxBackoff {
		d = c.retry.MaxBackoff
	}
	return d
}

func convertPullRequest(pr *github.PullRequest) *PullRequest {
	if pr == nil {
		return nil
	}

	result := &PullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		State:     pr.GetState(),
		Merged:    pr.GetMerged(),
		UpdatedAt: pr.GetUpdatedAt().Time,
	}
	if pr.Head != nil {
		result.HeadSHA = pr.Head.GetSHA()
		result.HeadBranch = pr.Head.GetRef()
	}
	if pr.Base != nil {
		result.BaseBranch = pr.Base.GetRef()
	}
	if pr.User != nil {
		result.Author = pr.User.GetLogin()
	}
	return result
}
