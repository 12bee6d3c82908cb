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

package janitor

import (
	"context"
	"strconv"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/catalyst-dev/catalyst/internal/github"
	"github.com/catalyst-dev/catalyst/internal/webhook"
)

// PullRequestChecker is the GitHub surface the sweeper needs: the state of
// one pull request.
type PullRequestChecker interface {
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error)
}

// Sweeper periodically deletes preview namespaces whose pull request has
// closed. The webhook path already deletes on the closed event; the sweeper
// exists because webhook deliveries can be lost.
type Sweeper struct {
	client   client.Client
	github   PullRequestChecker
	interval time.Duration
}

// NewSweeper creates a Sweeper checking every interval.
func NewSweeper(c client.Client, gh PullRequestChecker, interval time.Duration) *Sweeper {
	return &Sweeper{client: c, github: gh, interval: interval}
}

// Start runs sweep passes until ctx is canceled. A failed pass is logged
// and retried on the next tick.
func (s *Sweeper) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log := logf.FromContext(ctx)
	log.Info("Starting preview namespace janitor", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.sweep(ctx); err != nil {
				log.Error(err, "Sweep pass failed")
			}
		}
	}
}

// sweep inspects every namespace carrying the preview convention labels and
// deletes the ones whose pull request has closed. Namespaces the sweeper
// cannot judge are left alone: deleting on a flaky token or a missing
// annotation would be worse than keeping a namespace a little longer.
func (s *Sweeper) sweep(ctx context.Context) error {
	log := logf.FromContext(ctx)

	var namespaces corev1.NamespaceList
	if err := s.client.List(ctx, &namespaces, client.HasLabels{webhook.LabelPreviewEnvironment}); err != nil {
		return err
	}

	for i := range namespaces.Items {
		ns := &namespaces.Items[i]
		if ns.DeletionTimestamp != nil {
			continue
		}

		repository := ns.Annotations[webhook.AnnotationRepository]
		prValue := ns.Annotations[webhook.AnnotationPRNumber]
		if repository == "" || prValue == "" {
			log.V(1).Info("Preview namespace has no pull request annotations, skipping", "namespace", ns.Name)
			continue
		}

		owner, repo, ok := strings.Cut(repository, "/")
		number, err := strconv.Atoi(prValue)
		if !ok || owner == "" || repo == "" || err != nil {
			log.Info("Preview namespace has malformed pull request annotations, skipping",
				"namespace", ns.Name, "repository", repository, "pr", prValue)
			continue
		}

		pr, err := s.github.GetPullRequest(ctx, owner, repo, number)
		if err != nil {
			log.Error(err, "Failed to look up pull request, skipping namespace",
				"namespace", ns.Name, "repository", repository, "pr", number)
			continue
		}
		if pr.State != "closed" {
			continue
		}

		log.Info("Deleting preview namespace for closed pull request",
			"namespace", ns.Name, "repository", repository, "pr", number)
		if err := s.client.Delete(ctx, ns); err != nil && !apierrors.IsNotFound(err) {
			log.Error(err, "Failed to delete namespace", "namespace", ns.Name)
		}
	}

	return nil
}
