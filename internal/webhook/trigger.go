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

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/catalyst-dev/catalyst/internal/lifecycle"
	"github.com/catalyst-dev/catalyst/internal/names"
	"github.com/catalyst-dev/catalyst/internal/namespace"
	"github.com/catalyst-dev/catalyst/internal/observability"
)

// Label keys stamped on preview namespaces. This is the webhook path's own
// convention; the catalyst.dev/ hierarchy keys used by the lifecycle service
// are deliberately not reused here, because existing tooling selects preview
// namespaces by these exact keys.
const (
	LabelPreviewTeam        = "catalyst/team"
	LabelPreviewProject     = "catalyst/project"
	LabelPreviewEnvironment = "catalyst/environment"
)

// Annotation keys recording which pull request a preview namespace belongs
// to. The janitor reads them back when sweeping namespaces whose pull
// request has closed.
const (
	AnnotationRepository = "catalyst/repository"
	AnnotationPRNumber   = "catalyst/pr-number"
)

// Pull request actions with cluster side effects. Every other action is
// acknowledged without touching the cluster.
const (
	actionOpened = "opened"
	actionClosed = "closed"
)

// StatusReporter posts a commit status on a pull request head. Wired to the
// GitHub API client when status reporting is enabled.
type StatusReporter interface {
	CreatePreviewStatus(ctx context.Context, owner, repo, sha, state, description string) error
}

// PreviewCreator creates an Environment resource for an opened pull request
// whose repository belongs to a known project.
type PreviewCreator interface {
	CreatePreviewEnvironment(ctx context.Context, req lifecycle.PreviewRequest) (bool, error)
}

// Trigger turns pull-request webhook actions into preview namespace
// operations: opened creates the namespace, closed deletes it, anything
// else is a no-op. Status, Environments and Metrics are optional; without
// them the namespace contract is all that runs.
type Trigger struct {
	Status       StatusReporter
	Environments PreviewCreator
	Metrics      *observability.Metrics

	namespaces *namespace.Manager
}

// NewTrigger creates a Trigger managing namespaces through c.
func NewTrigger(c client.Client) *Trigger {
	return &Trigger{namespaces: namespace.NewManager(c)}
}

// PreviewNamespace derives the namespace for a pull request. The convention
// is deliberately simpler than the team/project/environment hierarchy:
// (owner, repo, number) is already compact, so the name is normally the
// plain sanitized join. Joins that still overflow the 63-character limit
// degrade through the same hash truncation the hierarchy path uses.
func PreviewNamespace(owner, repo string, prNumber int) string {
	return names.GenerateNamespaceWithHash(owner, repo, fmt.Sprintf("gh-pr-%d", prNumber))
}

// HandlePullRequest runs the action's lifecycle effect and reports it.
// Failures come back inside the Result, never as a panic or a bare error;
// the HTTP layer translates Success into a status code.
func (t *Trigger) HandlePullRequest(ctx context.Context, event *PullRequestEvent) Result {
	switch strings.ToLower(event.Action) {
	case actionOpened:
		result := t.prOpened(ctx, event)
		t.countEvent(actionOpened, result.Success)
		return result
	case actionClosed:
		result := t.prClosed(ctx, event)
		t.countEvent(actionClosed, result.Success)
		return result
	default:
		if t.Metrics != nil {
			t.Metrics.WebhookEvents.WithLabelValues(event.Action, observability.OutcomeIgnored).Inc()
		}
		return Result{
			Success:  true,
			PRNumber: event.Number,
			Message:  fmt.Sprintf("Pull request %s processed", event.Action),
		}
	}
}

func (t *Trigger) prOpened(ctx context.Context, event *PullRequestEvent) Result {
	log := logf.FromContext(ctx)

	owner := event.Repository.Owner.Login
	repo := event.Repository.Name
	if owner == "" || repo == "" {
		return Result{PRNumber: event.Number, Message: "Webhook payload has no repository owner or name"}
	}
	fullName := owner + "/" + repo

	name := PreviewNamespace(owner, repo, event.Number)
	labels := map[string]string{
		LabelPreviewTeam:        names.SanitizeLabelValue(owner),
		LabelPreviewProject:     names.SanitizeLabelValue(repo),
		LabelPreviewEnvironment: fmt.Sprintf("gh-pr-%d", event.Number),
	}
	annotations := map[string]string{
		AnnotationRepository: fullName,
		AnnotationPRNumber:   strconv.Itoa(event.Number),
	}

	created, err := t.namespaces.Ensure(ctx, name, labels, annotations)
	if err != nil {
		t.countNamespaceOp("create", observability.OutcomeError)
		return Result{PRNumber: event.Number, Message: fmt.Sprintf("Failed to create namespace: %v", err)}
	}
	t.countNamespaceOp("create", observability.OutcomeSuccess)
	if !created {
		log.Info("Preview namespace already exists", "namespace", name, "pr", event.Number)
	}

	if t.Environments != nil {
		made, err := t.Environments.CreatePreviewEnvironment(ctx, lifecycle.PreviewRequest{
			Repository: fullName,
			PRNumber:   event.Number,
			Branch:     event.PullRequest.Head.Ref,
			CommitSha:  event.PullRequest.Head.SHA,
		})
		if err != nil {
			// The namespace contract stands on its own; losing the
			// environment cannot fail the delivery.
			log.Error(err, "Failed to create preview environment",
				"repository", fullName, "pr", event.Number)
		} else if made {
			log.Info("Preview environment created", "repository", fullName, "pr", event.Number)
		}
	}

	t.report(ctx, event, "success", fmt.Sprintf("Preview namespace %s is ready", name))

	return Result{
		Success:   true,
		PRNumber:  event.Number,
		Message:   "Pull request opened processed and namespace created",
		Namespace: &NamespaceInfo{Name: name, Labels: labels},
	}
}

func (t *Trigger) prClosed(ctx context.Context, event *PullRequestEvent) Result {
	owner := event.Repository.Owner.Login
	repo := event.Repository.Name
	if owner == "" || repo == "" {
		return Result{PRNumber: event.Number, Message: "Webhook payload has no repository owner or name"}
	}

	name := PreviewNamespace(owner, repo, event.Number)
	deleted, err := t.namespaces.Delete(ctx, name)
	if err != nil {
		t.countNamespaceOp("delete", observability.OutcomeError)
		return Result{PRNumber: event.Number, Message: fmt.Sprintf("Failed to delete namespace: %v", err)}
	}
	t.countNamespaceOp("delete", observability.OutcomeSuccess)
	if !deleted {
		logf.FromContext(ctx).Info("Preview namespace already gone", "namespace", name, "pr", event.Number)
	}

	return Result{
		Success:          true,
		PRNumber:         event.Number,
		Message:          "Pull request closed processed and namespace deleted",
		NamespaceDeleted: &deleted,
	}
}

// report posts a commit status, best effort. Status reporting is a GitHub
// side effect only; it never changes the Result.
func (t *Trigger) report(ctx context.Context, event *PullRequestEvent, state, description string) {
	if t.Status == nil || event.PullRequest.Head.SHA == "" {
		return
	}

	owner := event.Repository.Owner.Login
	repo := event.Repository.Name
	if err := t.Status.CreatePreviewStatus(ctx, owner, repo, event.PullRequest.Head.SHA, state, description); err != nil {
		logf.FromContext(ctx).Error(err, "Failed to report commit status",
			"repository", owner+"/"+repo, "sha", event.PullRequest.Head.SHA)
	}
}

func (t *Trigger) countEvent(action string, success bool) {
	if t.Metrics == nil {
		return
	}
	outcome := observability.OutcomeSuccess
	if !success {
		outcome = observability.OutcomeError
	}
	t.Metrics.WebhookEvents.WithLabelValues(action, outcome).Inc()
}

func (t *Trigger) countNamespaceOp(op, outcome string) {
	if t.Metrics != nil {
		t.Metrics.NamespaceOps.WithLabelValues(op, outcome).Inc()
	}
}
