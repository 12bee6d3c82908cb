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

package lifecycle

import (
	"context"
	"fmt"

	logf "sigs.k8s.io/controller-runtime/pkg/log"

	catalystv1alpha1 "github.com/catalyst-dev/catalyst/api/v1alpha1"
	"github.com/catalyst-dev/catalyst/internal/environment"
	"github.com/catalyst-dev/catalyst/internal/names"
	"github.com/catalyst-dev/catalyst/internal/namespace"
	"github.com/catalyst-dev/catalyst/internal/store"
)

// PreviewRequest describes the pull request a preview environment is
// created for.
type PreviewRequest struct {
	// Repository is the GitHub repository as "owner/name".
	Repository string

	// PRNumber is the pull request number; it names the environment.
	PRNumber int

	// Branch is the pull request's head branch.
	Branch string

	// CommitSha is the head commit, may be empty.
	CommitSha string
}

// CreatePreviewEnvironment creates an Environment resource for an opened
// pull request when its repository belongs to a known project. It reports
// whether an environment was created: a repository no project claims is
// (false, nil), not an error, because most repositories that send webhooks
// are not onboarded. A pull request reopened after a close converges the
// same way an environment create retry does.
func (s *Service) CreatePreviewEnvironment(ctx context.Context, req PreviewRequest) (bool, error) {
	log := logf.FromContext(ctx)

	prj, err := s.Store.ResolveProjectByRepository(ctx, req.Repository)
	if err != nil {
		return false, fmt.Errorf("resolving project for repository %s: %w", req.Repository, err)
	}
	if prj == nil {
		return false, nil
	}

	team, err := s.Store.ResolveTeam(ctx, prj.TeamID)
	if err != nil {
		return false, fmt.Errorf("resolving team %s: %w", prj.TeamID, err)
	}
	if team == nil {
		return false, fmt.Errorf("team %s not found for project %q", prj.TeamID, prj.Name)
	}
	if names.SanitizeComponent(team.Name) == "" || names.SanitizeComponent(prj.Name) == "" {
		return false, fmt.Errorf("team %q / project %q cannot form a namespace", team.Name, prj.Name)
	}

	teamNamespace := names.TeamNamespace(team.Name)
	projectNamespace := names.ProjectNamespace(team.Name, prj.Name)

	teamLabels := map[string]string{
		names.LabelTeam:          names.SanitizeComponent(team.Name),
		names.LabelNamespaceType: names.NamespaceTypeTeam,
	}
	if _, err := s.namespaces.Ensure(ctx, teamNamespace, teamLabels, nil); err != nil {
		return false, fmt.Errorf("ensuring team namespace: %w", err)
	}

	if err := s.projects.Sync(ctx, teamNamespace, team, prj); err != nil {
		return false, fmt.Errorf("syncing project: %w", err)
	}

	projectLabels := map[string]string{
		names.LabelTeam:          names.SanitizeComponent(team.Name),
		names.LabelProject:       names.SanitizeComponent(prj.Name),
		names.LabelNamespaceType: names.NamespaceTypeProject,
	}
	if _, err := s.namespaces.Ensure(ctx, projectNamespace, projectLabels, nil); err != nil {
		return false, fmt.Errorf("ensuring project namespace: %w", err)
	}
	if prj.DefaultQuota != nil {
		quota := namespace.Quota{CPU: prj.DefaultQuota.CPU, Memory: prj.DefaultQuota.Memory}
		if err := s.namespaces.EnsureQuota(ctx, projectNamespace, quota); err != nil {
			return false, fmt.Errorf("applying namespace quota: %w", err)
		}
	}

	repo := repositoryByFullName(prj.Repositories, req.Repository)
	branch := req.Branch
	if branch == "" && repo != nil {
		branch = repo.DefaultBranch
	}
	if branch == "" {
		branch = "main"
	}

	sourceName := names.SanitizeComponent(prj.Slug)
	if repo != nil {
		sourceName = names.SanitizeComponent(repo.Name)
	}

	envName := fmt.Sprintf("gh-pr-%d", req.PRNumber)
	spec := catalystv1alpha1.EnvironmentSpec{
		ProjectRef:     catalystv1alpha1.ProjectReference{Name: names.SanitizeComponent(prj.Slug)},
		Type:           catalystv1alpha1.EnvironmentTypeDevelopment,
		DeploymentMode: deploymentModeFor(catalystv1alpha1.EnvironmentTypeDevelopment),
		Sources: []catalystv1alpha1.EnvironmentSource{
			{
				Name:      sourceName,
				Branch:    branch,
				CommitSha: req.CommitSha,
				PrNumber:  req.PRNumber,
			},
		},
	}

	created, err := s.environments.Create(ctx, projectNamespace, envName, spec, names.HierarchyLabels(team.Name, prj.Name, envName))
	if err != nil {
		return false, fmt.Errorf("creating preview environment: %w", err)
	}
	if created == environment.Created && s.Metrics != nil {
		s.Metrics.EnvironmentsCreated.WithLabelValues(catalystv1alpha1.EnvironmentTypeDevelopment).Inc()
	}

	log.Info("Preview environment processed",
		"namespace", projectNamespace, "name", envName, "repository", req.Repository, "result", created)
	return true, nil
}

// repositoryByFullName finds the project repository the webhook event names.
func repositoryByFullName(repos []store.Repository, fullName string) *store.Repository {
	for i := range repos {
		if repos[i].MatchesFullName(fullName) {
			return &repos[i]
		}
	}
	return nil
}
