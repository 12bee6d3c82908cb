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

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	catalystv1alpha1 "github.com/catalyst-dev/catalyst/api/v1alpha1"
	"github.com/catalyst-dev/catalyst/internal/cost"
	"github.com/catalyst-dev/catalyst/internal/names"
	"github.com/catalyst-dev/catalyst/internal/store"
)

// EnvironmentDetail is the read model for one environment.
type EnvironmentDetail struct {
	Environment catalystv1alpha1.Environment `json:"environment"`
	Namespace   string                       `json:"namespace"`
	Cost        *cost.Estimate               `json:"cost,omitempty"`
}

// GetEnvironmentDetail fetches one environment by project slug and name.
// The project namespace is recomputed from the team and project names on
// every call instead of being stored anywhere, so lookups can never drift
// from the namespace used at creation. Returns (nil, nil) when the project
// or the environment does not exist.
func (s *Service) GetEnvironmentDetail(ctx context.Context, projectSlug, envName string) (*EnvironmentDetail, error) {
	prj, team, err := s.resolveBySlug(ctx, projectSlug)
	if err != nil || prj == nil {
		return nil, err
	}

	projectNamespace := names.ProjectNamespace(team.Name, prj.Name)
	env, err := s.environments.Get(ctx, projectNamespace, envName)
	if err != nil {
		return nil, err
	}
	if env == nil {
		return nil, nil
	}

	detail := &EnvironmentDetail{
		Environment: *env,
		Namespace:   projectNamespace,
	}
	if s.Estimator != nil {
		detail.Cost = s.estimateCost(ctx, team.Name, prj.Name, envName)
	}
	return detail, nil
}

// estimateCost prices the pods in the environment's workload namespace. A
// failed listing only costs us the estimate, never the lookup.
func (s *Service) estimateCost(ctx context.Context, teamName, projectName, envName string) *cost.Estimate {
	envNamespace := names.EnvironmentNamespace(teamName, projectName, envName)

	var pods corev1.PodList
	if err := s.Cluster.Client.List(ctx, &pods, client.InNamespace(envNamespace)); err != nil {
		logf.FromContext(ctx).Error(err, "Failed to list pods for cost estimate", "namespace", envNamespace)
		return nil
	}
	return s.Estimator.EstimatePods(pods.Items)
}

// ListProjectEnvironments returns the environments recorded for the
// project, filtered by projectRef since namespaces can be shared. An
// unknown slug yields an empty result.
func (s *Service) ListProjectEnvironments(ctx context.Context, projectSlug string) ([]catalystv1alpha1.Environment, error) {
	prj, team, err := s.resolveBySlug(ctx, projectSlug)
	if err != nil {
		return nil, err
	}
	if prj == nil {
		return nil, nil
	}

	projectNamespace := names.ProjectNamespace(team.Name, prj.Name)
	return s.environments.ListForProject(ctx, projectNamespace, names.SanitizeComponent(prj.Slug))
}

// resolveBySlug resolves a project and its owning team. A missing project
// is a normal negative result; a missing team for an existing project means
// the store is inconsistent and is reported as an error.
func (s *Service) resolveBySlug(ctx context.Context, slug string) (*store.Project, *store.Team, error) {
	prj, err := s.Store.ResolveProjectBySlug(ctx, slug)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving project %q: %w", slug, err)
	}
	if prj == nil {
		return nil, nil, nil
	}

	team, err := s.Store.ResolveTeam(ctx, prj.TeamID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving team for project %q: %w", slug, err)
	}
	if team == nil {
		return nil, nil, fmt.Errorf("team %s not found for project %q", prj.TeamID, slug)
	}
	return prj, team, nil
}
