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

// Package lifecycle orchestrates environment creation and lookup across the
// project store and the cluster.
//
// Every operation is a single-shot call: resolve the records, derive the
// namespace names, make the cluster converge, report a structured result.
// Failures come back as values (a result with Success=false, or a nil
// lookup), never as panics, and nothing is rolled back on a partial
// failure; each step is idempotent, so retrying the whole operation is the
// recovery path.
package lifecycle

import (
	"context"
	"fmt"

	logf "sigs.k8s.io/controller-runtime/pkg/log"

	catalystv1alpha1 "github.com/catalyst-dev/catalyst/api/v1alpha1"
	"github.com/catalyst-dev/catalyst/internal/cluster"
	"github.com/catalyst-dev/catalyst/internal/cost"
	"github.com/catalyst-dev/catalyst/internal/environment"
	"github.com/catalyst-dev/catalyst/internal/names"
	"github.com/catalyst-dev/catalyst/internal/namespace"
	"github.com/catalyst-dev/catalyst/internal/observability"
	"github.com/catalyst-dev/catalyst/internal/project"
	"github.com/catalyst-dev/catalyst/internal/store"
)

// Names for deployment environments. DeploymentSubType selects one;
// production is the default.
const (
	SubTypeProduction = "production"
	SubTypeStaging    = "staging"
)

// devPrefix marks development environments, whose names are generated.
const devPrefix = "dev-"

// CommitResolver resolves the head commit of a branch. Implementations are
// best-effort; the orchestrator tolerates failures and creates environments
// without a pinned commit.
type CommitResolver interface {
	BranchHead(ctx context.Context, repoURL, branch string) (string, error)
}

// Service wires the project store and one cluster into the environment
// lifecycle operations. Commits, Estimator and Metrics are optional:
// without a CommitResolver environments are created unpinned, without an
// Estimator detail lookups skip the cost estimate, and without Metrics
// nothing is counted. The zero Names config uses the generator defaults.
type Service struct {
	Store     store.Store
	Cluster   *cluster.Handle
	Commits   CommitResolver
	Estimator *cost.Estimator
	Metrics   *observability.Metrics
	Names     names.Config

	namespaces   *namespace.Manager
	environments *environment.Client
	projects     *project.Syncer
}

// NewService creates a Service operating on the given store and cluster.
func NewService(st store.Store, handle *cluster.Handle) *Service {
	return &Service{
		Store:        st,
		Cluster:      handle,
		namespaces:   namespace.NewManager(handle.Client),
		environments: environment.NewClient(handle.Client),
		projects:     project.NewSyncer(handle.Client),
	}
}

// CreateEnvironmentRequest describes a requested environment.
type CreateEnvironmentRequest struct {
	// ProjectID is the store id of the owning project.
	ProjectID string `json:"projectId"`

	// Type is "development" or "deployment".
	Type string `json:"type"`

	// DeploymentSubType picks the deployment environment name, production
	// or staging. Ignored for development environments.
	DeploymentSubType string `json:"deploymentSubType,omitempty"`

	// Branch overrides the primary repository's default branch.
	Branch string `json:"branch,omitempty"`

	// EnvVars are injected into the environment's workloads.
	EnvVars []catalystv1alpha1.EnvVar `json:"envVars,omitempty"`
}

// EnvironmentResult reports the outcome of a create request. Failures are
// carried in the result, not raised: Success is false and Message holds the
// human-readable cause.
type EnvironmentResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	Namespace     string `json:"namespace,omitempty"`
	Name          string `json:"name,omitempty"`
	AlreadyExists bool   `json:"alreadyExists,omitempty"`
}

// CreateEnvironment runs the full creation flow: resolve the project and
// team, validate the repository setup, sync the Project resource, derive
// the environment name, ensure the namespaces and create the Environment
// resource. Steps already completed are left in place when a later step
// fails; repeating the call converges because every step is idempotent.
func (s *Service) CreateEnvironment(ctx context.Context, req CreateEnvironmentRequest) EnvironmentResult {
	log := logf.FromContext(ctx)

	prj, err := s.Store.ResolveProject(ctx, req.ProjectID)
	if err != nil {
		return failure("Failed to resolve project: %v", err)
	}
	if prj == nil {
		return failure("Project not found")
	}

	team, err := s.Store.ResolveTeam(ctx, prj.TeamID)
	if err != nil {
		return failure("Failed to resolve team: %v", err)
	}
	if team == nil {
		return failure("Team not found for project")
	}

	if names.SanitizeComponent(team.Name) == "" {
		return failure("Team name %q cannot form a namespace", team.Name)
	}
	if names.SanitizeComponent(prj.Name) == "" {
		return failure("Project name %q cannot form a namespace", prj.Name)
	}

	primary, repoFailure := primaryRepository(prj.Repositories)
	if repoFailure != "" {
		return EnvironmentResult{Message: repoFailure}
	}

	teamNamespace := names.TeamNamespace(team.Name)
	projectNamespace := names.ProjectNamespace(team.Name, prj.Name)

	// The Project resource lives in the team namespace; that namespace has
	// to exist before the sync. The reconciler must never see an
	// Environment whose owning Project is missing, which is why a sync
	// failure aborts the whole flow.
	teamLabels := map[string]string{
		names.LabelTeam:          names.SanitizeComponent(team.Name),
		names.LabelNamespaceType: names.NamespaceTypeTeam,
	}
	if _, err := s.namespaces.Ensure(ctx, teamNamespace, teamLabels, nil); err != nil {
		return failure("Failed to ensure team namespace: %v", err)
	}

	if err := s.projects.Sync(ctx, teamNamespace, team, prj); err != nil {
		return failure("Failed to sync Project to K8s: %v", err)
	}

	var envName string
	switch req.Type {
	case catalystv1alpha1.EnvironmentTypeDevelopment:
		exists := func(ctx context.Context, candidate string) (bool, error) {
			env, err := s.environments.Get(ctx, projectNamespace, devPrefix+candidate)
			return env != nil, err
		}
		unique, err := names.GenerateUnique(ctx, exists, s.Names)
		if err != nil {
			return failure("Failed to generate environment name: %v", err)
		}
		if unique.Fallback && s.Metrics != nil {
			s.Metrics.NameFallbacks.Inc()
		}
		envName = devPrefix + unique.Name
	case catalystv1alpha1.EnvironmentTypeDeployment:
		subType := req.DeploymentSubType
		if subType == "" {
			subType = SubTypeProduction
		}
		if subType != SubTypeProduction && subType != SubTypeStaging {
			return failure("Unknown deployment type %q", subType)
		}
		envName = subType
	default:
		return failure("Unknown environment type %q", req.Type)
	}

	projectLabels := map[string]string{
		names.LabelTeam:          names.SanitizeComponent(team.Name),
		names.LabelProject:       names.SanitizeComponent(prj.Name),
		names.LabelNamespaceType: names.NamespaceTypeProject,
	}
	if _, err := s.namespaces.Ensure(ctx, projectNamespace, projectLabels, nil); err != nil {
		return failure("Failed to ensure project namespace: %v", err)
	}

	if prj.DefaultQuota != nil {
		quota := namespace.Quota{CPU: prj.DefaultQuota.CPU, Memory: prj.DefaultQuota.Memory}
		if err := s.namespaces.EnsureQuota(ctx, projectNamespace, quota); err != nil {
			return failure("Failed to apply namespace quota: %v", err)
		}
	}

	branch := req.Branch
	if branch == "" {
		branch = primary.DefaultBranch
	}
	if branch == "" {
		branch = "main"
	}

	var commitSha string
	if s.Commits != nil {
		commitSha, err = s.Commits.BranchHead(ctx, primary.URL, branch)
		if err != nil {
			// The reconciler can still build from the branch tip.
			log.Error(err, "Failed to resolve branch head, creating environment without a pinned commit",
				"repository", primary.URL, "branch", branch)
			commitSha = ""
		}
	}

	spec := catalystv1alpha1.EnvironmentSpec{
		ProjectRef:     catalystv1alpha1.ProjectReference{Name: names.SanitizeComponent(prj.Slug)},
		Type:           req.Type,
		DeploymentMode: deploymentModeFor(req.Type),
		Sources: []catalystv1alpha1.EnvironmentSource{
			{
				Name:      names.SanitizeComponent(primary.Name),
				Branch:    branch,
				CommitSha: commitSha,
			},
		},
		Config: catalystv1alpha1.EnvironmentConfig{EnvVars: req.EnvVars},
	}

	created, err := s.environments.Create(ctx, projectNamespace, envName, spec, names.HierarchyLabels(team.Name, prj.Name, envName))
	if err != nil {
		return failure("Failed to create Environment: %v", err)
	}
	if created == environment.Created && s.Metrics != nil {
		s.Metrics.EnvironmentsCreated.WithLabelValues(req.Type).Inc()
	}

	log.Info("Environment create processed",
		"namespace", projectNamespace, "name", envName, "result", created)

	message := fmt.Sprintf("Environment %s created", envName)
	if created == environment.AlreadyExists {
		message = fmt.Sprintf("Environment %s already exists", envName)
	}

	return EnvironmentResult{
		Success:       true,
		Message:       message,
		Namespace:     projectNamespace,
		Name:          envName,
		AlreadyExists: created == environment.AlreadyExists,
	}
}

// primaryRepository picks the single primary repository from the project's
// repositories. A non-empty message reports why there is none; the three
// cases read differently on purpose so users know what to fix.
func primaryRepository(repos []store.Repository) (*store.Repository, string) {
	if len(repos) == 0 {
		return nil, "Project has no repositories configured"
	}

	var primary *store.Repository
	for i := range repos {
		if !repos[i].Primary {
			continue
		}
		if primary != nil {
			return nil, "Project has multiple primary repositories"
		}
		primary = &repos[i]
	}
	if primary == nil {
		return nil, "Project has no primary repository"
	}
	return primary, ""
}

// deploymentModeFor maps the environment type to the reconciler's
// deployment mode: development environments are built for hot reload,
// everything else deploys static manifests.
func deploymentModeFor(envType string) string {
	if envType == catalystv1alpha1.EnvironmentTypeDevelopment {
		return "development"
	}
	return "production"
}

func failure(format string, args ...interface{}) EnvironmentResult {
	return EnvironmentResult{Message: fmt.Sprintf(format, args...)}
}
