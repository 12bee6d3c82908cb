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

// Package project mirrors the platform's project records into Project
// custom resources so the cluster-side reconciler always works from a
// current definition.
package project

import (
	"context"
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	catalystv1alpha1 "github.com/catalyst-dev/catalyst/api/v1alpha1"
	"github.com/catalyst-dev/catalyst/internal/names"
	"github.com/catalyst-dev/catalyst/internal/store"
)

// defaultInstallation is used when a project has no GitHub App
// installation configured.
const defaultInstallation = "pat"

// Syncer upserts Project custom resources into team namespaces.
type Syncer struct {
	client client.Client
}

// NewSyncer creates a Syncer backed by the given cluster client.
func NewSyncer(c client.Client) *Syncer {
	return &Syncer{client: c}
}

// Sync writes the Project resource for the given project record into the
// team namespace. The upsert is idempotent: an existing resource is updated
// in place, so repeated syncs converge on the record's current state. The
// resource name is the sanitized project slug.
func (s *Syncer) Sync(ctx context.Context, teamNamespace string, team *store.Team, project *store.Project) error {
	log := logf.FromContext(ctx)

	name := names.SanitizeComponent(project.Slug)
	if name == "" {
		return fmt.Errorf("project slug %q sanitizes to an empty resource name", project.Slug)
	}

	cr := &catalystv1alpha1.Project{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: teamNamespace,
		},
	}

	op, err := controllerutil.CreateOrUpdate(ctx, s.client, cr, func() error {
		if cr.Labels == nil {
			cr.Labels = make(map[string]string)
		}
		cr.Labels[names.LabelTeam] = names.SanitizeComponent(team.Name)
		cr.Labels[names.LabelProject] = names.SanitizeComponent(project.Name)

		installation := project.GitHubInstallationID
		if installation == "" {
			installation = defaultInstallation
		}
		cr.Spec.GitHubInstallationId = installation
		cr.Spec.Sources = sourcesFromRepositories(project.Repositories)

		if project.DefaultQuota != nil {
			cr.Spec.Resources.DefaultQuota = catalystv1alpha1.QuotaSpec{
				CPU:    project.DefaultQuota.CPU,
				Memory: project.DefaultQuota.Memory,
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to sync project %s/%s: %w", teamNamespace, name, err)
	}

	if op != controllerutil.OperationResultNone {
		log.Info("Synced project resource", "namespace", teamNamespace, "name", name, "operation", op)
	}
	return nil
}

// sourcesFromRepositories converts the project's repositories into source
// configs with the primary repository first. Branch falls back to "main"
// when the record does not name one.
func sourcesFromRepositories(repos []store.Repository) []catalystv1alpha1.SourceConfig {
	sources := make([]catalystv1alpha1.SourceConfig, 0, len(repos))
	for _, repo := range repos {
		if repo.Primary {
			sources = append(sources, sourceFromRepository(repo))
		}
	}
	for _, repo := range repos {
		if !repo.Primary {
			sources = append(sources, sourceFromRepository(repo))
		}
	}
	return sources
}

func sourceFromRepository(repo store.Repository) catalystv1alpha1.SourceConfig {
	branch := repo.DefaultBranch
	if branch == "" {
		branch = "main"
	}
	return catalystv1alpha1.SourceConfig{
		Name:          names.SanitizeComponent(repo.Name),
		RepositoryURL: repo.URL,
		Branch:        branch,
	}
}
