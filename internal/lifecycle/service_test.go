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
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	"sigs.k8s.io/controller-runtime/pkg/client"

	catalystv1alpha1 "github.com/catalyst-dev/catalyst/api/v1alpha1"
	"github.com/catalyst-dev/catalyst/internal/cost"
	"github.com/catalyst-dev/catalyst/internal/observability"
	"github.com/catalyst-dev/catalyst/internal/store"
	"github.com/catalyst-dev/catalyst/internal/store/memory"
)

// fakeCommits resolves every branch to a fixed SHA, or fails.
type fakeCommits struct {
	sha  string
	err  error
	seen []string
}

func (f *fakeCommits) BranchHead(_ context.Context, repoURL, branch string) (string, error) {
	f.seen = append(f.seen, repoURL+"@"+branch)
	return f.sha, f.err
}

var _ = Describe("CreateEnvironment", func() {
	var (
		st  *memory.Store
		svc *Service
	)

	BeforeEach(func() {
		st = seedStore()
		svc = NewService(st, newTestHandle())
	})

	Context("for a development environment", func() {
		It("creates the full hierarchy and a generated environment", func() {
			result := svc.CreateEnvironment(ctx, CreateEnvironmentRequest{
				ProjectID: "prj_1",
				Type:      catalystv1alpha1.EnvironmentTypeDevelopment,
			})

			Expect(result.Success).To(BeTrue(), result.Message)
			Expect(result.Namespace).To(Equal("platform-team-billing-portal"))
			Expect(result.Name).To(MatchRegexp(`^dev-[a-z]+-[a-z]+-\d{2}$`))
			Expect(result.AlreadyExists).To(BeFalse())

			By("labelling the team namespace")
			teamNs, err := getNamespace(svc.Cluster.Client, "platform-team")
			Expect(err).NotTo(HaveOccurred())
			Expect(teamNs.Labels).To(HaveKeyWithValue("catalyst.dev/team", "platform-team"))
			Expect(teamNs.Labels).To(HaveKeyWithValue("catalyst.dev/namespace-type", "team"))

			By("labelling the project namespace")
			projectNs, err := getNamespace(svc.Cluster.Client, "platform-team-billing-portal")
			Expect(err).NotTo(HaveOccurred())
			Expect(projectNs.Labels).To(HaveKeyWithValue("catalyst.dev/project", "billing-portal"))
			Expect(projectNs.Labels).To(HaveKeyWithValue("catalyst.dev/namespace-type", "project"))

			By("syncing the Project resource into the team namespace")
			var prj catalystv1alpha1.Project
			key := client.ObjectKey{Namespace: "platform-team", Name: "billing-portal"}
			Expect(svc.Cluster.Client.Get(ctx, key, &prj)).To(Succeed())
			Expect(prj.Spec.Sources).To(HaveLen(2))
			Expect(prj.Spec.Sources[0].Name).To(Equal("billing-api"))

			By("creating the Environment resource with hierarchy labels")
			var env catalystv1alpha1.Environment
			envKey := client.ObjectKey{Namespace: result.Namespace, Name: result.Name}
			Expect(svc.Cluster.Client.Get(ctx, envKey, &env)).To(Succeed())
			Expect(env.Labels).To(HaveKeyWithValue("catalyst.dev/team", "platform-team"))
			Expect(env.Labels).To(HaveKeyWithValue("catalyst.dev/project", "billing-portal"))
			Expect(env.Labels).To(HaveKeyWithValue("catalyst.dev/environment", result.Name))
			Expect(env.Spec.Type).To(Equal(catalystv1alpha1.EnvironmentTypeDevelopment))
			Expect(env.Spec.DeploymentMode).To(Equal("development"))
			Expect(env.Spec.ProjectRef.Name).To(Equal("billing-portal"))
			Expect(env.Spec.Sources).To(HaveLen(1))
			Expect(env.Spec.Sources[0].Name).To(Equal("billing-api"))
			Expect(env.Spec.Sources[0].Branch).To(Equal("main"))
		})

		It("uses the requested branch over the repository default", func() {
			result := svc.CreateEnvironment(ctx, CreateEnvironmentRequest{
				ProjectID: "prj_1",
				Type:      catalystv1alpha1.EnvironmentTypeDevelopment,
				Branch:    "feature-login",
			})
			Expect(result.Success).To(BeTrue(), result.Message)

			var env catalystv1alpha1.Environment
			envKey := client.ObjectKey{Namespace: result.Namespace, Name: result.Name}
			Expect(svc.Cluster.Client.Get(ctx, envKey, &env)).To(Succeed())
			Expect(env.Spec.Sources[0].Branch).To(Equal("feature-login"))
		})

		It("carries env vars into the spec", func() {
			result := svc.CreateEnvironment(ctx, CreateEnvironmentRequest{
				ProjectID: "prj_1",
				Type:      catalystv1alpha1.EnvironmentTypeDevelopment,
				EnvVars: []catalystv1alpha1.EnvVar{
					{Name: "LOG_LEVEL", Value: "debug"},
				},
			})
			Expect(result.Success).To(BeTrue(), result.Message)

			var env catalystv1alpha1.Environment
			envKey := client.ObjectKey{Namespace: result.Namespace, Name: result.Name}
			Expect(svc.Cluster.Client.Get(ctx, envKey, &env)).To(Succeed())
			Expect(env.Spec.Config.EnvVars).To(ConsistOf(catalystv1alpha1.EnvVar{Name: "LOG_LEVEL", Value: "debug"}))
		})
	})

	Context("for a deployment environment", func() {
		It("defaults to production", func() {
			result := svc.CreateEnvironment(ctx, CreateEnvironmentRequest{
				ProjectID: "prj_1",
				Type:      catalystv1alpha1.EnvironmentTypeDeployment,
			})

			Expect(result.Success).To(BeTrue(), result.Message)
			Expect(result.Name).To(Equal("production"))

			var env catalystv1alpha1.Environment
			envKey := client.ObjectKey{Namespace: result.Namespace, Name: "production"}
			Expect(svc.Cluster.Client.Get(ctx, envKey, &env)).To(Succeed())
			Expect(env.Spec.Type).To(Equal(catalystv1alpha1.EnvironmentTypeDeployment))
			Expect(env.Spec.DeploymentMode).To(Equal("production"))
		})

		It("honours the staging sub-type", func() {
			result := svc.CreateEnvironment(ctx, CreateEnvironmentRequest{
				ProjectID:         "prj_1",
				Type:              catalystv1alpha1.EnvironmentTypeDeployment,
				DeploymentSubType: SubTypeStaging,
			})
			Expect(result.Success).To(BeTrue(), result.Message)
			Expect(result.Name).To(Equal("staging"))
		})

		It("rejects unknown sub-types", func() {
			result := svc.CreateEnvironment(ctx, CreateEnvironmentRequest{
				ProjectID:         "prj_1",
				Type:              catalystv1alpha1.EnvironmentTypeDeployment,
				DeploymentSubType: "canary",
			})
			Expect(result.Success).To(BeFalse())
			Expect(result.Message).To(ContainSubstring("Unknown deployment type"))
		})

		It("reports a duplicate create as already existing", func() {
			first := svc.CreateEnvironment(ctx, CreateEnvironmentRequest{
				ProjectID: "prj_1",
				Type:      catalystv1alpha1.EnvironmentTypeDeployment,
			})
			Expect(first.Success).To(BeTrue(), first.Message)
			Expect(first.AlreadyExists).To(BeFalse())

			second := svc.CreateEnvironment(ctx, CreateEnvironmentRequest{
				ProjectID: "prj_1",
				Type:      catalystv1alpha1.EnvironmentTypeDeployment,
			})
			Expect(second.Success).To(BeTrue(), second.Message)
			Expect(second.AlreadyExists).To(BeTrue())
			Expect(second.Message).To(ContainSubstring("already exists"))
		})
	})

	Context("when the request is invalid", func() {
		It("fails for an unknown project", func() {
			result := svc.CreateEnvironment(ctx, CreateEnvironmentRequest{
				ProjectID: "prj_missing",
				Type:      catalystv1alpha1.EnvironmentTypeDevelopment,
			})
			Expect(result.Success).To(BeFalse())
			Expect(result.Message).To(Equal("Project not found"))
		})

		It("fails when the owning team is gone", func() {
			st.AddProject(store.Project{
				ID:     "prj_orphan",
				Name:   "Orphan",
				Slug:   "orphan",
				TeamID: "team_missing",
				Repositories: []store.Repository{
					{Name: "repo", URL: "https://github.com/acme/repo", Primary: true},
				},
			})

			result := svc.CreateEnvironment(ctx, CreateEnvironmentRequest{
				ProjectID: "prj_orphan",
				Type:      catalystv1alpha1.EnvironmentTypeDevelopment,
			})
			Expect(result.Success).To(BeFalse())
			Expect(result.Message).To(Equal("Team not found for project"))
		})

		It("fails for an unknown environment type", func() {
			result := svc.CreateEnvironment(ctx, CreateEnvironmentRequest{
				ProjectID: "prj_1",
				Type:      "sandbox",
			})
			Expect(result.Success).To(BeFalse())
			Expect(result.Message).To(ContainSubstring("Unknown environment type"))
		})
	})

	Context("repository validation", func() {
		addProject := func(repos []store.Repository) {
			st.AddProject(store.Project{
				ID:           "prj_repos",
				Name:         "Repos",
				Slug:         "repos",
				TeamID:       "team_1",
				Repositories: repos,
			})
		}

		request := CreateEnvironmentRequest{
			ProjectID: "prj_repos",
			Type:      catalystv1alpha1.EnvironmentTypeDevelopment,
		}

		It("requires at least one repository", func() {
			addProject(nil)

			result := svc.CreateEnvironment(ctx, request)
			Expect(result.Success).To(BeFalse())
			Expect(result.Message).To(Equal("Project has no repositories configured"))
		})

		It("requires a primary repository", func() {
			addProject([]store.Repository{
				{Name: "a", URL: "https://github.com/acme/a"},
				{Name: "b", URL: "https://github.com/acme/b"},
			})

			result := svc.CreateEnvironment(ctx, request)
			Expect(result.Success).To(BeFalse())
			Expect(result.Message).To(Equal("Project has no primary repository"))
		})

		It("rejects multiple primaries", func() {
			addProject([]store.Repository{
				{Name: "a", URL: "https://github.com/acme/a", Primary: true},
				{Name: "b", URL: "https://github.com/acme/b", Primary: true},
			})

			result := svc.CreateEnvironment(ctx, request)
			Expect(result.Success).To(BeFalse())
			Expect(result.Message).To(Equal("Project has multiple primary repositories"))
		})

		It("leaves no environment behind on validation failures", func() {
			addProject(nil)

			_ = svc.CreateEnvironment(ctx, request)

			var list catalystv1alpha1.EnvironmentList
			Expect(svc.Cluster.Client.List(ctx, &list)).To(Succeed())
			Expect(list.Items).To(BeEmpty())
		})
	})

	Context("when the project sync fails", func() {
		It("aborts with the sync failure message and creates no environment", func() {
			st.AddProject(store.Project{
				ID:     "prj_bad_slug",
				Name:   "Bad Slug",
				Slug:   "___",
				TeamID: "team_1",
				Repositories: []store.Repository{
					{Name: "repo", URL: "https://github.com/acme/repo", Primary: true},
				},
			})

			result := svc.CreateEnvironment(ctx, CreateEnvironmentRequest{
				ProjectID: "prj_bad_slug",
				Type:      catalystv1alpha1.EnvironmentTypeDeployment,
			})

			Expect(result.Success).To(BeFalse())
			Expect(result.Message).To(HavePrefix("Failed to sync Project to K8s: "))

			var list catalystv1alpha1.EnvironmentList
			Expect(svc.Cluster.Client.List(ctx, &list)).To(Succeed())
			Expect(list.Items).To(BeEmpty())

			// The team namespace from the completed step stays in place:
			// nothing is rolled back.
			_, err := getNamespace(svc.Cluster.Client, "platform-team")
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Context("with a commit resolver", func() {
		It("pins the source to the branch head", func() {
			commits := &fakeCommits{sha: "4f2d9c8b7a6e5d4c3b2a1f0e9d8c7b6a5f4e3d2c"}
			svc.Commits = commits

			result := svc.CreateEnvironment(ctx, CreateEnvironmentRequest{
				ProjectID: "prj_1",
				Type:      catalystv1alpha1.EnvironmentTypeDeployment,
			})
			Expect(result.Success).To(BeTrue(), result.Message)

			var env catalystv1alpha1.Environment
			envKey := client.ObjectKey{Namespace: result.Namespace, Name: result.Name}
			Expect(svc.Cluster.Client.Get(ctx, envKey, &env)).To(Succeed())
			Expect(env.Spec.Sources[0].CommitSha).To(Equal("4f2d9c8b7a6e5d4c3b2a1f0e9d8c7b6a5f4e3d2c"))
			Expect(commits.seen).To(ConsistOf("https://github.com/acme/billing-api@main"))
		})

		It("still creates the environment when resolution fails", func() {
			svc.Commits = &fakeCommits{err: errors.New("api unavailable")}

			result := svc.CreateEnvironment(ctx, CreateEnvironmentRequest{
				ProjectID: "prj_1",
				Type:      catalystv1alpha1.EnvironmentTypeDeployment,
			})
			Expect(result.Success).To(BeTrue(), result.Message)

			var env catalystv1alpha1.Environment
			envKey := client.ObjectKey{Namespace: result.Namespace, Name: result.Name}
			Expect(svc.Cluster.Client.Get(ctx, envKey, &env)).To(Succeed())
			Expect(env.Spec.Sources[0].CommitSha).To(BeEmpty())
		})
	})

	Context("with a default quota on the project", func() {
		It("applies a ResourceQuota to the project namespace", func() {
			st.AddProject(store.Project{
				ID:     "prj_quota",
				Name:   "Quota",
				Slug:   "quota",
				TeamID: "team_1",
				Repositories: []store.Repository{
					{Name: "repo", URL: "https://github.com/acme/repo", Primary: true},
				},
				DefaultQuota: &store.Quota{CPU: "4", Memory: "8Gi"},
			})

			result := svc.CreateEnvironment(ctx, CreateEnvironmentRequest{
				ProjectID: "prj_quota",
				Type:      catalystv1alpha1.EnvironmentTypeDeployment,
			})
			Expect(result.Success).To(BeTrue(), result.Message)

			var quota corev1.ResourceQuota
			key := client.ObjectKey{Namespace: result.Namespace, Name: "catalyst-default-quota"}
			Expect(svc.Cluster.Client.Get(ctx, key, &quota)).To(Succeed())
		})
	})
})

var _ = Describe("Queries", func() {
	var svc *Service

	BeforeEach(func() {
		svc = NewService(seedStore(), newTestHandle())
	})

	Describe("GetEnvironmentDetail", func() {
		It("returns the environment with its recomputed namespace", func() {
			created := svc.CreateEnvironment(ctx, CreateEnvironmentRequest{
				ProjectID: "prj_1",
				Type:      catalystv1alpha1.EnvironmentTypeDeployment,
			})
			Expect(created.Success).To(BeTrue(), created.Message)

			detail, err := svc.GetEnvironmentDetail(ctx, "billing-portal", "production")
			Expect(err).NotTo(HaveOccurred())
			Expect(detail).NotTo(BeNil())
			Expect(detail.Namespace).To(Equal("platform-team-billing-portal"))
			Expect(detail.Environment.Name).To(Equal("production"))
			Expect(detail.Cost).To(BeNil())
		})

		It("returns nil for an unknown environment", func() {
			detail, err := svc.GetEnvironmentDetail(ctx, "billing-portal", "production")
			Expect(err).NotTo(HaveOccurred())
			Expect(detail).To(BeNil())
		})

		It("returns nil for an unknown project slug", func() {
			detail, err := svc.GetEnvironmentDetail(ctx, "nope", "production")
			Expect(err).NotTo(HaveOccurred())
			Expect(detail).To(BeNil())
		})
	})

	Describe("ListProjectEnvironments", func() {
		It("lists only this project's environments", func() {
			created := svc.CreateEnvironment(ctx, CreateEnvironmentRequest{
				ProjectID: "prj_1",
				Type:      catalystv1alpha1.EnvironmentTypeDeployment,
			})
			Expect(created.Success).To(BeTrue(), created.Message)

			// A foreign environment in the same namespace must be filtered
			// out by projectRef.
			foreign := &catalystv1alpha1.Environment{}
			foreign.Name = "intruder"
			foreign.Namespace = created.Namespace
			foreign.Spec = catalystv1alpha1.EnvironmentSpec{
				ProjectRef: catalystv1alpha1.ProjectReference{Name: "someone-else"},
				Type:       catalystv1alpha1.EnvironmentTypeDeployment,
			}
			Expect(svc.Cluster.Client.Create(ctx, foreign)).To(Succeed())

			envs, err := svc.ListProjectEnvironments(ctx, "billing-portal")
			Expect(err).NotTo(HaveOccurred())
			Expect(envs).To(HaveLen(1))
			Expect(envs[0].Name).To(Equal("production"))
		})

		It("returns nothing for an unknown slug", func() {
			envs, err := svc.ListProjectEnvironments(ctx, "nope")
			Expect(err).NotTo(HaveOccurred())
			Expect(envs).To(BeEmpty())
		})
	})

	Describe("cost enrichment", func() {
		It("prices the pods in the environment's workload namespace", func() {
			svc.Estimator = cost.NewEstimator(nil)

			created := svc.CreateEnvironment(ctx, CreateEnvironmentRequest{
				ProjectID: "prj_1",
				Type:      catalystv1alpha1.EnvironmentTypeDeployment,
			})
			Expect(created.Success).To(BeTrue(), created.Message)

			// The reconciler would run workloads in the environment
			// namespace derived from team, project and environment name.
			pod := &corev1.Pod{}
			pod.Name = "web-0"
			pod.Namespace = "platform-team-billing-portal-production"
			pod.Spec.Containers = []corev1.Container{
				{
					Name: "web",
					Resources: corev1.ResourceRequirements{
						Requests: corev1.ResourceList{
							corev1.ResourceCPU:    resource.MustParse("1"),
							corev1.ResourceMemory: resource.MustParse("2Gi"),
						},
					},
				},
			}
			Expect(svc.Cluster.Client.Create(ctx, pod)).To(Succeed())

			detail, err := svc.GetEnvironmentDetail(ctx, "billing-portal", "production")
			Expect(err).NotTo(HaveOccurred())
			Expect(detail).NotTo(BeNil())
			Expect(detail.Cost).NotTo(BeNil())
			Expect(detail.Cost.HourlyCost).To(Equal("0.0500"))
			Expect(detail.Cost.Pods).To(Equal(1))
		})
	})
})

var _ = Describe("CreatePreviewEnvironment", func() {
	var (
		st  *memory.Store
		svc *Service
	)

	BeforeEach(func() {
		st = seedStore()
		svc = NewService(st, newTestHandle())
	})

	It("creates a preview environment for a linked repository", func() {
		created, err := svc.CreatePreviewEnvironment(ctx, PreviewRequest{
			Repository: "acme/billing-web",
			PRNumber:   77,
			Branch:     "feat/checkout",
			CommitSha:  "abc1234",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeTrue())

		env := &catalystv1alpha1.Environment{}
		key := client.ObjectKey{Namespace: "platform-team-billing-portal", Name: "gh-pr-77"}
		Expect(svc.Cluster.Client.Get(ctx, key, env)).To(Succeed())
		Expect(env.Spec.Type).To(Equal(catalystv1alpha1.EnvironmentTypeDevelopment))
		Expect(env.Spec.DeploymentMode).To(Equal("development"))
		Expect(env.Spec.Sources).To(HaveLen(1))
		Expect(env.Spec.Sources[0].Name).To(Equal("billing-web"))
		Expect(env.Spec.Sources[0].Branch).To(Equal("feat/checkout"))
		Expect(env.Spec.Sources[0].CommitSha).To(Equal("abc1234"))
		Expect(env.Spec.Sources[0].PrNumber).To(Equal(77))

		By("ensuring the hierarchy namespaces like the UI path does")
		_, err = getNamespace(svc.Cluster.Client, "platform-team")
		Expect(err).NotTo(HaveOccurred())
		_, err = getNamespace(svc.Cluster.Client, "platform-team-billing-portal")
		Expect(err).NotTo(HaveOccurred())
	})

	It("converges on a duplicate delivery", func() {
		for i := 0; i < 2; i++ {
			created, err := svc.CreatePreviewEnvironment(ctx, PreviewRequest{
				Repository: "acme/billing-web",
				PRNumber:   77,
				Branch:     "feat/checkout",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created).To(BeTrue())
		}

		envs := &catalystv1alpha1.EnvironmentList{}
		Expect(svc.Cluster.Client.List(ctx, envs, client.InNamespace("platform-team-billing-portal"))).To(Succeed())
		Expect(envs.Items).To(HaveLen(1))
	})

	It("ignores repositories no project claims", func() {
		created, err := svc.CreatePreviewEnvironment(ctx, PreviewRequest{
			Repository: "somebody/else",
			PRNumber:   5,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeFalse())

		namespaces := &corev1.NamespaceList{}
		Expect(svc.Cluster.Client.List(ctx, namespaces)).To(Succeed())
		Expect(namespaces.Items).To(BeEmpty())
	})

	It("falls back to the repository default branch", func() {
		created, err := svc.CreatePreviewEnvironment(ctx, PreviewRequest{
			Repository: "acme/billing-api",
			PRNumber:   3,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(created).To(BeTrue())

		env := &catalystv1alpha1.Environment{}
		key := client.ObjectKey{Namespace: "platform-team-billing-portal", Name: "gh-pr-3"}
		Expect(svc.Cluster.Client.Get(ctx, key, env)).To(Succeed())
		Expect(env.Spec.Sources[0].Name).To(Equal("billing-api"))
		Expect(env.Spec.Sources[0].Branch).To(Equal("main"))
	})

	It("counts created environments once across duplicate deliveries", func() {
		svc.Metrics = observability.NewMetrics()

		_, err := svc.CreatePreviewEnvironment(ctx, PreviewRequest{Repository: "acme/billing-web", PRNumber: 9})
		Expect(err).NotTo(HaveOccurred())
		_, err = svc.CreatePreviewEnvironment(ctx, PreviewRequest{Repository: "acme/billing-web", PRNumber: 9})
		Expect(err).NotTo(HaveOccurred())

		counter := svc.Metrics.EnvironmentsCreated.WithLabelValues(catalystv1alpha1.EnvironmentTypeDevelopment)
		Expect(testutil.ToFloat64(counter)).To(Equal(1.0))
	})
})
