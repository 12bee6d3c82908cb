/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

var _ = Describe("Project", func() {
	It("round-trips sources and quota", func() {
		project := &Project{
			ObjectMeta: metav1.ObjectMeta{
				Name:      "web",
				Namespace: "platform",
			},
			Spec: ProjectSpec{
				GitHubInstallationId: "12345678",
				Sources: []SourceConfig{
					{Name: "web", RepositoryURL: "https://github.com/acme/web", Branch: "main"},
					{Name: "api", RepositoryURL: "https://github.com/acme/api", Branch: "main"},
				},
				Resources: ResourceConfig{
					DefaultQuota: QuotaSpec{CPU: "2", Memory: "4Gi"},
				},
			},
		}

		Expect(k8sClient.Create(ctx, project)).To(Succeed())

		fetched := &Project{}
		Expect(k8sClient.Get(ctx, client.ObjectKeyFromObject(project), fetched)).To(Succeed())
		Expect(fetched.Spec.GitHubInstallationId).To(Equal("12345678"))
		Expect(fetched.Spec.Sources).To(HaveLen(2))
		Expect(fetched.Spec.Resources.DefaultQuota.Memory).To(Equal("4Gi"))

		Expect(k8sClient.Delete(ctx, project)).To(Succeed())
	})

	It("accepts the personal access token sentinel", func() {
		project := &Project{
			Spec: ProjectSpec{
				GitHubInstallationId: "pat",
				Sources: []SourceConfig{
					{Name: "web", RepositoryURL: "https://github.com/acme/web", Branch: "main"},
				},
			},
		}

		Expect(project.Spec.GitHubInstallationId).To(Equal("pat"))
	})
})
