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

var _ = Describe("Environment", func() {
	Context("Spec fields", func() {
		It("round-trips a development environment", func() {
			env := &Environment{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "dev-swift-falcon-42",
					Namespace: "platform-web",
				},
				Spec: EnvironmentSpec{
					ProjectRef: ProjectReference{Name: "web"},
					Type:       EnvironmentTypeDevelopment,
					Sources: []EnvironmentSource{
						{Name: "web", Branch: "feature/login", CommitSha: "1234567890abcdef1234567890abcdef12345678"},
					},
				},
			}

			Expect(k8sClient.Create(ctx, env)).To(Succeed())

			fetched := &Environment{}
			Expect(k8sClient.Get(ctx, client.ObjectKeyFromObject(env), fetched)).To(Succeed())
			Expect(fetched.Spec.ProjectRef.Name).To(Equal("web"))
			Expect(fetched.Spec.Type).To(Equal(EnvironmentTypeDevelopment))
			Expect(fetched.Spec.Sources).To(HaveLen(1))
			Expect(fetched.Spec.Sources[0].Branch).To(Equal("feature/login"))

			Expect(k8sClient.Delete(ctx, env)).To(Succeed())
		})

		It("carries the PR number for pull-request environments", func() {
			env := &Environment{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "dev-pr-env",
					Namespace: "platform-web",
				},
				Spec: EnvironmentSpec{
					ProjectRef: ProjectReference{Name: "web"},
					Type:       EnvironmentTypeDevelopment,
					Sources: []EnvironmentSource{
						{Name: "web", Branch: "fix/crash", PrNumber: 4821},
					},
				},
			}

			Expect(env.Spec.Sources[0].PrNumber).To(Equal(4821))
		})

		It("accepts env var overrides in config", func() {
			env := &Environment{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "production",
					Namespace: "platform-web",
				},
				Spec: EnvironmentSpec{
					ProjectRef: ProjectReference{Name: "web"},
					Type:       EnvironmentTypeDeployment,
					Config: EnvironmentConfig{
						EnvVars: []EnvVar{
							{Name: "LOG_LEVEL", Value: "debug"},
							{Name: "FEATURE_FLAG", Value: "on"},
						},
					},
				},
			}

			Expect(env.Spec.Config.EnvVars).To(HaveLen(2))
			Expect(env.Spec.Config.EnvVars[0].Name).To(Equal("LOG_LEVEL"))
		})
	})

	Context("Status subresource", func() {
		It("allows status updates without touching spec", func() {
			env := &Environment{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "staging",
					Namespace: "platform-web",
				},
				Spec: EnvironmentSpec{
					ProjectRef: ProjectReference{Name: "web"},
					Type:       EnvironmentTypeDeployment,
				},
			}

			Expect(k8sClient.Create(ctx, env)).To(Succeed())

			env.Status.Phase = EnvironmentPhaseReady
			env.Status.URL = "https://staging.example.com"
			Expect(k8sClient.Status().Update(ctx, env)).To(Succeed())

			fetched := &Environment{}
			Expect(k8sClient.Get(ctx, client.ObjectKeyFromObject(env), fetched)).To(Succeed())
			Expect(fetched.Status.Phase).To(Equal(EnvironmentPhaseReady))
			Expect(fetched.Status.URL).To(Equal("https://staging.example.com"))
			Expect(fetched.Spec.Type).To(Equal(EnvironmentTypeDeployment))

			Expect(k8sClient.Delete(ctx, env)).To(Succeed())
		})
	})

	Context("Deep copies", func() {
		It("does not share source slices with the copy", func() {
			env := &Environment{
				Spec: EnvironmentSpec{
					ProjectRef: ProjectReference{Name: "web"},
					Type:       EnvironmentTypeDevelopment,
					Sources:    []EnvironmentSource{{Name: "web", Branch: "main"}},
				},
			}

			cp := env.DeepCopy()
			cp.Spec.Sources[0].Branch = "other"

			Expect(env.Spec.Sources[0].Branch).To(Equal("main"))
		})
	})
})
