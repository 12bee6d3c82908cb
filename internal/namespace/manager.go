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

// Package namespace creates and deletes the Kubernetes namespaces that back
// the Catalyst hierarchy and pull-request previews.
package namespace

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	"github.com/catalyst-dev/catalyst/internal/names"
)

// Manager wraps a cluster client with the namespace operations the lifecycle
// service needs. Labels and annotations are fully caller-owned: the hierarchy
// path and the webhook path deliberately use different label conventions, so
// the manager never injects keys of its own.
type Manager struct {
	client client.Client
}

// NewManager creates a new namespace manager.
func NewManager(c client.Client) *Manager {
	return &Manager{client: c}
}

// Ensure creates the namespace if it does not exist yet. An existing
// namespace is left completely untouched, whatever its labels say; there is
// no update path for namespaces. The returned bool reports whether this call
// created the namespace, with an AlreadyExists conflict counting as success
// so concurrent creators cannot fail each other.
func (m *Manager) Ensure(ctx context.Context, name string, labels, annotations map[string]string) (bool, error) {
	if !names.IsValidNamespaceName(name) {
		return false, fmt.Errorf("invalid namespace name %q", name)
	}

	ns := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			Name:        name,
			Labels:      labels,
			Annotations: annotations,
		},
	}

	if err := m.client.Create(ctx, ns); err != nil {
		if errors.IsAlreadyExists(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create namespace %s: %w", name, err)
	}

	return true, nil
}

// Delete removes the namespace. A namespace that is already gone is success,
// not an error; the returned bool reports whether this call actually deleted
// anything. Kubernetes cascades deletion to everything inside.
func (m *Manager) Delete(ctx context.Context, name string) (bool, error) {
	if !names.IsValidNamespaceName(name) {
		return false, fmt.Errorf("invalid namespace name %q", name)
	}

	ns := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{Name: name},
	}

	if err := m.client.Delete(ctx, ns); err != nil {
		if errors.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete namespace %s: %w", name, err)
	}

	return true, nil
}

// Exists reports whether the namespace is present.
func (m *Manager) Exists(ctx context.Context, name string) (bool, error) {
	ns := &corev1.Namespace{}
	err := m.client.Get(ctx, client.ObjectKey{Name: name}, ns)
	if err != nil {
		if errors.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get namespace %s: %w", name, err)
	}
	return true, nil
}

// Quota is the resource ceiling applied to a project namespace. Empty fields
// are skipped.
type Quota struct {
	CPU    string
	Memory string
}

// EnsureQuota creates or updates the default ResourceQuota in a project
// namespace. Unlike namespaces themselves, quotas are managed objects and are
// reconciled on every call.
func (m *Manager) EnsureQuota(ctx context.Context, namespace string, q Quota) error {
	if q.CPU == "" && q.Memory == "" {
		return nil
	}

	quota := &corev1.ResourceQuota{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "catalyst-default-quota",
			Namespace: namespace,
		},
	}

	_, err := controllerutil.CreateOrUpdate(ctx, m.client, quota, func() error {
		hard := corev1.ResourceList{}
		if q.CPU != "" {
			cpu, err := resource.ParseQuantity(q.CPU)
			if err != nil {
				return fmt.Errorf("invalid cpu quota %q: %w", q.CPU, err)
			}
			hard[corev1.ResourceLimitsCPU] = cpu
		}
		if q.Memory != "" {
			memory, err := resource.ParseQuantity(q.Memory)
			if err != nil {
				return fmt.Errorf("invalid memory quota %q: %w", q.Memory, err)
			}
			hard[corev1.ResourceLimitsMemory] = memory
		}
		quota.Spec.Hard = hard

		if quota.Labels == nil {
			quota.Labels = make(map[string]string)
		}
		quota.Labels["app.kubernetes.io/managed-by"] = "catalyst"

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to ensure resource quota in %s: %w", namespace, err)
	}

	return nil
}
