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

// Package environment wraps access to Environment custom resources. Outcomes
// that callers branch on (conflict on create, absence on get and delete) are
// reported as values rather than errors.
package environment

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	catalystv1alpha1 "github.com/catalyst-dev/catalyst/api/v1alpha1"
)

// CreateResult reports what Create did.
type CreateResult string

// DeleteResult reports what Delete did.
type DeleteResult string

const (
	// Created means the resource did not exist and was created.
	Created CreateResult = "Created"
	// AlreadyExists means a resource with that name was already present.
	// The existing resource is left untouched.
	AlreadyExists CreateResult = "AlreadyExists"

	// Deleted means the resource existed and deletion was requested.
	Deleted DeleteResult = "Deleted"
	// NotFound means there was nothing to delete. Callers treat this as
	// success.
	NotFound DeleteResult = "NotFound"
)

// Client performs namespace-scoped operations on Environment resources.
type Client struct {
	client client.Client
}

// NewClient creates a Client backed by the given cluster client.
func NewClient(c client.Client) *Client {
	return &Client{client: c}
}

// Create creates an Environment resource. A name conflict is not an error:
// it returns AlreadyExists and leaves the existing resource as is. Create
// does not deduplicate beyond that; callers that need to know about an
// existing resource check with Get first.
func (c *Client) Create(ctx context.Context, namespace, name string, spec catalystv1alpha1.EnvironmentSpec, labels map[string]string) (CreateResult, error) {
	env := &catalystv1alpha1.Environment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels:    labels,
		},
		Spec: spec,
	}

	if err := c.client.Create(ctx, env); err != nil {
		if apierrors.IsAlreadyExists(err) {
			return AlreadyExists, nil
		}
		return "", fmt.Errorf("failed to create environment %s/%s: %w", namespace, name, err)
	}

	return Created, nil
}

// Get fetches an Environment by namespace and name. Absence is not an
// error: it returns (nil, nil) when the resource does not exist.
func (c *Client) Get(ctx context.Context, namespace, name string) (*catalystv1alpha1.Environment, error) {
	var env catalystv1alpha1.Environment
	if err := c.client.Get(ctx, client.ObjectKey{Namespace: namespace, Name: name}, &env); err != nil {
		if apierrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get environment %s/%s: %w", namespace, name, err)
	}
	return &env, nil
}

// List returns all Environment resources in the namespace.
func (c *Client) List(ctx context.Context, namespace string) ([]catalystv1alpha1.Environment, error) {
	var list catalystv1alpha1.EnvironmentList
	if err := c.client.List(ctx, &list, client.InNamespace(namespace)); err != nil {
		return nil, fmt.Errorf("failed to list environments in %s: %w", namespace, err)
	}
	return list.Items, nil
}

// ListForProject returns the Environments in the namespace whose
// spec.projectRef.name matches project. projectRef is not a registered
// field index, so the filtering happens client-side.
func (c *Client) ListForProject(ctx context.Context, namespace, project string) ([]catalystv1alpha1.Environment, error) {
	all, err := c.List(ctx, namespace)
	if err != nil {
		return nil, err
	}

	matches := make([]catalystv1alpha1.Environment, 0, len(all))
	for _, env := range all {
		if env.Spec.ProjectRef.Name == project {
			matches = append(matches, env)
		}
	}
	return matches, nil
}

// Delete removes an Environment by namespace and name. Deleting a resource
// that is already gone returns NotFound with a nil error, so repeated
// deletes are safe.
func (c *Client) Delete(ctx context.Context, namespace, name string) (DeleteResult, error) {
	env := &catalystv1alpha1.Environment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
		},
	}

	if err := c.client.Delete(ctx, env); err != nil {
		if apierrors.IsNotFound(err) {
			return NotFound, nil
		}
		return "", fmt.Errorf("failed to delete environment %s/%s: %w", namespace, name, err)
	}

	return Deleted, nil
}
