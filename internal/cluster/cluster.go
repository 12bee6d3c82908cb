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

// Package cluster connects to Kubernetes clusters and hands out client
// handles. A Provider is constructed once at startup and injected wherever
// cluster access is needed; there is no package-level singleton, so tests and
// multi-cluster setups inject their own handles.
package cluster

import (
	"fmt"

	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"sigs.k8s.io/controller-runtime/pkg/client"

	catalystv1alpha1 "github.com/catalyst-dev/catalyst/api/v1alpha1"
)

// Handle is one usable cluster connection.
type Handle struct {
	Name   string
	Client client.Client
	Scheme *runtime.Scheme
}

// Options select how to reach a cluster. The zero value means in-cluster
// config first, then the ambient kubeconfig.
type Options struct {
	// Name identifies the cluster in the Provider. Empty is allowed for the
	// default cluster.
	Name string

	// Kubeconfig is an explicit kubeconfig path. Empty falls back to the
	// in-cluster service account and then the default loading rules
	// ($KUBECONFIG, ~/.kube/config).
	Kubeconfig string

	// Context overrides the kubeconfig's current context.
	Context string
}

// NewScheme builds the runtime scheme every handle uses: core Kubernetes
// types plus the catalyst API group.
func NewScheme() (*runtime.Scheme, error) {
	scheme := runtime.NewScheme()
	if err := clientgoscheme.AddToScheme(scheme); err != nil {
		return nil, fmt.Errorf("registering client-go types: %w", err)
	}
	if err := catalystv1alpha1.AddToScheme(scheme); err != nil {
		return nil, fmt.Errorf("registering catalyst types: %w", err)
	}
	return scheme, nil
}

// Connect builds a Handle for the cluster selected by opts.
func Connect(opts Options) (*Handle, error) {
	restConfig, err := buildRESTConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("building rest config for cluster %q: %w", opts.Name, err)
	}

	scheme, err := NewScheme()
	if err != nil {
		return nil, err
	}

	c, err := client.New(restConfig, client.Options{Scheme: scheme})
	if err != nil {
		return nil, fmt.Errorf("building client for cluster %q: %w", opts.Name, err)
	}

	return &Handle{Name: opts.Name, Client: c, Scheme: scheme}, nil
}

// buildRESTConfig prefers in-cluster credentials and falls back to the
// kubeconfig loading rules, mirroring how kubectl resolves configuration.
func buildRESTConfig(opts Options) (*rest.Config, error) {
	if opts.Kubeconfig == "" {
		if cfg, err := rest.InClusterConfig(); err == nil {
			return cfg, nil
		}
	}

	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if opts.Kubeconfig != "" {
		loadingRules.ExplicitPath = opts.Kubeconfig
	}

	overrides := &clientcmd.ConfigOverrides{}
	if opts.Context != "" {
		overrides.CurrentContext = opts.Context
	}

	return clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides).ClientConfig()
}

// Provider maps cluster keys to handles. The empty key selects the default
// cluster.
type Provider struct {
	defaultHandle *Handle
	byName        map[string]*Handle
}

// NewProvider wraps the default handle. Additional clusters are registered
// with Add.
func NewProvider(defaultHandle *Handle) *Provider {
	p := &Provider{
		defaultHandle: defaultHandle,
		byName:        make(map[string]*Handle),
	}
	if defaultHandle != nil && defaultHandle.Name != "" {
		p.byName[defaultHandle.Name] = defaultHandle
	}
	return p
}

// Add registers a named handle.
func (p *Provider) Add(h *Handle) {
	p.byName[h.Name] = h
}

// Get returns the handle for key, the default handle for the empty key, and
// nil when the key is unknown. Callers own the nil check; an unknown cluster
// is a caller input problem, not a provider failure.
func (p *Provider) Get(key string) *Handle {
	if key == "" {
		return p.defaultHandle
	}
	return p.byName[key]
}
