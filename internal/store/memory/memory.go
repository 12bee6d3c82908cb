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

// Package memory is an in-memory store.Store backed by a YAML fixture file.
// It serves local development and tests; production deployments plug the
// platform database in behind the same interface.
package memory

import (
	"context"
	"fmt"
	"os"
	"sync"

	"sigs.k8s.io/yaml"

	"github.com/catalyst-dev/catalyst/internal/store"
)

// Store holds teams and projects in maps. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	teams    map[string]store.Team
	projects map[string]store.Project
	bySlug   map[string]string
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		teams:    make(map[string]store.Team),
		projects: make(map[string]store.Project),
		bySlug:   make(map[string]string),
	}
}

// fixture mirrors the YAML layout of a projects file:
//
//	teams:
//	  - id: team-1
//	    name: Platform Team
//	projects:
//	  - id: proj-1
//	    name: Web App
//	    slug: web-app
//	    teamId: team-1
//	    repositories:
//	      - name: web
//	        url: https://github.com/acme/web
//	        defaultBranch: main
//	        primary: true
type fixture struct {
	Teams    []store.Team    `json:"teams"`
	Projects []store.Project `json:"projects"`
}

// Load builds a Store from a YAML fixture file.
func Load(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading projects file %s: %w", path, err)
	}

	var f fixture
	if err := yaml.UnmarshalStrict(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing projects file %s: %w", path, err)
	}

	s := New()
	for _, team := range f.Teams {
		s.AddTeam(team)
	}
	for _, project := range f.Projects {
		s.AddProject(project)
	}
	return s, nil
}

// AddTeam inserts or replaces a team.
func (s *Store) AddTeam(team store.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[team.ID] = team
}

// AddProject inserts or replaces a project.
func (s *Store) AddProject(project store.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID] = project
	if project.Slug != "" {
		s.bySlug[project.Slug] = project.ID
	}
}

// ResolveProject implements store.Store.
func (s *Store) ResolveProject(ctx context.Context, id string) (*store.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	project, ok := s.projects[id]
	if !ok {
		return nil, nil
	}
	return &project, nil
}

// ResolveProjectBySlug implements store.Store.
func (s *Store) ResolveProjectBySlug(ctx context.Context, slug string) (*store.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.bySlug[slug]
	if !ok {
		return nil, nil
	}
	project := s.projects[id]
	return &project, nil
}

// ResolveProjectByRepository implements store.Store by scanning every
// project's repositories. The fixture sets are small enough that an index
// is not worth keeping.
func (s *Store) ResolveProjectByRepository(ctx context.Context, fullName string) (*store.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, project := range s.projects {
		for _, repo := range project.Repositories {
			if repo.MatchesFullName(fullName) {
				p := project
				return &p, nil
			}
		}
	}
	return nil, nil
}

// ResolveTeam implements store.Store.
func (s *Store) ResolveTeam(ctx context.Context, id string) (*store.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	team, ok := s.teams[id]
	if !ok {
		return nil, nil
	}
	return &team, nil
}
