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

package names

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
)

const (
	// maxNamespaceLength is the DNS-1123 label limit Kubernetes enforces on
	// namespace names.
	maxNamespaceLength = 63

	// hashSuffixLength is how many hex characters of the SHA-256 digest are
	// appended to disambiguate truncated names.
	hashSuffixLength = 5

	// truncatedPrefixLength leaves room for the dash and the hash suffix.
	truncatedPrefixLength = maxNamespaceLength - hashSuffixLength - 1
)

var (
	illegalRuns    = regexp.MustCompile(`[^a-z0-9-]+`)
	dashRuns       = regexp.MustCompile(`-+`)
	dns1123Label   = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)
	illegalInLabel = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)
)

// SanitizeComponent normalizes one name component to DNS-1123 label rules:
// lowercased, every run of illegal characters replaced by a single dash, and
// no leading or trailing dashes. A component with no legal characters at all
// sanitizes to the empty string.
func SanitizeComponent(component string) string {
	s := strings.ToLower(component)
	s = illegalRuns.ReplaceAllString(s, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// GenerateNamespaceWithHash joins the sanitized components with dashes and
// caps the result at 63 characters. Names at or under the limit pass through
// untouched. Longer names keep their first 57 characters (trailing dashes
// trimmed) and gain a dash plus the first 5 hex characters of the SHA-256
// digest of the full joined name, so distinct long inputs cannot collapse to
// the same truncated name. Empty components are dropped before joining.
func GenerateNamespaceWithHash(components ...string) string {
	parts := make([]string, 0, len(components))
	for _, component := range components {
		if s := SanitizeComponent(component); s != "" {
			parts = append(parts, s)
		}
	}

	full := strings.Join(parts, "-")
	if len(full) <= maxNamespaceLength {
		return full
	}

	// Hash the full pre-truncation name, not the truncated prefix, so inputs
	// that only differ past the cut still get different suffixes.
	digest := sha256.Sum256([]byte(full))
	suffix := fmt.Sprintf("%x", digest)[:hashSuffixLength]

	prefix := strings.TrimRight(full[:truncatedPrefixLength], "-")
	return fmt.Sprintf("%s-%s", prefix, suffix)
}

// TeamNamespace returns the namespace that holds a team's Project resources.
func TeamNamespace(team string) string {
	return GenerateNamespaceWithHash(team)
}

// ProjectNamespace returns the namespace that holds a project's Environment
// resources.
func ProjectNamespace(team, project string) string {
	return GenerateNamespaceWithHash(team, project)
}

// EnvironmentNamespace returns the namespace an individual environment runs
// in.
func EnvironmentNamespace(team, project, environment string) string {
	return GenerateNamespaceWithHash(team, project, environment)
}

// IsValidNamespaceName reports whether name is a legal Kubernetes namespace
// name: 1 to 63 characters, lowercase alphanumerics and dashes, starting and
// ending with an alphanumeric.
func IsValidNamespaceName(name string) bool {
	if len(name) == 0 || len(name) > maxNamespaceLength {
		return false
	}
	return dns1123Label.MatchString(name)
}

// SanitizeLabelValue normalizes free-form text to Kubernetes label value
// rules. Unlike namespace names, label values keep their case and may contain
// underscores and dots. Path and port separators become dashes first so that
// "acme/widgets" stays readable as "acme-widgets".
func SanitizeLabelValue(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = illegalInLabel.ReplaceAllString(s, "")
	s = strings.Trim(s, "-_.")
	if len(s) > maxNamespaceLength {
		s = s[:maxNamespaceLength]
		s = strings.TrimRight(s, "-_.")
	}
	return s
}
