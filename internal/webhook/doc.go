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

// Package webhook turns GitHub pull request events into preview namespaces
// and fronts the environment lifecycle API.
//
// # Trigger
//
// The Trigger is a state machine over pull_request actions:
//   - opened: creates the namespace <owner>-<repo>-gh-pr-<number> (sanitized,
//     hash-truncated only if the join overflows 63 characters) and labels it
//     catalyst/team, catalyst/project, catalyst/environment
//   - closed: deletes that namespace; a namespace that never existed is not
//     an error
//   - anything else (synchronize, edited, review_requested, ...): no cluster
//     calls at all
//
// Every delivery is answered with a Result carrying success, pr_number and a
// message; opened additionally reports the namespace and its labels, closed
// reports whether a namespace was actually deleted.
//
// The bare catalyst/ label keys are this path's own convention. Namespaces
// created through the lifecycle service carry catalyst.dev/ hierarchy keys
// instead; the two sets select different things and are kept distinct on
// purpose.
//
// # Security
//
// Deliveries must carry a valid X-Hub-Signature-256 header, an HMAC-SHA256
// over the raw payload keyed with the webhook secret. Invalid or missing
// signatures are rejected with HTTP 401 before the payload is parsed.
//
// # Rate limiting
//
// Requests are rate-limited per repository with a token bucket, 10 per
// second by default. Exceeding it is HTTP 429.
package webhook
