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

// Package janitor reconciles preview namespaces against GitHub. The webhook
// deletes a pull request's namespace when the closed event arrives, but
// deliveries can be dropped, the service can be down, or the repository's
// webhook can be misconfigured. The sweeper closes that gap: on a fixed
// interval it lists namespaces carrying the preview labels, reads back the
// repository and pull request number from their annotations, and deletes the
// ones whose pull request GitHub reports as closed.
//
// The sweeper is deliberately conservative. Any namespace it cannot judge,
// because annotations are missing or the API call failed, is skipped and
// logged, never deleted. It is off by default and enabled through
// configuration.
package janitor
