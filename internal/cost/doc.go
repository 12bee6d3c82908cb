/*
MIT License

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

// Package cost provides cost estimation for environment workloads.
//
// The estimator prices the pods running in an environment's namespace by
// summing their container resource requests (CPU and memory). Estimates are
// informational only; they enrich environment detail responses and are never
// written back to the cluster.
//
// Cost Calculation:
//
//	CPU Cost = (Total CPU Cores) × (CPU Price Per Hour)
//	Memory Cost = (Total Memory GB) × (Memory Price Per Hour)
//	Total Hourly Cost = CPU Cost + Memory Cost
//	Monthly Cost = Hourly Cost × 730 (average hours per month)
//
// Default Pricing:
//
//   - CPU: $0.04 per core per hour
//   - Memory: $0.005 per GB per hour
//
// Example usage:
//
//	estimator := cost.NewEstimator(cost.DefaultConfig())
//	estimate := estimator.EstimatePods(pods)
//	fmt.Printf("%s %s/hour\n", estimate.Currency, estimate.HourlyCost)
//
// Pods without resource requests contribute zero cost, so estimates are a
// lower bound for workloads that rely on limit ranges or no requests at all.
package cost
