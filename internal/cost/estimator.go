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

package cost

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
)

// Config defines the pricing configuration for cost estimation
type Config struct {
	Currency          string
	CPUCostPerHour    float64
	MemoryCostPerHour float64
}

// DefaultConfig returns the default pricing configuration
func DefaultConfig() *Config {
	return &Config{
		CPUCostPerHour:    0.04,  // $0.04 per vCPU-hour
		MemoryCostPerHour: 0.005, // $0.005 per GB-hour
		Currency:          "USD",
	}
}

// hoursPerMonth is the standard 730-hour billing month.
const hoursPerMonth = 730

// Estimate summarizes the projected running cost of an environment's pods.
type Estimate struct {
	Currency    string `json:"currency"`
	HourlyCost  string `json:"hourlyCost"`
	MonthlyCost string `json:"monthlyCost"`
	Pods        int    `json:"pods"`
}

// Estimator calculates costs for environment workloads
type Estimator struct {
	config *Config
}

// NewEstimator creates a new cost estimator with the given configuration.
// If config is nil, default configuration is used.
func NewEstimator(config *Config) *Estimator {
	if config == nil {
		config = DefaultConfig()
	}
	return &Estimator{
		config: config,
	}
}

// HourlyPodCost prices one hour of the pod's resource requests. Containers
// without requests contribute nothing.
func (e *Estimator) HourlyPodCost(pod *corev1.Pod) float64 {
	var totalCPU float64
	var totalMemoryGB float64

	// Sum requests across all containers
	for _, container := range pod.Spec.Containers {
		if container.Resources.Requests == nil {
			continue
		}
		if cpu, ok := container.Resources.Requests[corev1.ResourceCPU]; ok {
			totalCPU += float64(cpu.MilliValue()) / 1000.0
		}
		if memory, ok := container.Resources.Requests[corev1.ResourceMemory]; ok {
			// Convert bytes to GB
			totalMemoryGB += float64(memory.Value()) / (1024 * 1024 * 1024)
		}
	}

	return totalCPU*e.config.CPUCostPerHour + totalMemoryGB*e.config.MemoryCostPerHour
}

// EstimatePods estimates the combined running cost of the given pods.
func (e *Estimator) EstimatePods(pods []corev1.Pod) *Estimate {
	var hourly float64
	for i := range pods {
		hourly += e.HourlyPodCost(&pods[i])
	}

	return &Estimate{
		Currency:    e.config.Currency,
		HourlyCost:  formatCost(hourly),
		MonthlyCost: formatCost(hourly * hoursPerMonth),
		Pods:        len(pods),
	}
}

// formatCost formats a cost value as a string with 4 decimal places for transparency
func formatCost(cost float64) string {
	return fmt.Sprintf("%.4f", cost)
}
