// Difference metrics between an image and its transformed version
package metrics

import (
	"fmt"
	"image"
	"sort"
)

// Metric defines the interface for comparison metrics
type Metric interface {
	// Calculate computes the metric value
	Calculate(original, processed *image.Gray) (float64, error)

	GetName() string
	GetDescription() string

	// GetRange returns the value range (min, max)
	GetRange() (float64, float64)

	// IsHigherBetter returns true if higher values indicate closer images
	IsHigherBetter() bool
}

// Evaluator manages and calculates multiple metrics
type Evaluator struct {
	metrics map[string]Metric
}

// NewEvaluator creates an evaluator with the default metrics registered
func NewEvaluator() *Evaluator {
	e := &Evaluator{
		metrics: make(map[string]Metric),
	}
	e.RegisterDefaultMetrics()
	return e
}

func (e *Evaluator) RegisterDefaultMetrics() {
	e.Register("mse", NewMSE())
	e.Register("psnr", NewPSNR())
	e.Register("changed_ratio", NewChangedRatio())
}

func (e *Evaluator) Register(name string, metric Metric) {
	e.metrics[name] = metric
}

// Get returns the metric registered under name
func (e *Evaluator) Get(name string) (Metric, bool) {
	metric, exists := e.metrics[name]
	return metric, exists
}

// Names returns the registered metric names, sorted
func (e *Evaluator) Names() []string {
	names := make([]string, 0, len(e.metrics))
	for name := range e.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Evaluator) Calculate(name string, original, processed *image.Gray) (float64, error) {
	metric, exists := e.metrics[name]
	if !exists {
		return 0, fmt.Errorf("metric not found: %s", name)
	}
	return metric.Calculate(original, processed)
}

// CalculateAll calculates all registered metrics, skipping the ones that fail
func (e *Evaluator) CalculateAll(original, processed *image.Gray) map[string]float64 {
	results := make(map[string]float64)

	for name, metric := range e.metrics {
		if value, err := metric.Calculate(original, processed); err == nil {
			results[name] = value
		}
	}

	return results
}

func checkComparable(original, processed *image.Gray) error {
	if original == nil || processed == nil {
		return fmt.Errorf("empty images")
	}
	if original.Bounds().Empty() || processed.Bounds().Empty() {
		return fmt.Errorf("empty images")
	}
	if original.Bounds().Size() != processed.Bounds().Size() {
		return fmt.Errorf("image dimensions mismatch: %v vs %v",
			original.Bounds().Size(), processed.Bounds().Size())
	}
	return nil
}
