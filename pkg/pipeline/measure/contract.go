// Package measure times the stages of a pipeline.
package measure

import "time"

// Measure holds one Metric per stage.
type Measure interface {
	AddMetric(name string, concurrent int) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates durations for one stage.
type Metric interface {
	// AddDuration records the time spent in the stage function.
	AddDuration(elapsed time.Duration)
	// AddTransportDuration records the time spent waiting on inputStepName.
	AddTransportDuration(inputStepName string, elapsed time.Duration)
	AVGDuration() time.Duration
	AVGTransportDuration() map[string]*TransportInfo
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
	AllTransports() map[string]*TransportInfo
	Count() int64
}
