// Package drawer renders the stages of a pipeline as a Graphviz DOT graph.
package drawer

import (
	"time"

	"github.com/askiada/go-transposer/pkg/pipeline/measure"
)

// Drawer is an interface that defines the methods for drawing a pipeline.
type Drawer interface {
	// AddStep adds a step to the pipeline drawer.
	AddStep(stepName string) error
	// AddLink adds a link between parent and children steps.
	AddLink(parentStepName, childrenStepName string) error
	// Draw writes the pipeline graph.
	Draw() error
	// SetTotalTime labels the step with the time elapsed since startTime.
	SetTotalTime(stepName string, startTime time.Time) error
	// AddMeasure labels steps and links with the durations in measure.
	AddMeasure(measure measure.Measure) error
}
