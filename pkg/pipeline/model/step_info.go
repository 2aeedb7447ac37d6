package model

// StepType tells which kind of stage a step is.
type StepType string

const (
	RootStepType   StepType = "root"
	NormalStepType StepType = "step"
	SinkStepType   StepType = "sink"
)

// StepInfo describes a step independently of the type flowing through it.
type StepInfo struct {
	Type       StepType
	Name       string
	Concurrent int
}

var (
	StartStep = &Step[any]{Details: &StepInfo{Name: "start"}}
	EndStep   = &Step[any]{Details: &StepInfo{Name: "end"}}
)

// Step is the handle returned when a stage is added. Output carries what the
// stage produces to the next one.
type Step[O any] struct {
	Output   chan O
	KeepOpen bool
	Details  *StepInfo
}
