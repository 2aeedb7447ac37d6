package drawer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-transposer/pkg/pipeline/measure"
	"github.com/askiada/go-transposer/pkg/pipeline/model"
)

type pipelineDrawer struct {
	Drawer
	m         measure.Measure
	startTime time.Time
}

func (pd *pipelineDrawer) New() error {
	err := pd.AddStep(model.StartStep.Details.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add start step to drawer")
	}

	err = pd.AddStep(model.EndStep.Details.Name)
	if err != nil {
		return errors.Wrap(err, "unable to add end step to drawer")
	}

	return nil
}

func (pd *pipelineDrawer) link(parentStep, step *model.StepInfo) error {
	err := pd.AddStep(step.Name)
	if err != nil {
		return err
	}

	return pd.AddLink(parentStep.Name, step.Name)
}

func (pd *pipelineDrawer) PrepareStep(parentStep, step *model.StepInfo) error {
	return pd.link(parentStep, step)
}

func (pd *pipelineDrawer) PrepareSink(parentStep, step *model.StepInfo) error {
	err := pd.link(parentStep, step)
	if err != nil {
		return err
	}

	return pd.AddLink(step.Name, model.EndStep.Details.Name)
}

func (pd *pipelineDrawer) Finish() error {
	if pd.m != nil {
		err := pd.AddMeasure(pd.m)
		if err != nil {
			return errors.Wrap(err, "unable to add measure")
		}
	}

	err := pd.SetTotalTime(model.EndStep.Details.Name, pd.startTime)
	if err != nil {
		return errors.Wrap(err, "unable to set total time")
	}

	err = pd.Draw()
	if err != nil {
		return errors.Wrap(err, "unable to draw pipeline")
	}

	return nil
}

func (pd *pipelineDrawer) OnStepOutput(_, _ *model.StepInfo, _, _ time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) OnSinkOutput(_, _ *model.StepInfo, _, _ time.Duration) error {
	return nil
}

func (pd *pipelineDrawer) AfterSink(_ *model.StepInfo, _ time.Duration) error {
	return nil
}

// PipelineDrawer draws the pipeline once it finished. When msr is not nil
// its durations are added to the graph; it should be the same measure given
// to measure.PipelineMeasure.
func PipelineDrawer(drawer Drawer, msr measure.Measure) model.PipelineOption {
	return &pipelineDrawer{drawer, msr, time.Now()}
}
