package transposer

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/go-transposer/pkg/grid"
	"github.com/askiada/go-transposer/pkg/pipeline"
	"github.com/askiada/go-transposer/pkg/pipeline/drawer"
	"github.com/askiada/go-transposer/pkg/pipeline/measure"
	"github.com/askiada/go-transposer/pkg/pipeline/model"
)

// Stage names, also used as prefix of the errors they return.
const (
	SelectStage    = "select"
	TransposeStage = "transpose"
	AppendStage    = "append"
)

// Report summarises a run.
type Report struct {
	// Selected is the number of source rows marked by the run.
	Selected int
	// Placement is where the block landed, zero when nothing was written.
	Placement Placement
}

// Job moves the new rows of a source sheet to a destination sheet.
type Job struct {
	store       grid.Store
	source      string
	destination string
	checked     string
	logger      *zap.Logger
	measure     measure.Measure
	drawer      drawer.Drawer
}

// JobOption configures a Job.
type JobOption func(j *Job)

// WithLogger sets the job logger. The default discards everything.
func WithLogger(logger *zap.Logger) JobOption {
	return func(j *Job) {
		j.logger = logger
	}
}

// WithCheckedColumn overrides DefaultCheckedColumn.
func WithCheckedColumn(name string) JobOption {
	return func(j *Job) {
		j.checked = name
	}
}

// WithMeasure records the duration of each stage into msr.
func WithMeasure(msr measure.Measure) JobOption {
	return func(j *Job) {
		j.measure = msr
	}
}

// WithDrawer draws the stages once the run succeeded. A drawer holds the
// graph of a single run and cannot be shared between runs.
func WithDrawer(d drawer.Drawer) JobOption {
	return func(j *Job) {
		j.drawer = d
	}
}

// NewJob creates a job reading source and appending to destination, both
// sheets of store.
func NewJob(store grid.Store, source, destination string, opts ...JobOption) *Job {
	job := &Job{
		store:       store,
		source:      source,
		destination: destination,
		checked:     DefaultCheckedColumn,
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(job)
	}

	return job
}

func (j *Job) pipelineOptions() []model.PipelineOption {
	opts := []model.PipelineOption{}
	if j.measure != nil {
		opts = append(opts, measure.PipelineMeasure(j.measure))
	}

	if j.drawer != nil {
		opts = append(opts, drawer.PipelineDrawer(j.drawer, j.measure))
	}

	return opts
}

// claim takes exclusive use of the source sheet when the store supports it.
func (j *Job) claim(ctx context.Context) (func(), error) {
	claimer, ok := j.store.(grid.Claimer)
	if !ok {
		return func() {}, nil
	}

	release, err := claimer.Claim(ctx, j.source)
	if err != nil {
		return nil, errors.Wrap(err, "unable to claim source sheet")
	}

	return func() {
		if err := release(); err != nil {
			j.logger.Warn("unable to release source sheet", zap.String("sheet", j.source), zap.Error(err))
		}
	}, nil
}

// Run selects, transposes and appends the new source rows. It stops at the
// first failing stage; rows marked before the failure stay marked.
func (j *Job) Run(ctx context.Context) (Report, error) {
	release, err := j.claim(ctx)
	if err != nil {
		return Report{}, err
	}
	defer release()

	pipe, err := pipeline.New(ctx, j.pipelineOptions()...)
	if err != nil {
		return Report{}, errors.Wrap(err, "unable to create pipeline")
	}

	selector := NewSelector(j.store, j.source, j.checked, j.logger)
	appender := NewAppender(j.store, j.destination, j.logger)

	var report Report

	selected, err := pipeline.AddRootStep(pipe, SelectStage, func(ctx context.Context, rootChan chan<- Batch) error {
		batch, err := selector.Select(ctx)
		if err != nil {
			return err
		}

		report.Selected = len(batch.Rows)
		if report.Selected == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case rootChan <- batch:
		}

		return nil
	})
	if err != nil {
		return Report{}, errors.Wrap(err, "unable to add select stage")
	}

	transposed, err := pipeline.AddStepOneToOne(pipe, TransposeStage, selected, func(_ context.Context, batch Batch) (grid.Matrix, error) {
		return Transpose(batch)
	})
	if err != nil {
		return Report{}, errors.Wrap(err, "unable to add transpose stage")
	}

	err = pipeline.AddSink(pipe, AppendStage, transposed, func(ctx context.Context, m grid.Matrix) error {
		placement, err := appender.Append(ctx, m)
		report.Placement = placement

		return err
	})
	if err != nil {
		return Report{}, errors.Wrap(err, "unable to add append stage")
	}

	err = pipe.Run()
	if err != nil {
		return report, err
	}

	if report.Selected == 0 {
		j.logger.Info("no new data", zap.String("source", j.source))

		return report, nil
	}

	j.logMeasure()
	j.logger.Info("processing finished",
		zap.String("source", j.source),
		zap.String("destination", j.destination),
		zap.Int("rows", report.Selected),
		zap.Int("column", report.Placement.Col),
	)

	return report, nil
}

func (j *Job) logMeasure() {
	if j.measure == nil {
		return
	}

	for _, stage := range []string{TransposeStage, AppendStage} {
		mt := j.measure.GetMetric(stage)
		if mt == nil {
			continue
		}

		j.logger.Debug("stage timing",
			zap.String("stage", stage),
			zap.Int64("calls", mt.Count()),
			zap.Duration("avg", mt.AVGDuration()),
		)
	}
}
