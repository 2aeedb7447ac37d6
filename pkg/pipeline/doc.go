// Package pipeline runs a chain of stages connected by channels.
//
// A pipeline starts with a root step producing values, goes through any
// number of steps transforming them, and ends with a sink consuming them.
// Each stage runs in its own goroutine as soon as it is added; Run waits for
// all of them and stops on the first error, cancelling the context seen by
// every other stage.
//
// Options implementing model.PipelineOption observe the pipeline while it is
// built and while it runs. The measure and drawer sub packages use that to
// time each stage and to render the stage graph.
package pipeline
