// Package orchestration runs batches of simulation replicas and hands their
// progress and results to the presentation layer. It decouples the engine
// from presentation via the ProgressReporter and ResultPresenter interfaces.
package orchestration
