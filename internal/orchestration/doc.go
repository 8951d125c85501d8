// Package orchestration runs the multiplication strategies of a benchmark one
// after another, times them, and checks that their results agree. It
// decouples the benchmark from presentation via the ProgressReporter and
// ResultPresenter interfaces.
package orchestration
