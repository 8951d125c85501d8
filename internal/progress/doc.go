// Package progress carries row-completion progress from the multiplication
// strategies to whichever display is attached (spinner, dashboard, log).
//
// Strategies receive a ProgressCallback. The orchestration layer builds that
// callback from a ProgressSubject, freezing the set of registered observers
// for the duration of a run so the hot path never takes the subject's lock.
package progress
