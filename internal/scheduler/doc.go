// Package scheduler runs the load phase: a fixed pool of workers executes the
// target operation for a bounded wall-clock duration and feeds every outcome to
// a Recorder.
//
// Work is dispatched in batches of 2×C tasks. The dispatcher waits for the whole
// batch before it re-checks the deadline, so a run may overshoot its configured
// duration by up to one batch's worth of in-flight latency.
package scheduler
