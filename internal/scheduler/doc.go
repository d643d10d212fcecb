// Package scheduler triggers the ticker job on a fixed interval and logs a
// heartbeat while the process is alive.
//
// Runs are executed from a single goroutine, so a run never starts while the
// previous one is still in progress. Failures and panics are logged and the
// loop carries on to the next trigger.
package scheduler
