// Package service contains the reconciliation loop.
//
// Reconciler depends only on small interfaces (config patcher, port
// prober, supervisor, connectivity checker) so every branch of the state
// machine is testable with in-memory fakes and an injected sleep:
//
//	ConfigPatched -> AlreadyListening
//	ConfigPatched -> DryRun
//	ConfigPatched -> Stopped -> Started -> Polling -> Converged | TimedOut
//
// A run is strictly sequential. Its only suspension points are the
// supervisor's settle delay, the poll interval and bounded HTTP checks.
package service
