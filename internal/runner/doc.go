// Package runner executes scenarios on the sequencer engine.
//
// The runner is the engine's caller: it translates a validated scenario
// into a dependency graph, then drives the canonical drain/scan loop one
// tick at a time until nothing is queued or active. Every activation and
// completion is recorded as a trace event stamped from a logical clock,
// and each run is identified by a token (UUIDv7 in production, fixed
// tokens in tests).
//
// The engine has no timeouts of its own; a step that never finishes
// would leave its node active forever. Detecting that stall is the
// runner's job, via the max-ticks quota.
package runner
