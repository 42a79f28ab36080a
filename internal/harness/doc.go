// Package harness runs scenario fixtures end-to-end and compares their
// traces against golden files.
//
// Every fixture run is deterministic: tokens come from a fixed generator
// derived from the scenario name, and event ordering comes from the
// runner's logical clock, so the canonical trace of a scenario is stable
// across runs and machines. Golden files are the source of truth for
// expected trace behavior; regenerate them with:
//
//	go test ./internal/harness -update
package harness
