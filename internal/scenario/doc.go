// Package scenario defines the YAML scenario format executed by the
// runner, and its validation.
//
// A scenario is a named set of steps; each step names a kind (count or
// print) and the steps it runs after. Validation happens in two layers:
// a CUE schema checks document shape and field types, then Go checks
// enforce what a shape schema cannot - unique step IDs, known "after"
// references, and acyclicity. Cycle detection lives here, on the caller
// side, because the execution engine deliberately does not validate the
// graphs it is given.
package scenario
