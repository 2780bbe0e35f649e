// Package orchestrator wires the country lookup, the form model, and the
// renderer registry so hosts can create loaded forms and render snapshots with
// a single dependency.
package orchestrator
