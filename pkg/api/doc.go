// Package api contains the data model shared by the blockflow validation
// engine and persistence controller. It has no behavior beyond small helpers
// and observers; the higher-level blockflow package re-exports the types most
// callers need.
//
// # Graph
//
// A workflow graph is an ordered slice of Node values plus an ordered slice
// of Edge values. A Node carries a Kind tag and a NodeData payload; the set
// of payload types is closed:
//
//   - StartData / EndData: a label only
//   - FormData: custom name and a list of Field inputs
//   - APIData: URL and HTTP method (configuration only, never dispatched)
//   - ConditionalData: field to evaluate, operator, value and the fixed
//     true/false Route pair
//
// Order matters: validation reports findings in node order, and cardinality
// findings blame the last offending node.
//
// # Findings
//
// Finding is one validation result. Findings of SeverityError block saving;
// SeverityInfo findings are advisory.
//
// # Snapshots and save status
//
// Snapshot is the JSON document written to the durable slot. SaveStatus is the
// idle → saving → saved|error state machine exposed to the UI.
//
// # Observability
//
// Observer receives validation and persistence lifecycle events. The package
// ships NoopObserver, LoggingObserver (log/slog), BasicMetrics and
// NewCompositeObserver to combine them.
package api
