// Package validation implements the workflow graph validation engine.
//
// Validate is a pure function of (nodes, edges): it never mutates its
// input, never fails, and reports findings in a fixed order:
//
//  1. start-node cardinality
//  2. end-node cardinality
//  3. api nodes, in node order
//  4. form nodes, in node order
//  5. conditional nodes, in node order
//  6. connectivity
//  7. dangling edges (only with WithDanglingEdges)
//
// Finding ids are built from the check name and the node id (and field id /
// option index where relevant), so callers can correlate a finding with a
// specific input without a lookup table.
package validation
