// Package tourforge is the engine behind a visual guided-tour builder:
// admins draw a graph of steps, questions and conditionals in a flow
// editor, and end users traverse it with the path decided by their
// answers.
//
// The core is a plain library over an in-memory graph snapshot:
//
//   - pkg/domain holds the node, edge, answer and session types.
//   - pkg/condition evaluates conditional rules against answers.
//   - pkg/flow builds the navigable flow map and drives playback
//     (next step, previous step, path auditing).
//   - pkg/validate checks connectivity (root, reachability, orphans)
//     and vets edge proposals against the connection rules.
//
// Everything else — the HTTP CRUD API, session persistence, the CLI —
// consumes these packages and lives under internal/ and cmd/.
package tourforge
