// Package graph provides the goal-graph data model and adjacency index.
//
// The package normalizes a flat node/edge list into a Graph: an immutable
// snapshot with adjacency maps split by relation kind (child edges carry the
// hierarchy, queue edges carry sequencing). Malformed input is tolerated by
// design - duplicate edges are merged, and edges referencing unknown nodes or
// unknown relation kinds are dropped silently before any analysis runs,
// since upstream data may be transiently inconsistent during concurrent
// edits.
//
// Build is a pure function of its inputs and runs in O(nodes + edges).
// The resulting Graph is never mutated; a changed node/edge list produces a
// new Graph via a fresh Build call.
//
// The package also computes advisory importance scores (used for node-size
// and edge-width styling, never for placement) and reads/writes the JSON
// snapshot format shared by the CLI and the HTTP API.
package graph
