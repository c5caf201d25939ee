// Package analysis detects structural issues in a goal graph and turns them
// into highlight sets a renderer can consume.
//
// The analyzer works on child (hierarchy) edges only: it reports orphan
// roots, dead-end leaves, mutual pairs, self-loops, strongly connected
// components of three or more nodes (via Tarjan's algorithm), and exact
// directed triangles. Two-node cycles surface as mutual pairs, never as
// cycles, so nothing is double-reported. Every pass restricts neighbor
// lookups to the node set under analysis, so the analyzer can run on a
// subgraph.
//
// Analysis is pure and idempotent: the same graph yields the same report,
// in the same order, on every call.
package analysis
