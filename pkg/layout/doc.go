// Package layout assigns 2-D positions to goal nodes.
//
// The engine is a one-shot approximation, not a physics simulation: given a
// normalized graph and any previously stored positions, it fixes the stored
// positions as-is and places the remaining nodes in a single deterministic
// pass. Unplaced nodes are partitioned into structural groups (roots,
// connectors, others, leaves, isolated) and processed in that order, most
// central first. Each node lands at the weighted centroid of its already
// placed neighbors, nudged vertically by its child/parent balance, pushed
// apart by short-range repulsion, and finally separated from overlapping
// neighbors by a capped collision-resolution loop. Nodes with no placed
// neighbor fall back to a golden-angle spiral; fully disconnected nodes go
// on an outer ring.
//
// Identical inputs always produce identical positions, every node receives
// exactly one finite position, and termination is guaranteed by the finite
// node count and the per-node collision iteration cap.
package layout
