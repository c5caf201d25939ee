package graph

import "testing"

func TestScore_Chain(t *testing.T) {
	// 1 -> 2 -> 3 (child edges)
	g := Build(
		[]Node{node(1), node(2), node(3)},
		[]Edge{
			{From: 1, To: 2, Relation: RelationChild},
			{From: 2, To: 3, Relation: RelationChild},
		},
	)
	s := Score(g)

	// node 1: 2 descendants, 1 child, 0 queue out, 0 parents -> 2*2 + 1 = 5
	if s.Node[1] != 5 {
		t.Errorf("Node[1] = %v, want 5", s.Node[1])
	}
	// node 2: 1 descendant, 1 child, 0 queue out, 1 parent -> 2*1 + 2 = 4
	if s.Node[2] != 4 {
		t.Errorf("Node[2] = %v, want 4", s.Node[2])
	}
	// node 3: 0 descendants, 0 children, 0 queue out, 1 parent -> 1
	if s.Node[3] != 1 {
		t.Errorf("Node[3] = %v, want 1", s.Node[3])
	}

	if got := s.Edge[EdgeKey{From: 1, To: 2}]; got != 4.5 {
		t.Errorf("Edge[1->2] = %v, want 4.5", got)
	}
}

func TestScore_CycleTerminates(t *testing.T) {
	// 1 -> 2 -> 3 -> 1: descendant counting must not loop forever, and each
	// node sees the other two exactly once.
	g := Build(
		[]Node{node(1), node(2), node(3)},
		[]Edge{
			{From: 1, To: 2, Relation: RelationChild},
			{From: 2, To: 3, Relation: RelationChild},
			{From: 3, To: 1, Relation: RelationChild},
		},
	)
	s := Score(g)

	// Each node: 2 descendants, 1 child, 1 parent -> 2*2 + 2 = 6.
	for id := int64(1); id <= 3; id++ {
		if s.Node[id] != 6 {
			t.Errorf("Node[%d] = %v, want 6", id, s.Node[id])
		}
	}
}

func TestScore_SelfLoop(t *testing.T) {
	g := Build(
		[]Node{node(1)},
		[]Edge{{From: 1, To: 1, Relation: RelationChild}},
	)
	s := Score(g)

	// Self-loop contributes no descendants but counts as one child edge:
	// the node is both its own child and its own parent.
	if s.Node[1] != 2 {
		t.Errorf("Node[1] = %v, want 2", s.Node[1])
	}
}

func TestScore_QueueEdgesCount(t *testing.T) {
	g := Build(
		[]Node{node(1), node(2)},
		[]Edge{{From: 1, To: 2, Relation: RelationQueue}},
	)
	s := Score(g)

	// Queue edges add to direct connections but never to descendants.
	if s.Node[1] != 1 {
		t.Errorf("Node[1] = %v, want 1", s.Node[1])
	}
	// Queue-in does not feed node importance for node 2.
	if s.Node[2] != 0 {
		t.Errorf("Node[2] = %v, want 0", s.Node[2])
	}
	if got := s.Edge[EdgeKey{From: 1, To: 2}]; got != 0.5 {
		t.Errorf("Edge[1->2] = %v, want 0.5", got)
	}
}
