package graph

import (
	"math"
	"slices"
	"testing"
)

func node(id int64) Node { return Node{ID: id, Kind: KindProject} }

func TestBuild_Adjacency(t *testing.T) {
	g := Build(
		[]Node{node(1), node(2), node(3)},
		[]Edge{
			{From: 1, To: 2, Relation: RelationChild},
			{From: 1, To: 3, Relation: RelationChild},
			{From: 2, To: 3, Relation: RelationQueue},
		},
	)

	if !slices.Equal(g.Children(1), []int64{2, 3}) {
		t.Errorf("Children(1) = %v, want [2 3]", g.Children(1))
	}
	if !slices.Equal(g.Parents(3), []int64{1}) {
		t.Errorf("Parents(3) = %v, want [1]", g.Parents(3))
	}
	if !slices.Equal(g.QueueOut(2), []int64{3}) {
		t.Errorf("QueueOut(2) = %v, want [3]", g.QueueOut(2))
	}
	if !slices.Equal(g.QueueIn(3), []int64{2}) {
		t.Errorf("QueueIn(3) = %v, want [2]", g.QueueIn(3))
	}
	if len(g.Children(2)) != 0 {
		t.Errorf("queue edge must not populate child adjacency, got %v", g.Children(2))
	}
}

func TestBuild_DropsDanglingEdges(t *testing.T) {
	g := Build(
		[]Node{node(1), node(2)},
		[]Edge{
			{From: 1, To: 2, Relation: RelationChild},
			{From: 1, To: 99, Relation: RelationChild},
			{From: 99, To: 2, Relation: RelationQueue},
		},
	)

	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if len(g.Children(1)) != 1 || g.Children(1)[0] != 2 {
		t.Errorf("Children(1) = %v, want [2]", g.Children(1))
	}
}

func TestBuild_MergesDuplicateEdges(t *testing.T) {
	g := Build(
		[]Node{node(1), node(2)},
		[]Edge{
			{From: 1, To: 2, Relation: RelationChild},
			{From: 1, To: 2, Relation: RelationChild},
			{From: 1, To: 2, Relation: RelationQueue},
		},
	)

	// Same ordered pair under a different relation is a distinct edge.
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	if len(g.Children(1)) != 1 {
		t.Errorf("Children(1) = %v, want single entry", g.Children(1))
	}
}

func TestBuild_DropsUnknownRelation(t *testing.T) {
	g := Build(
		[]Node{node(1), node(2)},
		[]Edge{{From: 1, To: 2, Relation: Relation("friend")}},
	)
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
}

func TestBuild_KeepsSelfLoop(t *testing.T) {
	g := Build(
		[]Node{node(1)},
		[]Edge{{From: 1, To: 1, Relation: RelationChild}},
	)
	if !slices.Equal(g.Children(1), []int64{1}) {
		t.Errorf("Children(1) = %v, want [1]", g.Children(1))
	}
}

func TestBuild_DuplicateNodes(t *testing.T) {
	g := Build(
		[]Node{
			{ID: 1, Kind: KindProject, Name: "old"},
			{ID: 1, Kind: KindProject, Name: "new"},
		},
		nil,
	)
	if g.NodeCount() != 1 {
		t.Fatalf("NodeCount() = %d, want 1", g.NodeCount())
	}
	if g.Node(1).Name != "new" {
		t.Errorf("Node(1).Name = %q, want %q (last record wins)", g.Node(1).Name, "new")
	}
}

func TestBuild_InvalidPositionTreatedAsAbsent(t *testing.T) {
	nan := Point{X: math.NaN(), Y: 0}
	g := Build([]Node{{ID: 1, Kind: KindTask, Position: &nan}}, nil)

	if g.Node(1).Position != nil {
		t.Error("NaN position should be discarded during Build")
	}
	if len(g.PriorPositions()) != 0 {
		t.Error("PriorPositions() should not include invalid positions")
	}
}

func TestPriorPositions(t *testing.T) {
	g := Build([]Node{
		{ID: 1, Kind: KindProject, Position: &Point{X: 10, Y: -20}},
		{ID: 2, Kind: KindProject},
	}, nil)

	prior := g.PriorPositions()
	if len(prior) != 1 {
		t.Fatalf("len(PriorPositions()) = %d, want 1", len(prior))
	}
	if p := prior[1]; p.X != 10 || p.Y != -20 {
		t.Errorf("prior[1] = %+v, want {10 -20}", p)
	}
}

func TestNeighbors(t *testing.T) {
	g := Build(
		[]Node{node(1), node(2), node(3), node(4)},
		[]Edge{
			{From: 1, To: 2, Relation: RelationChild},
			{From: 3, To: 2, Relation: RelationQueue},
			{From: 2, To: 4, Relation: RelationChild},
		},
	)
	if got := g.Neighbors(2); !slices.Equal(got, []int64{1, 3, 4}) {
		t.Errorf("Neighbors(2) = %v, want [1 3 4]", got)
	}
}

func TestValidateRelationship(t *testing.T) {
	if _, err := ValidateRelationship(1, 2, "child"); err != nil {
		t.Errorf("valid relationship rejected: %v", err)
	}
	if _, err := ValidateRelationship(1, 1, "child"); err == nil {
		t.Error("self-relationship should be rejected")
	}
	if _, err := ValidateRelationship(1, 2, "parent"); err == nil {
		t.Error("unknown relation kind should be rejected")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := Snapshot{
		Nodes: []Node{
			{ID: 1, Name: "learn go", Kind: KindProject, Position: &Point{X: 1, Y: 2}},
			{ID: 2, Name: "ship it", Kind: KindAchievement, Completed: true},
		},
		Edges: []Edge{{From: 1, To: 2, Relation: RelationQueue}},
	}

	data, err := MarshalSnapshot(s)
	if err != nil {
		t.Fatalf("MarshalSnapshot: %v", err)
	}
	back, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot: %v", err)
	}

	g := back.Build()
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("round-tripped graph has %d nodes / %d edges, want 2 / 1",
			g.NodeCount(), g.EdgeCount())
	}
	if g.Node(1).Position == nil || g.Node(1).Position.X != 1 {
		t.Error("round-trip lost the stored position")
	}
}
