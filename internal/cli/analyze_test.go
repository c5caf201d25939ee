package cli

import (
	"slices"
	"testing"

	"github.com/goalgraph/goalgraph/pkg/graph"
)

func TestParseIDList(t *testing.T) {
	ids, err := parseIDList("1, 2,3")
	if err != nil {
		t.Fatalf("parseIDList error: %v", err)
	}
	if !slices.Equal(ids, []int64{1, 2, 3}) {
		t.Errorf("ids = %v, want [1 2 3]", ids)
	}

	if _, err := parseIDList("1,x"); err == nil {
		t.Error("parseIDList should reject non-numeric ids")
	}

	ids, err = parseIDList("4,,5")
	if err != nil {
		t.Fatalf("parseIDList error: %v", err)
	}
	if !slices.Equal(ids, []int64{4, 5}) {
		t.Errorf("ids = %v, want [4 5] (empty parts skipped)", ids)
	}
}

func TestGoalLabel(t *testing.T) {
	g := graph.Build([]graph.Node{
		{ID: 1, Name: "ship it", Kind: graph.KindProject},
		{ID: 2, Kind: graph.KindTask},
	}, nil)

	if got := goalLabel(g, 1); got != "ship it (#1)" {
		t.Errorf("goalLabel(1) = %q", got)
	}
	if got := goalLabel(g, 2); got != "#2" {
		t.Errorf("goalLabel(2) = %q, want bare id for unnamed goal", got)
	}
	if got := goalLabel(g, 99); got != "#99" {
		t.Errorf("goalLabel(99) = %q, want bare id for unknown goal", got)
	}
}
