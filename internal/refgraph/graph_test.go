package refgraph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddEdge(t *testing.T) {
	g := New(3)
	g.AddEdge(0, 1)
	g.AddEdge(0, 1) // duplicate
	g.AddEdge(1, 1) // self-loop ignored
	g.AddEdge(5, 0) // out of range ignored
	g.AddEdge(0, -1)

	want := [][2]int{{0, 1}}
	if diff := cmp.Diff(want, g.Edges()); diff != "" {
		t.Errorf("Edges() mismatch (-want +got):\n%s", diff)
	}
}

func TestReciprocalNodes(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges [][2]int
		want  []int
	}{
		{
			name:  "no_edges",
			n:     3,
			edges: nil,
			want:  []int{},
		},
		{
			name:  "one_way_only",
			n:     3,
			edges: [][2]int{{0, 1}, {1, 2}},
			want:  []int{},
		},
		{
			name:  "mutual_pair",
			n:     3,
			edges: [][2]int{{0, 1}, {1, 0}, {2, 0}},
			want:  []int{0, 1},
		},
		{
			name:  "long_cycle_not_reciprocal",
			n:     3,
			edges: [][2]int{{0, 1}, {1, 2}, {2, 0}},
			want:  []int{},
		},
		{
			name:  "two_pairs",
			n:     4,
			edges: [][2]int{{0, 1}, {1, 0}, {2, 3}, {3, 2}},
			want:  []int{0, 1, 2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.n)
			for _, e := range tt.edges {
				g.AddEdge(e[0], e[1])
			}
			got := g.ReciprocalNodes()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ReciprocalNodes() mismatch (-want +got):\n%s", diff)
			}
			if want := len(tt.want) > 0; g.HasReciprocalEdge() != want {
				t.Errorf("HasReciprocalEdge() = %v, want %v", !want, want)
			}
		})
	}
}

func TestTopoOrder(t *testing.T) {
	// 2 -> 0, 2 -> 1, 0 -> 1
	g := New(3)
	g.AddEdge(2, 0)
	g.AddEdge(2, 1)
	g.AddEdge(0, 1)

	order, ok := g.TopoOrder()
	if !ok {
		t.Fatal("expected complete order")
	}
	pos := make(map[int]int, len(order))
	for i, node := range order {
		pos[node] = i
	}
	for _, e := range g.Edges() {
		if pos[e[0]] >= pos[e[1]] {
			t.Errorf("edge %v not respected in order %v", e, order)
		}
	}
}

func TestTopoOrderCycle(t *testing.T) {
	g := New(3)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(2, 0)

	order, ok := g.TopoOrder()
	if ok {
		t.Fatalf("expected incomplete order for cyclic graph, got %v", order)
	}
	if len(order) >= 3 {
		t.Errorf("cyclic graph produced full order: %v", order)
	}
}

func TestReversed(t *testing.T) {
	g := New(2)
	g.AddEdge(0, 1)
	r := g.Reversed()
	if !r.HasEdge(1, 0) || r.HasEdge(0, 1) {
		t.Errorf("Reversed() edges wrong: %v", r.Edges())
	}
}
