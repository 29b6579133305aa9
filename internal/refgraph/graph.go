// Package refgraph models the directed answer-reference graph built over a
// question set. Nodes are question indices; an edge i -> j means question
// i's text mentions question j's answer.
package refgraph

import "sort"

// Graph is a directed graph over a fixed set of integer nodes [0, n).
type Graph struct {
	n   int
	adj []map[int]struct{}
}

// New creates an empty graph with n nodes and no edges.
func New(n int) *Graph {
	adj := make([]map[int]struct{}, n)
	for i := range adj {
		adj[i] = make(map[int]struct{})
	}
	return &Graph{n: n, adj: adj}
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return g.n }

// AddEdge adds the directed edge from -> to. Self-loops and out-of-range
// nodes are ignored.
func (g *Graph) AddEdge(from, to int) {
	if from == to || from < 0 || to < 0 || from >= g.n || to >= g.n {
		return
	}
	g.adj[from][to] = struct{}{}
}

// HasEdge reports whether the directed edge from -> to exists.
func (g *Graph) HasEdge(from, to int) bool {
	if from < 0 || from >= g.n {
		return false
	}
	_, ok := g.adj[from][to]
	return ok
}

// Edges returns every edge as (from, to) pairs in deterministic order.
func (g *Graph) Edges() [][2]int {
	var edges [][2]int
	for from, targets := range g.adj {
		for to := range targets {
			edges = append(edges, [2]int{from, to})
		}
	}
	sort.Slice(edges, func(a, b int) bool {
		if edges[a][0] != edges[b][0] {
			return edges[a][0] < edges[b][0]
		}
		return edges[a][1] < edges[b][1]
	})
	return edges
}

// ReciprocalNodes returns, in ascending order, every node that participates
// in at least one mutual edge pair (i -> j and j -> i). Mutual pairs are the
// only cycle shape the resolver repairs; longer cycles are handled by the
// orderer's fallback.
func (g *Graph) ReciprocalNodes() []int {
	seen := make(map[int]struct{})
	for i := 0; i < g.n; i++ {
		for j := range g.adj[i] {
			if g.HasEdge(j, i) {
				seen[i] = struct{}{}
				seen[j] = struct{}{}
			}
		}
	}
	nodes := make([]int, 0, len(seen))
	for node := range seen {
		nodes = append(nodes, node)
	}
	sort.Ints(nodes)
	return nodes
}

// HasReciprocalEdge reports whether any mutual edge pair exists.
func (g *Graph) HasReciprocalEdge() bool {
	for i := 0; i < g.n; i++ {
		for j := range g.adj[i] {
			if g.HasEdge(j, i) {
				return true
			}
		}
	}
	return false
}

// Reversed returns a new graph with every edge direction flipped.
func (g *Graph) Reversed() *Graph {
	r := New(g.n)
	for from, targets := range g.adj {
		for to := range targets {
			r.AddEdge(to, from)
		}
	}
	return r
}

// TopoOrder runs Kahn's algorithm and returns a topological order of the
// nodes. The second return value is false when the order is incomplete,
// which means a cycle survived; callers fall back to their original order
// in that case.
func (g *Graph) TopoOrder() ([]int, bool) {
	inDegree := make([]int, g.n)
	for _, targets := range g.adj {
		for to := range targets {
			inDegree[to]++
		}
	}

	var queue []int
	for i := 0; i < g.n; i++ {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]int, 0, g.n)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		// Deterministic dequeue-neighbor order keeps test output stable.
		targets := make([]int, 0, len(g.adj[current]))
		for to := range g.adj[current] {
			targets = append(targets, to)
		}
		sort.Ints(targets)
		for _, to := range targets {
			inDegree[to]--
			if inDegree[to] == 0 {
				queue = append(queue, to)
			}
		}
	}

	return order, len(order) == g.n
}
