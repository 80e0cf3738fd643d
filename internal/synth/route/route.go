package route

import (
	"container/heap"
	"flightplan-synth/internal/rand"
	"flightplan-synth/internal/synth/graph"
	"math"
)

// Path is a sequence of node ids from the start node to the end node.
type Path []string

type Options struct {
	// Randomize perturbs every edge weight by a uniform factor in
	// [1-DiversionFactor, 1+DiversionFactor] so that searches return
	// plausible diverted routes rather than the shortest one.
	Randomize       bool
	DiversionFactor float64
	// Rand is required when Randomize is set.
	Rand *rand.Rand
}

// Search finds a route from start to end.
//
// Without Options.Randomize this is Dijkstra's algorithm and the returned
// path is a minimum-cost one. Frontier entries with equal cost are taken
// in the order they were pushed, so which of several equal-cost paths is
// returned depends on neighbor order.
//
// With Options.Randomize the same loop runs, but the weight of an edge is
// perturbed afresh each time the edge is relaxed; the same edge can have
// different weights within one search. The result is a connected path
// through the graph with no optimality guarantee under any fixed
// weighting. The returned cost is the sum of the perturbed weights along
// the path.
//
// If end can't be reached, Search returns ErrNoRoute with a nil path and
// an infinite cost. A start that isn't in the graph is treated as a node
// without edges.
func Search(g graph.Graph, start, end string, opts Options) (Path, float64, error) {
	if opts.Randomize && opts.Rand == nil {
		return nil, math.Inf(1), ErrNoRand
	}

	pred := make(map[string]string)
	visited := make(map[string]bool)
	q := &frontier{}
	q.push(start, "", 0)

	for q.Len() > 0 {
		it := heap.Pop(q).(*item)
		if visited[it.node] {
			continue
		}
		visited[it.node] = true
		if it.node != start {
			pred[it.node] = it.from
		}

		if it.node == end {
			return backtrack(pred, start, end), it.cost, nil
		}

		for _, e := range g.Neighbors(it.node) {
			if visited[e.To] {
				continue
			}
			w := e.DistanceKm
			if opts.Randomize {
				w *= opts.Rand.Uniform(1-opts.DiversionFactor, 1+opts.DiversionFactor)
			}
			q.push(e.To, it.node, it.cost+w)
		}
	}

	return nil, math.Inf(1), ErrNoRoute
}

func backtrack(pred map[string]string, start, end string) Path {
	var p Path
	for n := end; n != start; n = pred[n] {
		p = append(p, n)
	}
	p = append(p, start)
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
	return p
}

// Cost sums the graph weights along p; ok is false if some consecutive
// pair isn't an edge.
func Cost(g graph.Graph, p Path) (cost float64, ok bool) {
	for i := 1; i < len(p); i++ {
		w, found := g.Edge(p[i-1], p[i])
		if !found {
			return math.Inf(1), false
		}
		cost += w
	}
	return cost, true
}

// TrimAirports returns start, then the interior of p without any node
// for which isAirport is true, then end. Routes may pass through airports
// that are also graph nodes; only the endpoints may be airports in a
// filed plan.
func TrimAirports(p Path, start, end string, isAirport func(string) bool) Path {
	t := Path{start}
	if len(p) > 2 {
		for _, id := range p[1 : len(p)-1] {
			if !isAirport(id) {
				t = append(t, id)
			}
		}
	}
	return append(t, end)
}
