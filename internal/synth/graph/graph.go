// Package graph builds the proximity graph that routes are searched over:
// two waypoints are connected when they are within a maximum jump
// distance of each other.
//
// Every ordered pair of distinct waypoints is tested, so construction is
// quadratic in the number of waypoints. That is fine for the hundreds of
// waypoints of a national dataset; for much larger sets, Builder.Indexed
// narrows the candidates with a spatial index first.
package graph

import (
	"flightplan-synth/pkg/types"
	"slices"

	"golang.org/x/sync/errgroup"
)

const DefaultMaxJumpKm = 70

type Edge struct {
	To         string
	DistanceKm float64
}

// Graph maps a node id to its neighbors, in ascending id order. Every
// node passed to Build has an entry, even if it has no neighbors. A Graph
// is never modified after Build returns.
type Graph map[string][]Edge

func (g Graph) Neighbors(id string) []Edge {
	return g[id]
}

// Edge returns the weight of the edge from u to v.
func (g Graph) Edge(u, v string) (float64, bool) {
	for _, e := range g[u] {
		if e.To == v {
			return e.DistanceKm, true
		}
	}
	return 0, false
}

func (g Graph) EdgeCount() int {
	n := 0
	for _, edges := range g {
		n += len(edges)
	}
	return n
}

// Reporter is told about each waypoint once its neighbors have been
// found. With more than one worker it is called concurrently.
type Reporter interface {
	Processed(id string, done, total int)
}

type ReporterFunc func(id string, done, total int)

func (f ReporterFunc) Processed(id string, done, total int) { f(id, done, total) }

type Builder struct {
	MaxJumpKm float64 // DefaultMaxJumpKm if zero
	Workers   int     // 1 if zero
	Indexed   bool
	Reporter  Reporter
}

// Build returns the proximity graph over the given waypoints.
func (b *Builder) Build(waypoints map[string]types.LatLong) Graph {
	maxJump := b.MaxJumpKm
	if maxJump == 0 {
		maxJump = DefaultMaxJumpKm
	}
	workers := max(b.Workers, 1)

	ids := make([]string, 0, len(waypoints))
	for id := range waypoints {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	candidates := func(string) []string { return ids }
	if b.Indexed {
		candidates = newCandidateIndex(waypoints, ids, maxJump).candidates
	}

	progress := newProgress(b.Reporter, len(ids))

	// Each worker owns a contiguous run of the sorted ids and writes only
	// to its own map; the maps are merged once all workers are done.
	chunk := (len(ids) + workers - 1) / workers
	parts := make([]Graph, 0, workers)
	var eg errgroup.Group
	for start := 0; start < len(ids); start += chunk {
		part := make(Graph)
		parts = append(parts, part)
		outer := ids[start:min(start+chunk, len(ids))]
		eg.Go(func() error {
			for _, u := range outer {
				pu := waypoints[u]
				edges := []Edge{}
				for _, v := range candidates(u) {
					if v == u {
						continue
					}
					if d := pu.DistanceTo(waypoints[v]); d <= maxJump {
						edges = append(edges, Edge{To: v, DistanceKm: d})
					}
				}
				part[u] = edges
				progress.done(u)
			}
			return nil
		})
	}
	_ = eg.Wait()

	g := make(Graph, len(ids))
	for _, part := range parts {
		for u, edges := range part {
			g[u] = edges
		}
	}
	return g
}
