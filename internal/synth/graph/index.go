package graph

import (
	"flightplan-synth/pkg/types"
	"math"
	"slices"

	"github.com/hailocab/go-geoindex"
)

const earthRadiusKm = 6371

// candidateIndex narrows each waypoint's candidate neighbors to those in
// a lat/long box that contains every point within the jump distance.
// Candidates are still tested with the exact distance, so the graph is
// the same as the brute-force one.
type candidateIndex struct {
	index   *geoindex.PointsIndex
	pos     map[string]types.LatLong
	all     []string
	maxJump float64
}

func newCandidateIndex(waypoints map[string]types.LatLong, ids []string, maxJump float64) *candidateIndex {
	idx := geoindex.NewPointsIndex(geoindex.Km(maxJump))
	for _, id := range ids {
		p := waypoints[id]
		idx.Add(&geoindex.GeoPoint{Pid: id, Plat: p.Lat, Plon: p.Lon})
	}
	return &candidateIndex{index: idx, pos: waypoints, all: ids, maxJump: maxJump}
}

func (ci *candidateIndex) candidates(id string) []string {
	p := ci.pos[id]
	delta := ci.maxJump / earthRadiusKm // angular radius

	// Pad the box by 1% so that boundary rounding can't drop a neighbor.
	dLat := 1.01 * delta * 180 / math.Pi
	north, south := p.Lat+dLat, p.Lat-dLat
	if north >= 90 || south <= -90 {
		return ci.all
	}
	s := math.Sin(delta) / math.Cos(p.Lat*math.Pi/180)
	if s >= 1 {
		return ci.all
	}
	dLon := 1.01 * math.Asin(s) * 180 / math.Pi
	west, east := p.Lon-dLon, p.Lon+dLon
	if west < -180 || east > 180 {
		// The box would wrap around the antimeridian.
		return ci.all
	}

	points := ci.index.Range(&geoindex.GeoPoint{Plat: north, Plon: west}, &geoindex.GeoPoint{Plat: south, Plon: east})
	ids := make([]string, 0, len(points))
	for _, pt := range points {
		ids = append(ids, pt.Id())
	}
	slices.Sort(ids)
	return ids
}
