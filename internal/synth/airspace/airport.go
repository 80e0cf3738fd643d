package airspace

import (
	"flightplan-synth/pkg/types"
	"sync"

	"github.com/mmcloughlin/openflights"
)

func (as *Airspace) AddAirport(id string, altitudeM float64) {
	if _, ok := as.Airports[id]; !ok {
		as.AirportOrder = append(as.AirportOrder, id)
	}
	as.Airports[id] = &types.Airport{ID: id, AltitudeM: altitudeM}
}

func (as *Airspace) IsAirport(id string) bool {
	_, ok := as.Airports[id]
	return ok
}

// UnroutableAirports returns the airports with no position in the
// waypoint set; a graph built from this airspace cannot reach them.
func (as *Airspace) UnroutableAirports() []string {
	var ids []string
	for _, id := range as.AirportOrder {
		if _, ok := as.Waypoints[id]; !ok {
			ids = append(ids, id)
		}
	}
	return ids
}

var (
	openflightsOnce   sync.Once
	openflightsByICAO map[string]types.LatLong
)

func openflightsIndex() map[string]types.LatLong {
	openflightsOnce.Do(func() {
		openflightsByICAO = make(map[string]types.LatLong)
		for _, ap := range openflights.Airports {
			if ap.ICAO != "" {
				openflightsByICAO[ap.ICAO] = types.NewLatLong(ap.Latitude, ap.Longitude)
			}
		}
	})
	return openflightsByICAO
}

// ResolveAirportsFromOpenFlights gives each unroutable airport the
// position of the openflights airport with the same ICAO code. It returns
// the ids that were resolved and those that remain unroutable.
func (as *Airspace) ResolveAirportsFromOpenFlights() (resolved, missing []string) {
	idx := openflightsIndex()
	for _, id := range as.UnroutableAirports() {
		if pos, ok := idx[id]; ok {
			as.AddWaypoint(id, pos)
			resolved = append(resolved, id)
		} else {
			missing = append(missing, id)
		}
	}
	return
}
