package airspace

import (
	"bufio"
	"flightplan-synth/pkg/types"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Airspace holds the waypoint and airport sets for one run. Both are
// read-only once loading is done.
type Airspace struct {
	Waypoints map[string]*types.Waypoint
	Airports  map[string]*types.Airport

	// First-seen order of the ids; draws index into these so that seeded
	// runs are reproducible.
	WaypointOrder []string
	AirportOrder  []string
}

func NewAirspace() *Airspace {
	return &Airspace{
		Waypoints: make(map[string]*types.Waypoint),
		Airports:  make(map[string]*types.Airport),
	}
}

// AddWaypoint adds or replaces a waypoint; a replacement keeps the
// original position in WaypointOrder.
func (as *Airspace) AddWaypoint(name string, pos types.LatLong) {
	if _, ok := as.Waypoints[name]; !ok {
		as.WaypointOrder = append(as.WaypointOrder, name)
	}
	as.Waypoints[name] = &types.Waypoint{Name: name, Position: pos}
}

func (as *Airspace) Position(id string) (types.LatLong, bool) {
	if wp, ok := as.Waypoints[id]; ok {
		return wp.Position, true
	}
	return types.LatLong{}, false
}

// Coordinates returns the id → position mapping the graph builder consumes.
func (as *Airspace) Coordinates() map[string]types.LatLong {
	m := make(map[string]types.LatLong, len(as.Waypoints))
	for name, wp := range as.Waypoints {
		m[name] = wp.Position
	}
	return m
}

// LoadWaypoints reads name,lat,lon records. Records without exactly three
// fields or with unparsable coordinates are skipped; the number skipped
// is returned alongside the number added.
func (as *Airspace) LoadWaypoints(r io.Reader) (added, skipped int, err error) {
	err = scanRecords(r, func(fields []string) bool {
		if len(fields) != 3 {
			return false
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return false
		}
		lon, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return false
		}
		as.AddWaypoint(fields[0], types.NewLatLong(lat, lon))
		return true
	}, &added, &skipped)
	return
}

// LoadAirports reads id,altitude_m records with the same lossy rules as
// LoadWaypoints.
func (as *Airspace) LoadAirports(r io.Reader) (added, skipped int, err error) {
	err = scanRecords(r, func(fields []string) bool {
		if len(fields) != 2 {
			return false
		}
		alt, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return false
		}
		as.AddAirport(fields[0], alt)
		return true
	}, &added, &skipped)
	return
}

func scanRecords(r io.Reader, add func([]string) bool, added, skipped *int) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if add(fields) {
			*added++
		} else {
			*skipped++
		}
	}
	return sc.Err()
}

// Load reads the waypoint and airport files into a new Airspace.
func Load(waypointsPath, airportsPath string) (*Airspace, error) {
	as := NewAirspace()

	f, err := os.Open(waypointsPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if _, _, err := as.LoadWaypoints(f); err != nil {
		return nil, fmt.Errorf("%s: %w", waypointsPath, err)
	}

	af, err := os.Open(airportsPath)
	if err != nil {
		return nil, err
	}
	defer af.Close()
	if _, _, err := as.LoadAirports(af); err != nil {
		return nil, fmt.Errorf("%s: %w", airportsPath, err)
	}

	return as, nil
}
