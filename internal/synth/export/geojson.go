package export

import (
	"flightplan-synth/internal/synth/flightplan"
	"flightplan-synth/pkg/types"
	"os"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection returns one LineString feature per plan, through the
// fixes position can locate. Plans with fewer than two located fixes are
// left out.
func FeatureCollection(plans []*flightplan.FlightPlan, position func(string) (types.LatLong, bool)) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, fp := range plans {
		var ls orb.LineString
		var fixes []string
		var levels, speeds []int
		for _, seg := range fp.Route {
			p, ok := position(seg.WaypointName)
			if !ok {
				continue
			}
			ls = append(ls, orb.Point{p.Lon, p.Lat})
			fixes = append(fixes, seg.WaypointName)
			levels = append(levels, int(seg.AltitudeFt()/100))
			speeds = append(speeds, seg.Speed)
		}
		if len(ls) < 2 {
			continue
		}

		f := geojson.NewFeature(ls)
		f.ID = string(fp.Callsign)
		f.Properties["callsign"] = string(fp.Callsign)
		f.Properties["airline"] = fp.Airline
		f.Properties["aircraft_type"] = fp.AircraftType
		f.Properties["departure"] = fp.Departure.Format(time.TimeOnly)
		f.Properties["origin"] = fp.OriginAirportID
		f.Properties["destination"] = fp.DestinationAirportID
		f.Properties["fixes"] = fixes
		f.Properties["flight_levels"] = levels
		f.Properties["speeds"] = speeds
		fc.Append(f)
	}
	return fc
}

func WriteGeoJSON(path string, plans []*flightplan.FlightPlan, position func(string) (types.LatLong, bool)) error {
	b, err := FeatureCollection(plans, position).MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
