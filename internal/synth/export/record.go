package export

import (
	"flightplan-synth/internal/synth/flightplan"
	"time"
)

// PlanRecord is the structured form of a plan served over JSON and
// msgpack.
type PlanRecord struct {
	Departure    string      `json:"departure" msgpack:"departure"`
	Airline      string      `json:"airline" msgpack:"airline"`
	Callsign     string      `json:"callsign" msgpack:"callsign"`
	AircraftType string      `json:"aircraft_type" msgpack:"aircraft_type"`
	Origin       string      `json:"origin" msgpack:"origin"`
	Destination  string      `json:"destination" msgpack:"destination"`
	Route        []FixRecord `json:"route" msgpack:"route"`
}

type FixRecord struct {
	Fix         string  `json:"fix" msgpack:"fix"`
	FlightLevel int     `json:"flight_level,omitempty" msgpack:"flight_level,omitempty"`
	AltitudeM   float64 `json:"altitude_m,omitempty" msgpack:"altitude_m,omitempty"`
	Speed       int     `json:"speed" msgpack:"speed"`
	Endpoint    bool    `json:"endpoint,omitempty" msgpack:"endpoint,omitempty"`
}

func NewPlanRecord(fp *flightplan.FlightPlan) PlanRecord {
	rec := PlanRecord{
		Departure:    fp.Departure.Format(time.TimeOnly),
		Airline:      fp.Airline,
		Callsign:     string(fp.Callsign),
		AircraftType: fp.AircraftType,
		Origin:       fp.OriginAirportID,
		Destination:  fp.DestinationAirportID,
		Route:        make([]FixRecord, len(fp.Route)),
	}
	for i, seg := range fp.Route {
		rec.Route[i] = FixRecord{
			Fix:         seg.WaypointName,
			FlightLevel: seg.FlightLevel,
			AltitudeM:   seg.AltitudeM,
			Speed:       seg.Speed,
			Endpoint:    seg.Endpoint,
		}
	}
	return rec
}

func PlanRecords(plans []*flightplan.FlightPlan) []PlanRecord {
	recs := make([]PlanRecord, len(plans))
	for i, fp := range plans {
		recs[i] = NewPlanRecord(fp)
	}
	return recs
}
