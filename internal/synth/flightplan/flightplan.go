package flightplan

import (
	"flightplan-synth/pkg/types"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	FEET_PER_METER        = 3.28084
	METERS_PER_SEC_PER_KT = 0.514444

	DefaultAircraftType = "A320"
)

// FlightPlanSegment is one line of a plan: a fix with the flight level
// (or, at the departure and arrival airports, the ground altitude) and
// speed planned there.
type FlightPlanSegment struct {
	WaypointName string
	FlightLevel  int
	AltitudeM    float64
	Speed        int // knots
	Endpoint     bool
}

// AltitudeFt returns the planned altitude in feet.
func (s FlightPlanSegment) AltitudeFt() float64 {
	if s.Endpoint {
		return s.AltitudeM * FEET_PER_METER
	}
	return float64(s.FlightLevel) * 100
}

func (s FlightPlanSegment) String() string {
	if s.Endpoint {
		return fmt.Sprintf("%s,%dm,%d", s.WaypointName, int(math.Round(s.AltitudeM)), s.Speed)
	}
	return fmt.Sprintf("%s,FL%d,%d", s.WaypointName, s.FlightLevel, s.Speed)
}

type FlightPlan struct {
	Departure            time.Time // only the time of day is used
	Airline              string
	Callsign             types.AircraftID
	AircraftType         string
	OriginAirportID      string
	DestinationAirportID string
	Route                []FlightPlanSegment // departure airport first, arrival airport last
}

// String returns the plan in its text form: a header line followed by one
// line per segment, with no trailing newline.
func (fp *FlightPlan) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s,%s,%s,%s", fp.Departure.Format(time.TimeOnly), fp.Airline, fp.Callsign, fp.AircraftType)
	for _, seg := range fp.Route {
		sb.WriteByte('\n')
		sb.WriteString(seg.String())
	}
	return sb.String()
}

func (fp *FlightPlan) Fixes() []string {
	fixes := make([]string, len(fp.Route))
	for i, seg := range fp.Route {
		fixes[i] = seg.WaypointName
	}
	return fixes
}

// Duration returns the time to fly the plan, taking each leg at the speed
// planned at its first fix. Legs with a fix that position doesn't know,
// or with no speed, are skipped.
func (fp *FlightPlan) Duration(position func(string) (types.LatLong, bool)) time.Duration {
	var secs float64
	for i := 1; i < len(fp.Route); i++ {
		from, to := fp.Route[i-1], fp.Route[i]
		p0, ok0 := position(from.WaypointName)
		p1, ok1 := position(to.WaypointName)
		if !ok0 || !ok1 || from.Speed <= 0 {
			continue
		}
		secs += p0.DistanceTo(p1) * 1000 / (float64(from.Speed) * METERS_PER_SEC_PER_KT)
	}
	return time.Duration(secs * float64(time.Second))
}

// Format returns the text of a batch of plans, one after the other, with
// a newline after each.
func Format(plans []*FlightPlan) string {
	var sb strings.Builder
	for _, fp := range plans {
		sb.WriteString(fp.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
