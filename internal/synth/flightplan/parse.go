package flightplan

import (
	"bufio"
	"flightplan-synth/pkg/types"
	"io"
	"strconv"
	"strings"
	"time"
)

// Parse reads plans in the text form written by FlightPlan.String. A line
// with four fields starts a new plan; a line with three fields adds a
// segment to the current one. Anything else, including segments before
// the first valid header, is skipped.
func Parse(r io.Reader) ([]*FlightPlan, error) {
	var plans []*FlightPlan
	var cur *FlightPlan

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		f := strings.Split(line, ",")
		for i := range f {
			f[i] = strings.TrimSpace(f[i])
		}

		switch len(f) {
		case 4:
			cur = nil
			dep, err := time.Parse(time.TimeOnly, f[0])
			if err != nil {
				continue
			}
			cur = &FlightPlan{
				Departure:    dep,
				Airline:      f[1],
				Callsign:     types.AircraftID(f[2]),
				AircraftType: f[3],
			}
			plans = append(plans, cur)

		case 3:
			if cur == nil {
				continue
			}
			if seg, ok := parseSegment(f); ok {
				cur.Route = append(cur.Route, seg)
				if seg.Endpoint {
					if cur.OriginAirportID == "" {
						cur.OriginAirportID = seg.WaypointName
					} else {
						cur.DestinationAirportID = seg.WaypointName
					}
				}
			}
		}
	}
	return plans, sc.Err()
}

func parseSegment(f []string) (FlightPlanSegment, bool) {
	seg := FlightPlanSegment{WaypointName: f[0]}
	spd, err := strconv.Atoi(f[2])
	if err != nil {
		return seg, false
	}
	seg.Speed = spd

	if lvl, ok := strings.CutPrefix(f[1], "FL"); ok {
		fl, err := strconv.Atoi(lvl)
		if err != nil {
			return seg, false
		}
		seg.FlightLevel = fl
	} else if alt, ok := strings.CutSuffix(f[1], "m"); ok {
		m, err := strconv.ParseFloat(alt, 64)
		if err != nil {
			return seg, false
		}
		seg.AltitudeM = m
		seg.Endpoint = true
	} else {
		return seg, false
	}
	return seg, true
}
