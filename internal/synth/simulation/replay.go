package simulation

import (
	"flightplan-synth/internal/synth/aircraft"
	"flightplan-synth/internal/synth/conflict"
	"flightplan-synth/internal/synth/flightplan"
	"flightplan-synth/pkg/types"
	"time"
)

// ConflictLookahead is how far ahead the replay predicts losses of
// separation.
const ConflictLookahead = 2 * time.Minute

type flight struct {
	ac  *aircraft.Aircraft
	dep time.Time
}

// DetectConflicts flies all plans on a common clock, sampled every step,
// and reports each pair's losses of separation under minima. A pair that
// separates and closes again gets a second report. Each report notes the
// first sample at which its loss was predicted within ConflictLookahead. Plans with fewer than
// two fixes known to position are left out.
func DetectConflicts(plans []*flightplan.FlightPlan, position func(string) (types.LatLong, bool),
	step time.Duration, minima conflict.Minima) []*conflict.Report {
	if step <= 0 {
		step = 10 * time.Second
	}

	var flights []flight
	for _, fp := range plans {
		if ac, err := aircraft.NewAircraft(fp, position); err == nil {
			flights = append(flights, flight{ac: ac, dep: fp.Departure})
		}
	}
	if len(flights) == 0 {
		return nil
	}

	t := flights[0].dep
	for _, f := range flights[1:] {
		if f.dep.Before(t) {
			t = f.dep
		}
	}

	var reports []*conflict.Report
	open := make(map[[2]int]*conflict.Report)
	warned := make(map[[2]int]time.Time)
	for {
		active := 0
		for _, f := range flights {
			if f.ac.Phase == aircraft.ARRIVAL {
				continue
			}
			active++
			if t.After(f.dep) {
				f.ac.Update(min(step, t.Sub(f.dep)).Seconds())
			}
		}
		if active == 0 {
			break
		}

		for i := range flights {
			for j := i + 1; j < len(flights); j++ {
				a, b := flights[i].ac, flights[j].ac
				key := [2]int{i, j}
				if !minima.Violated(a, b) {
					delete(open, key)
					if predicted(a, b, step, minima) {
						if _, ok := warned[key]; !ok {
							warned[key] = t
						}
					} else {
						delete(warned, key)
					}
				} else if r, ok := open[key]; ok {
					r.Update(a, b, t)
				} else {
					r := conflict.NewReport(a, b, t)
					r.Warned = warned[key]
					delete(warned, key)
					open[key] = r
					reports = append(reports, r)
				}
			}
		}
		t = t.Add(step)
	}
	return reports
}

// predicted reports whether two airborne aircraft lose separation within
// ConflictLookahead. Pairs too far apart to close in that time are not
// flown ahead.
func predicted(a, b *aircraft.Aircraft, step time.Duration, minima conflict.Minima) bool {
	if !a.Airborne() || !b.Airborne() {
		return false
	}
	reachKm := (a.Speed + b.Speed) * flightplan.METERS_PER_SEC_PER_KT * ConflictLookahead.Seconds() / 1000
	if a.Position.DistanceTo(b.Position) >= reachKm+minima.HorizontalKm {
		return false
	}
	ok, _, _, _ := minima.PredictConflict(a, b, ConflictLookahead, step)
	return ok
}
