package conflict

import (
	"flightplan-synth/internal/synth/aircraft"
	"flightplan-synth/pkg/types"
	"fmt"
	"math"
	"time"
)

const (
	MIN_HORIZONTAL_SEPARATION_KM = 9.26 // 5 nm
	MIN_VERTICAL_SEPARATION_FT   = 1000.0
)

type Minima struct {
	HorizontalKm float64
	VerticalFt   float64
}

var DefaultMinima = Minima{
	HorizontalKm: MIN_HORIZONTAL_SEPARATION_KM,
	VerticalFt:   MIN_VERTICAL_SEPARATION_FT,
}

// CheckSeparation reports whether two airborne aircraft are closer than
// the default minima both horizontally and vertically.
func CheckSeparation(ac1, ac2 *aircraft.Aircraft) bool {
	return DefaultMinima.Violated(ac1, ac2)
}

func (m Minima) Violated(ac1, ac2 *aircraft.Aircraft) bool {
	if !ac1.Airborne() || !ac2.Airborne() {
		return false
	}
	if math.Abs(ac1.AltitudeFt-ac2.AltitudeFt) >= m.VerticalFt {
		return false
	}
	return ac1.Position.DistanceTo(ac2.Position) < m.HorizontalKm
}

// PredictConflict flies copies of both aircraft ahead along their plans,
// sampling every step for up to horizon. It returns whether they lose
// separation under the default minima, how far ahead, and where each of
// them is at that sample.
func PredictConflict(ac1, ac2 *aircraft.Aircraft, horizon, step time.Duration) (bool, time.Duration, types.LatLong, types.LatLong) {
	return DefaultMinima.PredictConflict(ac1, ac2, horizon, step)
}

func (m Minima) PredictConflict(ac1, ac2 *aircraft.Aircraft, horizon, step time.Duration) (bool, time.Duration, types.LatLong, types.LatLong) {
	if step <= 0 {
		return false, 0, types.LatLong{}, types.LatLong{}
	}
	// Update never writes the legs, so the copies can share them.
	p1, p2 := *ac1, *ac2
	for ahead := step; ahead <= horizon; ahead += step {
		p1.Update(step.Seconds())
		p2.Update(step.Seconds())
		if m.Violated(&p1, &p2) {
			return true, ahead, p1.Position, p2.Position
		}
	}
	return false, 0, types.LatLong{}, types.LatLong{}
}

// Report describes one loss of separation between two aircraft, from the
// first sample at which it was seen to the last.
type Report struct {
	A, B         types.AircraftID
	Start, End   time.Time
	ClosestKm    float64
	VerticalFt   float64 // at the closest sample
	Position     types.LatLong
	NextA, NextB string // fixes each was flying to when first seen
	// First sample at which the loss was predicted; zero if it wasn't.
	Warned time.Time
}

func (r *Report) Update(ac1, ac2 *aircraft.Aircraft, t time.Time) {
	r.End = t
	if d := ac1.Position.DistanceTo(ac2.Position); d < r.ClosestKm {
		r.ClosestKm = d
		r.VerticalFt = math.Abs(ac1.AltitudeFt - ac2.AltitudeFt)
		r.Position = ac1.Position.Lerp(ac2.Position, 0.5)
	}
}

func NewReport(ac1, ac2 *aircraft.Aircraft, t time.Time) *Report {
	r := &Report{
		A:         ac1.ID,
		B:         ac2.ID,
		Start:     t,
		ClosestKm: math.Inf(1),
		NextA:     ac1.NextFix(),
		NextB:     ac2.NextFix(),
	}
	r.Update(ac1, ac2, t)
	return r
}

func (r *Report) String() string {
	s := fmt.Sprintf("%s-%s %s-%s closest %.1f km / %.0f ft near %.3f,%.3f (toward %s / %s)",
		r.A, r.B, r.Start.Format(time.TimeOnly), r.End.Format(time.TimeOnly),
		r.ClosestKm, r.VerticalFt, r.Position.Lat, r.Position.Lon, r.NextA, r.NextB)
	if !r.Warned.IsZero() {
		s += fmt.Sprintf(", predicted %s ahead", r.Start.Sub(r.Warned))
	}
	return s
}
