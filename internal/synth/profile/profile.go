package profile

import (
	"flightplan-synth/internal/rand"
	"flightplan-synth/internal/synth/aircraft"
	"flightplan-synth/internal/synth/flightplan"
	"math"
)

// Entry is the vertical and speed profile at one fix of a path.
type Entry struct {
	Fix         string
	Phase       aircraft.Phase
	FlightLevel int     // interior fixes
	AltitudeM   float64 // endpoints
	Speed       int     // knots
	Endpoint    bool
}

func (e Entry) Segment() flightplan.FlightPlanSegment {
	return flightplan.FlightPlanSegment{
		WaypointName: e.Fix,
		FlightLevel:  e.FlightLevel,
		AltitudeM:    e.AltitudeM,
		Speed:        e.Speed,
		Endpoint:     e.Endpoint,
	}
}

// RandomCruiseLevel draws a cruise flight level in steps of 10 within the
// type's cruise band.
func RandomCruiseLevel(r *rand.Rand, perf aircraft.Performance) int {
	return 10 * r.IntRange(perf.MinCruiseLevel/10, perf.MaxCruiseLevel/10)
}

// CruiseSpeed returns the cruise speed for a path with n nodes, endpoints
// included; longer paths cruise faster, up to the type's maximum.
func CruiseSpeed(n int, perf aircraft.Performance) float64 {
	return min(perf.MaxSpeedKt, perf.BaseCruiseKt+float64(n-2)*perf.CruiseGainKt/float64(perf.CruiseGainFixes))
}

// PhaseFixes returns how many interior fixes are spent climbing, and as
// many descending, on a path with n nodes. It is zero for paths shorter
// than four nodes, which are flown level at maxFL throughout.
func PhaseFixes(n int, perf aircraft.Performance) int {
	return min(perf.MaxPhaseFixes, n/4)
}

// Synthesize assigns a flight level and speed to every interior fix of
// path, and the ground altitude and minimum speed to its two endpoint
// airports. The first PhaseFixes interior fixes climb quadratically to
// maxFL while accelerating linearly to cruise speed; the last PhaseFixes
// interior fixes descend quadratically toward endAltM while slowing, the
// first of them still at maxFL. Levels are rounded to the nearest 10 and never
// below the type's minimum; speeds are clamped with Performance.ClampSpeed and
// truncated to whole knots.
func Synthesize(path []string, startAltM, endAltM float64, maxFL int, perf aircraft.Performance) []Entry {
	if len(path) == 0 {
		return nil
	}

	n := len(path)
	cruise := CruiseSpeed(n, perf)
	climb := PhaseFixes(n, perf)
	descent := climb
	top := float64(maxFL)
	minFL := float64(perf.MinFlightLevel)

	entries := make([]Entry, 0, n)
	entries = append(entries, Entry{
		Fix:       path[0],
		Phase:     aircraft.DEPARTURE,
		AltitudeM: startAltM,
		Speed:     int(perf.MinSpeedKt),
		Endpoint:  true,
	})

	for i := 1; i < n-1; i++ {
		var fl, speed float64
		var phase aircraft.Phase

		// With a zero count neither condition can hold for an interior
		// index, so no division by zero is reached.
		if i <= climb {
			frac := float64(i) / float64(climb)
			fl = max(roundHalfEven10(top*frac*frac), minFL)
			speed = perf.MinSpeedKt + (cruise-perf.MinSpeedKt)/float64(climb)*float64(i)
			phase = aircraft.CLIMB
		} else if i >= n-descent-1 {
			progress := float64(i - (n - descent - 1))
			fl = max(roundHalfEven10(max(endAltM/100, top-top/float64(descent)*progress*progress)), minFL)
			speed = max(perf.MinSpeedKt, cruise-(cruise-perf.MinSpeedKt)/float64(descent)*progress)
			phase = aircraft.DESCEND
		} else {
			fl = top
			speed = cruise
			phase = aircraft.CRUISE
		}

		entries = append(entries, Entry{
			Fix:         path[i],
			Phase:       phase,
			FlightLevel: int(fl),
			Speed:       int(perf.ClampSpeed(speed)),
		})
	}

	if n > 1 {
		entries = append(entries, Entry{
			Fix:       path[n-1],
			Phase:     aircraft.ARRIVAL,
			AltitudeM: endAltM,
			Speed:     int(perf.MinSpeedKt),
			Endpoint:  true,
		})
	}
	return entries
}

// roundHalfEven10 rounds x to the nearest multiple of 10, ties to the
// even multiple.
func roundHalfEven10(x float64) float64 {
	return math.RoundToEven(x/10) * 10
}
