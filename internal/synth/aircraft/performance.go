package aircraft

import (
	"flightplan-synth/internal/synth/flightplan"

	"golang.org/x/exp/constraints"
)

// Performance holds the limits the profile synthesizer works within for
// one aircraft type.
type Performance struct {
	Type string

	MinSpeedKt   float64
	MaxSpeedKt   float64
	BaseCruiseKt float64
	// Cruise speed grows linearly from BaseCruiseKt, reaching
	// BaseCruiseKt+CruiseGainKt with CruiseGainFixes interior fixes.
	CruiseGainKt    float64
	CruiseGainFixes int

	MinFlightLevel int
	MinCruiseLevel int
	MaxCruiseLevel int

	// Upper bound on the number of fixes spent climbing and descending.
	MaxPhaseFixes int
}

var A320 = Performance{
	Type:            flightplan.DefaultAircraftType,
	MinSpeedKt:      120,
	MaxSpeedKt:      490,
	BaseCruiseKt:    320,
	CruiseGainKt:    170,
	CruiseGainFixes: 20,
	MinFlightLevel:  50,
	MinCruiseLevel:  300,
	MaxCruiseLevel:  400,
	MaxPhaseFixes:   5,
}

// ClampSpeed limits kt to the type's speed envelope.
func (p Performance) ClampSpeed(kt float64) float64 {
	return Clamp(kt, p.MinSpeedKt, p.MaxSpeedKt)
}

func Clamp[T constraints.Ordered](x, low, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}
