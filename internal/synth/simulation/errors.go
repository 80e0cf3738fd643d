package simulation

import (
	"errors"
	"flightplan-synth/pkg/types"
	"fmt"
)

var (
	ErrNotEnoughAirports = errors.New("at least two airports are needed")
	ErrDegeneratePath    = errors.New("route has fewer than two nodes")
)

// PlanError is returned when one plan can't be produced; the batch goes
// on without it.
type PlanError struct {
	Callsign            types.AircraftID
	Origin, Destination string
	Err                 error
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("%s %s-%s: %v", e.Callsign, e.Origin, e.Destination, e.Err)
}

func (e *PlanError) Unwrap() error { return e.Err }
