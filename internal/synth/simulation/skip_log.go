package simulation

import (
	"errors"
	"flightplan-synth/internal/synth/flightplan"
	"flightplan-synth/pkg/types"
	"time"
)

const maxSkipLogSize = 50

// Skip records a plan attempt that produced nothing.
type Skip struct {
	Timestamp           time.Time
	Callsign            types.AircraftID
	Origin, Destination string
	Err                 error
}

// Batch is the outcome of one Generate call.
type Batch struct {
	Seed     int64
	Attempts int
	Plans    []*flightplan.FlightPlan
	Skipped  int
	// The most recent skips; at most maxSkipLogSize are kept.
	SkipLog []Skip
}

func (b *Batch) AddSkip(err error) {
	s := Skip{Timestamp: time.Now(), Err: err}
	var pe *PlanError
	if errors.As(err, &pe) {
		s.Callsign, s.Origin, s.Destination = pe.Callsign, pe.Origin, pe.Destination
	}
	b.Skipped++
	b.SkipLog = append(b.SkipLog, s)

	if len(b.SkipLog) > maxSkipLogSize {
		b.SkipLog = b.SkipLog[len(b.SkipLog)-maxSkipLogSize:]
	}
}

// String returns the plans in their text form.
func (b *Batch) String() string {
	return flightplan.Format(b.Plans)
}
