package aircraft

import (
	"errors"
	"flightplan-synth/internal/synth/flightplan"
	"flightplan-synth/pkg/types"
)

type Phase int

const (
	DEPARTURE Phase = iota
	CLIMB
	CRUISE
	DESCEND
	ARRIVAL
)

var PhaseStringMap = map[Phase]string{
	DEPARTURE: "DEPARTURE",
	CLIMB:     "CLIMB",
	CRUISE:    "CRUISE",
	DESCEND:   "DESCEND",
	ARRIVAL:   "ARRIVAL",
}

func (p Phase) String() string {
	return PhaseStringMap[p]
}

var ErrTooFewFixes = errors.New("flight plan has fewer than two known fixes")

type leg struct {
	from, to   types.LatLong
	km         float64
	alt0, alt1 float64 // feet
	speed      float64 // knots
	fromIdx    int     // route indices of the leg's fixes
	toIdx      int
}

// Aircraft flies a filed plan: it follows the legs between consecutive
// fixes at the speed planned at each leg's first fix, with position and
// altitude interpolated linearly along the leg.
type Aircraft struct {
	ID         types.AircraftID
	Position   types.LatLong
	AltitudeFt float64
	Speed      float64 // knots
	Phase      Phase

	FlightPlan *flightplan.FlightPlan

	legs    []leg
	cur     int
	flownKm float64 // along legs[cur]
}

// NewAircraft returns an aircraft at the first fix of plan. Fixes that
// position can't locate are left out of its track.
func NewAircraft(plan *flightplan.FlightPlan, position func(string) (types.LatLong, bool)) (*Aircraft, error) {
	type fix struct {
		pos   types.LatLong
		seg   flightplan.FlightPlanSegment
		index int
	}
	var fixes []fix
	for i, seg := range plan.Route {
		if p, ok := position(seg.WaypointName); ok {
			fixes = append(fixes, fix{pos: p, seg: seg, index: i})
		}
	}
	if len(fixes) < 2 {
		return nil, ErrTooFewFixes
	}

	ac := &Aircraft{
		ID:         plan.Callsign,
		Position:   fixes[0].pos,
		AltitudeFt: fixes[0].seg.AltitudeFt(),
		Speed:      float64(fixes[0].seg.Speed),
		Phase:      DEPARTURE,
		FlightPlan: plan,
	}
	for i := 1; i < len(fixes); i++ {
		a, b := fixes[i-1], fixes[i]
		ac.legs = append(ac.legs, leg{
			from:    a.pos,
			to:      b.pos,
			km:      a.pos.DistanceTo(b.pos),
			alt0:    a.seg.AltitudeFt(),
			alt1:    b.seg.AltitudeFt(),
			speed:   float64(a.seg.Speed),
			fromIdx: a.index,
			toIdx:   b.index,
		})
	}
	return ac, nil
}

// Update advances the aircraft dt seconds along its track.
func (ac *Aircraft) Update(dt float64) {
	if ac.Phase == ARRIVAL {
		return
	}

	for ac.cur < len(ac.legs) {
		l := &ac.legs[ac.cur]
		if l.speed <= 0 {
			ac.nextLeg()
			continue
		}
		move := l.speed * flightplan.METERS_PER_SEC_PER_KT * dt / 1000
		if rem := l.km - ac.flownKm; move >= rem {
			dt -= rem * 1000 / (l.speed * flightplan.METERS_PER_SEC_PER_KT)
			ac.nextLeg()
			continue
		}
		ac.flownKm += move
		break
	}

	if ac.cur >= len(ac.legs) {
		last := ac.legs[len(ac.legs)-1]
		ac.Position = last.to
		ac.AltitudeFt = last.alt1
		ac.Phase = ARRIVAL
		return
	}

	l := ac.legs[ac.cur]
	t := 0.0
	if l.km > 0 {
		t = ac.flownKm / l.km
	}
	ac.Position = l.from.Lerp(l.to, t)
	ac.AltitudeFt = l.alt0 + (l.alt1-l.alt0)*t
	ac.Speed = l.speed
	switch {
	case l.alt1 > l.alt0:
		ac.Phase = CLIMB
	case l.alt1 < l.alt0:
		ac.Phase = DESCEND
	default:
		ac.Phase = CRUISE
	}
}

func (ac *Aircraft) nextLeg() {
	ac.cur++
	ac.flownKm = 0
}

// Airborne reports whether the aircraft has left its first fix and not
// yet reached its last.
func (ac *Aircraft) Airborne() bool {
	return ac.Phase != DEPARTURE && ac.Phase != ARRIVAL
}

// CurrentSegmentIndex returns the route index of the fix the aircraft
// last passed.
func (ac *Aircraft) CurrentSegmentIndex() int {
	if ac.cur >= len(ac.legs) {
		return ac.legs[len(ac.legs)-1].toIdx
	}
	return ac.legs[ac.cur].fromIdx
}

// NextFix returns the name of the fix the aircraft is flying to, or ""
// once it has arrived.
func (ac *Aircraft) NextFix() string {
	if ac.cur >= len(ac.legs) {
		return ""
	}
	return ac.FlightPlan.Route[ac.legs[ac.cur].toIdx].WaypointName
}
