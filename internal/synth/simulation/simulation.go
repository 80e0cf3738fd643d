package simulation

import (
	"errors"
	"flightplan-synth/internal/logger"
	"flightplan-synth/internal/rand"
	"flightplan-synth/internal/synth/aircraft"
	"flightplan-synth/internal/synth/airline"
	"flightplan-synth/internal/synth/airspace"
	"flightplan-synth/internal/synth/flightplan"
	"flightplan-synth/internal/synth/graph"
	"flightplan-synth/internal/synth/profile"
	"flightplan-synth/internal/synth/route"
	"time"

	"github.com/labstack/gommon/log"
)

const (
	DepartureWindowStart = 8 * time.Hour
	DepartureWindowEnd   = 11 * time.Hour

	MinDiversionFactor = 0.1
	MaxDiversionFactor = 0.3
)

// Generator produces random flight plans over one airspace and its
// proximity graph. It holds no mutable state; all draws come from the
// generator passed to each call, so one Generator may serve concurrent
// callers that each bring their own.
type Generator struct {
	Airspace    *airspace.Airspace
	Graph       graph.Graph
	Airlines    *airline.Table
	Performance aircraft.Performance
	Logger      *log.Logger
}

func NewGenerator(as *airspace.Airspace, g graph.Graph, lg *log.Logger) *Generator {
	return &Generator{
		Airspace:    as,
		Graph:       g,
		Airlines:    airline.Default(),
		Performance: aircraft.A320,
		Logger:      lg,
	}
}

func (g *Generator) lg() *log.Logger {
	if g.Logger == nil {
		return logger.Discard()
	}
	return g.Logger
}

// GeneratePlan draws one plan: an airline and callsign, two distinct
// airports, and whether to divert from the shortest route and by how
// much. Failures are reported as a *PlanError wrapping route.ErrNoRoute
// or ErrDegeneratePath.
func (g *Generator) GeneratePlan(r *rand.Rand) (*flightplan.FlightPlan, error) {
	airports := g.Airspace.AirportOrder
	if len(airports) < 2 {
		return nil, ErrNotEnoughAirports
	}

	al, callsign := g.Airlines.Callsign(r)
	i, j := rand.SampleTwo(r, len(airports))
	start, end := g.Airspace.Airports[airports[i]], g.Airspace.Airports[airports[j]]
	opts := route.Options{
		Randomize:       r.Bool(),
		DiversionFactor: r.Uniform(MinDiversionFactor, MaxDiversionFactor),
		Rand:            r,
	}

	path, _, err := route.Search(g.Graph, start.ID, end.ID, opts)
	if err == nil && len(path) < 2 {
		err = ErrDegeneratePath
	}
	if err != nil {
		return nil, &PlanError{Callsign: callsign, Origin: start.ID, Destination: end.ID, Err: err}
	}
	path = route.TrimAirports(path, start.ID, end.ID, g.Airspace.IsAirport)

	maxFL := profile.RandomCruiseLevel(r, g.Performance)
	entries := profile.Synthesize(path, start.AltitudeM, end.AltitudeM, maxFL, g.Performance)

	window := int((DepartureWindowEnd - DepartureWindowStart) / time.Second)
	dep := DepartureWindowStart + time.Duration(r.IntRange(0, window))*time.Second

	fp := &flightplan.FlightPlan{
		Departure:            time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).Add(dep),
		Airline:              al.Name,
		Callsign:             callsign,
		AircraftType:         g.Performance.Type,
		OriginAirportID:      start.ID,
		DestinationAirportID: end.ID,
		Route:                make([]flightplan.FlightPlanSegment, len(entries)),
	}
	for k, e := range entries {
		fp.Route[k] = e.Segment()
	}
	return fp, nil
}

// Generate makes n plan attempts. Attempts that fail are logged and
// recorded in the batch's skip log; only a missing airport set is an
// error.
func (g *Generator) Generate(r *rand.Rand, n int) (*Batch, error) {
	if len(g.Airspace.AirportOrder) < 2 {
		return nil, ErrNotEnoughAirports
	}

	lg := g.lg()
	b := &Batch{Seed: r.SeedValue()}
	for i := 0; i < n; i++ {
		b.Attempts++
		fp, err := g.GeneratePlan(r)
		if err != nil {
			if !errors.Is(err, route.ErrNoRoute) && !errors.Is(err, ErrDegeneratePath) {
				return b, err
			}
			lg.Debugf("skipped plan: %v", err)
			b.AddSkip(err)
			continue
		}
		lg.Debugf("%s %s-%s: %d fixes", fp.Callsign, fp.OriginAirportID, fp.DestinationAirportID, len(fp.Route))
		b.Plans = append(b.Plans, fp)
	}

	lg.Infoj(log.JSON{
		"msg":      "batch generated",
		"seed":     b.Seed,
		"attempts": b.Attempts,
		"plans":    len(b.Plans),
		"skipped":  b.Skipped,
	})
	return b, nil
}

// ProgressReporter returns a graph reporter that logs every n-th
// processed waypoint, and the last one.
func ProgressReporter(lg *log.Logger, n int) graph.Reporter {
	return graph.ReporterFunc(func(id string, done, total int) {
		if done == total {
			lg.Infof("graph: %d/%d waypoints processed", done, total)
		} else if n > 0 && done%n == 0 {
			lg.Debugf("graph: %d/%d waypoints processed (%s)", done, total, id)
		}
	})
}
