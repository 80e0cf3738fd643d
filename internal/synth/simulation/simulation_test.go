package simulation

import (
	"bytes"
	"errors"
	"flightplan-synth/internal/logger"
	"flightplan-synth/internal/rand"
	"flightplan-synth/internal/synth/airspace"
	"flightplan-synth/internal/synth/conflict"
	"flightplan-synth/internal/synth/flightplan"
	"flightplan-synth/internal/synth/graph"
	"flightplan-synth/internal/synth/route"
	"flightplan-synth/pkg/types"
	"regexp"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
)

// Three waypoints in a line 0.5 degrees apart, with the two airports
// sitting on the outer ones.
func colinearAirspace() *airspace.Airspace {
	as := airspace.NewAirspace()
	as.AddWaypoint("A", types.NewLatLong(0, 0))
	as.AddWaypoint("B", types.NewLatLong(0, 0.5))
	as.AddWaypoint("C", types.NewLatLong(0, 1))
	as.AddWaypoint("X", types.NewLatLong(0, 0))
	as.AddWaypoint("Y", types.NewLatLong(0, 1))
	as.AddAirport("X", 610)
	as.AddAirport("Y", 12)
	return as
}

func colinearGenerator() *Generator {
	as := colinearAirspace()
	g := (&graph.Builder{MaxJumpKm: 60}).Build(as.Coordinates())
	return NewGenerator(as, g, logger.Discard())
}

var headerRE = regexp.MustCompile(`^(0[89]|1[01]):[0-5][0-9]:[0-5][0-9],[^,]+,[A-Z0-9]{2}[0-9]{4},A320$`)

func TestColinearScenario(t *testing.T) {
	gen := colinearGenerator()
	b, err := gen.Generate(rand.New(42), 40)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Plans) != 40 || b.Skipped != 0 {
		t.Fatalf("got %d plans and %d skips, expected 40 and 0", len(b.Plans), b.Skipped)
	}

	for _, fp := range b.Plans {
		lines := strings.Split(fp.String(), "\n")
		if !headerRE.MatchString(lines[0]) {
			t.Errorf("bad header %q", lines[0])
		}
		fixes := fp.Fixes()
		ends := []string{fixes[0], fixes[len(fixes)-1]}
		if !slices.Equal(ends, []string{"X", "Y"}) && !slices.Equal(ends, []string{"Y", "X"}) {
			t.Errorf("bad endpoints %v", fixes)
		}
		if !slices.Contains(fixes, "B") {
			t.Errorf("route %v doesn't pass B", fixes)
		}
		for _, fix := range fixes[1 : len(fixes)-1] {
			if gen.Airspace.IsAirport(fix) {
				t.Errorf("airport %s in the middle of %v", fix, fixes)
			}
		}
		if ends[0] == "X" && lines[1] != "X,610m,120" {
			t.Errorf("bad departure line %q", lines[1])
		}
		if ends[1] == "X" && lines[len(lines)-1] != "X,610m,120" {
			t.Errorf("bad arrival line %q", lines[len(lines)-1])
		}
	}

	// The shortest route for the pair.
	p, cost, err := route.Search(gen.Graph, "X", "Y", route.Options{})
	if err != nil || !slices.Equal(p, route.Path{"X", "B", "Y"}) || cost < 111.1 || cost > 111.3 {
		t.Errorf("got %v %f %v", p, cost, err)
	}
}

func TestFractionalAirportAltitudes(t *testing.T) {
	as := colinearAirspace()
	as.AddAirport("X", 610.75)
	as.AddAirport("Y", 12.4)
	gen := NewGenerator(as, (&graph.Builder{MaxJumpKm: 60}).Build(as.Coordinates()), nil)
	b, err := gen.Generate(rand.New(3), 10)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"X": "X,611m,120", "Y": "Y,12m,120"}
	for _, fp := range b.Plans {
		lines := strings.Split(fp.String(), "\n")
		first, last := lines[1], lines[len(lines)-1]
		if first != want[fp.OriginAirportID] || last != want[fp.DestinationAirportID] {
			t.Errorf("endpoint lines %q and %q", first, last)
		}
	}
}

func TestSameSeedSameBatch(t *testing.T) {
	gen := colinearGenerator()
	b1, err := gen.Generate(rand.New(7), 25)
	if err != nil {
		t.Fatal(err)
	}
	b2, _ := gen.Generate(rand.New(7), 25)
	b3, _ := gen.Generate(rand.New(8), 25)
	if b1.String() != b2.String() {
		t.Errorf("same seed gave different batches:\n%s\n---\n%s", b1, b2)
	}
	if b1.String() == b3.String() {
		t.Errorf("different seeds gave the same batch")
	}
	if b1.Seed != 7 {
		t.Errorf("batch seed %d", b1.Seed)
	}
}

func TestNoConnectivitySkips(t *testing.T) {
	as := airspace.NewAirspace()
	as.AddAirport("LEMD", 610)
	as.AddAirport("LEBL", 4)
	as.AddAirport("LEVC", 69)
	gen := NewGenerator(as, graph.Graph{}, logger.Discard())

	b, err := gen.Generate(rand.New(1), 80)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(b.Plans) != 0 || b.Skipped != 80 || b.Attempts != 80 {
		t.Errorf("got %d plans %d skipped %d attempts", len(b.Plans), b.Skipped, b.Attempts)
	}
	if len(b.SkipLog) != maxSkipLogSize {
		t.Errorf("skip log holds %d, expected %d", len(b.SkipLog), maxSkipLogSize)
	}
	s := b.SkipLog[0]
	if !errors.Is(s.Err, route.ErrNoRoute) || s.Origin == s.Destination || !as.IsAirport(s.Origin) || s.Callsign == "" {
		t.Errorf("bad skip %s", spew.Sdump(s))
	}
	if b.String() != "" {
		t.Errorf("expected no output, got %q", b.String())
	}
}

func TestNotEnoughAirports(t *testing.T) {
	as := colinearAirspace()
	as.Airports = nil
	as.AirportOrder = []string{"X"}
	gen := NewGenerator(as, graph.Graph{}, nil)
	if _, err := gen.Generate(rand.New(1), 1); !errors.Is(err, ErrNotEnoughAirports) {
		t.Errorf("expected ErrNotEnoughAirports, got %v", err)
	}
	if _, err := gen.GeneratePlan(rand.New(1)); !errors.Is(err, ErrNotEnoughAirports) {
		t.Errorf("expected ErrNotEnoughAirports, got %v", err)
	}
}

func TestDepartureWindow(t *testing.T) {
	gen := colinearGenerator()
	r := rand.New(99)
	lo := time.Date(0, 1, 1, 8, 0, 0, 0, time.UTC)
	hi := time.Date(0, 1, 1, 11, 0, 0, 0, time.UTC)
	for i := 0; i < 200; i++ {
		fp, err := gen.GeneratePlan(r)
		if err != nil {
			t.Fatal(err)
		}
		if fp.Departure.Before(lo) || fp.Departure.After(hi) {
			t.Fatalf("departure %s outside the window", fp.Departure.Format(time.TimeOnly))
		}
	}
}

func TestProgressReporter(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.NewWithWriter("test", "debug", &buf)
	as := colinearAirspace()
	(&graph.Builder{Reporter: ProgressReporter(lg, 2)}).Build(as.Coordinates())

	out := buf.String()
	if !strings.Contains(out, "graph: 5/5 waypoints processed") {
		t.Errorf("missing final progress line in %q", out)
	}
	if !strings.Contains(out, "graph: 2/5 waypoints processed") {
		t.Errorf("missing intermediate progress line in %q", out)
	}
}

var lineFixes = map[string]types.LatLong{
	"WEST": types.NewLatLong(40, 0),
	"MIDW": types.NewLatLong(40, 0.5),
	"MIDE": types.NewLatLong(40, 1.5),
	"EAST": types.NewLatLong(40, 2),
}

func lineLookup(id string) (types.LatLong, bool) {
	p, ok := lineFixes[id]
	return p, ok
}

func linePlan(cs types.AircraftID, dep time.Duration, fl int, fixes ...string) *flightplan.FlightPlan {
	fp := &flightplan.FlightPlan{
		Departure: time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC).Add(dep),
		Callsign:  cs,
	}
	for i, fix := range fixes {
		seg := flightplan.FlightPlanSegment{WaypointName: fix, FlightLevel: fl, Speed: 400}
		if i == 0 || i == len(fixes)-1 {
			seg = flightplan.FlightPlanSegment{WaypointName: fix, Speed: 400, Endpoint: true}
		}
		fp.Route = append(fp.Route, seg)
	}
	return fp
}

func TestDetectConflicts(t *testing.T) {
	east := linePlan("AAA1", 9*time.Hour, 300, "WEST", "MIDW", "MIDE", "EAST")
	west := linePlan("BBB1", 9*time.Hour, 300, "EAST", "MIDE", "MIDW", "WEST")
	above := linePlan("CCC1", 9*time.Hour, 310, "EAST", "MIDE", "MIDW", "WEST")
	late := linePlan("DDD1", 10*time.Hour, 300, "EAST", "MIDE", "MIDW", "WEST")

	reports := DetectConflicts([]*flightplan.FlightPlan{east, west}, lineLookup, 5*time.Second, conflict.DefaultMinima)
	if len(reports) != 1 {
		t.Fatalf("got %d reports, expected 1: %s", len(reports), spew.Sdump(reports))
	}
	r := reports[0]
	if r.A != "AAA1" || r.B != "BBB1" || r.ClosestKm > 2 || r.VerticalFt != 0 {
		t.Errorf("bad report %s", r)
	}
	if r.Start.Hour() != 9 || !r.End.After(r.Start) {
		t.Errorf("bad interval %s", r)
	}
	if r.Warned.IsZero() || !r.Warned.Before(r.Start) || r.Start.Sub(r.Warned) > ConflictLookahead {
		t.Errorf("expected a warning within %s before the loss: %s", ConflictLookahead, r)
	}

	for _, plans := range [][]*flightplan.FlightPlan{{east, above}, {east, late}, {east}, nil} {
		if reports := DetectConflicts(plans, lineLookup, 5*time.Second, conflict.DefaultMinima); len(reports) != 0 {
			t.Errorf("expected no conflicts, got %s", spew.Sdump(reports))
		}
	}
}
