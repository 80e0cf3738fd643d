package export

import (
	"bytes"
	"flightplan-synth/internal/synth/flightplan"
	"flightplan-synth/pkg/types"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func testPlans() []*flightplan.FlightPlan {
	mk := func(cs types.AircraftID, from, via, to string) *flightplan.FlightPlan {
		return &flightplan.FlightPlan{
			Departure:            time.Date(0, 1, 1, 10, 30, 0, 0, time.UTC),
			Airline:              "Vueling",
			Callsign:             cs,
			AircraftType:         "A320",
			OriginAirportID:      from,
			DestinationAirportID: to,
			Route: []flightplan.FlightPlanSegment{
				{WaypointName: from, AltitudeM: 610, Speed: 120, Endpoint: true},
				{WaypointName: via, FlightLevel: 340, Speed: 330},
				{WaypointName: to, AltitudeM: 4, Speed: 120, Endpoint: true},
			},
		}
	}
	return []*flightplan.FlightPlan{mk("VY1001", "LEMD", "NASOS", "LEBL"), mk("VY1002", "LEBL", "NASOS", "LEMD")}
}

var positions = map[string]types.LatLong{
	"LEMD":  types.NewLatLong(40.47, -3.56),
	"NASOS": types.NewLatLong(40.9, -1.5),
	"LEBL":  types.NewLatLong(41.3, 2.08),
}

func lookup(id string) (types.LatLong, bool) {
	p, ok := positions[id]
	return p, ok
}

func TestPlansRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"plans.txt", "plans.txt.zst"} {
		path := filepath.Join(dir, name)
		if err := WritePlans(path, testPlans()); err != nil {
			t.Fatal(err)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		text := flightplan.Format(testPlans())
		if isText := string(b) == text; isText == compressed(path) {
			t.Errorf("%s: compressed %v but file is text %v", name, compressed(path), isText)
		}

		plans, err := ReadPlans(path)
		if err != nil {
			t.Fatal(err)
		}
		if got := flightplan.Format(plans); got != text {
			t.Errorf("%s: read back\n%s\nexpected\n%s", name, got, text)
		}
	}

	if _, err := ReadPlans(filepath.Join(dir, "missing.txt")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestDecodeCorrupt(t *testing.T) {
	if _, err := DecodePlans(bytes.NewReader([]byte("not zstd at all")), true); err == nil {
		t.Errorf("expected an error decoding garbage")
	}
}

func TestFeatureCollection(t *testing.T) {
	plans := testPlans()
	plans = append(plans, &flightplan.FlightPlan{
		Callsign: "XX0000",
		Route:    []flightplan.FlightPlanSegment{{WaypointName: "LEMD"}, {WaypointName: "NOWHERE"}},
	})

	fc := FeatureCollection(plans, lookup)
	if len(fc.Features) != 2 {
		t.Fatalf("got %d features, expected 2", len(fc.Features))
	}

	f := fc.Features[0]
	ls, ok := f.Geometry.(orb.LineString)
	if !ok || len(ls) != 3 {
		t.Fatalf("bad geometry %v", f.Geometry)
	}
	if ls[0] != (orb.Point{-3.56, 40.47}) {
		t.Errorf("first point %v, expected lon/lat order", ls[0])
	}
	if f.Properties["callsign"] != "VY1001" || f.Properties["departure"] != "10:30:00" {
		t.Errorf("bad properties %v", f.Properties)
	}
	if lv := f.Properties["flight_levels"].([]int); !reflect.DeepEqual(lv, []int{20, 340, 0}) {
		t.Errorf("flight levels %v", lv)
	}

	path := filepath.Join(t.TempDir(), "plans.geojson")
	if err := WriteGeoJSON(path, plans, lookup); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	back, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Features) != 2 || back.Features[1].Properties.MustString("callsign") != "VY1002" {
		t.Errorf("bad GeoJSON read back: %s", b)
	}
}

func TestPlanRecords(t *testing.T) {
	recs := PlanRecords(testPlans())
	if len(recs) != 2 {
		t.Fatalf("got %d records", len(recs))
	}
	r := recs[0]
	if r.Departure != "10:30:00" || r.Callsign != "VY1001" || r.Origin != "LEMD" || r.Destination != "LEBL" {
		t.Errorf("bad record %+v", r)
	}
	want := []FixRecord{
		{Fix: "LEMD", AltitudeM: 610, Speed: 120, Endpoint: true},
		{Fix: "NASOS", FlightLevel: 340, Speed: 330},
		{Fix: "LEBL", AltitudeM: 4, Speed: 120, Endpoint: true},
	}
	if !reflect.DeepEqual(r.Route, want) {
		t.Errorf("route %+v", r.Route)
	}
}
