package flightplan

import (
	"flightplan-synth/pkg/types"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
)

func samplePlan() *FlightPlan {
	return &FlightPlan{
		Departure:            time.Date(0, 1, 1, 9, 5, 7, 0, time.UTC),
		Airline:              "Iberia Airlines",
		Callsign:             "IB4821",
		AircraftType:         DefaultAircraftType,
		OriginAirportID:      "LEMD",
		DestinationAirportID: "LEBL",
		Route: []FlightPlanSegment{
			{WaypointName: "LEMD", AltitudeM: 610, Speed: 120, Endpoint: true},
			{WaypointName: "NASOS", FlightLevel: 50, Speed: 215},
			{WaypointName: "TOBEK", FlightLevel: 350, Speed: 405},
			{WaypointName: "LEBL", AltitudeM: 4, Speed: 120, Endpoint: true},
		},
	}
}

const sampleText = `09:05:07,Iberia Airlines,IB4821,A320
LEMD,610m,120
NASOS,FL50,215
TOBEK,FL350,405
LEBL,4m,120`

func TestString(t *testing.T) {
	if got := samplePlan().String(); got != sampleText {
		t.Errorf("got\n%s\nexpected\n%s", got, sampleText)
	}
	if got := Format([]*FlightPlan{samplePlan(), samplePlan()}); got != sampleText+"\n"+sampleText+"\n" {
		t.Errorf("bad batch text:\n%s", got)
	}
}

func TestEndpointAltitudeRounded(t *testing.T) {
	for _, tc := range []struct {
		alt  float64
		want string
	}{
		{610.75, "LEMD,611m,120"},
		{12.4, "LEMD,12m,120"},
		{4.5, "LEMD,5m,120"},
		{-1.6, "LEMD,-2m,120"},
		{0, "LEMD,0m,120"},
	} {
		seg := FlightPlanSegment{WaypointName: "LEMD", AltitudeM: tc.alt, Speed: 120, Endpoint: true}
		if got := seg.String(); got != tc.want {
			t.Errorf("altitude %g: got %q, expected %q", tc.alt, got, tc.want)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	plans, err := Parse(strings.NewReader(Format([]*FlightPlan{samplePlan(), samplePlan()})))
	if err != nil {
		t.Fatal(err)
	}
	if len(plans) != 2 {
		t.Fatalf("parsed %d plans, expected 2", len(plans))
	}
	for _, fp := range plans {
		want := samplePlan()
		if !fp.Departure.Equal(want.Departure) {
			t.Errorf("departure %s, expected %s", fp.Departure, want.Departure)
		}
		fp.Departure = want.Departure
		if !reflect.DeepEqual(fp, want) {
			t.Errorf("round trip mismatch:\n%s", spew.Sdump(fp))
		}
	}
}

func TestParseSkipsMalformed(t *testing.T) {
	text := `LEMD,610m,120
garbage
25:99:00,Bad Time,BT1000,A320
NASOS,FL50,215
08:00:00,Air France,AF1000,A320
LFPG,119m,120
XXXXX,FLabc,300
YYYYY,FL300,fast
ZZZZZ,300,300
ROKIM,FL300,450
EGLL,25m,120
`
	plans, err := Parse(strings.NewReader(text))
	if err != nil {
		t.Fatal(err)
	}
	if len(plans) != 1 {
		t.Fatalf("parsed %d plans, expected 1: %s", len(plans), spew.Sdump(plans))
	}
	fp := plans[0]
	if fp.Callsign != "AF1000" || fp.OriginAirportID != "LFPG" || fp.DestinationAirportID != "EGLL" {
		t.Errorf("bad header: %+v", fp)
	}
	if got := fp.Fixes(); !reflect.DeepEqual(got, []string{"LFPG", "ROKIM", "EGLL"}) {
		t.Errorf("fixes %v", got)
	}
}

func TestDuration(t *testing.T) {
	pos := map[string]types.LatLong{
		"LEMD":  types.NewLatLong(0, 0),
		"NASOS": types.NewLatLong(0, 1),
		"LEBL":  types.NewLatLong(0, 2),
	}
	lookup := func(id string) (types.LatLong, bool) {
		p, ok := pos[id]
		return p, ok
	}
	fp := samplePlan()
	// TOBEK is unknown: the legs on either side of it are skipped.
	d := fp.Duration(lookup)
	km := pos["LEMD"].DistanceTo(pos["NASOS"])
	want := km * 1000 / (120 * METERS_PER_SEC_PER_KT)
	if diff := d.Seconds() - want; diff > 0.001 || diff < -0.001 {
		t.Errorf("duration %s, expected %fs", d, want)
	}
}

func TestAltitudeFt(t *testing.T) {
	if ft := (FlightPlanSegment{FlightLevel: 350}).AltitudeFt(); ft != 35000 {
		t.Errorf("FL350 is %f ft", ft)
	}
	if ft := (FlightPlanSegment{AltitudeM: 100, Endpoint: true}).AltitudeFt(); math.Abs(ft-328.084) > 1e-9 {
		t.Errorf("100 m is %f ft", ft)
	}
}
