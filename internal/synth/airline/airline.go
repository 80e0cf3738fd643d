package airline

import (
	"encoding/json"
	"errors"
	"flightplan-synth/internal/rand"
	"flightplan-synth/pkg/types"
	"fmt"
	"io"

	"github.com/iancoleman/orderedmap"
)

var (
	ErrEmptyTable = errors.New("airline table is empty")
	ErrBadPrefix  = errors.New("airline prefix must be a non-empty string")
)

type Airline struct {
	Name   string
	Prefix string // callsign prefix
}

// Table is an ordered, read-only set of airlines to draw from.
type Table struct {
	airlines []Airline
}

func NewTable(airlines []Airline) (*Table, error) {
	if len(airlines) == 0 {
		return nil, ErrEmptyTable
	}
	return &Table{airlines: append([]Airline(nil), airlines...)}, nil
}

func (t *Table) Len() int { return len(t.airlines) }

func (t *Table) At(i int) Airline { return t.airlines[i] }

// Callsign draws an airline and a four-digit flight number.
func (t *Table) Callsign(r *rand.Rand) (Airline, types.AircraftID) {
	al := rand.SampleSlice(r, t.airlines)
	return al, types.AircraftID(fmt.Sprintf("%s%d", al.Prefix, r.IntRange(1000, 9999)))
}

// LoadJSON reads a table from a JSON object mapping airline names to
// callsign prefixes. Entries keep the order they have in the file.
func LoadJSON(r io.Reader) (*Table, error) {
	o := orderedmap.New()
	if err := json.NewDecoder(r).Decode(o); err != nil {
		return nil, err
	}

	var airlines []Airline
	for _, name := range o.Keys() {
		v, _ := o.Get(name)
		prefix, ok := v.(string)
		if !ok || prefix == "" {
			return nil, fmt.Errorf("%s: %w", name, ErrBadPrefix)
		}
		airlines = append(airlines, Airline{Name: name, Prefix: prefix})
	}
	return NewTable(airlines)
}

// Default returns the built-in table of European carriers.
func Default() *Table {
	return &Table{airlines: defaultAirlines}
}

var defaultAirlines = []Airline{
	{"Air France", "AF"},
	{"Alitalia Cargo", "AZ"},
	{"Austrian Airlines", "OS"},
	{"British Airways", "BA"},
	{"British Midland Airways", "BD"},
	{"EVA Airways", "BR"},
	{"KLM Royal Dutch Airlines", "KL"},
	{"Lufthansa Cargo", "LH"},
	{"Swiss World Cargo", "LX"},
	{"Malev Air Cargo", "MA"},
	{"Malaysia Airlines", "MH"},
	{"Qantas Airways", "QF"},
	{"Scandinavian Airlines", "SK"},
	{"Finnair", "AY"},
	{"Iberia Airlines", "IB"},
	{"Aeroflot", "SU"},
	{"Turkish Airlines", "TK"},
	{"Brussels Airlines", "SN"},
	{"Norwegian Air Shuttle", "DY"},
	{"Vueling", "VY"},
	{"Wizz Air", "W6"},
	{"Ryanair", "FR"},
	{"EasyJet", "U2"},
	{"Air Portugal (TAP)", "TP"},
	{"Luxair", "LG"},
	{"Air Europa", "UX"},
	{"Czech Airlines", "OK"},
	{"SAS (Scandinavian Airlines)", "SK"},
	{"Flybe", "BE"},
	{"Jet2.com", "LS"},
	{"Air Malta", "KM"},
	{"Swiss International Air Lines", "LX"},
	{"Ukraine International Airlines", "PS"},
	{"LOT Polish Airlines", "LO"},
	{"Aer Lingus", "EI"},
	{"Norwegian Air International", "D8"},
	{"S7 Airlines", "S7"},
	{"TUI Airways", "BY"},
	{"Hellenic Imperial Airways", "HI"},
	{"Montenegro Airlines", "YM"},
	{"Corendon Airlines", "XC"},
}
