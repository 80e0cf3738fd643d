package types

import "github.com/umahmood/haversine"

type AircraftID string

// LatLong is a position in signed decimal degrees. Values are trusted as
// given; nothing checks that they are in range.
type LatLong struct {
	Lat float64
	Lon float64
}

func NewLatLong(lat, lon float64) LatLong {
	return LatLong{lat, lon}
}

// DistanceTo returns the great-circle distance in kilometers, using the
// haversine formula on a sphere of radius 6371 km.
func (p LatLong) DistanceTo(q LatLong) float64 {
	_, km := haversine.Distance(haversine.Coord{Lat: p.Lat, Lon: p.Lon}, haversine.Coord{Lat: q.Lat, Lon: q.Lon})
	return km
}

// Lerp returns the point a fraction t of the way from p to q, interpolating
// latitude and longitude independently.
func (p LatLong) Lerp(q LatLong, t float64) LatLong {
	return LatLong{p.Lat + t*(q.Lat-p.Lat), p.Lon + t*(q.Lon-p.Lon)}
}

type Waypoint struct {
	Name     string
	Position LatLong
}

type Airport struct {
	ID        string
	AltitudeM float64
}
