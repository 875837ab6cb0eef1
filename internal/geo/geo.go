// Package geo holds the small amount of spherical geometry the sign store
// needs: exact point distance and a radius-to-bounding-box conversion for
// SQL prefiltering.
package geo

import "math"

const earthRadiusMeters = 6371000

// metersPerDegreeLat is close enough city-scale; longitude shrinks with
// latitude and is corrected in BoundsAround.
const metersPerDegreeLat = 111000

// Distance returns the haversine distance in meters between two points.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Bounds is a latitude/longitude bounding box.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// BoundsAround returns a bounding box that fully contains the circle of the
// given radius around a point. Callers still filter by exact Distance; the
// box only narrows the SQL scan.
func BoundsAround(lat, lon, radiusMeters float64) Bounds {
	latDelta := radiusMeters / metersPerDegreeLat
	lonDelta := radiusMeters / (metersPerDegreeLat * math.Cos(lat*math.Pi/180))
	return Bounds{
		MinLat: lat - latDelta,
		MaxLat: lat + latDelta,
		MinLon: lon - lonDelta,
		MaxLon: lon + lonDelta,
	}
}
