package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used for great-circle distances.
const EarthRadiusMeters = 6371000.0

// Location represents a geographic coordinate.
type Location struct {
	Latitude  float64
	Longitude float64
}

// Provider defines the interface for obtaining the current location.
type Provider interface {
	GetLocation() (Location, bool)
}

// StaticProvider implements Provider with a fixed location.
type StaticProvider struct {
	Lat float64
	Lng float64
}

// NewStaticProvider creates a provider that always returns the same location.
func NewStaticProvider(lat, lng float64) *StaticProvider {
	return &StaticProvider{
		Lat: lat,
		Lng: lng,
	}
}

// GetLocation returns the fixed location.
func (s *StaticProvider) GetLocation() (Location, bool) {
	return Location{
		Latitude:  s.Lat,
		Longitude: s.Lng,
	}, true
}

// Distance returns the haversine great-circle distance in meters.
func Distance(a, b Location) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// MaxPairwiseDistance returns the largest distance between any two points.
func MaxPairwiseDistance(points []Location) float64 {
	var maxDist float64
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			if d := Distance(points[i], points[j]); d > maxDist {
				maxDist = d
			}
		}
	}
	return maxDist
}
