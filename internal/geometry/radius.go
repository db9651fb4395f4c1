package geometry

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Point builds an orb point from latitude/longitude. orb stores [lon, lat].
func Point(lat, lng float64) orb.Point {
	return orb.Point{lng, lat}
}

// DistanceKm is the haversine distance between two points in kilometers.
func DistanceKm(a, b orb.Point) float64 {
	return geo.DistanceHaversine(a, b) / 1000
}

// WithinRadius reports whether p lies within radiusKm of center. A
// non-positive radius matches nothing.
func WithinRadius(center, p orb.Point, radiusKm float64) bool {
	if radiusKm <= 0 {
		return false
	}
	return DistanceKm(center, p) <= radiusKm
}

// Nearest returns the indexes of points ordered by distance from center,
// closest first, truncated to n when n > 0.
func Nearest(center orb.Point, points []orb.Point, n int) []int {
	idx := make([]int, len(points))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return DistanceKm(center, points[idx[i]]) < DistanceKm(center, points[idx[j]])
	})
	if n > 0 && n < len(idx) {
		idx = idx[:n]
	}
	return idx
}
