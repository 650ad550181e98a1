package domain

import "math"

const earthRadiusKm = 6371

// HaversineKm returns the great-circle distance between two points in km
func HaversineKm(a, b LatLng) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// TrajectoryStats summarizes an observed trajectory for the detail pane
type TrajectoryStats struct {
	DistanceKm      float64
	DurationMinutes int
	AvgSpeedKmh     float64
	MaxSpeedKmh     float64
}

// ComputeTrajectoryStats derives distance, duration and speed figures from
// an ordered sequence of track points. A sequence shorter than two points
// yields zero distance and duration.
func ComputeTrajectoryStats(points []TrackPoint) TrajectoryStats {
	var stats TrajectoryStats
	if len(points) == 0 {
		return stats
	}

	for i := 1; i < len(points); i++ {
		stats.DistanceKm += HaversineKm(points[i-1].Position(), points[i].Position())
	}
	stats.DistanceKm = math.Round(stats.DistanceKm*100) / 100

	if len(points) >= 2 {
		stats.DurationMinutes = int(points[len(points)-1].Timestamp.Sub(points[0].Timestamp).Minutes())
	}

	var total float64
	for _, p := range points {
		total += p.Vitesse
		if p.Vitesse > stats.MaxSpeedKmh {
			stats.MaxSpeedKmh = p.Vitesse
		}
	}
	stats.AvgSpeedKmh = math.Round(total/float64(len(points))*100) / 100

	return stats
}

// Bounds is the bounding box enclosing a set of coordinates
type Bounds struct {
	North float64
	South float64
	East  float64
	West  float64
}

// BoundsOf computes the bounding box of the given points. It returns
// ok=false when no valid point exists.
func BoundsOf(points []LatLng) (Bounds, bool) {
	var b Bounds
	found := false
	for _, p := range points {
		if !p.Valid() {
			continue
		}
		if !found {
			b = Bounds{North: p.Lat, South: p.Lat, East: p.Lng, West: p.Lng}
			found = true
			continue
		}
		b.North = math.Max(b.North, p.Lat)
		b.South = math.Min(b.South, p.Lat)
		b.East = math.Max(b.East, p.Lng)
		b.West = math.Min(b.West, p.Lng)
	}
	return b, found
}
