package geo

// Locatable is anything that sits at a single point on the map.
type Locatable interface {
	Point() GeoPoint
}

// Point lets a bare GeoPoint be used as a candidate.
func (p GeoPoint) Point() GeoPoint {
	return p
}

// FilterWithinRadius keeps the candidates whose distance from center is at
// most radiusKm. Survivors keep their input order. The boundary is inclusive
// and no tolerance is applied, so a zero radius only keeps exact matches.
func FilterWithinRadius[T Locatable](center GeoPoint, radiusKm float64, candidates []T) []T {
	within := make([]T, 0, len(candidates))
	for _, c := range candidates {
		if Distance(center, c.Point()) <= radiusKm {
			within = append(within, c)
		}
	}
	return within
}
