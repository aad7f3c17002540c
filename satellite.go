package reentry

// SatelliteID identifies a tracked satellite.
type SatelliteID string

// Satellite is the integrated state of an artificial satellite. Position and
// velocity are always relative to the current central body: reassigning the
// central body re-expresses both in the same operation.
type Satellite struct {
	ID      SatelliteID
	Name    string
	Central BodyID
	R       []float64 // km, central-body relative
	V       []float64 // km/s, central-body relative
	Mass    float64   // kg
	Cd      float64   // drag coefficient
	Area    float64   // cross-sectional area, m²
	// Accel is the last computed acceleration (km/s²), kept as a diagnostic.
	Accel []float64
	// Frozen is set when an integration error occurred; the state above is
	// the last valid one and the satellite is no longer advanced.
	Frozen bool
}

func (s Satellite) clone() Satellite {
	c := s
	c.R = vec3(s.R)
	c.V = vec3(s.V)
	if s.Accel != nil {
		c.Accel = vec3(s.Accel)
	}
	return c
}
