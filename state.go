package reentry

import (
	"time"
)

// BodySnapshot is the absolute state of one body at one simulated epoch.
// It is produced fresh by the HierarchyResolver and never mutated after
// publication: consumers always receive replacement snapshots.
type BodySnapshot struct {
	ID   BodyID
	R    []float64 // absolute position, km
	V    []float64 // absolute velocity, km/s
	Axis []float64 // unit rotation axis in the inertial frame
}

func (s BodySnapshot) clone() BodySnapshot {
	return BodySnapshot{ID: s.ID, R: vec3(s.R), V: vec3(s.V), Axis: vec3(s.Axis)}
}

// SimulationState is a versioned snapshot of the whole simulation. It is
// owned exclusively by the SimulationClock; everyone else gets copies.
type SimulationState struct {
	Epoch      time.Time
	Version    uint64
	Bodies     map[BodyID]BodySnapshot
	Satellites map[SatelliteID]Satellite
}

func (s SimulationState) clone() SimulationState {
	c := SimulationState{
		Epoch:      s.Epoch,
		Version:    s.Version,
		Bodies:     make(map[BodyID]BodySnapshot, len(s.Bodies)),
		Satellites: make(map[SatelliteID]Satellite, len(s.Satellites)),
	}
	for id, b := range s.Bodies {
		c.Bodies[id] = b.clone()
	}
	for id, sat := range s.Satellites {
		c.Satellites[id] = sat.clone()
	}
	return c
}

// TrajectorySample is one point of a propagated trajectory.
type TrajectorySample struct {
	// Offset is the time offset from the propagation start epoch.
	Offset time.Duration
	R      []float64 // position relative to Central, km
	V      []float64 // velocity relative to Central, km/s
	// Central is the central body the sample is expressed in.
	Central BodyID
	// FrameChange marks the first sample after a central-body transition.
	FrameChange bool
}

// OrbitSegment is an ordered, non-empty run of samples sharing one central
// body. A full trajectory is an ordered sequence of segments with no gaps
// in time.
type OrbitSegment struct {
	Central BodyID
	Samples []TrajectorySample
}

// TrajectoryChunk is an incremental delivery of a trajectory request.
// Chunks are tagged with the request sequence number: consumers must discard
// chunks whose sequence number is lower than the latest they accepted.
type TrajectoryChunk struct {
	Satellite SatelliteID
	Seq       uint64
	Segments  []OrbitSegment
	// Done marks the terminal chunk of a completed request.
	Done bool
	// Err carries a terminal propagation failure scoped to this request.
	Err error
}
