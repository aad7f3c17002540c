package reentry

// soiHysteresis is the fixed hysteresis margin applied to sphere-of-influence
// boundary checks: an outbound crossing must exceed the SOI radius by 0.5%,
// an inbound capture must fall 0.5% inside it. The dead band keeps a
// satellite lingering at the boundary from oscillating between frames.
const soiHysteresis = 0.005

// SOIManager detects sphere-of-influence crossings and reassigns the central
// body, re-expressing position and velocity in the new frame. The three
// fields always change together within one transition.
type SOIManager struct {
	Registry *BodyRegistry
}

// Transition checks the satellite against the SOI boundaries after an
// integration step and applies at most one reassignment. It mutates the
// satellite's central body, position, and velocity atomically.
func (m SOIManager) Transition(sat *Satellite, snaps map[BodyID]BodySnapshot) (changed bool) {
	central, ok := m.Registry.Body(sat.Central)
	if !ok {
		return false
	}
	// Outbound: past the central body's SOI and receding.
	if central.SOI > 0 && central.Parent != "" {
		d := Norm(sat.R)
		if d > central.SOI*(1+soiHysteresis) && Dot(sat.R, sat.V) >= 0 {
			m.reassign(sat, snaps, central.Parent)
			return true
		}
	}
	// Inbound: inside the SOI of a body that is not the current central and
	// not one of its ancestors (a satellite is always inside those).
	// Captures only descend to strictly smaller SOIs: the Moon's frame lies
	// entirely inside Earth's SOI, and without this rule a lunar satellite
	// would be recaptured by Earth on every step. When several nested
	// candidates match, the smallest SOI wins: it is the most specific frame.
	var best BodyID
	bestSOI := 0.0
	centralSnap := snaps[sat.Central]
	for _, id := range m.Registry.Order() {
		if id == sat.Central {
			continue
		}
		b, _ := m.Registry.Body(id)
		if b.SOI <= 0 || m.Registry.IsAncestor(id, sat.Central) {
			continue
		}
		if central.SOI > 0 && b.SOI >= central.SOI {
			continue
		}
		rel := sub(add(centralSnap.R, sat.R), snaps[id].R)
		if Norm(rel) < b.SOI*(1-soiHysteresis) {
			if best == "" || b.SOI < bestSOI {
				best = id
				bestSOI = b.SOI
			}
		}
	}
	if best != "" {
		m.reassign(sat, snaps, best)
		return true
	}
	return false
}

// reassign re-expresses the satellite state in the frame of the new central
// body: newR = oldR + (oldCentral − newCentral), velocity analogously.
func (m SOIManager) reassign(sat *Satellite, snaps map[BodyID]BodySnapshot, to BodyID) {
	from := snaps[sat.Central]
	dest := snaps[to]
	sat.R = add(sat.R, sub(from.R, dest.R))
	sat.V = add(sat.V, sub(from.V, dest.V))
	sat.Central = to
}
