package reentry

import (
	"time"
)

// HierarchyResolver converts ephemeris-relative states into the absolute
// root-centered frame by walking reference chains and deriving barycenters.
// It is stateless: both the real-time loop and the background propagators
// call it with their own epochs and get bit-identical results.
type HierarchyResolver struct {
	reg *BodyRegistry
	eph EphemerisProvider
}

// NewHierarchyResolver returns a resolver over the given registry and
// ephemeris provider.
func NewHierarchyResolver(reg *BodyRegistry, eph EphemerisProvider) *HierarchyResolver {
	return &HierarchyResolver{reg: reg, eph: eph}
}

// Resolve produces a fresh absolute snapshot for every body at the given
// epoch. The root body is pinned at the origin; non-barycenter bodies
// accumulate their ephemeris-relative state onto their resolved reference;
// barycenters are the mass-weighted combination of their children. Bodies
// are processed in the registry's resolution order, so every dependency is
// resolved before it is needed.
func (h *HierarchyResolver) Resolve(epoch time.Time) (map[BodyID]BodySnapshot, error) {
	snaps := make(map[BodyID]BodySnapshot, h.reg.Len())
	for _, id := range h.reg.Order() {
		b, _ := h.reg.Body(id)
		var snap BodySnapshot
		switch {
		case id == h.reg.Root():
			snap = BodySnapshot{ID: id, R: []float64{0, 0, 0}, V: []float64{0, 0, 0}, Axis: b.SpinAxis(epoch)}
		case b.Kind == KindBarycenter:
			var mass float64
			R := []float64{0, 0, 0}
			V := []float64{0, 0, 0}
			for _, cid := range h.reg.Children(id) {
				child, _ := h.reg.Body(cid)
				cs := snaps[cid]
				R = add(R, scale(child.Mass, cs.R))
				V = add(V, scale(child.Mass, cs.V))
				mass += child.Mass
			}
			if mass <= 0 {
				return nil, newConfigError("barycenter %q has zero total child mass", id)
			}
			snap = BodySnapshot{ID: id, R: scale(1/mass, R), V: scale(1/mass, V), Axis: b.SpinAxis(epoch)}
		default:
			rel, vel, axis, err := h.eph.StateAt(id, epoch)
			if err != nil {
				return nil, err
			}
			ref := snaps[b.Ref]
			snap = BodySnapshot{ID: id, R: add(ref.R, rel), V: add(ref.V, vel), Axis: axis}
		}
		if !finite(snap.R) || !finite(snap.V) {
			return nil, newConfigError("non-finite state resolved for body %q", id)
		}
		snaps[id] = snap
	}
	return snaps, nil
}
