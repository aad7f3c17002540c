package reentry

import (
	"math"
	"sort"
	"time"
)

// G is the universal gravitational constant in km³/(kg·s²).
const G = 6.67430e-20

// BodyID identifies a celestial body in the registry.
type BodyID string

// BodyKind describes the kind of a celestial body.
type BodyKind uint8

const (
	// KindStar is a star.
	KindStar BodyKind = iota + 1
	// KindPlanet is a planet (or dwarf planet).
	KindPlanet
	// KindMoon is a natural satellite of a planet.
	KindMoon
	// KindBarycenter is a virtual body at the mass-weighted center of its children.
	KindBarycenter
)

func (k BodyKind) String() string {
	switch k {
	case KindStar:
		return "star"
	case KindPlanet:
		return "planet"
	case KindMoon:
		return "moon"
	case KindBarycenter:
		return "barycenter"
	}
	return "unknown"
}

// Atmosphere defines an exponential atmosphere model.
type Atmosphere struct {
	SeaLevelDensity float64 // ρ₀ in kg/m³
	ScaleHeight     float64 // H in km
	Thickness       float64 // altitude in km above which drag is not evaluated
}

// Pole defines the orientation of a body's north pole in the inertial frame,
// as right ascension and declination at J2000 with per-century rates (IAU style).
type Pole struct {
	RA      float64 // deg
	RARate  float64 // deg/century
	Dec     float64 // deg
	DecRate float64 // deg/century
}

// Elements is a canonical two-body orbit relative to the body's ephemeris
// reference, used by the Keplerian fallback ephemeris. Angles in degrees.
type Elements struct {
	A  float64 // semi-major axis, km
	E  float64 // eccentricity
	I  float64 // inclination, deg
	Ω  float64 // right ascension of the ascending node, deg
	ω  float64 // argument of periapsis, deg
	M0 float64 // mean anomaly at the catalog epoch, deg
}

// NewElements returns canonical elements from the usual a, e, i, Ω, ω, M0
// set with the angles in degrees.
func NewElements(a, e, i, node, argp, m0 float64) *Elements {
	return &Elements{A: a, E: e, I: i, Ω: node, ω: argp, M0: m0}
}

// Body defines a celestial body: its physical parameters and its place in the
// parent hierarchy. Bodies are created once at startup and never destroyed.
type Body struct {
	ID             BodyID
	Name           string
	Kind           BodyKind
	Mass           float64 // kg; derived from GM when zero
	GM             float64 // km³/s²; aggregated from children for barycenters
	Radius         float64 // mean equatorial radius, km
	J2             float64 // second zonal harmonic, 0 when undeclared
	Pole           Pole
	Atmosphere     *Atmosphere // nil when the body has no atmosphere
	SOI            float64     // sphere-of-influence radius in km, 0 when undeclared
	Parent         BodyID      // empty for the root body
	Ref            BodyID      // ephemeris reference frame, defaults to Parent
	RotationPeriod float64     // sidereal rotation period in seconds, negative for retrograde
	Orbit          *Elements   // canonical orbit relative to Ref, nil when pinned
}

// SpinAxis returns the unit vector of the body's rotation axis in the
// inertial frame at the given epoch. A zero pole declares the +Z axis.
func (b Body) SpinAxis(epoch time.Time) []float64 {
	if b.Pole == (Pole{}) {
		return []float64{0, 0, 1}
	}
	T := julianCenturiesJ2000(epoch)
	α := Deg2rad(b.Pole.RA + b.Pole.RARate*T)
	δ := Deg2rad(b.Pole.Dec + b.Pole.DecRate*T)
	sα, cα := math.Sincos(α)
	sδ, cδ := math.Sincos(δ)
	return []float64{cδ * cα, cδ * sα, sδ}
}

// RotationRate returns the body's angular rotation rate ω = 2π/T in rad/s,
// signed, or 0 for a non-rotating body.
func (b Body) RotationRate() float64 {
	if b.RotationPeriod == 0 {
		return 0
	}
	return 2 * math.Pi / b.RotationPeriod
}

func (b Body) String() string {
	return b.Name + " body"
}

// BodyRegistry is the static catalog of bodies and their hierarchy. It is
// read-only after construction and safe for concurrent use without locking.
type BodyRegistry struct {
	bodies   map[BodyID]*Body
	children map[BodyID][]BodyID
	order    []BodyID // resolution order: references before dependents, barycenters after their children
	root     BodyID
}

// NewBodyRegistry validates the provided bodies and builds the registry.
// The hierarchy must contain exactly one root and every parent chain must
// terminate at the root without cycles; violations are ConfigurationErrors.
func NewBodyRegistry(defs []Body) (*BodyRegistry, error) {
	if len(defs) == 0 {
		return nil, newConfigError("empty body catalog")
	}
	r := &BodyRegistry{
		bodies:   make(map[BodyID]*Body, len(defs)),
		children: make(map[BodyID][]BodyID),
	}
	for i := range defs {
		b := defs[i]
		if b.ID == "" {
			return nil, newConfigError("body %q has no identifier", b.Name)
		}
		if _, dup := r.bodies[b.ID]; dup {
			return nil, newConfigError("duplicate body %q", b.ID)
		}
		if b.Ref == "" {
			b.Ref = b.Parent
		}
		if b.Mass == 0 && b.GM > 0 {
			b.Mass = b.GM / G
		}
		r.bodies[b.ID] = &b
	}
	for id, b := range r.bodies {
		if b.Parent == "" {
			if r.root != "" {
				return nil, newConfigError("multiple root bodies: %q and %q", r.root, id)
			}
			r.root = id
			continue
		}
		if _, ok := r.bodies[b.Parent]; !ok {
			return nil, newConfigError("body %q references unknown parent %q", id, b.Parent)
		}
		if _, ok := r.bodies[b.Ref]; !ok {
			return nil, newConfigError("body %q references unknown ephemeris reference %q", id, b.Ref)
		}
		r.children[b.Parent] = append(r.children[b.Parent], id)
	}
	if r.root == "" {
		return nil, newConfigError("no root body: one body must have no parent")
	}
	for id := range r.children {
		sort.Slice(r.children[id], func(i, j int) bool { return r.children[id][i] < r.children[id][j] })
	}
	// Every parent chain must reach the root without a cycle.
	for id := range r.bodies {
		seen := map[BodyID]bool{}
		for cur := id; cur != r.root; cur = r.bodies[cur].Parent {
			if seen[cur] {
				return nil, newConfigError("cycle in body hierarchy at %q", cur)
			}
			seen[cur] = true
		}
	}
	// A barycenter's state is derived from its children, so it cannot serve
	// as an ephemeris reference unless it is the root (pinned at the origin).
	for id, b := range r.bodies {
		if id == r.root {
			continue
		}
		ref := r.bodies[b.Ref]
		if ref.Kind == KindBarycenter && b.Ref != r.root {
			return nil, newConfigError("body %q uses non-root barycenter %q as ephemeris reference", id, b.Ref)
		}
		if b.Kind == KindBarycenter && len(r.children[id]) == 0 {
			return nil, newConfigError("barycenter %q has no children", id)
		}
	}
	r.aggregateBarycenters()
	if err := r.computeOrder(); err != nil {
		return nil, err
	}
	return r, nil
}

// aggregateBarycenters sums the mass and GM of all real descendants into
// each barycenter so that a barycenter can act as a gravitating central body.
func (r *BodyRegistry) aggregateBarycenters() {
	var descend func(id BodyID) (mass, gm float64)
	descend = func(id BodyID) (float64, float64) {
		b := r.bodies[id]
		mass, gm := 0.0, 0.0
		if b.Kind != KindBarycenter {
			mass, gm = b.Mass, b.GM
		}
		for _, c := range r.children[id] {
			m, g := descend(c)
			mass += m
			gm += g
		}
		return mass, gm
	}
	for id, b := range r.bodies {
		if b.Kind == KindBarycenter {
			b.Mass, b.GM = descend(id)
		}
	}
}

// computeOrder builds the resolution order: the root first, then
// non-barycenter bodies once their reference is placed, and barycenters once
// all their children are placed. A pass which places nothing means the
// reference graph is cyclic.
func (r *BodyRegistry) computeOrder() error {
	placed := map[BodyID]bool{r.root: true}
	r.order = append(r.order, r.root)
	ids := make([]BodyID, 0, len(r.bodies))
	for id := range r.bodies {
		if id != r.root {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for len(r.order) < len(r.bodies) {
		progress := false
		for _, id := range ids {
			if placed[id] {
				continue
			}
			b := r.bodies[id]
			ready := false
			if b.Kind == KindBarycenter {
				ready = true
				for _, c := range r.children[id] {
					if !placed[c] {
						ready = false
						break
					}
				}
			} else {
				ready = placed[b.Ref]
			}
			if ready {
				r.order = append(r.order, id)
				placed[id] = true
				progress = true
			}
		}
		if !progress {
			return newConfigError("unresolvable ephemeris reference graph (cycle between bodies and barycenters)")
		}
	}
	return nil
}

// Root returns the identifier of the root body.
func (r *BodyRegistry) Root() BodyID {
	return r.root
}

// Body returns the body for the given identifier.
func (r *BodyRegistry) Body(id BodyID) (*Body, bool) {
	b, ok := r.bodies[id]
	return b, ok
}

// Children returns the identifiers of the direct children of a body.
func (r *BodyRegistry) Children(id BodyID) []BodyID {
	return r.children[id]
}

// Len returns the number of bodies in the catalog.
func (r *BodyRegistry) Len() int {
	return len(r.bodies)
}

// Order returns the resolution order (references before dependents,
// barycenters after their children).
func (r *BodyRegistry) Order() []BodyID {
	return r.order
}

// IsAncestor returns whether a is an ancestor of b in the parent hierarchy.
func (r *BodyRegistry) IsAncestor(a, b BodyID) bool {
	for cur := r.bodies[b].Parent; cur != ""; cur = r.bodies[cur].Parent {
		if cur == a {
			return true
		}
	}
	return false
}
