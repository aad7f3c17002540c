package reentry

import (
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/julian"
	"github.com/soniakeys/meeus/planetposition"
	"github.com/soniakeys/meeus/pluto"
)

const (
	// AU is one astronomical unit in kilometers.
	AU = 1.49597870700e8
	// j2000JD is the Julian date of the J2000 epoch.
	j2000JD = 2451545.0
)

// DefaultEpoch is the epoch the canonical catalog elements refer to.
var DefaultEpoch = time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC)

// julianCenturiesJ2000 returns the Julian centuries elapsed since J2000.
func julianCenturiesJ2000(epoch time.Time) float64 {
	return (julian.TimeToJD(epoch) - j2000JD) / 36525
}

// EphemerisProvider supplies the state of a body at a given epoch, relative
// to the body's declared ephemeris reference. Implementations must be safe
// for concurrent use: the real-time loop and background propagators query
// them from independent goroutines.
type EphemerisProvider interface {
	// StateAt returns the reference-relative position (km), velocity (km/s)
	// and the unit rotation axis of the body at the given epoch.
	StateAt(id BodyID, epoch time.Time) (R, V, axis []float64, err error)
}

// KeplerianEphemeris is the canonical-element fallback ephemeris: each body
// moves on its catalog two-body orbit about its ephemeris reference. Bodies
// without catalog elements (the root, and stars pinned to it) stay at their
// reference.
type KeplerianEphemeris struct {
	reg   *BodyRegistry
	epoch time.Time // epoch of the catalog mean anomalies
}

// NewKeplerianEphemeris returns a Keplerian ephemeris for the registry with
// catalog elements valid at DefaultEpoch.
func NewKeplerianEphemeris(reg *BodyRegistry) *KeplerianEphemeris {
	return &KeplerianEphemeris{reg: reg, epoch: DefaultEpoch}
}

// StateAt implements EphemerisProvider.
func (k *KeplerianEphemeris) StateAt(id BodyID, epoch time.Time) ([]float64, []float64, []float64, error) {
	b, ok := k.reg.Body(id)
	if !ok {
		return nil, nil, nil, newConfigError("ephemeris query for unknown body %q", id)
	}
	axis := b.SpinAxis(epoch)
	if b.Orbit == nil {
		return []float64{0, 0, 0}, []float64{0, 0, 0}, axis, nil
	}
	ref, _ := k.reg.Body(b.Ref)
	gm := ref.GM
	if gm <= 0 {
		return nil, nil, nil, newConfigError("ephemeris reference %q of %q has no gravitational parameter", b.Ref, id)
	}
	el := b.Orbit
	n := math.Sqrt(gm / (el.A * el.A * el.A))
	M := Deg2rad(el.M0) + n*epoch.Sub(k.epoch).Seconds()
	ν := meanToTrue(M, el.E)
	R, V := ElementsToRV(el.A, el.E, Deg2rad(el.I), Deg2rad(el.Ω), Deg2rad(el.ω), ν, gm)
	return R, V, axis, nil
}

// VSOP87Ephemeris overrides the Keplerian ephemeris with VSOP87 heliocentric
// states for the planets (and Pluto), loaded from the Meeus data files. All
// other bodies fall through to the Keplerian provider.
type VSOP87Ephemeris struct {
	base    *KeplerianEphemeris
	planets map[BodyID]*planetposition.V87Planet
	sunGM   float64
}

// vsop87Index maps catalog identifiers to Meeus planet indices.
var vsop87Index = map[BodyID]int{
	"mercury": planetposition.Mercury,
	"venus":   planetposition.Venus,
	"earth":   planetposition.Earth,
	"mars":    planetposition.Mars,
	"jupiter": planetposition.Jupiter,
	"saturn":  planetposition.Saturn,
	"uranus":  planetposition.Uranus,
	"neptune": planetposition.Neptune,
}

// NewVSOP87Ephemeris loads the VSOP87 data files from dir for every planet
// present in the registry. The whole file is loaded up front: lazy loading
// would make the first resolve of a tick pay the I/O cost.
func NewVSOP87Ephemeris(reg *BodyRegistry, dir string) (*VSOP87Ephemeris, error) {
	sun, ok := reg.Body("sun")
	if !ok {
		return nil, newConfigError("VSOP87 ephemeris requires a body %q in the catalog", "sun")
	}
	e := &VSOP87Ephemeris{
		base:    NewKeplerianEphemeris(reg),
		planets: make(map[BodyID]*planetposition.V87Planet),
		sunGM:   sun.GM,
	}
	for id, idx := range vsop87Index {
		if _, ok := reg.Body(id); !ok {
			continue
		}
		planet, err := planetposition.LoadPlanetPath(idx, dir)
		if err != nil {
			return nil, fmt.Errorf("could not load VSOP87 planet %s: %s", id, err)
		}
		e.planets[id] = planet
	}
	return e, nil
}

// StateAt implements EphemerisProvider.
func (v *VSOP87Ephemeris) StateAt(id BodyID, epoch time.Time) ([]float64, []float64, []float64, error) {
	b, ok := v.base.reg.Body(id)
	if !ok {
		return nil, nil, nil, newConfigError("ephemeris query for unknown body %q", id)
	}
	var l, bb, r float64
	switch {
	case id == "pluto":
		lp, bp, rp := pluto.Heliocentric(julian.TimeToJD(epoch))
		l, bb, r = lp.Rad(), bp.Rad(), rp
	default:
		planet, found := v.planets[id]
		if !found {
			return v.base.StateAt(id, epoch)
		}
		lp, bp, rp := planet.Position2000(julian.TimeToJD(epoch))
		l, bb, r = lp.Rad(), bp.Rad(), rp
	}
	r *= AU
	R := make([]float64, 3)
	sB, cB := math.Sincos(bb)
	sL, cL := math.Sincos(l)
	R[0] = r * cB * cL
	R[1] = r * cB * sL
	R[2] = r * sB
	// Velocity magnitude from vis-viva, direction along the orbit track.
	a := r
	if b.Orbit != nil {
		a = b.Orbit.A
	}
	speed := math.Sqrt(2*v.sunGM/r - v.sunGM/a)
	vDir := Unit(Cross(R, []float64{0, 0, -1}))
	V := scale(speed, vDir)
	return R, V, b.SpinAxis(epoch), nil
}
