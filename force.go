package reentry

import (
	"math"
)

// Perturbations selects which force terms beyond central-body gravity are
// evaluated during propagation.
type Perturbations struct {
	Oblateness bool // J2 of the central body about its true pole axis
	ThirdBody  bool // perturbation from every other massive body
	Drag       bool // exponential atmosphere with co-rotation
}

// FullPerturbations enables every supported perturbation.
func FullPerturbations() Perturbations {
	return Perturbations{Oblateness: true, ThirdBody: true, Drag: true}
}

// ForceModel computes the net acceleration on a satellite. It is a pure
// function of its inputs and carries no mutable state, so it is shared
// without locking between the real-time loop and background propagators.
type ForceModel struct {
	Registry *BodyRegistry
	Perts    Perturbations
}

// Acceleration returns the net acceleration (km/s²) on a satellite of the
// given ballistic properties at position r and velocity v relative to the
// central body, with all bodies at the provided snapshots. Callers must
// reject non-finite results as integration errors.
func (f ForceModel) Acceleration(r, v []float64, mass, cd, area float64, central *Body, snaps map[BodyID]BodySnapshot) []float64 {
	rNorm := Norm(r)
	// Central-body gravity: -GM·r/|r|³.
	acc := scale(-central.GM/(rNorm*rNorm*rNorm), r)
	if f.Perts.Oblateness && central.J2 != 0 {
		acc = add(acc, f.oblateness(r, rNorm, central, snaps[central.ID]))
	}
	if f.Perts.ThirdBody {
		acc = add(acc, f.thirdBody(r, central, snaps))
	}
	if f.Perts.Drag && central.Atmosphere != nil && cd > 0 && mass > 0 {
		acc = add(acc, f.drag(r, v, rNorm, mass, cd, area, central, snaps[central.ID]))
	}
	return acc
}

// oblateness returns the J2 second-zonal-harmonic correction as a function
// of the latitude derived from r and the body's true pole axis:
// a = (3/2)·J2·GM·R²/|r|⁴ · ((5s²−1)·r̂ − 2s·k̂) with s = r̂·k̂.
func (f ForceModel) oblateness(r []float64, rNorm float64, central *Body, snap BodySnapshot) []float64 {
	k := snap.Axis
	rHat := scale(1/rNorm, r)
	s := Dot(rHat, k)
	coeff := 1.5 * central.J2 * central.GM * central.Radius * central.Radius / math.Pow(rNorm, 4)
	term := sub(scale(5*s*s-1, rHat), scale(2*s, k))
	return scale(coeff, term)
}

// thirdBody sums the perturbation of every other massive body in the
// cancellation-safe form GM·(d/|d|³ − r_b/|r_b|³), where d is the
// satellite-to-body vector and r_b the central-to-body vector. Barycenters
// are skipped: their mass is already carried by their children.
func (f ForceModel) thirdBody(r []float64, central *Body, snaps map[BodyID]BodySnapshot) []float64 {
	acc := []float64{0, 0, 0}
	centralSnap := snaps[central.ID]
	for _, id := range f.Registry.Order() {
		if id == central.ID {
			continue
		}
		b, _ := f.Registry.Body(id)
		if b.Kind == KindBarycenter || b.GM <= 0 {
			continue
		}
		rb := sub(snaps[id].R, centralSnap.R)
		rbNorm := Norm(rb)
		if rbNorm == 0 {
			continue
		}
		d := sub(rb, r)
		dNorm := Norm(d)
		if dNorm == 0 {
			continue
		}
		acc = add(acc, scale(b.GM, sub(scale(1/(dNorm*dNorm*dNorm), d), scale(1/(rbNorm*rbNorm*rbNorm), rb))))
	}
	return acc
}

// drag returns the atmospheric drag acceleration below the declared
// atmosphere thickness. Density follows ρ(h) = ρ₀·exp(−h/H) and the relative
// velocity is taken against a co-rotating atmosphere, v_atm = ω⃗ × r with ω⃗
// along the body's true pole axis. The full 3-D cross product matters: a
// flat 2-D rotation about the coordinate Z axis yields the wrong relative
// velocity over the poles of a tilted body.
func (f ForceModel) drag(r, v []float64, rNorm, mass, cd, area float64, central *Body, snap BodySnapshot) []float64 {
	h := rNorm - central.Radius
	atm := central.Atmosphere
	if h >= atm.Thickness {
		return []float64{0, 0, 0}
	}
	if h < 0 {
		h = 0
	}
	ρ := atm.SeaLevelDensity * math.Exp(-h/atm.ScaleHeight)
	vRel := RelativeAtmosphericVelocity(r, v, central, snap)
	// ρ in kg/m³ with velocities in km/s: ρ·|v|·v carries a factor 10⁶ to
	// m²/s², and the result converts back to km/s² with 10⁻³.
	vRelNorm := Norm(vRel)
	coeff := -0.5 * ρ * vRelNorm * cd * area / mass * 1e3
	return scale(coeff, vRel)
}

// RelativeAtmosphericVelocity returns the satellite velocity relative to the
// co-rotating atmosphere of the central body, in km/s.
func RelativeAtmosphericVelocity(r, v []float64, central *Body, snap BodySnapshot) []float64 {
	ω := scale(central.RotationRate(), snap.Axis)
	return sub(v, Cross(ω, r))
}
