package reentry

import (
	"math"

	"github.com/gonum/floats"
)

const (
	eccentricityε = 5e-5                         // 0.00005
	angleε        = (5e-3 / 360) * (2 * math.Pi) // 0.005 degrees
)

// ClassicalElements is a set of classical orbital elements with the angles
// in degrees, suitable for creating satellites without a state vector.
type ClassicalElements struct {
	A    float64 // semi-major axis, km
	E    float64 // eccentricity
	I    float64 // inclination, deg
	Node float64 // RAAN, deg
	Argp float64 // argument of periapsis, deg
	Nu   float64 // true anomaly, deg
}

// ElementsToRV returns the position and velocity vectors for the given
// classical elements about a body of gravitational parameter gm.
// From Vallado's COE2RV.
func ElementsToRV(a, e, i, Ω, ω, ν, gm float64) (R, V []float64) {
	// Approximations for circular and equatorial orbits, as in RV2COE.
	if e < eccentricityε {
		e = eccentricityε
	}
	if i < angleε {
		i = angleε
	}
	p := a * (1 - e*e)
	sinν, cosν := math.Sincos(ν)
	R = []float64{p * cosν / (1 + e*cosν), p * sinν / (1 + e*cosν), 0}
	R = PQW2ECI(i, ω, Ω, R)
	V = []float64{-math.Sqrt(gm/p) * sinν, math.Sqrt(gm/p) * (e + cosν), 0}
	V = PQW2ECI(i, ω, Ω, V)
	return
}

// RVToElements returns the classical elements (angles in radians) for the
// given state vectors about a body of gravitational parameter gm.
// From Vallado's RV2COE, page 113.
func RVToElements(R, V []float64, gm float64) (a, e, i, Ω, ω, ν float64) {
	hVec := Cross(R, V)
	n := Cross([]float64{0, 0, 1}, hVec)
	v := Norm(V)
	r := Norm(R)
	ξ := (v*v)/2 - gm/r
	a = -gm / (2 * ξ)
	eVec := make([]float64, 3)
	for j := 0; j < 3; j++ {
		eVec[j] = ((v*v-gm/r)*R[j] - Dot(R, V)*V[j]) / gm
	}
	e = Norm(eVec)
	i = math.Acos(hVec[2] / Norm(hVec))
	ω = math.Acos(Dot(n, eVec) / (Norm(n) * e))
	if math.IsNaN(ω) {
		ω = 0
	}
	if eVec[2] < 0 {
		ω = 2*math.Pi - ω
	}
	Ω = math.Acos(n[0] / Norm(n))
	if math.IsNaN(Ω) {
		Ω = 0
	}
	if n[1] < 0 {
		Ω = 2*math.Pi - Ω
	}
	cosν := Dot(eVec, R) / (e * r)
	if abscosν := math.Abs(cosν); abscosν > 1 && floats.EqualWithinAbs(abscosν, 1, 1e-12) {
		cosν = cosν / abscosν
	}
	ν = math.Acos(cosν)
	if Dot(R, V) < 0 {
		ν = 2*math.Pi - ν
	}
	i = math.Mod(i, 2*math.Pi)
	Ω = math.Mod(Ω, 2*math.Pi)
	ω = math.Mod(ω, 2*math.Pi)
	ν = math.Mod(ν, 2*math.Pi)
	return
}

// meanToTrue solves Kepler's equation M = E - e·sin(E) by Newton iteration
// and returns the true anomaly. All angles in radians.
func meanToTrue(M, e float64) float64 {
	M = math.Mod(M, 2*math.Pi)
	if M < 0 {
		M += 2 * math.Pi
	}
	E := M
	if e > 0.8 {
		E = math.Pi
	}
	for iter := 0; iter < 50; iter++ {
		dE := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		E -= dE
		if math.Abs(dE) < 1e-13 {
			break
		}
	}
	sinE, cosE := math.Sincos(E)
	sinν := math.Sqrt(1-e*e) * sinE / (1 - e*cosE)
	cosν := (cosE - e) / (1 - e*cosE)
	return math.Atan2(sinν, cosν)
}

// CircularVelocity returns the circular orbital velocity at radius r about a
// body of gravitational parameter gm.
func CircularVelocity(gm, r float64) float64 {
	return math.Sqrt(gm / r)
}

// OrbitalPeriod returns the period of an orbit of semi-major axis a about a
// body of gravitational parameter gm, in seconds.
func OrbitalPeriod(gm, a float64) float64 {
	return 2 * math.Pi * math.Sqrt(a*a*a/gm)
}

// SpecificEnergy returns the specific orbital energy v²/2 − gm/r.
func SpecificEnergy(R, V []float64, gm float64) float64 {
	v := Norm(V)
	return v*v/2 - gm/Norm(R)
}
