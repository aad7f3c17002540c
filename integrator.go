package reentry

import (
	"errors"

	"github.com/ChristopherRabotin/ode"
)

// errNonFinite is returned by RK4Advance when a step produced NaN or Inf
// components; callers scope it to the satellite which produced it.
var errNonFinite = errors.New("non-finite state after RK4 step")

// AccelerationFn returns the acceleration (km/s²) for a position and
// velocity relative to the central body.
type AccelerationFn func(r, v []float64) []float64

// rk4Step adapts one fixed RK4 step over the 6-dimensional position/velocity
// state to the ode.Integrable contract. The integrator evaluates the
// acceleration at the start, twice at the midpoint, and at the full step,
// with the standard (1,2,2,1)/6 weighting.
type rk4Step struct {
	state   []float64
	accel   AccelerationFn
	stepped bool
}

func (s *rk4Step) GetState() []float64 {
	return s.state
}

func (s *rk4Step) SetState(t float64, state []float64) {
	s.state = state
	s.stepped = true
}

func (s *rk4Step) Stop(t float64) bool {
	return s.stepped
}

func (s *rk4Step) Func(t float64, f []float64) []float64 {
	a := s.accel(f[0:3], f[3:6])
	return []float64{f[3], f[4], f[5], a[0], a[1], a[2]}
}

// RK4Advance advances a position/velocity state by one fixed timestep dt
// (seconds) under the given acceleration function. It is deterministic and
// stateless aside from its inputs: identical inputs always produce identical
// outputs, whether called from the real-time loop or a background
// propagator. The returned acceleration is the start-of-step evaluation,
// kept as a diagnostic.
func RK4Advance(r, v []float64, dt float64, accel AccelerationFn) (nr, nv, acc []float64, err error) {
	acc = accel(r, v)
	step := &rk4Step{
		state: []float64{r[0], r[1], r[2], v[0], v[1], v[2]},
		accel: accel,
	}
	ode.NewRK4(0, dt, step).Solve()
	nr = step.state[0:3]
	nv = step.state[3:6]
	if !finite(nr) || !finite(nv) || !finite(acc) {
		return nil, nil, nil, errNonFinite
	}
	return nr, nv, acc, nil
}
