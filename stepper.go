package reentry

import (
	"time"
)

// stepper advances satellite states by one fixed timestep, running the
// identical ForceModel → RK4 → SOIManager sequence for both the real-time
// loop and background propagators. It holds no mutable state: identical
// inputs produce bit-identical outputs on either path.
type stepper struct {
	force ForceModel
	soi   SOIManager
}

// advance integrates the satellite by dt seconds against the provided body
// snapshots, then applies at most one SOI transition. On an integration
// error the satellite is left untouched and a scoped IntegrationError is
// returned.
func (st stepper) advance(sat *Satellite, epoch time.Time, dt float64, snaps map[BodyID]BodySnapshot) (frameChanged bool, err error) {
	central, ok := st.force.Registry.Body(sat.Central)
	if !ok {
		return false, newConfigError("satellite %q references unknown central body %q", sat.ID, sat.Central)
	}
	accelFn := func(r, v []float64) []float64 {
		return st.force.Acceleration(r, v, sat.Mass, sat.Cd, sat.Area, central, snaps)
	}
	nr, nv, acc, err := RK4Advance(sat.R, sat.V, dt, accelFn)
	if err != nil {
		return false, IntegrationError{Satellite: sat.ID, Epoch: epoch, msg: err.Error()}
	}
	sat.R, sat.V, sat.Accel = nr, nv, acc
	return st.soi.Transition(sat, snaps), nil
}
