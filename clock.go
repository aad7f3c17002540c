package reentry

import (
	"sync"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

// clockEvent is a deferred notification collected while the clock lock is
// held and fired after it is released.
type clockEvent struct {
	published *SimulationState
	lag       time.Duration
	frozenID  SatelliteID
	frozenErr error
}

// SimulationClock owns the authoritative SimulationState and drives it in
// real time: wall-clock time scaled by the warp factor accumulates, and
// while the accumulator holds at least one fixed timestep the clock resolves
// fresh body snapshots, integrates every tracked satellite, and applies SOI
// transitions. One versioned state is published per full flush, not per
// step, so a slow consumer falls behind and catches up instead of being
// flooded.
type SimulationClock struct {
	mu         sync.Mutex
	step       time.Duration
	maxBacklog int // max steps flushed per advance; excess is discarded with a lag signal
	resolver   *HierarchyResolver
	stepper    stepper

	warp       float64
	epoch      time.Time
	accum      time.Duration
	satellites map[SatelliteID]*Satellite
	snaps      map[BodyID]BodySnapshot
	version    uint64
	last       SimulationState

	logger  kitlog.Logger
	metrics *EngineMetrics

	onPublish func(SimulationState)
	onLag     func(time.Duration)
	onFrozen  func(SatelliteID, error)
}

// NewSimulationClock returns a clock positioned at the given epoch with a
// warp factor of 1. The initial state (version 0) is resolved immediately so
// consumers always have a snapshot to read.
func NewSimulationClock(resolver *HierarchyResolver, force ForceModel, step time.Duration, maxBacklog int, epoch time.Time, logger kitlog.Logger, metrics *EngineMetrics) (*SimulationClock, error) {
	if step <= 0 {
		return nil, newConfigError("clock step must be positive, got %s", step)
	}
	if maxBacklog < 1 {
		return nil, newConfigError("clock backlog must allow at least one step, got %d", maxBacklog)
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	c := &SimulationClock{
		step:       step,
		maxBacklog: maxBacklog,
		resolver:   resolver,
		stepper:    stepper{force: force, soi: SOIManager{Registry: force.Registry}},
		warp:       1,
		epoch:      epoch,
		satellites: make(map[SatelliteID]*Satellite),
		logger:     logger,
		metrics:    metrics,
	}
	snaps, err := resolver.Resolve(epoch)
	if err != nil {
		return nil, err
	}
	c.snaps = snaps
	c.last = c.buildStateLocked()
	return c, nil
}

// SetOnPublish registers the publication callback. Must be set before the
// clock starts advancing.
func (c *SimulationClock) SetOnPublish(fn func(SimulationState)) { c.onPublish = fn }

// SetOnLag registers the lag callback, invoked with the simulated duration
// discarded when the backlog exceeded the per-advance budget.
func (c *SimulationClock) SetOnLag(fn func(time.Duration)) { c.onLag = fn }

// SetOnFrozen registers the callback invoked when a satellite is frozen
// after an integration error.
func (c *SimulationClock) SetOnFrozen(fn func(SatelliteID, error)) { c.onFrozen = fn }

// Step returns the fixed physics timestep.
func (c *SimulationClock) Step() time.Duration { return c.step }

// SetWarp sets the wall-to-simulated time ratio. A factor of 0 pauses the
// simulation; negative factors are rejected.
func (c *SimulationClock) SetWarp(factor float64) error {
	if factor < 0 {
		return newConfigError("time warp must be non-negative, got %f", factor)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warp = factor
	return nil
}

// Warp returns the current warp factor.
func (c *SimulationClock) Warp() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.warp
}

// SetEpoch repositions the simulation at the given date, drops any
// accumulated backlog, and publishes the re-resolved state.
func (c *SimulationClock) SetEpoch(epoch time.Time) error {
	c.mu.Lock()
	snaps, err := c.resolver.Resolve(epoch)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.epoch = epoch
	c.accum = 0
	c.snaps = snaps
	c.version++
	c.last = c.buildStateLocked()
	published := c.last.clone()
	c.mu.Unlock()
	if c.onPublish != nil {
		c.onPublish(published)
	}
	return nil
}

// Epoch returns the current simulated epoch.
func (c *SimulationClock) Epoch() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// Snapshot returns a read-only copy of the last published state.
func (c *SimulationClock) Snapshot() SimulationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last.clone()
}

// Track adds a satellite to the clock and publishes the updated state.
func (c *SimulationClock) Track(sat *Satellite) {
	c.mu.Lock()
	c.satellites[sat.ID] = sat
	c.version++
	c.last = c.buildStateLocked()
	published := c.last.clone()
	if c.metrics != nil {
		c.metrics.Satellites.Set(float64(len(c.satellites)))
	}
	c.mu.Unlock()
	if c.onPublish != nil {
		c.onPublish(published)
	}
}

// Untrack removes a satellite. It returns an UnknownSatelliteError when the
// identifier is not tracked.
func (c *SimulationClock) Untrack(id SatelliteID) error {
	c.mu.Lock()
	if _, ok := c.satellites[id]; !ok {
		c.mu.Unlock()
		return UnknownSatelliteError{ID: id}
	}
	delete(c.satellites, id)
	c.version++
	c.last = c.buildStateLocked()
	published := c.last.clone()
	if c.metrics != nil {
		c.metrics.Satellites.Set(float64(len(c.satellites)))
	}
	c.mu.Unlock()
	if c.onPublish != nil {
		c.onPublish(published)
	}
	return nil
}

// Satellite returns a copy of the tracked satellite's current state.
func (c *SimulationClock) Satellite(id SatelliteID) (Satellite, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sat, ok := c.satellites[id]
	if !ok {
		return Satellite{}, UnknownSatelliteError{ID: id}
	}
	return sat.clone(), nil
}

// Advance feeds elapsed wall-clock time to the clock. The accumulator gains
// elapsed·warp; whole timesteps are flushed until it runs dry or the backlog
// budget is hit, in which case the excess is discarded and a lag signal is
// raised rather than stalling interaction with unbounded catch-up.
func (c *SimulationClock) Advance(elapsed time.Duration) error {
	start := time.Now()
	c.mu.Lock()
	var events []clockEvent
	if c.warp > 0 && elapsed > 0 {
		c.accum += time.Duration(float64(elapsed) * c.warp)
	}
	steps := 0
	var stepErr error
	for c.accum >= c.step {
		if steps >= c.maxBacklog {
			dropped := c.accum - c.accum%c.step
			c.accum %= c.step
			events = append(events, clockEvent{lag: dropped})
			if c.metrics != nil {
				c.metrics.LagDroppedSeconds.Add(dropped.Seconds())
			}
			c.logger.Log("level", "warning", "subsys", "clock", "lag", dropped, "epoch", c.epoch)
			break
		}
		if stepErr = c.stepOnceLocked(&events); stepErr != nil {
			break
		}
		c.accum -= c.step
		steps++
	}
	if steps > 0 {
		c.version++
		c.last = c.buildStateLocked()
		published := c.last.clone()
		events = append(events, clockEvent{published: &published})
		if c.metrics != nil {
			c.metrics.StepsTotal.Add(float64(steps))
		}
	}
	c.mu.Unlock()
	if c.metrics != nil {
		c.metrics.TickDuration.Observe(time.Since(start).Seconds())
	}
	c.fire(events)
	return stepErr
}

// stepOnceLocked advances the simulation by one fixed timestep: it resolves
// body snapshots for the new epoch, integrates every live satellite, and
// applies SOI transitions. An integration failure freezes only the satellite
// which produced it.
func (c *SimulationClock) stepOnceLocked(events *[]clockEvent) error {
	next := c.epoch.Add(c.step)
	snaps, err := c.resolver.Resolve(next)
	if err != nil {
		c.logger.Log("level", "error", "subsys", "clock", "epoch", next, "err", err)
		return err
	}
	dt := c.step.Seconds()
	for id, sat := range c.satellites {
		if sat.Frozen {
			continue
		}
		if _, err := c.stepper.advance(sat, next, dt, snaps); err != nil {
			sat.Frozen = true
			*events = append(*events, clockEvent{frozenID: id, frozenErr: err})
			if c.metrics != nil {
				c.metrics.IntegrationErrors.Inc()
			}
			c.logger.Log("level", "critical", "subsys", "clock", "satellite", id, "frozen", true, "err", err)
		}
	}
	c.epoch = next
	c.snaps = snaps
	return nil
}

// buildStateLocked assembles a fresh immutable state from the current epoch,
// snapshots and satellites. Maps and slices are never shared with previous
// publications.
func (c *SimulationClock) buildStateLocked() SimulationState {
	st := SimulationState{
		Epoch:      c.epoch,
		Version:    c.version,
		Bodies:     make(map[BodyID]BodySnapshot, len(c.snaps)),
		Satellites: make(map[SatelliteID]Satellite, len(c.satellites)),
	}
	for id, snap := range c.snaps {
		st.Bodies[id] = snap.clone()
	}
	for id, sat := range c.satellites {
		st.Satellites[id] = sat.clone()
	}
	return st
}

// fire delivers deferred notifications outside the clock lock.
func (c *SimulationClock) fire(events []clockEvent) {
	for _, ev := range events {
		switch {
		case ev.published != nil && c.onPublish != nil:
			c.onPublish(*ev.published)
		case ev.lag > 0 && c.onLag != nil:
			c.onLag(ev.lag)
		case ev.frozenID != "" && c.onFrozen != nil:
			c.onFrozen(ev.frozenID, ev.frozenErr)
		}
	}
}
