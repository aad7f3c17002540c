package reentry

import (
	"fmt"
	"sync"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

// EventKind discriminates engine notifications.
type EventKind uint8

const (
	// EventStateUpdated is emitted each time the clock publishes a state.
	EventStateUpdated EventKind = iota + 1
	// EventLag is emitted when backlog was discarded to preserve responsiveness.
	EventLag
	// EventSatelliteFrozen is emitted when a satellite hit an integration error.
	EventSatelliteFrozen
)

// Event is an engine notification delivered to subscribers.
type Event struct {
	Kind      EventKind
	State     *SimulationState // EventStateUpdated
	Lag       time.Duration    // EventLag: simulated time discarded
	Satellite SatelliteID      // EventSatelliteFrozen
	Err       error            // EventSatelliteFrozen
}

// Subscription is a registered engine event stream. Events are dropped for
// subscribers that do not keep up, never blocking the simulation.
type Subscription struct {
	C    <-chan Event
	c    chan Event
	id   uint64
	e    *Engine
	once sync.Once
}

// Unsubscribe removes the subscription and closes its channel.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.e.mu.Lock()
		delete(s.e.subs, s.id)
		s.e.mu.Unlock()
		close(s.c)
	})
}

// SatelliteParams describes a satellite to add to the simulation. The
// initial state is given either as central-body-relative position/velocity
// vectors or as classical orbital elements about the central body.
type SatelliteParams struct {
	Name     string
	Central  BodyID
	R        []float64          // km, used when Elements is nil
	V        []float64          // km/s, used when Elements is nil
	Elements *ClassicalElements // optional alternative to R/V
	Mass     float64            // kg
	Cd       float64            // drag coefficient
	Area     float64            // cross-sectional area, m²
}

// Engine is the in-process orbital-dynamics engine: it owns the real-time
// SimulationClock and the background TrajectoryPropagator, and exposes the
// narrow interface consumed by rendering, UI and API layers.
type Engine struct {
	reg      *BodyRegistry
	resolver *HierarchyResolver
	clock    *SimulationClock
	prop     *TrajectoryPropagator
	logger   kitlog.Logger

	updateEvery time.Duration

	mu      sync.Mutex
	subs    map[uint64]chan Event
	nextSub uint64
	nextSat uint64
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewEngine builds an engine from the configuration, registry and ephemeris
// provider. Configuration and hierarchy problems abort initialization with a
// ConfigurationError.
func NewEngine(cfg Config, reg *BodyRegistry, eph EphemerisProvider, logger kitlog.Logger, metrics *EngineMetrics) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	resolver := NewHierarchyResolver(reg, eph)
	force := ForceModel{Registry: reg, Perts: cfg.Perturbations}
	clock, err := NewSimulationClock(resolver, force, cfg.StepSize, cfg.MaxBacklogSteps, cfg.Epoch, kitlog.With(logger, "subsys", "clock"), metrics)
	if err != nil {
		return nil, err
	}
	if cfg.TimeWarp != 1 {
		if err := clock.SetWarp(cfg.TimeWarp); err != nil {
			return nil, err
		}
	}
	e := &Engine{
		reg:         reg,
		resolver:    resolver,
		clock:       clock,
		prop:        NewTrajectoryPropagator(resolver, force, cfg.ChunkSize, kitlog.With(logger, "subsys", "propagator"), metrics),
		logger:      logger,
		updateEvery: cfg.UpdateInterval,
		subs:        make(map[uint64]chan Event),
	}
	clock.SetOnPublish(func(st SimulationState) {
		e.broadcast(Event{Kind: EventStateUpdated, State: &st})
	})
	clock.SetOnLag(func(d time.Duration) {
		e.broadcast(Event{Kind: EventLag, Lag: d})
	})
	clock.SetOnFrozen(func(id SatelliteID, err error) {
		e.broadcast(Event{Kind: EventSatelliteFrozen, Satellite: id, Err: err})
	})
	return e, nil
}

// Start launches the real-time loop. It is a no-op when already running.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.stop = make(chan struct{})
	e.done = make(chan struct{})
	stop, done := e.stop, e.done
	e.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(e.updateEvery)
		defer ticker.Stop()
		last := time.Now()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				if err := e.clock.Advance(now.Sub(last)); err != nil {
					e.logger.Log("level", "error", "subsys", "engine", "err", err)
				}
				last = now
			}
		}
	}()
}

// Stop halts the real-time loop. In-flight trajectory propagations keep
// running; dispose them individually if needed.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	stop, done := e.stop, e.done
	e.mu.Unlock()
	close(stop)
	<-done
}

// GetSimulationState returns a read-only copy of the last published state.
func (e *Engine) GetSimulationState() SimulationState {
	return e.clock.Snapshot()
}

// Registry returns the read-only body catalog.
func (e *Engine) Registry() *BodyRegistry {
	return e.reg
}

// AddSatellite creates a satellite from the given parameters and starts
// tracking it.
func (e *Engine) AddSatellite(p SatelliteParams) (SatelliteID, error) {
	central, ok := e.reg.Body(p.Central)
	if !ok {
		return "", newConfigError("satellite references unknown central body %q", p.Central)
	}
	if p.Mass <= 0 {
		return "", newConfigError("satellite mass must be positive, got %f", p.Mass)
	}
	var R, V []float64
	if p.Elements != nil {
		el := p.Elements
		R, V = ElementsToRV(el.A, el.E, Deg2rad(el.I), Deg2rad(el.Node), Deg2rad(el.Argp), Deg2rad(el.Nu), central.GM)
	} else {
		if len(p.R) != 3 || len(p.V) != 3 {
			return "", newConfigError("satellite needs 3-component position and velocity vectors")
		}
		R, V = vec3(p.R), vec3(p.V)
	}
	e.mu.Lock()
	e.nextSat++
	id := SatelliteID(fmt.Sprintf("sat-%d", e.nextSat))
	e.mu.Unlock()
	name := p.Name
	if name == "" {
		name = string(id)
	}
	e.clock.Track(&Satellite{
		ID:      id,
		Name:    name,
		Central: p.Central,
		R:       R,
		V:       V,
		Mass:    p.Mass,
		Cd:      p.Cd,
		Area:    p.Area,
	})
	e.logger.Log("level", "info", "subsys", "engine", "added", id, "central", p.Central)
	return id, nil
}

// RemoveSatellite stops tracking the satellite and disposes any in-flight
// trajectory propagation. Returns an UnknownSatelliteError for untracked ids.
func (e *Engine) RemoveSatellite(id SatelliteID) error {
	if err := e.clock.Untrack(id); err != nil {
		return err
	}
	e.prop.Dispose(id)
	e.logger.Log("level", "info", "subsys", "engine", "removed", id)
	return nil
}

// SetEpoch repositions the simulation at the given date.
func (e *Engine) SetEpoch(epoch time.Time) error {
	return e.clock.SetEpoch(epoch)
}

// SetTimeWarp sets the wall-to-simulated time ratio; 0 pauses.
func (e *Engine) SetTimeWarp(factor float64) error {
	return e.clock.SetWarp(factor)
}

// RequestTrajectory starts a background propagation of the satellite's
// current state over the given duration, streaming OrbitSegments in chunks
// on the returned channel. A later request for the same satellite supersedes
// this one.
func (e *Engine) RequestTrajectory(id SatelliteID, duration time.Duration, sampleCount int) (<-chan TrajectoryChunk, error) {
	sat, err := e.clock.Satellite(id)
	if err != nil {
		return nil, err
	}
	return e.prop.Request(sat, e.clock.Epoch(), duration, sampleCount)
}

// DisposeTrajectory cancels any in-flight propagation for the satellite.
func (e *Engine) DisposeTrajectory(id SatelliteID) {
	e.prop.Dispose(id)
}

// Subscribe registers an event stream with the given buffer size. Events are
// dropped, not blocked on, when the buffer is full.
func (e *Engine) Subscribe(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 16
	}
	e.mu.Lock()
	e.nextSub++
	id := e.nextSub
	c := make(chan Event, buffer)
	e.subs[id] = c
	e.mu.Unlock()
	return &Subscription{C: c, c: c, id: id, e: e}
}

func (e *Engine) broadcast(ev Event) {
	e.mu.Lock()
	for _, c := range e.subs {
		select {
		case c <- ev:
		default:
		}
	}
	e.mu.Unlock()
}
