package reentry

import (
	"sync"
	"time"

	kitlog "github.com/go-kit/kit/log"
)

// TrajectoryPropagator computes long-horizon trajectories off the critical
// path. Each request runs on its own goroutine over simulated time decoupled
// from the wall clock, applying the identical ForceModel → RK4 → SOIManager
// sequence as the real-time loop, and streams OrbitSegments incrementally so
// a caller can render a partial path while computation continues.
//
// Requests carry a monotonically increasing sequence number per satellite. A
// later request supersedes the earlier one: the earlier goroutine is stopped
// and its channel closed without a completion marker, and consumers must
// discard chunks tagged with a lower sequence number than the latest they
// accepted.
type TrajectoryPropagator struct {
	mu       sync.Mutex
	resolver *HierarchyResolver
	stepper  stepper

	chunkSize int
	seqs      map[SatelliteID]uint64
	active    map[SatelliteID]*propagation

	logger  kitlog.Logger
	metrics *EngineMetrics
}

type propagation struct {
	seq  uint64
	stop chan struct{}
	out  chan TrajectoryChunk
}

// NewTrajectoryPropagator returns a propagator emitting chunks of the given
// sample count.
func NewTrajectoryPropagator(resolver *HierarchyResolver, force ForceModel, chunkSize int, logger kitlog.Logger, metrics *EngineMetrics) *TrajectoryPropagator {
	if chunkSize < 1 {
		chunkSize = 64
	}
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &TrajectoryPropagator{
		resolver:  resolver,
		stepper:   stepper{force: force, soi: SOIManager{Registry: force.Registry}},
		chunkSize: chunkSize,
		seqs:      make(map[SatelliteID]uint64),
		active:    make(map[SatelliteID]*propagation),
		logger:    logger,
		metrics:   metrics,
	}
}

// Request starts a propagation of the given satellite state from the start
// epoch over the total duration, sampled sampleCount times. It supersedes
// any in-flight request for the same satellite. The returned channel is
// closed after the terminal chunk (Done or Err), or without one when the
// request is superseded or disposed.
func (p *TrajectoryPropagator) Request(sat Satellite, start time.Time, duration time.Duration, sampleCount int) (<-chan TrajectoryChunk, error) {
	if duration <= 0 {
		return nil, newConfigError("trajectory duration must be positive, got %s", duration)
	}
	if sampleCount < 1 {
		return nil, newConfigError("trajectory sample count must be at least 1, got %d", sampleCount)
	}
	p.mu.Lock()
	p.seqs[sat.ID]++
	run := &propagation{
		seq:  p.seqs[sat.ID],
		stop: make(chan struct{}),
		out:  make(chan TrajectoryChunk, 8),
	}
	if prev := p.active[sat.ID]; prev != nil {
		close(prev.stop)
	}
	p.active[sat.ID] = run
	p.mu.Unlock()
	if p.metrics != nil {
		p.metrics.PropagationsActive.Inc()
	}
	go p.run(sat, start, duration, sampleCount, run)
	return run.out, nil
}

// Dispose cancels any in-flight propagation for the satellite and releases
// its resources. No further chunks are produced.
func (p *TrajectoryPropagator) Dispose(id SatelliteID) {
	p.mu.Lock()
	if run := p.active[id]; run != nil {
		close(run.stop)
		delete(p.active, id)
	}
	p.mu.Unlock()
}

// finish unregisters a completed run unless it was already superseded.
func (p *TrajectoryPropagator) finish(id SatelliteID, run *propagation) {
	p.mu.Lock()
	if p.active[id] == run {
		delete(p.active, id)
	}
	p.mu.Unlock()
	if p.metrics != nil {
		p.metrics.PropagationsActive.Dec()
	}
}

func (p *TrajectoryPropagator) run(sat Satellite, start time.Time, duration time.Duration, sampleCount int, run *propagation) {
	defer close(run.out)
	defer p.finish(sat.ID, run)

	send := func(chunk TrajectoryChunk) bool {
		select {
		case run.out <- chunk:
			return true
		case <-run.stop:
			return false
		}
	}

	dt := duration / time.Duration(sampleCount)
	if dt <= 0 {
		dt = time.Millisecond
	}
	dtSec := dt.Seconds()
	segment := OrbitSegment{Central: sat.Central}
	var pending []OrbitSegment
	count := 0

	flush := func(done bool, terminal error) bool {
		if len(segment.Samples) > 0 {
			pending = append(pending, segment)
			segment = OrbitSegment{Central: sat.Central}
		}
		if len(pending) == 0 && !done && terminal == nil {
			return true
		}
		chunk := TrajectoryChunk{Satellite: sat.ID, Seq: run.seq, Segments: pending, Done: done, Err: terminal}
		pending = nil
		count = 0
		return send(chunk)
	}

	offset := time.Duration(0)
	for i := 0; i < sampleCount; i++ {
		select {
		case <-run.stop:
			return
		default:
		}
		offset += dt
		epoch := start.Add(offset)
		snaps, err := p.resolver.Resolve(epoch)
		if err != nil {
			p.logger.Log("level", "error", "subsys", "propagator", "satellite", sat.ID, "seq", run.seq, "err", err)
			flush(false, err)
			return
		}
		changed, err := p.stepper.advance(&sat, epoch, dtSec, snaps)
		if err != nil {
			p.logger.Log("level", "error", "subsys", "propagator", "satellite", sat.ID, "seq", run.seq, "err", err)
			flush(false, err)
			return
		}
		if changed {
			if len(segment.Samples) > 0 {
				pending = append(pending, segment)
			}
			segment = OrbitSegment{Central: sat.Central}
		}
		segment.Samples = append(segment.Samples, TrajectorySample{
			Offset:      offset,
			R:           vec3(sat.R),
			V:           vec3(sat.V),
			Central:     sat.Central,
			FrameChange: changed,
		})
		count++
		if count >= p.chunkSize {
			if !flush(false, nil) {
				return
			}
		}
	}
	flush(true, nil)
}
