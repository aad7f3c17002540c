package reentry

import (
	"testing"
	"time"
)

func testPropagator(t *testing.T, chunkSize int) (*TrajectoryPropagator, *BodyRegistry) {
	reg := testRegistry(t)
	resolver := NewHierarchyResolver(reg, NewKeplerianEphemeris(reg))
	force := ForceModel{Registry: reg, Perts: Perturbations{}}
	return NewTrajectoryPropagator(resolver, force, chunkSize, nil, nil), reg
}

func drain(t *testing.T, ch <-chan TrajectoryChunk) (samples int, done bool, terminal error) {
	for chunk := range ch {
		if chunk.Err != nil {
			return samples, false, chunk.Err
		}
		for _, seg := range chunk.Segments {
			samples += len(seg.Samples)
		}
		if chunk.Done {
			done = true
		}
	}
	return samples, done, nil
}

func TestPropagatorStreams(t *testing.T) {
	prop, reg := testPropagator(t, 16)
	earth, _ := reg.Body("earth")
	ch, err := prop.Request(*leoSatellite(earth.GM), DefaultEpoch, 100*time.Second, 100)
	if err != nil {
		t.Fatalf("request: %s", err)
	}
	samples, done, terminal := drain(t, ch)
	if terminal != nil {
		t.Fatalf("terminal error: %s", terminal)
	}
	if !done {
		t.Fatal("stream ended without a completion marker")
	}
	if samples != 100 {
		t.Fatalf("got %d samples, expected 100", samples)
	}
}

func TestPropagatorRejectsBadRequests(t *testing.T) {
	prop, reg := testPropagator(t, 16)
	earth, _ := reg.Body("earth")
	if _, err := prop.Request(*leoSatellite(earth.GM), DefaultEpoch, 0, 100); err == nil {
		t.Fatal("zero duration accepted")
	}
	if _, err := prop.Request(*leoSatellite(earth.GM), DefaultEpoch, time.Minute, 0); err == nil {
		t.Fatal("zero sample count accepted")
	}
}

func TestPropagatorSequencesIncrease(t *testing.T) {
	prop, reg := testPropagator(t, 16)
	earth, _ := reg.Body("earth")
	var lastSeq uint64
	for i := 0; i < 3; i++ {
		ch, err := prop.Request(*leoSatellite(earth.GM), DefaultEpoch, 10*time.Second, 10)
		if err != nil {
			t.Fatalf("request %d: %s", i, err)
		}
		for chunk := range ch {
			if chunk.Seq <= lastSeq {
				t.Fatalf("sequence did not increase: %d after %d", chunk.Seq, lastSeq)
			}
			if chunk.Done {
				lastSeq = chunk.Seq
			}
		}
	}
}

func TestPropagatorSupersedes(t *testing.T) {
	prop, reg := testPropagator(t, 8)
	earth, _ := reg.Body("earth")
	// A long-running request gets superseded; its channel must close without
	// a completion marker.
	first, err := prop.Request(*leoSatellite(earth.GM), DefaultEpoch, time.Hour, 1<<16)
	if err != nil {
		t.Fatalf("first request: %s", err)
	}
	second, err := prop.Request(*leoSatellite(earth.GM), DefaultEpoch, 10*time.Second, 10)
	if err != nil {
		t.Fatalf("second request: %s", err)
	}
	_, firstDone, _ := drain(t, first)
	if firstDone {
		t.Fatal("superseded request still reported completion")
	}
	_, secondDone, terminal := drain(t, second)
	if terminal != nil || !secondDone {
		t.Fatal("superseding request did not complete")
	}
}

func TestPropagatorDispose(t *testing.T) {
	prop, reg := testPropagator(t, 8)
	earth, _ := reg.Body("earth")
	ch, err := prop.Request(*leoSatellite(earth.GM), DefaultEpoch, time.Hour, 1<<16)
	if err != nil {
		t.Fatalf("request: %s", err)
	}
	prop.Dispose("leo")
	if _, done, _ := drain(t, ch); done {
		t.Fatal("disposed request still reported completion")
	}
	// Disposing an unknown satellite is a no-op.
	prop.Dispose("ghost")
}

func TestPropagatorTerminalError(t *testing.T) {
	prop, _ := testPropagator(t, 8)
	// An unknown central body fails the very first step; the error must
	// arrive as a terminal chunk, not a panic or a silent close.
	sat := Satellite{ID: "lost", Central: "nibiru", R: []float64{7000, 0, 0}, V: []float64{0, 7.5, 0}, Mass: 1}
	ch, err := prop.Request(sat, DefaultEpoch, time.Minute, 10)
	if err != nil {
		t.Fatalf("request: %s", err)
	}
	if _, done, terminal := drain(t, ch); terminal == nil || done {
		t.Fatalf("expected a terminal error chunk, got done=%v err=%v", done, terminal)
	}
}

func TestPropagatorMatchesClock(t *testing.T) {
	// The clock and the propagator run the identical physics: stepping the
	// clock at the propagator's sample interval yields the same states.
	prop, reg := testPropagator(t, 64)
	earth, _ := reg.Body("earth")
	resolver := NewHierarchyResolver(reg, NewKeplerianEphemeris(reg))
	clock, err := NewSimulationClock(resolver, ForceModel{Registry: reg}, time.Second, 1<<20, DefaultEpoch, nil, nil)
	if err != nil {
		t.Fatalf("clock: %s", err)
	}
	clock.Track(leoSatellite(earth.GM))
	clock.Advance(60 * time.Second)
	fromClock, err := clock.Satellite("leo")
	if err != nil {
		t.Fatalf("satellite: %s", err)
	}

	ch, err := prop.Request(*leoSatellite(earth.GM), DefaultEpoch, 60*time.Second, 60)
	if err != nil {
		t.Fatalf("request: %s", err)
	}
	var last TrajectorySample
	for chunk := range ch {
		if chunk.Err != nil {
			t.Fatalf("terminal error: %s", chunk.Err)
		}
		for _, seg := range chunk.Segments {
			if n := len(seg.Samples); n > 0 {
				last = seg.Samples[n-1]
			}
		}
	}
	for i := 0; i < 3; i++ {
		if last.R[i] != fromClock.R[i] || last.V[i] != fromClock.V[i] {
			t.Fatalf("paths diverged: %v vs %v", last.R, fromClock.R)
		}
	}
}
