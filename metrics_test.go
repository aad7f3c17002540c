package reentry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestEngineMetricsRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewEngineMetrics(reg)
	if err != nil {
		t.Fatalf("register: %s", err)
	}
	m.Satellites.Set(3)
	m.StepsTotal.Add(42)
	if got := testutil.ToFloat64(m.Satellites); got != 3 {
		t.Fatalf("satellites gauge = %f", got)
	}
	if got := testutil.ToFloat64(m.StepsTotal); got != 42 {
		t.Fatalf("steps counter = %f", got)
	}
	// Registering twice against the same registry collides.
	if _, err := NewEngineMetrics(reg); err == nil {
		t.Fatal("duplicate registration accepted")
	}
}

func TestClockUpdatesMetrics(t *testing.T) {
	promReg := prometheus.NewRegistry()
	m, err := NewEngineMetrics(promReg)
	if err != nil {
		t.Fatalf("register: %s", err)
	}
	reg := testRegistry(t)
	resolver := NewHierarchyResolver(reg, NewKeplerianEphemeris(reg))
	clock, err := NewSimulationClock(resolver, ForceModel{Registry: reg}, 1e9, 3, DefaultEpoch, nil, m)
	if err != nil {
		t.Fatalf("clock: %s", err)
	}
	earth, _ := reg.Body("earth")
	clock.Track(leoSatellite(earth.GM))
	if got := testutil.ToFloat64(m.Satellites); got != 1 {
		t.Fatalf("satellites gauge = %f", got)
	}
	clock.Advance(10e9) // ten steps against a backlog budget of three
	if got := testutil.ToFloat64(m.StepsTotal); got != 3 {
		t.Fatalf("steps counter = %f", got)
	}
	if got := testutil.ToFloat64(m.LagDroppedSeconds); got != 7 {
		t.Fatalf("lag counter = %f", got)
	}
}
