package reentry

import (
	"testing"
	"time"

	"github.com/gonum/floats"
)

func TestResolveRootAtOrigin(t *testing.T) {
	reg := testRegistry(t)
	resolver := NewHierarchyResolver(reg, NewKeplerianEphemeris(reg))
	snaps, err := resolver.Resolve(DefaultEpoch)
	if err != nil {
		t.Fatalf("resolve: %s", err)
	}
	sun := snaps["sun"]
	for i := 0; i < 3; i++ {
		if sun.R[i] != 0 || sun.V[i] != 0 {
			t.Fatalf("root not at origin: R=%v V=%v", sun.R, sun.V)
		}
	}
	if len(snaps) != reg.Len() {
		t.Fatalf("resolved %d bodies, expected %d", len(snaps), reg.Len())
	}
}

func TestResolveChaining(t *testing.T) {
	reg := testRegistry(t)
	eph := NewKeplerianEphemeris(reg)
	resolver := NewHierarchyResolver(reg, eph)
	epoch := DefaultEpoch.Add(36 * time.Hour)
	snaps, err := resolver.Resolve(epoch)
	if err != nil {
		t.Fatalf("resolve: %s", err)
	}
	// The moon's absolute state is earth's absolute state plus its
	// earth-relative ephemeris state.
	relR, relV, _, err := eph.StateAt("moon", epoch)
	if err != nil {
		t.Fatalf("ephemeris: %s", err)
	}
	earth, moon := snaps["earth"], snaps["moon"]
	for i := 0; i < 3; i++ {
		if !floats.EqualWithinAbs(moon.R[i], earth.R[i]+relR[i], 1e-9) {
			t.Fatalf("moon position not chained: %v vs %v + %v", moon.R, earth.R, relR)
		}
		if !floats.EqualWithinAbs(moon.V[i], earth.V[i]+relV[i], 1e-12) {
			t.Fatalf("moon velocity not chained")
		}
	}
	// Earth is about one AU out.
	d := Norm(earth.R)
	if d < 0.97*AU || d > 1.03*AU {
		t.Fatalf("earth at %f km from the sun", d)
	}
}

func TestResolveBarycenters(t *testing.T) {
	reg, err := NewSolarSystemRegistry()
	if err != nil {
		t.Fatalf("catalog: %s", err)
	}
	resolver := NewHierarchyResolver(reg, NewKeplerianEphemeris(reg))
	snaps, err := resolver.Resolve(DefaultEpoch)
	if err != nil {
		t.Fatalf("resolve: %s", err)
	}
	// A barycenter sits at the mass-weighted average of its children.
	earth, _ := reg.Body("earth")
	moon, _ := reg.Body("moon")
	total := earth.Mass + moon.Mass
	for i := 0; i < 3; i++ {
		want := (earth.Mass*snaps["earth"].R[i] + moon.Mass*snaps["moon"].R[i]) / total
		if !floats.EqualWithinAbs(snaps["emb"].R[i], want, 1e-6) {
			t.Fatalf("EMB not at the mass-weighted center: %v", snaps["emb"].R)
		}
	}
	// The EMB stays within ~4700 km of the earth.
	if d := Norm(sub(snaps["emb"].R, snaps["earth"].R)); d > 5000 || d < 4000 {
		t.Fatalf("earth-EMB distance = %f km", d)
	}
	// Every snapshot is finite and carries a unit axis.
	for id, snap := range snaps {
		if !finite(snap.R) || !finite(snap.V) {
			t.Fatalf("%s resolved non-finite", id)
		}
		if !floats.EqualWithinAbs(Norm(snap.Axis), 1, 1e-9) {
			t.Fatalf("%s axis is not a unit vector: %v", id, snap.Axis)
		}
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	reg := testRegistry(t)
	resolver := NewHierarchyResolver(reg, NewKeplerianEphemeris(reg))
	epoch := DefaultEpoch.Add(90 * time.Minute)
	a, err := resolver.Resolve(epoch)
	if err != nil {
		t.Fatalf("resolve: %s", err)
	}
	b, err := resolver.Resolve(epoch)
	if err != nil {
		t.Fatalf("resolve: %s", err)
	}
	for id := range a {
		for i := 0; i < 3; i++ {
			if a[id].R[i] != b[id].R[i] || a[id].V[i] != b[id].V[i] {
				t.Fatalf("%s resolved differently for the same epoch", id)
			}
		}
	}
}
