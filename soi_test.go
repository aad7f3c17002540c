package reentry

import (
	"testing"

	"github.com/gonum/floats"
)

func TestSOIOutbound(t *testing.T) {
	reg := testRegistry(t)
	snaps := testSnaps(t, reg)
	m := SOIManager{Registry: reg}
	earth, _ := reg.Body("earth")
	// Just past the SOI with outward velocity: reassigned to the parent.
	sat := &Satellite{ID: "probe", Central: "earth",
		R: []float64{earth.SOI * 1.01, 0, 0},
		V: []float64{1.5, 0, 0},
	}
	before := add(snaps["earth"].R, sat.R)
	if !m.Transition(sat, snaps) {
		t.Fatal("expected an outbound transition")
	}
	if sat.Central != "sun" {
		t.Fatalf("reassigned to %q, expected sun", sat.Central)
	}
	// Re-expressed in the old frame, the state is unchanged.
	after := add(snaps["sun"].R, sat.R)
	for i := 0; i < 3; i++ {
		if !floats.EqualWithinAbs(before[i], after[i], 1e-6) {
			t.Fatalf("absolute position changed by the frame switch: %v vs %v", before, after)
		}
	}
}

func TestSOIOutboundRequiresRecession(t *testing.T) {
	reg := testRegistry(t)
	snaps := testSnaps(t, reg)
	m := SOIManager{Registry: reg}
	earth, _ := reg.Body("earth")
	// Past the boundary but falling back in: no transition.
	sat := &Satellite{ID: "probe", Central: "earth",
		R: []float64{earth.SOI * 1.01, 0, 0},
		V: []float64{-1.5, 0, 0},
	}
	if m.Transition(sat, snaps) {
		t.Fatal("inbound-moving satellite must not be handed to the parent")
	}
}

func TestSOIHysteresis(t *testing.T) {
	reg := testRegistry(t)
	snaps := testSnaps(t, reg)
	m := SOIManager{Registry: reg}
	earth, _ := reg.Body("earth")
	// Within the 0.5% dead band nothing happens, even moving outward.
	sat := &Satellite{ID: "probe", Central: "earth",
		R: []float64{earth.SOI * 1.004, 0, 0},
		V: []float64{1.5, 0, 0},
	}
	if m.Transition(sat, snaps) {
		t.Fatal("transition fired inside the hysteresis dead band")
	}
}

func TestSOIInboundCapture(t *testing.T) {
	reg := testRegistry(t)
	snaps := testSnaps(t, reg)
	m := SOIManager{Registry: reg}
	// A satellite in the earth frame sitting 1000 km from the moon's center.
	moonRel := sub(snaps["moon"].R, snaps["earth"].R)
	sat := &Satellite{ID: "probe", Central: "earth",
		R: add(moonRel, []float64{1000, 0, 0}),
		V: sub(snaps["moon"].V, snaps["earth"].V),
	}
	absBefore := add(snaps["earth"].R, sat.R)
	if !m.Transition(sat, snaps) {
		t.Fatal("expected an inbound capture by the moon")
	}
	if sat.Central != "moon" {
		t.Fatalf("captured by %q, expected moon", sat.Central)
	}
	if !floats.EqualWithinAbs(Norm(sat.R), 1000, 1e-6) {
		t.Fatalf("moon-relative distance = %f", Norm(sat.R))
	}
	absAfter := add(snaps["moon"].R, sat.R)
	for i := 0; i < 3; i++ {
		if !floats.EqualWithinAbs(absBefore[i], absAfter[i], 1e-6) {
			t.Fatal("absolute position changed by the capture")
		}
	}
}

func TestSOINoNestedRecapture(t *testing.T) {
	reg := testRegistry(t)
	snaps := testSnaps(t, reg)
	m := SOIManager{Registry: reg}
	// A satellite in the moon frame is always inside the earth's SOI; it must
	// not be bounced back to the earth while it stays inside the moon's.
	sat := &Satellite{ID: "probe", Central: "moon",
		R: []float64{3000, 0, 0},
		V: []float64{0, 1.2, 0},
	}
	if m.Transition(sat, snaps) {
		t.Fatalf("lunar satellite recaptured by %q", sat.Central)
	}
}
