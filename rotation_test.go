package reentry

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestRotationsPreserveNorm(t *testing.T) {
	v := []float64{1.5, -2.5, 3.5}
	n := Norm(v)
	for angle := 0.0; angle < 2*math.Pi; angle += math.Pi / 7 {
		if !floats.EqualWithinAbs(Norm(MxV33(R1(angle), v)), n, 1e-12) {
			t.Fatalf("R1(%f) does not preserve the norm", angle)
		}
		if !floats.EqualWithinAbs(Norm(MxV33(R2(angle), v)), n, 1e-12) {
			t.Fatalf("R2(%f) does not preserve the norm", angle)
		}
		if !floats.EqualWithinAbs(Norm(MxV33(R3(angle), v)), n, 1e-12) {
			t.Fatalf("R3(%f) does not preserve the norm", angle)
		}
	}
}

func TestR3Quarter(t *testing.T) {
	// A -90° rotation about Z maps +X onto +Y.
	got := MxV33(R3(-math.Pi/2), []float64{1, 0, 0})
	expected := []float64{0, 1, 0}
	for i := 0; i < 3; i++ {
		if !floats.EqualWithinAbs(got[i], expected[i], 1e-12) {
			t.Fatalf("R3(-π/2)·x = %v, expected %v", got, expected)
		}
	}
}

func TestPQW2ECIIdentity(t *testing.T) {
	v := []float64{7000, 42, -13}
	got := PQW2ECI(0, 0, 0, v)
	for i := 0; i < 3; i++ {
		if !floats.EqualWithinAbs(got[i], v[i], 1e-9) {
			t.Fatalf("PQW2ECI with zero angles changed the vector: %v -> %v", v, got)
		}
	}
}
