package energy

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mlund/particletracking/internal/geometry"
	"github.com/mlund/particletracking/internal/potential"
	"github.com/mlund/particletracking/internal/space"
)

func newRepulsion(t *testing.T) potential.Pair {
	t.Helper()
	p, err := potential.NewRepulsionR3(1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestTwoParticleScenario(t *testing.T) {
	geo, err := geometry.NewCube(100, false)
	if err != nil {
		t.Fatal(err)
	}
	s := &space.Space{
		Geo: geo,
		Particles: []space.Particle{
			{Pos: geometry.Vec3{0, 0, 0}},
			{Pos: geometry.Vec3{2, 0, 0}},
		},
	}

	nb := NewNonbonded(newRepulsion(t))
	want := 0.125 + math.Pow(0.5, 12)

	if u := nb.Total(s); math.Abs(u-want) > 1e-12 {
		t.Errorf("total: expected %.9f, got %.9f", want, u)
	}
	for i := 0; i < 2; i++ {
		if u := nb.Particle(s, i); math.Abs(u-want) > 1e-12 {
			t.Errorf("particle %d: expected %.9f, got %.9f", i, want, u)
		}
	}
}

func TestTotalMatchesHalfParticleSum(t *testing.T) {
	for _, periodic := range []bool{false, true} {
		geo, err := geometry.NewCube(12, periodic)
		if err != nil {
			t.Fatal(err)
		}
		s, err := space.New(geo, 30, rand.New(rand.NewSource(11)))
		if err != nil {
			t.Fatal(err)
		}

		nb := NewNonbonded(newRepulsion(t))
		total := nb.Total(s)

		var sum float64
		for i := 0; i < s.Len(); i++ {
			sum += nb.Particle(s, i)
		}

		if rel := math.Abs(total-sum/2) / math.Abs(total); rel > 1e-10 {
			t.Errorf("periodic=%v: total %.12g != half particle sum %.12g", periodic, total, sum/2)
		}
	}
}

func TestParticleEnergyDelta(t *testing.T) {
	geo, err := geometry.NewCube(10, true)
	if err != nil {
		t.Fatal(err)
	}
	s, err := space.New(geo, 15, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatal(err)
	}

	nb := NewNonbonded(newRepulsion(t))

	// Moving one particle: the change in Total must equal the change in
	// that particle's partial energy.
	before := nb.Total(s)
	partialBefore := nb.Particle(s, 7)

	s.Particles[7].Pos = geo.Wrap(s.Particles[7].Pos.Add(geometry.Vec3{0.3, -0.2, 0.1}))

	after := nb.Total(s)
	partialAfter := nb.Particle(s, 7)

	dTotal := after - before
	dPartial := partialAfter - partialBefore
	if math.Abs(dTotal-dPartial) > 1e-9*math.Max(1, math.Abs(dTotal)) {
		t.Errorf("delta mismatch: total %.12g, partial %.12g", dTotal, dPartial)
	}
}

func TestSinglePairUsesMinimumImage(t *testing.T) {
	geo, err := geometry.NewCube(10, true)
	if err != nil {
		t.Fatal(err)
	}
	s := &space.Space{
		Geo: geo,
		Particles: []space.Particle{
			{Pos: geometry.Vec3{-4.5, 0, 0}},
			{Pos: geometry.Vec3{4.5, 0, 0}},
		},
	}

	nb := NewNonbonded(newRepulsion(t))

	// Nearest image distance is 1, so U = f + e = 2.
	if u := nb.Total(s); math.Abs(u-2.0) > 1e-12 {
		t.Errorf("expected 2 (minimum image r=1), got %f", u)
	}
}
