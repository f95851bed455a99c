package mc

import (
	"context"
	"math/rand"
	"testing"

	"github.com/mlund/particletracking/internal/analysis"
	"github.com/mlund/particletracking/internal/energy"
	"github.com/mlund/particletracking/internal/geometry"
	"github.com/mlund/particletracking/internal/move"
	"github.com/mlund/particletracking/internal/potential"
	"github.com/mlund/particletracking/internal/space"
)

func newDriver(t *testing.T, n int, sampleEvery int, seed int64) (*Driver, *space.Space, *DistanceSampler) {
	t.Helper()
	geo, err := geometry.NewCube(10, true)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(seed))
	s, err := space.New(geo, n, rng)
	if err != nil {
		t.Fatal(err)
	}
	pot, err := potential.NewRepulsionR3(1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	nb := energy.NewNonbonded(pot)
	tr, err := move.NewTranslate(0.5, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	prop, err := move.NewPropagator(s, nb, []move.Move{tr}, 1.0, rng)
	if err != nil {
		t.Fatal(err)
	}

	d, err := NewDriver(s, prop, nb, sampleEvery)
	if err != nil {
		t.Fatal(err)
	}

	hist, err := analysis.NewHistogram(1.0)
	if err != nil {
		t.Fatal(err)
	}
	ds := NewDistanceSampler(hist)
	d.AddSampler(ds)
	return d, s, ds
}

func TestDriverInvalidSetup(t *testing.T) {
	_, _, _ = newDriver(t, 10, 1, 1) // valid baseline

	geo, _ := geometry.NewCube(10, true)
	rng := rand.New(rand.NewSource(1))
	s, _ := space.New(geo, 5, rng)
	pot, _ := potential.NewRepulsionR3(1, 1, 1)
	nb := energy.NewNonbonded(pot)
	tr, _ := move.NewTranslate(0.5, 1.0)
	prop, _ := move.NewPropagator(s, nb, []move.Move{tr}, 1.0, rng)

	if _, err := NewDriver(s, prop, nb, 0); err == nil {
		t.Error("expected error for zero sample interval")
	}

	d, _ := NewDriver(s, prop, nb, 1)
	if _, err := d.Run(context.Background(), 0); err == nil {
		t.Error("expected error for zero iterations")
	}
}

func TestSamplingInterval(t *testing.T) {
	const n = 8
	pairs := int64(n * (n - 1) / 2)

	tests := []struct {
		iterations  int
		sampleEvery int
		wantSamples int64
	}{
		{100, 1, 100},
		{100, 10, 10},
		{105, 10, 10},
		{9, 10, 0},
	}

	for _, tt := range tests {
		d, _, ds := newDriver(t, n, tt.sampleEvery, 3)
		if _, err := d.Run(context.Background(), tt.iterations); err != nil {
			t.Fatalf("run failed: %v", err)
		}
		want := tt.wantSamples * pairs
		if got := ds.Histogram().Total(); got != want {
			t.Errorf("iterations=%d every=%d: expected %d recorded distances, got %d",
				tt.iterations, tt.sampleEvery, want, got)
		}
	}
}

func TestDriverDeterminism(t *testing.T) {
	run := func() (*Result, []space.Particle, int64) {
		d, s, ds := newDriver(t, 12, 1, 77)
		res, err := d.Run(context.Background(), 500)
		if err != nil {
			t.Fatal(err)
		}
		return res, s.Particles, ds.Histogram().Total()
	}

	r1, p1, h1 := run()
	r2, p2, h2 := run()

	if r1.Accepted != r2.Accepted {
		t.Errorf("accept counts differ: %d vs %d", r1.Accepted, r2.Accepted)
	}
	if r1.FinalEnergy != r2.FinalEnergy {
		t.Errorf("final energies differ: %v vs %v", r1.FinalEnergy, r2.FinalEnergy)
	}
	if h1 != h2 {
		t.Errorf("histogram totals differ: %d vs %d", h1, h2)
	}
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Fatalf("particle %d differs between identically seeded runs", i)
		}
	}
}

func TestDriverContextCancel(t *testing.T) {
	d, _, _ := newDriver(t, 10, 1, 5)

	ctx, cancel := context.WithCancel(context.Background())
	stopAt := 50
	d.OnIteration = func(iter int, out move.Outcome) {
		if iter == stopAt {
			cancel()
		}
	}

	res, err := d.Run(ctx, 100000)
	if err == nil {
		t.Fatal("expected context error")
	}
	if res.Iterations <= stopAt || res.Iterations > stopAt+2 {
		t.Errorf("expected ~%d iterations before cancel, got %d", stopAt, res.Iterations)
	}
}

func TestEnergySamplerTrace(t *testing.T) {
	d, s, _ := newDriver(t, 6, 5, 9)
	pot, _ := potential.NewRepulsionR3(1, 1, 1)
	es := NewEnergySampler(energy.NewNonbonded(pot))
	d.AddSampler(es)

	if _, err := d.Run(context.Background(), 50); err != nil {
		t.Fatal(err)
	}

	if es.Series().Len() != 10 {
		t.Errorf("expected 10 energy samples, got %d", es.Series().Len())
	}

	// Last sample is taken at iteration 50, after the final move: it
	// must match the energy of the final configuration.
	nb := energy.NewNonbonded(pot)
	if last, now := es.Series().Last(), nb.Total(s); last != now {
		t.Errorf("final trace sample %v != final energy %v", last, now)
	}
}
