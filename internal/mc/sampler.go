package mc

import (
	"github.com/mlund/particletracking/internal/analysis"
	"github.com/mlund/particletracking/internal/energy"
	"github.com/mlund/particletracking/internal/space"
)

// Sampler observes the space between move attempts. Samplers never
// mutate the space.
type Sampler interface {
	Name() string
	Sample(s *space.Space)
	Info() string
}

// DistanceSampler records every pair distance into a histogram, using
// the space's metric (minimum image under periodic boundaries).
type DistanceSampler struct {
	hist *analysis.Histogram
}

func NewDistanceSampler(hist *analysis.Histogram) *DistanceSampler {
	return &DistanceSampler{hist: hist}
}

func (d *DistanceSampler) Name() string { return "pair distances" }

func (d *DistanceSampler) Histogram() *analysis.Histogram { return d.hist }

func (d *DistanceSampler) Sample(s *space.Space) {
	n := s.Len()
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			d.hist.Record(s.Geo.Distance(s.Particles[i].Pos, s.Particles[j].Pos))
		}
	}
}

func (d *DistanceSampler) Info() string { return d.hist.Info() }

// EnergySampler traces the total non-bonded energy.
type EnergySampler struct {
	nb     *energy.Nonbonded
	series *analysis.Series
}

func NewEnergySampler(nb *energy.Nonbonded) *EnergySampler {
	return &EnergySampler{nb: nb, series: analysis.NewSeries("total energy")}
}

func (e *EnergySampler) Name() string { return "total energy" }

func (e *EnergySampler) Series() *analysis.Series { return e.series }

func (e *EnergySampler) Sample(s *space.Space) {
	e.series.Add(e.nb.Total(s))
}

func (e *EnergySampler) Info() string { return e.series.Info() }
