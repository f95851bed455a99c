package potential

import (
	"fmt"
	"math"

	"github.com/mlund/particletracking/internal/space"
)

// Pair is a pairwise non-bonded potential. Energy receives the squared
// separation so callers summing over many pairs can skip the square root
// when the functional form allows it. Parameters are fixed at
// construction and never mutated during a run.
type Pair interface {
	Energy(a, b *space.Particle, r2 float64) float64
	Name() string
}

// RepulsionR3 is an inverse-cube repulsion with a Lennard-Jones style
// r^-12 term:
//
//	U(r) = f/r^3 + e*(s/r)^12
//
// It diverges as r -> 0, which makes near-overlaps energetically
// forbidden without an explicit cutoff.
type RepulsionR3 struct {
	F float64 // prefactor
	E float64 // lj prefactor
	S float64 // length scale
}

func NewRepulsionR3(f, e, s float64) (*RepulsionR3, error) {
	if s <= 0 {
		return nil, fmt.Errorf("potential: sigma must be positive, got %g", s)
	}
	return &RepulsionR3{F: f, E: e, S: s}, nil
}

func (p *RepulsionR3) Name() string { return "1/r3 repulsion" }

func (p *RepulsionR3) Energy(a, b *space.Particle, r2 float64) float64 {
	r := math.Sqrt(r2)
	sr := p.S / r
	sr2 := sr * sr
	sr6 := sr2 * sr2 * sr2
	return p.F/(r*r2) + p.E*sr6*sr6
}

// LennardJones is the standard 12-6 potential,
// U(r) = 4*eps*((s/r)^12 - (s/r)^6).
type LennardJones struct {
	Epsilon float64
	Sigma   float64
}

func NewLennardJones(eps, sigma float64) (*LennardJones, error) {
	if sigma <= 0 {
		return nil, fmt.Errorf("potential: sigma must be positive, got %g", sigma)
	}
	return &LennardJones{Epsilon: eps, Sigma: sigma}, nil
}

func (p *LennardJones) Name() string { return "lennard-jones" }

func (p *LennardJones) Energy(a, b *space.Particle, r2 float64) float64 {
	sr2 := p.Sigma * p.Sigma / r2
	sr6 := sr2 * sr2 * sr2
	return 4 * p.Epsilon * (sr6*sr6 - sr6)
}

// Params carries the potential parameters from the configuration.
// Unset values default to 1.0, matching the original input convention.
type Params struct {
	Prefactor   float64
	LJPrefactor float64
	Sigma       float64
	Epsilon     float64
}

// New builds a potential by configuration name.
func New(name string, p Params) (Pair, error) {
	switch name {
	case "", "repulsionr3":
		return NewRepulsionR3(p.Prefactor, p.LJPrefactor, p.Sigma)
	case "lennard-jones", "lj":
		return NewLennardJones(p.Epsilon, p.Sigma)
	default:
		return nil, fmt.Errorf("potential: unknown potential: %s", name)
	}
}
