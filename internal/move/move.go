// Package move proposes randomized particle perturbations and applies
// the Metropolis acceptance criterion. A move attempt walks an explicit
// propose / evaluate / commit-or-revert cycle against the space: the
// proposal is applied in place, the energy delta is taken from the
// perturbed particle's partial energy, and a rejected trial restores the
// original position bit-for-bit.
package move

import (
	"fmt"
	"math/rand"

	"github.com/mlund/particletracking/internal/geometry"
	"github.com/mlund/particletracking/internal/space"
)

// Trial is a proposed single-particle perturbation. Old holds the exact
// pre-proposal position used for revert.
type Trial struct {
	Index int
	Old   geometry.Vec3
	New   geometry.Vec3
}

// Move generates trial perturbations. Propose must not mutate the space;
// the propagator applies and, if needed, reverts the trial.
type Move interface {
	Name() string
	Weight() float64
	Propose(s *space.Space, rng *rand.Rand) Trial
}

// Translate displaces one particle by a uniform vector in
// [-step/2, step/2] per axis.
type Translate struct {
	step   float64
	weight float64
}

func NewTranslate(step, weight float64) (*Translate, error) {
	if step <= 0 {
		return nil, fmt.Errorf("move: translation step must be positive, got %g", step)
	}
	if weight <= 0 {
		return nil, fmt.Errorf("move: weight must be positive, got %g", weight)
	}
	return &Translate{step: step, weight: weight}, nil
}

func (m *Translate) Name() string    { return "translate" }
func (m *Translate) Weight() float64 { return m.weight }

func (m *Translate) Propose(s *space.Space, rng *rand.Rand) Trial {
	i := rng.Intn(s.Len())
	old := s.Particles[i].Pos
	var d geometry.Vec3
	for k := 0; k < 3; k++ {
		d[k] = (rng.Float64() - 0.5) * m.step
	}
	return Trial{Index: i, Old: old, New: old.Add(d)}
}

// Jump relocates one particle to a uniform position anywhere in the box,
// a large-step companion to Translate for crossing energy barriers.
type Jump struct {
	weight float64
}

func NewJump(weight float64) (*Jump, error) {
	if weight <= 0 {
		return nil, fmt.Errorf("move: weight must be positive, got %g", weight)
	}
	return &Jump{weight: weight}, nil
}

func (m *Jump) Name() string    { return "jump" }
func (m *Jump) Weight() float64 { return m.weight }

func (m *Jump) Propose(s *space.Space, rng *rand.Rand) Trial {
	i := rng.Intn(s.Len())
	return Trial{Index: i, Old: s.Particles[i].Pos, New: s.Geo.RandomPoint(rng)}
}
