// Package energy sums a pairwise potential over the particle pairs of a
// space. The exact O(N^2) enumeration over unordered pairs i<j is
// intentional; any future neighbor-list optimization must reproduce the
// same sums, not just asymptotically similar ones.
package energy

import (
	"fmt"

	"github.com/mlund/particletracking/internal/potential"
	"github.com/mlund/particletracking/internal/space"
)

// Nonbonded evaluates total and partial non-bonded energies.
type Nonbonded struct {
	pot potential.Pair
}

func NewNonbonded(pot potential.Pair) *Nonbonded {
	return &Nonbonded{pot: pot}
}

func (nb *Nonbonded) Potential() potential.Pair { return nb.pot }

// Total sums the potential over all unordered pairs {i,j}, i<j.
func (nb *Nonbonded) Total(s *space.Space) float64 {
	var u float64
	n := s.Len()
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			u += nb.Pair(s, i, j)
		}
	}
	return u
}

// Particle sums the potential over every pair involving index i. The sum
// over all particles double-counts each pair, so Total(s) equals
// sum_i Particle(s, i) / 2.
func (nb *Nonbonded) Particle(s *space.Space, i int) float64 {
	var u float64
	for j := 0; j < s.Len(); j++ {
		if j == i {
			continue
		}
		u += nb.Pair(s, i, j)
	}
	return u
}

// Pair evaluates the potential for a single particle pair.
func (nb *Nonbonded) Pair(s *space.Space, i, j int) float64 {
	a := &s.Particles[i]
	b := &s.Particles[j]
	r2 := s.Geo.DistanceSquared(a.Pos, b.Pos)
	return nb.pot.Energy(a, b, r2)
}

func (nb *Nonbonded) Info(s *space.Space) string {
	return fmt.Sprintf("nonbonded energy (%s): total %.6g over %d particles",
		nb.pot.Name(), nb.Total(s), s.Len())
}
