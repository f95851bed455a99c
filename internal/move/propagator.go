package move

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/mlund/particletracking/internal/energy"
	"github.com/mlund/particletracking/internal/space"
)

// Stats counts attempted and accepted trials for one move type, updated
// exactly once per attempt.
type Stats struct {
	Attempted int64
	Accepted  int64
}

func (st Stats) Ratio() float64 {
	if st.Attempted == 0 {
		return 0
	}
	return float64(st.Accepted) / float64(st.Attempted)
}

// Outcome reports one resolved move attempt.
type Outcome struct {
	Move     string
	Accepted bool
	DeltaU   float64
}

// Propagator owns the registered moves, the shared seedable random
// stream, and the Metropolis test at fixed kT. All randomness in a run
// flows through its single *rand.Rand, so a fixed seed reproduces the
// full move and acceptance sequence.
type Propagator struct {
	space  *space.Space
	energy *energy.Nonbonded
	rng    *rand.Rand
	kT     float64

	moves []Move
	cum   []float64 // cumulative weights for selection
	stats map[string]*Stats
	order []string
}

func NewPropagator(s *space.Space, nb *energy.Nonbonded, moves []Move, kT float64, rng *rand.Rand) (*Propagator, error) {
	if s.Len() == 0 {
		return nil, fmt.Errorf("move: no particles to move")
	}
	if kT <= 0 {
		return nil, fmt.Errorf("move: kT must be positive, got %g", kT)
	}
	if len(moves) == 0 {
		return nil, fmt.Errorf("move: no moves registered")
	}

	p := &Propagator{
		space:  s,
		energy: nb,
		rng:    rng,
		kT:     kT,
		moves:  moves,
		cum:    make([]float64, len(moves)),
		stats:  make(map[string]*Stats, len(moves)),
	}

	var sum float64
	for i, m := range moves {
		if m.Weight() <= 0 {
			return nil, fmt.Errorf("move: %s has non-positive weight", m.Name())
		}
		sum += m.Weight()
		p.cum[i] = sum
		if _, ok := p.stats[m.Name()]; !ok {
			p.stats[m.Name()] = &Stats{}
			p.order = append(p.order, m.Name())
		}
	}
	return p, nil
}

// pick selects a move by weight. A single move is chosen without
// consuming randomness.
func (p *Propagator) pick() Move {
	if len(p.moves) == 1 {
		return p.moves[0]
	}
	u := p.rng.Float64() * p.cum[len(p.cum)-1]
	for i, c := range p.cum {
		if u < c {
			return p.moves[i]
		}
	}
	return p.moves[len(p.moves)-1]
}

// Move runs one attempt: propose, evaluate the energy delta, apply the
// Metropolis test, and commit or revert. The attempt counter for the
// chosen move is incremented regardless of outcome.
func (p *Propagator) Move() Outcome {
	mv := p.pick()
	st := p.stats[mv.Name()]
	st.Attempted++

	trial := mv.Propose(p.space, p.rng)

	// Hard walls: an out-of-bounds proposal is rejected before any
	// energy evaluation.
	if !p.space.Geo.Contains(trial.New) {
		return Outcome{Move: mv.Name(), Accepted: false, DeltaU: math.Inf(1)}
	}

	before := p.energy.Particle(p.space, trial.Index)
	p.space.Particles[trial.Index].Pos = trial.New
	after := p.energy.Particle(p.space, trial.Index)
	dU := after - before

	if p.accept(dU) {
		p.space.Particles[trial.Index].Pos = p.space.Geo.Wrap(trial.New)
		st.Accepted++
		return Outcome{Move: mv.Name(), Accepted: true, DeltaU: dU}
	}

	p.space.Particles[trial.Index].Pos = trial.Old
	return Outcome{Move: mv.Name(), Accepted: false, DeltaU: dU}
}

// accept applies the Metropolis criterion: accept with probability
// min(1, exp(-dU/kT)). A non-finite delta (coincident particles) is
// treated as +Inf and rejected rather than propagated.
func (p *Propagator) accept(dU float64) bool {
	if math.IsNaN(dU) || math.IsInf(dU, 1) {
		return false
	}
	if dU <= 0 {
		return true
	}
	return p.rng.Float64() < math.Exp(-dU/p.kT)
}

func (p *Propagator) Stats(name string) Stats {
	if st, ok := p.stats[name]; ok {
		return *st
	}
	return Stats{}
}

// AcceptanceRatios returns per-move acceptance ratios keyed by move name.
func (p *Propagator) AcceptanceRatios() map[string]float64 {
	out := make(map[string]float64, len(p.order))
	for _, name := range p.order {
		out[name] = p.stats[name].Ratio()
	}
	return out
}

func (p *Propagator) Info() string {
	var b strings.Builder
	fmt.Fprintf(&b, "propagator: kT %.4g, %d move type(s)\n", p.kT, len(p.order))
	for _, name := range p.order {
		st := p.stats[name]
		fmt.Fprintf(&b, "  %-12s attempted %d, accepted %d (%.1f%%)\n",
			name, st.Attempted, st.Accepted, 100*st.Ratio())
	}
	return b.String()
}
