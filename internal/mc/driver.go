// Package mc orchestrates a Metropolis Monte Carlo run: a fixed number
// of sequential move attempts interleaved with observable sampling.
// Execution is strictly single-threaded; the space is mutated only by
// the propagator between sampling points.
package mc

import (
	"context"
	"fmt"
	"strings"

	"github.com/mlund/particletracking/internal/energy"
	"github.com/mlund/particletracking/internal/move"
	"github.com/mlund/particletracking/internal/space"
)

type Driver struct {
	space       *space.Space
	prop        *move.Propagator
	nb          *energy.Nonbonded
	samplers    []Sampler
	sampleEvery int

	// OnIteration, when set, is called after each resolved attempt.
	// Used by the live view; must not mutate the space.
	OnIteration func(iter int, out move.Outcome)
}

func NewDriver(s *space.Space, prop *move.Propagator, nb *energy.Nonbonded, sampleEvery int) (*Driver, error) {
	if sampleEvery <= 0 {
		return nil, fmt.Errorf("mc: sample interval must be positive, got %d", sampleEvery)
	}
	return &Driver{
		space:       s,
		prop:        prop,
		nb:          nb,
		sampleEvery: sampleEvery,
	}, nil
}

func (d *Driver) AddSampler(sm Sampler) { d.samplers = append(d.samplers, sm) }

type Result struct {
	Iterations  int
	Accepted    int64
	Acceptance  map[string]float64
	FinalEnergy float64
}

// Run performs the given number of move attempts, sampling observables
// every sampleEvery iterations. The context is checked once per
// iteration; on cancellation the partial result is returned with the
// context error.
func (d *Driver) Run(ctx context.Context, iterations int) (*Result, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("mc: iteration count must be positive, got %d", iterations)
	}

	res := &Result{}
	for i := 0; i < iterations; i++ {
		select {
		case <-ctx.Done():
			d.finish(res)
			return res, ctx.Err()
		default:
		}

		out := d.prop.Move()
		if out.Accepted {
			res.Accepted++
		}
		res.Iterations++

		if (i+1)%d.sampleEvery == 0 {
			for _, sm := range d.samplers {
				sm.Sample(d.space)
			}
		}

		if d.OnIteration != nil {
			d.OnIteration(i, out)
		}
	}

	d.finish(res)
	return res, nil
}

func (d *Driver) finish(res *Result) {
	res.Acceptance = d.prop.AcceptanceRatios()
	res.FinalEnergy = d.nb.Total(d.space)
}

// Info assembles the end-of-run report from every component, in the
// spirit of the classic spc.info() + pot.info() + mv.info() dump.
func (d *Driver) Info() string {
	var b strings.Builder
	b.WriteString(d.space.Info())
	b.WriteByte('\n')
	b.WriteString(d.nb.Info(d.space))
	b.WriteByte('\n')
	b.WriteString(d.prop.Info())
	for _, sm := range d.samplers {
		b.WriteString(sm.Info())
		b.WriteByte('\n')
	}
	return b.String()
}
