package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Series is an append-only sample record with summary statistics, used
// for energy traces and similar per-iteration observables.
type Series struct {
	name   string
	values []float64
}

func NewSeries(name string) *Series {
	return &Series{name: name}
}

func (s *Series) Name() string      { return s.name }
func (s *Series) Add(v float64)     { s.values = append(s.values, v) }
func (s *Series) Len() int          { return len(s.values) }
func (s *Series) Values() []float64 { return s.values }

func (s *Series) Mean() float64 {
	if len(s.values) == 0 {
		return 0
	}
	return stat.Mean(s.values, nil)
}

func (s *Series) StdDev() float64 {
	if len(s.values) < 2 {
		return 0
	}
	return stat.StdDev(s.values, nil)
}

func (s *Series) Last() float64 {
	if len(s.values) == 0 {
		return 0
	}
	return s.values[len(s.values)-1]
}

func (s *Series) Info() string {
	return fmt.Sprintf("%s: %d samples, mean %.6g, stddev %.3g, last %.6g",
		s.name, s.Len(), s.Mean(), s.StdDev(), s.Last())
}
