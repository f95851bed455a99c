package space

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/mlund/particletracking/internal/geometry"
)

// ErrStateMismatch indicates a saved state that is incompatible with the
// current configuration (different particle count or box size).
var ErrStateMismatch = errors.New("space: saved state incompatible with configuration")

// Particle is a point particle. Identity is the index in the owning
// Space; charge and radius are carried for potentials and export.
type Particle struct {
	Pos    geometry.Vec3 `json:"pos"`
	Charge float64       `json:"charge"`
	Radius float64       `json:"radius"`
}

// Space owns the particle collection and the geometry it lives in.
type Space struct {
	Particles []Particle
	Geo       *geometry.Cuboid
}

// New builds a space with n particles placed uniformly inside the box.
func New(geo *geometry.Cuboid, n int, rng geometry.Rand) (*Space, error) {
	if n <= 0 {
		return nil, fmt.Errorf("space: particle count must be positive, got %d", n)
	}
	s := &Space{
		Particles: make([]Particle, n),
		Geo:       geo,
	}
	for i := range s.Particles {
		s.Particles[i].Pos = geo.RandomPoint(rng)
		s.Particles[i].Radius = 1.0
	}
	return s, nil
}

func (s *Space) Len() int { return len(s.Particles) }

type stateFile struct {
	Side      geometry.Vec3 `json:"side"`
	Periodic  bool          `json:"periodic"`
	Particles []Particle    `json:"particles"`
}

// Save writes the full configuration to path. The JSON layout round-trips
// float64 positions exactly.
func (s *Space) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(stateFile{
		Side:      s.Geo.Side,
		Periodic:  s.Geo.Periodic,
		Particles: s.Particles,
	})
}

// Load replaces particle positions from a previously saved state. A
// missing file is not an error: it returns (false, nil) and signals a
// fresh start. A state with a different particle count or box size than
// the current configuration fails with ErrStateMismatch.
func (s *Space) Load(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	var st stateFile
	if err := json.Unmarshal(data, &st); err != nil {
		return false, fmt.Errorf("space: parsing %s: %w", path, err)
	}

	if len(st.Particles) != len(s.Particles) {
		return false, fmt.Errorf("%w: state has %d particles, configuration has %d",
			ErrStateMismatch, len(st.Particles), len(s.Particles))
	}
	for k := 0; k < 3; k++ {
		if st.Side[k] != s.Geo.Side[k] {
			return false, fmt.Errorf("%w: state box %v, configuration box %v",
				ErrStateMismatch, st.Side, s.Geo.Side)
		}
	}

	copy(s.Particles, st.Particles)
	return true, nil
}

// MinMaxDistance scans all pairs and returns the smallest and largest
// separation under the space's metric. Used for reporting.
func (s *Space) MinMaxDistance() (min, max float64) {
	min = math.Inf(1)
	for i := 0; i < len(s.Particles)-1; i++ {
		for j := i + 1; j < len(s.Particles); j++ {
			d := s.Geo.Distance(s.Particles[i].Pos, s.Particles[j].Pos)
			if d < min {
				min = d
			}
			if d > max {
				max = d
			}
		}
	}
	return min, max
}

func (s *Space) Info() string {
	if len(s.Particles) < 2 {
		return fmt.Sprintf("%d particle(s) in %s", len(s.Particles), s.Geo.Info())
	}
	min, max := s.MinMaxDistance()
	return fmt.Sprintf("%d particles in %s, pair distances [%.4g, %.4g]",
		len(s.Particles), s.Geo.Info(), min, max)
}
