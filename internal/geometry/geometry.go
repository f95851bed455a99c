package geometry

import (
	"fmt"
	"math"
)

// Vec3 is a position or displacement in 3-D space.
type Vec3 [3]float64

func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]} }
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]} }

func (v Vec3) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func (v Vec3) IsValid() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Cuboid is a rectangular simulation box centered at the origin. With
// Periodic set, distances use the minimum-image convention and any point
// is valid after wrapping; without it the box has hard walls.
type Cuboid struct {
	Side     Vec3
	Periodic bool
}

func NewCuboid(lx, ly, lz float64, periodic bool) (*Cuboid, error) {
	if lx <= 0 || ly <= 0 || lz <= 0 {
		return nil, fmt.Errorf("geometry: box sides must be positive, got (%g, %g, %g)", lx, ly, lz)
	}
	return &Cuboid{Side: Vec3{lx, ly, lz}, Periodic: periodic}, nil
}

func NewCube(l float64, periodic bool) (*Cuboid, error) {
	return NewCuboid(l, l, l, periodic)
}

func (c *Cuboid) Volume() float64 {
	return c.Side[0] * c.Side[1] * c.Side[2]
}

// DistanceSquared returns the squared separation of a and b, using the
// minimum image per axis (d - L*round(d/L)) under periodic boundaries.
func (c *Cuboid) DistanceSquared(a, b Vec3) float64 {
	var r2 float64
	for k := 0; k < 3; k++ {
		d := a[k] - b[k]
		if c.Periodic {
			d -= c.Side[k] * math.Round(d/c.Side[k])
		}
		r2 += d * d
	}
	return r2
}

func (c *Cuboid) Distance(a, b Vec3) float64 {
	return math.Sqrt(c.DistanceSquared(a, b))
}

// Contains reports whether p lies inside the box. Under periodic
// boundaries every point is valid.
func (c *Cuboid) Contains(p Vec3) bool {
	if c.Periodic {
		return true
	}
	for k := 0; k < 3; k++ {
		if p[k] < -c.Side[k]/2 || p[k] > c.Side[k]/2 {
			return false
		}
	}
	return true
}

// Wrap folds p back into the box under periodic boundaries. Without
// them the point is returned unchanged.
func (c *Cuboid) Wrap(p Vec3) Vec3 {
	if !c.Periodic {
		return p
	}
	for k := 0; k < 3; k++ {
		p[k] -= c.Side[k] * math.Round(p[k]/c.Side[k])
	}
	return p
}

// RandomPoint draws a position uniformly inside the box.
func (c *Cuboid) RandomPoint(rng Rand) Vec3 {
	var p Vec3
	for k := 0; k < 3; k++ {
		p[k] = (rng.Float64() - 0.5) * c.Side[k]
	}
	return p
}

// Rand is the subset of *math/rand.Rand the geometry needs.
type Rand interface {
	Float64() float64
}

func (c *Cuboid) Info() string {
	mode := "hard walls"
	if c.Periodic {
		mode = "periodic (minimum image)"
	}
	return fmt.Sprintf("cuboid %.4g x %.4g x %.4g, volume %.4g, %s",
		c.Side[0], c.Side[1], c.Side[2], c.Volume(), mode)
}
