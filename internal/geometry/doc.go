// Package geometry defines the metric and boundary policy of the
// simulation domain.
//
// A [Cuboid] is a rectangular box centered at the origin in one of two
// boundary modes:
//
//   - hard walls: raw Euclidean distances, positions must stay inside
//     the box
//   - periodic: minimum-image distances, every position is valid after
//     wrapping
//
// Under the minimum-image convention no pair distance can exceed half
// the box diagonal, L*sqrt(3)/2 for a cube of side L.
package geometry
