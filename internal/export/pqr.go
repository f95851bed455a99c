// Package export writes final particle configurations to structured
// coordinate files for external viewers. Export is one-way; nothing is
// read back.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/mlund/particletracking/internal/space"
)

// WritePQR emits one ATOM record per particle in PQR layout
// (PDB-like columns with charge and radius in the last two fields),
// readable by VMD and PyMOL.
func WritePQR(w io.Writer, particles []space.Particle) error {
	for i, p := range particles {
		_, err := fmt.Fprintf(w, "ATOM  %5d %-4s %-4s%5d    %8.3f%8.3f%8.3f %6.3f %6.3f\n",
			i+1, "UNK", "UNK", 1, p.Pos[0], p.Pos[1], p.Pos[2], p.Charge, p.Radius)
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "END")
	return err
}

// SavePQR writes the particle collection to path.
func SavePQR(path string, particles []space.Particle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WritePQR(f, particles)
}
