// Package analysis accumulates run observables: a binned distance
// distribution and summary statistics over sampled series.
package analysis

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"sort"
)

// Histogram is a 1-D running count over fixed-width bins. Bins are
// created lazily as values arrive, so no upper bound is needed up front.
// Counts only grow; the histogram is reset only by constructing a new one.
type Histogram struct {
	width float64
	bins  map[int]int64
	total int64
}

func NewHistogram(binWidth float64) (*Histogram, error) {
	if binWidth <= 0 {
		return nil, fmt.Errorf("analysis: bin width must be positive, got %g", binWidth)
	}
	return &Histogram{width: binWidth, bins: make(map[int]int64)}, nil
}

func (h *Histogram) BinWidth() float64 { return h.width }

// Record increments the count in bin floor(v / binWidth).
func (h *Histogram) Record(v float64) {
	h.bins[int(math.Floor(v/h.width))]++
	h.total++
}

// Count returns the count in the bin holding v.
func (h *Histogram) Count(v float64) int64 {
	return h.bins[int(math.Floor(v/h.width))]
}

// Total is the number of Record calls made.
func (h *Histogram) Total() int64 { return h.total }

// Bins returns the occupied bin indices in ascending order.
func (h *Histogram) Bins() []int {
	idx := make([]int, 0, len(h.bins))
	for i := range h.bins {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// Center returns the representative value of bin i.
func (h *Histogram) Center(i int) float64 {
	return (float64(i) + 0.5) * h.width
}

// Save writes bin-center/count pairs in ascending bin order as
// two-column text.
func (h *Histogram) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, i := range h.Bins() {
		fmt.Fprintf(w, "%g %d\n", h.Center(i), h.bins[i])
	}
	return w.Flush()
}

func (h *Histogram) Info() string {
	bins := h.Bins()
	if len(bins) == 0 {
		return fmt.Sprintf("histogram (bin width %g): empty", h.width)
	}
	return fmt.Sprintf("histogram (bin width %g): %d samples in %d bins, range [%g, %g)",
		h.width, h.total, len(bins),
		float64(bins[0])*h.width, float64(bins[len(bins)-1]+1)*h.width)
}
