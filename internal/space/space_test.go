package space

import (
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/mlund/particletracking/internal/geometry"
)

func newTestSpace(t *testing.T, n int, seed int64) *Space {
	t.Helper()
	geo, err := geometry.NewCube(10, false)
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(geo, n, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewPlacesParticlesInsideBox(t *testing.T) {
	s := newTestSpace(t, 50, 1)
	if s.Len() != 50 {
		t.Fatalf("expected 50 particles, got %d", s.Len())
	}
	for i, p := range s.Particles {
		if !s.Geo.Contains(p.Pos) {
			t.Errorf("particle %d placed outside box: %v", i, p.Pos)
		}
	}
}

func TestNewInvalidCount(t *testing.T) {
	geo, _ := geometry.NewCube(10, false)
	if _, err := New(geo, 0, rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected error for zero particles")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s := newTestSpace(t, 20, 3)
	if err := s.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	fresh := newTestSpace(t, 20, 99)
	ok, err := fresh.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !ok {
		t.Fatal("expected load to report prior state")
	}

	for i := range s.Particles {
		if fresh.Particles[i] != s.Particles[i] {
			t.Fatalf("particle %d not restored exactly: %+v vs %+v",
				i, fresh.Particles[i], s.Particles[i])
		}
	}
}

func TestLoadMissingStateIsNotAnError(t *testing.T) {
	s := newTestSpace(t, 5, 1)
	ok, err := s.Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing state must not error: %v", err)
	}
	if ok {
		t.Error("missing state must report false")
	}
}

func TestLoadMismatchedState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s := newTestSpace(t, 10, 1)
	if err := s.Save(path); err != nil {
		t.Fatal(err)
	}

	other := newTestSpace(t, 12, 1)
	if _, err := other.Load(path); !errors.Is(err, ErrStateMismatch) {
		t.Errorf("expected ErrStateMismatch for particle count, got %v", err)
	}

	bigGeo, _ := geometry.NewCube(20, false)
	bigger, err := New(bigGeo, 10, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bigger.Load(path); !errors.Is(err, ErrStateMismatch) {
		t.Errorf("expected ErrStateMismatch for box size, got %v", err)
	}
}

func TestMinMaxDistance(t *testing.T) {
	geo, _ := geometry.NewCube(10, false)
	s := &Space{
		Geo: geo,
		Particles: []Particle{
			{Pos: geometry.Vec3{0, 0, 0}},
			{Pos: geometry.Vec3{1, 0, 0}},
			{Pos: geometry.Vec3{4, 0, 0}},
		},
	}

	min, max := s.MinMaxDistance()
	if min != 1 {
		t.Errorf("expected min 1, got %f", min)
	}
	if max != 4 {
		t.Errorf("expected max 4, got %f", max)
	}
}
