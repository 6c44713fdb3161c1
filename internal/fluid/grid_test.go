package fluid

import (
	"math/rand"
	"testing"
)

func TestGridQuerySuperset(t *testing.T) {
	const cellSize = 16.0
	g := NewGrid(cellSize)
	rng := rand.New(rand.NewSource(7))

	positions := make([]Vec2, 500)
	for i := range positions {
		positions[i] = Vec2{rng.Float64() * 400, rng.Float64() * 300}
		g.Insert(i, positions[i])
	}

	for trial := 0; trial < 50; trial++ {
		center := Vec2{rng.Float64() * 400, rng.Float64() * 300}
		radius := rng.Float64() * cellSize

		candidates := g.Query(center, radius, nil)
		seen := make(map[int]bool, len(candidates))
		for _, idx := range candidates {
			seen[idx] = true
		}

		// Every true radius-neighbor must appear in the candidate set.
		for i, pos := range positions {
			if pos.Sub(center).Len() <= radius && !seen[i] {
				t.Fatalf("trial %d: particle %d at distance %.2f missing from query (radius %.2f)",
					trial, i, pos.Sub(center).Len(), radius)
			}
		}
	}
}

func TestGridClear(t *testing.T) {
	g := NewGrid(16)
	g.Insert(0, Vec2{5, 5})
	g.Insert(1, Vec2{100, 100})

	g.Clear()

	if got := g.Query(Vec2{5, 5}, 16, nil); len(got) != 0 {
		t.Errorf("expected empty query after clear, got %v", got)
	}
}

func TestGridNegativeCoordinates(t *testing.T) {
	g := NewGrid(16)
	g.Insert(0, Vec2{-5, -5})

	got := g.Query(Vec2{-1, -1}, 16, nil)
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("expected particle at negative coordinates to be found, got %v", got)
	}
}

func TestGridQueryLargerThanCell(t *testing.T) {
	g := NewGrid(16)
	g.Insert(0, Vec2{0, 0})
	g.Insert(1, Vec2{60, 0})

	got := g.Query(Vec2{0, 0}, 64, nil)
	if len(got) != 2 {
		t.Errorf("expected both particles within a 4-cell radius, got %v", got)
	}
}

func TestGridRebuild(t *testing.T) {
	g := NewGrid(16)
	g.Insert(0, Vec2{5, 5})
	g.Clear()
	g.Insert(0, Vec2{200, 200})

	if got := g.Query(Vec2{5, 5}, 16, nil); len(got) != 0 {
		t.Errorf("stale bucket after rebuild: %v", got)
	}
	if got := g.Query(Vec2{200, 200}, 16, nil); len(got) != 1 {
		t.Errorf("expected reinserted particle, got %v", got)
	}
}
