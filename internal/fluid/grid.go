package fluid

import "math"

// Grid is a uniform-cell spatial hash over particle positions. It stores
// particle indices only and lives for a single simulation step: cleared
// and rebuilt from scratch every frame, so no removal primitive exists.
//
// Cell size equals the SPH smoothing radius, so a query at that radius
// visits a constant 3×3 block of buckets regardless of particle count.
type Grid struct {
	cellSize float64
	buckets  map[int64][]int
}

// NewGrid creates a grid with the given cell size. Cell size must be
// positive; it is normally the smoothing radius.
func NewGrid(cellSize float64) *Grid {
	return &Grid{
		cellSize: cellSize,
		buckets:  make(map[int64][]int),
	}
}

// cellKey packs the integer cell coordinates into a single map key.
// Packing two int32 halves into an int64 avoids the string-keyed map of
// a naive implementation.
func cellKey(cx, cy int32) int64 {
	return int64(cx)<<32 | int64(uint32(cy))
}

func (g *Grid) cellOf(p Vec2) (int32, int32) {
	return int32(math.Floor(p.X / g.cellSize)), int32(math.Floor(p.Y / g.cellSize))
}

// Clear empties all buckets, keeping their capacity for the next rebuild.
func (g *Grid) Clear() {
	for k := range g.buckets {
		g.buckets[k] = g.buckets[k][:0]
	}
}

// Insert places particle index idx into the bucket containing pos.
func (g *Grid) Insert(idx int, pos Vec2) {
	key := cellKey(g.cellOf(pos))
	g.buckets[key] = append(g.buckets[key], idx)
}

// Query appends to dst the indices of all particles in the square block
// of buckets covering the disc (center, radius) and returns the result.
// The candidate set is a superset of the true radius-neighbors: false
// positives are expected and filtered by the caller's distance check,
// false negatives cannot occur.
func (g *Grid) Query(center Vec2, radius float64, dst []int) []int {
	reach := int32(math.Ceil(radius / g.cellSize))
	cx, cy := g.cellOf(center)
	for dx := -reach; dx <= reach; dx++ {
		for dy := -reach; dy <= reach; dy++ {
			if b, ok := g.buckets[cellKey(cx+dx, cy+dy)]; ok {
				dst = append(dst, b...)
			}
		}
	}
	return dst
}
