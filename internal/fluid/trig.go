package fluid

import "math"

// trigTable holds precomputed sine values with linear interpolation
// between entries. At 4096 entries the error stays under 1e-6, well
// below anything the wave field can show.
type trigTable struct {
	sin []float64
	n   int
}

var waveTrig = newTrigTable(4096)

func newTrigTable(n int) *trigTable {
	t := &trigTable{sin: make([]float64, n), n: n}
	for i := 0; i < n; i++ {
		t.sin[i] = math.Sin(float64(i) * 2 * math.Pi / float64(n))
	}
	return t
}

func (t *trigTable) at(x float64) float64 {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}

	idx := x * float64(t.n) / (2 * math.Pi)
	i := int(idx)
	frac := idx - float64(i)

	i0 := i % t.n
	i1 := (i + 1) % t.n
	return t.sin[i0]*(1-frac) + t.sin[i1]*frac
}

// fastSin approximates sin through the shared table. The perturbation
// pass calls it once per particle per wave term, making it the hottest
// trig site in a step.
func fastSin(x float64) float64 { return waveTrig.at(x) }

// fastCos rides the same table via the quarter-turn identity.
func fastCos(x float64) float64 { return waveTrig.at(x + math.Pi/2) }
