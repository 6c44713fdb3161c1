package export

import (
	"strings"
	"testing"

	"github.com/konacodes/fluidsim/internal/fluid"
)

func TestSnapshotSVG(t *testing.T) {
	view := []fluid.View{
		{Pos: fluid.Vec2{X: 10, Y: 20}, Speed: 50, Size: 7, Color: fluid.Color{A: 1}},
		{Pos: fluid.Vec2{X: 30, Y: 40}, Speed: 100, Size: 5, Color: fluid.Color{A: 0.5}, Splash: true},
	}

	svg := SnapshotSVG(view, 300, 200)

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing XML declaration")
	}
	if !strings.Contains(svg, `viewBox="0 0 300 200"`) {
		t.Error("wrong viewBox")
	}
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected 2 circles, got %d", got)
	}
	if !strings.Contains(svg, "#e8f4ff") {
		t.Error("splash particle not rendered white")
	}
}

func TestSnapshotSVGEmpty(t *testing.T) {
	svg := SnapshotSVG(nil, 100, 100)
	if !strings.Contains(svg, "</svg>") {
		t.Error("empty snapshot should still be a closed document")
	}
	if strings.Contains(svg, "<circle") {
		t.Error("empty snapshot should draw no circles")
	}
}

func TestSeriesSVG(t *testing.T) {
	times := []float64{0, 1, 2, 3}
	values := []float64{0, 5, 3, 8}

	svg := SeriesSVG(times, values, 400, 200, "#4fc3f7")
	if !strings.Contains(svg, `stroke="#4fc3f7"`) {
		t.Error("stroke color not applied")
	}
	if !strings.Contains(svg, "<path") {
		t.Error("missing path element")
	}
}

func TestSeriesSVGTooShort(t *testing.T) {
	if SeriesSVG([]float64{1}, []float64{2}, 100, 100, "#fff") != "" {
		t.Error("expected empty output for a single point")
	}
	if SeriesSVG([]float64{1, 2}, []float64{2}, 100, 100, "#fff") != "" {
		t.Error("expected empty output for mismatched lengths")
	}
}
