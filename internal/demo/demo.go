// Package demo provides built-in cell renderers used by the CLI and the
// HTTP server to exercise the grid pipeline without user code.
package demo

import (
	"math"
	"math/rand"

	"github.com/gridplot/gridplot/pkg/canvas"
	"github.com/gridplot/gridplot/pkg/errors"
)

// Cell is the data item fed to the demo renderers. Seed makes each cell
// deterministic so repeated runs produce identical composites.
type Cell struct {
	Index int
	Seed  int64
}

// Items builds n demo cells with stable seeds.
func Items(n int) []Cell {
	cells := make([]Cell, n)
	for i := range cells {
		cells[i] = Cell{Index: i, Seed: int64(i) + 1}
	}
	return cells
}

// Renderers maps CLI-facing names to renderer functions.
var Renderers = map[string]func(Cell, *canvas.Canvas) error{
	"solid":   SolidFill,
	"sine":    SineWave,
	"scatter": Scatter,
}

// Names lists the available renderer names in a fixed order.
func Names() []string {
	return []string{"solid", "sine", "scatter"}
}

// Lookup resolves a renderer by name.
func Lookup(name string) (func(Cell, *canvas.Canvas) error, error) {
	r, ok := Renderers[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown renderer %q (have solid, sine, scatter)", name)
	}
	return r, nil
}

// palette cycles hues per cell index.
var palette = [][3]float64{
	{0.86, 0.24, 0.24},
	{0.24, 0.56, 0.86},
	{0.24, 0.72, 0.42},
	{0.93, 0.69, 0.13},
	{0.58, 0.35, 0.80},
	{0.20, 0.67, 0.68},
}

func cellColor(index int) (r, g, b float64) {
	c := palette[index%len(palette)]
	return c[0], c[1], c[2]
}

// SolidFill paints the whole cell in a single palette color.
func SolidFill(cell Cell, c *canvas.Canvas) error {
	r, g, b := cellColor(cell.Index)
	c.SetRGB(r, g, b)
	c.Clear()
	return nil
}

// SineWave draws one period of a sine curve with phase derived from the seed.
func SineWave(cell Cell, c *canvas.Canvas) error {
	w, h := float64(c.Width()), float64(c.Height())
	phase := float64(cell.Seed) * math.Pi / 4

	r, g, b := cellColor(cell.Index)
	c.SetRGB(r, g, b)
	c.SetLineWidth(math.Max(1, w/48))
	for x := 0.0; x <= w; x++ {
		y := h/2 + (h/3)*math.Sin(2*math.Pi*x/w+phase)
		if x == 0 {
			c.MoveTo(x, y)
		} else {
			c.LineTo(x, y)
		}
	}
	c.Stroke()
	return nil
}

// Scatter draws seeded random points, larger near the cell center.
func Scatter(cell Cell, c *canvas.Canvas) error {
	w, h := float64(c.Width()), float64(c.Height())
	rng := rand.New(rand.NewSource(cell.Seed))

	r, g, b := cellColor(cell.Index)
	c.SetRGBA(r, g, b, 0.75)
	n := 40 + rng.Intn(40)
	for i := 0; i < n; i++ {
		x := rng.Float64() * w
		y := rng.Float64() * h
		dx, dy := x-w/2, y-h/2
		dist := math.Sqrt(dx*dx+dy*dy) / math.Sqrt(w*w+h*h)
		radius := math.Max(1, (1-dist)*w/24)
		c.DrawCircle(x, y, radius)
		c.Fill()
	}
	return nil
}
