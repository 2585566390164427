package plot

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gridplot/gridplot/pkg/cache"
	"github.com/gridplot/gridplot/pkg/canvas"
	"github.com/gridplot/gridplot/pkg/errors"
	"github.com/gridplot/gridplot/pkg/grid"
)

// Tiny cells keep the tests fast: 0.2in at 10 DPI is a 2x2 pixel cell.
var testCell = grid.CellSize{Width: 0.2, Height: 0.2}

// palette maps an item value to a solid fill color. Values survive a PNG
// round trip exactly.
var palette = []color.NRGBA{
	{R: 255, A: 255},
	{G: 255, A: 255},
	{B: 255, A: 255},
	{R: 255, G: 255, A: 255},
	{R: 255, B: 255, A: 255},
	{G: 255, B: 255, A: 255},
}

// solidCell fills the whole canvas with the item's palette color.
func solidCell(v int, c *canvas.Canvas) error {
	c.SetColor(palette[v%len(palette)])
	c.Clear()
	return nil
}

// sampleCenter returns the pixel at the center of the (row, col) sub-region.
func sampleCenter(comp *Composite, row, col int) color.NRGBA {
	r := comp.Region(row, col)
	x := r.Min.X + r.Dx()/2
	y := r.Min.Y + r.Dy()/2
	return color.NRGBAModel.Convert(comp.Image().At(x, y)).(color.NRGBA)
}

func items(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestGenerateRowMajor(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "figcache")
	shape := grid.Shape{Rows: 2, Cols: 3}

	comp, err := Generate(context.Background(), solidCell, items(6), Options{
		Shape:    shape,
		CellSize: testCell,
		DPI:      10,
		CacheDir: dir,
	})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	// Every sub-region holds the color of the index mapped to it.
	for i := 0; i < 6; i++ {
		row, col := grid.CellAt(i, shape, grid.RowMajor)
		if got := sampleCenter(comp, row, col); got != palette[i] {
			t.Errorf("cell (%d, %d) = %v, want color of index %d", row, col, got, i)
		}
	}

	// Cache namespace is gone after a clean run.
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("cache namespace %s should be removed", dir)
	}
}

func TestGenerateColMajor(t *testing.T) {
	shape := grid.Shape{Rows: 2, Cols: 3}

	comp, err := Generate(context.Background(), solidCell, items(6), Options{
		Shape:    shape,
		CellSize: testCell,
		DPI:      10,
		Order:    grid.ColMajor,
		Store:    cache.NewMemStore(),
	})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	// Index 1 lands at (1, 0) under column-major traversal.
	if got := sampleCenter(comp, 1, 0); got != palette[1] {
		t.Errorf("cell (1, 0) = %v, want color of index 1", got)
	}
	if got := sampleCenter(comp, 0, 1); got != palette[2] {
		t.Errorf("cell (0, 1) = %v, want color of index 2", got)
	}
}

// slowThenFastCell shuffles completion order: early indexes sleep longest.
func slowThenFastCell(v int, c *canvas.Canvas) error {
	time.Sleep(time.Duration(8-v) * time.Millisecond)
	return solidCell(v, c)
}

// TestPlacementOrderIndependence renders the same grid with opposing
// completion orders and expects pixel-identical composites.
func TestPlacementOrderIndependence(t *testing.T) {
	shape := grid.Shape{Rows: 2, Cols: 3}
	opts := func() Options {
		return Options{
			Shape:    shape,
			CellSize: testCell,
			DPI:      10,
			Store:    cache.NewMemStore(),
		}
	}

	fast, err := Generate(context.Background(), solidCell, items(6), opts())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	shuffled, err := Generate(context.Background(), slowThenFastCell, items(6), opts())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	var a, b bytes.Buffer
	if err := fast.EncodePNG(&a); err != nil {
		t.Fatal(err)
	}
	if err := shuffled.EncodePNG(&b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("composites differ across completion orders")
	}
}

// failAtThree fails for item 3 and renders everything else.
func failAtThree(v int, c *canvas.Canvas) error {
	if v == 3 {
		return stderrors.New("injected failure")
	}
	return solidCell(v, c)
}

func TestRenderFailureSurfacesAndCleansUp(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "figcache")

	_, err := Generate(context.Background(), failAtThree, items(6), Options{
		Shape:    grid.Shape{Rows: 2, Cols: 3},
		CellSize: testCell,
		DPI:      10,
		CacheDir: dir,
	})
	if err == nil {
		t.Fatal("expected error")
	}

	re, ok := errors.AsRenderError(err)
	if !ok {
		t.Fatalf("error = %v, want RenderError", err)
	}
	if re.Index != 3 {
		t.Errorf("failed index = %d, want 3", re.Index)
	}

	// The namespace is still released on the failure path.
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("cache namespace %s should be removed after failure", dir)
	}
}

func TestConfigErrorsBeforeAnyWork(t *testing.T) {
	var calls atomic.Int64
	counting := func(v int, c *canvas.Canvas) error {
		calls.Add(1)
		return solidCell(v, c)
	}

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{
			name: "total exceeds grid",
			opts: Options{Shape: grid.Shape{Rows: 2, Cols: 3}, Total: 7},
			code: errors.ErrCodeInvalidTotal,
		},
		{
			name: "zero shape",
			opts: Options{},
			code: errors.ErrCodeInvalidShape,
		},
		{
			name: "negative cell size",
			opts: Options{Shape: grid.Shape{Rows: 1, Cols: 1}, CellSize: grid.CellSize{Width: -1, Height: 2}},
			code: errors.ErrCodeInvalidCellSize,
		},
		{
			name: "label count mismatch",
			opts: Options{Shape: grid.Shape{Rows: 2, Cols: 3}, ColLabels: []string{"a", "b"}},
			code: errors.ErrCodeInvalidLabels,
		},
	}

	dir := filepath.Join(t.TempDir(), "figcache")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.CacheDir = dir
			_, err := Generate(context.Background(), counting, items(7), tt.opts)
			if err == nil {
				t.Fatal("expected configuration error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}

	if calls.Load() != 0 {
		t.Errorf("render callback ran %d times before validation, want 0", calls.Load())
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("no cache namespace may be created for rejected configuration")
	}
}

func TestWorkerBoundNeverExceedsTotal(t *testing.T) {
	var current, max atomic.Int64
	tracking := func(v int, c *canvas.Canvas) error {
		n := current.Add(1)
		for {
			m := max.Load()
			if n <= m || max.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		current.Add(-1)
		return solidCell(v, c)
	}

	_, err := Generate(context.Background(), tracking, items(1), Options{
		Shape:    grid.Shape{Rows: 1, Cols: 1},
		CellSize: testCell,
		DPI:      10,
		Store:    cache.NewMemStore(),
	})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if max.Load() > 1 {
		t.Errorf("observed %d concurrent tasks for total=1, want at most 1", max.Load())
	}
}

func TestRetainCacheKeepsArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "figcache")

	_, err := Generate(context.Background(), solidCell, items(4), Options{
		Shape:       grid.Shape{Rows: 2, Cols: 2},
		CellSize:    testCell,
		DPI:         10,
		CacheDir:    dir,
		RetainCache: true,
	})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	for i := 0; i < 4; i++ {
		p := filepath.Join(dir, fmt.Sprintf("%d.png", i))
		if _, err := os.Stat(p); err != nil {
			t.Errorf("retained artifact %d missing: %v", i, err)
			break
		}
	}
}

func TestProgressObserver(t *testing.T) {
	var mu sync.Mutex
	var seen []int

	_, err := Generate(context.Background(), solidCell, items(6), Options{
		Shape:    grid.Shape{Rows: 2, Cols: 3},
		CellSize: testCell,
		DPI:      10,
		Store:    cache.NewMemStore(),
		Progress: func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			if total != 6 {
				t.Errorf("total = %d, want 6", total)
			}
			seen = append(seen, done)
		},
	})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	if len(seen) != 6 {
		t.Fatalf("observer fired %d times, want 6", len(seen))
	}
	for i, v := range seen {
		if v != i+1 {
			t.Errorf("observer call %d reported %d, want monotonically increasing count", i, v)
		}
	}
}

// double is a pure preprocess transform.
func double(v int) (int, error) {
	return v * 2, nil
}

func TestPreprocessRunsInsideWorker(t *testing.T) {
	var mu sync.Mutex
	got := map[int]bool{}
	recording := func(v int, c *canvas.Canvas) error {
		mu.Lock()
		got[v] = true
		mu.Unlock()
		return solidCell(v, c)
	}

	g := New(recording, Options{
		Shape:    grid.Shape{Rows: 1, Cols: 3},
		CellSize: testCell,
		DPI:      10,
		Store:    cache.NewMemStore(),
	})
	g.Preprocess = double

	if _, err := g.Run(context.Background(), items(3)); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	for _, want := range []int{0, 2, 4} {
		if !got[want] {
			t.Errorf("render never saw preprocessed value %d (saw %v)", want, got)
		}
	}
}

func TestPartialGridLeavesBlankCells(t *testing.T) {
	comp, err := Generate(context.Background(), solidCell, items(2), Options{
		Shape:    grid.Shape{Rows: 2, Cols: 3},
		CellSize: testCell,
		DPI:      10,
		Store:    cache.NewMemStore(),
	})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if got := sampleCenter(comp, 1, 2); got != white {
		t.Errorf("unfilled cell = %v, want blank white", got)
	}
	if got := sampleCenter(comp, 0, 0); got != palette[0] {
		t.Errorf("filled cell = %v, want color of index 0", got)
	}
}
