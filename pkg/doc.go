// Package pkg provides the core libraries for Gridplot parallel grid rendering.
//
// # Overview
//
// Gridplot renders many small plots in parallel and assembles them into one
// composite grid image. The pkg directory is organized into five areas:
//
//  1. [plot] - Orchestration (fan out → render → collect → place)
//  2. [grid] - Grid geometry (shape, cell size, index→coordinate mapping)
//  3. [canvas] - Per-cell drawing surface handed to render callbacks
//  4. [cache] - Artifact stores carrying rendered cells from workers
//  5. [errors], [observability], [buildinfo] - Cross-cutting support
//
// # Architecture
//
// The typical data flow through Gridplot:
//
//	items []T
//	    ↓
//	[plot] worker pool (bounded fan-out)
//	    ↓ render each item onto a [canvas]
//	[cache] artifact store (PNG per cell)
//	    ↓ collect out of order
//	[plot] composite assembly via [grid] placement
//	    ↓
//	single composite PNG
//
// # Quick Start
//
// Render six values as circles in a 2x3 grid:
//
//	import (
//	    "context"
//	    "github.com/gridplot/gridplot/pkg/canvas"
//	    "github.com/gridplot/gridplot/pkg/grid"
//	    "github.com/gridplot/gridplot/pkg/plot"
//	)
//
//	func drawCircle(radius float64, c *canvas.Canvas) error {
//	    c.DrawCircle(float64(c.Width())/2, float64(c.Height())/2, radius)
//	    c.Fill()
//	    return nil
//	}
//
//	comp, err := plot.Generate(context.Background(), drawCircle,
//	    []float64{10, 20, 30, 40, 50, 60},
//	    plot.Options{Shape: grid.Shape{Rows: 2, Cols: 3}})
//	if err != nil {
//	    return err
//	}
//	return comp.Save("grid.png")
//
// # Main Packages
//
// [plot] - The generator. Validates options, fans tasks out over a bounded
// worker pool, collects results in completion order, and places each cell at
// its deterministic coordinate. Placement depends only on the task index, so
// the output is identical regardless of scheduling.
//
// [grid] - Pure geometry. Shape, cell size in inches, traversal order
// (row-major or column-major), and the CellAt index mapping.
//
// [cache] - Artifact handoff between workers and assembly. DirStore writes
// one PNG per cell under a uuid-owned namespace; RedisStore carries
// artifacts through Redis for multi-process setups; MemStore backs tests.
//
// [canvas] - A gg drawing context sized for exactly one cell. Render
// callbacks draw onto it and never touch the parent composite.
package pkg
