// Package plot generates a grid of independently rendered cells in
// parallel and assembles them into one composite image.
//
// # Architecture
//
// One invocation moves through three stages:
//
//  1. Fan-out: every task (index, item) is submitted to a bounded worker
//     pool. Each worker preprocesses its item, renders it onto a fresh
//     cell-sized canvas via the caller's RenderFunc, and persists the
//     encoded artifact to the artifact store.
//  2. Collection: the assembler consumes (index, handle) results in
//     completion order, which is explicitly not submission order.
//  3. Placement: each artifact is drawn into the sub-region its index maps
//     to under the configured traversal order. Placement depends only on
//     the index, so two runs with different scheduling produce
//     pixel-identical composites.
//
// The artifact store is a scoped resource: opened after configuration is
// validated, shared by workers (write) and assembler (read), and released
// on every exit path. Retention can be requested for debugging.
//
// # Usage
//
//	func cell(v float64, c *canvas.Canvas) error {
//	    c.DrawCircle(float64(c.Width())/2, float64(c.Height())/2, v)
//	    c.Fill()
//	    return nil
//	}
//
//	comp, err := plot.Generate(ctx, cell, []float64{10, 20, 30, 40, 50, 60}, plot.Options{
//	    Shape: grid.Shape{Rows: 2, Cols: 3},
//	})
//	if err != nil {
//	    return err
//	}
//	comp.Save("grid.png")
//
// Render and preprocess functions cross the worker boundary as plain
// function values. Use named, stateless functions: a closure that captures
// mutable state shared with the caller defeats the isolation the pool
// relies on.
package plot

import (
	"bytes"
	"context"
	stderrors "errors"
	"time"

	"github.com/disintegration/imaging"

	"github.com/gridplot/gridplot/pkg/cache"
	"github.com/gridplot/gridplot/pkg/canvas"
	"github.com/gridplot/gridplot/pkg/errors"
	"github.com/gridplot/gridplot/pkg/observability"
)

// RenderFunc draws one data item onto a cell canvas. Its contract is "fully
// populate the given canvas or fail"; the returned error aborts the whole
// grid.
type RenderFunc[T any] func(data T, c *canvas.Canvas) error

// Preprocess transforms a raw item before rendering. It runs inside the
// worker, so expensive derivations happen in parallel too. Must be pure.
type Preprocess[T any] func(item T) (T, error)

// Generator runs grid generations for one render function. The zero fields
// of Options are defaulted on each run; a Generator is safe for sequential
// reuse with different inputs.
type Generator[T any] struct {
	Render     RenderFunc[T]
	Preprocess Preprocess[T]
	Options    Options
}

// New creates a generator for the given render callback.
func New[T any](render RenderFunc[T], opts Options) *Generator[T] {
	return &Generator[T]{Render: render, Options: opts}
}

// Generate renders items into a composite grid. It is shorthand for
// New(render, opts).Run(ctx, items).
func Generate[T any](ctx context.Context, render RenderFunc[T], items []T, opts Options) (*Composite, error) {
	return New(render, opts).Run(ctx, items)
}

// Run executes the full fan-out / collect / place cycle and returns the
// assembled composite.
//
// On any task failure the first error is returned after the artifact store
// has been released according to the retention preference; partial results
// are discarded, never partially assembled.
func (g *Generator[T]) Run(ctx context.Context, items []T) (*Composite, error) {
	genStart := time.Now()

	opts := g.Options
	if err := opts.ValidateAndSetDefaults(len(items)); err != nil {
		return nil, err
	}
	logger := opts.Logger

	// Labels are drawn before any task result arrives.
	comp := newComposite(&opts)

	store := opts.Store
	if store == nil {
		s, err := cache.OpenDir(opts.CacheDir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeResource, err, "open artifact cache")
		}
		store = s
	}

	observability.Grid().OnGenerateStart(ctx, opts.Total, opts.Shape.Rows, opts.Shape.Cols, opts.Workers)
	logger.Debug("dispatching render tasks",
		"total", opts.Total,
		"workers", opts.Workers,
		"order", opts.Order.String())

	var firstErr error
	completed := 0
	for res := range g.dispatch(ctx, store, items, &opts) {
		completed++
		if opts.Progress != nil {
			opts.Progress(completed, opts.Total)
		}

		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		if firstErr != nil {
			// Draining after a failure; this artifact will be discarded
			// with the rest of the namespace.
			continue
		}

		if err := g.placeResult(ctx, store, comp, res); err != nil {
			firstErr = err
		}
	}

	// The store is released on success and failure alike.
	cerr := store.Close(opts.RetainCache)
	observability.Store().OnRelease(ctx, opts.RetainCache)
	observability.Grid().OnGenerateComplete(ctx, time.Since(genStart), firstErr)

	if firstErr != nil {
		return nil, firstErr
	}
	if cerr != nil {
		return nil, errors.Wrap(errors.ErrCodeResource, cerr, "release artifact cache")
	}

	logger.Info("assembled grid",
		"cells", opts.Total,
		"shape", opts.Shape.String(),
		"duration", time.Since(genStart).Round(time.Millisecond))
	return comp, nil
}

// placeResult loads one artifact and draws it into its mapped sub-region.
func (g *Generator[T]) placeResult(ctx context.Context, store cache.Store, comp *Composite, res result) error {
	data, err := store.Get(ctx, res.handle)
	if err != nil {
		if stderrors.Is(err, cache.ErrNotFound) {
			return errors.Wrap(errors.ErrCodeArtifactNotFound, err, "artifact %d vanished before assembly", res.index)
		}
		return errors.Wrap(errors.ErrCodeResource, err, "load artifact %d", res.index)
	}
	observability.Store().OnGet(ctx, res.index, len(data))

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "decode artifact %d", res.index)
	}

	comp.place(res.index, img)
	return nil
}
