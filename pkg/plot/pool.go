package plot

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gridplot/gridplot/pkg/cache"
	"github.com/gridplot/gridplot/pkg/canvas"
	"github.com/gridplot/gridplot/pkg/errors"
	"github.com/gridplot/gridplot/pkg/observability"
)

// task pairs a linear index with its raw data item. Immutable once queued.
type task[T any] struct {
	index int
	item  T
}

// result is what a worker hands to the collector: the task index, the
// artifact handle on success, or the task's error.
type result struct {
	index  int
	handle cache.Handle
	err    error
}

// dispatch submits all tasks up front and starts the bounded worker pool.
// Results arrive on the returned channel in completion order, which is
// unrelated to submission order; the channel is closed once every started
// task has reported.
//
// On the first failure workers stop picking up new tasks: queued tasks are
// discarded, in-flight tasks run to completion and their results are
// consumed and dropped by the collector. The consumer never blocks on an
// abandoned task.
func (g *Generator[T]) dispatch(ctx context.Context, store cache.Store, items []T, opts *Options) <-chan result {
	jobs := make(chan task[T], opts.Total)
	for i := 0; i < opts.Total; i++ {
		jobs <- task[T]{index: i, item: items[i]}
	}
	close(jobs)

	results := make(chan result)
	var failed atomic.Bool

	var wg sync.WaitGroup
	wg.Add(opts.Workers)
	for w := 0; w < opts.Workers; w++ {
		go func() {
			defer wg.Done()
			for t := range jobs {
				if failed.Load() {
					continue
				}
				res := g.renderCell(ctx, store, t, opts)
				if res.err != nil {
					failed.Store(true)
				}
				results <- res
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()
	return results
}

// renderCell executes one task: preprocess, render onto a fresh cell-sized
// canvas, serialize, persist. Callback failures surface as RenderError and
// are never retried.
func (g *Generator[T]) renderCell(ctx context.Context, store cache.Store, t task[T], opts *Options) result {
	start := time.Now()
	res := result{index: t.index}
	defer func() {
		observability.Grid().OnTaskComplete(ctx, t.index, time.Since(start), res.err)
	}()

	data := t.item
	if g.Preprocess != nil {
		v, err := g.Preprocess(data)
		if err != nil {
			res.err = &errors.RenderError{Index: t.index, Cause: fmt.Errorf("preprocess: %w", err)}
			return res
		}
		data = v
	}

	w, h := opts.CellSize.Pixels(opts.DPI)
	c := canvas.New(w, h)
	if err := g.Render(data, c); err != nil {
		res.err = &errors.RenderError{Index: t.index, Cause: err}
		return res
	}

	buf, err := c.PNG()
	if err != nil {
		res.err = errors.Wrap(errors.ErrCodeInternal, err, "encode artifact %d", t.index)
		return res
	}

	handle, err := store.Put(ctx, t.index, buf)
	if err != nil {
		res.err = errors.Wrap(errors.ErrCodeResource, err, "persist artifact %d", t.index)
		return res
	}
	observability.Store().OnPut(ctx, t.index, len(buf))

	res.handle = handle
	return res
}
