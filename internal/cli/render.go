package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gridplot/gridplot/internal/demo"
	"github.com/gridplot/gridplot/pkg/cache"
	"github.com/gridplot/gridplot/pkg/errors"
	"github.com/gridplot/gridplot/pkg/grid"
	"github.com/gridplot/gridplot/pkg/plot"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	rows       int     // grid rows
	cols       int     // grid columns
	count      int     // number of cells to render (defaults to rows*cols)
	renderer   string  // demo renderer name: solid, sine, scatter
	order      string  // traversal order: row-major or col-major
	cellWidth  float64 // cell width in inches
	cellHeight float64 // cell height in inches
	dpi        int     // raster resolution
	colLabels  string  // comma-separated column labels
	rowLabels  string  // comma-separated row labels
	workers    int     // worker pool size (0 = one per CPU)
	cacheDir   string  // artifact cache directory
	keepCache  bool    // retain the artifact cache after assembly
	redisAddr  string  // redis address for the artifact store
	output     string  // output PNG path
	plain      bool    // disable the interactive progress bar
}

// renderCommand creates the render command for generating composite grids.
//
// Default settings:
//   - 2x3 grid, row-major order
//   - sine renderer
//   - 6x12 inch cells at 100 DPI
//   - one worker per CPU, capped at the cell count
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		rows:       2,
		cols:       3,
		renderer:   "sine",
		order:      "row-major",
		cellWidth:  plot.DefaultCellWidth,
		cellHeight: plot.DefaultCellHeight,
		dpi:        c.Config.DPI,
		workers:    c.Config.Workers,
		cacheDir:   c.Config.CacheDir,
		redisAddr:  c.Config.RedisAddr,
		output:     "grid.png",
	}
	if opts.dpi == 0 {
		opts.dpi = plot.DefaultDPI
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a demo grid of plots",
		Long:  `Render fans the built-in demo cells out over the worker pool and assembles them into a single composite PNG.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), &opts)
		},
	}

	cmd.Flags().IntVar(&opts.rows, "rows", opts.rows, "grid rows")
	cmd.Flags().IntVar(&opts.cols, "cols", opts.cols, "grid columns")
	cmd.Flags().IntVarP(&opts.count, "count", "n", 0, "cells to render (default rows*cols)")
	cmd.Flags().StringVarP(&opts.renderer, "renderer", "r", opts.renderer, fmt.Sprintf("demo renderer: %s", strings.Join(demo.Names(), ", ")))
	cmd.Flags().StringVar(&opts.order, "order", opts.order, "traversal order: row-major, col-major")
	cmd.Flags().Float64Var(&opts.cellWidth, "cell-width", opts.cellWidth, "cell width in inches")
	cmd.Flags().Float64Var(&opts.cellHeight, "cell-height", opts.cellHeight, "cell height in inches")
	cmd.Flags().IntVar(&opts.dpi, "dpi", opts.dpi, "raster resolution in dots per inch")
	cmd.Flags().StringVar(&opts.colLabels, "col-labels", "", "comma-separated column labels")
	cmd.Flags().StringVar(&opts.rowLabels, "row-labels", "", "comma-separated row labels")
	cmd.Flags().IntVar(&opts.workers, "workers", opts.workers, "worker pool size (0 = one per CPU)")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", opts.cacheDir, "artifact cache directory (default .figcache)")
	cmd.Flags().BoolVar(&opts.keepCache, "keep-cache", false, "retain per-cell artifacts after assembly")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", opts.redisAddr, "redis address for the artifact store (overrides --cache-dir)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output PNG path")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "disable the interactive progress bar")

	return cmd
}

// runRender wires flags into plot options and executes the pipeline, with a
// live progress bar unless --plain is set. The logger comes from the command
// context, installed by the root command.
func (c *CLI) runRender(ctx context.Context, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	order, err := grid.ParseOrder(opts.order)
	if err != nil {
		return err
	}
	render, err := demo.Lookup(opts.renderer)
	if err != nil {
		return err
	}

	count := opts.count
	if count == 0 {
		count = opts.rows * opts.cols
	}
	// Items are built from count, so it must be rejected here; the option
	// validation below only sees the items that already exist.
	if count < 0 {
		return errors.New(errors.ErrCodeInvalidTotal, "count must not be negative, got %d", count)
	}
	items := demo.Items(count)

	popts := plot.Options{
		Shape:       grid.Shape{Rows: opts.rows, Cols: opts.cols},
		CellSize:    grid.CellSize{Width: opts.cellWidth, Height: opts.cellHeight},
		DPI:         opts.dpi,
		Order:       order,
		ColLabels:   parseLabels(opts.colLabels),
		RowLabels:   parseLabels(opts.rowLabels),
		Workers:     opts.workers,
		CacheDir:    opts.cacheDir,
		RetainCache: opts.keepCache,
		Logger:      logger,
	}

	// Validate before any resource is opened, so a bad flag never leaks a
	// connection; this also resolves the defaults the summary below reports.
	if err := popts.ValidateAndSetDefaults(len(items)); err != nil {
		return err
	}

	// Opened last: every path from here hands the store to the generator,
	// which owns its release.
	if opts.redisAddr != "" {
		store, err := cache.OpenRedis(ctx, opts.redisAddr)
		if err != nil {
			return err
		}
		popts.Store = store
	}

	prog := newProgress(logger)

	var comp *plot.Composite
	if opts.plain {
		comp, err = plot.Generate(ctx, render, items, popts)
	} else {
		comp, err = c.renderWithProgress(ctx, render, items, popts, count)
	}
	if err != nil {
		printError("Render failed")
		return err
	}

	if err := comp.Save(opts.output); err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Rendered %d cells", count))
	printSuccess("Generated composite grid")
	printStats(opts.rows, opts.cols, count, popts.Workers)
	printFile(opts.output)
	if opts.keepCache && popts.Store == nil {
		printNextStep("Inspect per-cell artifacts", "ls "+popts.CacheDir)
	}
	return nil
}

// renderWithProgress runs the pipeline in a goroutine and feeds completion
// counts into a bubbletea progress bar on the main goroutine.
func (c *CLI) renderWithProgress(ctx context.Context, render plot.RenderFunc[demo.Cell], items []demo.Cell, popts plot.Options, total int) (*plot.Composite, error) {
	p := tea.NewProgram(newProgressModel(total), tea.WithContext(ctx))

	popts.Progress = func(completed, total int) {
		p.Send(progressMsg{completed: completed})
	}

	type outcome struct {
		comp *plot.Composite
		err  error
	}
	result := make(chan outcome, 1)
	go func() {
		comp, err := plot.Generate(ctx, render, items, popts)
		p.Send(finishedMsg{err: err})
		result <- outcome{comp: comp, err: err}
	}()

	if _, err := p.Run(); err != nil {
		return nil, err
	}
	res := <-result
	return res.comp, res.err
}

// parseLabels splits a comma-separated label flag into a slice.
// Empty input yields nil so the grid is rendered without a label band.
func parseLabels(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
