package plot

import (
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/gridplot/gridplot/pkg/cache"
	"github.com/gridplot/gridplot/pkg/errors"
	"github.com/gridplot/gridplot/pkg/grid"
)

// Default values shared by the CLI and the serve surface.
const (
	// DefaultCellWidth and DefaultCellHeight are the per-cell dimensions in
	// inches.
	DefaultCellWidth  = 6.0
	DefaultCellHeight = 12.0

	// DefaultDPI converts cell inches to pixels.
	DefaultDPI = 100
)

// ProgressFunc observes grid completion. It is called once per completed or
// failed task with a monotonically increasing completed-count; it has no
// effect on scheduling.
type ProgressFunc func(completed, total int)

// Options configures one grid generation.
type Options struct {
	// Shape is the grid's rows x cols layout. Required.
	Shape grid.Shape

	// CellSize is the per-cell size in inches. Defaults to 6x12.
	CellSize grid.CellSize

	// DPI converts cell inches to pixels. Defaults to 100.
	DPI int

	// Order is the index traversal order. Defaults to grid.RowMajor.
	Order grid.Order

	// Total is the number of tasks. Defaults to the full input length.
	// Must not exceed the item count or the number of grid cells.
	Total int

	// ColLabels and RowLabels are optional header labels. When provided,
	// their length must equal the number of columns / rows.
	ColLabels []string
	RowLabels []string

	// Workers bounds the render pool. Defaults to
	// min(Total, runtime.NumCPU()) and is never raised above either bound.
	Workers int

	// CacheDir is the on-disk artifact namespace, used when Store is nil.
	// Defaults to cache.DefaultDir relative to the working directory.
	CacheDir string

	// Store overrides the artifact channel backend (for example a Redis
	// store). The generator closes it.
	Store cache.Store

	// RetainCache leaves the artifact namespace on disk after completion,
	// for inspection.
	RetainCache bool

	// Progress, if set, is invoked once per completed or failed task.
	Progress ProgressFunc

	// Logger receives structured progress logs. Defaults to log.Default().
	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the configuration against the number of
// available items and applies defaults. All configuration errors are
// reported here, before any resource is allocated or worker started.
// The method is idempotent.
func (o *Options) ValidateAndSetDefaults(itemCount int) error {
	if o.validated {
		return nil
	}

	if o.Shape.Rows <= 0 || o.Shape.Cols <= 0 {
		return errors.New(errors.ErrCodeInvalidShape, "grid must have positive dimensions, got %s", o.Shape)
	}

	if o.CellSize.Width == 0 && o.CellSize.Height == 0 {
		o.CellSize = grid.CellSize{Width: DefaultCellWidth, Height: DefaultCellHeight}
	}
	if o.CellSize.Width <= 0 || o.CellSize.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidCellSize, "cell size must be positive, got %gx%g", o.CellSize.Width, o.CellSize.Height)
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.DPI < 0 {
		return errors.New(errors.ErrCodeInvalidCellSize, "dpi must be positive, got %d", o.DPI)
	}

	if o.Total == 0 {
		o.Total = itemCount
	}
	if o.Total < 0 {
		return errors.New(errors.ErrCodeInvalidTotal, "total must not be negative, got %d", o.Total)
	}
	if o.Total > itemCount {
		return errors.New(errors.ErrCodeInvalidTotal, "total %d exceeds the %d available items", o.Total, itemCount)
	}
	if o.Total > o.Shape.Cells() {
		return errors.New(errors.ErrCodeInvalidTotal, "total %d exceeds the %s grid; two tasks would share a cell", o.Total, o.Shape)
	}

	if o.ColLabels != nil && len(o.ColLabels) != o.Shape.Cols {
		return errors.New(errors.ErrCodeInvalidLabels, "%d column labels for %d columns", len(o.ColLabels), o.Shape.Cols)
	}
	if o.RowLabels != nil && len(o.RowLabels) != o.Shape.Rows {
		return errors.New(errors.ErrCodeInvalidLabels, "%d row labels for %d rows", len(o.RowLabels), o.Shape.Rows)
	}

	if o.Workers <= 0 || o.Workers > runtime.NumCPU() {
		o.Workers = runtime.NumCPU()
	}
	if o.Workers > o.Total {
		o.Workers = o.Total
	}

	if o.CacheDir == "" {
		o.CacheDir = cache.DefaultDir
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}

	o.validated = true
	return nil
}
