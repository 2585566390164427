// Package grid defines the geometry of a plot grid: its shape, the size of a
// single cell, and the mapping from a linear task index to a (row, column)
// coordinate.
//
// The mapping is the only piece of the system that decides where a rendered
// cell ends up. Workers complete in arbitrary order; placement stays
// deterministic because CellAt depends on nothing but the index, the shape,
// and the traversal order.
package grid

import (
	"fmt"

	"github.com/gridplot/gridplot/pkg/errors"
)

// Order controls how a linear index traverses the grid.
type Order int

const (
	// RowMajor fills the grid left to right, then top to bottom.
	RowMajor Order = iota

	// ColMajor fills the grid top to bottom, then left to right.
	ColMajor
)

// String returns the canonical name of the order.
func (o Order) String() string {
	switch o {
	case RowMajor:
		return "row-major"
	case ColMajor:
		return "col-major"
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

// ParseOrder converts a user-facing name into an Order.
// Accepted values: "row-major", "row", "col-major", "col", "column-major", "column".
func ParseOrder(s string) (Order, error) {
	switch s {
	case "row-major", "row", "rows":
		return RowMajor, nil
	case "col-major", "col", "cols", "column-major", "column":
		return ColMajor, nil
	}
	return RowMajor, errors.New(errors.ErrCodeInvalidOrder, "invalid traversal order: %q (must be row-major or col-major)", s)
}

// Shape is the number of rows and columns in a grid.
type Shape struct {
	Rows int
	Cols int
}

// Cells returns the total number of cells in the grid.
func (s Shape) Cells() int {
	return s.Rows * s.Cols
}

// String formats the shape as "RxC".
func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Rows, s.Cols)
}

// CellSize is the dimensions of a single cell in inches. Pixel dimensions are
// derived with Pixels; keeping the size in inches preserves the conventional
// plotting default of a 6x12 inch cell regardless of output resolution.
type CellSize struct {
	Width  float64
	Height float64
}

// Pixels converts the cell size to pixel dimensions at the given DPI.
func (c CellSize) Pixels(dpi int) (w, h int) {
	return int(c.Width * float64(dpi)), int(c.Height * float64(dpi))
}

// CellAt maps a linear task index to the (row, col) coordinate it renders
// into. The mapping is a bijection from [0, shape.Cells()) onto the grid for
// both traversal orders. Indexes outside that range are a caller error; the
// returned coordinate would fall outside the grid.
func CellAt(index int, shape Shape, order Order) (row, col int) {
	if order == ColMajor {
		return index % shape.Rows, index / shape.Rows
	}
	return index / shape.Cols, index % shape.Cols
}
