package plot

import (
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/gridplot/gridplot/pkg/grid"
)

// labelBandInches is the height (columns) or width (rows) of the label
// margin, in inches. Bands only exist when the corresponding labels are
// configured.
const labelBandInches = 0.4

// Composite is the assembled parent canvas. It owns the full raster and the
// geometry of its cell sub-regions; workers never touch it. Placement is
// driven entirely by grid.CellAt, so the final image is independent of task
// completion order.
type Composite struct {
	dc    *gg.Context
	shape grid.Shape
	order grid.Order

	cellW, cellH int // cell size in pixels
	marginTop    int // column label band
	marginLeft   int // row label band
}

// newComposite allocates the parent canvas, draws the optional label bands,
// and normalizes the background. Labels are drawn exactly once, before any
// task result arrives.
func newComposite(opts *Options) *Composite {
	cellW, cellH := opts.CellSize.Pixels(opts.DPI)
	band := int(labelBandInches * float64(opts.DPI))

	c := &Composite{
		shape: opts.Shape,
		order: opts.Order,
		cellW: cellW,
		cellH: cellH,
	}
	if opts.ColLabels != nil {
		c.marginTop = band
	}
	if opts.RowLabels != nil {
		c.marginLeft = band
	}

	dc := gg.NewContext(c.marginLeft+opts.Shape.Cols*cellW, c.marginTop+opts.Shape.Rows*cellH)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0.2, 0.2, 0.2)

	for j, label := range opts.ColLabels {
		x := float64(c.marginLeft + j*cellW + cellW/2)
		dc.DrawStringAnchored(label, x, float64(c.marginTop)/2, 0.5, 0.5)
	}
	for i, label := range opts.RowLabels {
		x := float64(c.marginLeft) / 2
		y := float64(c.marginTop + i*cellH + cellH/2)
		dc.Push()
		dc.RotateAbout(gg.Radians(-90), x, y)
		dc.DrawStringAnchored(label, x, y, 0.5, 0.5)
		dc.Pop()
	}

	c.dc = dc
	return c
}

// place draws one decoded artifact into the sub-region its index maps to.
// Artifacts are rendered at the cell's exact pixel size; anything else is
// fitted before drawing.
func (c *Composite) place(index int, img image.Image) {
	row, col := grid.CellAt(index, c.shape, c.order)

	b := img.Bounds()
	if b.Dx() != c.cellW || b.Dy() != c.cellH {
		img = imaging.Resize(img, c.cellW, c.cellH, imaging.Lanczos)
	}
	c.dc.DrawImage(img, c.marginLeft+col*c.cellW, c.marginTop+row*c.cellH)
}

// Shape returns the grid shape.
func (c *Composite) Shape() grid.Shape {
	return c.shape
}

// Image returns the assembled raster.
func (c *Composite) Image() image.Image {
	return c.dc.Image()
}

// Bounds returns the full composite bounds, including label bands.
func (c *Composite) Bounds() image.Rectangle {
	return c.dc.Image().Bounds()
}

// Region returns the pixel rectangle of the sub-region at (row, col).
func (c *Composite) Region(row, col int) image.Rectangle {
	x := c.marginLeft + col*c.cellW
	y := c.marginTop + row*c.cellH
	return image.Rect(x, y, x+c.cellW, y+c.cellH)
}

// EncodePNG writes the composite as PNG.
func (c *Composite) EncodePNG(w io.Writer) error {
	return imaging.Encode(w, c.dc.Image(), imaging.PNG)
}

// Save writes the composite to a file; the format is derived from the
// extension (png, jpg, gif, tif, bmp).
func (c *Composite) Save(path string) error {
	return imaging.Save(c.dc.Image(), path)
}
