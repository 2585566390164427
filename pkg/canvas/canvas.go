// Package canvas provides the drawing surface handed to a render callback.
//
// A Canvas wraps a gg drawing context sized for exactly one grid cell. The
// callback receives a fresh canvas per task, fully populates it, and the
// worker serializes it to the artifact store; callbacks never see the parent
// composite.
package canvas

import (
	"bytes"
	"image"

	"github.com/fogleman/gg"
)

// Canvas is a single cell's drawing surface. It embeds a gg context, so
// render callbacks have the full drawing API (paths, text, images) directly
// on the canvas.
type Canvas struct {
	*gg.Context

	width  int
	height int
}

// New creates a canvas of the given pixel dimensions with a white
// background.
func New(width, height int) *Canvas {
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	return &Canvas{Context: dc, width: width, height: height}
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	return c.height
}

// PNG serializes the canvas to PNG bytes for the artifact store.
func (c *Canvas) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Raster returns the underlying image.
func (c *Canvas) Raster() image.Image {
	return c.Image()
}
