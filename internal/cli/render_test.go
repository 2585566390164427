package cli

import (
	"context"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/gridplot/gridplot/pkg/errors"
)

func TestParseLabels(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "foo", []string{"foo"}},
		{"multiple", "a,b,c", []string{"a", "b", "c"}},
		{"trims spaces", "a, b , c", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseLabels(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseLabels(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// testContext carries the test CLI's logger, as the root command would.
func testContext(c *CLI) context.Context {
	return withLogger(context.Background(), c.Logger)
}

func TestRunRenderPlain(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.png")

	c := New(io.Discard, LogInfo)
	opts := &renderOpts{
		rows:       1,
		cols:       2,
		renderer:   "solid",
		order:      "row-major",
		cellWidth:  0.5,
		cellHeight: 0.5,
		dpi:        10,
		cacheDir:   filepath.Join(dir, "figcache"),
		output:     output,
		plain:      true,
	}

	if err := c.runRender(testContext(c), opts); err != nil {
		t.Fatalf("runRender failed: %v", err)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 5 {
		t.Errorf("composite is %dx%d, want 10x5", img.Bounds().Dx(), img.Bounds().Dy())
	}

	if _, err := os.Stat(opts.cacheDir); !os.IsNotExist(err) {
		t.Error("artifact cache should be removed after assembly")
	}
}

func TestRunRenderRejectsBadFlags(t *testing.T) {
	c := New(io.Discard, LogInfo)

	tests := []struct {
		name string
		opts renderOpts
	}{
		{"bad order", renderOpts{rows: 2, cols: 2, renderer: "solid", order: "diagonal"}},
		{"bad renderer", renderOpts{rows: 2, cols: 2, renderer: "mandelbrot", order: "row-major"}},
		{"bad shape", renderOpts{rows: 0, cols: 2, renderer: "solid", order: "row-major"}},
		{"negative count", renderOpts{rows: 2, cols: 2, renderer: "solid", order: "row-major", count: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.plain = true
			opts.output = filepath.Join(t.TempDir(), "out.png")
			opts.cacheDir = filepath.Join(t.TempDir(), "figcache")
			if err := c.runRender(testContext(c), &opts); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRunRenderRejectsNegativeCount(t *testing.T) {
	c := New(io.Discard, LogInfo)
	opts := &renderOpts{
		rows:     2,
		cols:     2,
		renderer: "solid",
		order:    "row-major",
		count:    -1,
		plain:    true,
		output:   filepath.Join(t.TempDir(), "out.png"),
		cacheDir: filepath.Join(t.TempDir(), "figcache"),
	}

	err := c.runRender(testContext(c), opts)
	if err == nil {
		t.Fatal("expected an error for a negative count")
	}
	if !errors.Is(err, errors.ErrCodeInvalidTotal) {
		t.Errorf("expected INVALID_TOTAL, got %v", err)
	}

	if _, serr := os.Stat(opts.cacheDir); !os.IsNotExist(serr) {
		t.Error("no cache namespace should be created for a rejected config")
	}
}

func TestRunRenderValidatesBeforeOpeningStore(t *testing.T) {
	c := New(io.Discard, LogInfo)
	opts := &renderOpts{
		rows:      0,
		cols:      2,
		renderer:  "solid",
		order:     "row-major",
		redisAddr: "127.0.0.1:1", // nothing listens here; must never be dialed
		plain:     true,
		output:    filepath.Join(t.TempDir(), "out.png"),
	}

	err := c.runRender(testContext(c), opts)
	if err == nil {
		t.Fatal("expected an error for an invalid shape")
	}
	if !errors.Is(err, errors.ErrCodeInvalidShape) {
		t.Errorf("expected INVALID_SHAPE before any store is opened, got %v", err)
	}
}
