package server

import (
	"bytes"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	ts := httptest.NewServer(New(logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}

func TestRenderReturnsPNG(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/render?rows=2&cols=2&renderer=solid&dpi=10")
	if err != nil {
		t.Fatalf("GET /render failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("response is not a PNG: %v", err)
	}

	// 2x2 grid of 2x2 inch cells at 10 DPI, no labels.
	bounds := img.Bounds()
	if bounds.Dx() != 40 || bounds.Dy() != 40 {
		t.Errorf("composite is %dx%d, want 40x40", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderColMajorWithLabels(t *testing.T) {
	ts := newTestServer(t)

	url := ts.URL + "/render?rows=2&cols=2&order=col-major&dpi=10&col-labels=a,b&row-labels=x,y"
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET /render failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body: %s", resp.StatusCode, body)
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name  string
		query string
	}{
		{"zero rows", "rows=0&cols=3"},
		{"negative cols", "rows=2&cols=-1"},
		{"non-numeric", "rows=two&cols=3"},
		{"unknown renderer", "rows=2&cols=2&renderer=mandelbrot"},
		{"unknown order", "rows=2&cols=2&order=diagonal"},
		{"too many cells", "rows=100&cols=100"},
		{"mismatched labels", "rows=2&cols=3&col-labels=a,b"},
		{"negative count", "rows=2&cols=2&count=-1"},
		{"negative implied count", "rows=-2&cols=3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/render?" + tt.query)
			if err != nil {
				t.Fatalf("GET failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
			}
		})
	}
}
