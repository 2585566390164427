package grid

import "testing"

func TestCellAtRowMajor(t *testing.T) {
	shape := Shape{Rows: 2, Cols: 3}

	want := [][2]int{
		{0, 0}, {0, 1}, {0, 2},
		{1, 0}, {1, 1}, {1, 2},
	}

	for i, w := range want {
		row, col := CellAt(i, shape, RowMajor)
		if row != w[0] || col != w[1] {
			t.Errorf("CellAt(%d, RowMajor) = (%d, %d), want (%d, %d)", i, row, col, w[0], w[1])
		}
	}
}

func TestCellAtColMajor(t *testing.T) {
	shape := Shape{Rows: 2, Cols: 3}

	want := [][2]int{
		{0, 0}, {1, 0},
		{0, 1}, {1, 1},
		{0, 2}, {1, 2},
	}

	for i, w := range want {
		row, col := CellAt(i, shape, ColMajor)
		if row != w[0] || col != w[1] {
			t.Errorf("CellAt(%d, ColMajor) = (%d, %d), want (%d, %d)", i, row, col, w[0], w[1])
		}
	}
}

// TestCellAtBijection verifies that for several shapes and both orders, the
// mapping covers every cell exactly once.
func TestCellAtBijection(t *testing.T) {
	shapes := []Shape{
		{Rows: 1, Cols: 1},
		{Rows: 1, Cols: 7},
		{Rows: 7, Cols: 1},
		{Rows: 2, Cols: 3},
		{Rows: 5, Cols: 4},
	}

	for _, shape := range shapes {
		for _, order := range []Order{RowMajor, ColMajor} {
			seen := make(map[[2]int]int)
			for i := 0; i < shape.Cells(); i++ {
				row, col := CellAt(i, shape, order)
				if row < 0 || row >= shape.Rows || col < 0 || col >= shape.Cols {
					t.Fatalf("shape %s order %s: CellAt(%d) = (%d, %d) out of bounds", shape, order, i, row, col)
				}
				if prev, dup := seen[[2]int{row, col}]; dup {
					t.Fatalf("shape %s order %s: indexes %d and %d both map to (%d, %d)", shape, order, prev, i, row, col)
				}
				seen[[2]int{row, col}] = i
			}
			if len(seen) != shape.Cells() {
				t.Errorf("shape %s order %s: mapped %d cells, want %d", shape, order, len(seen), shape.Cells())
			}
		}
	}
}

func TestParseOrder(t *testing.T) {
	tests := []struct {
		in      string
		want    Order
		wantErr bool
	}{
		{"row-major", RowMajor, false},
		{"row", RowMajor, false},
		{"col-major", ColMajor, false},
		{"column", ColMajor, false},
		{"diagonal", RowMajor, true},
		{"", RowMajor, true},
	}

	for _, tt := range tests {
		got, err := ParseOrder(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseOrder(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseOrder(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseOrder(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCellSizePixels(t *testing.T) {
	w, h := CellSize{Width: 6, Height: 12}.Pixels(100)
	if w != 600 || h != 1200 {
		t.Errorf("Pixels(100) = (%d, %d), want (600, 1200)", w, h)
	}

	w, h = CellSize{Width: 1.5, Height: 2}.Pixels(72)
	if w != 108 || h != 144 {
		t.Errorf("Pixels(72) = (%d, %d), want (108, 144)", w, h)
	}
}
