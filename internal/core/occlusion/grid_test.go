package occlusion

import (
	"errors"
	"testing"
)

func TestNewRejectsBadShapes(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("Expected ErrEmpty for nil grid, got %v", err)
	}
	if _, err := New([][]uint8{{}}); !errors.Is(err, ErrEmpty) {
		t.Errorf("Expected ErrEmpty for zero columns, got %v", err)
	}
	_, err := New([][]uint8{{0, 0}, {0}})
	if !errors.Is(err, ErrRagged) {
		t.Errorf("Expected ErrRagged, got %v", err)
	}
}

func TestIsWall(t *testing.T) {
	g, err := New([][]uint8{
		{1, 1, 1},
		{1, 0, 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	if g.Width() != 3 || g.Height() != 2 {
		t.Fatalf("Expected 3x2, got %dx%d", g.Width(), g.Height())
	}

	cases := []struct {
		name   string
		tx, ty int
		want   bool
	}{
		{"floor", 1, 1, false},
		{"wall", 0, 0, true},
		{"non-zero counts as wall", 2, 1, true},
		{"left of grid", -1, 1, true},
		{"below grid", 1, 2, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := g.IsWall(tc.tx, tc.ty); got != tc.want {
				t.Errorf("IsWall(%d,%d) = %v; want %v", tc.tx, tc.ty, got, tc.want)
			}
		})
	}
}

func TestTileAtFloorsNegatives(t *testing.T) {
	tx, ty := TileAt(-1, 33, 32)
	if tx != -1 || ty != 1 {
		t.Errorf("Expected (-1, 1), got (%d, %d)", tx, ty)
	}
	cx, cy := TileCenter(2, 3, 32)
	if cx != 80 || cy != 112 {
		t.Errorf("Expected center (80, 112), got (%v, %v)", cx, cy)
	}
}

func TestNewCopiesInput(t *testing.T) {
	cells := [][]uint8{{0, 0}}
	g, err := New(cells)
	if err != nil {
		t.Fatal(err)
	}
	cells[0][0] = 1
	if g.IsWall(0, 0) {
		t.Error("Grid must not alias the caller's slice")
	}
}
