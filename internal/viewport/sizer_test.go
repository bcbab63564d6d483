package viewport

import "testing"

func TestComputeCellSize(t *testing.T) {
	cases := []struct {
		name  string
		width int
		cols  int
		want  int
	}{
		{"small grid capped at max", 600, 3, 30},
		{"fits exactly", 310, 10, 30},
		{"medium", 200, 10, 19},
		{"large grid floored at min", 100, 30, 5},
		{"narrow container", 10, 30, 5},
		{"zero columns", 100, 0, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeCellSize(tc.width, tc.cols, DefaultMaxCell, DefaultMinCell); got != tc.want {
				t.Fatalf("ComputeCellSize(%d, %d) = %d, want %d", tc.width, tc.cols, got, tc.want)
			}
		})
	}
}

func TestLayoutOverflow(t *testing.T) {
	s := DefaultSizer()
	if l := s.Layout(600, 3); l.Scrollable || l.CellSize != 30 {
		t.Fatalf("expected non-scrollable 30px cells, got %+v", l)
	}
	if l := s.Layout(100, 30); !l.Scrollable || l.CellSize != 5 {
		t.Fatalf("expected scrollable 5px cells, got %+v", l)
	}
}

func TestNarrowerContainerShrinksCells(t *testing.T) {
	s := Sizer{MaxCell: 4, MinCell: 1}
	wide := s.Layout(120, 10)
	narrow := s.Layout(30, 10)
	if narrow.CellSize >= wide.CellSize {
		t.Fatalf("expected narrower container to shrink cells: wide=%d narrow=%d", wide.CellSize, narrow.CellSize)
	}
}
