package chess

import "fmt"

// Square is a board coordinate. Row 0 is Black's back rank, row 7 is White's.
type Square struct {
	Row, Col int
}

// Sq is shorthand for Square{row, col}.
func Sq(row, col int) Square {
	return Square{Row: row, Col: col}
}

// Valid reports whether s lies on the board.
func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

func (s Square) offset(dr, dc int) Square {
	return Square{Row: s.Row + dr, Col: s.Col + dc}
}

// Name returns the conventional square name, e.g. "e2". Display only.
func (s Square) Name() string {
	if !s.Valid() {
		return "invalid"
	}
	return fmt.Sprintf("%c%d", 'a'+s.Col, 8-s.Row)
}

func (s Square) String() string {
	return fmt.Sprintf("%d,%d", s.Row, s.Col)
}

type delta struct{ dr, dc int }

var (
	knightOffsets = []delta{
		{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
		{1, -2}, {1, 2}, {2, -1}, {2, 1},
	}
	kingOffsets = []delta{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	}
	diagonals  = []delta{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	orthogonal = []delta{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	allRays    = append(append([]delta{}, diagonals...), orthogonal...)
)
