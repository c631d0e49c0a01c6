// Package chess implements the rules of chess on an 8x8 board: fully legal
// move generation, check, checkmate and stalemate detection, castling,
// en passant and automatic promotion to a queen.
//
// A Board is a plain value. It is not safe for concurrent use; callers must
// serialize all access to one board.
package chess

// Side is one of the two players.
type Side uint8

const (
	White Side = iota
	Black
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == White {
		return Black
	}
	return White
}

func (s Side) String() string {
	if s == White {
		return "White"
	}
	return "Black"
}

// forward is the row delta of a pawn advance. White starts on row 6 and
// moves towards row 0.
func (s Side) forward() int {
	if s == White {
		return -1
	}
	return 1
}

// backRank is the row holding the side's king and rooks at the start.
func (s Side) backRank() int {
	if s == White {
		return 7
	}
	return 0
}

func (s Side) pawnRank() int {
	if s == White {
		return 6
	}
	return 1
}

// Kind is the type of a piece.
type Kind uint8

const (
	Pawn Kind = iota
	Knight
	Bishop
	Rook
	Queen
	King

	numKinds = int(King) + 1
)

var kindNames = [numKinds]string{"Pawn", "Knight", "Bishop", "Rook", "Queen", "King"}

func (k Kind) String() string {
	if int(k) < numKinds {
		return kindNames[k]
	}
	return "Unknown"
}

// Piece is an immutable (kind, side) pair.
type Piece struct {
	Kind Kind
	Side Side
}

var glyphs = [2][numKinds]string{
	White: {"♙", "♘", "♗", "♖", "♕", "♔"},
	Black: {"♟", "♞", "♝", "♜", "♛", "♚"},
}

// Glyph returns the unicode chess symbol of the piece.
func (p Piece) Glyph() string {
	return glyphs[p.Side][p.Kind]
}

// FENLetter returns the piece letter used in FEN: upper case for White.
func (p Piece) FENLetter() byte {
	l := "pnbrqk"[p.Kind]
	if p.Side == White {
		l -= 'a' - 'A'
	}
	return l
}

func (p Piece) String() string {
	return p.Side.String() + " " + p.Kind.String()
}
