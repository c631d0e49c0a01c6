package chess

// CastlingRights records, for one side, which castling participants have
// moved. Flags only ever go from false to true.
type CastlingRights struct {
	KingMoved          bool
	KingsideRookMoved  bool
	QueensideRookMoved bool
}

type cell struct {
	piece    Piece
	occupied bool
}

// Board is the complete mutable state of a game: the grid, castling rights
// and the en-passant target. It contains no pointers, so assigning a Board
// copies all of it.
type Board struct {
	squares  [8][8]cell
	castling [2]CastlingRights

	enPassant    Square
	hasEnPassant bool
}

var backRankOrder = [8]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns a board in the standard starting position.
func NewBoard() Board {
	var b Board
	b.Reset()
	return b
}

// Reset puts the board back into the standard starting position and clears
// castling rights and the en-passant target.
func (b *Board) Reset() {
	*b = Board{}
	for col, kind := range backRankOrder {
		b.put(Sq(0, col), Piece{kind, Black})
		b.put(Sq(1, col), Piece{Pawn, Black})
		b.put(Sq(6, col), Piece{Pawn, White})
		b.put(Sq(7, col), Piece{kind, White})
	}
}

// PieceAt returns the piece on sq. Out-of-range squares are reported as
// empty.
func (b *Board) PieceAt(sq Square) (Piece, bool) {
	if !sq.Valid() {
		return Piece{}, false
	}
	c := b.squares[sq.Row][sq.Col]
	return c.piece, c.occupied
}

func (b *Board) empty(sq Square) bool {
	_, ok := b.PieceAt(sq)
	return sq.Valid() && !ok
}

// holds reports whether sq contains a piece of the given side.
func (b *Board) holds(sq Square, side Side) bool {
	p, ok := b.PieceAt(sq)
	return ok && p.Side == side
}

func (b *Board) holdsPiece(sq Square, want Piece) bool {
	p, ok := b.PieceAt(sq)
	return ok && p == want
}

// CastlingRights returns the castling flags for side.
func (b *Board) CastlingRights(side Side) CastlingRights {
	return b.castling[side]
}

// EnPassantTarget returns the square skipped by the last two-square pawn
// advance, if the previous move was one.
func (b *Board) EnPassantTarget() (Square, bool) {
	return b.enPassant, b.hasEnPassant
}

// Squares returns every occupied square holding a piece of side, in row
// major order.
func (b *Board) Squares(side Side) []Square {
	var out []Square
	for row := range 8 {
		for col := range 8 {
			if c := b.squares[row][col]; c.occupied && c.piece.Side == side {
				out = append(out, Sq(row, col))
			}
		}
	}
	return out
}

func (b *Board) kingSquare(side Side) (Square, bool) {
	king := Piece{King, side}
	for row := range 8 {
		for col := range 8 {
			if c := b.squares[row][col]; c.occupied && c.piece == king {
				return Sq(row, col), true
			}
		}
	}
	return Square{}, false
}

func (b *Board) put(sq Square, p Piece) {
	b.squares[sq.Row][sq.Col] = cell{piece: p, occupied: true}
}

func (b *Board) clear(sq Square) {
	b.squares[sq.Row][sq.Col] = cell{}
}
