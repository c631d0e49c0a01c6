package chess

type generator func(b *Board, from Square, p Piece) []Square

// generators has one entry per Kind; TestGeneratorsCoverEveryKind fails if
// a kind is added without a handler.
var generators = [numKinds]generator{
	Pawn:   (*Board).pawnMoves,
	Knight: (*Board).knightMoves,
	Bishop: func(b *Board, from Square, p Piece) []Square { return b.slide(from, p.Side, diagonals) },
	Rook:   func(b *Board, from Square, p Piece) []Square { return b.slide(from, p.Side, orthogonal) },
	Queen:  func(b *Board, from Square, p Piece) []Square { return b.slide(from, p.Side, allRays) },
	King:   (*Board).kingMoves,
}

// PseudoMovesFrom returns the destinations the piece on from could reach by
// its movement pattern, without checking whether the move leaves its own
// king attacked. King steps onto attacked squares and castling through
// check are already excluded.
func (b *Board) PseudoMovesFrom(from Square) []Square {
	p, ok := b.PieceAt(from)
	if !ok {
		return nil
	}
	return generators[p.Kind](b, from, p)
}

func (b *Board) pawnMoves(from Square, p Piece) []Square {
	var moves []Square
	fwd := p.Side.forward()

	if one := from.offset(fwd, 0); b.empty(one) {
		moves = append(moves, one)
		if two := from.offset(2*fwd, 0); from.Row == p.Side.pawnRank() && b.empty(two) {
			moves = append(moves, two)
		}
	}

	for _, dc := range []int{-1, 1} {
		to := from.offset(fwd, dc)
		switch {
		case b.holds(to, p.Side.Opponent()):
			moves = append(moves, to)
		case b.isEnPassant(from, to, p.Side):
			moves = append(moves, to)
		}
	}
	return moves
}

// isEnPassant reports whether a pawn of side moving from -> to would capture
// en passant: to is the empty en-passant target and an opponent pawn stands
// beside from on the destination column.
func (b *Board) isEnPassant(from, to Square, side Side) bool {
	if !b.hasEnPassant || to != b.enPassant || !b.empty(to) {
		return false
	}
	return b.holdsPiece(Sq(from.Row, to.Col), Piece{Pawn, side.Opponent()})
}

func (b *Board) knightMoves(from Square, p Piece) []Square {
	var moves []Square
	for _, d := range knightOffsets {
		to := from.offset(d.dr, d.dc)
		if to.Valid() && !b.holds(to, p.Side) {
			moves = append(moves, to)
		}
	}
	return moves
}

// slide casts a ray along each direction, collecting empty squares and the
// first opponent-occupied square. Any occupied square ends the ray.
func (b *Board) slide(from Square, side Side, dirs []delta) []Square {
	var moves []Square
	for _, d := range dirs {
		for to := from.offset(d.dr, d.dc); to.Valid(); to = to.offset(d.dr, d.dc) {
			p, ok := b.PieceAt(to)
			if !ok {
				moves = append(moves, to)
				continue
			}
			if p.Side != side {
				moves = append(moves, to)
			}
			break
		}
	}
	return moves
}

func (b *Board) kingMoves(from Square, p Piece) []Square {
	var moves []Square
	opp := p.Side.Opponent()
	for _, d := range kingOffsets {
		to := from.offset(d.dr, d.dc)
		if to.Valid() && !b.holds(to, p.Side) && !b.IsSquareAttacked(to, opp) {
			moves = append(moves, to)
		}
	}
	return append(moves, b.castlingMoves(from, p.Side)...)
}

// castlingMoves returns the two-column king moves available to side. The
// rook relocation is a side effect of executing the move.
func (b *Board) castlingMoves(from Square, side Side) []Square {
	rank := side.backRank()
	rights := b.castling[side]
	opp := side.Opponent()
	if from != Sq(rank, 4) || rights.KingMoved || b.IsSquareAttacked(from, opp) {
		return nil
	}

	rook := Piece{Rook, side}
	vacant := func(cols ...int) bool {
		for _, c := range cols {
			if !b.empty(Sq(rank, c)) {
				return false
			}
		}
		return true
	}

	var moves []Square
	if !rights.KingsideRookMoved && b.holdsPiece(Sq(rank, 7), rook) && vacant(5, 6) &&
		!b.IsSquareAttacked(Sq(rank, 5), opp) && !b.IsSquareAttacked(Sq(rank, 6), opp) {
		moves = append(moves, Sq(rank, 6))
	}
	if !rights.QueensideRookMoved && b.holdsPiece(Sq(rank, 0), rook) && vacant(1, 2, 3) &&
		!b.IsSquareAttacked(Sq(rank, 3), opp) && !b.IsSquareAttacked(Sq(rank, 2), opp) {
		moves = append(moves, Sq(rank, 2))
	}
	return moves
}
