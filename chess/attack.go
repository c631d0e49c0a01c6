package chess

import "fmt"

// IsSquareAttacked reports whether any piece of side by could capture on sq
// by its movement pattern alone. It ignores whether making that capture
// would expose by's own king, so it never recurses into legality.
func (b *Board) IsSquareAttacked(sq Square, by Side) bool {
	if !sq.Valid() {
		return false
	}

	// A pawn of by attacks sq from one row behind it, relative to by's
	// direction of travel.
	pawn := Piece{Pawn, by}
	if b.holdsPiece(sq.offset(-by.forward(), -1), pawn) || b.holdsPiece(sq.offset(-by.forward(), 1), pawn) {
		return true
	}

	knight := Piece{Knight, by}
	for _, d := range knightOffsets {
		if b.holdsPiece(sq.offset(d.dr, d.dc), knight) {
			return true
		}
	}

	king := Piece{King, by}
	for _, d := range kingOffsets {
		if b.holdsPiece(sq.offset(d.dr, d.dc), king) {
			return true
		}
	}

	if b.rayHits(sq, diagonals, by, Bishop) || b.rayHits(sq, orthogonal, by, Rook) {
		return true
	}
	return false
}

// rayHits walks each direction from sq and reports whether the first
// occupied square holds a slider of side by that moves along it: the given
// kind or a queen.
func (b *Board) rayHits(sq Square, dirs []delta, by Side, kind Kind) bool {
	for _, d := range dirs {
		for cur := sq.offset(d.dr, d.dc); cur.Valid(); cur = cur.offset(d.dr, d.dc) {
			p, ok := b.PieceAt(cur)
			if !ok {
				continue
			}
			if p.Side == by && (p.Kind == kind || p.Kind == Queen) {
				return true
			}
			break
		}
	}
	return false
}

// InCheck reports whether side's king is attacked. Every position reachable
// through MovePiece has exactly one king per side; a missing king is a bug
// and panics.
func (b *Board) InCheck(side Side) bool {
	king, ok := b.kingSquare(side)
	if !ok {
		panic(fmt.Sprintf("chess: no %s king on the board", side))
	}
	return b.IsSquareAttacked(king, side.Opponent())
}
