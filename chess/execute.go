package chess

import (
	"fmt"
	"slices"
)

// Move describes a committed move and its side effects.
type Move struct {
	From, To Square
	Piece    Piece

	// Captured is valid when Capture is set. For en passant it is the pawn
	// removed beside the destination.
	Captured Piece
	Capture  bool

	Castle    bool
	EnPassant bool
	Promotion bool
}

type applyMode uint8

const (
	// simulate applies a move to a board that the caller restores
	// afterwards.
	simulate applyMode = iota
	commit
)

// MovePiece validates and executes a move for side. It fails with
// ErrNoPiece when from does not hold a piece of side and with
// ErrIllegalMove when to is not among LegalMovesFrom(from). A failed call
// leaves the board untouched.
func (b *Board) MovePiece(from, to Square, side Side) (Move, error) {
	if !b.holds(from, side) {
		return Move{}, fmt.Errorf("%w: %s on %s", ErrNoPiece, side, from.Name())
	}
	if !slices.Contains(b.LegalMovesFrom(from), to) {
		return Move{}, fmt.Errorf("%w: %s to %s", ErrIllegalMove, from.Name(), to.Name())
	}
	return b.apply(from, to, commit), nil
}

// apply executes from -> to without any legality check. from must hold a
// piece.
func (b *Board) apply(from, to Square, mode applyMode) Move {
	p, _ := b.PieceAt(from)
	m := Move{From: from, To: to, Piece: p}

	priorEP, hadEP := b.enPassant, b.hasEnPassant
	b.enPassant, b.hasEnPassant = Square{}, false

	if p.Kind == King && abs(to.Col-from.Col) == 2 {
		rookFrom, rookTo := Sq(from.Row, 7), Sq(from.Row, to.Col-1)
		if to.Col < from.Col {
			rookFrom, rookTo = Sq(from.Row, 0), Sq(from.Row, to.Col+1)
		}
		b.relocate(rookFrom, rookTo)
		b.touchRookHome(rookFrom)
		m.Castle = true
	}

	if p.Kind == Pawn && to.Col != from.Col && b.empty(to) && hadEP && to == priorEP {
		victim := Sq(from.Row, to.Col)
		m.Captured, m.Capture = b.PieceAt(victim)
		b.clear(victim)
		m.EnPassant = true
	}

	if captured, ok := b.PieceAt(to); ok {
		m.Captured, m.Capture = captured, true
		// A rook taken on its home square can never castle.
		b.touchRookHome(to)
	}
	b.relocate(from, to)

	if p.Kind == Pawn {
		if to.Row == p.Side.Opponent().backRank() {
			b.put(to, Piece{Queen, p.Side})
			m.Promotion = true
		}
		if abs(to.Row-from.Row) == 2 {
			b.enPassant, b.hasEnPassant = Sq((from.Row+to.Row)/2, from.Col), true
		}
	}

	switch p.Kind {
	case King:
		b.castling[p.Side].KingMoved = true
	case Rook:
		b.touchRookHome(from)
	}

	if mode == commit {
		b.assertKings()
	}
	return m
}

func (b *Board) relocate(from, to Square) {
	p, ok := b.PieceAt(from)
	if !ok {
		return
	}
	b.clear(from)
	b.put(to, p)
}

// touchRookHome marks the castling rook that starts on sq, if any, as moved.
// The check is by square identity only.
func (b *Board) touchRookHome(sq Square) {
	for _, side := range []Side{White, Black} {
		if sq.Row != side.backRank() {
			continue
		}
		switch sq.Col {
		case 0:
			b.castling[side].QueensideRookMoved = true
		case 7:
			b.castling[side].KingsideRookMoved = true
		}
	}
}

func (b *Board) assertKings() {
	for _, side := range []Side{White, Black} {
		if _, ok := b.kingSquare(side); !ok {
			panic(fmt.Sprintf("chess: %s king captured", side))
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
