package chess

// Candidate is a legal move for the side to move, as an origin and
// destination pair.
type Candidate struct {
	From, To Square
}

// LegalMovesFrom returns the destinations of the piece on from that do not
// leave its own king attacked. Each pseudo-legal candidate is tried on the
// board and the complete prior state (grid, castling rights, en-passant
// target) is restored afterwards, so pins and discovered checks are seen.
func (b *Board) LegalMovesFrom(from Square) []Square {
	p, ok := b.PieceAt(from)
	if !ok {
		return nil
	}
	var legal []Square
	for _, to := range b.PseudoMovesFrom(from) {
		// Kings are never captured, even when a caller moves one side twice.
		if target, ok := b.PieceAt(to); ok && target.Kind == King {
			continue
		}
		if b.keepsKingSafe(from, to, p.Side) {
			legal = append(legal, to)
		}
	}
	return legal
}

func (b *Board) keepsKingSafe(from, to Square, side Side) bool {
	saved := *b
	defer func() { *b = saved }()

	b.apply(from, to, simulate)
	return !b.InCheck(side)
}

// LegalMoves returns every legal move of side.
func (b *Board) LegalMoves(side Side) []Candidate {
	var out []Candidate
	for _, from := range b.Squares(side) {
		for _, to := range b.LegalMovesFrom(from) {
			out = append(out, Candidate{From: from, To: to})
		}
	}
	return out
}

// HasLegalMove reports whether side has at least one legal move.
func (b *Board) HasLegalMove(side Side) bool {
	for _, from := range b.Squares(side) {
		if len(b.LegalMovesFrom(from)) > 0 {
			return true
		}
	}
	return false
}
