package chess

// GameState is the status of one side, derived from the board.
type GameState uint8

const (
	InProgress GameState = iota
	Check
	Checkmate
	Stalemate
)

func (s GameState) String() string {
	switch s {
	case Check:
		return "Check"
	case Checkmate:
		return "Checkmate"
	case Stalemate:
		return "Stalemate"
	}
	return "InProgress"
}

// Over reports whether the state ends the game.
func (s GameState) Over() bool {
	return s == Checkmate || s == Stalemate
}

// StateFor reports side's state: Checkmate or Stalemate when side has no
// legal move (told apart by whether its king is attacked), otherwise Check
// or InProgress.
func (b *Board) StateFor(side Side) GameState {
	inCheck := b.InCheck(side)
	if !b.HasLegalMove(side) {
		if inCheck {
			return Checkmate
		}
		return Stalemate
	}
	if inCheck {
		return Check
	}
	return InProgress
}
