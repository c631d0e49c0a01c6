package chess

import (
	"errors"
	"fmt"
)

// Result is the outcome of a finished game.
type Result uint8

const (
	WhiteWins Result = iota
	BlackWins
	Draw
)

func (r Result) String() string {
	switch r {
	case WhiteWins:
		return "White wins"
	case BlackWins:
		return "Black wins"
	}
	return "Draw"
}

// Winner returns the winning side of a decisive result.
func (r Result) Winner() (Side, bool) {
	switch r {
	case WhiteWins:
		return White, true
	case BlackWins:
		return Black, true
	}
	return White, false
}

// WinFor returns the result in which side wins.
func WinFor(side Side) Result {
	if side == White {
		return WhiteWins
	}
	return BlackWins
}

// Game is a Board plus the side to move. White moves first.
type Game struct {
	board   Board
	turn    Side
	last    Move
	hasLast bool
}

// NewGame returns the standard starting position with White to move.
func NewGame() *Game {
	return &Game{board: NewBoard(), turn: White}
}

// NewGameFromFEN starts a game from a FEN position.
func NewGameFromFEN(fen string) (*Game, error) {
	b, turn, err := ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Game{board: b, turn: turn}, nil
}

// Board exposes the position for reading. Callers must not mutate it.
func (g *Game) Board() *Board { return &g.board }

// Turn is the side to move.
func (g *Game) Turn() Side { return g.turn }

// LastMove returns the most recently committed move.
func (g *Game) LastMove() (Move, bool) { return g.last, g.hasLast }

// State is the state of the side to move.
func (g *Game) State() GameState { return g.board.StateFor(g.turn) }

// Result reports the outcome once the side to move is checkmated or
// stalemated.
func (g *Game) Result() (Result, bool) {
	switch g.State() {
	case Checkmate:
		return WinFor(g.turn.Opponent()), true
	case Stalemate:
		return Draw, true
	}
	return Draw, false
}

// Move plays from -> to for the side to move and passes the turn.
func (g *Game) Move(from, to Square) (Move, error) {
	if p, ok := g.board.PieceAt(from); ok && p.Side != g.turn {
		return Move{}, fmt.Errorf("%w: %s to move", ErrNotYourTurn, g.turn)
	}
	m, err := g.board.MovePiece(from, to, g.turn)
	if err != nil {
		if errors.Is(err, ErrIllegalMove) && g.State().Over() {
			return Move{}, ErrGameOver
		}
		return Move{}, err
	}
	g.last, g.hasLast = m, true
	g.turn = g.turn.Opponent()
	return m, nil
}

// LegalMovesFrom returns the legal destinations from sq if it holds a piece
// of the side to move.
func (g *Game) LegalMovesFrom(sq Square) []Square {
	if !g.board.holds(sq, g.turn) {
		return nil
	}
	return g.board.LegalMovesFrom(sq)
}

// FEN describes the position with the side to move.
func (g *Game) FEN() string { return g.board.FEN(g.turn) }

// Reset starts a new game from the standard position.
func (g *Game) Reset() {
	*g = Game{board: NewBoard(), turn: White}
}
