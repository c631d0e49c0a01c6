package chess

import "errors"

var (
	ErrNoPiece     = errors.New("no piece of the moving side on the origin square")
	ErrIllegalMove = errors.New("illegal move")
	ErrNotYourTurn = errors.New("not your turn")
	ErrGameOver    = errors.New("game is over")
	ErrBadFEN      = errors.New("invalid FEN")
)
