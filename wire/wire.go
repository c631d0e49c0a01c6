// Package wire encodes the text lines two peers exchange during a game:
//
//	MOVE r1,c1 r2,c2
//	GAMEOVER WHITE|BLACK|DRAW
//
// A line carries intent only. Receivers must replay a MOVE through their own
// rules engine rather than trust it.
package wire

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/imjasonh/chessrelay/chess"
)

// ErrMalformed is returned for lines that are not valid messages.
var ErrMalformed = errors.New("malformed message")

// Type identifies the kind of message.
type Type uint8

const (
	TypeMove Type = iota + 1
	TypeGameOver
)

const (
	verbMove     = "MOVE"
	verbGameOver = "GAMEOVER"
)

// Message is one parsed line. From and To are set for TypeMove, Result for
// TypeGameOver.
type Message struct {
	Type     Type
	From, To chess.Square
	Result   chess.Result
}

// Move builds a MOVE message.
func Move(from, to chess.Square) Message {
	return Message{Type: TypeMove, From: from, To: to}
}

// GameOver builds a GAMEOVER message announcing r.
func GameOver(r chess.Result) Message {
	return Message{Type: TypeGameOver, Result: r}
}

// String renders the message without a trailing newline.
func (m Message) String() string {
	switch m.Type {
	case TypeMove:
		return fmt.Sprintf("%s %d,%d %d,%d", verbMove, m.From.Row, m.From.Col, m.To.Row, m.To.Col)
	case TypeGameOver:
		return verbGameOver + " " + resultToken(m.Result)
	}
	return ""
}

func resultToken(r chess.Result) string {
	switch r {
	case chess.WhiteWins:
		return "WHITE"
	case chess.BlackWins:
		return "BLACK"
	}
	return "DRAW"
}

// Parse decodes one line. Leading and trailing whitespace, including a line
// terminator, is ignored.
func Parse(line string) (Message, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Message{}, fmt.Errorf("%w: empty line", ErrMalformed)
	}

	switch fields[0] {
	case verbMove:
		if len(fields) != 3 {
			return Message{}, fmt.Errorf("%w: MOVE wants 2 squares, got %d", ErrMalformed, len(fields)-1)
		}
		from, err := parseSquare(fields[1])
		if err != nil {
			return Message{}, err
		}
		to, err := parseSquare(fields[2])
		if err != nil {
			return Message{}, err
		}
		return Move(from, to), nil

	case verbGameOver:
		if len(fields) != 2 {
			return Message{}, fmt.Errorf("%w: GAMEOVER wants 1 result, got %d", ErrMalformed, len(fields)-1)
		}
		switch fields[1] {
		case "WHITE":
			return GameOver(chess.WhiteWins), nil
		case "BLACK":
			return GameOver(chess.BlackWins), nil
		case "DRAW":
			return GameOver(chess.Draw), nil
		}
		return Message{}, fmt.Errorf("%w: unknown result %q", ErrMalformed, fields[1])
	}
	return Message{}, fmt.Errorf("%w: unknown verb %q", ErrMalformed, fields[0])
}

func parseSquare(s string) (chess.Square, error) {
	row, col, ok := strings.Cut(s, ",")
	if !ok {
		return chess.Square{}, fmt.Errorf("%w: square %q is not row,col", ErrMalformed, s)
	}
	r, err := strconv.Atoi(row)
	if err != nil {
		return chess.Square{}, fmt.Errorf("%w: row %q: %v", ErrMalformed, row, err)
	}
	c, err := strconv.Atoi(col)
	if err != nil {
		return chess.Square{}, fmt.Errorf("%w: column %q: %v", ErrMalformed, col, err)
	}
	sq := chess.Sq(r, c)
	if !sq.Valid() {
		return chess.Square{}, fmt.Errorf("%w: square %q off the board", ErrMalformed, s)
	}
	return sq, nil
}
