package chess

import (
	"fmt"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// FEN describes the board in Forsyth-Edwards Notation with toMove to play.
// A castling letter is emitted only when the rights flags allow it and the
// king and rook still stand on their home squares. Move clocks are not
// tracked and are always "0 1".
func (b *Board) FEN(toMove Side) string {
	var sb strings.Builder
	for row := range 8 {
		if row > 0 {
			sb.WriteByte('/')
		}
		gap := 0
		for col := range 8 {
			p, ok := b.PieceAt(Sq(row, col))
			if !ok {
				gap++
				continue
			}
			if gap > 0 {
				sb.WriteByte(byte('0' + gap))
				gap = 0
			}
			sb.WriteByte(p.FENLetter())
		}
		if gap > 0 {
			sb.WriteByte(byte('0' + gap))
		}
	}

	if toMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}
	sb.WriteString(b.castlingField())
	sb.WriteByte(' ')
	if sq, ok := b.EnPassantTarget(); ok {
		sb.WriteString(sq.Name())
	} else {
		sb.WriteByte('-')
	}
	sb.WriteString(" 0 1")
	return sb.String()
}

func (b *Board) castlingField() string {
	var out []byte
	for _, side := range []Side{White, Black} {
		rank := side.backRank()
		rights := b.castling[side]
		if rights.KingMoved || !b.holdsPiece(Sq(rank, 4), Piece{King, side}) {
			continue
		}
		rook := Piece{Rook, side}
		k, q := byte('K'), byte('Q')
		if side == Black {
			k, q = 'k', 'q'
		}
		if !rights.KingsideRookMoved && b.holdsPiece(Sq(rank, 7), rook) {
			out = append(out, k)
		}
		if !rights.QueensideRookMoved && b.holdsPiece(Sq(rank, 0), rook) {
			out = append(out, q)
		}
	}
	if len(out) == 0 {
		return "-"
	}
	return string(out)
}

// ParseFEN reads a FEN position. The move clock fields are optional and
// ignored. Positions without exactly one king per side are rejected.
func ParseFEN(fen string) (Board, Side, error) {
	var b Board
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return b, White, fmt.Errorf("%w: want at least 4 fields, got %d", ErrBadFEN, len(fields))
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return b, White, fmt.Errorf("%w: want 8 ranks, got %d", ErrBadFEN, len(ranks))
	}
	kings := [2]int{}
	for row, rank := range ranks {
		col := 0
		for _, r := range rank {
			if r >= '1' && r <= '8' {
				col += int(r - '0')
				continue
			}
			p, ok := pieceFromLetter(r)
			if !ok {
				return b, White, fmt.Errorf("%w: unknown piece %q", ErrBadFEN, r)
			}
			if col >= 8 {
				return b, White, fmt.Errorf("%w: rank %d too long", ErrBadFEN, 8-row)
			}
			if p.Kind == King {
				kings[p.Side]++
			}
			b.put(Sq(row, col), p)
			col++
		}
		if col != 8 {
			return b, White, fmt.Errorf("%w: rank %d has %d squares", ErrBadFEN, 8-row, col)
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return b, White, fmt.Errorf("%w: need one king per side, got %d white and %d black", ErrBadFEN, kings[White], kings[Black])
	}

	var turn Side
	switch fields[1] {
	case "w":
		turn = White
	case "b":
		turn = Black
	default:
		return b, White, fmt.Errorf("%w: side to move %q", ErrBadFEN, fields[1])
	}

	if err := b.parseCastling(fields[2]); err != nil {
		return b, White, err
	}

	if fields[3] != "-" {
		sq, ok := ParseSquareName(fields[3])
		if !ok || (sq.Row != 2 && sq.Row != 5) {
			return b, White, fmt.Errorf("%w: en passant square %q", ErrBadFEN, fields[3])
		}
		b.enPassant, b.hasEnPassant = sq, true
	}
	return b, turn, nil
}

func (b *Board) parseCastling(field string) error {
	var allowed [2][2]bool // [side][kingside, queenside]
	if field != "-" {
		for _, r := range field {
			switch r {
			case 'K':
				allowed[White][0] = true
			case 'Q':
				allowed[White][1] = true
			case 'k':
				allowed[Black][0] = true
			case 'q':
				allowed[Black][1] = true
			default:
				return fmt.Errorf("%w: castling field %q", ErrBadFEN, field)
			}
		}
	}
	for _, side := range []Side{White, Black} {
		home := b.holdsPiece(Sq(side.backRank(), 4), Piece{King, side})
		b.castling[side] = CastlingRights{
			KingMoved:          !home || (!allowed[side][0] && !allowed[side][1]),
			KingsideRookMoved:  !allowed[side][0],
			QueensideRookMoved: !allowed[side][1],
		}
	}
	return nil
}

func pieceFromLetter(r rune) (Piece, bool) {
	side := White
	if r >= 'a' && r <= 'z' {
		side = Black
		r -= 'a' - 'A'
	}
	k := strings.IndexRune("PNBRQK", r)
	if k < 0 {
		return Piece{}, false
	}
	return Piece{Kind(k), side}, true
}

// ParseSquareName parses a square name such as "e4".
func ParseSquareName(name string) (Square, bool) {
	if len(name) != 2 {
		return Square{}, false
	}
	sq := Sq(8-int(name[1]-'0'), int(name[0]-'a'))
	return sq, sq.Valid()
}
